// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

// Tree building errors.
var (
	ErrBuildTree   = errors.New("failed to build tree")
	ErrCombineTree = errors.New("failed to combine tree")

	ErrPanicked = errors.New("recovery from panic")
)

// Build generates a Tree from a list of records.
//
// The list is expected to be sorted by ascending level, so that parents precede their children;
// see WithSort. A record is attached to the node registered under its group & parent identifier,
// else to the root when its level equals the first record's level, else it is indexed without
// being attached. The group defaults to the first record's lower-cased type name, lists of mixed
// record types must configure it.
//
// Failing to read a record's identifier is fatal. Failing to find the parent identifier field
// places that record & all subsequent ones under the root.
func Build[T any](ctx context.Context, list []T, opts ...Option) (t *Tree, err error) {
	o := newOptions(defConfig, opts...)
	cfg := o.cfg
	t = newTree(cfg)

	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrBuildTree, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		if err != nil && cfg.Debug {
			// Skip expensive operation if not debug.
			cfg.Logger.Debugf("current tree: %s\nsource: %s", spew.Sdump(t.nodes), spew.Sdump(list))
		}
	}()

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return
	default:
		if len(list) > 0 {
			if err = build(ctx, t, o, list); err != nil {
				return
			}
		}

		if o.rootKey != "" && !strings.EqualFold(o.rootKey, DefaultRootKey) {
			err = t.setRootKey(o.rootKey)
		}
	}

	return
}

func build[T any](ctx context.Context, t *Tree, o *options, list []T) (err error) {
	cfg, fields, acc := o.cfg, o.fields, o.cfg.Accessor

	group := o.group
	if group == "" {
		group = groupOf(list[0])
	}

	logger := cfg.Logger.WithFields(logrus.Fields{"group": group, "records": len(list)})
	logger.Debug("building tree")

	if o.sort {
		// The comparator masks missing fields, check the first record instead.
		if _, err = acc(list[0], fields.Level); err != nil {
			return fmt.Errorf("sort by %s: %w", fields.Level, err)
		}

		if err = Sort(newComparator(fields.Level, cfg), list); err != nil {
			return
		}
	}

	minLevel, levelIsNumber := int64(0), false
	if value, levelErr := acc(list[0], fields.Level); levelErr == nil {
		if minLevel, levelIsNumber = asInt64(value); !levelIsNumber {
			err = cfg.warn(fmt.Errorf("%w: %s (%T) %v", ErrMalformedLevelValue, fields.Level, value, value))
			if err != nil {
				return
			}
		}
	} else {
		logger.WithError(levelErr).Debug("root placement by level disabled")
	}

	hasParentField, parentKey := true, ""
	for index, item := range list {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		node := newNode(group, item)

		// Once the parent field is known missing, all remaining records go under the root.
		var parent *Node
		if hasParentField {
			var value any
			switch value, err = acc(item, fields.ParentID); {
			case err == nil:
				parentKey = group + stringify(value)
				parent = t.nodes[parentKey]
			case errors.Is(err, ErrFieldNotFound):
				hasParentField = false
				if err = cfg.warn(fmt.Errorf("%w: record %d: %v", ErrParentFieldMissing, index, err)); err != nil {
					return
				}
			default:
				return fmt.Errorf("record %d: %w", index, err)
			}
		}
		if !hasParentField {
			parent = t.root
		}

		switch {
		case parent != nil:
			parent.addChild(node)
		case levelIsNumber:
			var rootAdjacent bool
			if rootAdjacent, err = isMinLevel(cfg, item, fields.Level, minLevel); err != nil {
				return
			}
			if rootAdjacent {
				t.root.addChild(node)
				break
			}
			fallthrough
		default:
			if err = cfg.warn(fmt.Errorf("%w: record %d: parent %s", ErrOrphanNode, index, parentKey)); err != nil {
				return
			}
		}

		var id any
		if id, err = acc(item, fields.ID); err != nil {
			return fmt.Errorf("record %d: %w", index, err)
		}
		if err = t.register(cfg, group+stringify(id), node); err != nil {
			return
		}
	}

	return
}

// isMinLevel checks a record's level against the minimum level.
//
// Unreadable levels are reported as ErrMalformedLevelValue warnings.
func isMinLevel(cfg *Config, item any, levelField string, minLevel int64) (ok bool, err error) {
	value, err := cfg.Accessor(item, levelField)
	if err != nil {
		return false, cfg.warn(fmt.Errorf("%w: %v", ErrMalformedLevelValue, err))
	}

	level, isNumber := asInt64(value)
	if !isNumber {
		return false, cfg.warn(fmt.Errorf("%w: %s (%T) %v", ErrMalformedLevelValue, levelField, value, value))
	}

	return level == minLevel, nil
}
