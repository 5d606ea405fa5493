// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
)

// Combine grafts a list of records onto an existing Tree, one level deep.
//
// A record is attached to the node registered under the parent group & its parent identifier,
// and registered under the node group & its identifier whether attached or not. The node group
// defaults to the first record's lower-cased type name, the parent group to the node group.
//
// Records that can themselves be built into a Tree should be built & grafted with
// Tree.CombineTrees.
func Combine[T any](ctx context.Context, t *Tree, list []T, opts ...Option) (err error) {
	o := newOptions(t.cfg, opts...)
	cfg := o.cfg

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		if err != nil {
			if cfg.Debug {
				cfg.Logger.Debugf("current tree: %s\nsource: %s", spew.Sdump(t.nodes), spew.Sdump(list))
			}

			err = fmt.Errorf("%w: %w", ErrCombineTree, err)
		}
	}()

	if len(list) < 1 {
		return
	}

	group := o.group
	if group == "" {
		group = groupOf(list[0])
	}
	parentGroup := o.parentGroup
	if parentGroup == "" {
		parentGroup = group
	}

	cfg.Logger.WithFields(logrus.Fields{
		"group":        group,
		"parent_group": parentGroup,
		"records":      len(list),
	}).Debug("combining records")

	fields, acc := o.fields, cfg.Accessor
	for index, item := range list {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		node := newNode(group, item)

		var parentID any
		if parentID, err = acc(item, fields.ParentID); err != nil {
			return fmt.Errorf("record %d: %w", index, err)
		}

		parentKey := parentGroup + stringify(parentID)
		if parent, ok := t.nodes[parentKey]; ok {
			parent.addChild(node)
		} else if err = cfg.warn(fmt.Errorf("%w: record %d: parent %s", ErrOrphanNode, index, parentKey)); err != nil {
			return
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

// CombineTrees grafts whole Trees onto the Tree.
//
// The root's children of each subtree are appended to the node registered under the subtree's
// root key; the subtree's root entry is then removed from its index & the remaining entries
// merged into the Tree's index, later entries replacing earlier ones. A subtree whose root key is
// not registered is skipped.
func (t *Tree) CombineTrees(ctx context.Context, subtrees ...*Tree) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrCombineTree, err)
		}
	}()

	for _, sub := range subtrees {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Grafting a Tree onto itself would drop its own root entry.
		if sub == nil || sub == t {
			continue
		}

		target, ok := t.nodes[sub.rootKey]
		if !ok {
			if err = t.cfg.warn(fmt.Errorf("%w: %s", ErrSubtreeRootMissing, sub.rootKey)); err != nil {
				return
			}
			continue
		}

		t.cfg.Logger.WithFields(logrus.Fields{
			"root_key": sub.rootKey,
			"nodes":    len(sub.nodes) - 1,
		}).Debug("combining subtree")

		for _, child := range sub.root.children {
			target.addChild(child)
		}

		delete(sub.nodes, sub.rootKey)
		for _, key := range sub.Keys() {
			if err = t.register(t.cfg, key, sub.nodes[key]); err != nil {
				return
			}
		}
	}

	return
}
