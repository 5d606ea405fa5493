// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/fisherprime/rowtree/lexer"
)

// Deserialization errors.
var (
	ErrInvalidShape        = errors.New("invalid tree shape")
	ErrExcessiveValues     = errors.New("the deserialization source has excessive values")
	ErrExcessiveEndMarkers = errors.New("the deserialization source has excessive end markers")
)

// Deserialize transforms a serialized shape into a Tree; each node's item is its key.
//
// The source is configured with lexer.WithSource. An invalid source results in a truncated Tree.
func Deserialize(ctx context.Context, opts ...lexer.Option) (t *Tree, err error) {
	l := lexer.New(opts...)
	t = newTree(defConfig)

	lexCtx, lexCancel := context.WithCancel(ctx)
	defer lexCancel()
	go l.Lex(lexCtx)

	// Unmatched end markers return early, continue to consume the source.
	for eof := false; !eof; {
		if eof, err = t.deserialize(ctx, l, t.root); err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidShape, err)
			return
		}
	}

	switch diff := l.ValueCounter() - l.EndCounter(); {
	case diff > 0:
		err = fmt.Errorf("%w: +%d", ErrExcessiveValues, diff)
	case diff < 0:
		err = fmt.Errorf("%w: %s +%d", ErrExcessiveEndMarkers, string(l.Config().EndMarker), -diff)
	}

	if err == nil && l.Config().Debug {
		levels, _ := t.AllNodesByLevel(ctx)
		l.Config().Logger.Debugf("tree: %+v", levels.Keys())
	}

	return
}

// deserialize performs the deserialization grunt work, reading parent's children until an end
// marker or the end of the source.
func (t *Tree) deserialize(ctx context.Context, l *lexer.Lexer, parent *Node) (eof bool, err error) {
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		default:
		}

		item, proceed := l.Item()
		if !proceed {
			return true, nil
		}

		switch item.ID {
		case lexer.ItemEOF:
			return true, nil
		case lexer.ItemError:
			// Stop input processing.
			return true, item.Err
		case lexer.ItemEndMarker:
			return false, nil
		case lexer.ItemSplitter:
			continue
		}

		node := newNode("", item.Val)
		parent.addChild(node)
		if err = t.register(t.cfg, item.Val, node); err != nil {
			return true, err
		}

		if eof, err = t.deserialize(ctx, l, node); eof || err != nil {
			return
		}
	}
}
