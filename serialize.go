// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/fisherprime/rowtree/lexer"
)

// REF: https://www.geeksforgeeks.org/serialize-deserialize-n-ary-tree

// Serialization errors.
var (
	ErrUnserializableKey = errors.New("key cannot be serialized")
)

// Serialize transforms the Tree's shape into a string of composite keys.
//
// Every node reachable from the root is written as its key followed by its children & an end
// marker, siblings separated by the splitter; e.g. "n1,n2),n3))". The root is omitted & children
// keep their insertion order.
func (t *Tree) Serialize(ctx context.Context, opts ...lexer.Option) (output string, err error) {
	if err = ctx.Err(); err != nil {
		return
	}
	cfg := lexer.NewConfig(opts...)

	var serErr error
	serChan := make(chan string)
	go func() {
		defer close(serChan)

		seen := map[*Node]struct{}{t.root: {}}
		for _, child := range t.root.children {
			if serErr = child.serialize(ctx, cfg, serChan, seen); serErr != nil {
				return
			}
		}
	}()

	var buffer strings.Builder
	for value := range serChan {
		if buffer.Len() > 0 && value != string(cfg.EndMarker) {
			buffer.WriteRune(cfg.Splitter)
		}
		buffer.WriteString(value)
	}

	// serChan is closed, serErr is settled.
	if err = serErr; err != nil {
		return
	}
	output = buffer.String()

	return
}

// serialize performs the serialization grunt work.
func (n *Node) serialize(ctx context.Context, cfg *lexer.Config, serChan chan string, seen map[*Node]struct{}) (err error) {
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}

	if n.key == "" || strings.IndexFunc(n.key, func(r rune) bool { return !cfg.IsValueRune(r) }) > -1 {
		return fmt.Errorf("%w: %q", ErrUnserializableKey, n.key)
	}

	if err = send(ctx, serChan, n.key); err != nil {
		return
	}

	for _, child := range n.children {
		if err = child.serialize(ctx, cfg, serChan, seen); err != nil {
			return
		}
	}

	return send(ctx, serChan, string(cfg.EndMarker))
}

func send(ctx context.Context, serChan chan string, value string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case serChan <- value:
		return nil
	}
}
