// SPDX-License-Identifier: MIT
package rowtree

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// LabelFunc formats a Node for Render.
type LabelFunc func(n *Node) string

// KeyLabel labels a Node with its composite key.
func KeyLabel(n *Node) string { return n.key }

// FieldLabel labels a Node with its composite key & the value of a record field.
func FieldLabel(field string, opts ...Option) LabelFunc {
	acc := newOptions(defConfig, opts...).cfg.Accessor

	return func(n *Node) string {
		value, err := acc(n.item, field)
		if err != nil {
			return n.key
		}

		return fmt.Sprintf("%s (%v)", n.key, value)
	}
}

// Render draws the nodes reachable from the root as an indented tree, the root labelled with its
// key. KeyLabel is used when label is nil.
func (t *Tree) Render(label LabelFunc) string {
	if label == nil {
		label = KeyLabel
	}

	tree := treeprint.NewWithRoot(t.rootKey)
	renderChildren(tree, t.root, label, map[*Node]struct{}{t.root: {}})

	return tree.String()
}

func renderChildren(tree treeprint.Tree, parent *Node, label LabelFunc, seen map[*Node]struct{}) {
	for _, child := range parent.children {
		if _, ok := seen[child]; ok {
			continue
		}
		seen[child] = struct{}{}

		if len(child.children) < 1 {
			tree.AddNode(label(child))
			continue
		}
		renderChildren(tree.AddBranch(label(child)), child, label, seen)
	}
}
