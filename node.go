// SPDX-License-Identifier: MIT
package rowtree

type (
	// Node wraps a record within a Tree.
	//
	// Synchronization is unnecessary, the type is designed for single write multiple read.
	Node struct {
		// key is the composite key the node was last registered under.
		key string

		// group the node was keyed under.
		group string

		// item contains the wrapped record; nil for a synthetic root.
		item any

		// parent contains a reference to the node this node was last attached to.
		parent *Node

		// children holds references to nodes at a lower level, in insertion order.
		children List

		// childSet de-duplicates children by reference.
		childSet map[*Node]struct{}
	}

	// List is a type wrapper for []*Node.
	List []*Node

	// LevelList is a type wrapper for a List per level.
	LevelList []List
)

func newNode(group string, item any) *Node {
	return &Node{group: group, item: item}
}

// Key retrieves the composite key the Node was registered under.
func (n *Node) Key() string { return n.key }

// Group retrieves the Node's group.
func (n *Node) Group() string { return n.group }

// Item retrieves the Node's record.
func (n *Node) Item() any { return n.item }

// Parent retrieves a reference to the Node's parent.
//
// Value is nil for the root & unattached nodes.
func (n *Node) Parent() *Node { return n.parent }

// Len retrieves the number of immediate children.
func (n *Node) Len() int { return len(n.children) }

// Children lists the immediate children in insertion order.
func (n *Node) Children() (children List) {
	children = make(List, len(n.children))
	copy(children, n.children)

	return
}

// addChild appends a child, ignoring one already present.
func (n *Node) addChild(child *Node) (added bool) {
	if n.childSet == nil {
		n.childSet = make(map[*Node]struct{})
	}
	if _, ok := n.childSet[child]; ok {
		return
	}

	n.childSet[child] = struct{}{}
	n.children = append(n.children, child)
	child.parent = n

	return true
}

// ItemAs retrieves a Node's record as a T.
func ItemAs[T any](n *Node) (item T, ok bool) {
	if n == nil {
		return
	}
	item, ok = n.item.(T)

	return
}

// Keys returns the composite keys for a List.
func (l List) Keys() (keys []string) {
	keys = make([]string, len(l))
	for index := range l {
		keys[index] = l[index].key
	}

	return
}

// Keys returns the composite keys per level for a LevelList.
func (l LevelList) Keys() (keys [][]string) {
	keys = make([][]string, len(l))
	for index := range l {
		keys[index] = l[index].Keys()
	}

	return
}
