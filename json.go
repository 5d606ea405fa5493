// SPDX-License-Identifier: MIT
package rowtree

import (
	"encoding/json"
)

type (
	nodeJSON struct {
		Item     any  `json:"item,omitempty"`
		Children List `json:"children"`
	}

	treeJSON struct {
		Root *Node `json:"root"`
	}
)

// MarshalJSON encodes the Node's record & its children, recursively.
//
// Keys & the parent reference are omitted.
func (n *Node) MarshalJSON() ([]byte, error) {
	children := n.children
	if children == nil {
		children = List{}
	}

	return json.Marshal(nodeJSON{Item: n.item, Children: children})
}

// MarshalJSON encodes the nodes reachable from the root; the index is omitted.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(treeJSON{Root: t.root})
}
