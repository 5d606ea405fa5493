// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// REF: https://www.geeksforgeeks.org/generic-tree-level-order-traversal

type (
	// Tree holds a hierarchy rebuilt from flat records.
	//
	// The nodes map indexes every node ever added, it is the only means of locating a record's
	// parent. Synchronization is left to the caller.
	Tree struct {
		// cfg contains a pointer to a Config used by the Tree's operations.
		cfg *Config

		root    *Node
		rootKey string

		// nodes maps composite keys to nodes, the root included.
		nodes map[string]*Node
	}

	// TraverseComm defines a channel to communicate info between Tree operations & it's callers.
	TraverseComm struct {
		node     *Node
		newPeers bool
	}
)

const (
	traverseBufferSize = 10
)

// Errors encountered when querying a Tree.
var (
	ErrNotFound   = errors.New("not found")
	ErrNoChildren = errors.New("lacks children")
)

// Node retrieves the visited Node.
func (c TraverseComm) Node() *Node { return c.node }

// NewPeers reports whether the visited Node starts a new level.
func (c TraverseComm) NewPeers() bool { return c.newPeers }

// New instantiates a Tree holding only a root registered under DefaultRootKey.
func New(opts ...Option) *Tree {
	return newTree(newOptions(defConfig, opts...).cfg)
}

func newTree(cfg *Config) *Tree {
	t := &Tree{
		cfg:     cfg,
		root:    newNode("", nil),
		rootKey: DefaultRootKey,
		nodes:   make(map[string]*Node),
	}
	t.root.key = DefaultRootKey
	t.nodes[DefaultRootKey] = t.root

	return t
}

// Config retrieves the Tree's Config.
func (t *Tree) Config() *Config { return t.cfg }

// Root retrieves the Tree's root.
func (t *Tree) Root() *Node { return t.root }

// RootKey retrieves the key the root is registered under.
func (t *Tree) RootKey() string { return t.rootKey }

// Len retrieves the number of indexed nodes, the root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Keys lists the indexed keys in lexical order.
func (t *Tree) Keys() (keys []string) {
	keys = maps.Keys(t.nodes)
	slices.Sort(keys)

	return
}

// Lookup retrieves an indexed node by its composite key.
func (t *Tree) Lookup(key string) (node *Node, ok bool) {
	node, ok = t.nodes[key]
	return
}

// ParentOf retrieves the parent of an indexed node.
//
// Value is nil for the root & unattached nodes.
func (t *Tree) ParentOf(key string) (parent *Node, err error) {
	node, ok := t.nodes[key]
	if !ok {
		err = fmt.Errorf("(%s) %w", key, ErrNotFound)
		return
	}

	return node.parent, nil
}

// register indexes a node; last write wins.
func (t *Tree) register(cfg *Config, key string, node *Node) (err error) {
	if existing, ok := t.nodes[key]; ok && existing != node {
		if err = cfg.warn(fmt.Errorf("%w: %s", ErrKeyCollision, key)); err != nil {
			return
		}
	}

	node.key = key
	t.nodes[key] = node

	return
}

// setRootKey moves the root's index entry to key.
func (t *Tree) setRootKey(key string) (err error) {
	delete(t.nodes, t.rootKey)
	t.rootKey = key

	return t.register(t.cfg, key, t.root)
}

// AllNodes lists every node reachable from the root, excluding the root, in level order.
func (t *Tree) AllNodes(ctx context.Context) (nodes List, err error) {
	nodes = make(List, 0, len(t.nodes))
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go t.Walk(ctx, traverseChan)

	for resl := range traverseChan {
		nodes = append(nodes, resl.node)
	}
	if err = ctx.Err(); err != nil {
		return
	}

	if len(nodes) > 0 {
		// Omit the root from the list.
		nodes = nodes[1:]
	}

	if t.cfg.Debug {
		t.cfg.Logger.Debugf("walked: %+v", nodes.Keys())
	}

	if len(nodes) < 1 {
		err = ErrNoChildren
	}

	return
}

// AllNodesByLevel lists every node reachable from the root, excluding the root, by level.
func (t *Tree) AllNodesByLevel(ctx context.Context) (levels LevelList, err error) {
	levels = make(LevelList, 0)
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go t.Walk(ctx, traverseChan)

	var peers List
	for resl := range traverseChan {
		if !resl.newPeers {
			peers = append(peers, resl.node)
			continue
		}

		if len(peers) > 0 {
			levels = append(levels, peers)
		}
		peers = List{resl.node}
	}
	if err = ctx.Err(); err != nil {
		return
	}

	if len(peers) > 0 {
		levels = append(levels, peers)
	}

	if len(levels) > 0 {
		// Omit the root level.
		levels = levels[1:]
	}

	if len(levels) < 1 {
		err = ErrNoChildren
	}

	return
}

// Leaves lists the reachable nodes lacking children, excluding the root.
func (t *Tree) Leaves(ctx context.Context) (leaves List, err error) {
	leaves = make(List, 0)
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go t.Walk(ctx, traverseChan)

	for resl := range traverseChan {
		if resl.node != t.root && len(resl.node.children) < 1 {
			leaves = append(leaves, resl.node)
		}
	}
	err = ctx.Err()

	return
}

// Reachable checks whether an indexed node can be reached from the root.
func (t *Tree) Reachable(ctx context.Context, key string) (ok bool, err error) {
	node, found := t.nodes[key]
	if !found {
		err = fmt.Errorf("(%s) %w", key, ErrNotFound)
		return
	}

	walkCtx, walkCancel := context.WithCancel(ctx)
	defer walkCancel()

	traverseChan := make(chan TraverseComm, traverseBufferSize)
	go t.Walk(walkCtx, traverseChan)

	for resl := range traverseChan {
		if resl.node == node {
			// Stop the walk, the deferred cancel releases the walker.
			return true, nil
		}
	}
	err = ctx.Err()

	return
}

// Orphans lists the keys of indexed nodes that cannot be reached from the root, in lexical
// order.
func (t *Tree) Orphans(ctx context.Context) (keys []string, err error) {
	reachable := make(map[*Node]struct{}, len(t.nodes))
	traverseChan := make(chan TraverseComm, traverseBufferSize)

	go t.Walk(ctx, traverseChan)

	for resl := range traverseChan {
		reachable[resl.node] = struct{}{}
	}
	if err = ctx.Err(); err != nil {
		return
	}

	for _, key := range t.Keys() {
		if _, ok := reachable[t.nodes[key]]; !ok {
			keys = append(keys, key)
		}
	}

	return
}

// Walk performs breadth-first traversal on a Tree, pushing its nodes to its channel argument.
//
// Nodes are visited once, in insertion order per level. A context.Context is used to terminate the
// walk operation.
func (t *Tree) Walk(ctx context.Context, traverseChan chan TraverseComm) {
	defer close(traverseChan)

	if t == nil || t.root == nil {
		return
	}

	// Level order traversal.
	queue := List{t.root}
	seen := map[*Node]struct{}{t.root: {}}

	for len(queue) > 0 {
		// Iterate over a level's nodes.
		newPeers := true
		for queueLen := len(queue); queueLen > 0; queueLen-- {
			var front *Node
			front, queue = queue[0], queue[1:]

			select {
			case <-ctx.Done():
				// Received context cancellation.
				return
			case traverseChan <- TraverseComm{node: front, newPeers: newPeers}:
			}
			newPeers = false

			for _, child := range front.children {
				if _, ok := seen[child]; ok {
					continue
				}
				seen[child] = struct{}{}
				queue = append(queue, child)
			}
		}
	}
}
