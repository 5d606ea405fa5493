// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tree := New()

	assert.Equal(t, []string{DefaultRootKey}, tree.Keys())
	assert.Equal(t, 1, tree.Len())
	assert.Nil(t, tree.Root().Item())
	assert.Equal(t, DefaultRootKey, tree.Root().Key())

	_, err := tree.AllNodes(context.Background())
	assert.ErrorIs(t, err, ErrNoChildren)

	_, err = tree.AllNodesByLevel(context.Background())
	assert.ErrorIs(t, err, ErrNoChildren)
}

func TestTree_Queries(t *testing.T) {
	ctx := context.Background()
	tree := buildScenario(t)

	t.Run("AllNodes", func(t *testing.T) {
		got, err := tree.AllNodes(ctx)
		require.NoError(t, err)
		if want := []string{"n1", "n2", "n3"}; !reflect.DeepEqual(got.Keys(), want) {
			t.Errorf("Tree.AllNodes() = %v, want %v", got.Keys(), want)
		}
	})

	t.Run("AllNodesByLevel", func(t *testing.T) {
		got, err := tree.AllNodesByLevel(ctx)
		require.NoError(t, err)
		if want := [][]string{{"n1"}, {"n2", "n3"}}; !reflect.DeepEqual(got.Keys(), want) {
			t.Errorf("Tree.AllNodesByLevel() = %v, want %v", got.Keys(), want)
		}
	})

	t.Run("Leaves", func(t *testing.T) {
		got, err := tree.Leaves(ctx)
		require.NoError(t, err)
		if want := []string{"n2", "n3"}; !reflect.DeepEqual(got.Keys(), want) {
			t.Errorf("Tree.Leaves() = %v, want %v", got.Keys(), want)
		}
	})

	t.Run("ParentOf", func(t *testing.T) {
		tests := []struct {
			key     string
			want    *Node
			wantErr error
		}{
			{key: "n2", want: mustLookup(t, tree, "n1")},
			{key: "n1", want: tree.Root()},
			{key: "root", want: nil},
			{key: "n7", wantErr: ErrNotFound},
		}

		for _, tt := range tests {
			got, err := tree.ParentOf(tt.key)
			assert.ErrorIs(t, err, tt.wantErr, tt.key)
			assert.Same(t, tt.want, got, tt.key)
		}
	})

	t.Run("Reachable", func(t *testing.T) {
		ok, err := tree.Reachable(ctx, "n3")
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = tree.Reachable(ctx, "n7")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Orphans", func(t *testing.T) {
		got, err := tree.Orphans(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTree_Walk(t *testing.T) {
	tree := buildScenario(t)

	traverseChan := make(chan TraverseComm)
	go tree.Walk(context.Background(), traverseChan)

	var keys []string
	var newPeers []bool
	for resl := range traverseChan {
		keys = append(keys, resl.Node().Key())
		newPeers = append(newPeers, resl.NewPeers())
	}

	assert.Equal(t, []string{"root", "n1", "n2", "n3"}, keys)
	assert.Equal(t, []bool{true, true, true, false}, newPeers)
}

func TestTree_Walk_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tree := buildScenario(t)

	_, err := tree.AllNodes(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = tree.Orphans(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNode_AddChild(t *testing.T) {
	parent, child := newNode("n", N{Id: 1}), newNode("n", N{Id: 2})

	assert.True(t, parent.addChild(child))
	assert.False(t, parent.addChild(child))
	assert.Equal(t, 1, parent.Len())
	assert.Same(t, parent, child.Parent())

	children := parent.Children()
	children[0] = nil
	assert.NotNil(t, parent.Children()[0], "Children returns a copy")
}

func mustLookup(t *testing.T, tree *Tree, key string) *Node {
	t.Helper()

	node, ok := tree.Lookup(key)
	require.True(t, ok, "missing node %s", key)

	return node
}
