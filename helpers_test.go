// SPDX-License-Identifier: MIT
package rowtree

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type (
	// N reads through the default field names; its group is "n".
	N struct {
		Id       int
		ParentId int
		Level    int
	}

	// Part lacks a level.
	Part struct {
		Id       int
		ParentId int
	}

	// Flat lacks a parent identifier.
	Flat struct {
		Id    int
		Level int
	}

	NoID struct {
		ParentId int
		Level    int
	}

	Named struct {
		Id    int
		Name  string
		Level string
	}

	employee struct {
		ID       string
		ParentID string
		Depth    uint8
	}

	// DepartmentDTO exposes its fields through getters.
	DepartmentDTO struct {
		id, parentID int64
		level        int32
	}

	box[T any] struct{ Value T }

	// row is neither a struct nor a map, it is read through rowAccessor.
	row [3]int

	panicking struct{ Id, Level int }

	failing struct{ Id, Level int }
)

var errLookup = errors.New("lookup failure")

func (panicking) GetParentId() int { panic("parent lookup") }

func (failing) GetParentId() (int, error) { return 0, errLookup }

func rowAccessor(record any, field string) (any, error) {
	r, ok := record.(row)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %T", ErrFieldNotFound, field, record)
	}

	switch field {
	case "Id":
		return r[0], nil
	case "ParentId":
		return r[1], nil
	case "Level":
		return r[2], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, field)
	}
}

func (d DepartmentDTO) GetId() int64       { return d.id }
func (d DepartmentDTO) GetParentId() int64 { return d.parentID }
func (d DepartmentDTO) GetLevel() int32    { return d.level }

// warnings collects the warnings reported during an operation.
type warnings struct {
	mu   sync.Mutex
	errs []error
}

func (w *warnings) handle(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.errs = append(w.errs, err)
}

func (w *warnings) count(target error) (n int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, err := range w.errs {
		if errors.Is(err, target) {
			n++
		}
	}

	return
}

// scenario is the list of records used by most tests: n1 under the root, n2 & n3 under n1.
func scenario() []N {
	return []N{
		{Id: 1, ParentId: 0, Level: 0},
		{Id: 2, ParentId: 1, Level: 1},
		{Id: 3, ParentId: 1, Level: 1},
	}
}

func buildScenario(t *testing.T, opts ...Option) *Tree {
	t.Helper()

	tree, err := Build(context.Background(), scenario(), opts...)
	require.NoError(t, err)

	return tree
}

func childKeys(t *testing.T, tree *Tree, key string) []string {
	t.Helper()

	node, ok := tree.Lookup(key)
	require.True(t, ok, "missing node %s", key)

	return node.Children().Keys()
}
