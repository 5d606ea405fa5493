// SPDX-License-Identifier: MIT
package rowtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_Render(t *testing.T) {
	tests := []struct {
		name  string
		tree  func(t *testing.T) *Tree
		label LabelFunc
		want  []string
	}{
		{
			name: "keys",
			tree: func(t *testing.T) *Tree { return buildScenario(t) },
			want: []string{"root", "n1", "n2", "n3"},
		},
		{
			name:  "field label",
			tree:  func(t *testing.T) *Tree { return buildScenario(t) },
			label: FieldLabel("Level"),
			want:  []string{"root", "n1 (0)", "n2 (1)", "n3 (1)"},
		},
		{
			name:  "missing field label",
			tree:  func(t *testing.T) *Tree { return buildScenario(t) },
			label: FieldLabel("Name"),
			want:  []string{"root", "n1", "n2", "n3"},
		},
		{
			name: "root key",
			tree: func(t *testing.T) *Tree { return buildScenario(t, WithRootKey("org")) },
			want: []string{"org", "n1", "n2", "n3"},
		},
		{
			name: "empty",
			tree: func(t *testing.T) *Tree { return New() },
			want: []string{"root"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := strings.Split(strings.TrimSpace(tt.tree(t).Render(tt.label)), "\n")
			require.Len(t, lines, len(tt.want))

			for index, want := range tt.want {
				assert.True(t, strings.HasSuffix(lines[index], want), "line %d: %q, want suffix %q", index, lines[index], want)
			}
		})
	}
}

func TestTree_Render_Nesting(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(buildScenario(t).Render(nil)), "\n")
	require.Len(t, lines, 4)

	// Children are indented below their parent.
	n1, n2 := strings.Index(lines[1], "n1"), strings.Index(lines[2], "n2")
	assert.Greater(t, n2, n1)
}
