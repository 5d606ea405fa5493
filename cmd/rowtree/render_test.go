// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fisherprime/rowtree"
)

const testRecords = `[
	{"id": 1, "parentId": 0, "level": 1, "name": "HR"},
	{"id": 2, "parentId": 1, "level": 2, "name": "Payroll"},
	{"id": 3, "parentId": 0, "level": 1, "name": "IT"}
]`

func writeRecords(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func defaultFlags() renderFlags {
	return renderFlags{
		rootKey:     rowtree.DefaultRootKey,
		idField:     rowtree.DefaultFields.ID,
		parentField: rowtree.DefaultFields.ParentID,
		levelField:  rowtree.DefaultFields.Level,
		output:      outputText,
	}
}

func execRender(t *testing.T, path string, flags renderFlags) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	err := runRender(cmd, path, flags)

	return out.String(), err
}

func TestRunRender(t *testing.T) {
	path := writeRecords(t, "records.json", testRecords)

	t.Run("shape", func(t *testing.T) {
		flags := defaultFlags()
		flags.output = outputShape

		got, err := execRender(t, path, flags)
		require.NoError(t, err)
		assert.Equal(t, "node1,node2)),node3)\n", got)
	})

	t.Run("text with label", func(t *testing.T) {
		flags := defaultFlags()
		flags.label = "name"

		got, err := execRender(t, path, flags)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(got), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "root", lines[0])
		assert.Contains(t, lines[1], "node1 (HR)")
		assert.Contains(t, lines[2], "node2 (Payroll)")
		assert.Contains(t, lines[3], "node3 (IT)")
	})

	t.Run("json", func(t *testing.T) {
		flags := defaultFlags()
		flags.output = outputJSON
		flags.group = "dept"

		got, err := execRender(t, path, flags)
		require.NoError(t, err)

		var decoded struct {
			Root struct {
				Children []struct {
					Item     map[string]any    `json:"item"`
					Children []json.RawMessage `json:"children"`
				} `json:"children"`
			} `json:"root"`
		}
		require.NoError(t, json.Unmarshal([]byte(got), &decoded))
		require.Len(t, decoded.Root.Children, 2)
		assert.Equal(t, "HR", decoded.Root.Children[0].Item["name"])
		assert.Len(t, decoded.Root.Children[0].Children, 1)
		assert.Empty(t, decoded.Root.Children[1].Children)
	})

	t.Run("strict orphan", func(t *testing.T) {
		orphaned := writeRecords(t, "orphaned.csv", "id,parentId,level\n1,0,1\n2,9,2\n")

		flags := defaultFlags()
		flags.strict = true

		_, err := execRender(t, orphaned, flags)
		assert.ErrorIs(t, err, rowtree.ErrOrphanNode)
		assert.ErrorIs(t, err, rowtree.ErrBuildTree)
	})

	t.Run("unknown output", func(t *testing.T) {
		flags := defaultFlags()
		flags.output = "xml"

		_, err := execRender(t, path, flags)
		assert.ErrorIs(t, err, errUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execRender(t, filepath.Join(t.TempDir(), "missing.json"), defaultFlags())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
