// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gitlab.com/fisherprime/rowtree"
	"gitlab.com/fisherprime/rowtree/record"
)

type renderFlags struct {
	format       string
	group        string
	rootKey      string
	idField      string
	parentField  string
	levelField   string
	label        string
	output       string
	sort         bool
	strict       bool
	parseStrings bool
}

// Output formats.
const (
	outputText  = "text"
	outputJSON  = "json"
	outputShape = "shape"
)

var rflags renderFlags

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Build a tree from a file of records & print it",
	Long: `Build a tree from a file of records & print it.

The input format is taken from the file extension unless --format is set; "-" reads standard
input. Recoverable problems (orphan records, duplicate identifiers...) are logged as warnings,
--strict turns them into failures.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd, args[0], rflags)
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&rflags.format, "format", "f", "", "Input format (json, jsonl, yaml, csv)")
	f.StringVarP(&rflags.group, "group", "g", "", "Node group prefixed to identifiers (default: the record type)")
	f.StringVar(&rflags.rootKey, "root-key", rowtree.DefaultRootKey, "Key the root is registered under")
	f.StringVar(&rflags.idField, "id-field", rowtree.DefaultFields.ID, "Identifier field")
	f.StringVar(&rflags.parentField, "parent-field", rowtree.DefaultFields.ParentID, "Parent identifier field")
	f.StringVar(&rflags.levelField, "level-field", rowtree.DefaultFields.Level, "Level field")
	f.StringVarP(&rflags.label, "label", "l", "", "Record field appended to text output labels")
	f.StringVarP(&rflags.output, "output", "o", outputText, "Output format (text, json, shape)")
	f.BoolVar(&rflags.sort, "sort", false, "Sort records by level before building")
	f.BoolVar(&rflags.strict, "strict", false, "Fail on the first warning")
	f.BoolVar(&rflags.parseStrings, "parse-strings", false, "Convert numeric strings to integers (always on for csv)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, path string, flags renderFlags) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var src io.Reader = cmd.InOrStdin()
	if path != "-" {
		var file *os.File
		if file, err = os.Open(path); err != nil {
			return
		}
		defer file.Close()
		src = file
	}

	format := flags.format
	if format == "" {
		if format, err = formatOf(path); err != nil {
			return
		}
	}

	records, err := load(src, format, flags.parseStrings)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	logger.WithFields(logrus.Fields{"path": path, "format": format, "records": len(records)}).Debug("loaded records")

	group := flags.group
	if group == "" {
		// The record type would name every group "map".
		group = "node"
	}

	warnings := 0
	tree, err := rowtree.Build(ctx, records,
		rowtree.WithLogger(logger),
		rowtree.WithDebug(debug),
		rowtree.WithStrict(flags.strict),
		rowtree.WithWarningHandler(func(w error) {
			warnings++
			logger.Warn(w)
		}),
		rowtree.WithNodeGroup(group),
		rowtree.WithRootKey(flags.rootKey),
		rowtree.WithFields(rowtree.Fields{
			ID:       flags.idField,
			ParentID: flags.parentField,
			Level:    flags.levelField,
		}),
		rowtree.WithSort(flags.sort),
	)
	if err != nil {
		return
	}

	out := cmd.OutOrStdout()
	switch flags.output {
	case outputText:
		var label rowtree.LabelFunc = rowtree.KeyLabel
		if flags.label != "" {
			label = rowtree.FieldLabel(flags.label)
		}
		_, err = fmt.Fprint(out, tree.Render(label))
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(tree)
	case outputShape:
		var shape string
		if shape, err = tree.Serialize(ctx); err != nil {
			return
		}
		_, err = fmt.Fprintln(out, shape)
	default:
		err = fmt.Errorf("%w: output %q", errUnknownFormat, flags.output)
	}

	if warnings > 0 {
		logger.WithField("warnings", warnings).Info("tree built with warnings")
	}

	return
}

// compile-time check.
var _ rowtree.Getter = record.Map(nil)
