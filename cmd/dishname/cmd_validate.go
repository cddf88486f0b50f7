package main

import (
	"errors"
	"fmt"

	"dish-namer/internal/core/generator"
	"dish-namer/internal/core/namedb"

	"github.com/spf13/cobra"
)

// errInvalidDocument 文件有無法解析的內容
var errInvalidDocument = errors.New("document has parse errors")

func newValidateCmd() *cobra.Command {
	var templates bool
	cmd := &cobra.Command{
		Use:   "validate PATH",
		Short: "Check a dishes (or templates) document for parse errors and likely mistakes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], templates)
		},
	}
	cmd.Flags().BoolVar(&templates, "templates", false, "Validate a templates document instead of a dishes document")
	return cmd
}

func runValidate(cmd *cobra.Command, path string, templates bool) error {
	data, err := readOnlySource(path).Read()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	out := cmd.OutOrStdout()
	format := namedb.FormatFor(path)

	var errs []error
	if templates {
		_, errs = generator.ParseTemplates(data, format)
	} else {
		var doc *namedb.Document
		doc, errs = namedb.ParseDocument(data, format)
		for _, w := range namedb.Validate(doc, nil) {
			fmt.Fprintf(out, "warning: %s\n", w)
		}
		if doc != nil {
			fmt.Fprintf(out, "%d dish definitions, %d combos\n", len(doc.Dishes), len(doc.Combos))
		}
	}

	for _, err := range errs {
		fmt.Fprintf(out, "error: %v\n", err)
	}
	if len(errs) > 0 {
		return errInvalidDocument
	}
	fmt.Fprintln(out, "ok")
	return nil
}
