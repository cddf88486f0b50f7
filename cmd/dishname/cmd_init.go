package main

import (
	"fmt"
	"os"
	"path/filepath"

	"dish-namer/internal/core/generator"
	"dish-namer/internal/core/namedb"

	"github.com/spf13/cobra"
)

func newInitDataCmd() *cobra.Command {
	var (
		dir   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init-data",
		Short: "Write the default dishes and templates documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInitData(cmd, dir, force)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data", "Output directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing documents")
	return cmd
}

func runInitData(cmd *cobra.Command, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	files := []struct {
		name string
		data []byte
	}{
		{"dishes.yaml", namedb.DefaultDocument()},
		{"templates.yaml", generator.DefaultDocument()},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Fprintf(cmd.OutOrStdout(), "skip %s (exists)\n", path)
			continue
		}
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
