// Part of the statepack CLI - this file implements the 'statepack validate'
// command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/statekit/statepack/internal/schemafile"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the schema table",
	Long: "Check the YAML schema table for duplicate cookies, malformed " +
		"fields, unknown types, and schemas that cannot fit the identifier " +
		"length budget.",
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.SchemaPath == "" {
		return fmt.Errorf("no schema table: pass --schemas or set schema_path")
	}
	f, err := schemafile.Load(cfg.SchemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema table: %w", err)
	}

	problems := f.Lint()
	if len(problems) == 0 {
		fmt.Printf("%s: %d schemas OK\n", cfg.SchemaPath, len(f.Schemas))
		return nil
	}
	for _, p := range problems {
		fmt.Println(p.String())
	}
	return fmt.Errorf("%d problem(s) found", len(problems))
}
