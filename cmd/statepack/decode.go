// Part of the statepack CLI - this file implements the 'statepack decode'
// command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/statekit/statepack"
)

var decodeCmd = &cobra.Command{
	Use:   "decode IDENTIFIER",
	Short: "Restore field values from an identifier",
	Long: "Decode IDENTIFIER, look up its cookie in the schema table, and " +
		"print the restored field values.",
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	set, _, err := loadSchemas(cfg)
	if err != nil {
		return err
	}
	id, err := decodeIdentifier(cfg, args[0])
	if err != nil {
		return err
	}

	sz := statepack.NewSerializer(statepack.Config{
		Logger: statepack.NewZapLogger(logger),
	})
	d, err := sz.Deserialize(cmd.Context(), id, set)
	if err != nil {
		return err
	}

	fmt.Printf("cookie: %s\n", d.Cookie)
	if kind, ok := d.Kind.(string); ok && kind != "" {
		fmt.Printf("kind:   %s\n", kind)
	}
	schema, _ := set.SchemaFor(d.Cookie)
	for _, f := range schema.Fields {
		fmt.Printf("%s = %v\n", f.Name, d.Values[f.Name])
	}
	return nil
}
