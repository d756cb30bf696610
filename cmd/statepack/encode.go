// Part of the statepack CLI - this file implements the 'statepack encode'
// command.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/statekit/statepack"
)

var encodeCmd = &cobra.Command{
	Use:   "encode COOKIE [field=value...]",
	Short: "Serialize field values into an identifier",
	Long: "Look up COOKIE in the schema table, parse each field=value pair " +
		"against its declared type, and print the encoded identifier.",
	Args: cobra.MinimumNArgs(1),
	RunE: runEncode,
}

func runEncode(cmd *cobra.Command, args []string) error {
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
	cookie := args[0]
	schema, ok := set.SchemaFor(cookie)
	if !ok {
		return fmt.Errorf("%w: %q", statepack.ErrSchemaNotFound, cookie)
	}

	values, err := parseFieldArgs(schema, args[1:])
	if err != nil {
		return err
	}

	sz := statepack.NewSerializer(statepack.Config{
		Logger: statepack.NewZapLogger(logger),
	})
	id, err := sz.Serialize(cmd.Context(), schema, values)
	if err != nil {
		return err
	}
	fmt.Println(encodeIdentifier(cfg, id))
	return nil
}

// parseFieldArgs turns field=value arguments into a value map typed per the
// schema.
func parseFieldArgs(schema statepack.Schema, args []string) (map[string]any, error) {
	byName := make(map[string]statepack.Type, len(schema.Fields))
	for _, f := range schema.Fields {
		byName[f.Name] = f.Type
	}

	values := make(map[string]any, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q is not field=value", arg)
		}
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("schema %q has no field %q", schema.Cookie, name)
		}
		v, err := parseValue(t, raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		values[name] = v
	}
	return values, nil
}

// parseValue parses raw per the field's descriptor. Unions parse as their
// leftmost alternative and parameterized forms as their origin, matching how
// the registry dispatches them.
func parseValue(t statepack.Type, raw string) (any, error) {
	if u, ok := t.(statepack.Alternatives); ok {
		if alts := u.Alternatives(); len(alts) > 0 {
			t = alts[0]
		}
	}
	if g, ok := t.(statepack.Parameterized); ok {
		t = g.Origin()
	}

	switch t {
	case statepack.Int:
		return strconv.ParseInt(raw, 10, 64)
	case statepack.Float:
		return strconv.ParseFloat(raw, 64)
	case statepack.Str, statepack.Literal:
		return raw, nil
	case statepack.Bool:
		return strconv.ParseBool(raw)
	case statepack.UUID:
		return uuid.Parse(raw)
	case statepack.Blob:
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("blob value is not valid JSON: %w", err)
		}
		return v, nil
	}
	if _, ok := t.(*statepack.EnumType); ok {
		return strconv.ParseInt(raw, 10, 64)
	}
	return nil, fmt.Errorf("cannot parse a value of type %s", t.Name())
}
