// Copyright (c) 2026 Statekit (https://github.com/statekit)
//
// root.go — root command, viper-backed configuration (config file + env),
// zap logger setup, and the helpers shared by the encode, decode, and
// validate subcommands.

package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/statekit/statepack"
	"github.com/statekit/statepack/internal/schemafile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath  string
	schemasPath string
	encodingArg string
)

// cliConfig is the viper-backed CLI configuration.
// Environment variables use the prefix STATEPACK, e.g. STATEPACK_LOG_LEVEL.
type cliConfig struct {
	// SchemaPath locates the YAML schema table; the --schemas flag overrides.
	SchemaPath string `mapstructure:"schema_path"`
	// Encoding is how identifiers cross stdin/stdout: base64 or raw.
	Encoding string    `mapstructure:"encoding"`
	Log      logConfig `mapstructure:"log"`
}

type logConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
}

var rootCmd = &cobra.Command{
	Use:   "statepack",
	Short: "statepack CLI",
	Long:  "Encode and decode typed component state as length-bounded identifiers.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&schemasPath, "schemas", "s", "", "path to YAML schema table")
	rootCmd.PersistentFlags().StringVarP(&encodingArg, "encoding", "e", "", "identifier encoding: base64 or raw")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file (if any), layers environment overrides,
// then applies command-line flags on top.
func loadConfig() (*cliConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STATEPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("schema_path", "")
	v.SetDefault("encoding", "base64")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("statepack")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if schemasPath != "" {
		cfg.SchemaPath = schemasPath
	}
	if encodingArg != "" {
		cfg.Encoding = encodingArg
	}
	if cfg.Encoding != "base64" && cfg.Encoding != "raw" {
		return nil, fmt.Errorf("invalid encoding %q (want base64 or raw)", cfg.Encoding)
	}
	return &cfg, nil
}

// setupLogger builds a zap.Logger from the log configuration. The caller
// should defer logger.Sync().
func setupLogger(c logConfig) *zap.Logger {
	level := zap.NewAtomicLevel()
	switch strings.ToLower(c.Level) {
	case "debug":
		level.SetLevel(zap.DebugLevel)
	case "info":
		level.SetLevel(zap.InfoLevel)
	case "warn", "warning":
		level.SetLevel(zap.WarnLevel)
	case "error":
		level.SetLevel(zap.ErrorLevel)
	default:
		level.SetLevel(zap.WarnLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if strings.ToLower(c.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

// loadSchemas parses and builds the schema table named by the config.
func loadSchemas(cfg *cliConfig) (*statepack.SchemaSet, *schemafile.File, error) {
	if cfg.SchemaPath == "" {
		return nil, nil, fmt.Errorf("no schema table: pass --schemas or set schema_path")
	}
	f, err := schemafile.Load(cfg.SchemaPath)
	if err != nil {
		return nil, nil, err
	}
	set, err := f.Build()
	if err != nil {
		return nil, nil, err
	}
	return set, f, nil
}

// encodeIdentifier renders a raw identifier for output.
func encodeIdentifier(cfg *cliConfig, id string) string {
	if cfg.Encoding == "raw" {
		return id
	}
	return base64.StdEncoding.EncodeToString([]byte(id))
}

// decodeIdentifier interprets a command-line identifier argument.
func decodeIdentifier(cfg *cliConfig, arg string) (string, error) {
	if cfg.Encoding == "raw" {
		return arg, nil
	}
	b, err := base64.StdEncoding.DecodeString(arg)
	if err != nil {
		return "", fmt.Errorf("identifier is not valid base64: %w", err)
	}
	return string(b), nil
}
