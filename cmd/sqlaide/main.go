// Command sqlaide renders governed schema documents into SQL scripts and
// entity-relationship diagrams.
//
//	sqlaide generate schema.yaml --out build --erd
//	sqlaide generate schema.yaml --dialect postgres --watch
//
// Flags can also be set in .sqlaide.yaml or with SQLAIDE_* environment
// variables, e.g. SQLAIDE_LOG_LEVEL=debug.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sqla "github.com/secret-point/sql-aide"
)

var version = "dev"

// Config keys.
const (
	keyConfig   = "config"
	keyLogLevel = "log-level"
	keyOut      = "out"
	keyDialect  = "dialect"
	keyERD      = "erd"
	keyWatch    = "watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for schema construction problems and 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, sqla.ErrConstruction) || errors.Is(err, sqla.ErrInvalidConfig) {
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "sqlaide",
		Short: "Generate SQL and diagrams from governed schema documents",
		Long: `sqlaide reads a YAML schema document describing enumerations, tables
and views, and renders idempotent DDL, seed DML and a PlantUML diagram
for SQLite, ANSI SQL, PostgreSQL or MySQL.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd)
		},
	}
	root.PersistentFlags().String(keyConfig, "", "config file (default: .sqlaide.yaml in the working directory)")
	root.PersistentFlags().String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	root.AddCommand(newGenerateCmd(v))
	return root
}

// loadConfig binds the flags of cmd to v, then layers the environment and
// the config file under them.
func loadConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix("SQLAIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".sqlaide")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// newLogger returns a text logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, sqla.NewConfigError(keyLogLevel, level, "use debug, info, warn or error")
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}
