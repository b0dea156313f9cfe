package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/secret-point/sql-aide/load"
	"github.com/secret-point/sql-aide/pattern/governed"
	"github.com/secret-point/sql-aide/persist"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <schema.yaml>",
		Short: "Render a schema document",
		Long: `Render a schema document into <out>/<name>.sql. Fragments the
document asks to persist are written under <out>/<name>/, and --erd adds
<out>/<name>.puml. Lint issues are logged and never fail the command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v.GetString(keyLogLevel), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g := &generator{
				schema:  args[0],
				out:     v.GetString(keyOut),
				dialect: v.GetString(keyDialect),
				erd:     v.GetBool(keyERD),
				logger:  logger,
			}
			if v.GetBool(keyWatch) {
				return g.watch(cmd.Context())
			}
			_, err = g.run(cmd.Context())
			return err
		},
	}
	cmd.Flags().String(keyOut, ".", "output directory")
	cmd.Flags().String(keyDialect, "", "override the dialect of the document (sqlite, ansi, postgres, mysql)")
	cmd.Flags().Bool(keyERD, false, "also write a PlantUML diagram")
	cmd.Flags().Bool(keyWatch, false, "regenerate whenever the schema document changes")
	return cmd
}

type generator struct {
	schema  string
	out     string
	dialect string
	erd     bool
	logger  *slog.Logger
}

// result lists the files a run wrote.
type result struct {
	SQL       string
	Diagram   string
	Fragments int
}

func (g *generator) run(ctx context.Context) (*result, error) {
	spec, err := load.File(g.schema)
	if err != nil {
		return nil, err
	}
	if g.dialect != "" {
		spec.Dialect = g.dialect
	}
	dir, err := persist.NewDir(filepath.Join(g.out, spec.Name), persist.WithLogger(g.logger))
	if err != nil {
		return nil, err
	}
	s, err := spec.Build(governed.WithLogger(g.logger), governed.WithPersister(dir))
	if err != nil {
		return nil, err
	}
	for _, w := range s.Validation.Warnings {
		g.logger.Warn("schema warning", "table", w.Table, "column", w.Column, "message", w.Message)
	}

	state := s.Model.State()
	script, ectx, err := state.Render(s.Script)
	if err != nil {
		return nil, err
	}
	for _, d := range ectx.Diagnostics() {
		g.logger.Warn("lint issue", "code", d.Code, "subject", d.Subject, "origin", d.Origin.String(), "message", d.Message)
	}
	if err := os.MkdirAll(g.out, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	res := &result{SQL: filepath.Join(g.out, spec.Name+".sql")}
	if err := os.WriteFile(res.SQL, []byte(script+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", res.SQL, err)
	}
	if g.erd {
		puml, err := state.PumlERD(ectx)
		if err != nil {
			return nil, err
		}
		res.Diagram = filepath.Join(g.out, spec.Name+".puml")
		if err := os.WriteFile(res.Diagram, []byte(puml+"\n"), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", res.Diagram, err)
		}
	}
	res.Fragments = len(dir.Pending())
	if err := dir.Flush(ctx); err != nil {
		return nil, err
	}
	g.logger.Info("schema generated",
		"schema", spec.Name,
		"dialect", ectx.Dialect().Name,
		"tables", len(state.TablesDeclared()),
		"views", len(state.ViewsDeclared()),
		"diagnostics", len(ectx.Diagnostics()),
		"fragments", res.Fragments,
		"path", res.SQL,
	)
	return res, nil
}

// watch runs the generator once, then again whenever the schema document is
// written or replaced, until ctx is done. Failed runs are logged.
func (g *generator) watch(ctx context.Context) error {
	abs, err := filepath.Abs(g.schema)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Editors often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	g.rerun(ctx)
	g.logger.Info("watching schema", "path", abs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			g.logger.Debug("schema changed", "op", ev.Op.String())
			g.rerun(ctx)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("watch failed", "error", err)
		}
	}
}

func (g *generator) rerun(ctx context.Context) {
	if _, err := g.run(ctx); err != nil {
		g.logger.Error("generate failed", "schema", g.schema, "error", err)
	}
}
