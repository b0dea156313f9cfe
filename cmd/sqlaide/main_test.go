package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqla "github.com/secret-point/sql-aide"
)

const hostSchema = `
name: fleet
enums:
  - name: host_type
    values: [linux, windows]
tables:
  - name: host
    persist: host.sql
    columns:
      - {name: host_id, primary_key: true}
      - {name: host_type_code, references: host_type}
`

func writeSchema(t *testing.T, dir, doc string) string {
	t.Helper()
	path := filepath.Join(dir, "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "build")
	g := &generator{schema: writeSchema(t, dir, hostSchema), out: out, erd: true, logger: discard()}

	res, err := g.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "fleet.sql"), res.SQL)
	assert.Equal(t, filepath.Join(out, "fleet.puml"), res.Diagram)
	assert.Equal(t, 1, res.Fragments)

	sql, err := os.ReadFile(res.SQL)
	require.NoError(t, err)
	assert.Contains(t, string(sql), `CREATE TABLE IF NOT EXISTS "host" (`)
	assert.Contains(t, string(sql), "-- encountered persistence request for 1_host.sql")
	assert.True(t, strings.HasSuffix(string(sql), "-- no template engine lint issues\n"))

	puml, err := os.ReadFile(res.Diagram)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(puml), "@startuml IE\n"))

	fragment, err := os.ReadFile(filepath.Join(out, "fleet", "1_host.sql"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(fragment), `CREATE TABLE IF NOT EXISTS "host" (`))

	t.Run("DialectOverride", func(t *testing.T) {
		g := *g
		g.dialect = "mysql"
		g.erd = false
		res, err := g.run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, res.Diagram)
		sql, err := os.ReadFile(res.SQL)
		require.NoError(t, err)
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS `host` (")
	})
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, hostSchema)
	out := filepath.Join(dir, "out")

	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"generate", path, "--out", out, "--log-level", "debug"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stderr.String(), "schema generated")
	assert.FileExists(t, filepath.Join(out, "fleet.sql"))
	assert.NoFileExists(t, filepath.Join(out, "fleet.puml"))

	t.Run("ConfigFile", func(t *testing.T) {
		cfg := filepath.Join(dir, "sqlaide.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("erd: true\nout: "+filepath.Join(dir, "cfg")+"\n"), 0o644))
		cmd := newRootCmd()
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"generate", path, "--config", cfg})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		assert.FileExists(t, filepath.Join(dir, "cfg", "fleet.puml"))
	})
	t.Run("BadLevel", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"generate", path, "--out", out, "--log-level", "loud"})
		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Equal(t, 2, exitCode(err))
	})
	t.Run("BrokenSchema", func(t *testing.T) {
		broken := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(broken, []byte("name: broken\ntables:\n  - {name: t, columns: [{name: t_id, type: integer, primary_key: true}]}\n"), 0o644))
		cmd := newRootCmd()
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"generate", broken, "--out", out})
		err := cmd.ExecuteContext(context.Background())
		require.ErrorIs(t, err, sqla.ErrConstruction)
		assert.Equal(t, 2, exitCode(err))
	})
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeSchema(t, dir, hostSchema)
	out := filepath.Join(dir, "build")
	g := &generator{schema: path, out: out, logger: discard()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.watch(ctx) }()

	sqlPath := filepath.Join(out, "fleet.sql")
	require.Eventually(t, func() bool {
		_, err := os.Stat(sqlPath)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	updated := hostSchema + "  - name: site\n    columns:\n      - {name: site_id, primary_key: true}\n"
	require.Eventually(t, func() bool {
		// Rewrite until the watcher, which may still be starting, sees it.
		_ = os.WriteFile(path, []byte(updated), 0o644)
		data, err := os.ReadFile(sqlPath)
		return err == nil && strings.Contains(string(data), `CREATE TABLE IF NOT EXISTS "site"`)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
