// Package persist implements emit.Persister hooks.
//
// Memory records requests in order. Dir buffers them during a render and
// writes them as files once the render is done:
//
//	dir := persist.NewDir("out/sql")
//	ctx := emit.NewContext(nil, emit.WithPersister(dir))
//	script, err := emit.Render(ctx, tmpl)
//	...
//	err = dir.Flush(context.Background())
package persist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	sqla "github.com/secret-point/sql-aide"
	"github.com/secret-point/sql-aide/emit"
)

// Request is a fragment handed to a persister.
type Request struct {
	Tag      string
	Fragment string
}

// Memory keeps persistence requests in memory.
type Memory struct {
	mu       sync.Mutex
	requests []Request
}

var (
	_ emit.Persister = (*Memory)(nil)
	_ emit.Persister = (*Dir)(nil)
)

// NewMemory returns an empty in-memory persister.
func NewMemory() *Memory {
	return &Memory{}
}

// Persist implements emit.Persister.
func (m *Memory) Persist(fragment, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, Request{Tag: tag, Fragment: fragment})
	return nil
}

// Requests returns the recorded requests in order.
func (m *Memory) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.requests)
}

// Metrics tracks what a Dir wrote.
type Metrics struct {
	FilesWritten int
	TotalBytes   int64
	WriteTime    time.Duration
}

// Dir buffers persistence requests and writes each one to a file named by
// its tag under a root directory.
type Dir struct {
	root    string
	workers int
	logger  *slog.Logger

	mu      sync.Mutex
	pending []Request
	metrics Metrics
}

// DirOption configures a Dir.
type DirOption func(*Dir) error

// WithWorkers sets the number of parallel writers.
func WithWorkers(n int) DirOption {
	return func(d *Dir) error {
		if n <= 0 {
			return sqla.NewConfigError("Workers", n, "workers must be positive")
		}
		d.workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) DirOption {
	return func(d *Dir) error {
		if l == nil {
			return sqla.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		d.logger = l
		return nil
	}
}

// NewDir returns a persister writing under root.
func NewDir(root string, opts ...DirOption) (*Dir, error) {
	if root == "" {
		return nil, sqla.NewConfigError("Root", root, "root directory cannot be empty")
	}
	d := &Dir{
		root:    root,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Root returns the output directory.
func (d *Dir) Root() string { return d.root }

// Persist implements emit.Persister. Tags must be relative paths that stay
// inside the root directory.
func (d *Dir) Persist(fragment, tag string) error {
	clean := filepath.Clean(filepath.FromSlash(tag))
	if tag == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return sqla.NewConfigError("tag", tag, "persistence tag must be a relative path inside the output directory")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, Request{Tag: clean, Fragment: fragment})
	return nil
}

// Pending returns the buffered requests.
func (d *Dir) Pending() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.pending)
}

// Metrics returns a snapshot of the write metrics.
func (d *Dir) Metrics() Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metrics
}

// Flush writes the buffered requests in parallel. Requests that were
// written are removed from the buffer; on error the failed ones remain.
func (d *Dir) Flush(ctx context.Context) error {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		d.requeue(pending)
		return fmt.Errorf("persist: create output directory: %w", err)
	}

	var (
		failedMu sync.Mutex
		failed   []Request
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.workers)
	for _, r := range pending {
		eg.Go(func() error {
			var err error
			select {
			case <-ctx.Done():
				err = ctx.Err()
			default:
				err = d.write(r)
			}
			if err != nil {
				failedMu.Lock()
				failed = append(failed, r)
				failedMu.Unlock()
			}
			return err
		})
	}
	err := eg.Wait()
	if len(failed) > 0 {
		d.requeue(failed)
	}
	return err
}

func (d *Dir) requeue(rs []Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(rs, d.pending...)
}

func (d *Dir) write(r Request) error {
	start := time.Now()
	path := filepath.Join(d.root, r.Tag)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persist: create directory for %s: %w", r.Tag, err)
	}
	data := r.Fragment
	if !strings.HasSuffix(data, "\n") {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("persist: write %s: %w", r.Tag, err)
	}
	d.mu.Lock()
	d.metrics.FilesWritten++
	d.metrics.TotalBytes += int64(len(data))
	d.metrics.WriteTime += time.Since(start)
	d.mu.Unlock()
	d.logger.Debug("fragment persisted", "path", path, "bytes", len(data))
	return nil
}
