// Package preview prints the leading rows of spreadsheet files so header rows
// can be spotted by eye.
package preview

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nconklindev/sheetpeek/internal/reader"
	"github.com/nconklindev/sheetpeek/internal/types"
)

// LoadFunc loads at most limit leading rows of a spreadsheet.
type LoadFunc func(path string, limit int) (*types.Table, error)

// Summary counts the outcome of a run. It is only used for logging.
type Summary struct {
	Loaded int
	Failed int
}

// Previewer prints one preview section per source.
type Previewer struct {
	out    io.Writer
	limit  int
	load   LoadFunc
	logger *slog.Logger
}

// Option configures a Previewer.
type Option func(*Previewer)

// WithLimit sets the preview window size.
func WithLimit(limit int) Option {
	return func(p *Previewer) {
		if limit > 0 {
			p.limit = limit
		}
	}
}

// WithLoader replaces reader.Load.
func WithLoader(load LoadFunc) Option {
	return func(p *Previewer) {
		p.load = load
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Previewer) {
		p.logger = logger
	}
}

// New returns a Previewer writing to out. Without options it shows
// reader.DefaultRowLimit rows, loads with reader.Load and logs to the slog
// default.
func New(out io.Writer, opts ...Option) *Previewer {
	p := &Previewer{
		out:    out,
		limit:  reader.DefaultRowLimit,
		load:   reader.Load,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run previews every source in order. A source that cannot be loaded gets an
// error line and the run moves on; Run itself only fails when the output
// cannot be written.
func (p *Previewer) Run(files types.FileList) (Summary, error) {
	var summary Summary

	for _, src := range files {
		ok, err := p.previewOne(src)
		if err != nil {
			return summary, err
		}
		if ok {
			summary.Loaded++
		} else {
			summary.Failed++
		}
	}

	p.logger.Debug("preview finished", "loaded", summary.Loaded, "failed", summary.Failed)
	return summary, nil
}

func (p *Previewer) previewOne(src types.Source) (bool, error) {
	path := src.Path()

	if _, err := fmt.Fprintf(p.out, "\n--- Analyzing: %s ---\n", src.Name); err != nil {
		return false, err
	}
	t, err := p.load(path, p.limit)
	if err != nil {
		attrs := []any{"path", path, "error", err}
		var loadErr *reader.LoadError
		if errors.As(err, &loadErr) {
			attrs = append(attrs, "kind", loadErr.Kind.String())
		}
		p.logger.Warn("could not load spreadsheet", attrs...)

		if _, werr := fmt.Fprintf(p.out, "Error reading %s: %v\n", src.Name, err); werr != nil {
			return false, werr
		}
		return false, nil
	}

	// Guard loaders that ignore the limit.
	if len(t.Rows) > p.limit {
		t.Rows = t.Rows[:p.limit]
	}

	p.logger.Debug("loaded spreadsheet", "path", path, "rows", len(t.Rows), "columns", t.Width())
	if _, err := fmt.Fprintf(p.out, "First %d rows preview:\n", p.limit); err != nil {
		return false, err
	}
	if err := Render(p.out, t); err != nil {
		return false, err
	}
	return true, nil
}
