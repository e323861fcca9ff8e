// Package translator translates whole grids of cells, chunking the texts so
// every request stays within the API limits.
package translator

import (
	"context"
	"fmt"
	"time"

	"github.com/pricofy/sheet-translator/internal/chunker"
	"github.com/pricofy/sheet-translator/internal/domain"
)

// DefaultRequestDelay is the pause between consecutive chunk requests.
const DefaultRequestDelay = 100 * time.Millisecond

// TextTranslator translates one request worth of texts, in order.
type TextTranslator interface {
	Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error)
}

// TranslateFunc adapts a function to TextTranslator.
type TranslateFunc func(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error)

// Translate calls f.
func (f TranslateFunc) Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	return f(ctx, texts, targetLang, sourceLang)
}

// sessionBinder is implemented by clients that can resolve their credential
// once and reuse it for every chunk of a grid.
type sessionBinder interface {
	BindSession() (func(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error), error)
}

// Options controls chunking and pacing.
type Options struct {
	// MaxItems is the maximum number of texts per request (default chunker.DefaultMaxItems).
	MaxItems int
	// MaxBytes is the maximum serialized size of a request's texts (default chunker.DefaultMaxBytes).
	MaxBytes int
	// RequestDelay is waited between consecutive requests. Negative disables it.
	RequestDelay time.Duration
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnProgress is called after each chunk is translated.
	OnProgress func(done, total int)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveMaxItems() int {
	if o.MaxItems > 0 {
		return o.MaxItems
	}
	return chunker.DefaultMaxItems
}

func (o *Options) effectiveMaxBytes() int {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return chunker.DefaultMaxBytes
}

func (o *Options) effectiveDelay() time.Duration {
	if o.RequestDelay < 0 {
		return 0
	}
	if o.RequestDelay == 0 {
		return DefaultRequestDelay
	}
	return o.RequestDelay
}

// Result is a translated grid plus bookkeeping.
type Result struct {
	Grid            domain.Grid
	ChunksProcessed int
	CellsTranslated int
}

// Translator translates grids through a TextTranslator.
type Translator struct {
	client TextTranslator
	opts   Options
}

// New creates a new Translator.
func New(client TextTranslator, opts Options) *Translator {
	return &Translator{client: client, opts: opts}
}

// TranslateGrid returns a grid of the same shape as grid where every cell is
// the translation of the corresponding input cell. Empty cells stay empty and
// are never sent.
func (t *Translator) TranslateGrid(ctx context.Context, grid domain.Grid, targetLang, sourceLang string) (domain.Grid, error) {
	res, err := t.Translate(ctx, grid, targetLang, sourceLang)
	if err != nil {
		return nil, err
	}
	return res.Grid, nil
}

// Translate is TranslateGrid with chunk and cell counts.
// Chunks are sent one at a time; the first failure aborts the whole grid.
func (t *Translator) Translate(ctx context.Context, grid domain.Grid, targetLang, sourceLang string) (*Result, error) {
	if err := Validate(grid); err != nil {
		return nil, err
	}
	cols := grid.Columns()
	flat := Flatten(grid)

	// Only non-empty cells are sent; positions remember where they go back
	var positions []int
	var texts []string
	for i, text := range flat {
		if text == "" {
			continue
		}
		positions = append(positions, i)
		texts = append(texts, text)
	}

	out := make([]string, len(flat))
	if len(texts) == 0 {
		return &Result{Grid: Fold(out, cols)}, nil
	}

	chunks, err := chunker.Split(texts, t.opts.effectiveMaxItems(), t.opts.effectiveMaxBytes())
	if err != nil {
		return nil, err
	}
	t.opts.log("Translating %d cells in %d chunk(s) into %s", len(texts), len(chunks), targetLang)

	client := t.client
	if b, ok := client.(sessionBinder); ok {
		bound, err := b.BindSession()
		if err != nil {
			return nil, err
		}
		client = TranslateFunc(bound)
	}

	translated := make([]string, 0, len(texts))
	for i, chunk := range chunks {
		if i > 0 {
			if err := wait(ctx, t.opts.effectiveDelay()); err != nil {
				return nil, err
			}
		}

		result, err := client.Translate(ctx, chunk, targetLang, sourceLang)
		if err != nil {
			t.opts.log("Chunk %d/%d failed: %v", i+1, len(chunks), err)
			return nil, err
		}
		if len(result) != len(chunk) {
			return nil, fmt.Errorf("%w: chunk %d returned %d translations for %d texts", domain.ErrRemoteCallFailed, i+1, len(result), len(chunk))
		}
		translated = append(translated, result...)

		if t.opts.OnProgress != nil {
			t.opts.OnProgress(i+1, len(chunks))
		}
	}

	if len(translated) != len(texts) {
		return nil, fmt.Errorf("%w: got %d translations for %d cells", domain.ErrRemoteCallFailed, len(translated), len(texts))
	}
	for i, pos := range positions {
		out[pos] = translated[i]
	}

	return &Result{
		Grid:            Fold(out, cols),
		ChunksProcessed: len(chunks),
		CellsTranslated: len(texts),
	}, nil
}

// Validate checks that grid is non-empty and rectangular.
func Validate(grid domain.Grid) error {
	cols := grid.Columns()
	if len(grid) == 0 || cols == 0 {
		return domain.ErrEmptyInput
	}
	for i, row := range grid {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", domain.ErrRaggedGrid, i+1, len(row), cols)
		}
	}
	return nil
}

// Flatten reads grid row by row into a single slice.
func Flatten(grid domain.Grid) []string {
	flat := make([]string, 0, len(grid)*grid.Columns())
	for _, row := range grid {
		flat = append(flat, row...)
	}
	return flat
}

// Fold is the inverse of Flatten: element i lands in row i/cols, column i%cols.
func Fold(flat []string, cols int) domain.Grid {
	if cols <= 0 {
		return domain.Grid{}
	}
	grid := make(domain.Grid, 0, (len(flat)+cols-1)/cols)
	for start := 0; start < len(flat); start += cols {
		end := start + cols
		if end > len(flat) {
			end = len(flat)
		}
		row := make([]string, end-start)
		copy(row, flat[start:end])
		grid = append(grid, row)
	}
	return grid
}

// wait pauses for d unless ctx is done first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
