package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Output is one named destination of a Fanout, such as "stdout" or "postgres".
type Output struct {
	Name    string
	Handler slog.Handler
}

// Fanout sends each record to every output that accepts its level. A failing
// output never stops delivery to the others; all failures come back joined
// and tagged with the output's name.
type Fanout struct {
	outputs []Output
}

// NewFanout skips outputs without a handler.
func NewFanout(outputs ...Output) *Fanout {
	kept := make([]Output, 0, len(outputs))
	for _, o := range outputs {
		if o.Handler != nil {
			kept = append(kept, o)
		}
	}
	return &Fanout{outputs: kept}
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, o := range f.outputs {
		if o.Handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *Fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, o := range f.outputs {
		if !o.Handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := o.Handler.Handle(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return f
	}
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *Fanout) derive(fn func(slog.Handler) slog.Handler) *Fanout {
	outputs := make([]Output, len(f.outputs))
	for i, o := range f.outputs {
		outputs[i] = Output{Name: o.Name, Handler: fn(o.Handler)}
	}
	return &Fanout{outputs: outputs}
}
