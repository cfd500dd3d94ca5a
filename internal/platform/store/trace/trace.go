// Package trace carries sql query events from the store adapters to observers
// such as the sql log and query metrics
package trace

import (
	"context"
	"time"

	"fishdash/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Event describes one finished sql call
type Event struct {
	Backend   string
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// Elapsed returns the call duration
func (e Event) Elapsed() time.Duration { return time.Duration(e.ElapsedUS) * time.Microsecond }

// Tracer observes query events
type Tracer interface {
	OnQuery(ctx context.Context, ev Event)
}

// Func adapts a plain function to Tracer
type Func func(ctx context.Context, ev Event)

// OnQuery calls f
func (f Func) OnQuery(ctx context.Context, ev Event) { f(ctx, ev) }

// Multi fans an event out to every non nil tracer; nil when none remain
func Multi(ts ...Tracer) Tracer {
	var keep []Tracer
	for _, t := range ts {
		if t != nil {
			keep = append(keep, t)
		}
	}
	switch len(keep) {
	case 0:
		return nil
	case 1:
		return keep[0]
	}
	return multi(keep)
}

type multi []Tracer

func (m multi) OnQuery(ctx context.Context, ev Event) {
	for _, t := range m {
		t.OnQuery(ctx, ev)
	}
}

// Log returns a tracer that always prints sql, independent of the root level
// slow queries log at warn
func Log(root logger.Logger) Tracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "sql").Logger()
	return &logTracer{log: ll}
}

type logTracer struct{ log logger.Logger }

func (z *logTracer) OnQuery(_ context.Context, ev Event) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	evt.Str("backend", ev.Backend).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("sql query")
}

// Emitter times calls for one backend and forwards events to a tracer
// the zero value is disabled
type Emitter struct {
	Backend string
	Tracer  Tracer
	SlowMs  int
}

// Emit reports a call that started at start; no-op without a tracer
func (e Emitter) Emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if e.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	e.Tracer.OnQuery(ctx, Event{
		Backend:   e.Backend,
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      e.SlowMs >= 0 && elapsedUS >= int64(e.SlowMs)*1000,
	})
}

// Compact folds runs of whitespace into single spaces
func Compact(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
			if !space {
				out = append(out, ' ')
				space = true
			}
			continue
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
