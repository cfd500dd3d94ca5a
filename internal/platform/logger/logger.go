// Package logger wraps zerolog: one process root built from LOG_* env, named
// children per component and request scoped children carrying request_id and client
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"fishdash/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger; callers never import zerolog for the type
type Logger = zerolog.Logger

// Options configures a logger
type Options struct {
	Level        string // trace debug info warn error, default debug
	Format       string // console or json
	Service      string
	Writer       io.Writer // default stdout
	WithCaller   bool
	StaticFields map[string]string
}

// FromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_SERVICE and LOG_CALLER. It goes
// through config/raw because config itself logs
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      rc.Get("LEVEL", "debug"),
		Format:     strings.ToLower(rc.Get("FORMAT", "console")),
		Service:    rc.Get("SERVICE", ""),
		WithCaller: rc.GetBool("CALLER", false),
	}
}

var root atomic.Pointer[Logger]

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New builds a logger from opt without touching the root
func New(opt Options) Logger {
	var w io.Writer = os.Stdout
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	b := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if bi, ok := debug.ReadBuildInfo(); ok {
		b = b.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		b = b.Str("service", opt.Service)
	}
	for k, v := range opt.StaticFields {
		b = b.Str(k, v)
	}
	if opt.WithCaller {
		b = b.Caller()
	}
	return b.Logger()
}

// Init builds the root from opt, replacing any earlier root
func Init(opt Options) *Logger {
	l := New(opt)
	root.Store(&l)
	return &l
}

// Replace swaps the root for l and returns a func restoring the previous one
func Replace(l Logger) (restore func()) {
	prev := root.Swap(&l)
	return func() { root.Store(prev) }
}

// Get returns the root, building it from env on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	l := New(FromEnv())
	if root.CompareAndSwap(nil, &l) {
		return &l
	}
	return root.Load()
}

// parseLevel accepts zerolog names plus "warning"; anything else is debug
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.DebugLevel
	}
	return lvl
}

type ctxKey uint8

const (
	keyRequestID ctxKey = iota
	keyClient
)

// WithRequest annotates ctx with the fields C adds to every line; empty values are skipped
func WithRequest(ctx context.Context, reqID, client string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, keyRequestID, reqID)
	}
	if client != "" {
		ctx = context.WithValue(ctx, keyClient, client)
	}
	return ctx
}

// C returns a child of the root carrying request_id and client from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	if s, _ := ctx.Value(keyRequestID).(string); s != "" {
		b = b.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyClient).(string); s != "" {
		b = b.Str("client", s)
	}
	l := b.Logger()
	return &l
}

// Named returns a child of the root with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
