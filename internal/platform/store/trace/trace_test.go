package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", " select 1 "},
		{"SELECT\t*\nFROM\r\tsurveys WHERE  id =  1", "SELECT * FROM surveys WHERE id = 1"},
		{"", ""},
	}
	for i, c := range cases {
		if got := Compact(c.in); got != c.want {
			t.Fatalf("case %d: Compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

func TestLog_InfoAndWarn(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := Log(zerolog.New(&buf))

	type line struct {
		Level     string  `json:"level"`
		Backend   string  `json:"backend"`
		ElapsedMS float64 `json:"elapsed_ms"`
		Slow      bool    `json:"slow"`
		SQL       string  `json:"sql"`
		Error     string  `json:"error"`
		Message   string  `json:"message"`
		Component string  `json:"component"`
	}

	ev := Event{Backend: "sqlite", SQL: "SELECT  *\n FROM waters", ElapsedUS: 2500, Err: errors.New("boom")}
	tr.OnQuery(context.Background(), ev)

	var got line
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("unmarshal: %v raw=%s", err, buf.String())
	}
	if got.Level != "info" || got.Backend != "sqlite" || got.Component != "sql" {
		t.Fatalf("unexpected line %+v", got)
	}
	if got.SQL != "SELECT * FROM waters" || got.Error != "boom" || got.Message != "sql query" {
		t.Fatalf("unexpected line %+v", got)
	}
	if got.ElapsedMS != 2.5 {
		t.Fatalf("elapsed_ms = %v, want 2.5", got.ElapsedMS)
	}

	buf.Reset()
	ev.Slow = true
	tr.OnQuery(context.Background(), ev)
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Level != "warn" || !got.Slow {
		t.Fatalf("slow query should log at warn, got %+v", got)
	}
}

func TestMulti(t *testing.T) {
	t.Parallel()

	if Multi() != nil || Multi(nil, nil) != nil {
		t.Fatalf("Multi of nothing should be nil")
	}

	var a, b int
	ta := Func(func(context.Context, Event) { a++ })
	tb := Func(func(context.Context, Event) { b++ })

	one := Multi(nil, ta)
	one.OnQuery(context.Background(), Event{})
	if a != 1 {
		t.Fatalf("single tracer not called")
	}

	Multi(ta, nil, tb).OnQuery(context.Background(), Event{})
	if a != 2 || b != 1 {
		t.Fatalf("fan out failed a=%d b=%d", a, b)
	}
}

func TestEmitter(t *testing.T) {
	t.Parallel()

	// zero emitter is a no-op
	Emitter{}.Emit(context.Background(), "SELECT 1", nil, time.Now(), nil)

	var got Event
	e := Emitter{Backend: "pg", SlowMs: 0, Tracer: Func(func(_ context.Context, ev Event) { got = ev })}
	e.Emit(context.Background(), "SELECT 1", []any{1}, time.Now().Add(-5*time.Millisecond), nil)

	if got.Backend != "pg" || got.SQL != "SELECT 1" {
		t.Fatalf("unexpected event %+v", got)
	}
	if !got.Slow {
		t.Fatalf("SlowMs 0 marks every query slow")
	}
	if got.Elapsed() < 5*time.Millisecond {
		t.Fatalf("elapsed too small: %v", got.Elapsed())
	}

	e.SlowMs = -1
	e.Emit(context.Background(), "SELECT 1", nil, time.Now(), nil)
	if got.Slow {
		t.Fatalf("negative SlowMs disables slow marking")
	}
}
