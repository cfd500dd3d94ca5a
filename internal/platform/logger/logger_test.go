package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	kit "fishdash/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":     zerolog.TraceLevel,
		"INFO":      zerolog.InfoLevel,
		" warning ": zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"":          zerolog.DebugLevel,
		"loud":      zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestInit_NamedAndRequestScoped(t *testing.T) {
	kit.Serial(t)

	var buf bytes.Buffer
	prev := Get()
	t.Cleanup(func() { Replace(*prev) })

	Init(Options{
		Level:        "info",
		Format:       "json",
		Service:      "fishdash-api",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})

	Named("surveys").Info().Msg("catalog loaded")
	ctx := WithRequest(context.Background(), "req-123", "198.51.100.4")
	C(ctx).Info().Msg("request done")
	C(context.Background()).Debug().Msg("filtered")

	lines := jsonLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["component"] != "surveys" || lines[0]["service"] != "fishdash-api" || lines[0]["build"] != "test" {
		t.Fatalf("named line: %v", lines[0])
	}
	if lines[1]["request_id"] != "req-123" || lines[1]["client"] != "198.51.100.4" {
		t.Fatalf("request line: %v", lines[1])
	}
}

func TestReplace_Restores(t *testing.T) {
	kit.Serial(t)

	var a, b bytes.Buffer
	restoreA := Replace(New(Options{Format: "json", Writer: &a}))
	t.Cleanup(restoreA)

	restoreB := Replace(New(Options{Format: "json", Writer: &b}))
	Get().Info().Msg("to b")
	restoreB()
	Get().Info().Msg("to a")

	kit.MustContain(t, b.String(), "to b")
	kit.MustContain(t, a.String(), "to a")
	if strings.Contains(a.String(), "to b") {
		t.Fatal("restore did not swap back")
	}
}

func TestFromEnv(t *testing.T) {
	kit.Env(t, map[string]string{
		"LOG_LEVEL":   "warn",
		"LOG_FORMAT":  "JSON",
		"LOG_SERVICE": "fishdash",
		"LOG_CALLER":  "true",
	})

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "fishdash" || !opt.WithCaller {
		t.Fatalf("FromEnv = %+v", opt)
	}
}

func TestWithRequest_SkipsEmpty(t *testing.T) {
	ctx := WithRequest(context.Background(), "", "")
	if ctx != context.Background() {
		t.Fatal("empty values should not wrap the context")
	}
}
