package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"DEBUG":   Debug,
		" warn ":  Warn,
		"warning": Warn,
		"error":   Error,
		"verbose": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Info, Format: FormatJSON, App: "poopals", Output: &buf})

	l.With(map[string]any{"component": "router"}).Info("log recorded", map[string]any{
		"user_id": "u-1",
		"err":     errors.New("boom"),
		"":        "ignored",
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "log recorded" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["app"] != "poopals" || entry["component"] != "router" || entry["user_id"] != "u-1" {
		t.Fatalf("missing fields: %v", entry)
	}
	if entry["err"] != "boom" {
		t.Fatalf("expected error as string, got %v", entry["err"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatText, Output: &buf})

	l.Info("hidden", nil)
	l.Debug("hidden", nil)
	l.Warn("shown", map[string]any{"n": 1})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info/debug should be filtered, got %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "n=1") {
		t.Fatalf("expected warn line, got %q", out)
	}
}
