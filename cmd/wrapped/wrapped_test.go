package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const sampleExport = `[
  {"id":"l1","logged_at":"2026-02-10T05:30:00+01:00","bristol_type":4,"volume":"medium","color":"brown","duration_seconds":120},
  {"id":"l3","logged_at":"2026-02-12T08:00:00+01:00","bristol_type":4,"volume":"large","duration_seconds":300,"is_public":true},
  {"id":"l2","logged_at":"2026-02-11T08:00:00+01:00","bristol_type":3,"volume":"small","color":"dark-brown","duration_seconds":180}
]`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMonthly(t *testing.T) {
	path := writeExport(t, sampleExport)

	out, err := run(t, "", "monthly", "--file", path, "--month", "2026-02", "--tz", "Europe/Rome", "--unlocked", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"=== February 2026 ===",
		"Logs:            3",
		"Favorite hour:   8 AM",
		"💩 3 logs",
		"⏱ 10 min total throne time",
		"🏆 2 achievements unlocked",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestMonthly_EmptyMonth(t *testing.T) {
	path := writeExport(t, sampleExport)

	out, err := run(t, "", "monthly", "-f", path, "--month", "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No logs this month") || !strings.Contains(out, "💩 0 logs") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestAchievements_FromStdin(t *testing.T) {
	out, err := run(t, sampleExport, "achievements", "--file", "-", "--tz", "Europe/Rome", "--unlocked", "first_flush")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(out, "\n")
	var firstFlush, earlyBird string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "First Flush"):
			firstFlush = l
		case strings.Contains(l, "Early Bird"):
			earlyBird = l
		}
	}
	if firstFlush == "" || strings.Contains(firstFlush, "NEW") {
		t.Fatalf("first_flush should be listed as already unlocked: %q", firstFlush)
	}
	if !strings.Contains(earlyBird, "NEW") {
		t.Fatalf("early_bird should be NEW (05:30 Rome): %q", earlyBird)
	}
	if !strings.Contains(out, "I've unlocked 2/11 achievements") {
		t.Fatalf("unexpected share text:\n%s", out)
	}
}

func TestAchievements_AuxFlags(t *testing.T) {
	path := writeExport(t, sampleExport)

	out, err := run(t, "", "achievements", "-f", path, "--friends", "10", "--bidet", "10", "--streak", "30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"Social Butterfly", "Bidet Connoisseur", "Streak Master"} {
		found := false
		for _, l := range strings.Split(out, "\n") {
			if strings.Contains(l, name) && strings.Contains(l, "NEW") {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %s NEW in output:\n%s", name, out)
		}
	}
}

func TestHealth(t *testing.T) {
	path := writeExport(t, sampleExport)

	out, err := run(t, "", "health", "--file", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Health score: ") || !strings.Contains(out, "/100") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestErrors(t *testing.T) {
	path := writeExport(t, sampleExport)

	cases := map[string][]string{
		"missing file flag":   {"health"},
		"bad tz":              {"health", "-f", path, "--tz", "Mars/Olympus"},
		"bad month":           {"monthly", "-f", path, "--month", "02-2026"},
		"unknown achievement": {"achievements", "-f", path, "--unlocked", "first_flush,golden_throne"},
		"missing export":      {"health", "-f", filepath.Join(t.TempDir(), "nope.json")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := run(t, "", args...); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}

	bad := writeExport(t, `[{"logged_at":"2026-02-10T05:30:00Z","bristol_type":9,"volume":"medium"}]`)
	if _, err := run(t, "", "health", "-f", bad); err == nil || !strings.Contains(err.Error(), "entry 0") {
		t.Fatalf("expected entry error, got %v", err)
	}
}
