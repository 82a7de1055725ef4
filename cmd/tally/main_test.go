// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"filippo.io/age"

	"github.com/bureau-foundation/tally/cmd/tally/cli"
	"github.com/bureau-foundation/tally/lib/clock"
	"github.com/bureau-foundation/tally/lib/config"
	"github.com/bureau-foundation/tally/lib/tape"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testApp is an app wired to buffers, a fake clock, and an isolated
// archive directory. Configuration comes from defaults only.
type testApp struct {
	*app
	stdin      *bytes.Buffer
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	archiveDir string
	tuiRan     bool
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	archiveDir := filepath.Join(t.TempDir(), "archives")
	t.Setenv(config.EnvVar, "")
	t.Setenv("TALLY_DATA", archiveDir)

	test := &testApp{
		stdin:      &bytes.Buffer{},
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
		archiveDir: archiveDir,
	}
	test.app = &app{
		stdin:       test.stdin,
		stdout:      test.stdout,
		stderr:      test.stderr,
		clock:       clock.Fake(epoch),
		interactive: func() bool { return false },
		runTUI: func(*app, *commandEnvironment) error {
			test.tuiRan = true
			return nil
		},
	}
	return test
}

func (test *testApp) execute(args ...string) error {
	return test.rootCommand().Execute(args)
}

func requireCategory(t *testing.T, err error, want cli.ErrorCategory) {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error = %v (%T), want a ToolError", err, err)
	}
	if toolErr.Category != want {
		t.Fatalf("category = %q, want %q (error: %v)", toolErr.Category, want, err)
	}
}

func TestEval(t *testing.T) {
	test := newTestApp(t)
	if err := test.execute("eval", "10+5-3="); err != nil {
		t.Fatalf("eval: %v", err)
	}
	// The separator is the widest line, so everything else is padded
	// to ten columns.
	want := strings.Join([]string{
		"      10 +",
		"       5 -",
		"         3",
		"──────────",
		"       8 T",
		"",
		"         8",
		"",
	}, "\n")
	if got := test.stdout.String(); got != want {
		t.Errorf("eval output:\n%s\nwant:\n%s", got, want)
	}
}

func TestEvalJoinsArguments(t *testing.T) {
	test := newTestApp(t)
	if err := test.execute("eval", "--format", "json", "6*", "7="); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(test.stdout.String(), `"display": "42"`) {
		t.Errorf("json output missing display 42:\n%s", test.stdout.String())
	}
}

func TestEvalFromStdin(t *testing.T) {
	test := newTestApp(t)
	test.stdin.WriteString("# lunch\n12.5 * 2 =\n")
	if err := test.execute("eval", "--format", "markdown"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.Contains(test.stdout.String(), "**`25 T`**") {
		t.Errorf("markdown output missing bold total:\n%s", test.stdout.String())
	}
}

func TestEvalArithmeticErrorIsNotAFailure(t *testing.T) {
	test := newTestApp(t)
	if err := test.execute("eval", "5/0="); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !strings.HasSuffix(test.stdout.String(), "Error\n") {
		t.Errorf("output should end with the error display:\n%s", test.stdout.String())
	}
	if !strings.Contains(test.stderr.String(), "arithmetic error") {
		t.Errorf("stderr should log the arithmetic error, got %q", test.stderr.String())
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		category cli.ErrorCategory
	}{
		{"bad script", []string{"eval", "1+2?"}, cli.CategoryValidation},
		{"bad format", []string{"eval", "--format", "pdf", "1"}, cli.CategoryValidation},
		{"bad log level", []string{"eval", "--log-level", "loud", "1"}, cli.CategoryValidation},
		{"missing config", []string{"eval", "--config", "/nonexistent/tally.yaml", "1"}, cli.CategoryNotFound},
		{"unknown flag", []string{"eval", "--formt", "json"}, cli.CategoryValidation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			app := newTestApp(t)
			requireCategory(t, app.execute(test.args...), test.category)
		})
	}
}

func TestRootReadsStdinWhenNotInteractive(t *testing.T) {
	test := newTestApp(t)
	test.stdin.WriteString("2+3=")
	if err := test.execute(); err != nil {
		t.Fatalf("tally: %v", err)
	}
	if test.tuiRan {
		t.Error("TUI should not run without a terminal")
	}
	if !strings.Contains(test.stdout.String(), "5 T") {
		t.Errorf("output missing total:\n%s", test.stdout.String())
	}
}

func TestRootRunsTUIOnTerminal(t *testing.T) {
	test := newTestApp(t)
	test.interactive = func() bool { return true }
	if err := test.execute("--no-color"); err != nil {
		t.Fatalf("tally: %v", err)
	}
	if !test.tuiRan {
		t.Error("TUI should run on a terminal")
	}
}

func TestRootRejectsArguments(t *testing.T) {
	test := newTestApp(t)
	requireCategory(t, test.execute("--no-color", "2+3="), cli.CategoryValidation)
	requireCategory(t, test.execute("evl"), cli.CategoryValidation)
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"--version"}} {
		test := newTestApp(t)
		if err := test.execute(args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if !strings.HasPrefix(test.stdout.String(), "tally ") {
			t.Errorf("%v output = %q, want tally version", args, test.stdout.String())
		}
	}
}

func TestRecordAndReplay(t *testing.T) {
	test := newTestApp(t)
	if err := test.execute("record", "--compression", "lz4", "19.99+5.01="); err != nil {
		t.Fatalf("record: %v", err)
	}
	path := strings.TrimSpace(test.stdout.String())
	wantPrefix := filepath.Join(test.archiveDir, "20260301T120000Z-")
	if !strings.HasPrefix(path, wantPrefix) || !strings.HasSuffix(path, tape.Extension) {
		t.Fatalf("record printed %q, want %s<digest>%s", path, wantPrefix, tape.Extension)
	}

	replay := newTestApp(t)
	if err := replay.execute("replay", path); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(replay.stdout.String(), "25 T") {
		t.Errorf("replay output missing total:\n%s", replay.stdout.String())
	}
}

func TestRecordKeepsEarlierArchives(t *testing.T) {
	test := newTestApp(t)
	scripts := []string{"1+1=", "9*9=", "9*9="}
	var paths []string
	for _, script := range scripts {
		test.stdout.Reset()
		if err := test.execute("record", script); err != nil {
			t.Fatalf("record %q: %v", script, err)
		}
		paths = append(paths, strings.TrimSpace(test.stdout.String()))
	}

	entries, err := os.ReadDir(test.archiveDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != len(scripts) {
		t.Fatalf("archive directory holds %d files, want %d: %q", len(entries), len(scripts), paths)
	}

	first, err := tape.Load(paths[0], nil)
	if err != nil {
		t.Fatalf("Load(%s): %v", paths[0], err)
	}
	if got := first.Lines[len(first.Lines)-1]; got != "2 T" {
		t.Errorf("first archive total = %q, want 2 T", got)
	}
	if paths[1] == paths[2] {
		t.Errorf("identical sessions share the path %s", paths[1])
	}
}

func TestReplayKeysFeedsEval(t *testing.T) {
	test := newTestApp(t)
	output := filepath.Join(t.TempDir(), "lunch.taly")
	if err := test.execute("record", "--out", output, "12.5*3=19.99+5.01="); err != nil {
		t.Fatalf("record: %v", err)
	}

	replay := newTestApp(t)
	if err := replay.execute("replay", "--keys", output); err != nil {
		t.Fatalf("replay --keys: %v", err)
	}
	script := replay.stdout.String()
	if strings.Contains(script, "T") {
		t.Errorf("--keys printed the tape, want keys:\n%s", script)
	}

	direct := newTestApp(t)
	if err := direct.execute("eval", "12.5*3=19.99+5.01="); err != nil {
		t.Fatalf("eval: %v", err)
	}
	rerun := newTestApp(t)
	rerun.stdin.WriteString(script)
	if err := rerun.execute("eval"); err != nil {
		t.Fatalf("eval of replayed keys: %v\nscript:\n%s", err, script)
	}
	if rerun.stdout.String() != direct.stdout.String() {
		t.Errorf("replayed keys evaluate to\n%s\nwant\n%s", rerun.stdout.String(), direct.stdout.String())
	}
}

func TestRecordExplicitOutput(t *testing.T) {
	test := newTestApp(t)
	output := filepath.Join(t.TempDir(), "lunch.taly")
	if err := test.execute("record", "--out", output, "12+"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("archive not written: %v", err)
	}
}

func TestRecordEncryptedReplay(t *testing.T) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("GenerateX25519Identity: %v", err)
	}
	directory := t.TempDir()
	identityPath := filepath.Join(directory, "key.txt")
	if err := os.WriteFile(identityPath, []byte(identity.String()+"\n"), 0o600); err != nil {
		t.Fatalf("writing identity: %v", err)
	}
	archive := filepath.Join(directory, "secret.taly")

	test := newTestApp(t)
	if err := test.execute("record", "--out", archive, "--recipient", identity.Recipient().String(), "6*7="); err != nil {
		t.Fatalf("record: %v", err)
	}

	locked := newTestApp(t)
	requireCategory(t, locked.execute("replay", archive), cli.CategoryValidation)

	unlocked := newTestApp(t)
	if err := unlocked.execute("replay", "--identity", identityPath, archive); err != nil {
		t.Fatalf("replay with identity: %v", err)
	}
	if !strings.Contains(unlocked.stdout.String(), "42 T") {
		t.Errorf("replay output missing total:\n%s", unlocked.stdout.String())
	}
}

func TestRecordRejectsBadRecipient(t *testing.T) {
	test := newTestApp(t)
	requireCategory(t, test.execute("record", "--recipient", "age1nope", "1"), cli.CategoryValidation)
}

func TestReplayErrors(t *testing.T) {
	directory := t.TempDir()
	notArchive := filepath.Join(directory, "notes.txt")
	if err := os.WriteFile(notArchive, []byte("hello, world"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		category cli.ErrorCategory
	}{
		{"no path", []string{"replay"}, cli.CategoryValidation},
		{"missing archive", []string{"replay", filepath.Join(directory, "gone.taly")}, cli.CategoryNotFound},
		{"not an archive", []string{"replay", notArchive}, cli.CategoryValidation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			app := newTestApp(t)
			requireCategory(t, app.execute(test.args...), test.category)
		})
	}
}

func TestReplayTamperedArchive(t *testing.T) {
	session, err := tape.Record(nil, clock.Fake(epoch))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	session.Lines = []string{"1000000 T"}
	path := filepath.Join(t.TempDir(), "forged.taly")
	if _, err := tape.Save(path, session, tape.SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	test := newTestApp(t)
	err = test.execute("replay", path)
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != exitVerifyFailed {
		t.Fatalf("replay error = %v, want exit code %d", err, exitVerifyFailed)
	}
	if !strings.Contains(test.stdout.String(), "1000000 T") {
		t.Errorf("tampered tape should still be printed:\n%s", test.stdout.String())
	}
	if !strings.Contains(test.stderr.String(), "verification failed") {
		t.Errorf("stderr = %q, want verification diagnostic", test.stderr.String())
	}
}

func TestLogOutputFile(t *testing.T) {
	test := newTestApp(t)
	logPath := filepath.Join(t.TempDir(), "tally.jsonl")
	if err := test.execute("eval", "--log-output", logPath, "5/0="); err != nil {
		t.Fatalf("eval: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"arithmetic error"`) {
		t.Errorf("log file missing arithmetic error record:\n%s", data)
	}
}

func TestWatchRequiresOneFile(t *testing.T) {
	test := newTestApp(t)
	requireCategory(t, test.execute("watch"), cli.CategoryValidation)
}
