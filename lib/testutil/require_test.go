// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"
	"time"
)

// recordingT captures Fatalf instead of stopping the test.
type recordingT struct {
	failed  bool
	message string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireEventually(t *testing.T) {
	calls := 0
	RequireEventually(t, 5*time.Second, func() bool {
		calls++
		return calls == 3
	}, "third call")
	if calls != 3 {
		t.Errorf("condition called %d times, want 3", calls)
	}
}

func TestRequireEventuallyTimesOut(t *testing.T) {
	recorder := &recordingT{}
	RequireEventually(recorder, 20*time.Millisecond, func() bool { return false }, "never %s", "true")
	if !recorder.failed {
		t.Fatal("expected a failure")
	}
	if recorder.message != "timed out after 20ms: never true" {
		t.Errorf("message = %q", recorder.message)
	}
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		args []any
		want string
	}{
		{nil, "(no message)"},
		{[]any{"plain"}, "plain"},
		{[]any{42}, "42"},
		{[]any{"%d keys", 3}, "3 keys"},
	}
	for _, test := range tests {
		if got := formatMessage(test.args); got != test.want {
			t.Errorf("formatMessage(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
