// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tape

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/tally/lib/adder"
	"github.com/bureau-foundation/tally/lib/clock"
	"github.com/bureau-foundation/tally/lib/codec"
)

// SessionVersion is the current Session schema version.
const SessionVersion = 1

var (
	// ErrDigestMismatch means the stored digest does not cover the
	// stored keys and tape.
	ErrDigestMismatch = errors.New("tape: digest mismatch")

	// ErrTapeMismatch means replaying the recorded keys produces a
	// different tape or display than the one stored.
	ErrTapeMismatch = errors.New("tape: replayed tape does not match recording")
)

// Session is one recorded run of the machine.
type Session struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Keys are script tokens (see adder.Intent.Token), oldest first.
	Keys []string `json:"keys"`

	// Lines is the tape the keys produced.
	Lines []string `json:"lines"`

	// Display is the final display string.
	Display string `json:"display"`

	// Digest is the hex BLAKE3-256 of the canonical CBOR encoding of
	// Keys, Lines, and Display.
	Digest string `json:"digest"`
}

// digestInput is the canonical content covered by Session.Digest.
// Field order is fixed by the CBOR core-deterministic encoding.
type digestInput struct {
	Keys    []string `json:"keys"`
	Lines   []string `json:"lines"`
	Display string   `json:"display"`
}

// Record replays intents on a fresh machine and returns the sealed
// session, timestamped with source.
func Record(intents []adder.Intent, source clock.Clock) (Session, error) {
	state := adder.Replay(intents)

	keys := make([]string, len(intents))
	for index, intent := range intents {
		keys[index] = intent.Token()
	}

	session := Session{
		Version:   SessionVersion,
		CreatedAt: source.Now().UTC(),
		Keys:      keys,
		Lines:     state.Tape(),
		Display:   state.Display(),
	}
	digest, err := computeDigest(session)
	if err != nil {
		return Session{}, err
	}
	session.Digest = digest
	return session, nil
}

// Intents parses Keys back into intents.
func (session Session) Intents() ([]adder.Intent, error) {
	intents, err := adder.ParseScript(strings.Join(session.Keys, ""))
	if err != nil {
		return nil, fmt.Errorf("tape: recorded keys: %w", err)
	}
	return intents, nil
}

// State replays the recorded keys and returns the resulting machine.
func (session Session) State() (adder.State, error) {
	intents, err := session.Intents()
	if err != nil {
		return adder.State{}, err
	}
	return adder.Replay(intents), nil
}

// Verify checks the digest and then replays Keys, comparing the result
// with the stored Lines and Display.
func Verify(session Session) error {
	if session.Version != SessionVersion {
		return fmt.Errorf("tape: unsupported session version %d", session.Version)
	}

	digest, err := computeDigest(session)
	if err != nil {
		return err
	}
	if digest != session.Digest {
		return fmt.Errorf("%w: stored %s, computed %s", ErrDigestMismatch, session.Digest, digest)
	}

	state, err := session.State()
	if err != nil {
		return err
	}
	if !slices.Equal(state.Tape(), session.Lines) {
		return fmt.Errorf("%w: replay has %d lines, recording has %d", ErrTapeMismatch, state.TapeLen(), len(session.Lines))
	}
	if state.Display() != session.Display {
		return fmt.Errorf("%w: replay displays %q, recording %q", ErrTapeMismatch, state.Display(), session.Display)
	}
	return nil
}

func computeDigest(session Session) (string, error) {
	encoded, err := codec.Marshal(digestInput{
		Keys:    nonNil(session.Keys),
		Lines:   nonNil(session.Lines),
		Display: session.Display,
	})
	if err != nil {
		return "", fmt.Errorf("tape: encoding digest input: %w", err)
	}
	sum := blake3.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// nonNil maps nil to an empty slice so that absent and empty lists
// encode identically.
func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
