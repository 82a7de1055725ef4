// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tape

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bureau-foundation/tally/lib/codec"
)

// Magic opens every unencrypted archive.
const Magic = "TALY"

// ContainerVersion is the container layout version byte.
const ContainerVersion = 1

// maxPayloadSize bounds the declared uncompressed length so a corrupt
// header cannot trigger a huge allocation.
const maxPayloadSize = 64 << 20

var (
	// ErrBadMagic means the data is neither a tally archive nor an
	// age-encrypted one.
	ErrBadMagic = errors.New("tape: not a tally archive")

	// ErrUnsupportedVersion means the container was written by a newer
	// format revision.
	ErrUnsupportedVersion = errors.New("tape: unsupported container version")
)

// Encode serializes a session into the container format. Requested
// compression that does not shrink the payload is replaced by
// CompressionNone; the returned tag is what was actually used.
func Encode(session Session, compression Compression) ([]byte, Compression, error) {
	payload, err := codec.Marshal(session)
	if err != nil {
		return nil, 0, fmt.Errorf("tape: encoding session: %w", err)
	}

	compressed, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compressed, compression = payload, CompressionNone
	} else if err != nil {
		return nil, 0, err
	}

	header := make([]byte, 0, len(Magic)+2+binary.MaxVarintLen64)
	header = append(header, Magic...)
	header = append(header, ContainerVersion, byte(compression))
	header = binary.AppendUvarint(header, uint64(len(payload)))

	return append(header, compressed...), compression, nil
}

// Decode parses a container produced by Encode.
func Decode(data []byte) (Session, error) {
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return Session{}, ErrBadMagic
	}
	data = data[len(Magic):]
	if len(data) < 2 {
		return Session{}, fmt.Errorf("tape: truncated header")
	}
	if data[0] != ContainerVersion {
		return Session{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}
	compression := Compression(data[1])
	data = data[2:]

	size, read := binary.Uvarint(data)
	if read <= 0 {
		return Session{}, fmt.Errorf("tape: malformed payload length")
	}
	if size > maxPayloadSize {
		return Session{}, fmt.Errorf("tape: payload length %d exceeds limit", size)
	}

	payload, err := decompress(data[read:], compression, int(size))
	if err != nil {
		return Session{}, fmt.Errorf("tape: %w", err)
	}

	var session Session
	if err := codec.Unmarshal(payload, &session); err != nil {
		return Session{}, fmt.Errorf("tape: decoding session: %w", err)
	}
	return session, nil
}
