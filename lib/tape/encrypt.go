// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tape

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"
)

// ageHeader opens every binary age file.
const ageHeader = "age-encryption.org/"

// ErrEncrypted means an archive is age-encrypted and no identity was
// supplied to open it.
var ErrEncrypted = errors.New("tape: archive is encrypted; an identity is required")

// Encrypt encrypts data to one or more age X25519 public keys
// (age1... strings).
func Encrypt(data []byte, recipientKeys []string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("writing archive to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Decrypt opens age ciphertext with any of the given identities.
func Decrypt(ciphertext []byte, identities []age.Identity) ([]byte, error) {
	if len(identities) == 0 {
		return nil, ErrEncrypted
	}
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting archive: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted archive: %w", err)
	}
	return plaintext, nil
}

// IsEncrypted reports whether data starts with an age header.
func IsEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, []byte(ageHeader))
}

// LoadIdentities reads an age identities file (one AGE-SECRET-KEY-1...
// per line, # comments allowed).
func LoadIdentities(path string) ([]age.Identity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identities: %w", err)
	}
	defer file.Close()

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return nil, fmt.Errorf("parsing identities %s: %w", path, err)
	}
	return identities, nil
}
