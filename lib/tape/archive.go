// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tape

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"filippo.io/age"
)

// Extension is the conventional archive file extension.
const Extension = ".taly"

// SaveOptions control how Save writes an archive.
type SaveOptions struct {
	Compression Compression

	// Recipients are age X25519 public keys. When non-empty the
	// container is encrypted to all of them.
	Recipients []string

	// NoReplace makes Save fail with an error wrapping fs.ErrExist
	// instead of replacing an existing file at the target path.
	NoReplace bool
}

// SaveResult describes what Save wrote.
type SaveResult struct {
	Path        string
	Bytes       int
	Compression Compression
	Encrypted   bool
}

// Save writes session to path atomically: the archive is written to a
// temporary file in the same directory and renamed into place. With
// NoReplace the temporary file is hard-linked instead, which fails
// rather than clobbering an archive that already exists.
func Save(path string, session Session, options SaveOptions) (SaveResult, error) {
	data, compression, err := Encode(session, options.Compression)
	if err != nil {
		return SaveResult{}, err
	}
	if len(options.Recipients) > 0 {
		if data, err = Encrypt(data, options.Recipients); err != nil {
			return SaveResult{}, err
		}
	}

	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, ".tally-*"+Extension)
	if err != nil {
		return SaveResult{}, fmt.Errorf("creating archive: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return SaveResult{}, fmt.Errorf("writing archive: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return SaveResult{}, fmt.Errorf("writing archive: %w", err)
	}
	if err := install(temporaryPath, path, options.NoReplace); err != nil {
		return SaveResult{}, fmt.Errorf("installing archive: %w", err)
	}

	return SaveResult{
		Path:        path,
		Bytes:       len(data),
		Compression: compression,
		Encrypted:   len(options.Recipients) > 0,
	}, nil
}

func install(temporaryPath, path string, noReplace bool) error {
	if !noReplace {
		return os.Rename(temporaryPath, path)
	}
	if err := os.Link(temporaryPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, fs.ErrExist)
		}
		return err
	}
	return nil
}

// Load reads an archive, decrypting it with identities when it is
// age-encrypted. Load does not verify the session; call Verify.
func Load(path string, identities []age.Identity) (Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Session{}, fmt.Errorf("reading archive: %w", err)
	}
	if IsEncrypted(data) {
		if data, err = Decrypt(data, identities); err != nil {
			return Session{}, err
		}
	}
	return Decode(data)
}

// ArchiveName returns the default file name for a session: its
// CreatedAt time followed by the first eight hex digits of its digest,
// so different sessions recorded in the same second get different
// names.
func ArchiveName(session Session) string {
	name := session.CreatedAt.UTC().Format("20060102T150405Z")
	if digest := session.Digest; digest != "" {
		name += "-" + digest[:min(len(digest), 8)]
	}
	return name + Extension
}

// ArchiveNameAttempt returns ArchiveName with a numeric suffix for
// attempt > 1, for callers that must not replace an earlier archive of
// an identical session.
func ArchiveNameAttempt(session Session, attempt int) string {
	name := ArchiveName(session)
	if attempt <= 1 {
		return name
	}
	return fmt.Sprintf("%s.%d%s", name[:len(name)-len(Extension)], attempt, Extension)
}
