// Package uploader implements the client side of the resource upload
// pipeline: size validation, advisory metadata extraction, write-credential
// negotiation, the PUT transfer with progress and cancellation, signed-URL
// resolution, and the dismissal guard that prevents orphaned objects.
package uploader

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// OpenFunc produces an independent read handle over the file content. Every
// consumer (metadata probe, transfer) opens its own handle and closes it.
type OpenFunc func() (io.ReadSeekCloser, error)

// File is a user-selected file staged for upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        OpenFunc
}

// FromPath stages a file on disk. The MIME type is derived from the
// extension and falls back to application/octet-stream.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadSeekCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes stages in-memory content, mainly for tests and generated files.
func FromBytes(name, contentType string, data []byte) File {
	return File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadSeekCloser, error) {
			return nopSeekCloser{bytes.NewReader(data)}, nil
		},
	}
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error { return nil }

// Metadata is derived from the file itself, never from the network.
type Metadata struct {
	SizeBytes   int64
	DurationSec int
}

// Credential is a short-lived, server-issued write grant. The upload URL is
// valid for a single PUT; the file URL is the canonical public-style URL of
// the eventual object.
type Credential struct {
	UploadURL string
	FileURL   string
	FileName  string
}

// Result bundles everything the caller persists after a successful upload.
type Result struct {
	FileURL     string
	FileName    string
	SizeMB      float64
	DurationSec int
}
