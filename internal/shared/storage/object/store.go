// Package object stores uploaded selfies in a blob store keyed per owner.
package object

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotFound is returned when a storage key does not exist.
var ErrNotFound = errors.New("object not found")

// Object describes a stored blob.
type Object struct {
	Key      string
	Size     int64
	MimeType string
	Checksum string // hex SHA-256 of the content
}

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, owner string, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// Presigner is implemented by stores that let clients upload directly.
type Presigner interface {
	PresignPut(ctx context.Context, owner, fileName, contentType string, ttl time.Duration) (url, storageKey string, err error)
}

// Sniff reads up to 512 bytes to detect the content type and returns a
// reader that replays them.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

// DetectContentType sniffs the MIME type from the leading bytes. Unlike
// http.DetectContentType it recognises HEIC and HEIF, so iPhone selfies are
// not reported as application/octet-stream.
func DetectContentType(b []byte) string {
	return mimetype.Detect(b).String()
}

// DigestReader counts and hashes everything read through it.
type DigestReader struct {
	r io.Reader
	h hash.Hash
	n int64
}

// NewDigestReader wraps r.
func NewDigestReader(r io.Reader) *DigestReader {
	return &DigestReader{r: r, h: sha256.New()}
}

func (d *DigestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
		d.n += int64(n)
	}
	return n, err
}

// Size returns the number of bytes read so far.
func (d *DigestReader) Size() int64 { return d.n }

// Checksum returns the hex SHA-256 of the bytes read so far.
func (d *DigestReader) Checksum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
