// Package payload implements the compression-encoding transform that turns
// payload bytes into the text embedded in generated programs: gzip at the
// best compression level, re-encoded as standard padded base64.
//
// The transform is a chain of write-through stages, so neither the full
// compressed buffer nor the full encoded text is ever materialized:
//
//	Encoder.Write -> gzip -> base64 -> textGuard -> sink
//
// Close finishes gzip (flushing its tail and trailer) before base64
// (flushing the final quantum and padding).
package payload

import (
	"compress/gzip"
	"encoding/base64"
	stderrors "errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/conneroisu/codex/internal/errors"
)

// ErrInvalidText is reported when the encoding stage emits bytes that are not
// valid UTF-8. It can only happen through an internal bug.
var ErrInvalidText = stderrors.New("payload builder wrote invalid data")

// textGuard bridges the byte-oriented encoder to a text sink.
type textGuard struct {
	w io.Writer
}

func (g textGuard) Write(p []byte) (int, error) {
	if !utf8.Valid(p) {
		return 0, errors.NewInternalError("INVALID_TEXT", "encoded payload is not UTF-8", ErrInvalidText)
	}
	return g.w.Write(p)
}

// Encoder compresses and encodes everything written to it.
type Encoder struct {
	gz     *gzip.Writer
	b64    io.WriteCloser
	closed bool
}

// NewEncoder returns an Encoder writing base64 text to w.
func NewEncoder(w io.Writer) *Encoder {
	return newEncoder(textGuard{w: w})
}

func newEncoder(w io.Writer) *Encoder {
	b64 := base64.NewEncoder(base64.StdEncoding, w)
	// BestCompression is a valid level, so the error is always nil.
	gz, _ := gzip.NewWriterLevel(b64, gzip.BestCompression)
	return &Encoder{gz: gz, b64: b64}
}

// Write compresses p into the stream.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, errors.NewInternalError("ENCODER_CLOSED", "write after close", io.ErrClosedPipe)
	}
	return e.gz.Write(p)
}

// Close finishes the gzip stream, then the base64 stream. Both must succeed.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.gz.Close(); err != nil {
		return err
	}
	return e.b64.Close()
}

// Encode writes the base64-of-gzip encoding of data to w.
func Encode(w io.Writer, data []byte) error {
	enc := NewEncoder(w)
	if _, err := enc.Write(data); err != nil {
		return err
	}
	return enc.Close()
}

// EncodedString returns the encoding of data as a string.
func EncodedString(data []byte) (string, error) {
	var b strings.Builder
	if err := Encode(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
