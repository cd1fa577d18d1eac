package payload

import (
	"compress/gzip"
	"encoding/base64"
	"io"
	"strings"

	"github.com/conneroisu/codex/internal/errors"
)

// Decoder reverses Encoder: it reads base64 text and yields the original
// payload bytes.
type Decoder struct {
	gz *gzip.Reader
}

// NewDecoder reads the gzip header from r. Line breaks in the base64 text
// are ignored.
func NewDecoder(r io.Reader) (*Decoder, error) {
	gz, err := gzip.NewReader(base64.NewDecoder(base64.StdEncoding, r))
	if err != nil {
		return nil, errors.WrapValidation(err, "PAYLOAD_DECODE", "payload is not base64-encoded gzip")
	}
	return &Decoder{gz: gz}, nil
}

// Read implements io.Reader.
func (d *Decoder) Read(p []byte) (int, error) {
	return d.gz.Read(p)
}

// Close releases the gzip reader.
func (d *Decoder) Close() error {
	return d.gz.Close()
}

// Decode returns the payload encoded in text.
func Decode(text string) ([]byte, error) {
	dec, err := NewDecoder(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, errors.WrapValidation(err, "PAYLOAD_DECODE", "payload stream is corrupt")
	}
	return data, nil
}
