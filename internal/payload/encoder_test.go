package payload

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	stderrors "errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/errors"
)

func randomBytes(n int, seed int64) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

func TestEncodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"text", []byte("hi")},
		{"random over one megabyte", randomBytes(1<<20+4099, 7)},
		{"compressible over one megabyte", bytes.Repeat([]byte("codex"), 300000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			require.NoError(t, Encode(&out, tt.data))

			decoded, err := Decode(out.String())
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.data, decoded), "payload changed after round trip")
		})
	}
}

func TestEncodeIsStandardBase64OfGzip(t *testing.T) {
	text, err := EncodedString([]byte("hi"))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(text)
	require.NoError(t, err)

	gz, err := gzip.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	plain, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(plain))

	assert.Zero(t, len(text)%4, "standard encoding is padded")
	assert.NotContains(t, text, "\n")
}

func TestEncodeIsDeterministic(t *testing.T) {
	data := randomBytes(64*1024, 11)

	first, err := EncodedString(data)
	require.NoError(t, err)
	second, err := EncodedString(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type countingWriter struct {
	n      int
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += len(p)
	c.writes++
	return len(p), nil
}

func TestEncoderStreamsBeforeClose(t *testing.T) {
	sink := &countingWriter{}
	enc := NewEncoder(sink)

	data := randomBytes(2<<20, 3)
	for off := 0; off < len(data); off += 32 * 1024 {
		_, err := enc.Write(data[off : off+32*1024])
		require.NoError(t, err)
	}

	assert.Greater(t, sink.n, 1<<20, "encoded text must reach the sink while writing")
	assert.Greater(t, sink.writes, 1)

	require.NoError(t, enc.Close())
	require.NoError(t, enc.Close(), "close is idempotent")

	_, err := enc.Write([]byte("late"))
	require.Error(t, err)
	assert.True(t, errors.IsInternalError(err))
}

type failingWriter struct {
	after int
}

var errSinkClosed = stderrors.New("sink closed")

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errSinkClosed
	}
	f.after--
	return len(p), nil
}

func TestEncoderPropagatesSinkErrors(t *testing.T) {
	err := Encode(&failingWriter{}, []byte("payload"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errSinkClosed)

	enc := NewEncoder(&failingWriter{after: 1})
	_, werr := enc.Write(randomBytes(1<<20, 5))
	cerr := enc.Close()
	assert.True(t, werr != nil || cerr != nil, "a failing sink must fail the transform")
}

func TestTextGuardRejectsInvalidUTF8(t *testing.T) {
	var sink bytes.Buffer
	guard := textGuard{w: &sink}

	n, err := guard.Write([]byte("valid"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = guard.Write([]byte{0xff, 0xfe})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidText)
	assert.True(t, errors.IsInternalError(err))
	assert.Equal(t, "valid", sink.String())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("not base64 at all!")
	require.Error(t, err)

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte("not gzip")))
	require.Error(t, err)
}

func TestDecodeIgnoresLineBreaks(t *testing.T) {
	text, err := EncodedString([]byte("wrapped payload"))
	require.NoError(t, err)

	var wrapped strings.Builder
	for i := 0; i < len(text); i += 8 {
		end := i + 8
		if end > len(text) {
			end = len(text)
		}
		wrapped.WriteString(text[i:end])
		wrapped.WriteString("\r\n")
	}

	decoded, err := Decode(wrapped.String())
	require.NoError(t, err)
	assert.Equal(t, "wrapped payload", string(decoded))
}
