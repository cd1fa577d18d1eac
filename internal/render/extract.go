package render

import (
	"strings"

	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/lang"
	"github.com/conneroisu/codex/internal/payload"
)

// Extract recovers the payload from a program previously rendered for l.
// compressed must match the Compress flag used when rendering.
//
// The payload start is found by walking the annotation block forward from
// the header. Without inlined sources the block is exactly one line. With
// sources, code lines are indistinguishable from the Middle, so every line
// boundary followed by Middle is a possible start: an encoded payload never
// contains a line break, which makes the last one correct, while a raw
// payload with more than one possible start is rejected.
func (r *Renderer) Extract(l lang.Language, program string, compressed bool) ([]byte, error) {
	t, ok := r.catalog.Template(l)
	if !ok {
		return nil, errors.NewConfigError(errors.CodeUnknownLanguage,
			"no template compiled for target language").WithLanguage(string(l))
	}

	var starts []int
	body, ok := trimTemplate(t, program)
	if ok {
		starts = payloadStarts(t, body)
	}
	if len(starts) == 0 {
		return nil, errors.NewValidationError("NOT_RENDERED",
			"input was not rendered from the "+string(l)+" template").WithLanguage(string(l))
	}
	start := starts[len(starts)-1]

	if !compressed {
		if len(starts) > 1 {
			return nil, errors.NewValidationError("AMBIGUOUS_PAYLOAD",
				"raw payload start can't be told apart from inlined source lines; render with compression to extract").
				WithLanguage(string(l))
		}
		return []byte(body[start:]), nil
	}
	return payload.Decode(body[start:])
}

func trimTemplate(t *lang.Template, program string) (string, bool) {
	if len(program) < len(t.Preamble)+len(t.Postamble) ||
		!strings.HasPrefix(program, t.Preamble) || !strings.HasSuffix(program, t.Postamble) {
		return "", false
	}
	return program[len(t.Preamble) : len(program)-len(t.Postamble)], true
}

// payloadStarts returns every offset in body where the payload may begin,
// in increasing order, or nil when body does not follow the template.
func payloadStarts(t *lang.Template, body string) []int {
	annotated := func(text string) string {
		return t.CommentPrefix + text + t.CommentSuffix + "\n"
	}

	if plain := annotated(header); strings.HasPrefix(body, plain) {
		if !strings.HasPrefix(body[len(plain):], t.Middle) {
			return nil
		}
		return []int{len(plain) + len(t.Middle)}
	}

	first := annotated(header+sourcesNote) + annotated("") + t.CommentPrefix + fileLabel
	if !strings.HasPrefix(body, first) {
		return nil
	}

	// Skip the header and the first blank line, then walk whole lines.
	pos := len(annotated(header+sourcesNote)) + len(annotated(""))
	var starts []int
	for consumed := 0; ; consumed++ {
		if consumed > 0 && strings.HasPrefix(body[pos:], t.Middle) {
			starts = append(starts, pos+len(t.Middle))
		}
		nl := strings.IndexByte(body[pos:], '\n')
		if nl < 0 {
			break
		}
		line := body[pos : pos+nl]
		if len(line) < len(t.CommentPrefix)+len(t.CommentSuffix) ||
			!strings.HasPrefix(line, t.CommentPrefix) || !strings.HasSuffix(line, t.CommentSuffix) {
			break
		}
		pos += nl + 1
	}
	return starts
}
