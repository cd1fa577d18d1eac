package lang

import (
	"path"
	"strings"

	"github.com/conneroisu/codex/internal/errors"
)

// Marker tokens every template must contain exactly once.
const (
	SourceMarker  = "__SOURCE__"
	PayloadMarker = "__PAYLOAD__"
)

// Template is one target language's template split into its five regions.
//
// Given the template text
//
//	<Preamble><CommentPrefix>__SOURCE__<CommentSuffix>\n<Middle>__PAYLOAD__<Postamble>
//
// the annotation block is emitted in place of the source-marker line and the
// encoded payload in place of the payload marker.
type Template struct {
	Language Language
	FileName string

	CommentPrefix string
	CommentSuffix string
	Preamble      string
	Middle        string
	Postamble     string
}

// Split validates raw against the marker contract and decomposes it.
// language is only used to label errors.
func Split(language, raw string) (*Template, error) {
	for _, marker := range []string{SourceMarker, PayloadMarker} {
		switch n := strings.Count(raw, marker); {
		case n == 0:
			return nil, errors.NewTemplateError(language, errors.CodeMissingMarker,
				"template must contain a single "+marker+" directive (found none)").
				WithContext("marker", marker)
		case n > 1:
			return nil, errors.NewTemplateError(language, errors.CodeDuplicateMarker,
				"template must contain a single "+marker+" directive (found more than one)").
				WithContext("marker", marker)
		}
	}

	source := strings.Index(raw, SourceMarker)
	payload := strings.Index(raw, PayloadMarker)

	lineStart := strings.LastIndexByte(raw[:source], '\n') + 1
	lineEnd := len(raw)
	if i := strings.IndexByte(raw[source:], '\n'); i >= 0 {
		lineEnd = source + i
	}

	if payload >= lineStart && payload < lineEnd {
		return nil, errors.NewTemplateError(language, errors.CodeMarkersSameLine,
			"directives "+SourceMarker+" and "+PayloadMarker+" can't be on one line")
	}
	if payload < source {
		return nil, errors.NewTemplateError(language, errors.CodeMarkerOrder,
			PayloadMarker+" directive must come after "+SourceMarker).
			WithContext("marker", PayloadMarker)
	}

	return &Template{
		CommentPrefix: raw[lineStart:source],
		CommentSuffix: strings.TrimSuffix(raw[source+len(SourceMarker):lineEnd], "\r"),
		Preamble:      raw[:lineStart],
		// payload lies after the source line, so lineEnd is a newline here
		Middle:    raw[lineEnd+1 : payload],
		Postamble: raw[payload+len(PayloadMarker):],
	}, nil
}

// Join reassembles the raw template text. Split(name, t.Join()) yields t
// again for every template produced by Split on LF-terminated lines.
func (t *Template) Join() string {
	var b strings.Builder
	b.WriteString(t.Preamble)
	b.WriteString(t.CommentPrefix)
	b.WriteString(SourceMarker)
	b.WriteString(t.CommentSuffix)
	b.WriteByte('\n')
	b.WriteString(t.Middle)
	b.WriteString(PayloadMarker)
	b.WriteString(t.Postamble)
	return b.String()
}

// OutputName suggests a file name for programs rendered from t: "program"
// plus the template's extension, ignoring a trailing ".tmpl".
func (t *Template) OutputName() string {
	return "program" + path.Ext(strings.TrimSuffix(t.FileName, ".tmpl"))
}
