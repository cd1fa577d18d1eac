// Package render assembles the final program text for one target language.
//
// A Renderer is built once from a compiled lang.Catalog. For every language
// it captures the template regions in a procedure and keeps the procedures
// in a dispatch table; Render then runs a single linear pass over the sink:
// preamble, annotation block, middle, encoded payload, postamble.
package render

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io"

	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/lang"
	"github.com/conneroisu/codex/internal/logging"
	"github.com/conneroisu/codex/internal/payload"
	"github.com/conneroisu/codex/internal/source"
)

// Tool is the provenance name written into every generated program.
const Tool = "codex"

// Request is everything a single render needs.
type Request struct {
	Language lang.Language
	Payload  []byte
	Sources  []source.File
	// Compress selects base64-of-gzip for the payload. When false the
	// payload bytes are written untouched.
	Compress bool
}

// procedure renders one language. It only writes to w.
type procedure func(w *bufio.Writer, req Request) error

// Renderer dispatches render requests to per-language procedures.
type Renderer struct {
	catalog    *lang.Catalog
	procedures map[lang.Language]procedure
	logger     logging.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for render traces.
func WithLogger(logger logging.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger.WithComponent("render")
	}
}

// New builds the dispatch table for every language in catalog.
func New(catalog *lang.Catalog, opts ...Option) *Renderer {
	r := &Renderer{
		catalog:    catalog,
		procedures: make(map[lang.Language]procedure, catalog.Len()),
		logger:     logging.NewDiscardLogger(),
	}
	for _, l := range catalog.Languages() {
		t, _ := catalog.Template(l)
		r.procedures[l] = compile(*t)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the renderer was built from.
func (r *Renderer) Catalog() *lang.Catalog {
	return r.catalog
}

// Render writes the program for req to w.
func (r *Renderer) Render(w io.Writer, req Request) error {
	proc, ok := r.procedures[req.Language]
	if !ok {
		return errors.NewConfigError(errors.CodeUnknownLanguage,
			"no template compiled for target language").WithLanguage(string(req.Language))
	}

	ctx := context.Background()
	op := logging.StartOperation(r.logger.With(
		"language", string(req.Language),
		"sources", len(req.Sources),
		"payload_bytes", len(req.Payload),
		"compress", req.Compress,
	), "render")

	bw := bufio.NewWriter(w)
	err := proc(bw, req)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		err = classify(err)
		op.EndWithError(ctx, err)
		return err
	}

	op.End(ctx)
	return nil
}

// RenderBytes renders req into memory.
func (r *Renderer) RenderBytes(req Request) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compile captures the regions of t in a rendering procedure.
func compile(t lang.Template) procedure {
	return func(w *bufio.Writer, req Request) error {
		if _, err := w.WriteString(t.Preamble); err != nil {
			return err
		}
		annotations := inliner{w: w, prefix: t.CommentPrefix, suffix: t.CommentSuffix}
		if err := annotations.write(req.Sources); err != nil {
			return err
		}
		if _, err := w.WriteString(t.Middle); err != nil {
			return err
		}
		if err := writePayload(w, req.Payload, req.Compress); err != nil {
			return err
		}
		_, err := w.WriteString(t.Postamble)
		return err
	}
}

func writePayload(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}
	return payload.Encode(w, data)
}

// classify turns raw sink failures into I/O errors and leaves already
// classified errors alone.
func classify(err error) error {
	var ce *errors.CodexError
	if stderrors.As(err, &ce) {
		return err
	}
	return errors.WrapIO(err, "OUTPUT_WRITE", "writing output failed")
}
