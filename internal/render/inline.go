package render

import (
	"bufio"
	"strings"

	"github.com/conneroisu/codex/internal/source"
)

// inliner writes the annotation block: every line is wrapped in the
// template's comment prefix and suffix, so inlined code stays a comment in
// the target language however many lines it spans.
type inliner struct {
	w      *bufio.Writer
	prefix string
	suffix string
}

func (in inliner) line(parts ...string) error {
	in.w.WriteString(in.prefix)
	for _, p := range parts {
		in.w.WriteString(p)
	}
	in.w.WriteString(in.suffix)
	// bufio.Writer errors are sticky, so the last write reports any failure.
	return in.w.WriteByte('\n')
}

const (
	header      = "Generated by `" + Tool + "`"
	sourcesNote = "; heuristically determined source files below"
	fileLabel   = "SOURCE FILE: "
)

func (in inliner) write(files []source.File) error {
	first := header
	if len(files) > 0 {
		first += sourcesNote
	}
	if err := in.line(first); err != nil {
		return err
	}

	for _, file := range files {
		if err := in.line(); err != nil {
			return err
		}
		if err := in.line(fileLabel, file.Name); err != nil {
			return err
		}
		var err error
		eachLine(file.Code, func(text string) bool {
			err = in.line(text)
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// eachLine calls fn for every line of code. "\n", "\r\n" and a lone "\r"
// all end a line; a final line break does not start another line.
func eachLine(code string, fn func(string) bool) {
	for len(code) > 0 {
		i := strings.IndexAny(code, "\r\n")
		if i < 0 {
			fn(code)
			return
		}
		if !fn(code[:i]) {
			return
		}
		if code[i] == '\r' && i+1 < len(code) && code[i+1] == '\n' {
			i++
		}
		code = code[i+1:]
	}
}
