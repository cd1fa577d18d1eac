// Package lang compiles the per-language template corpus.
//
// Every template file is named <language>.<suffix> and carries exactly one
// __SOURCE__ and one __PAYLOAD__ directive. Compilation validates each
// template, splits it into its five regions and produces an immutable
// Catalog: the closed, sorted enumeration of supported languages. A single
// violation rejects the whole corpus; there is no degraded catalog.
package lang

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/codex/internal/errors"
)

// Language is the canonical name of a compiled target language, e.g. "Python".
type Language string

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// Flag returns the lower-case spelling used on the command line.
func (l Language) Flag() string {
	return strings.ToLower(string(l))
}

// File is one raw template as read from the corpus.
type File struct {
	Name string
	Text string
}

// Catalog is the compiled, immutable template corpus.
type Catalog struct {
	languages []Language
	templates map[Language]*Template
}

// Languages returns every supported language in sorted order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// Len returns the number of compiled languages.
func (c *Catalog) Len() int {
	return len(c.languages)
}

// Lookup resolves a selector such as "python", "PYTHON" or "Python".
func (c *Catalog) Lookup(name string) (Language, error) {
	canonical, err := Normalize(name)
	if err == nil {
		if _, ok := c.templates[canonical]; ok {
			return canonical, nil
		}
	}
	return "", errors.NewConfigError(errors.CodeUnknownLanguage,
		"unknown target language "+quote(name)+" (supported: "+strings.Join(c.flags(), ", ")+")").
		WithLanguage(name)
}

// Template returns the compiled template for l.
func (c *Catalog) Template(l Language) (*Template, bool) {
	t, ok := c.templates[l]
	return t, ok
}

func (c *Catalog) flags() []string {
	out := make([]string, len(c.languages))
	for i, l := range c.languages {
		out[i] = l.Flag()
	}
	return out
}

// Normalize validates a language name and returns its canonical form: the
// first letter upper-cased, the rest lower-cased.
func Normalize(name string) (Language, error) {
	if name == "" {
		return "", errors.NewTemplateError(name, errors.CodeInvalidLanguageName,
			"language name can't be empty")
	}
	for i := 0; i < len(name); i++ {
		b := name[i]
		if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return "", errors.NewTemplateError(name, errors.CodeInvalidLanguageName,
				"language name must be only ASCII alphabetic")
		}
	}
	return Language(cases.Title(language.Und).String(name)), nil
}

// LanguageFromFileName extracts the language from a template file name: the
// part before the first dot.
func LanguageFromFileName(name string) (string, error) {
	dot := strings.IndexByte(name, '.')
	if dot < 0 {
		return "", errors.NewTemplateError("", errors.CodeInvalidTemplateName,
			"template "+quote(name)+" must be in format `lang.suffix`").WithPath(name)
	}
	return name[:dot], nil
}

// compileFile turns one raw template into a validated Template.
func compileFile(file File) (*Template, error) {
	raw, err := LanguageFromFileName(file.Name)
	if err != nil {
		return nil, err
	}
	lang, err := Normalize(raw)
	if err != nil {
		return nil, withPath(err, file.Name)
	}
	if !utf8.ValidString(file.Text) {
		return nil, errors.NewTemplateError(string(lang), errors.CodeInvalidTemplateName,
			"template is not valid UTF-8").WithPath(file.Name)
	}
	t, err := Split(string(lang), file.Text)
	if err != nil {
		return nil, withPath(err, file.Name)
	}
	t.Language = lang
	t.FileName = file.Name
	return t, nil
}

// Compile validates every file and builds the catalog. The first violation
// aborts compilation.
func Compile(files []File) (*Catalog, error) {
	catalog := &Catalog{
		languages: make([]Language, 0, len(files)),
		templates: make(map[Language]*Template, len(files)),
	}

	for _, file := range files {
		t, err := compileFile(file)
		if err != nil {
			return nil, err
		}
		if prev, dup := catalog.templates[t.Language]; dup {
			return nil, errors.NewTemplateError(string(t.Language), errors.CodeDuplicateLanguage,
				"language "+string(t.Language)+" has multiple definitions ("+prev.FileName+", "+file.Name+")").
				WithPath(file.Name)
		}
		catalog.templates[t.Language] = t
		catalog.languages = append(catalog.languages, t.Language)
	}

	sort.Slice(catalog.languages, func(i, j int) bool {
		return catalog.languages[i] < catalog.languages[j]
	})

	return catalog, nil
}

// Validate runs the same checks as Compile but reports every violation.
func Validate(files []File) error {
	collector := errors.NewErrorCollector()
	seen := make(map[Language]string, len(files))

	for _, file := range files {
		t, err := compileFile(file)
		if err != nil {
			collector.AddError(err)
			continue
		}
		if prev, dup := seen[t.Language]; dup {
			collector.AddError(errors.NewTemplateError(string(t.Language), errors.CodeDuplicateLanguage,
				"language "+string(t.Language)+" has multiple definitions ("+prev+", "+file.Name+")").
				WithPath(file.Name))
			continue
		}
		seen[t.Language] = file.Name
	}

	return collector.Err()
}

// ReadFiles reads every template in dir. Sub-directories are rejected.
// Entries come back in directory order (sorted by file name).
func ReadFiles(fsys fs.FS, dir string) ([]File, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.WrapTemplate(err, "TEMPLATES_UNREADABLE",
			"unable to read template directory "+quote(dir))
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			return nil, errors.NewTemplateError("", errors.CodeInvalidTemplateName,
				"template "+quote(entry.Name())+" must be a file").WithPath(entry.Name())
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.WrapTemplate(err, "TEMPLATE_UNREADABLE",
				"template "+quote(entry.Name())+" reading failed")
		}
		files = append(files, File{Name: entry.Name(), Text: string(data)})
	}

	return files, nil
}

// CompileFS reads and compiles every template in dir.
func CompileFS(fsys fs.FS, dir string) (*Catalog, error) {
	files, err := ReadFiles(fsys, dir)
	if err != nil {
		return nil, err
	}
	return Compile(files)
}

func withPath(err error, name string) error {
	if ce, ok := err.(*errors.CodexError); ok {
		return ce.WithPath(name)
	}
	return err
}

func quote(s string) string {
	return "`" + s + "`"
}
