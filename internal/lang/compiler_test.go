package lang

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/errors"
)

const goodTemplate = "# __SOURCE__\npayload = \"__PAYLOAD__\"\n"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
		wantErr  bool
	}{
		{"python", "Python", false},
		{"PYTHON", "Python", false},
		{"pYtHoN", "Python", false},
		{"Go", "Go", false},
		{"c", "C", false},
		{"", "", true},
		{"c++", "", true},
		{"objective-c", "", true},
		{"py3", "", true},
		{"café", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidLanguageName, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLanguageFromFileName(t *testing.T) {
	name, err := LanguageFromFileName("python.ext")
	require.NoError(t, err)
	assert.Equal(t, "python", name)

	name, err = LanguageFromFileName("go.go.tmpl")
	require.NoError(t, err)
	assert.Equal(t, "go", name)

	_, err = LanguageFromFileName("Makefile")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidTemplateName, errors.CodeOf(err))
}

func TestCompileSortsLanguages(t *testing.T) {
	catalog, err := Compile([]File{
		{Name: "ruby.rb", Text: goodTemplate},
		{Name: "python.ext", Text: goodTemplate},
		{Name: "ada.adb", Text: "-- __SOURCE__\nP : String := \"__PAYLOAD__\";\n"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Language{"Ada", "Python", "Ruby"}, catalog.Languages())
	assert.Equal(t, 3, catalog.Len())

	tmpl, ok := catalog.Template("Ada")
	require.True(t, ok)
	assert.Equal(t, "-- ", tmpl.CommentPrefix)
	assert.Equal(t, "ada.adb", tmpl.FileName)
	assert.Equal(t, Language("Ada"), tmpl.Language)
}

func TestCatalogLanguagesIsACopy(t *testing.T) {
	catalog, err := Compile([]File{{Name: "python.py", Text: goodTemplate}})
	require.NoError(t, err)

	langs := catalog.Languages()
	langs[0] = "Mutated"
	assert.Equal(t, []Language{"Python"}, catalog.Languages())
}

func TestCatalogLookupIsCaseInsensitive(t *testing.T) {
	catalog, err := Compile([]File{{Name: "python.ext", Text: goodTemplate}})
	require.NoError(t, err)

	for _, selector := range []string{"python", "PYTHON", "Python", "pyTHON"} {
		got, err := catalog.Lookup(selector)
		require.NoError(t, err, selector)
		assert.Equal(t, Language("Python"), got)
	}

	_, err = catalog.Lookup("cobol")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
	assert.Contains(t, err.Error(), "python")

	_, err = catalog.Lookup("py-thon")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestCompileRejectsDuplicates(t *testing.T) {
	_, err := Compile([]File{
		{Name: "python.py", Text: goodTemplate},
		{Name: "PYTHON.txt", Text: goodTemplate},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDuplicateLanguage, errors.CodeOf(err))
	assert.Equal(t, "Python", errors.LanguageOf(err))
	assert.Contains(t, err.Error(), "python.py")
	assert.Contains(t, err.Error(), "PYTHON.txt")
}

func TestCompileRejectsBadNames(t *testing.T) {
	for _, name := range []string{"c++.cpp", "py3.py", ".hidden", "noext"} {
		t.Run(name, func(t *testing.T) {
			_, err := Compile([]File{{Name: name, Text: goodTemplate}})
			require.Error(t, err)
			assert.True(t, errors.IsTemplateError(err))
		})
	}
}

func TestCompileFailsWholeCorpus(t *testing.T) {
	catalog, err := Compile([]File{
		{Name: "python.py", Text: goodTemplate},
		{Name: "ruby.rb", Text: "# __SOURCE__ __PAYLOAD__\n"},
	})
	require.Error(t, err)
	assert.Nil(t, catalog)
	assert.Equal(t, "Ruby", errors.LanguageOf(err))
	assert.Equal(t, errors.CodeMarkersSameLine, errors.CodeOf(err))
}

func TestCompileRejectsInvalidUTF8(t *testing.T) {
	_, err := Compile([]File{{Name: "python.py", Text: "# __SOURCE__\n\xff__PAYLOAD__"}})
	require.Error(t, err)
	assert.True(t, errors.IsTemplateError(err))
}

func TestValidateReportsEveryViolation(t *testing.T) {
	err := Validate([]File{
		{Name: "python.py", Text: goodTemplate},
		{Name: "ruby.rb", Text: "no markers"},
		{Name: "go.go", Text: "__PAYLOAD__\n// __SOURCE__\n"},
		{Name: "Python.txt", Text: goodTemplate},
	})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "language:Ruby")
	assert.Contains(t, msg, "language:Go")
	assert.Contains(t, msg, errors.CodeDuplicateLanguage)

	assert.NoError(t, Validate([]File{{Name: "python.py", Text: goodTemplate}}))
}

func TestCompileFS(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/python.py": {Data: []byte(goodTemplate)},
		"tpl/shell.sh":  {Data: []byte("# __SOURCE__\n__PAYLOAD__\n")},
	}

	catalog, err := CompileFS(fsys, "tpl")
	require.NoError(t, err)
	assert.Equal(t, []Language{"Python", "Shell"}, catalog.Languages())
}

func TestCompileFSRejectsDirectories(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/python.py":     {Data: []byte(goodTemplate)},
		"tpl/nested/ruby.rb": {Data: []byte(goodTemplate)},
	}

	_, err := CompileFS(fsys, "tpl")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidTemplateName, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "nested")
}

func TestCompileFSMissingDirectory(t *testing.T) {
	_, err := CompileFS(fstest.MapFS{}, "nowhere")
	require.Error(t, err)
	assert.True(t, errors.IsTemplateError(err))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lua.lua"), []byte("-- __SOURCE__\nlocal p = \"__PAYLOAD__\"\n"), 0o644))

	catalog, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []Language{"Lua"}, catalog.Languages())

	builtin, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, builtin.Len(), 1)
}

func TestLanguageFlag(t *testing.T) {
	assert.Equal(t, "csharp", Language("Csharp").Flag())
	assert.Equal(t, "Csharp", strings.TrimSpace(Language("Csharp").String()))
}

func TestCatalogDescribe(t *testing.T) {
	catalog, err := Compile([]File{
		{Name: "python.py", Text: "# __SOURCE__\n__PAYLOAD__"},
		{Name: "c.c", Text: "/* __SOURCE__ */\n__PAYLOAD__"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Info{
		{Name: "C", Flag: "c", File: "c.c", CommentPrefix: "/* ", CommentSuffix: " */"},
		{Name: "Python", Flag: "python", File: "python.py", CommentPrefix: "# "},
	}, catalog.Describe())
	assert.Equal(t, []string{"c", "python"}, catalog.Flags())
}
