// Package testutils holds fixtures shared by the codex test suites.
package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/lang"
)

// HashTemplate is a minimal template using shell-style comments.
const HashTemplate = "#!start\n# __SOURCE__\n__PAYLOAD__#end\n"

// BlockTemplate is a minimal template using C-style block comments.
const BlockTemplate = "/* __SOURCE__ */\nconst char *p = \"__PAYLOAD__\";\n"

// WriteFiles creates every file below dir, making parent directories as
// needed, and returns dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// CreateTempProject creates a temporary project with a payload, a source
// tree and a template directory:
//
//	app.bin
//	src/main.go
//	src/util/util.go
//	templates/hash.txt
//	templates/block.c
func CreateTempProject(t *testing.T) string {
	t.Helper()
	return WriteFiles(t, t.TempDir(), map[string]string{
		"app.bin":            "\x00payload\xff",
		"src/main.go":        "package main\n\nfunc main() {}\n",
		"src/util/util.go":   "package util\n",
		"templates/hash.txt": HashTemplate,
		"templates/block.c":  BlockTemplate,
	})
}

// WriteTemplates creates a template directory holding files.
func WriteTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	return WriteFiles(t, t.TempDir(), files)
}

// MemFS returns an in-memory file system holding files.
func MemFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

// Catalog compiles the given name -> text templates.
func Catalog(t *testing.T, templates map[string]string) *lang.Catalog {
	t.Helper()
	files := make([]lang.File, 0, len(templates))
	for name, text := range templates {
		files = append(files, lang.File{Name: name, Text: text})
	}
	catalog, err := lang.Compile(files)
	require.NoError(t, err)
	return catalog
}

// SyntheticCatalog compiles HashTemplate as "Hash" and BlockTemplate as
// "Block".
func SyntheticCatalog(t *testing.T) *lang.Catalog {
	t.Helper()
	return Catalog(t, map[string]string{
		"hash.txt": HashTemplate,
		"block.c":  BlockTemplate,
	})
}

// WaitForFileChange waits until path holds non-empty content other than
// old that reads the same twice in a row, so a write caught between
// truncate and write is not mistaken for the new content.
func WaitForFileChange(t *testing.T, path string, old []byte, timeout time.Duration) []byte {
	t.Helper()
	var data []byte
	require.Eventually(t, func() bool {
		first, err := os.ReadFile(path)
		if err != nil || len(first) == 0 || bytes.Equal(first, old) {
			return false
		}
		time.Sleep(20 * time.Millisecond)
		second, err := os.ReadFile(path)
		if err != nil || !bytes.Equal(first, second) {
			return false
		}
		data = second
		return true
	}, timeout, 10*time.Millisecond)
	return data
}
