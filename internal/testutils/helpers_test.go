package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/lang"
)

func TestCreateTempProject(t *testing.T) {
	dir := CreateTempProject(t)

	for _, name := range []string{"app.bin", "src/main.go", "src/util/util.go", "templates/hash.txt", "templates/block.c"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(name)))
	}

	catalog, err := lang.Load(filepath.Join(dir, "templates"))
	require.NoError(t, err)
	assert.Equal(t, []lang.Language{"Block", "Hash"}, catalog.Languages())
}

func TestMemFS(t *testing.T) {
	fs := MemFS(t, map[string]string{"a/b/c.txt": "hello"})

	data, err := afero.ReadFile(fs, "a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSyntheticCatalog(t *testing.T) {
	catalog := SyntheticCatalog(t)

	hash, ok := catalog.Template("Hash")
	require.True(t, ok)
	assert.Equal(t, "# ", hash.CommentPrefix)

	block, ok := catalog.Template("Block")
	require.True(t, ok)
	assert.Equal(t, " */", block.CommentSuffix)
}

func TestWaitForFileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	go func() {
		time.Sleep(50 * time.Millisecond)
		// Leave the file truncated for a while, as a slow writer would.
		f, err := os.Create(path)
		if err != nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
		_, _ = f.WriteString("new")
		_ = f.Close()
	}()

	assert.Equal(t, "new", string(WaitForFileChange(t, path, []byte("old"), 2*time.Second)))
}
