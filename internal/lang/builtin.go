package lang

import (
	"embed"
	"io/fs"
	"os"
	"sync"
)

//go:embed templates
var builtinFS embed.FS

const builtinDir = "templates"

var builtin = sync.OnceValues(func() (*Catalog, error) {
	return CompileFS(builtinFS, builtinDir)
})

// Builtin returns the catalog compiled from the templates shipped with the
// binary. The corpus is compiled once per process.
func Builtin() (*Catalog, error) {
	return builtin()
}

// BuiltinFS exposes the raw embedded templates.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinFS, builtinDir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Load compiles the templates in the directory dir, or returns the built-in
// catalog when dir is empty.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return Builtin()
	}
	return CompileFS(os.DirFS(dir), ".")
}
