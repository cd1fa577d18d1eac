// Package source collects the source files inlined as comments into
// generated programs.
//
// Paths are expanded recursively: a directory contributes every file below
// it, anything else is read as a UTF-8 file. The result is always sorted by
// name, then by content, so renders are reproducible regardless of the
// order in which the file system lists entries. A single unreadable file
// aborts the whole collection.
package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/conneroisu/codex/internal/errors"
	"github.com/conneroisu/codex/internal/logging"
)

// File is one source file loaded in memory.
type File struct {
	// Name is the path the file was collected under, kept verbatim.
	Name string
	// Code is the UTF-8 content of the file.
	Code string
}

// Compare orders files by name, then by code.
func Compare(a, b File) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Code, b.Code)
}

// Sort applies the total order used for rendering.
func Sort(files []File) {
	sort.Slice(files, func(i, j int) bool {
		return Compare(files[i], files[j]) < 0
	})
}

// Filter decides whether a path found while expanding a directory is kept.
// Paths given explicitly are never filtered.
type Filter func(path string, isDir bool) bool

// Collector reads source files from a file system.
type Collector struct {
	fs      afero.Fs
	logger  logging.Logger
	exclude []string
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger used for debug traces.
func WithLogger(logger logging.Logger) Option {
	return func(c *Collector) {
		c.logger = logger.WithComponent("source")
	}
}

// WithExclude skips paths, and their staged ".<base>.tmp.*" siblings, when
// they turn up inside a directory being expanded. A render output living
// next to the sources is excluded this way so it never inlines itself.
func WithExclude(paths ...string) Option {
	return func(c *Collector) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				c.exclude = append(c.exclude, abs)
			}
		}
	}
}

// NewCollector creates a collector over fs, usually afero.NewOsFs().
func NewCollector(fs afero.Fs, opts ...Option) *Collector {
	c := &Collector{
		fs:     fs,
		logger: logging.NewDiscardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect expands every path and returns the sorted result.
func (c *Collector) Collect(paths ...string) ([]File, error) {
	var files []File
	for _, path := range paths {
		if err := c.extend(&files, path, nil); err != nil {
			return nil, err
		}
	}
	Sort(files)
	return files, nil
}

// Read loads a single file. The name of the result is path as given.
func (c *Collector) Read(path string) (File, error) {
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return File{}, errors.WrapSource(err, path, "unable to read `"+path+"`")
	}
	if !utf8.Valid(data) {
		return File{}, errors.NewSourceError(path, "unable to read `"+path+"`",
			errors.NewValidationError("INVALID_UTF8", "stream did not contain valid UTF-8"))
	}
	return File{Name: path, Code: string(data)}, nil
}

func (c *Collector) extend(files *[]File, path string, filter Filter) error {
	info, err := c.fs.Stat(path)
	if err != nil || !info.IsDir() {
		// Reading surfaces the stat failure with the path attached.
		file, err := c.Read(path)
		if err != nil {
			return err
		}
		c.logger.Debug(context.Background(), "collected source file", "path", path, "bytes", len(file.Code))
		*files = append(*files, file)
		return nil
	}

	entries, err := afero.ReadDir(c.fs, path)
	if err != nil {
		return errors.WrapSource(err, path, "unable to list `"+path+"`")
	}
	for _, entry := range entries {
		child := join(path, entry.Name())
		if filter != nil && !filter(child, entry.IsDir()) {
			continue
		}
		if c.excluded(child) {
			c.logger.Debug(context.Background(), "skipped excluded path", "path", child)
			continue
		}
		if err := c.extend(files, child, filter); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) excluded(path string) bool {
	if len(c.exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	dir, base := filepath.Split(abs)
	for _, ex := range c.exclude {
		if abs == ex {
			return true
		}
		exDir, exBase := filepath.Split(ex)
		if dir == exDir && strings.HasPrefix(base, "."+exBase+".tmp.") {
			return true
		}
	}
	return false
}

// join appends name to dir without cleaning dir, so collected names keep
// the spelling the caller used.
func join(dir, name string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}
