package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	file := filepath.Join(dir, "payload.bin")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "nested"), 0o755))

	require.NoError(t, watcher.AddPath(file))
	require.NoError(t, watcher.AddPath(sub))

	assert.True(t, watcher.Tracked(file))
	assert.True(t, watcher.Tracked(filepath.Join(sub, "nested", "a.go")))
	assert.False(t, watcher.Tracked(filepath.Join(dir, "other.bin")))
	assert.False(t, watcher.Tracked(dir+"src2"))

	assert.Error(t, watcher.AddPath(filepath.Join(dir, "missing")))
	assert.Error(t, watcher.AddPath(""))
}

func TestFileWatcherTriggersHandlerOnce(t *testing.T) {
	watcher, err := NewFileWatcher(50 * time.Millisecond)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.bin")
	output := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(input, []byte("v1"), 0o644))
	require.NoError(t, watcher.AddPath(dir))
	watcher.AddFilter(IgnoreFilter(output))

	var mu sync.Mutex
	var batches [][]ChangeEvent
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, events)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(input, []byte{byte(i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(output, []byte("ignored"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, input, batches[0][0].Path)
}

func TestIgnoreFilter(t *testing.T) {
	filter := IgnoreFilter("out/prog.py")

	assert.False(t, filter("out/prog.py"))
	assert.False(t, filter("out/.prog.py.tmp.12345"))
	assert.True(t, filter("out/other.py"))
	assert.True(t, filter(".prog.py.tmp.1"))
}

func TestNoTempFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"main.go", true},
		{"main.go~", false},
		{".main.go.swp", false},
		{".#main.go", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoTempFilter(tc.path))
		})
	}
}

func TestSkipDirFilter(t *testing.T) {
	filter := SkipDirFilter("vendor", "node_modules")
	testCases := []struct {
		path     string
		expected bool
	}{
		{"src/main.go", true},
		{"vendor/package/index.js", false},
		{"src/vendor/test.go", false},
		{"/abs/web/node_modules/x/y.js", false},
		{"src/vendored.go", true},
		{"main.go", true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, filter(tc.path))
		})
	}
}

func TestNoGitFilter(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"src/main.go", true},
		{".git/config", false},
		{"src/.git/test.go", false},
		{"src/.git", false},
		{"main.go", true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, NoGitFilter(tc.path))
		})
	}
}

func TestDebouncer(t *testing.T) {
	debouncer := newDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go debouncer.start(ctx)

	debouncer.submit(ChangeEvent{Type: EventTypeModified, Path: "b.go"})
	debouncer.submit(ChangeEvent{Type: EventTypeCreated, Path: "a.go"})
	debouncer.submit(ChangeEvent{Type: EventTypeModified, Path: "b.go"})

	select {
	case events := <-debouncer.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.go", events[0].Path)
		assert.Equal(t, "b.go", events[1].Path)
	case <-time.After(time.Second):
		t.Fatal("debouncer did not flush")
	}

	debouncer.stop()
}
