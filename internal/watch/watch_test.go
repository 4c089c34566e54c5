package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k6x/internal/discovery"
	"k6x/internal/domain"
	"k6x/internal/tree"
)

const script = "import http from 'k6/http';\n\nexport default function () {\n  http.get('https://test.k6.io');\n}\n"

type countingDiscoverer struct {
	inner *discovery.Service
	reads []string
}

func (c *countingDiscoverer) DiscoverFile(path string) *domain.TestNode {
	c.reads = append(c.reads, path)
	return c.inner.DiscoverFile(path)
}

func setup(t *testing.T) (string, *tree.Tree, *discovery.Service, logrus.FieldLogger) {
	t.Helper()
	root := t.TempDir()
	log, _ := logtest.NewNullLogger()
	tr := tree.New(root)
	scanner := discovery.NewScanner("**/*.test.{js,ts}", []string{"node_modules"})
	svc := discovery.NewService([]string{root}, scanner, discovery.NewParser(log), tr, log)
	return root, tr, svc, log
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReconciler_Handle(t *testing.T) {
	root, tr, svc, log := setup(t)
	for _, name := range []string{"a", "b", "c"} {
		write(t, filepath.Join(root, name+".test.js"), script)
	}
	require.NoError(t, svc.Refresh(context.Background()))

	counter := &countingDiscoverer{inner: svc}
	r := NewReconciler(counter, tr, log)
	path := filepath.Join(root, "b.test.js")

	t.Run("modify reads only the changed file", func(t *testing.T) {
		write(t, path, "// edited\n"+script)
		node := r.Handle(domain.FileEvent{Kind: domain.FileModified, Path: path})
		require.NotNil(t, node)
		assert.Equal(t, []string{path}, counter.reads)

		leaf, ok := tr.Get(node.Children[0])
		require.True(t, ok)
		assert.Equal(t, 3, leaf.Range.Start.Line)
		assert.Equal(t, 3, tr.Len())
	})

	t.Run("file that stops being a test file is removed", func(t *testing.T) {
		write(t, path, "export const x = 1;\n")
		assert.Nil(t, r.Handle(domain.FileEvent{Kind: domain.FileModified, Path: path}))
		_, ok := tr.FindByURI(path)
		assert.False(t, ok)
	})

	t.Run("create adds the file", func(t *testing.T) {
		created := filepath.Join(root, "d.test.ts")
		write(t, created, script)
		require.NotNil(t, r.Handle(domain.FileEvent{Kind: domain.FileCreated, Path: created}))
		_, ok := tr.FindByURI(created)
		assert.True(t, ok)
	})

	t.Run("delete removes the file", func(t *testing.T) {
		gone := filepath.Join(root, "a.test.js")
		require.NoError(t, os.Remove(gone))
		assert.Nil(t, r.Handle(domain.FileEvent{Kind: domain.FileDeleted, Path: gone}))
		_, ok := tr.FindByURI(gone)
		assert.False(t, ok)
	})

	t.Run("delete of an unknown file is a no-op", func(t *testing.T) {
		before := tr.Len()
		r.Handle(domain.FileEvent{Kind: domain.FileDeleted, Path: filepath.Join(root, "never.test.js")})
		assert.Equal(t, before, tr.Len())
	})
}

func TestWatcher_Run(t *testing.T) {
	root, tr, svc, log := setup(t)
	require.NoError(t, svc.Refresh(context.Background()))

	w, err := NewWatcher([]string{root}, svc.Scanner(), NewReconciler(svc, tr, log), log)
	require.NoError(t, err)

	var mu sync.Mutex
	var kinds []domain.FileEventKind
	w.OnEvent(func(ev domain.FileEvent, _ *domain.TestNode) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, ev.Kind)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	path := filepath.Join(root, "load.test.js")
	write(t, path, script)
	require.Eventually(t, func() bool {
		_, ok := tr.FindByURI(path)
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	write(t, filepath.Join(root, "notes.md"), "not a test")

	nested := filepath.Join(root, "perf", "spike.test.js")
	write(t, nested, script)
	require.Eventually(t, func() bool {
		_, ok := tr.FindByURI(nested)
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, ok := tr.FindByURI(path)
		return !ok
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, kinds, domain.FileDeleted)
}

func TestWatcher_MovedDirectories(t *testing.T) {
	root, tr, svc, log := setup(t)
	leaving := filepath.Join(root, "gone", "old.test.js")
	write(t, leaving, script)
	require.NoError(t, svc.Refresh(context.Background()))
	require.Equal(t, 1, tr.Len())

	outside := t.TempDir()
	write(t, filepath.Join(outside, "suite", "api.test.js"), script)
	write(t, filepath.Join(outside, "suite", "nested", "auth.test.ts"), script)

	w, err := NewWatcher([]string{root}, svc.Scanner(), NewReconciler(svc, tr, log), log)
	require.NoError(t, err)

	var mu sync.Mutex
	var deleted []string
	w.OnEvent(func(ev domain.FileEvent, _ *domain.TestNode) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Kind == domain.FileDeleted {
			deleted = append(deleted, ev.Path)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	t.Run("moved in directory is discovered", func(t *testing.T) {
		require.NoError(t, os.Rename(filepath.Join(outside, "suite"), filepath.Join(root, "suite")))

		api := filepath.Join(root, "suite", "api.test.js")
		auth := filepath.Join(root, "suite", "nested", "auth.test.ts")
		require.Eventually(t, func() bool {
			_, okAPI := tr.FindByURI(api)
			_, okAuth := tr.FindByURI(auth)
			return okAPI && okAuth
		}, 5*time.Second, 20*time.Millisecond)
	})

	t.Run("moved out directory is forgotten", func(t *testing.T) {
		require.NoError(t, os.Rename(filepath.Join(root, "gone"), filepath.Join(t.TempDir(), "gone")))

		require.Eventually(t, func() bool {
			_, ok := tr.FindByURI(leaving)
			return !ok
		}, 5*time.Second, 20*time.Millisecond)

		mu.Lock()
		defer mu.Unlock()
		assert.Contains(t, deleted, leaving)
	})

	t.Run("removed directory is forgotten", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(filepath.Join(root, "suite")))

		require.Eventually(t, func() bool {
			return tr.Len() == 0
		}, 5*time.Second, 20*time.Millisecond)
	})
}
