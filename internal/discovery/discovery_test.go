package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"k6x/internal/tree"
)

const basicScript = `import http from 'k6/http';

export default function () {
  http.get('https://test.k6.io');
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestService(t *testing.T, root string) *Service {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	return NewService(
		[]string{root},
		NewScanner("**/*.test.{js,ts}", []string{"node_modules"}),
		NewParser(log),
		tree.New(root),
		log,
	)
}

func TestService_Refresh(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.test.js"), basicScript)
	writeFile(t, filepath.Join(root, "a.test.ts"), "import { sleep } from 'k6';\nsleep(1);\n")
	writeFile(t, filepath.Join(root, "plain.test.js"), "export const add = (a, b) => a + b;\n")
	writeFile(t, filepath.Join(root, "node_modules", "dep.test.js"), basicScript)

	svc := newTestService(t, root)
	require.NoError(t, svc.Refresh(context.Background()))

	files := svc.Tree().Files()
	require.Len(t, files, 2, "plain.test.js holds no tests and must not appear")
	assert.Equal(t, filepath.Join(root, "a.test.ts"), files[0].ID)
	assert.Equal(t, filepath.Join(root, "b.test.js"), files[1].ID)

	leaves := svc.Tree().ResolveLeaves(nil)
	require.Len(t, leaves, 2)
	assert.Equal(t, "k6 test", leaves[0].Label)
	assert.Equal(t, "default", leaves[1].Label)
}

func TestService_RefreshIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "load.test.js"), basicScript)

	svc := newTestService(t, root)
	require.NoError(t, svc.Refresh(context.Background()))
	first := svc.Tree().ResolveLeaves(nil)

	require.NoError(t, svc.Refresh(context.Background()))
	second := svc.Tree().ResolveLeaves(nil)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestService_DiscoverFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "load.test.js")
	writeFile(t, path, basicScript)

	svc := newTestService(t, root)
	node := svc.DiscoverFile(path)
	require.NotNil(t, node)
	assert.Len(t, node.Children, 1)

	writeFile(t, path, "export const nothing = 1;\n")
	assert.Nil(t, svc.DiscoverFile(path))
	_, ok := svc.Tree().FindByURI(path)
	assert.False(t, ok)

	assert.Nil(t, svc.DiscoverFile(filepath.Join(root, "missing.test.js")))
}

func TestService_RefreshHonoursContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "load.test.js"), basicScript)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(t, root)
	assert.ErrorIs(t, svc.Refresh(ctx), context.Canceled)
}
