package personfile

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetterFetchesSource(t *testing.T) {
	dest := t.TempDir()

	calls := 0
	g := NewGoGetter()
	g.get = func(src, dst, working string) error {
		calls++
		return os.MkdirAll(dst, os.ModePerm)
	}

	dir, err := g.Get("github.com/jumppad-labs/people//examples", dest, false)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	// the cache path should be safe for the filesystem
	require.NotContains(t, filepath.Base(dir), "/")
}

func TestGetterUsesCachedSource(t *testing.T) {
	dest := t.TempDir()

	calls := 0
	g := NewGoGetter()
	g.get = func(src, dst, working string) error {
		calls++
		return os.MkdirAll(dst, os.ModePerm)
	}

	_, err := g.Get("github.com/jumppad-labs/people", dest, false)
	require.NoError(t, err)

	_, err = g.Get("github.com/jumppad-labs/people", dest, false)
	require.NoError(t, err)

	require.Equal(t, 1, calls)
}

func TestGetterIgnoresCacheWhenForced(t *testing.T) {
	dest := t.TempDir()

	calls := 0
	g := NewGoGetter()
	g.get = func(src, dst, working string) error {
		calls++
		return os.MkdirAll(dst, os.ModePerm)
	}

	_, err := g.Get("github.com/jumppad-labs/people", dest, false)
	require.NoError(t, err)

	_, err = g.Get("github.com/jumppad-labs/people", dest, true)
	require.NoError(t, err)

	require.Equal(t, 2, calls)
}

func TestGetterReturnsErrorFromFetch(t *testing.T) {
	dest := t.TempDir()

	g := NewGoGetter()
	g.get = func(src, dst, working string) error {
		return fmt.Errorf("boom")
	}

	_, err := g.Get("github.com/jumppad-labs/people", dest, false)
	require.Error(t, err)
}
