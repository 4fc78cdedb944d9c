package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopemeter.dev/pkg/scopemeter/internal/adapter"
	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func sourceTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	for _, rel := range []string{
		"src/lib.rs",
		"src/main.rs",
		"src/generated_api.rs",
		"src/notes.txt",
		"src/nested/deep.rs",
		"target/debug/build.rs",
		"tests/integration.rs",
		"benches/bench.rs",
		".git/hooks/hook.rs",
	} {
		writeFile(t, filepath.Join(root, rel), "fn f() {}\n")
	}

	return root
}

func TestCollectSources(t *testing.T) {
	fs := adapter.NewLocalSourceFSAdapter()
	rs := SourceOptions{Extensions: []string{".rs"}}

	t.Run("recursive pattern skips build and test trees", func(t *testing.T) {
		root := sourceTree(t)

		got, err := CollectSources(fs, []m.Path{m.Path(root + "/...")}, rs)
		require.NoError(t, err)

		assert.Equal(t, []m.Path{
			m.Path(filepath.Join(root, "src", "generated_api.rs")),
			m.Path(filepath.Join(root, "src", "lib.rs")),
			m.Path(filepath.Join(root, "src", "main.rs")),
			m.Path(filepath.Join(root, "src", "nested", "deep.rs")),
		}, got)
	})

	t.Run("plain directory is scanned flat", func(t *testing.T) {
		root := sourceTree(t)

		got, err := CollectSources(fs, []m.Path{m.Path(filepath.Join(root, "src"))}, rs)
		require.NoError(t, err)

		assert.Len(t, got, 3)
		assert.NotContains(t, got, m.Path(filepath.Join(root, "src", "nested", "deep.rs")))
	})

	t.Run("exclude patterns", func(t *testing.T) {
		root := sourceTree(t)

		got, err := CollectSources(fs, []m.Path{m.Path(root + "/...")}, SourceOptions{
			Extensions: []string{".rs"},
			Exclude:    []string{`generated_`, `/nested/`},
		})
		require.NoError(t, err)

		assert.Equal(t, []m.Path{
			m.Path(filepath.Join(root, "src", "lib.rs")),
			m.Path(filepath.Join(root, "src", "main.rs")),
		}, got)
	})

	t.Run("exclude patterns match paths relative to the root", func(t *testing.T) {
		root := sourceTree(t)

		got, err := CollectSources(fs, []m.Path{m.Path(root + "/...")}, SourceOptions{
			Extensions: []string{".rs"},
			Exclude:    []string{`^src/nested/`, `^src/main\.rs$`},
		})
		require.NoError(t, err)

		assert.Equal(t, []m.Path{
			m.Path(filepath.Join(root, "src", "generated_api.rs")),
			m.Path(filepath.Join(root, "src", "lib.rs")),
		}, got)
	})

	t.Run("explicit files are kept and de-duplicated", func(t *testing.T) {
		root := sourceTree(t)
		lib := m.Path(filepath.Join(root, "src", "lib.rs"))
		notes := m.Path(filepath.Join(root, "src", "notes.txt"))

		got, err := CollectSources(fs, []m.Path{lib, notes, lib, m.Path(filepath.Join(root, "src"))}, rs)
		require.NoError(t, err)

		assert.Len(t, got, 4)
		assert.Contains(t, got, notes)
	})

	t.Run("skip dirs only apply below the root", func(t *testing.T) {
		root := sourceTree(t)

		got, err := CollectSources(fs, []m.Path{m.Path(filepath.Join(root, "tests"))}, rs)
		require.NoError(t, err)

		assert.Equal(t, []m.Path{m.Path(filepath.Join(root, "tests", "integration.rs"))}, got)
	})

	t.Run("missing root is an error", func(t *testing.T) {
		_, err := CollectSources(fs, []m.Path{m.Path(filepath.Join(t.TempDir(), "missing"))}, rs)
		require.Error(t, err)
	})

	t.Run("invalid exclude pattern", func(t *testing.T) {
		_, err := CollectSources(fs, []m.Path{m.Path(t.TempDir())}, SourceOptions{Exclude: []string{"("}})
		require.Error(t, err)
	})
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		in        m.Path
		root      m.Path
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"./src/...", "./src", true},
		{"src", "src", false},
		{"./src", "./src", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			root, recursive := splitPattern(tt.in)
			assert.Equal(t, m.Path(filepath.FromSlash(string(tt.root))), root)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}
