package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

func TestWithPreset(t *testing.T) {
	t.Run("fills empty options from the rust preset", func(t *testing.T) {
		cfg, err := WithPreset(m.AnalysisConfig{})
		require.NoError(t, err)

		assert.Equal(t, LanguageRust, cfg.Language)
		assert.Equal(t, ".unwrap()", cfg.RiskyPattern)
		assert.Contains(t, cfg.TestMarkers, `#\[test\]`)
		assert.Len(t, cfg.ComplexityPatterns, 15)
		assert.NotEmpty(t, cfg.SignaturePattern)
		assert.Positive(t, cfg.Parallel)
	})

	t.Run("explicit options win", func(t *testing.T) {
		cfg, err := WithPreset(m.AnalysisConfig{
			Language:     LanguageRust,
			RiskyPattern: ".expect(",
			TestMarkers:  []string{`#\[my_test\]`},
			Parallel:     3,
		})
		require.NoError(t, err)

		assert.Equal(t, ".expect(", cfg.RiskyPattern)
		assert.Equal(t, []string{`#\[my_test\]`}, cfg.TestMarkers)
		assert.Equal(t, 3, cfg.Parallel)
	})

	t.Run("go preset", func(t *testing.T) {
		cfg, err := WithPreset(m.AnalysisConfig{Language: LanguageGo})
		require.NoError(t, err)

		assert.Equal(t, "panic(", cfg.RiskyPattern)
	})

	t.Run("unknown language", func(t *testing.T) {
		_, err := WithPreset(m.AnalysisConfig{Language: "cobol"})
		require.Error(t, err)
	})
}

func TestCompileConfig(t *testing.T) {
	t.Run("valid defaults", func(t *testing.T) {
		compiled, err := compileConfig(DefaultAnalysisConfig())
		require.NoError(t, err)

		assert.True(t, compiled.signature.MatchString("pub(crate) async fn run() {"))
		assert.Equal(t, "run", compiled.signature.FindStringSubmatch(`    pub unsafe extern "C" fn run(x: i32) {`)[1])
		assert.False(t, compiled.signature.MatchString("let f = fn_ptr;"))
		assert.Len(t, compiled.markers, 4)
	})

	t.Run("go signature captures methods", func(t *testing.T) {
		compiled, err := compileConfig(m.AnalysisConfig{Language: LanguageGo})
		require.NoError(t, err)

		assert.Equal(t, "Scan", compiled.signature.FindStringSubmatch("func (s *Scanner) Scan(file m.SourceFile) ScanResult {")[1])
		assert.True(t, compiled.markers[0].MatchString("func TestScan(t *testing.T) {"))
	})

	tests := []struct {
		name string
		cfg  m.AnalysisConfig
	}{
		{"bad signature", m.AnalysisConfig{SignaturePattern: "fn ("}},
		{"bad marker", m.AnalysisConfig{TestMarkers: []string{"#[test"}}},
		{"bad complexity pattern", m.AnalysisConfig{ComplexityPatterns: []string{"(?"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileConfig(tt.cfg)
			require.Error(t, err)
		})
	}
}
