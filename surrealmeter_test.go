package surrealmeter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/TFMV/surrealmeter"
	"github.com/TFMV/surrealmeter/analysis"
	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/db"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surrealmeter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sm:\n  projectKey: org:proj\n  languages: java\n"), 0o644))

	tests := []struct {
		name      string
		overrides []string
		wantKey   string
		wantErr   bool
	}{
		{
			name:    "file only",
			wantKey: "org:proj",
		},
		{
			name:      "override",
			overrides: []string{"sm.projectKey=other", " sm.java.skip =true"},
			wantKey:   "other",
		},
		{
			name:      "malformed override",
			overrides: []string{"sm.projectKey"},
			wantErr:   true,
		},
		{
			name:      "empty key",
			overrides: []string{"=x"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := surrealmeter.LoadSettings(path, tt.overrides)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, s.GetString(config.KeyProjectKey))
			assert.Equal(t, []string{"java"}, s.GetStringSlice(config.KeyLanguages))
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := surrealmeter.LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestWriteProfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := config.New()

	path, err := surrealmeter.WriteProfile(fs, s, "java", "/profiles", zap.NewNop())
	require.NoError(t, err)
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = surrealmeter.WriteProfile(fs, s, "cobol", "/profiles", zap.NewNop())
	assert.Error(t, err)
}

func TestAnalyzeWithoutSources(t *testing.T) {
	s := config.New()
	s.Set(config.KeyProjectKey, "proj")
	s.Set(config.KeyBaseDir, "/base")

	mock := db.NewMockDB()
	a := surrealmeter.New(s, mock, afero.NewMemMapFs(), zap.NewNop())
	require.NoError(t, a.Initialize(context.Background()))
	_, err := a.Analyze(context.Background())
	assert.ErrorIs(t, err, analysis.ErrNoLanguages)
	assert.Empty(t, mock.Reports())
	require.NoError(t, a.Close())
	assert.True(t, mock.Closed())
}

func TestNewLogger(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		log, err := surrealmeter.NewLogger(verbose)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
