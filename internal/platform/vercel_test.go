package platform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdmleite/webship/internal/analyzer"
)

func TestVercel_GenerateConfig(t *testing.T) {
	dir := t.TempDir()
	v := NewVercel()

	settings := &Settings{
		Framework:    analyzer.FrameworkNext,
		BuildCommand: "npm run build",
		PublishDir:   ".next",
	}

	written, err := v.GenerateConfig(dir, settings)
	require.NoError(t, err)
	assert.Equal(t, []string{"vercel.json"}, written)

	data, err := os.ReadFile(filepath.Join(dir, "vercel.json"))
	require.NoError(t, err)

	var cfg vercelConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, "nextjs", cfg.Framework)
	assert.Equal(t, "npm run build", cfg.BuildCommand)
	assert.Equal(t, ".next", cfg.OutputDirectory)
	assert.False(t, cfg.CleanUrls)
}

func TestVercel_GenerateConfig_Static(t *testing.T) {
	dir := t.TempDir()
	v := NewVercel()

	_, err := v.GenerateConfig(dir, &Settings{Framework: analyzer.FrameworkStatic, PublishDir: "."})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "vercel.json"))
	require.NoError(t, err)

	var cfg vercelConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.True(t, cfg.CleanUrls)
	assert.Empty(t, cfg.Framework)
	assert.Empty(t, cfg.BuildCommand)
}

func TestVercel_ExistingSettings_ToleratesJSONC(t *testing.T) {
	dir := t.TempDir()
	v := NewVercel()

	// The vercel CLI accepts comments and trailing commas in its config
	config := `{
	// build settings
	"buildCommand": "pnpm run build",
	"outputDirectory": "dist",
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vercel.json"), []byte(config), 0644))

	existing, err := v.ExistingSettings(dir)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "pnpm run build", existing.BuildCommand)
	assert.Equal(t, "dist", existing.PublishDir)
}

func TestVercel_ExistingSettings_NoConfig(t *testing.T) {
	existing, err := NewVercel().ExistingSettings(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, existing)
}

func TestVercel_DeployArgs(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		expected []string
	}{
		{
			name:     "preview deploy",
			settings: Settings{},
			expected: []string{"deploy", "--yes"},
		},
		{
			name:     "production deploy",
			settings: Settings{Prod: true},
			expected: []string{"deploy", "--yes", "--prod"},
		},
		{
			name:     "with team scope",
			settings: Settings{Prod: true, Scope: "acme"},
			expected: []string{"deploy", "--yes", "--prod", "--scope", "acme"},
		},
	}

	v := NewVercel()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.DeployArgs(&tt.settings))
		})
	}
}

func TestVercel_ExtractURL(t *testing.T) {
	output := `Vercel CLI 37.4.2
Retrieving project…
Inspect: https://vercel.com/user/my-app/7kPrBqs2 [2s]
Production: https://my-app-git-main-user.vercel.app [2s]
https://my-app.vercel.app
`

	assert.Equal(t, "https://my-app.vercel.app", NewVercel().ExtractURL(output))
}
