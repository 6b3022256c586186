package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProviders_PreservesFileOrder(t *testing.T) {
	path := writeFile(t, "providers.json", `{
		"zeta":  {"url": "https://zeta.example.com", "tag": "a", "attrs": {"class": "headline"}},
		"alpha": {"url": "https://alpha.example.com", "tag": "h2", "attrs": {}},
		"mid":   {"url": "https://mid.example.com", "xhr": "span"}
	}`)

	providers, err := LoadProviders(path)
	require.NoError(t, err)
	require.Len(t, providers, 3)

	assert.Equal(t, "https://zeta.example.com", providers[0].URL())
	assert.Equal(t, "a", providers[0].Tag())
	assert.Equal(t, map[string]string{"class": "headline"}, providers[0].Attrs())

	assert.Equal(t, "https://alpha.example.com", providers[1].URL())
	assert.Equal(t, "h2", providers[1].Tag())

	// xhr は tag の旧名として扱われる
	assert.Equal(t, "https://mid.example.com", providers[2].URL())
	assert.Equal(t, "span", providers[2].Tag())
	assert.Empty(t, providers[2].Attrs())
}

func TestReadProviders_Array(t *testing.T) {
	providers, err := ReadProviders(strings.NewReader(`[
		{"url": "https://b.example.com", "tag": "a"},
		{"url": "https://a.example.com", "tag": "a"}
	]`))
	require.NoError(t, err)
	require.Len(t, providers, 2)
	assert.Equal(t, "https://b.example.com", providers[0].URL())
	assert.Equal(t, "https://a.example.com", providers[1].URL())
}

func TestReadProviders_TagWinsOverXHR(t *testing.T) {
	providers, err := ReadProviders(strings.NewReader(`{"s": {"url": "https://a.example.com", "tag": "a", "xhr": "span"}}`))
	require.NoError(t, err)
	assert.Equal(t, "a", providers[0].Tag())
}

func TestReadProviders_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		contains string
	}{
		{
			name:     "empty_file",
			input:    "  ",
			sentinel: ErrDecodeProviders,
		},
		{
			name:     "invalid_json",
			input:    `{"site": {"url": `,
			sentinel: ErrDecodeProviders,
		},
		{
			name:     "url_not_string",
			input:    `{"site": {"url": 123, "tag": "a"}}`,
			sentinel: ErrDecodeProviders,
		},
		{
			name:     "tag_not_string",
			input:    `{"site": {"url": "https://a.example.com", "xhr": 22}}`,
			sentinel: ErrDecodeProviders,
		},
		{
			name:     "missing_url",
			input:    `{"ok": {"url": "https://a.example.com", "tag": "a"}, "broken": {"other": "https://b.example.com", "tag": "a"}}`,
			sentinel: ErrInvalidProviders,
			contains: "broken: url (required)",
		},
		{
			name:     "missing_tag_and_xhr",
			input:    `{"site": {"url": "https://a.example.com", "other": "xxx"}}`,
			sentinel: ErrInvalidProviders,
			contains: "site:",
		},
		{
			name:     "url_not_a_url",
			input:    `[{"url": "not a url", "tag": "a"}]`,
			sentinel: ErrInvalidProviders,
			contains: "[0]: url (url)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := ReadProviders(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, providers)
			assert.True(t, errors.Is(err, tt.sentinel), "想定外のエラー: %v", err)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadProviders_MissingFile(t *testing.T) {
	_, err := LoadProviders(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadProviders))
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultFetchTimeout, s.Fetch.Timeout)
	assert.Equal(t, DefaultMaxBodyBytes, s.Fetch.MaxBodyBytes)
	assert.Equal(t, "", s.Fetch.UserAgent)
	assert.Equal(t, DefaultLogLevel, s.Log.Level)
	assert.Equal(t, "", s.Log.Dir)
	assert.Equal(t, DefaultOutputPath, s.Output.Path)
	assert.Equal(t, DefaultWatchSchedule, s.Watch.Schedule)
	assert.Equal(t, DefaultWatchOutputDir, s.Watch.Dir)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := writeFile(t, "settings.yaml", `
fetch:
  timeout: 3s
  user_agent: headline-exact/1.0
log:
  level: debug
output:
  path: out/result.json
`)
	t.Setenv("HEADLINE_EXACT_WATCH_SCHEDULE", "0 * * * *")

	s, err := LoadSettings(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, s.Fetch.Timeout)
	assert.Equal(t, "headline-exact/1.0", s.Fetch.UserAgent)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "out/result.json", s.Output.Path)
	assert.Equal(t, "0 * * * *", s.Watch.Schedule)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	s := &Settings{
		Fetch:  FetchSettings{Timeout: -time.Second, MaxBodyBytes: -1},
		Output: OutputSettings{Path: ""},
	}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyFetchTimeout)
	assert.Contains(t, err.Error(), KeyMaxBodyBytes)
	assert.Contains(t, err.Error(), KeyOutputPath)
}
