package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/datbuild/internal/schemas"
)

const validConfig = `{
	"author": "Archivist",
	"url": "https://example.com/dats",
	"config": [
		{
			"out_file": "out/shareware.dat",
			"sources": "titles/shareware/*.json",
			"name": "Shareware",
			"description": "Shareware titles"
		},
		{
			"out_file": "out/freeware.dat",
			"sources": "titles/freeware/**/*.json",
			"name": "Freeware",
			"description": "Freeware titles"
		}
	]
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "build.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Archivist", cfg.Author)
	assert.Equal(t, "https://example.com/dats", cfg.URL)
	require.Len(t, cfg.Entries, 2)
	assert.Equal(t, "out/shareware.dat", cfg.Entries[0].OutFile)
	assert.Equal(t, "titles/shareware/*.json", cfg.Entries[0].Sources)
	assert.Equal(t, "Shareware", cfg.Entries[0].Name)
	assert.Equal(t, "Shareware titles", cfg.Entries[0].Description)
	assert.Equal(t, "Freeware", cfg.Entries[1].Name)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, err.Error(), "invalid config file")
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	content := `{"author": "a", "url": "u", "config": [{"out_file": "o", "sources": 3, "name": "n", "description": "d"}]}`
	cfg, err := LoadConfig(writeConfig(t, content))
	assert.Nil(t, cfg)
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Errors[0].Field, "sources")
}

func TestLoadConfig_EmptyRequiredField(t *testing.T) {
	content := `{"author": "a", "url": "u", "config": [{"out_file": "o", "sources": "", "name": "n", "description": "d"}]}`
	cfg, err := LoadConfig(writeConfig(t, content))
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sources")
	assert.Contains(t, err.Error(), "required")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/build.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_DuplicateOutFile(t *testing.T) {
	cfg := &Config{
		Entries: []Entry{
			{OutFile: "a.dat", Sources: "*.json", Name: "A"},
			{OutFile: "a.dat", Sources: "*.json", Name: "B"},
		},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "more than one entry")
}

func TestValidate_EmptyConfigIsValid(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestSelect(t *testing.T) {
	cfg := &Config{
		Entries: []Entry{
			{Name: "A"},
			{Name: "B"},
			{Name: "C"},
		},
	}

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{name: "no names selects all", names: nil, want: []string{"A", "B", "C"}},
		{name: "all selects all", names: []string{"all"}, want: []string{"A", "B", "C"}},
		{name: "explicit names keep file order", names: []string{"C", "A"}, want: []string{"A", "C"}},
		{name: "unknown names select nothing", names: []string{"Z"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range cfg.Select(tt.names) {
				got = append(got, e.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelect_EntryNamedAll(t *testing.T) {
	cfg := &Config{
		Entries: []Entry{
			{Name: "A"},
			{Name: "all"},
		},
	}

	got := cfg.Select([]string{"all"})
	require.Len(t, got, 1)
	assert.Equal(t, "all", got[0].Name)
}

func TestUnknown(t *testing.T) {
	cfg := &Config{Entries: []Entry{{Name: "A"}}}
	assert.Equal(t, []string{"B"}, cfg.Unknown([]string{"A", "all", "B"}))
	assert.Empty(t, cfg.Unknown(nil))
}

func TestDatConfig(t *testing.T) {
	cfg := &Config{Author: "Archivist", URL: "https://example.com"}
	e := Entry{OutFile: "o.dat", Sources: "s/*.json", Name: "N", Description: "D"}

	got := cfg.DatConfig(e)
	assert.Equal(t, "Archivist", got.Author)
	assert.Equal(t, "https://example.com", got.URL)
	assert.Equal(t, "o.dat", got.OutFile)
	assert.Equal(t, "s/*.json", got.Sources)
	assert.Equal(t, "N", got.Name)
	assert.Equal(t, "D", got.Description)
}
