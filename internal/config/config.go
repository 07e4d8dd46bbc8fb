// Package config provides loading, validation and selection of catalog build configurations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/jonathan/datbuild/internal/dat"
	"github.com/jonathan/datbuild/internal/schemas"
	schemafiles "github.com/jonathan/datbuild/schemas"
)

// DefaultPath is used when no config file is given on the command line.
const DefaultPath = "build.json"

// EnvPath names the environment variable that overrides DefaultPath.
const EnvPath = "DATBUILD_CONFIG"

// AllEntries selects every entry when passed as the only name.
const AllEntries = "all"

// Config represents a build.json file: shared provenance plus one entry per catalog.
type Config struct {
	Author  string  `json:"author"`
	URL     string  `json:"url"`
	Entries []Entry `json:"config" validate:"dive"`
}

// Entry describes one catalog to build.
type Entry struct {
	OutFile     string `json:"out_file" validate:"required"`
	Sources     string `json:"sources" validate:"required"` // glob pattern of descriptor files
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// LoadError represents an error reading or decoding a config file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: %s %s: %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("config error: %s %s", e.Message, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadConfig loads configuration from a JSON file, checks it against the
// embedded build config schema and validates the entries.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read config file", Cause: err}
	}

	if err := schemas.ValidateBytes("build_config", schemafiles.BuildConfig, data); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid config file", Cause: err}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to parse config JSON", Cause: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid config file", Cause: err}
	}

	return &cfg, nil
}

// Validate checks that every entry names its output, sources and catalog name.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("'%s' is %s", fe.Namespace(), fe.Tag())
		}
		return err
	}

	seen := make(map[string]bool, len(c.Entries))
	for _, e := range c.Entries {
		if seen[e.OutFile] {
			return fmt.Errorf("out_file %s is used by more than one entry", e.OutFile)
		}
		seen[e.OutFile] = true
	}
	return nil
}

// Select returns the entries to build, in file order. No names, or the
// single name "all", selects everything unless an entry is literally
// named "all".
func (c *Config) Select(names []string) []Entry {
	if len(names) == 0 || (len(names) == 1 && names[0] == AllEntries && !c.hasEntry(AllEntries)) {
		return append([]Entry(nil), c.Entries...)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []Entry
	for _, e := range c.Entries {
		if wanted[e.Name] {
			out = append(out, e)
		}
	}
	return out
}

// Unknown returns the requested names that match no entry.
func (c *Config) Unknown(names []string) []string {
	var out []string
	for _, n := range names {
		if n == AllEntries || c.hasEntry(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (c *Config) hasEntry(name string) bool {
	for _, e := range c.Entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// DatConfig resolves an entry against the shared provenance fields.
func (c *Config) DatConfig(e Entry) dat.Config {
	return dat.Config{
		Author:      c.Author,
		URL:         c.URL,
		OutFile:     e.OutFile,
		Sources:     e.Sources,
		Name:        e.Name,
		Description: e.Description,
	}
}
