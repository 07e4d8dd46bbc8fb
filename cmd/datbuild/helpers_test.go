package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the datbuild binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "datbuild"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/datbuild ./cmd/datbuild'", binaryPath)
	}

	return binaryPath
}

// executeCommand runs the root command in-process with fresh flag values.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	configPath = ""
	verbose = false
	buildJobs = 1

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

type fixture struct {
	dir    string
	config string
}

func (f fixture) out(name string) string {
	return filepath.Join(f.dir, "out", name+".dat")
}

// newFixture writes a build.json with two catalogs, "Good" and "Bad".
// "Bad" holds three descriptors, the second of which is missing its md5.
func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{dir: dir, config: filepath.Join(dir, "build.json")}

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	title := func(uid, md5 string) string {
		entry := "\t\t{\"filename\": \"A.BIN\", \"size\": 1, \"crc\": \"ABCD\", \"sha1\": \"s\""
		if md5 != "" {
			entry += ", \"md5\": \"" + md5 + "\""
		}
		return "{\n\t\"uid\": \"" + uid + "\",\n\t\"files\": [\n" + entry + "}\n\t]\n}\n"
	}

	write(filepath.Join("good", "One.json"), title("One", "m1"))
	write(filepath.Join("good", "Two.json"), title("Two", "m2"))
	write(filepath.Join("bad", "A.json"), title("A", "m"))
	write(filepath.Join("bad", "B.json"), title("B", ""))
	write(filepath.Join("bad", "C.json"), title("C", "m"))

	cfg := fmt.Sprintf(`{
	"author": "Archivist",
	"url": "https://example.com",
	"config": [
		{"out_file": %q, "sources": %q, "name": "Good", "description": "Good titles"},
		{"out_file": %q, "sources": %q, "name": "Bad", "description": "Bad titles"}
	]
}`, f.out("good"), filepath.Join(dir, "good", "*.json"), f.out("bad"), filepath.Join(dir, "bad", "*.json"))
	write("build.json", cfg)

	return f
}
