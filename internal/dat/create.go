package dat

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures a conversion run. Zero values use defaults.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Result summarizes a conversion run. On failure it describes what was
// processed before the run stopped.
type Result struct {
	OutFile  string
	Matched  int
	Titles   int
	Roms     int
	Datafile *Datafile
}

// Sources expands pattern into the matching descriptor paths, sorted.
// Patterns may use "**" to match across directories.
func Sources(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Clean(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid sources pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Create builds the catalog described by cfg and writes it to cfg.OutFile.
//
// Descriptors are processed one at a time and the first failure stops the
// run. The catalog is written exactly once on every exit path, so a failed
// run still leaves the titles parsed before the failure on disk; the
// conversion error and any write error are both returned.
func Create(cfg Config, opts Options) (res *Result, err error) {
	logger := opts.logger().With("catalog", cfg.Name)

	b := NewBuilder()
	b.SetHeader(NewHeader(cfg, opts.now()))
	res = &Result{OutFile: cfg.OutFile}

	defer func() {
		doc := b.Datafile()
		res.Titles = b.Len()
		res.Roms = doc.RomCount()
		res.Datafile = doc
		if werr := WriteFile(cfg.OutFile, doc); werr != nil {
			err = errors.Join(err, fmt.Errorf("failed to write %s: %w", cfg.OutFile, werr))
			return
		}
		logger.Info("wrote catalog", "out", cfg.OutFile, "games", res.Titles, "roms", res.Roms)
	}()

	err = eachTitle(cfg.Sources, logger, res, b.AppendTitle)
	return res, err
}

// Check validates every descriptor matched by cfg.Sources without writing
// a catalog. Like Create it stops at the first failure.
func Check(cfg Config, opts Options) (*Result, error) {
	logger := opts.logger().With("catalog", cfg.Name)

	b := NewBuilder()
	b.SetHeader(NewHeader(cfg, opts.now()))
	res := &Result{OutFile: cfg.OutFile}

	err := eachTitle(cfg.Sources, logger, res, b.AppendTitle)
	res.Titles = b.Len()
	res.Datafile = b.Datafile()
	res.Roms = res.Datafile.RomCount()
	return res, err
}

func eachTitle(pattern string, logger *slog.Logger, res *Result, fn func(*Title)) error {
	paths, err := Sources(pattern)
	if err != nil {
		return err
	}
	res.Matched = len(paths)
	if len(paths) == 0 {
		logger.Warn("sources pattern matched no files", "sources", pattern)
	}

	for _, path := range paths {
		title, err := parseFile(path, logger)
		if err != nil {
			return err
		}
		fn(title)
	}
	return nil
}

func parseFile(path string, logger *slog.Logger) (*Title, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor: %w", err)
	}
	defer func() { _ = f.Close() }()

	logger.Info("parsing", "file", path)
	return ParseTitle(f, path, logger)
}
