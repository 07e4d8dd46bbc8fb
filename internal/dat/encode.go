package dat

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes doc as UTF-8 XML with a declaration, indenting one tab per
// nesting level.
func Encode(w io.Writer, doc *Datafile) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile encodes doc to path, creating the parent directory if needed.
func WriteFile(path string, doc *Datafile) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, doc); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
