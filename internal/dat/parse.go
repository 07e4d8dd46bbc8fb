package dat

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

const (
	// tabCheckRunes is how far into a descriptor the indent check looks.
	tabCheckRunes = 8

	recordSeparator       = "\x1e"
	recordSeparatorSymbol = "␞"
)

type fieldKind int

const (
	kindAbsent fieldKind = iota
	kindNull
	kindBool
	kindNumber
	kindString
	kindArray
	kindObject
)

// field is a decoded JSON value that remembers its kind, so each key can be
// checked for type without a second decode.
type field struct {
	kind fieldKind
	str  string
	num  json.Number
	list []field
	obj  object
	raw  []byte
}

// jsonNumber is the number grammar of RFC 8259.
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// UnmarshalJSON implements json.Unmarshaler.
func (f *field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	f.raw = append(f.raw[:0], b...)
	switch b[0] {
	case 'n':
		f.kind = kindNull
	case 't', 'f':
		f.kind = kindBool
	case '"':
		f.kind = kindString
		return json.Unmarshal(b, &f.str)
	case '[':
		f.kind = kindArray
		return json.Unmarshal(b, &f.list)
	case '{':
		f.kind = kindObject
		return json.Unmarshal(b, &f.obj)
	default:
		if !jsonNumber.Match(b) {
			return fmt.Errorf("invalid number literal %q", b)
		}
		f.kind = kindNumber
		f.num = json.Number(b)
	}
	return nil
}

// present reports whether the key was given with a non-null value.
func (f field) present() bool {
	return f.kind != kindAbsent && f.kind != kindNull
}

// object is a JSON object with exact (case-sensitive) key lookup.
type object map[string]field

// decodeDocument checks the whole document against the JSON grammar and
// decodes it in one pass, nested values included.
func decodeDocument(b []byte) (field, error) {
	var root field
	if !json.Valid(b) {
		return root, fmt.Errorf("invalid JSON")
	}
	if err := json.Unmarshal(b, &root); err != nil {
		return root, err
	}
	return root, nil
}

func (o object) requireString(key string) (string, error) {
	f := o[key]
	if f.kind != kindString {
		return "", missingKey(key)
	}
	return f.str, nil
}

// optionalString returns nil when key is absent or null.
func (o object) optionalString(key string, onWrongType func(string) *ParseError) (*string, error) {
	f := o[key]
	switch {
	case !f.present():
		return nil, nil
	case f.kind == kindString:
		s := f.str
		return &s, nil
	default:
		return nil, onWrongType(key)
	}
}

// ParseTitle reads one JSON descriptor and validates it into a Title.
// filename is only used for diagnostics and the filename-vs-uid check.
// Advisory problems are logged as warnings; a schema problem returns a
// *ParseError and nothing is partially built.
func ParseTitle(r io.Reader, filename string, logger *slog.Logger) (*Title, error) {
	if logger == nil {
		logger = slog.Default()
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if !utf8.Valid(content) {
		return nil, &SyntaxError{File: filename, Message: "content is not valid UTF-8"}
	}

	if !strings.ContainsRune(leadingRunes(content, tabCheckRunes), '\t') {
		logger.Warn("source files should use tabs for indents", "file", filename)
	}

	root, err := decodeDocument(content)
	if err != nil {
		return nil, &SyntaxError{File: filename, Message: "invalid JSON", Cause: err}
	}
	if root.kind != kindObject {
		return nil, &SyntaxError{File: filename, Message: "root must be a JSON object"}
	}

	title, err := titleFromObject(root.obj, filename, logger)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.File = filename
		}
		return nil, err
	}
	return title, nil
}

func titleFromObject(root object, filename string, logger *slog.Logger) (*Title, error) {
	uid, err := root.requireString("uid")
	if err != nil {
		return nil, err
	}

	wanted := JSONFilename(uid)
	if actual := filepath.Base(filename); actual != wanted {
		logger.Warn(`filename is inconsistent with "uid"`, "file", filename, "prefer", wanted)
	}

	if version := root["version"]; version.present() {
		v := version.str
		if version.kind != kindString {
			v = string(version.raw)
		}
		if !strings.Contains(uid, "("+v+")") {
			logger.Warn(`it is recommended that "version" is made a part of "uid", using parenthesis`,
				"file", filename, "uid", uid, "version", v)
		}
	}

	files := root["files"]
	if files.kind != kindArray {
		return nil, missingKey("files")
	}

	name, err := root.optionalString("name", invalidKey)
	if err != nil {
		return nil, err
	}
	description, err := root.optionalString("description", invalidKey)
	if err != nil {
		return nil, err
	}

	title := &Title{
		UID:         uid,
		Description: combineDescription(name, description),
		Roms:        make([]Rom, 0, len(files.list)),
	}

	for _, item := range files.list {
		rom, err := parseRom(item)
		if err != nil {
			return nil, err
		}
		title.Roms = append(title.Roms, rom)
	}

	return title, nil
}

// combineDescription joins name and description as "name - description".
// Record separators in the description are swapped for their visible symbol.
func combineDescription(name, description *string) *string {
	var out string
	switch {
	case name != nil && description != nil:
		out = *name + " - " + strings.ReplaceAll(*description, recordSeparator, recordSeparatorSymbol)
	case name != nil:
		out = *name
	case description != nil:
		out = strings.ReplaceAll(*description, recordSeparator, recordSeparatorSymbol)
	default:
		return nil
	}
	return &out
}

func parseRom(item field) (Rom, error) {
	if item.kind != kindObject {
		return Rom{}, malformedKey("files", nil)
	}
	entry := item.obj

	filename, err := entry.requireString("filename")
	if err != nil {
		return Rom{}, err
	}

	date, err := entry.optionalString("date", func(key string) *ParseError {
		return malformedKey(key, nil)
	})
	if err != nil {
		return Rom{}, err
	}

	size, err := parseSize(entry["size"])
	if err != nil {
		return Rom{}, err
	}

	crc, err := parseCRC(entry["crc"])
	if err != nil {
		return Rom{}, err
	}

	sha1, err := entry.requireString("sha1")
	if err != nil {
		return Rom{}, err
	}
	md5, err := entry.requireString("md5")
	if err != nil {
		return Rom{}, err
	}

	return Rom{
		Name: filename,
		Date: date,
		Size: size,
		CRC:  crc,
		SHA1: sha1,
		MD5:  md5,
	}, nil
}

func parseSize(f field) (int64, error) {
	if f.kind != kindNumber {
		return 0, missingKey("size")
	}
	size, err := strconv.ParseInt(f.num.String(), 10, 64)
	if err != nil || size < 0 {
		return 0, missingKey("size")
	}
	return size, nil
}

// parseCRC accepts a decimal JSON integer or a hexadecimal string.
func parseCRC(f field) (CRC, error) {
	var (
		value uint64
		err   error
	)
	switch f.kind {
	case kindNumber:
		value, err = strconv.ParseUint(f.num.String(), 10, 32)
	case kindString:
		value, err = parseHex(f.str)
	default:
		return 0, missingKey("crc")
	}
	if err != nil {
		return 0, malformedKey("crc", err)
	}
	return CRC(value), nil
}

// parseHex accepts surrounding whitespace, an optional 0x prefix and single
// underscores between digits (or directly after the prefix).
func parseHex(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = strings.TrimPrefix(s[2:], "_")
	}
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") || strings.Contains(s, "__") {
		return 0, fmt.Errorf("misplaced underscore in %q", s)
	}
	return strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 16, 32)
}

// leadingRunes returns up to n runes from the start of b.
func leadingRunes(b []byte, n int) string {
	end := 0
	for i := 0; i < n && end < len(b); i++ {
		_, size := utf8.DecodeRune(b[end:])
		end += size
	}
	return string(b[:end])
}
