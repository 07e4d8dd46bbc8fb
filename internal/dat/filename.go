package dat

import "strings"

// reservedFilenameChars cannot appear in Win32 filenames.
const reservedFilenameChars = `/<>:"\|?*`

// JSONFilename maps a title uid to the descriptor filename it is expected
// to be stored under. Reserved and non-printable-ASCII characters become
// hyphens.
func JSONFilename(uid string) string {
	var sb strings.Builder
	sb.Grow(len(uid) + len(".json"))
	for _, r := range uid {
		if r < 32 || r > 126 || strings.ContainsRune(reservedFilenameChars, r) {
			sb.WriteByte('-')
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteString(".json")
	return sb.String()
}
