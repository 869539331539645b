package lifecycle

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Metadata holds the package declarations read from its about file.
type Metadata struct {
	Title   string
	Version string
	Summary string
	URI     string
	Author  string
	Email   string
	License string
}

// ErrNoVersion is returned when the metadata file declares no version.
var ErrNoVersion = errors.New("no __version__ declared")

var assignment = regexp.MustCompile(`^(__[a-z]+__)\s*=\s*(.+)$`)

// ReadMetadata scans path for dunder assignments of string literals, such
// as `__version__ = '1.2.3'`. Anything else in the file is ignored; the
// file is never executed.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	defer f.Close()

	meta := &Metadata{}
	fields := map[string]*string{
		"__title__":   &meta.Title,
		"__version__": &meta.Version,
		"__summary__": &meta.Summary,
		"__uri__":     &meta.URI,
		"__author__":  &meta.Author,
		"__email__":   &meta.Email,
		"__license__": &meta.License,
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		match := assignment.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		target, ok := fields[match[1]]
		if !ok {
			continue
		}
		value, ok := stringLiteral(match[2])
		if !ok {
			continue
		}
		*target = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return meta, nil
}

// ReadVersion returns the declared version from the metadata file.
func ReadVersion(path string) (string, error) {
	meta, err := ReadMetadata(path)
	if err != nil {
		return "", err
	}
	if meta.Version == "" {
		return "", fmt.Errorf("%s: %w", path, ErrNoVersion)
	}
	return meta.Version, nil
}

// stringLiteral decodes a quoted value. Double-quoted literals (and
// trailing # comments) share their syntax with TOML basic strings.
// Single-quoted literals are rewritten to double quotes first so that
// backslash escapes such as \' keep their meaning.
func stringLiteral(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "'") {
		var ok bool
		if raw, ok = requote(raw); !ok {
			return "", false
		}
	}

	var doc struct {
		V string `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+raw), &doc); err != nil {
		return "", false
	}
	return doc.V, true
}

// requote turns a leading single-quoted literal into a double-quoted one,
// keeping whatever follows the closing quote.
func requote(raw string) (string, bool) {
	var b strings.Builder
	b.WriteByte('"')
	for i := 1; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '\\':
			if i+1 == len(raw) {
				return "", false
			}
			i++
			if raw[i] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte('\\')
				b.WriteByte(raw[i])
			}
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteByte('"')
			b.WriteString(raw[i+1:])
			return b.String(), true
		default:
			b.WriteByte(c)
		}
	}
	return "", false
}
