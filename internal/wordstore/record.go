package wordstore

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/userstore/internal/user"
)

// Record paragraphs read "ID: <id>\tName: <name>\tAge: <age>".
const (
	idLabel   = "ID: "
	nameLabel = "Name: "
	ageLabel  = "Age: "
)

const hexDigits = "0123456789abcdef"

// escapeField makes a field safe to sit between the record separators and
// inside XML character data. Backslash, tab, CR and LF get short escapes;
// code points XML 1.0 cannot carry and bytes that are not valid UTF-8 are
// written as \xNN, one per byte.
func escapeField(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\n':
			sb.WriteString(`\n`)
		case (r == utf8.RuneError && size == 1) || !xmlChar(r):
			for _, b := range []byte(s[i : i+size]) {
				sb.WriteString(`\x`)
				sb.WriteByte(hexDigits[b>>4])
				sb.WriteByte(hexDigits[b&0x0f])
			}
		default:
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

// unescapeField reverses escapeField. Unknown escapes are kept literally.
func unescapeField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '\\':
			sb.WriteByte('\\')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'n':
			sb.WriteByte('\n')
		case 'x':
			if i+3 < len(s) {
				if b, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					sb.WriteByte(byte(b))
					i += 3
					continue
				}
			}
			sb.WriteByte(c)
			continue
		default:
			sb.WriteByte(c)
			continue
		}
		i++
	}
	return sb.String()
}

// xmlChar reports whether r is in the XML 1.0 Char production.
func xmlChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// isRecord reports whether a paragraph is meant to hold a user.
func isRecord(text string) bool {
	return strings.HasPrefix(text, idLabel)
}

func formatRecord(u user.User) string {
	return idLabel + escapeField(u.ID()) +
		"\t" + nameLabel + escapeField(u.Name()) +
		"\t" + ageLabel + strconv.Itoa(u.Age())
}

func parseRecord(text string) (user.User, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != 3 {
		return user.User{}, fmt.Errorf("want 3 tab-separated fields, got %d", len(fields))
	}

	id, ok := strings.CutPrefix(fields[0], idLabel)
	if !ok {
		return user.User{}, fmt.Errorf("missing %q label", strings.TrimSpace(idLabel))
	}
	name, ok := strings.CutPrefix(fields[1], nameLabel)
	if !ok {
		return user.User{}, fmt.Errorf("missing %q label", strings.TrimSpace(nameLabel))
	}
	ageText, ok := strings.CutPrefix(fields[2], ageLabel)
	if !ok {
		return user.User{}, fmt.Errorf("missing %q label", strings.TrimSpace(ageLabel))
	}
	age, err := strconv.Atoi(ageText)
	if err != nil {
		return user.User{}, fmt.Errorf("age %q is not an integer", ageText)
	}

	return user.New(unescapeField(id), unescapeField(name), age), nil
}
