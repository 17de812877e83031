// FILE: lixenwraith/asynclog/sanitizer/sanitizer.go
// Package sanitizer keeps a log message on a single output line by encoding
// or escaping the characters that would otherwise break or spoof a line.
package sanitizer

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"
)

// Policy selects how unsafe characters are rewritten
type Policy string

const (
	PolicyRaw  Policy = "raw"  // Passthrough, caller guarantees single-line text
	PolicyTxt  Policy = "txt"  // Non-printable runes become "<xx..>" hex of their UTF-8 bytes
	PolicyJSON Policy = "json" // Control runes, quote and backslash get JSON escapes
)

// Valid reports whether p names a known policy
func Valid(p string) bool {
	switch Policy(p) {
	case PolicyRaw, PolicyTxt, PolicyJSON:
		return true
	}
	return false
}

// Sanitizer rewrites text according to a single policy.
// It holds no buffers and is safe for concurrent use.
type Sanitizer struct {
	policy Policy
}

// New creates a sanitizer, unknown policies fall back to PolicyTxt
func New(p Policy) *Sanitizer {
	if !Valid(string(p)) {
		p = PolicyTxt
	}
	return &Sanitizer{policy: p}
}

// Policy returns the active policy
func (s *Sanitizer) Policy() Policy {
	return s.policy
}

// Sanitize returns the rewritten text
func (s *Sanitizer) Sanitize(text string) string {
	if s.policy == PolicyRaw || isClean(text) {
		return text
	}
	return string(s.Append(make([]byte, 0, len(text)+16), text))
}

// Append appends the rewritten text to dst and returns the extended slice
func (s *Sanitizer) Append(dst []byte, text string) []byte {
	switch s.policy {
	case PolicyTxt:
		return appendHex(dst, text)
	case PolicyJSON:
		return appendJSON(dst, text)
	default:
		return append(dst, text...)
	}
}

// isClean is the fast path for printable ASCII, which no policy rewrites
// except JSON quote and backslash
func isClean(text string) bool {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < ' ' || c >= utf8.RuneSelf || c == 0x7f || c == '"' || c == '\\' {
			return false
		}
	}
	return true
}

func appendHex(dst []byte, text string) []byte {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			dst = appendHexBytes(dst, text[i:i+1])
		} else if !strconv.IsPrint(r) {
			dst = appendHexBytes(dst, text[i:i+size])
		} else {
			dst = append(dst, text[i:i+size]...)
		}
		i += size
	}
	return dst
}

func appendHexBytes(dst []byte, b string) []byte {
	dst = append(dst, '<')
	dst = hex.AppendEncode(dst, []byte(b))
	return append(dst, '>')
}

const hexDigits = "0123456789abcdef"

func appendJSON(dst []byte, text string) []byte {
	for i := 0; i < len(text); {
		c := text[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(text[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, `\ufffd`...)
			} else {
				dst = append(dst, text[i:i+size]...)
			}
			i += size
			continue
		}
		if c >= ' ' && c != '"' && c != '\\' && c != 0x7f {
			start := i
			for i < len(text) && text[i] >= ' ' && text[i] < utf8.RuneSelf && text[i] != '"' && text[i] != '\\' && text[i] != 0x7f {
				i++
			}
			dst = append(dst, text[start:i]...)
			continue
		}
		switch c {
		case '\\', '"':
			dst = append(dst, '\\', c)
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		i++
	}
	return dst
}
