// Package formatter renders log records into output lines.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/lixenwraith/asynclog/sanitizer"
)

// DefaultTimestampFormat renders day.month.year hour:minute:second
const DefaultTimestampFormat = "02.01.2006 15:04:05"

// Output formats
const (
	FormatTxt  = "txt"
	FormatJSON = "json"
)

// Formatter renders records into single output lines.
// It reuses one internal buffer and is not safe for concurrent use;
// the drain worker owns exactly one.
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	jsonEscaper     *sanitizer.Sanitizer
	format          string
	timestampFormat string
	buf             []byte
}

// New creates a txt formatter using the provided sanitizer for message text
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New(sanitizer.PolicyTxt)
	}
	return &Formatter{
		sanitizer:       san,
		jsonEscaper:     sanitizer.New(sanitizer.PolicyJSON),
		format:          FormatTxt,
		timestampFormat: DefaultTimestampFormat,
		buf:             make([]byte, 0, 1024),
	}
}

// Type sets the output format ("txt" or "json")
func (f *Formatter) Type(format string) *Formatter {
	f.format = format
	return f
}

// TimestampFormat sets the time layout, empty keeps the current one
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// ValidFormat reports whether format is supported
func ValidFormat(format string) bool {
	return format == FormatTxt || format == FormatJSON
}

// Format renders one line without the trailing newline.
// The returned slice is only valid until the next call.
func (f *Formatter) Format(timestamp time.Time, level int64, text string) []byte {
	f.buf = f.buf[:0]

	if f.format == FormatJSON {
		f.buf = append(f.buf, `{"time":"`...)
		f.buf = f.jsonEscaper.Append(f.buf, timestamp.Format(f.timestampFormat))
		f.buf = append(f.buf, `","level":"`...)
		f.buf = append(f.buf, LevelToString(level)...)
		f.buf = append(f.buf, `","message":"`...)
		f.buf = f.jsonEscaper.Append(f.buf, text)
		f.buf = append(f.buf, `"}`...)
		return f.buf
	}

	f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
	f.buf = append(f.buf, ' ')
	f.buf = append(f.buf, LevelToString(level)...)
	f.buf = append(f.buf, ':', ' ')
	f.buf = f.sanitizer.Append(f.buf, text)
	return f.buf
}

// LevelToString converts numeric levels to their display names
func LevelToString(level int64) string {
	switch level {
	case 0:
		return "TRACE"
	case 1:
		return "DEBUG"
	case 2:
		return "INFO"
	case 3:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", level)
	}
}

// spewConfig renders composite values inline, without addresses, so output
// stays stable across runs
var spewConfig = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Args joins values with single spaces. Safe for concurrent use.
func Args(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		writeValue(&sb, arg)
	}
	return sb.String()
}

func writeValue(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case string:
		sb.WriteString(val)
	case []byte:
		sb.Write(val)
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(val, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	case nil:
		sb.WriteString("<nil>")
	case time.Time:
		sb.WriteString(val.Format(time.RFC3339Nano))
	case error:
		sb.WriteString(val.Error())
	case fmt.Stringer:
		sb.WriteString(val.String())
	default:
		sb.WriteString(spewConfig.Sprintf("%+v", val))
	}
}
