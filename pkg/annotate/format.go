package annotate

import(
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrAnnotationFormat = errors.New("bad annotation format")

// A Row is anything with named fields: a simulated object, or a detection.
type Row interface {
	Field(name string) (interface{}, bool)
}

// %(name)[flags][width][.precision]conversion
var fieldSpec = regexp.MustCompile(`^%\(([^)]*)\)([-+ 0#]*)(\d*)(?:\.(\d+))?([diouxXeEfFgGsr])`)

// Format interpolates a printf-style string whose directives name row
// fields, e.g. "id %(db_id)d, snr %(snr).1f". Every directive must name a
// field; `%%` is a literal percent.
func Format(format string, row Row) (string, error) {
	var sb strings.Builder

	for i:=0; i<len(format); {
		if format[i] != '%' {
			sb.WriteByte(format[i])
			i++
			continue
		}
		if strings.HasPrefix(format[i:], "%%") {
			sb.WriteByte('%')
			i += 2
			continue
		}

		m := fieldSpec.FindStringSubmatch(format[i:])
		if m == nil {
			return "", fmt.Errorf("%q, offset %d: %w", format, i, ErrAnnotationFormat)
		}
		name, flags, width, prec, conv := m[1], m[2], m[3], m[4], m[5]

		val, exists := row.Field(name)
		if !exists {
			return "", fmt.Errorf("%q: no field '%s': %w", format, name, ErrAnnotationFormat)
		}

		verb := "%" + flags + width
		if prec != "" {
			verb += "." + prec
		}
		s, err := formatValue(verb, conv, val)
		if err != nil {
			return "", fmt.Errorf("%q, field '%s': %v: %w", format, name, err, ErrAnnotationFormat)
		}
		sb.WriteString(s)
		i += len(m[0])
	}

	return sb.String(), nil
}

func formatValue(verb, conv string, val interface{}) (string, error) {
	var f float64
	var n int64
	isInt := false
	switch v := val.(type) {
	case int64:   n, f, isInt = v, float64(v), true
	case int:     n, f, isInt = int64(v), float64(v), true
	case float64: n, f = int64(v), v
	default:
		return "", fmt.Errorf("unsupported type %T", val)
	}

	switch conv {
	case "d", "i", "u":
		return fmt.Sprintf(verb+"d", n), nil
	case "o", "x", "X":
		return fmt.Sprintf(verb+conv, n), nil
	case "e", "E", "f", "F", "g", "G":
		return fmt.Sprintf(verb+conv, f), nil
	case "s", "r":
		str := floatString(f)
		if isInt {
			str = strconv.FormatInt(n, 10)
		}
		return fmt.Sprintf(verb+"s", str), nil
	}
	return "", fmt.Errorf("unknown conversion '%s'", conv)
}

// floatString renders a float the way a casual reader expects: shortest
// round-trip digits, always with a decimal point.
func floatString(f float64) string {
	switch {
	case math.IsNaN(f):   return "nan"
	case math.IsInf(f, 1):  return "inf"
	case math.IsInf(f, -1): return "-inf"
	}
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Unescape expands the backslash escapes a user can type on a command
// line: \n, \t and \\.
func Unescape(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t").Replace(s)
}
