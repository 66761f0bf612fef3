package value

import (
	"strconv"
	"strings"
)

// Format renders v in the language's literal syntax: strings are double
// quoted, timestamps are written as t'...' and objects list their keys in
// canonical order. Documentation examples are compared against this form.
func Format(v Value) string {
	var sb strings.Builder
	writeFormat(&sb, v)
	return sb.String()
}

func writeFormat(sb *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil, Null:
		sb.WriteString("null")
	case Boolean:
		sb.WriteString(strconv.FormatBool(bool(val)))
	case Integer:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
	case Bytes:
		sb.WriteString(strconv.Quote(string(val)))
	case Timestamp:
		sb.WriteString("t'")
		sb.WriteString(val.Time().Format(TimestampFormat))
		sb.WriteString("'")
	case Array:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeFormat(sb, elem)
		}
		sb.WriteByte(']')
	case Object:
		if len(val) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{ ")
		for i, k := range val.SortedKeys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			writeFormat(sb, val[k])
		}
		sb.WriteString(" }")
	}
}
