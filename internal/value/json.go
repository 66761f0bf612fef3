package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// UnmarshalValue decodes a JSON document into a Value.
//
// Numbers written without a fraction or exponent become Integer when they
// fit in int64; every other number becomes Float. JSON null becomes Null.
// Strings stay strings: JSON has no timestamp type.
func UnmarshalValue(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON: %.40q", data)
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

// UnmarshalObject decodes a JSON document that must be an object.
func UnmarshalObject(data []byte) (Object, error) {
	v, err := UnmarshalValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, &CoercionError{Want: KindObject, Got: KindOf(v)}
	}
	return obj, nil
}

// fromResult converts a parsed gjson result into a Value.
func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Boolean(false)
	case gjson.True:
		return Boolean(true)
	case gjson.String:
		return Bytes(r.Str)
	case gjson.Number:
		raw := strings.TrimSpace(r.Raw)
		if !strings.ContainsAny(raw, ".eE") {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return Integer(n)
			}
		}
		return Float(r.Num)
	case gjson.JSON:
		if r.IsArray() {
			arr := Array{}
			r.ForEach(func(_, elem gjson.Result) bool {
				arr = append(arr, fromResult(elem))
				return true
			})
			return arr
		}
		obj := Object{}
		r.ForEach(func(key, elem gjson.Result) bool {
			obj[key.String()] = fromResult(elem)
			return true
		})
		return obj
	default:
		return Null{}
	}
}
