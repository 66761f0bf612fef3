package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null{}, "null"},
		{"boolean", Boolean(false), "false"},
		{"integer", Integer(946684800), "946684800"},
		{"float", Float(2.5), "2.5"},
		{"bytes", Bytes(`say "hi"`), `"say \"hi\""`},
		{"timestamp", NewTimestamp(ts), "t'2021-01-01T00:00:00Z'"},
		{"array", Array{Integer(1), Bytes("a")}, `[1, "a"]`},
		{"empty object", Object{}, "{}"},
		{"object", Object{"b": Integer(2), "a": Integer(1)}, `{ "a": 1, "b": 2 }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.v))
		})
	}
}
