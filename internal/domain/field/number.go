package field

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/agenda-app/server/internal/validation"
)

// Raw is an optional field whose JSON type is checked later.
type Raw = Optional[json.RawMessage]

// Int parses a JSON number or a numeric string sent under name.
// An absent, null or blank value reports name as required.
func Int(name string, o Raw) (int64, error) {
	raw, ok := o.Get()
	if !ok {
		return 0, validation.Error{Field: name, Message: "is required"}
	}

	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, validation.Error{Field: name, Message: "must be numeric"}
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return 0, validation.Error{Field: name, Message: "is required"}
		}
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, validation.Error{Field: name, Message: "must be numeric"}
	}
	return value, nil
}

// IntOr parses like Int but returns fallback when the key is absent, null or blank.
func IntOr(name string, o Raw, fallback int64) (int64, error) {
	raw, ok := o.Get()
	if !ok || strings.TrimSpace(string(raw)) == `""` {
		return fallback, nil
	}
	return Int(name, o)
}
