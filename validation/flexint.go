package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string. Set reports whether
// the field was present and non-null; Valid reports whether it parsed.
type FlexInt struct {
	Value int
	Set   bool
	Valid bool
}

// Int is a convenience constructor for a present, valid value.
func Int(v int) FlexInt {
	return FlexInt{Value: v, Set: true, Valid: true}
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexInt{}
		return nil
	}
	f.Set = true

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = FlexInt{}
			return nil
		}
	} else {
		raw = string(data)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	if fl, err := strconv.ParseFloat(raw, 64); err == nil {
		f.Value, f.Valid = int(fl), true
		return nil
	}
	f.Value, f.Valid = 0, false
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%d", f.Value)), nil
}
