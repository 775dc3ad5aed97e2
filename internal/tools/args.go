package tools

// Args holds a tool call's decoded JSON arguments. Numbers arrive as
// float64 per encoding/json, so the accessors normalize types.
type Args map[string]any

// String returns a string argument or "".
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// StringOr returns a string argument or def when absent or empty.
func (a Args) StringOr(key, def string) string {
	if s := a.String(key); s != "" {
		return s
	}
	return def
}

// Int64 returns an integer argument. ok is false when absent or not numeric.
func (a Args) Int64(key string) (int64, bool) {
	switch v := a[key].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// IntOr returns an integer argument or def.
func (a Args) IntOr(key string, def int) int {
	if v, ok := a.Int64(key); ok {
		return int(v)
	}
	return def
}

// BoolOr returns a boolean argument or def.
func (a Args) BoolOr(key string, def bool) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return def
}

// Int64s returns an integer-array argument, skipping non-numeric elements.
func (a Args) Int64s(key string) []int64 {
	raw, _ := a[key].([]any)
	var out []int64
	for _, v := range raw {
		switch n := v.(type) {
		case float64:
			out = append(out, int64(n))
		case int:
			out = append(out, int64(n))
		case int64:
			out = append(out, n)
		}
	}
	return out
}

// Strings returns a string-array argument, skipping non-string elements.
func (a Args) Strings(key string) []string {
	raw, _ := a[key].([]any)
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether the key was provided at all, distinguishing an
// explicit value from an omitted field on partial updates.
func (a Args) Has(key string) bool {
	_, ok := a[key]
	return ok
}
