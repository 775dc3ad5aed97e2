package llm

import "strings"

// isRateLimited reports whether an error looks like a quota or rate limit
// response. Providers surface these differently, so we classify by substring.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(strings.ToLower(err.Error()),
		"429",
		"rate",
		"quota",
	)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
