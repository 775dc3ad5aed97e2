package skills

import (
	"regexp"
	"strings"
	"time"
)

// Text helpers behind the assistant's lightweight skills. They are pure
// functions over the input text, no model calls involved.

var urduRe = regexp.MustCompile("[؀-ۿ]")

// DetectLanguage reports "ur" when the text contains Urdu script, "en" otherwise.
func DetectLanguage(text string) string {
	if urduRe.MatchString(text) {
		return "ur"
	}
	return "en"
}

var (
	highKeywords   = []string{"urgent", "asap", "immediate", "today", "critical", "important", "ضروری", "آج"}
	mediumKeywords = []string{"tomorrow", "week", "soon", "later", "کل"}
	lowKeywords    = []string{"someday", "maybe", "wish", "whenever", "کبھی"}
)

// SuggestPriority guesses a task priority from keywords in the text.
// Unrecognized text defaults to medium.
func SuggestPriority(text string) string {
	lower := strings.ToLower(text)
	for _, k := range highKeywords {
		if strings.Contains(lower, k) {
			return "high"
		}
	}
	for _, k := range mediumKeywords {
		if strings.Contains(lower, k) {
			return "medium"
		}
	}
	for _, k := range lowKeywords {
		if strings.Contains(lower, k) {
			return "low"
		}
	}
	return "medium"
}

// ParseReminder extracts a due date from simple time phrases. Returns nil
// when no phrase is recognized.
func ParseReminder(text string, now time.Time) *time.Time {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "tomorrow") || strings.Contains(lower, "کل") {
		t := now.AddDate(0, 0, 1)
		return &t
	}
	if strings.Contains(lower, "next week") {
		t := now.AddDate(0, 0, 7)
		return &t
	}
	return nil
}

const minimalPodBlueprint = `
apiVersion: v1
kind: Pod
metadata:
  name: minimal-pod
spec:
  containers:
  - name: nginx
    image: nginx:alpine
`

// DeploymentBlueprint returns a canned Kubernetes snippet by type.
func DeploymentBlueprint(kind string) string {
	lower := strings.ToLower(kind)
	if strings.Contains(lower, "minimal") {
		return minimalPodBlueprint
	}
	if strings.Contains(lower, "scale") {
		return "kubectl scale deployment frontend --replicas=3"
	}
	return "Available blueprints: minimal-pod, scale-deployment"
}
