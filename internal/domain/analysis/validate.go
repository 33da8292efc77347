package analysis

import (
	"strings"
	"unicode/utf8"
)

// ValidateIdea checks the trimmed idea length.
func ValidateIdea(idea string) error {
	if utf8.RuneCountInString(strings.TrimSpace(idea)) < MinIdeaLength {
		return &ValidationError{Message: ideaRequirement}
	}
	return nil
}
