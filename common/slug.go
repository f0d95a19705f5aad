package common

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")

	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	disallowed   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
	slugPattern  = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Slugify derives a clean slug from free-form input, falling back to the given
// default when the input collapses to nothing. Used server-side when a company
// slug is derived from a display name.
func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func slugify(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

// NormalizeSlug rewrites arbitrary input into the slug alphabet: lowercased,
// characters outside [a-z0-9-] replaced with '-', runs of '-' collapsed to one.
// Unlike Slugify it never trims hyphens, so the result tracks what the user is
// typing ("My  Co!!" becomes "my-co-").
func NormalizeSlug(s string) string {
	lower := strings.ToLower(s)
	replaced := disallowed.ReplaceAllString(lower, "-")
	return hyphenRuns.ReplaceAllString(replaced, "-")
}

// ValidSlug reports whether s is a well-formed slug: non-empty, only lowercase
// letters, digits and hyphens.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
