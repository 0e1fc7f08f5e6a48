package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// MaxSlugCandidates bounds how many suffixed candidates UniqueSlug will try
// before giving up.
const MaxSlugCandidates = 1000

// reservedSlugs are path segments the API routes under /api/deals itself, so
// a deal with one of these slugs could never be fetched.
var reservedSlugs = map[string]bool{
	"search": true,
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug derives a URL-safe slug from a title: lower-cased, every run
// of characters outside [a-z0-9] collapsed to a single hyphen, and leading or
// trailing hyphens trimmed. A title with no ASCII letters or digits yields "".
//
//	GenerateSlug("Amazing Beach Trip!") // "amazing-beach-trip"
func GenerateSlug(title string) string {
	s := nonAlnumRun.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// SlugExistsFunc reports whether a slug is already in use.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// UniqueSlug returns the first candidate for title that exists reports as
// free. Candidates are the base slug, then base-1, base-2, and so on; the
// suffix is always appended to the base, never to a previous candidate.
// Reserved route words are treated as taken.
func UniqueSlug(ctx context.Context, exists SlugExistsFunc, title string) (string, error) {
	base := GenerateSlug(title)
	if base == "" {
		return "", fmt.Errorf("service.UniqueSlug: title %q has no letters or digits", title)
	}

	candidate := base
	for n := 1; n <= MaxSlugCandidates; n++ {
		if reservedSlugs[candidate] {
			candidate = fmt.Sprintf("%s-%d", base, n)
			continue
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("service.UniqueSlug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("service.UniqueSlug: no free slug for %q after %d candidates", base, MaxSlugCandidates)
}
