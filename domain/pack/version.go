// Package pack provides domain models for content packs and their versioning.
package pack

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed dot-separated version, e.g. "1.4.12" -> [1 4 12].
// Versions are totally ordered by component-wise numeric comparison with
// missing trailing components treated as zero, so "1.2" equals "1.2.0".
type Version []int

// ParseVersion parses a dot-separated version string into a Version.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformedVersion)
	}

	segments := strings.Split(s, ".")
	v := make(Version, 0, len(segments))
	for _, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
		v = append(v, n)
	}
	return v, nil
}

// CompareVersions compares two parsed versions, returning -1, 0, or 1.
// The shorter version is zero-padded for comparison.
func CompareVersions(a, b Version) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		switch {
		case av > bv:
			return 1
		case av < bv:
			return -1
		}
	}
	return 0
}

// MaxByVersion returns the element of versions whose parsed value is maximal.
// The first occurrence wins on ties.
func MaxByVersion(versions []string) (string, error) {
	if len(versions) == 0 {
		return "", ErrEmptyVersionList
	}

	best := versions[0]
	bestParsed, err := ParseVersion(best)
	if err != nil {
		return "", err
	}

	for _, s := range versions[1:] {
		parsed, err := ParseVersion(s)
		if err != nil {
			return "", err
		}
		if CompareVersions(parsed, bestParsed) > 0 {
			best = s
			bestParsed = parsed
		}
	}
	return best, nil
}

// String returns the canonical dot-separated form.
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}
