package pack

import "fmt"

// Key returns the canonical storage key for a pack artifact. Every storage
// backend and the upstream marketplace address packs with this exact layout,
// so it must not change.
func Key(id, version string) string {
	return fmt.Sprintf("content/packs/%s/%s/%s.zip", id, version, id)
}

// Prefix returns the listing prefix under which all versions of a pack are
// stored. Version directories are the immediate children of this prefix.
func Prefix(id string) string {
	return fmt.Sprintf("content/packs/%s/", id)
}

// Installed is a snapshot of one installed pack as reported by the platform.
// Records are immutable once fetched.
type Installed struct {
	ID              string   `json:"id"`
	CurrentVersion  string   `json:"currentVersion"`
	Author          string   `json:"author"`
	UpdateAvailable bool     `json:"updateAvailable"`
	Changelog       []string `json:"changelog"`
}

// Outdated is one entry of an outdated-pack report: an installed pack whose
// available version exceeds the installed one.
type Outdated struct {
	ID             string `json:"id"`
	CurrentVersion string `json:"currentVersion"`
	Latest         string `json:"latest"`
	Author         string `json:"author"`
}
