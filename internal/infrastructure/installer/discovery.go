// Package installer locates the Cinema 4D plugins directory and deploys the
// bridge plugin artifact into it.
package installer

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Candidate pairs a Cinema 4D release identifier with the plugins directory
// that release would use on this machine.
type Candidate struct {
	Release string
	Path    string
}

// knownReleases lists the releases the bridge plugin supports. Order here
// does not matter; Candidates sorts newest-first before probing.
var knownReleases = []string{
	"2025.0",
	"2025.1",
	"2025.2",
	"2025.3",
	"2026.0",
	"2026.1",
	"2026.2",
}

// Releases returns the supported release identifiers, newest first.
func Releases() []string {
	out := append([]string(nil), knownReleases...)
	sort.Slice(out, func(i, j int) bool {
		vi, erri := semver.NewVersion(out[i])
		vj, errj := semver.NewVersion(out[j])
		if erri != nil || errj != nil {
			return out[i] > out[j]
		}
		return vi.GreaterThan(vj)
	})
	return out
}

// Candidates returns one probe path per supported release, newest release
// first, rooted under the platform's Maxon preferences location.
//
//	windows: %APPDATA%\Maxon\Cinema 4D <release>\plugins
//	darwin:  ~/Library/Preferences/Maxon/Cinema 4D <release>/plugins
//	other:   ~/.maxon/Cinema 4D <release>/plugins
func Candidates(goos, home, appData string) []Candidate {
	root := preferencesRoot(goos, home, appData)

	releases := Releases()
	out := make([]Candidate, 0, len(releases))
	for _, release := range releases {
		out = append(out, Candidate{
			Release: release,
			Path:    filepath.Join(root, "Cinema 4D "+release, "plugins"),
		})
	}
	return out
}

func preferencesRoot(goos, home, appData string) string {
	switch goos {
	case "windows":
		return filepath.Join(appData, "Maxon")
	case "darwin":
		return filepath.Join(home, "Library", "Preferences", "Maxon")
	default:
		return filepath.Join(home, ".maxon")
	}
}

// Discover probes the candidates in order and returns the first whose
// directory exists. Multiple matches never combine; the newest release wins.
func Discover(candidates []Candidate) (Candidate, bool) {
	for _, c := range candidates {
		info, err := os.Stat(c.Path)
		if err == nil && info.IsDir() {
			return c, true
		}
	}
	return Candidate{}, false
}
