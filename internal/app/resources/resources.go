// Package resources holds assets embedded into the binary.
package resources

import (
	"embed"
)

// FS holds the embedded data files.
//
//go:embed data/*.yaml
var FS embed.FS

// ProfilesFile is the path of the built-in profile catalog inside FS.
const ProfilesFile = "data/profiles.yaml"

// Profiles returns the raw YAML of the built-in profile catalog.
func Profiles() ([]byte, error) {
	return FS.ReadFile(ProfilesFile)
}
