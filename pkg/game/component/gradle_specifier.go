package component

import (
	"fmt"
	"strings"
)

// GradleSpecifier identifies a library artifact the way Gradle/Maven
// coordinates do: group:artifact:version, with an optional classifier
// and an optional extension (jar if absent).
type GradleSpecifier struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Extension  string
}

// ParseGradleSpecifier parses "group:artifact:version[:classifier][@ext]".
func ParseGradleSpecifier(s string) (GradleSpecifier, error) {
	ext := "jar"
	if idx := strings.LastIndex(s, "@"); idx != -1 {
		ext = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return GradleSpecifier{}, fmt.Errorf("component: invalid gradle specifier %q", s)
	}

	spec := GradleSpecifier{
		Group:     parts[0],
		Artifact:  parts[1],
		Version:   parts[2],
		Extension: ext,
	}
	if len(parts) == 4 {
		spec.Classifier = parts[3]
	}
	return spec, nil
}

// GroupArtifact is the dedup key used when merging libraries into a
// launch profile: two libraries with the same group:artifact conflict
// regardless of version.
func (g GradleSpecifier) GroupArtifact() string {
	return g.Group + ":" + g.Artifact
}

func (g GradleSpecifier) String() string {
	s := fmt.Sprintf("%s:%s:%s", g.Group, g.Artifact, g.Version)
	if g.Classifier != "" {
		s += ":" + g.Classifier
	}
	if g.Extension != "" && g.Extension != "jar" {
		s += "@" + g.Extension
	}
	return s
}

// MavenPath is the path the specifier maps to under a maven-layout repo:
// group/artifact/version/artifact-version[-classifier].ext, group dots
// turned into slashes.
func (g GradleSpecifier) MavenPath() string {
	groupPath := strings.ReplaceAll(g.Group, ".", "/")
	ext := g.Extension
	if ext == "" {
		ext = "jar"
	}
	file := fmt.Sprintf("%s-%s", g.Artifact, g.Version)
	if g.Classifier != "" {
		file += "-" + g.Classifier
	}
	file += "." + ext
	return fmt.Sprintf("%s/%s/%s/%s", groupPath, g.Artifact, g.Version, file)
}
