package folder

import (
	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/game/launchprofile"
)

// FromLaunchProfile builds a download Manifest from a resolved launch
// profile: the seam between the component list engine and the folder
// builder/generator pipeline that actually fetches libraries, assets
// and the runtime. It carries over only what the component list itself
// resolved: main class, arguments, assets index id, and one "libraries"
// file entry per library, jar mod and main jar, in merge order. Those
// entries carry a path only (no checksum or size); assets and runtime
// files are not listed (those come from the vanilla/fabric generators).
func FromLaunchProfile(profile *launchprofile.LaunchProfile, mcVersion string) Manifest {
	m := Manifest{
		MainClass:  profile.MainClass(),
		McVersion:  mcVersion,
		Arguments:  argumentsFromProfile(profile),
		AssetIndex: assetsIndexIDFromProfile(profile),
	}

	for _, lib := range profile.Libraries() {
		m.Files = append(m.Files, libraryFile(lib))
	}
	for _, mod := range profile.JarMods() {
		m.Files = append(m.Files, libraryFile(mod))
	}
	if jar := profile.MainJar(); jar != nil {
		m.Files = append(m.Files, libraryFile(*jar))
	}

	return m
}

func libraryFile(lib component.Library) FolderFile {
	path := lib.SourceURL
	if lib.Hint != "local" {
		path = lib.Name.MavenPath()
	}
	return FolderFile{
		Path: path,
		Type: "libraries",
	}
}

func argumentsFromProfile(profile *launchprofile.LaunchProfile) ManifestArguments {
	return ManifestArguments{
		Game: anySlice(profile.GameArguments()),
		JVM:  anySlice(profile.JVMArguments()),
	}
}

func anySlice(args []component.Argument) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		out = append(out, a.Value)
	}
	return out
}

func assetsIndexIDFromProfile(profile *launchprofile.LaunchProfile) string {
	if ref := profile.AssetsIndex(); ref != nil {
		return ref.ID
	}
	return ""
}

// ProblemSummary renders the profile's aggregate problem severity as a
// short diagnostic string, suitable for a CLI status line.
func ProblemSummary(profile *launchprofile.LaunchProfile) string {
	switch profile.ProblemSeverity() {
	case component.SeverityError:
		return "error"
	case component.SeverityWarning:
		return "warning"
	default:
		return "ok"
	}
}
