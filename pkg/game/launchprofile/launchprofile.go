// Package launchprofile implements the merge accumulator that a
// component list folds its components into: the single in-memory
// launch configuration a game folder is ultimately built from.
package launchprofile

import (
	"time"

	"patchwork.dev/launcher/pkg/game/component"
)

// LaunchProfile accumulates the effect of applying every component in a
// component list, in order. It has no persistence of its own: it is
// rebuilt from scratch (ReapplyPatches) whenever the component list
// changes.
type LaunchProfile struct {
	libraries   []component.Library
	libraryKeys map[string]int // group:artifact -> index into libraries

	jarMods []component.Library

	mainJar *component.Library

	gameArguments []component.Argument
	jvmArguments  []component.Argument

	assetsIndex         *component.AssetsIndexRef
	assetsReleaseTime    time.Time
	mainClass            string

	problemSeverity component.Severity
}

// New returns an empty accumulator, ready for components to be applied
// to it in order.
func New() *LaunchProfile {
	return &LaunchProfile{libraryKeys: make(map[string]int)}
}

// MergeLibraries appends libs, deduplicating by group:artifact. When two
// libraries share a group:artifact, the later one (by merge order) wins
// and replaces the earlier entry in place, so library order in the
// final profile still reflects first-seen position.
func (p *LaunchProfile) MergeLibraries(libs []component.Library) {
	for _, lib := range libs {
		key := lib.Name.GroupArtifact()
		if idx, ok := p.libraryKeys[key]; ok {
			p.libraries[idx] = lib
			continue
		}
		p.libraryKeys[key] = len(p.libraries)
		p.libraries = append(p.libraries, lib)
	}
}

// AppendJarMods appends mods in declared order. Jar mods have no
// group:artifact identity worth deduplicating on: MultiMC-style jar mods
// are each given a unique synthetic uid at install time.
func (p *LaunchProfile) AppendJarMods(mods []component.Library) {
	p.jarMods = append(p.jarMods, mods...)
}

// SetMainJar replaces the profile's main jar: last writer wins, matching
// the order components are applied in.
func (p *LaunchProfile) SetMainJar(jar *component.Library) {
	p.mainJar = jar
}

func (p *LaunchProfile) AppendGameArguments(args []component.Argument) {
	p.gameArguments = append(p.gameArguments, args...)
}

func (p *LaunchProfile) AppendJVMArguments(args []component.Argument) {
	p.jvmArguments = append(p.jvmArguments, args...)
}

// AdoptAssetsIndex replaces the profile's assets index only if ref is
// newer than whichever index is currently adopted (or if none is
// adopted yet). A ref with an unparsable or empty release time is
// adopted only when nothing has been adopted at all.
func (p *LaunchProfile) AdoptAssetsIndex(ref *component.AssetsIndexRef) {
	if ref == nil {
		return
	}
	t, err := time.Parse(time.RFC3339, ref.ReleaseTime)
	if p.assetsIndex == nil {
		p.assetsIndex = ref
		if err == nil {
			p.assetsReleaseTime = t
		}
		return
	}
	if err == nil && t.After(p.assetsReleaseTime) {
		p.assetsIndex = ref
		p.assetsReleaseTime = t
	}
}

func (p *LaunchProfile) SetMainClass(class string) {
	if class != "" {
		p.mainClass = class
	}
}

// ApplyProblemSeverity folds sev into the profile's running maximum
// problem severity across every component applied so far.
func (p *LaunchProfile) ApplyProblemSeverity(sev component.Severity) {
	p.problemSeverity = p.problemSeverity.Max(sev)
}

func (p *LaunchProfile) Libraries() []component.Library        { return p.libraries }
func (p *LaunchProfile) JarMods() []component.Library          { return p.jarMods }
func (p *LaunchProfile) MainJar() *component.Library           { return p.mainJar }
func (p *LaunchProfile) GameArguments() []component.Argument   { return p.gameArguments }
func (p *LaunchProfile) JVMArguments() []component.Argument    { return p.jvmArguments }
func (p *LaunchProfile) AssetsIndex() *component.AssetsIndexRef { return p.assetsIndex }
func (p *LaunchProfile) MainClass() string                     { return p.mainClass }
func (p *LaunchProfile) ProblemSeverity() component.Severity    { return p.problemSeverity }
