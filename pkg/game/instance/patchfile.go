package instance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/utils"
)

// patchLibrary is the on-disk shape of a component.Library: the gradle
// specifier flattened to its string form plus hint and source url.
type patchLibrary struct {
	Name string `json:"name"`
	Hint string `json:"hint,omitempty"`
	URL  string `json:"url,omitempty"`
}

func (l patchLibrary) toLibrary() (component.Library, error) {
	spec, err := component.ParseGradleSpecifier(l.Name)
	if err != nil {
		return component.Library{}, err
	}
	return component.Library{Name: spec, Hint: l.Hint, SourceURL: l.URL}, nil
}

func fromLibrary(l component.Library) patchLibrary {
	return patchLibrary{Name: l.Name.String(), Hint: l.Hint, URL: l.SourceURL}
}

type patchRequirement struct {
	UID     string `json:"uid"`
	Equals  string `json:"equals,omitempty"`
	Suggest string `json:"suggests,omitempty"`
}

func (r patchRequirement) toRequirement() component.Requirement {
	return component.Requirement{UID: r.UID, Equals: r.Equals, Suggest: r.Suggest}
}

func fromRequirement(r component.Requirement) patchRequirement {
	return patchRequirement{UID: r.UID, Equals: r.Equals, Suggest: r.Suggest}
}

type patchAssetsIndex struct {
	ID          string `json:"id"`
	ReleaseTime string `json:"releaseTime,omitempty"`
}

// patchFile is the on-disk shape of patches/<uid>.json: the fields this
// engine reads and writes back unchanged when customising a component.
// The schema itself is owned externally; this is only the subset the
// component list engine round-trips.
type patchFile struct {
	UID         string             `json:"uid"`
	Version     string             `json:"version"`
	Name        string             `json:"name,omitempty"`
	Order       int                `json:"order"`
	ReleaseTime string             `json:"releaseTime,omitempty"`
	Requires    []patchRequirement `json:"requires,omitempty"`
	Conflicts   []patchRequirement `json:"conflictsWith,omitempty"`

	Libraries []patchLibrary `json:"libraries,omitempty"`
	JarMods   []patchLibrary `json:"jarMods,omitempty"`
	MainJar   *patchLibrary  `json:"mainJar,omitempty"`

	GameArguments []string `json:"+tweakers,omitempty"`
	JVMArguments  []string `json:"jvmArgs,omitempty"`

	AssetsIndex *patchAssetsIndex `json:"assetsIndex,omitempty"`
	MainClass   string            `json:"mainClass,omitempty"`
}

func patchFileFromVersionFile(v *component.VersionFile) *patchFile {
	pf := &patchFile{
		UID:         v.UID,
		Version:     v.Version,
		Name:        v.Name,
		Order:       v.Order,
		ReleaseTime: v.ReleaseTime,
		MainClass:   v.MainClass,
	}
	for _, r := range v.Requires {
		pf.Requires = append(pf.Requires, fromRequirement(r))
	}
	for _, r := range v.ConflictsWith {
		pf.Conflicts = append(pf.Conflicts, fromRequirement(r))
	}
	for _, l := range v.Libraries {
		pf.Libraries = append(pf.Libraries, fromLibrary(l))
	}
	for _, l := range v.JarMods {
		pf.JarMods = append(pf.JarMods, fromLibrary(l))
	}
	if v.MainJar != nil {
		lib := fromLibrary(*v.MainJar)
		pf.MainJar = &lib
	}
	for _, a := range v.GameArguments {
		pf.GameArguments = append(pf.GameArguments, a.Value)
	}
	for _, a := range v.JVMArguments {
		pf.JVMArguments = append(pf.JVMArguments, a.Value)
	}
	if v.AssetsIndex != nil {
		pf.AssetsIndex = &patchAssetsIndex{ID: v.AssetsIndex.ID, ReleaseTime: v.AssetsIndex.ReleaseTime}
	}
	return pf
}

func (pf *patchFile) toVersionFile() (*component.VersionFile, []component.Problem) {
	var problems []component.Problem

	vfile := &component.VersionFile{
		UID:         pf.UID,
		Version:     pf.Version,
		Name:        pf.Name,
		Order:       pf.Order,
		ReleaseTime: pf.ReleaseTime,
		MainClass:   pf.MainClass,
	}
	for _, r := range pf.Requires {
		vfile.Requires = append(vfile.Requires, r.toRequirement())
	}
	for _, r := range pf.Conflicts {
		vfile.ConflictsWith = append(vfile.ConflictsWith, r.toRequirement())
	}
	for _, l := range pf.Libraries {
		lib, err := l.toLibrary()
		if err != nil {
			problems = append(problems, component.Problem{Severity: component.SeverityWarning, Message: fmt.Sprintf("skipping library %q: %v", l.Name, err)})
			continue
		}
		vfile.Libraries = append(vfile.Libraries, lib)
	}
	for _, l := range pf.JarMods {
		lib, err := l.toLibrary()
		if err != nil {
			problems = append(problems, component.Problem{Severity: component.SeverityWarning, Message: fmt.Sprintf("skipping jar mod %q: %v", l.Name, err)})
			continue
		}
		vfile.JarMods = append(vfile.JarMods, lib)
	}
	if pf.MainJar != nil {
		lib, err := pf.MainJar.toLibrary()
		if err != nil {
			problems = append(problems, component.Problem{Severity: component.SeverityError, Message: fmt.Sprintf("invalid main jar: %v", err)})
		} else {
			vfile.MainJar = &lib
		}
	}
	for _, a := range pf.GameArguments {
		vfile.GameArguments = append(vfile.GameArguments, component.Argument{Value: a})
	}
	for _, a := range pf.JVMArguments {
		vfile.JVMArguments = append(vfile.JVMArguments, component.Argument{Value: a})
	}
	if pf.AssetsIndex != nil {
		vfile.AssetsIndex = &component.AssetsIndexRef{ID: pf.AssetsIndex.ID, ReleaseTime: pf.AssetsIndex.ReleaseTime}
	}
	vfile.Problems = problems
	return vfile, problems
}

// loadPatchFile reads and decodes patches/<uid>.json. A malformed file
// yields a VersionFile with a single Error problem and a nil error; a
// missing or unreadable file returns the read error, which instantiate
// turns into the same kind of single-Error component rather than a failed
// list load.
func loadPatchFile(root, uid string) (*component.VersionFile, error) {
	data, err := os.ReadFile(patchPath(root, uid))
	if err != nil {
		return nil, err
	}

	var pf patchFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return &component.VersionFile{
			UID:      uid,
			Problems: []component.Problem{{Severity: component.SeverityError, Message: fmt.Sprintf("malformed patch file: %v", err)}},
		}, nil
	}

	vfile, _ := pf.toVersionFile()
	return vfile, nil
}

// savePatchFile writes v back to patches/<uid>.json atomically: write to
// a temp file, fsync it, then rename over the destination.
func savePatchFile(root string, v *component.VersionFile) error {
	dst := patchPath(root, v.UID)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("instance: mkdir patches dir: %w", err)
	}

	pf := patchFileFromVersionFile(v)
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("instance: marshal patch file: %w", err)
	}

	tmp := dst + ".tmp"
	if err := utils.WriteFileSync(tmp, data, 0o644); err != nil {
		return fmt.Errorf("instance: write temp patch file: %w", err)
	}
	return os.Rename(tmp, dst)
}

func hasPatchFile(root, uid string) bool {
	_, err := os.Stat(patchPath(root, uid))
	return err == nil
}

func removePatchFile(root, uid string) error {
	err := os.Remove(patchPath(root, uid))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
