package component

import (
	"time"

	"patchwork.dev/launcher/pkg/meta"
)

// Index is the subset of meta.Index a Component needs: it is passed in
// rather than reached for globally, so components stay testable without
// a live metadata server.
type Index interface {
	HasUID(uid string) bool
	GetList(uid string) (meta.VersionList, error)
}

// Mutability is the set of flags a ComponentList assigns a Component,
// governing which list operations may act on it. Vanilla mirrors the
// component's source (true iff it was produced directly from the
// metadata index, with no user edits) and is kept as its own bit,
// separate from the movable/removable/revertible flags the owning list
// assigns explicitly, so revertToVanilla can gate on it directly instead
// of re-deriving it from uid.
type Mutability struct {
	Movable    bool
	Removable  bool
	Revertible bool
	Vanilla    bool
}

// Component is one entry in a component list: either a pointer at a
// remote meta version (remote set) or a locally authored version
// file (local set), never both. Which one it is decides its state
// in the applyTo/getVersionFile contract and the mutability flags its
// owning list assigns it.
type Component struct {
	uid      string
	filename string

	// remote, set when this component tracks a metadata-index version.
	remote  *meta.VersionHandle
	remoteF func(meta.VersionHandle) (*VersionFile, error) // decodes remote.Data lazily

	// local, set when this component carries its own patch file (either
	// because it was authored locally, or because it was customized away
	// from its remote base).
	local *VersionFile

	cachedName     string
	currentVersion string
	loaded         bool

	orderOverride bool
	order         int

	mut Mutability

	index Index
}

// NewRemote creates a component tracking a metadata-index version. It is
// vanilla by construction: it was produced directly from the metadata
// index, with no user edits. decode turns the version handle's raw Data
// into a VersionFile each time one is needed (the result is not cached);
// it is injected so this
// package has no direct JSON-shape dependency on the meta server's wire
// format.
func NewRemote(uid, filename string, version meta.VersionHandle, decode func(meta.VersionHandle) (*VersionFile, error), index Index) *Component {
	return &Component{
		uid:            uid,
		filename:       filename,
		remote:         &version,
		remoteF:        decode,
		cachedName:     version.Name,
		currentVersion: version.Version,
		loaded:         true,
		mut:            Mutability{Vanilla: true},
		index:          index,
	}
}

// NewLocal creates a component carrying its own version file: either a
// hand-authored patch, or the result of customize()/install*() detaching
// a component from its remote base. It is never vanilla: a local source
// always means some user edit produced it.
func NewLocal(uid string, file *VersionFile, filename string, index Index) *Component {
	c := &Component{
		uid:            uid,
		local:          file,
		filename:       filename,
		currentVersion: file.Version,
		cachedName:     file.Name,
		loaded:         true,
		index:          index,
	}
	return c
}

// NewUnloaded creates a component that only knows its uid and on-disk
// filename. It carries no source, so GetVersionFile always returns
// (nil, nil) for it; it is treated as vanilla.
func NewUnloaded(uid, filename string, index Index) *Component {
	return &Component{uid: uid, filename: filename, mut: Mutability{Vanilla: true}, index: index}
}

// ApplyTo merges this component's contribution into profile: the
// version file's contents if one is available, or just the fallback
// problem severity if loading/resolving failed.
func (c *Component) ApplyTo(profile ProfileTarget) error {
	vfile, err := c.GetVersionFile()
	if err != nil || vfile == nil {
		profile.ApplyProblemSeverity(c.ProblemSeverity())
		return nil
	}
	return vfile.ApplyTo(profile)
}

// ProfileTarget is the subset of launchprofile.LaunchProfile a version
// file needs to merge into, kept as an interface here to avoid an
// import cycle between component and launchprofile.
type ProfileTarget interface {
	ApplyProblemSeverity(Severity)
	MergeLibraries([]Library)
	AppendJarMods([]Library)
	SetMainJar(*Library)
	AppendGameArguments([]Argument)
	AppendJVMArguments([]Argument)
	AdoptAssetsIndex(*AssetsIndexRef)
	SetMainClass(string)
}

// GetVersionFile returns the version file this component currently
// resolves to: the local patch if this is a customized/local component,
// or the decoded remote version data otherwise. Returns (nil, nil) if
// nothing is loaded yet.
func (c *Component) GetVersionFile() (*VersionFile, error) {
	if c.local != nil {
		return c.local, nil
	}
	if c.remote != nil {
		return c.remoteF(*c.remote)
	}
	return nil, nil
}

// GetVersionList resolves this component's available versions from the
// metadata index, if the index knows its uid at all.
func (c *Component) GetVersionList() (meta.VersionList, error) {
	if c.index == nil || !c.index.HasUID(c.uid) {
		return nil, nil
	}
	return c.index.GetList(c.uid)
}

func (c *Component) Order() int {
	if c.orderOverride {
		return c.order
	}
	if vfile, err := c.GetVersionFile(); err == nil && vfile != nil {
		return vfile.Order
	}
	return 0
}

func (c *Component) SetOrder(order int) {
	c.orderOverride = true
	c.order = order
}

func (c *Component) UID() string { return c.uid }

func (c *Component) Name() string {
	if c.cachedName != "" {
		return c.cachedName
	}
	return c.uid
}

func (c *Component) Version() string {
	if c.remote != nil {
		return c.remote.Version
	}
	if vfile, err := c.GetVersionFile(); err == nil && vfile != nil {
		return vfile.Version
	}
	return c.currentVersion
}

func (c *Component) Filename() string { return c.filename }

func (c *Component) ReleaseTime() time.Time {
	var raw string
	if c.remote != nil {
		raw = c.remote.ReleaseTime
	} else if vfile, err := c.GetVersionFile(); err == nil && vfile != nil {
		raw = vfile.ReleaseTime
	}
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsCustom reports whether this component carries its own local version
// file rather than tracking a remote one.
func (c *Component) IsCustom() bool { return c.local != nil }

// IsCustomizable reports whether customize() can detach this component
// from its remote base: only possible if it has one and it resolves.
func (c *Component) IsCustomizable() bool {
	if c.remote == nil {
		return false
	}
	vfile, err := c.GetVersionFile()
	return err == nil && vfile != nil
}

func (c *Component) IsRemovable() bool  { return c.mut.Removable }
func (c *Component) IsRevertible() bool { return c.mut.Revertible }
func (c *Component) IsMoveable() bool   { return c.mut.Movable }

// IsVanilla reports whether this component was produced directly from
// the metadata index, with no user edits: never true for a component
// carrying its own local patch file.
func (c *Component) IsVanilla() bool { return c.mut.Vanilla }

// IsVersionChangeable reports whether the metadata index has more than
// zero versions on file for this component's uid.
func (c *Component) IsVersionChangeable() bool {
	list, err := c.GetVersionList()
	if err != nil || list == nil {
		return false
	}
	return len(list.Versions()) != 0
}

func (c *Component) SetRemovable(v bool)  { c.mut.Removable = v }
func (c *Component) SetRevertible(v bool) { c.mut.Revertible = v }
func (c *Component) SetMovable(v bool)    { c.mut.Movable = v }

// Mutability returns a copy of this component's current mutability
// flags, as assigned by its owning list.
func (c *Component) Mutability() Mutability { return c.mut }

// ProblemSeverity returns this component's effective problem severity:
// the version file's own, if it resolves, or Error if it has never
// loaded (nothing to merge, nothing to trust).
func (c *Component) ProblemSeverity() Severity {
	vfile, err := c.GetVersionFile()
	if err != nil || vfile == nil {
		return SeverityError
	}
	return vfile.ProblemSeverity()
}

// Problems returns this component's own problem list, or a single
// "not loaded yet" error if it has never resolved.
func (c *Component) Problems() []Problem {
	vfile, err := c.GetVersionFile()
	if err != nil || vfile == nil {
		return []Problem{{Severity: SeverityError, Message: "patch is not loaded yet"}}
	}
	return vfile.Problems
}

// ProblemSeverity returns the highest severity among this version
// file's own recorded problems.
func (v *VersionFile) ProblemSeverity() Severity {
	sev := SeverityNone
	for _, p := range v.Problems {
		sev = sev.Max(p.Severity)
	}
	return sev
}
