// Package instance implements the component list engine: the ordered,
// persisted collection of components that make up a single Minecraft
// instance, and the operations (append, remove, move, customize,
// revert, jar-mod and custom-jar install) that mutate it.
package instance

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/game/launchprofile"
	"patchwork.dev/launcher/pkg/meta"
	"patchwork.dev/launcher/pkg/utils"
)

// saveDebounce is a var, not a const, so whitebox tests can shorten it
// rather than waiting out the real debounce window.
var saveDebounce = 5 * time.Second

// builtinNetMinecraft and builtinOrgLwjgl are the two components every
// instance always carries, seeded at fixed orders by the legacy
// migrator; instantiate always marks them non-removable and non-movable
// regardless of source.
const (
	builtinNetMinecraft = "net.minecraft"
	builtinOrgLwjgl     = "org.lwjgl"
)

// Direction is the argument to Move: a component trades places with its
// neighbour in that direction.
type Direction int

const (
	Up Direction = iota
	Down
)

// Observer receives row-model notifications. Implementations may wire
// this into a GUI table model, a log line, or nothing at all.
type Observer interface {
	Reset()
	RowInserted(row int)
	RowRemoved(row int)
	RowMoved(from, to int)
}

// NopObserver discards every notification. It is the default observer
// for a list constructed without one.
type NopObserver struct{}

func (NopObserver) Reset()                {}
func (NopObserver) RowInserted(int)       {}
func (NopObserver) RowRemoved(int)        {}
func (NopObserver) RowMoved(from, to int) {}

// ComponentList is the ordered collection of components belonging to a
// single instance, together with its persisted manifest, its debounced
// save scheduler and the most recently resolved launch profile.
type ComponentList struct {
	root  string
	index meta.Index

	mu         sync.Mutex
	components []*component.Component
	byUID      map[string]*component.Component

	dirty    bool
	timer    *time.Timer
	observer Observer

	profile *launchprofile.LaunchProfile
}

// New returns an empty, unloaded component list rooted at root. Call
// Load to populate it from disk (migrating a legacy layout first, if
// needed).
func New(root string, index meta.Index) *ComponentList {
	return &ComponentList{
		root:     root,
		index:    index,
		byUID:    make(map[string]*component.Component),
		observer: NopObserver{},
		profile:  launchprofile.New(),
	}
}

// SetObserver installs the row-model notification sink. Pass nil to go
// back to discarding notifications.
func (l *ComponentList) SetObserver(o Observer) {
	if o == nil {
		o = NopObserver{}
	}
	l.observer = o
}

// Profile returns the most recently resolved launch profile. It is
// rebuilt from scratch by every structural mutation and by ReapplyPatches.
func (l *ComponentList) Profile() *launchprofile.LaunchProfile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profile
}

// Components returns a snapshot of the list's components in order.
// Mutating the returned slice does not affect the list.
func (l *ComponentList) Components() []*component.Component {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*component.Component, len(l.components))
	copy(out, l.components)
	return out
}

func (l *ComponentList) decodeRemote(v meta.VersionHandle) (*component.VersionFile, error) {
	if v.Data == nil {
		return nil, fmt.Errorf("instance: remote version %s/%s has no data loaded", v.UID, v.Version)
	}
	var pf patchFile
	if err := json.Unmarshal(v.Data, &pf); err != nil {
		return nil, fmt.Errorf("instance: decode remote version %s/%s: %w", v.UID, v.Version, err)
	}
	vfile, _ := pf.toVersionFile()
	return vfile, nil
}

// indexAdapter narrows meta.Index down to the component.Index interface
// components are constructed with.
type indexAdapter struct{ meta.Index }

func (a indexAdapter) GetList(uid string) (meta.VersionList, error) { return a.Index.GetList(uid) }

// componentIndex wraps l.index for component construction, returning a
// true nil component.Index (not a non-nil wrapper around a nil
// interface) when no metadata index is configured.
func (l *ComponentList) componentIndex() component.Index {
	if l.index == nil {
		return nil
	}
	return indexAdapter{l.index}
}

// Load reads the manifest at <root>/mmc-pack.json, instantiating a
// Component per entry. If the manifest is missing, the caller is
// responsible for running the legacy migrator first (see package
// migrator) and calling Load again; Load itself never migrates.
func (l *ComponentList) Load() error {
	m, err := readManifest(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		log.Printf("[instance] manifest load failed, starting empty: %v", err)
		l.mu.Lock()
		l.components = nil
		l.byUID = make(map[string]*component.Component)
		l.dirty = false
		l.mu.Unlock()
		l.observer.Reset()
		return nil
	}

	components := make([]*component.Component, 0, len(m.Components))
	byUID := make(map[string]*component.Component, len(m.Components))

	for _, entry := range m.Components {
		c := l.instantiate(entry.UID, entry.CurrentVersion, entry.CachedName)
		components = append(components, c)
		byUID[entry.UID] = c
	}

	l.mu.Lock()
	l.components = components
	l.byUID = byUID
	l.dirty = false
	l.mu.Unlock()

	l.observer.Reset()
	l.ReapplyPatches()
	return nil
}

// instantiate builds a Component for uid: pointed at its local patch
// file if one exists on disk, else at the remote metadata handle pinned
// to currentVersion (or the latest known version if currentVersion is
// empty).
func (l *ComponentList) instantiate(uid, currentVersion, cachedName string) *component.Component {
	filename := patchPath(l.root, uid)

	if hasPatchFile(l.root, uid) {
		vfile, err := loadPatchFile(l.root, uid)
		if err != nil {
			vfile = &component.VersionFile{
				UID:      uid,
				Problems: []component.Problem{{Severity: component.SeverityError, Message: fmt.Sprintf("failed to load patch: %v", err)}},
			}
		}
		c := component.NewLocal(uid, vfile, filename, l.componentIndex())
		c.SetRevertible(l.index != nil && l.index.HasUID(uid))
		c.SetRemovable(uid != builtinNetMinecraft && uid != builtinOrgLwjgl)
		c.SetMovable(uid != builtinNetMinecraft && uid != builtinOrgLwjgl)
		return c
	}

	if l.index != nil && l.index.HasUID(uid) {
		handle, err := l.index.Get(uid, currentVersion)
		if err == nil {
			c := component.NewRemote(uid, filename, handle, l.decodeRemote, l.componentIndex())
			c.SetRemovable(uid != builtinNetMinecraft && uid != builtinOrgLwjgl)
			c.SetMovable(uid != builtinNetMinecraft && uid != builtinOrgLwjgl)
			return c
		}
		log.Printf("[instance] failed to resolve remote version for %s: %v", uid, err)
	}

	c := component.NewUnloaded(uid, filename, l.componentIndex())
	c.SetRemovable(uid != builtinNetMinecraft && uid != builtinOrgLwjgl)
	c.SetMovable(uid != builtinNetMinecraft && uid != builtinOrgLwjgl)
	return c
}

// Save serialises the manifest atomically. Called by the debounce timer
// and synchronously by Close if the list is dirty.
func (l *ComponentList) Save() error {
	l.mu.Lock()
	entries := make([]manifestEntry, 0, len(l.components))
	for _, c := range l.components {
		entries = append(entries, manifestEntry{
			UID:            c.UID(),
			CurrentVersion: c.Version(),
			CachedName:     c.Name(),
		})
	}
	l.mu.Unlock()

	if err := writeManifest(l.root, &manifest{FormatVersion: manifestFormatVersion, Components: entries}); err != nil {
		return err
	}

	l.mu.Lock()
	l.dirty = false
	l.mu.Unlock()
	return nil
}

// scheduleSave (re)starts the 5-second debounce timer. Must be called
// with l.mu unheld.
func (l *ComponentList) scheduleSave() {
	l.mu.Lock()
	l.dirty = true
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(saveDebounce, func() {
		if err := l.Save(); err != nil {
			log.Printf("[instance] debounced save failed: %v", err)
		}
	})
	l.mu.Unlock()
}

// Close flushes a pending save synchronously if the list is dirty. It
// does not stop concurrent use of the list; callers should stop
// mutating before calling Close.
func (l *ComponentList) Close() error {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	dirty := l.dirty
	l.mu.Unlock()

	if dirty {
		return l.Save()
	}
	return nil
}

// AppendComponent adds c to the end of the list. Returns false without
// effect if c's uid is empty or already present.
func (l *ComponentList) AppendComponent(c *component.Component) bool {
	if c.UID() == "" {
		log.Printf("[instance] refusing to append component with empty uid")
		return false
	}

	l.mu.Lock()
	if _, exists := l.byUID[c.UID()]; exists {
		l.mu.Unlock()
		log.Printf("[instance] refusing to append duplicate uid %s", c.UID())
		return false
	}
	l.components = append(l.components, c)
	l.byUID[c.UID()] = c
	row := len(l.components) - 1
	l.mu.Unlock()

	l.observer.RowInserted(row)
	l.ReapplyPatches()
	l.scheduleSave()
	return true
}

func (l *ComponentList) indexOf(uid string) int {
	for i, c := range l.components {
		if c.UID() == uid {
			return i
		}
	}
	return -1
}

// Remove deletes the component at row. It rejects non-removable
// components, deletes its patch file and any hint-"local" jar mod files
// it declared, then re-applies and schedules a save.
func (l *ComponentList) Remove(row int) bool {
	l.mu.Lock()
	if row < 0 || row >= len(l.components) {
		l.mu.Unlock()
		return false
	}
	c := l.components[row]
	if !c.IsRemovable() {
		l.mu.Unlock()
		log.Printf("[instance] refusing to remove non-removable component %s", c.UID())
		return false
	}
	l.mu.Unlock()

	if vfile, err := c.GetVersionFile(); err == nil && vfile != nil {
		for _, lib := range vfile.JarMods {
			if lib.Hint == "local" && lib.SourceURL != "" {
				if err := os.Remove(lib.SourceURL); err != nil && !os.IsNotExist(err) {
					log.Printf("[instance] failed to remove jar mod file %s: %v", lib.SourceURL, err)
				}
			}
		}
	}
	if err := removePatchFile(l.root, c.UID()); err != nil {
		log.Printf("[instance] failed to remove patch file for %s: %v", c.UID(), err)
	}

	l.mu.Lock()
	l.components = append(l.components[:row], l.components[row+1:]...)
	delete(l.byUID, c.UID())
	l.mu.Unlock()

	l.observer.RowRemoved(row)
	l.ReapplyPatches()
	l.scheduleSave()
	return true
}

// RemoveUID removes the component with the given uid, if present and
// removable.
func (l *ComponentList) RemoveUID(uid string) bool {
	l.mu.Lock()
	row := l.indexOf(uid)
	l.mu.Unlock()
	if row < 0 {
		return false
	}
	return l.Remove(row)
}

// Customize detaches the component at row from its remote base: its
// current version file is serialised to patches/<uid>.json, and the
// list is reloaded so the component flips to the Customized state.
func (l *ComponentList) Customize(row int) bool {
	l.mu.Lock()
	if row < 0 || row >= len(l.components) {
		l.mu.Unlock()
		return false
	}
	c := l.components[row]
	l.mu.Unlock()

	if !c.IsCustomizable() {
		log.Printf("[instance] component %s is not customizable", c.UID())
		return false
	}

	vfile, err := c.GetVersionFile()
	if err != nil || vfile == nil {
		log.Printf("[instance] customize %s: version file unavailable: %v", c.UID(), err)
		return false
	}

	if err := savePatchFile(l.root, vfile); err != nil {
		log.Printf("[instance] customize %s: failed to write patch file: %v", c.UID(), err)
		return false
	}

	if err := l.Load(); err != nil {
		log.Printf("[instance] customize %s: reload failed: %v", c.UID(), err)
		return false
	}
	l.scheduleSave()
	return true
}

// RevertToBase reverts the component at row to its remote base: its
// patch file is deleted and the list reloaded.
func (l *ComponentList) RevertToBase(row int) bool {
	l.mu.Lock()
	if row < 0 || row >= len(l.components) {
		l.mu.Unlock()
		return false
	}
	c := l.components[row]
	l.mu.Unlock()

	if !c.IsRevertible() {
		log.Printf("[instance] component %s is not revertible", c.UID())
		return false
	}

	if err := removePatchFile(l.root, c.UID()); err != nil {
		log.Printf("[instance] revertToBase %s: failed to remove patch file: %v", c.UID(), err)
		return false
	}

	if err := l.Load(); err != nil {
		log.Printf("[instance] revertToBase %s: reload failed: %v", c.UID(), err)
		return false
	}
	l.scheduleSave()
	return true
}

// Move swaps the component at row with its neighbour in dir. Both must
// be movable.
func (l *ComponentList) Move(row int, dir Direction) bool {
	l.mu.Lock()
	other := row + 1
	if dir == Up {
		other = row - 1
	}
	if row < 0 || row >= len(l.components) || other < 0 || other >= len(l.components) {
		l.mu.Unlock()
		return false
	}
	a, b := l.components[row], l.components[other]
	if !a.IsMoveable() || !b.IsMoveable() {
		l.mu.Unlock()
		log.Printf("[instance] refusing to move %s/%s: not both movable", a.UID(), b.UID())
		return false
	}
	l.components[row], l.components[other] = l.components[other], l.components[row]
	l.mu.Unlock()

	l.observer.RowMoved(row, other)
	l.ReapplyPatches()
	l.scheduleSave()
	return true
}

// SetComponentVersion always returns false: pinning a component to a
// different metadata-index version was never wired up upstream, and
// this engine preserves that gap rather than inventing new semantics
// for it. Version pinning happens via the legacy migrator's oldVersions
// map or by hand-editing a patch file and calling Customize.
func (l *ComponentList) SetComponentVersion(uid, version string) bool {
	return false
}

// getFreeOrderNumber returns an order hint larger than any currently in
// use, starting at 101 (well above the migrator's built-in and
// special-component orders, the highest of which is 10).
func (l *ComponentList) getFreeOrderNumber() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	free := 101
	for _, c := range l.components {
		if c.Order() >= free {
			free = c.Order() + 1
		}
	}
	return free
}

// InstallJarMods copies each path into <root>/jarmods/<uuid>.jar,
// synthesises a local version file declaring it as a hint-"local"
// library, and appends a movable+removable component with uid
// org.multimc.jarmod.<uuid>.
func (l *ComponentList) InstallJarMods(paths []string) ([]string, error) {
	uids := make([]string, 0, len(paths))

	for _, src := range paths {
		id := uuid.New().String()
		uid := "org.multimc.jarmod." + id
		dst := jarModPath(l.root, id)

		if err := utils.CopyFile(src, dst); err != nil {
			return uids, fmt.Errorf("instance: install jar mod %s: %w", src, err)
		}

		spec := component.GradleSpecifier{Group: "org.multimc", Artifact: "jarmod." + id, Version: "1"}
		lib := component.Library{Name: spec, Hint: "local", SourceURL: dst}

		vfile := &component.VersionFile{
			UID:     uid,
			Version: "1",
			Name:    filepath.Base(src),
			Order:   l.getFreeOrderNumber(),
			JarMods: []component.Library{lib},
		}
		if err := savePatchFile(l.root, vfile); err != nil {
			return uids, fmt.Errorf("instance: install jar mod %s: write patch: %w", src, err)
		}

		c := component.NewLocal(uid, vfile, patchPath(l.root, uid), l.componentIndex())
		c.SetMovable(true)
		c.SetRemovable(true)
		if !l.AppendComponent(c) {
			return uids, fmt.Errorf("instance: install jar mod %s: append failed", src)
		}
		uids = append(uids, uid)
	}

	return uids, nil
}

// InstallCustomJar copies path into the instance's local library
// directory as org.multimc:customjar:1, synthesises a version file
// declaring it as the main jar, and appends a movable+removable
// component with uid "customjar".
func (l *ComponentList) InstallCustomJar(path string) (string, error) {
	const uid = "customjar"
	dst := customJarPath(l.root)

	if err := utils.CopyFile(path, dst); err != nil {
		return "", fmt.Errorf("instance: install custom jar: %w", err)
	}

	spec := component.GradleSpecifier{Group: "org.multimc", Artifact: "customjar", Version: "1"}
	lib := component.Library{Name: spec, Hint: "local", SourceURL: dst}

	vfile := &component.VersionFile{
		UID:     uid,
		Version: "1",
		Name:    "Custom Jar",
		Order:   l.getFreeOrderNumber(),
		MainJar: &lib,
	}
	if err := savePatchFile(l.root, vfile); err != nil {
		return "", fmt.Errorf("instance: install custom jar: write patch: %w", err)
	}

	c := component.NewLocal(uid, vfile, patchPath(l.root, uid), l.componentIndex())
	c.SetMovable(true)
	c.SetRemovable(true)
	if !l.AppendComponent(c) {
		return "", fmt.Errorf("instance: install custom jar: append failed")
	}
	return uid, nil
}

// RevertToVanilla iterates a snapshot of the list, reverting or removing
// every non-vanilla component (one that carries its own local patch
// file, builtin or not). It stops and reports the first failure but
// always leaves the list's launch profile consistent, since
// ReapplyPatches runs after every successful step.
func (l *ComponentList) RevertToVanilla() error {
	snapshot := l.Components()

	for _, c := range snapshot {
		if c.IsVanilla() {
			continue
		}

		l.mu.Lock()
		row := l.indexOf(c.UID())
		l.mu.Unlock()
		if row < 0 {
			continue
		}

		if c.IsRevertible() {
			if !l.RevertToBase(row) {
				return fmt.Errorf("instance: revertToVanilla: failed to revert %s", c.UID())
			}
			continue
		}
		if c.IsRemovable() {
			if !l.RemoveUID(c.UID()) {
				return fmt.Errorf("instance: revertToVanilla: failed to remove %s", c.UID())
			}
		}
	}

	l.ReapplyPatches()
	return nil
}

// ReapplyPatches rebuilds the launch profile from scratch by applying
// every component in list order. A component that fails to apply
// contributes only its problem severity; the rebuild never aborts
// partway and the profile is always replaced wholesale.
func (l *ComponentList) ReapplyPatches() {
	l.mu.Lock()
	components := make([]*component.Component, len(l.components))
	copy(components, l.components)
	l.mu.Unlock()

	profile := launchprofile.New()
	for _, c := range components {
		if err := c.ApplyTo(profile); err != nil {
			log.Printf("[instance] component %s failed to apply: %v", c.UID(), err)
			profile.ApplyProblemSeverity(component.SeverityError)
		}
	}

	l.mu.Lock()
	l.profile = profile
	l.mu.Unlock()
}
