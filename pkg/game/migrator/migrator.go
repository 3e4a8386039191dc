// Package migrator converts a pre-component instance layout (a single
// version.json or custom.json, plus an optional order.json) into the
// current manifest-plus-patches layout the component list engine reads.
// Callers run it before loading an instance that has no manifest yet;
// instance.ComponentList.Load never migrates on its own.
package migrator

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/game/instance"
	"patchwork.dev/launcher/pkg/meta"
)

const (
	netMinecraft    = "net.minecraft"
	orgLwjgl        = "org.lwjgl"
	netForge        = "net.minecraftforge"
	comMumfreyLLoad = "com.mumfrey.liteloader"
)

// seed is one component the migration produced, in the order it should
// end up in the final manifest.
type seed struct {
	uid            string
	order          int
	currentVersion string
	cachedName     string
}

// Migrate runs the five-step legacy migration described for this
// package against root, using index to resolve remote-only builtins and
// special patches, and oldVersions to recover the version pins that a
// pre-component layout kept in ad-hoc fields (instance.cfg-style keys,
// e.g. "net.minecraft" -> "1.7.10", "net.minecraftforge" -> "10.13.4.1614").
// It is a no-op (returns nil) if a manifest already exists.
func Migrate(root string, index meta.Index, oldVersions map[string]string) error {
	if instance.ManifestExists(root) {
		return nil
	}

	if err := upgradeDeprecatedFiles(root); err != nil {
		log.Printf("[migrator] upgradeDeprecatedFiles: %v", err)
	}

	seeds := make([]seed, 0, 8)
	seenUID := make(map[string]bool)

	for _, b := range []struct {
		uid   string
		order int
	}{{netMinecraft, -2}, {orgLwjgl, -1}} {
		s, err := addBuiltinPatch(root, index, oldVersions, b.uid, b.order)
		if err != nil {
			return fmt.Errorf("migrator: builtin %s: %w", b.uid, err)
		}
		seeds = append(seeds, s)
		seenUID[b.uid] = true
	}

	discovered, err := discoverOtherPatches(root, index, seenUID)
	if err != nil {
		return fmt.Errorf("migrator: discover patches: %w", err)
	}
	for uid := range discovered {
		seenUID[uid] = true
	}

	for _, special := range []struct {
		uid   string
		order int
	}{{netForge, 5}, {comMumfreyLLoad, 10}} {
		if seenUID[special.uid] {
			continue
		}
		if s, ok := loadSpecial(index, oldVersions, special.uid, special.order); ok {
			discovered[special.uid] = s
			seenUID[special.uid] = true
		}
	}

	ordered, err := applyLegacyOrdering(root, discovered)
	if err != nil {
		return fmt.Errorf("migrator: apply legacy ordering: %w", err)
	}
	seeds = append(seeds, ordered...)

	entries := make([]instance.ManifestEntry, 0, len(seeds))
	for _, s := range seeds {
		entries = append(entries, instance.ManifestEntry{UID: s.uid, CurrentVersion: s.currentVersion, CachedName: s.cachedName})
	}
	return instance.WriteManifest(root, entries)
}

// legacyVersionFile is the shape of a pre-component version.json /
// custom.json: a flat version file with no uid of its own, identified
// instead by its minecraftVersion field.
type legacyVersionFile struct {
	ID               string            `json:"id,omitempty"`
	MinecraftVersion string            `json:"minecraftVersion"`
	MainClass        string            `json:"mainClass,omitempty"`
	Libraries        []legacyLibrary   `json:"libraries,omitempty"`
	GameArguments    []string          `json:"+tweakers,omitempty"`
	JVMArguments     []string          `json:"jvmArgs,omitempty"`
	ReleaseTime      string            `json:"releaseTime,omitempty"`
}

type legacyLibrary struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// upgradeDeprecatedFiles implements step 1: promote a hardcoded
// version.json/custom.json into patches/net.minecraft.json, stripping
// its embedded lwjgl libraries (lwjgl becomes its own component) and
// retiring the source file.
func upgradeDeprecatedFiles(root string) error {
	mcPatch := filepath.Join(root, "patches", netMinecraft+".json")
	if _, err := os.Stat(mcPatch); err == nil {
		return nil // already migrated
	}

	customPath := filepath.Join(root, "custom.json")
	versionPath := filepath.Join(root, "version.json")

	var sourceFile, renameFile string
	if _, err := os.Stat(customPath); err == nil {
		sourceFile, renameFile = customPath, versionPath
	} else if _, err := os.Stat(versionPath); err == nil {
		sourceFile = versionPath
	}
	if sourceFile == "" {
		return nil
	}

	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", sourceFile, err)
	}

	var legacy legacyVersionFile
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parse %s: %w", sourceFile, err)
	}

	vfile := &component.VersionFile{
		UID:         netMinecraft,
		Version:     legacy.MinecraftVersion,
		Name:        "Minecraft",
		ReleaseTime: legacy.ReleaseTime,
		MainClass:   legacy.MainClass,
		Requires:    []component.Requirement{{UID: orgLwjgl}},
	}
	for _, lib := range legacy.Libraries {
		if isLwjglLibrary(lib.Name) {
			continue
		}
		spec, err := component.ParseGradleSpecifier(lib.Name)
		if err != nil {
			continue
		}
		vfile.Libraries = append(vfile.Libraries, component.Library{Name: spec, SourceURL: lib.URL})
	}
	for _, a := range legacy.GameArguments {
		vfile.GameArguments = append(vfile.GameArguments, component.Argument{Value: a})
	}
	for _, a := range legacy.JVMArguments {
		vfile.JVMArguments = append(vfile.JVMArguments, component.Argument{Value: a})
	}

	if err := instance.WritePatchFile(root, vfile); err != nil {
		return fmt.Errorf("write %s patch: %w", netMinecraft, err)
	}

	if renameFile != "" {
		if _, err := os.Stat(renameFile); err == nil {
			if err := os.Rename(renameFile, renameFile+".old"); err != nil {
				return fmt.Errorf("rename %s: %w", renameFile, err)
			}
		}
	}
	if err := os.Rename(sourceFile, sourceFile+".old"); err != nil {
		return fmt.Errorf("rename %s: %w", sourceFile, err)
	}
	return nil
}

func isLwjglLibrary(gradleName string) bool {
	return strings.HasPrefix(gradleName, "org.lwjgl")
}

// addBuiltinPatch implements step 2 for a single uid: prefer an
// already-migrated or hand-authored local patch file (Customized,
// revertible, non-vanilla); otherwise pin a remote Component from the
// metadata index at the version recovered from oldVersions.
func addBuiltinPatch(root string, index meta.Index, oldVersions map[string]string, uid string, order int) (seed, error) {
	intended := oldVersions[uid]

	if instance.HasPatchFile(root, uid) {
		return seed{uid: uid, order: order, currentVersion: intended}, nil
	}

	if index == nil || !index.HasUID(uid) {
		return seed{}, fmt.Errorf("no local patch and metadata index has no uid %q", uid)
	}
	handle, err := index.Get(uid, intended)
	if err != nil {
		return seed{}, fmt.Errorf("resolve %s@%s from metadata index: %w", uid, intended, err)
	}
	return seed{uid: uid, order: order, currentVersion: handle.Version, cachedName: handle.Name}, nil
}

// discoverOtherPatches implements step 3: every patches/*.json other
// than the two builtins becomes a movable+removable seed, returned in a
// map keyed by uid (callers re-sort by order.json/order-hint afterward).
func discoverOtherPatches(root string, index meta.Index, exclude map[string]bool) (map[string]seed, error) {
	dir := filepath.Join(root, "patches")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]seed{}, nil
		}
		return nil, err
	}

	found := make(map[string]seed)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		uid := strings.TrimSuffix(entry.Name(), ".json")
		if exclude[uid] {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("[migrator] skipping unreadable patch %s: %v", entry.Name(), err)
			continue
		}
		var probe struct {
			UID     string `json:"uid"`
			Version string `json:"version"`
			Name    string `json:"name"`
			Order   int    `json:"order"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			log.Printf("[migrator] skipping malformed patch %s: %v", entry.Name(), err)
			continue
		}
		if probe.UID == netMinecraft || probe.UID == orgLwjgl {
			continue
		}
		if probe.UID == "" {
			probe.UID = uid
		}

		found[probe.UID] = seed{uid: probe.UID, order: probe.Order, currentVersion: probe.Version, cachedName: probe.Name}
	}
	return found, nil
}

// loadSpecial implements step 4 for one hardcoded remote-only uid: only
// seeded if a version pin is known and no local file already claimed
// the uid.
func loadSpecial(index meta.Index, oldVersions map[string]string, uid string, order int) (seed, bool) {
	version := oldVersions[uid]
	if version == "" || index == nil || !index.HasUID(uid) {
		return seed{}, false
	}
	handle, err := index.Get(uid, version)
	if err != nil {
		log.Printf("[migrator] special patch %s@%s unresolvable: %v", uid, version, err)
		return seed{}, false
	}
	return seed{uid: uid, order: order, currentVersion: handle.Version, cachedName: handle.Name}, true
}

// applyLegacyOrdering implements step 5: uids named in order.json come
// first, in that order; anything left over is appended sorted by its
// own order hint; equal hints are ordered by uid, which for
// patches/<uid>.json files is the order the directory listing finds them in.
func applyLegacyOrdering(root string, discovered map[string]seed) ([]seed, error) {
	userOrder, err := readOrderFile(root)
	if err != nil {
		return nil, err
	}

	remaining := make(map[string]seed, len(discovered))
	for uid, s := range discovered {
		remaining[uid] = s
	}

	ordered := make([]seed, 0, len(discovered))
	for _, uid := range userOrder {
		if uid == netMinecraft || uid == orgLwjgl {
			continue
		}
		if s, ok := remaining[uid]; ok {
			ordered = append(ordered, s)
			delete(remaining, uid)
		}
	}

	if len(remaining) > 0 {
		leftover := make([]seed, 0, len(remaining))
		for _, s := range remaining {
			leftover = append(leftover, s)
		}
		sort.SliceStable(leftover, func(i, j int) bool {
			if leftover[i].order != leftover[j].order {
				return leftover[i].order < leftover[j].order
			}
			return leftover[i].uid < leftover[j].uid
		})
		ordered = append(ordered, leftover...)
	}

	return ordered, nil
}

// readOrderFile reads order.json: a plain JSON array of uid strings.
func readOrderFile(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, "order.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var order []string
	if err := json.Unmarshal(data, &order); err != nil {
		log.Printf("[migrator] malformed order.json, ignoring: %v", err)
		return nil, nil
	}
	return order, nil
}
