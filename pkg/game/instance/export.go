package instance

import (
	"os"

	"patchwork.dev/launcher/pkg/game/component"
)

// WritePatchFile writes v to <root>/patches/<uid>.json atomically. It is
// exported for the legacy migrator, which needs to seed patch files
// before any ComponentList exists to load them.
func WritePatchFile(root string, v *component.VersionFile) error {
	return savePatchFile(root, v)
}

// WriteManifest writes a v1 manifest listing uids in order, each with
// the given currentVersion/cachedName. It is exported for the legacy
// migrator's final step, which writes the manifest its migration
// produced so a subsequent Load succeeds without re-migrating.
func WriteManifest(root string, entries []ManifestEntry) error {
	raw := make([]manifestEntry, 0, len(entries))
	for _, e := range entries {
		raw = append(raw, manifestEntry{UID: e.UID, CurrentVersion: e.CurrentVersion, CachedName: e.CachedName})
	}
	return writeManifest(root, &manifest{FormatVersion: manifestFormatVersion, Components: raw})
}

// ManifestEntry is the exported shape of a single manifest row.
type ManifestEntry struct {
	UID            string
	CurrentVersion string
	CachedName     string
}

// HasPatchFile reports whether patches/<uid>.json exists under root.
func HasPatchFile(root, uid string) bool { return hasPatchFile(root, uid) }

// ManifestExists reports whether mmc-pack.json exists under root.
func ManifestExists(root string) bool {
	_, err := os.Stat(manifestPath(root))
	return err == nil
}
