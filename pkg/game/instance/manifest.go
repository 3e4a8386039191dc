package instance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"patchwork.dev/launcher/pkg/utils"
)

const manifestFormatVersion = 1

// manifestEntry is one row of mmc-pack.json. Only uid, currentVersion
// and cachedName are preserved across save/load: everything else about
// a component is recovered either from its patch file or from the
// metadata index.
type manifestEntry struct {
	UID            string `json:"uid"`
	CurrentVersion string `json:"currentVersion"`
	CachedName     string `json:"cachedName"`
}

type manifest struct {
	FormatVersion int             `json:"formatVersion"`
	Components    []manifestEntry `json:"components"`
}

func manifestPath(root string) string {
	return filepath.Join(root, "mmc-pack.json")
}

func patchPath(root, uid string) string {
	return filepath.Join(root, "patches", uid+".json")
}

func jarModPath(root, id string) string {
	return filepath.Join(root, "jarmods", id+".jar")
}

func customJarPath(root string) string {
	return filepath.Join(root, "libraries", "org", "multimc", "customjar", "1", "customjar-1.jar")
}

// readManifest loads mmc-pack.json. A missing file is reported via
// os.IsNotExist so the caller can fall back to the legacy migrator; any
// other read or parse failure (including a formatVersion mismatch) is
// returned as an error, which Load logs before starting with an empty list.
func readManifest(root string) (*manifest, error) {
	data, err := os.ReadFile(manifestPath(root))
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("instance: malformed manifest: %w", err)
	}
	if m.FormatVersion != manifestFormatVersion {
		return nil, fmt.Errorf("instance: unsupported manifest formatVersion %d", m.FormatVersion)
	}
	return &m, nil
}

// writeManifest serialises m atomically: write to a temp file in the
// same directory, fsync it, then rename over the destination, so a crash
// mid-write or a crash right after it never leaves a truncated or lost
// mmc-pack.json behind.
func writeManifest(root string, m *manifest) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("instance: mkdir instance root: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("instance: marshal manifest: %w", err)
	}

	dst := manifestPath(root)
	tmp := dst + ".tmp"
	if err := utils.WriteFileSync(tmp, data, 0o644); err != nil {
		return fmt.Errorf("instance: write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("instance: rename temp manifest: %w", err)
	}
	return nil
}
