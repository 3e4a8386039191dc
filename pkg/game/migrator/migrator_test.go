package migrator_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/game/instance"
	"patchwork.dev/launcher/pkg/game/migrator"
	"patchwork.dev/launcher/pkg/meta"
)

func writeLegacyVersionJSON(t *testing.T, root string) {
	t.Helper()
	legacy := map[string]any{
		"minecraftVersion": "1.7.10",
		"mainClass":        "net.minecraft.client.main.Main",
		"libraries": []map[string]string{
			{"name": "org.lwjgl.lwjgl:lwjgl:2.9.1"},
			{"name": "com.mojang:realms:1.7.10"},
		},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "version.json"), data, 0o644))
}

func lwjglVersionData(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{"uid": "org.lwjgl", "version": "2.9.1", "name": "LWJGL 2"})
	require.NoError(t, err)
	return data
}

func TestMigrateFreshInstanceFromLegacyVersionJSON(t *testing.T) {
	root := t.TempDir()
	writeLegacyVersionJSON(t, root)

	idx := meta.NewMemoryIndex()
	idx.Put(meta.VersionHandle{UID: "org.lwjgl", Version: "2.9.1", Name: "LWJGL 2", Data: lwjglVersionData(t)})
	idx.Put(meta.VersionHandle{UID: "net.minecraft", Version: "1.7.10"})

	err := migrator.Migrate(root, idx, nil)
	require.NoError(t, err)

	assert.True(t, instance.ManifestExists(root))
	assert.True(t, instance.HasPatchFile(root, "net.minecraft"))
	assert.NoFileExists(t, filepath.Join(root, "version.json"))
	assert.FileExists(t, filepath.Join(root, "version.json.old"))

	list := instance.New(root, idx)
	require.NoError(t, list.Load())

	components := list.Components()
	require.Len(t, components, 2)
	assert.Equal(t, "net.minecraft", components[0].UID())
	assert.Equal(t, "1.7.10", components[0].Version())
	assert.True(t, components[0].IsCustom())
	assert.True(t, components[0].IsRevertible())
	assert.Equal(t, "org.lwjgl", components[1].UID())
}

func TestMigrateStripsLwjglFromMinecraftPatch(t *testing.T) {
	root := t.TempDir()
	writeLegacyVersionJSON(t, root)

	idx := meta.NewMemoryIndex()
	idx.Put(meta.VersionHandle{UID: "org.lwjgl", Version: "2.9.1", Data: lwjglVersionData(t)})

	require.NoError(t, migrator.Migrate(root, idx, nil))

	list := instance.New(root, idx)
	require.NoError(t, list.Load())

	mc := list.Components()[0]
	vfile, err := mc.GetVersionFile()
	require.NoError(t, err)
	for _, lib := range vfile.Libraries {
		assert.NotContains(t, lib.Name.Group, "org.lwjgl")
	}
	require.Len(t, vfile.Requires, 1)
	assert.Equal(t, "org.lwjgl", vfile.Requires[0].UID)
}

func TestMigrateIsNoOpWhenManifestAlreadyExists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, instance.WriteManifest(root, []instance.ManifestEntry{{UID: "net.minecraft"}}))
	writeLegacyVersionJSON(t, root)

	idx := meta.NewMemoryIndex()
	require.NoError(t, migrator.Migrate(root, idx, nil))

	assert.FileExists(t, filepath.Join(root, "version.json"), "migration must not touch legacy files once a manifest exists")
}

func TestMigrateHonoursOrderFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "patches"), 0o755))

	idx := meta.NewMemoryIndex()
	idx.Put(meta.VersionHandle{UID: "net.minecraft", Version: "1.12.2"})
	idx.Put(meta.VersionHandle{UID: "org.lwjgl", Version: "2.9.4"})

	forge := &component.VersionFile{UID: "net.minecraftforge", Version: "14.23.5.2860", Order: 5}
	require.NoError(t, instance.WritePatchFile(root, forge))
	optifine := &component.VersionFile{UID: "optifine.OptiFine", Version: "HD_U_F5", Order: 50}
	require.NoError(t, instance.WritePatchFile(root, optifine))

	orderData, err := json.Marshal([]string{"optifine.OptiFine", "net.minecraftforge"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "order.json"), orderData, 0o644))

	require.NoError(t, migrator.Migrate(root, idx, map[string]string{"net.minecraft": "1.12.2"}))

	list := instance.New(root, idx)
	require.NoError(t, list.Load())
	components := list.Components()
	require.Len(t, components, 4)
	assert.Equal(t, "optifine.OptiFine", components[2].UID())
	assert.Equal(t, "net.minecraftforge", components[3].UID())
}
