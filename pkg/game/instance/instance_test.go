package instance_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/game/instance"
	"patchwork.dev/launcher/pkg/meta"
)

func seedVanillaInstance(t *testing.T, root string, idx *meta.MemoryIndex) *instance.ComponentList {
	t.Helper()
	idx.Put(meta.VersionHandle{UID: "net.minecraft", Version: "1.12.2", Name: "Minecraft"})
	idx.Put(meta.VersionHandle{UID: "org.lwjgl", Version: "2.9.4", Name: "LWJGL 2"})

	require.NoError(t, instance.WriteManifest(root, []instance.ManifestEntry{
		{UID: "net.minecraft", CurrentVersion: "1.12.2", CachedName: "Minecraft"},
		{UID: "org.lwjgl", CurrentVersion: "2.9.4", CachedName: "LWJGL 2"},
	}))

	list := instance.New(root, idx)
	require.NoError(t, list.Load())
	return list
}

func TestLoadRejectsMissingManifest(t *testing.T) {
	root := t.TempDir()
	list := instance.New(root, meta.NewMemoryIndex())
	err := list.Load()
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestAppendComponentRejectsDuplicateUID(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	before := len(list.Components())
	ok := list.AppendComponent(component.NewLocal("org.lwjgl", &component.VersionFile{UID: "org.lwjgl", Version: "3.3.1"}, "", nil))
	assert.False(t, ok)
	assert.Len(t, list.Components(), before)
}

func TestAppendComponentRejectsEmptyUID(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	ok := list.AppendComponent(component.NewLocal("", &component.VersionFile{}, "", nil))
	assert.False(t, ok)
}

func TestRemoveNonRemovableBuiltinFails(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	ok := list.RemoveUID("net.minecraft")
	assert.False(t, ok)
	assert.Len(t, list.Components(), 2)
}

func TestCustomizeThenRevertToBaseRoundTrips(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	idx.Put(meta.VersionHandle{
		UID: "net.minecraft", Version: "1.12.2", Name: "Minecraft",
		Data: []byte(`{"uid":"net.minecraft","version":"1.12.2","name":"Minecraft"}`),
	})
	idx.Put(meta.VersionHandle{UID: "org.lwjgl", Version: "2.9.4"})
	require.NoError(t, instance.WriteManifest(root, []instance.ManifestEntry{
		{UID: "net.minecraft", CurrentVersion: "1.12.2"},
		{UID: "org.lwjgl", CurrentVersion: "2.9.4"},
	}))
	list := instance.New(root, idx)
	require.NoError(t, list.Load())

	assert.False(t, list.Components()[0].IsCustom())

	ok := list.Customize(0)
	require.True(t, ok)
	assert.True(t, instance.HasPatchFile(root, "net.minecraft"))
	assert.True(t, list.Components()[0].IsCustom())
	assert.True(t, list.Components()[0].IsRevertible())

	ok = list.RevertToBase(0)
	require.True(t, ok)
	assert.False(t, instance.HasPatchFile(root, "net.minecraft"))
	assert.False(t, list.Components()[0].IsCustom())
}

func TestRevertToVanillaRevertsCustomBuiltinAndSparesRemoteNonBuiltin(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	idx.Put(meta.VersionHandle{
		UID: "net.minecraft", Version: "1.12.2", Name: "Minecraft",
		Data: []byte(`{"uid":"net.minecraft","version":"1.12.2","name":"Minecraft"}`),
	})
	idx.Put(meta.VersionHandle{UID: "org.lwjgl", Version: "2.9.4"})
	idx.Put(meta.VersionHandle{UID: "net.minecraftforge", Version: "14.23.5.2859"})

	require.NoError(t, instance.WriteManifest(root, []instance.ManifestEntry{
		{UID: "net.minecraft", CurrentVersion: "1.12.2"},
		{UID: "org.lwjgl", CurrentVersion: "2.9.4"},
		{UID: "net.minecraftforge", CurrentVersion: "14.23.5.2859"},
	}))

	list := instance.New(root, idx)
	require.NoError(t, list.Load())

	// Customize net.minecraft: it now carries a local patch file and is
	// no longer vanilla, but remains builtin (never removable/movable).
	require.True(t, list.Customize(0))
	require.True(t, instance.HasPatchFile(root, "net.minecraft"))
	require.True(t, list.Components()[0].IsCustom())

	require.NoError(t, list.RevertToVanilla())

	components := list.Components()
	require.Len(t, components, 3)

	minecraft := findByUID(components, "net.minecraft")
	require.NotNil(t, minecraft)
	assert.False(t, minecraft.IsCustom(), "customized builtin should have been reverted to its remote base")
	assert.False(t, instance.HasPatchFile(root, "net.minecraft"))

	forge := findByUID(components, "net.minecraftforge")
	require.NotNil(t, forge, "a purely-remote non-builtin component must never be removed by RevertToVanilla")
	assert.False(t, forge.IsCustom())
}

func TestMoveUpThenDownIsIdentity(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	uids, err := list.InstallJarMods([]string{writeTempJar(t), writeTempJar(t)})
	require.NoError(t, err)
	require.Len(t, uids, 2)

	before := uidsOf(list)
	require.Len(t, before, 4)

	ok := list.Move(3, instance.Up)
	require.True(t, ok)
	ok = list.Move(2, instance.Down)
	require.True(t, ok)

	assert.Equal(t, before, uidsOf(list))
}

func TestInstallJarModsAppendsMovableRemovableComponents(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	a, b := writeTempJar(t), writeTempJar(t)
	uids, err := list.InstallJarMods([]string{a, b})
	require.NoError(t, err)
	require.Len(t, uids, 2)

	components := list.Components()
	require.Len(t, components, 4)
	for _, uid := range uids {
		c := findByUID(components, uid)
		require.NotNil(t, c)
		assert.True(t, c.IsMoveable())
		assert.True(t, c.IsRemovable())
	}

	profile := list.Profile()
	assert.Len(t, profile.JarMods(), 2)
}

func TestRemoveJarModDeletesItsFile(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	uids, err := list.InstallJarMods([]string{writeTempJar(t)})
	require.NoError(t, err)

	id := uids[0]
	jarPath := filepath.Join(root, "jarmods", id[len("org.multimc.jarmod."):]+".jar")
	assert.FileExists(t, jarPath)

	assert.True(t, list.RemoveUID(id))
	assert.NoFileExists(t, jarPath)
}

func TestCloseFlushesDirtyListSynchronously(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	list := seedVanillaInstance(t, root, idx)

	_, err := list.InstallCustomJar(writeTempJar(t))
	require.NoError(t, err)

	require.NoError(t, list.Close())
	assert.FileExists(t, filepath.Join(root, "mmc-pack.json"))
	data, err := os.ReadFile(filepath.Join(root, "mmc-pack.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"customjar"`)
}

func writeTempJar(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mod.jar")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04"), 0o644))
	return path
}

func uidsOf(list *instance.ComponentList) []string {
	var out []string
	for _, c := range list.Components() {
		out = append(out, c.UID())
	}
	return out
}

func findByUID(components []*component.Component, uid string) *component.Component {
	for _, c := range components {
		if c.UID() == uid {
			return c
		}
	}
	return nil
}
