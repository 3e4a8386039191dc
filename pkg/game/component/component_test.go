package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/game/launchprofile"
	"patchwork.dev/launcher/pkg/meta"
)

func decodeNoop(v meta.VersionHandle) (*component.VersionFile, error) {
	return &component.VersionFile{UID: v.UID, Version: v.Version, Name: v.Name}, nil
}

type stubIndex struct {
	lists map[string]meta.VersionList
}

func (s *stubIndex) HasUID(uid string) bool {
	_, ok := s.lists[uid]
	return ok
}

func (s *stubIndex) GetList(uid string) (meta.VersionList, error) {
	l, ok := s.lists[uid]
	if !ok {
		return nil, &meta.ErrUIDNotFound{UID: uid}
	}
	return l, nil
}

func TestRemoteComponentIsNotCustom(t *testing.T) {
	c := component.NewRemote("net.minecraft", "net.minecraft.json", meta.VersionHandle{UID: "net.minecraft", Version: "1.20.1"}, decodeNoop, nil)

	assert.False(t, c.IsCustom())
	assert.Equal(t, "1.20.1", c.Version())
}

func TestLocalComponentIsCustom(t *testing.T) {
	vfile := &component.VersionFile{UID: "org.multimc.jarmod.abc", Version: "1"}
	c := component.NewLocal("org.multimc.jarmod.abc", vfile, "org.multimc.jarmod.abc.json", nil)

	assert.True(t, c.IsCustom())
	assert.False(t, c.IsCustomizable(), "a local component has no remote base to detach from")
}

func TestUnloadedComponentReportsErrorSeverity(t *testing.T) {
	c := component.NewUnloaded("net.minecraftforge", "net.minecraftforge.json", nil)

	assert.Equal(t, component.SeverityError, c.ProblemSeverity())
	problems := c.Problems()
	assert.Len(t, problems, 1)
	assert.Equal(t, component.SeverityError, problems[0].Severity)
}

func TestApplyToMergesIntoProfile(t *testing.T) {
	spec, err := component.ParseGradleSpecifier("org.lwjgl:lwjgl:3.3.1")
	assert.NoError(t, err)

	vfile := &component.VersionFile{
		UID:       "org.lwjgl3",
		Version:   "3.3.1",
		Libraries: []component.Library{{Name: spec}},
		MainClass: "net.minecraft.client.main.Main",
	}
	c := component.NewLocal("org.lwjgl3", vfile, "org.lwjgl3.json", nil)

	profile := launchprofile.New()
	assert.NoError(t, c.ApplyTo(profile))

	assert.Len(t, profile.Libraries(), 1)
	assert.Equal(t, "net.minecraft.client.main.Main", profile.MainClass())
}

func TestVanillaFlagMirrorsSource(t *testing.T) {
	remote := component.NewRemote("net.minecraft", "net.minecraft.json", meta.VersionHandle{UID: "net.minecraft", Version: "1.20.1"}, decodeNoop, nil)
	assert.True(t, remote.IsVanilla())

	unloaded := component.NewUnloaded("net.minecraftforge", "net.minecraftforge.json", nil)
	assert.True(t, unloaded.IsVanilla())

	vfile := &component.VersionFile{UID: "org.multimc.jarmod.abc", Version: "1"}
	local := component.NewLocal("org.multimc.jarmod.abc", vfile, "org.multimc.jarmod.abc.json", nil)
	assert.False(t, local.IsVanilla())
}

func TestIsVersionChangeableRequiresNonEmptyList(t *testing.T) {
	empty := &stubIndex{lists: map[string]meta.VersionList{"net.minecraftforge": emptyList{uid: "net.minecraftforge"}}}
	c := component.NewUnloaded("net.minecraftforge", "net.minecraftforge.json", empty)
	assert.False(t, c.IsVersionChangeable())
}

type emptyList struct{ uid string }

func (e emptyList) UID() string                          { return e.uid }
func (e emptyList) Versions() []meta.VersionHandle        { return nil }
func (e emptyList) Latest() (meta.VersionHandle, bool)    { return meta.VersionHandle{}, false }
func (e emptyList) Get(string) (meta.VersionHandle, bool) { return meta.VersionHandle{}, false }
