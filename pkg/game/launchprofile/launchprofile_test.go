package launchprofile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"patchwork.dev/launcher/pkg/game/component"
)

func mustSpec(t *testing.T, s string) component.GradleSpecifier {
	t.Helper()
	spec, err := component.ParseGradleSpecifier(s)
	assert.NoError(t, err)
	return spec
}

func TestMergeLibrariesDedupesByGroupArtifact(t *testing.T) {
	p := New()

	p.MergeLibraries([]component.Library{
		{Name: mustSpec(t, "org.lwjgl:lwjgl:3.3.1")},
	})
	p.MergeLibraries([]component.Library{
		{Name: mustSpec(t, "org.lwjgl:lwjgl:3.3.2")},
		{Name: mustSpec(t, "com.google.guava:guava:31.1-jre")},
	})

	libs := p.Libraries()
	assert.Len(t, libs, 2)
	assert.Equal(t, "3.3.2", libs[0].Name.Version, "later merge wins on version conflict")
	assert.Equal(t, "com.google.guava:guava", libs[1].Name.GroupArtifact())
}

func TestSetMainJarLastWriterWins(t *testing.T) {
	p := New()
	first := &component.Library{Name: mustSpec(t, "net.minecraft:client:1.19@jar")}
	second := &component.Library{Name: mustSpec(t, "net.minecraft:client:1.20@jar")}

	p.SetMainJar(first)
	p.SetMainJar(second)

	assert.Same(t, second, p.MainJar())
}

func TestAdoptAssetsIndexPrefersNewerReleaseTime(t *testing.T) {
	p := New()
	older := &component.AssetsIndexRef{ID: "1.19", ReleaseTime: "2022-06-01T00:00:00Z"}
	newer := &component.AssetsIndexRef{ID: "1.20", ReleaseTime: "2023-06-01T00:00:00Z"}

	p.AdoptAssetsIndex(older)
	p.AdoptAssetsIndex(newer)
	assert.Equal(t, "1.20", p.AssetsIndex().ID)

	p2 := New()
	p2.AdoptAssetsIndex(newer)
	p2.AdoptAssetsIndex(older)
	assert.Equal(t, "1.20", p2.AssetsIndex().ID, "an older index never displaces a newer one")
}

func TestApplyProblemSeverityTakesMax(t *testing.T) {
	p := New()
	p.ApplyProblemSeverity(component.SeverityWarning)
	p.ApplyProblemSeverity(component.SeverityNone)
	assert.Equal(t, component.SeverityWarning, p.ProblemSeverity())

	p.ApplyProblemSeverity(component.SeverityError)
	assert.Equal(t, component.SeverityError, p.ProblemSeverity())
}

func TestAppendJarModsPreservesDeclaredOrder(t *testing.T) {
	p := New()
	p.AppendJarMods([]component.Library{{Name: mustSpec(t, "org.multimc:customjar1:1")}})
	p.AppendJarMods([]component.Library{{Name: mustSpec(t, "org.multimc:customjar2:1")}})

	mods := p.JarMods()
	assert.Len(t, mods, 2)
	assert.Equal(t, "customjar1", mods[0].Name.Artifact)
	assert.Equal(t, "customjar2", mods[1].Name.Artifact)
}
