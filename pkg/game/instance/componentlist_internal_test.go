package instance

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchwork.dev/launcher/pkg/game/component"
	"patchwork.dev/launcher/pkg/meta"
)

// TestScheduledSaveCoalescesRapidMutationsIntoOneWrite exercises
// scheduleSave's debounce timer directly, rather than calling Save
// itself: several mutations fired in quick succession must not touch
// the manifest on disk until the debounce window elapses, and must
// then leave it reflecting every mutation in a single write. Deleting
// the debounce timer (writing synchronously on every mutation instead)
// would fail the first assertion.
func TestScheduledSaveCoalescesRapidMutationsIntoOneWrite(t *testing.T) {
	root := t.TempDir()
	idx := meta.NewMemoryIndex()
	idx.Put(meta.VersionHandle{UID: builtinNetMinecraft, Version: "1.12.2"})
	idx.Put(meta.VersionHandle{UID: builtinOrgLwjgl, Version: "2.9.4"})

	require.NoError(t, writeManifest(root, &manifest{
		FormatVersion: manifestFormatVersion,
		Components: []manifestEntry{
			{UID: builtinNetMinecraft, CurrentVersion: "1.12.2"},
			{UID: builtinOrgLwjgl, CurrentVersion: "2.9.4"},
		},
	}))

	list := New(root, idx)
	require.NoError(t, list.Load())

	original := saveDebounce
	saveDebounce = 40 * time.Millisecond
	defer func() { saveDebounce = original }()

	before, err := os.ReadFile(manifestPath(root))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		uid := "org.example.mod" + string(rune('a'+i))
		ok := list.AppendComponent(component.NewLocal(uid, &component.VersionFile{UID: uid, Version: "1"}, "", nil))
		require.True(t, ok)
	}

	// The debounce window has not elapsed yet: the manifest on disk
	// must still be exactly what it was before any of the three
	// mutations above, proving the writes were deferred and coalesced
	// rather than applied synchronously.
	stillBefore, err := os.ReadFile(manifestPath(root))
	require.NoError(t, err)
	assert.Equal(t, before, stillBefore)

	list.mu.Lock()
	assert.True(t, list.dirty)
	list.mu.Unlock()

	time.Sleep(200 * time.Millisecond)

	after, err := os.ReadFile(manifestPath(root))
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	list.mu.Lock()
	assert.False(t, list.dirty)
	componentCount := len(list.components)
	list.mu.Unlock()
	assert.Equal(t, 5, componentCount)

	var m manifest
	require.NoError(t, json.Unmarshal(after, &m))
	assert.Len(t, m.Components, 5)
}
