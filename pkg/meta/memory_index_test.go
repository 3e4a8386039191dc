package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryIndexHasUID(t *testing.T) {
	idx := NewMemoryIndex()
	assert.False(t, idx.HasUID("net.minecraft"))

	idx.Put(VersionHandle{UID: "net.minecraft", Version: "1.20.1"})
	assert.True(t, idx.HasUID("net.minecraft"))
}

func TestMemoryIndexLatestIsMostRecentlyPut(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Put(VersionHandle{UID: "net.minecraft", Version: "1.19.4"})
	idx.Put(VersionHandle{UID: "net.minecraft", Version: "1.20.1"})

	v, err := idx.Get("net.minecraft", "")
	assert.NoError(t, err)
	assert.Equal(t, "1.20.1", v.Version)
}

func TestMemoryIndexGetUnknownUID(t *testing.T) {
	idx := NewMemoryIndex()
	_, err := idx.Get("org.lwjgl3", "3.3.1")
	assert.Error(t, err)
	assert.IsType(t, &ErrUIDNotFound{}, err)
}

func TestMemoryIndexGetUnknownVersion(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Put(VersionHandle{UID: "net.minecraft", Version: "1.20.1"})

	_, err := idx.Get("net.minecraft", "1.99.9")
	assert.Error(t, err)
	assert.IsType(t, &ErrVersionNotFound{}, err)
}

func TestVersionListGet(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Put(VersionHandle{UID: "net.fabricmc.loader", Version: "0.15.0"})
	idx.Put(VersionHandle{UID: "net.fabricmc.loader", Version: "0.15.11"})

	list, err := idx.GetList("net.fabricmc.loader")
	assert.NoError(t, err)
	assert.Equal(t, "net.fabricmc.loader", list.UID())
	assert.Len(t, list.Versions(), 2)

	_, ok := list.Get("0.14.0")
	assert.False(t, ok)
}
