package meta

// MemoryIndex is an in-process Index fixture for tests and for offline
// use: it never makes network calls, and is seeded entirely by the
// caller via Put.
type MemoryIndex struct {
	uids map[string][]VersionHandle
}

// NewMemoryIndex returns an empty index. Populate it with Put before use.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{uids: make(map[string][]VersionHandle)}
}

// Put registers a version under its uid. Versions are kept in insertion
// order reversed, so the most recently Put version for a uid is Latest.
func (m *MemoryIndex) Put(v VersionHandle) {
	m.uids[v.UID] = append([]VersionHandle{v}, m.uids[v.UID]...)
}

func (m *MemoryIndex) HasUID(uid string) bool {
	_, ok := m.uids[uid]
	return ok
}

func (m *MemoryIndex) GetList(uid string) (VersionList, error) {
	versions, ok := m.uids[uid]
	if !ok {
		return nil, &ErrUIDNotFound{UID: uid}
	}
	return newStaticVersionList(uid, versions), nil
}

func (m *MemoryIndex) Get(uid, version string) (VersionHandle, error) {
	list, err := m.GetList(uid)
	if err != nil {
		return VersionHandle{}, err
	}
	if version == "" {
		if v, ok := list.Latest(); ok {
			return v, nil
		}
		return VersionHandle{}, &ErrVersionNotFound{UID: uid, Version: version}
	}
	v, ok := list.Get(version)
	if !ok {
		return VersionHandle{}, &ErrVersionNotFound{UID: uid, Version: version}
	}
	return v, nil
}
