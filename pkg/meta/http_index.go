package meta

import (
	"fmt"
	"sync"

	"patchwork.dev/launcher/pkg/utils"
)

// indexManifest mirrors the top-level index.json served by a meta server:
// a flat list of known uids.
type indexManifest struct {
	Packages []struct {
		UID  string `json:"uid"`
		Name string `json:"name"`
	} `json:"packages"`
}

// uidManifest mirrors a uid's own index, the list of versions it has
// published.
type uidManifest struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Versions []struct {
		Version       string        `json:"version"`
		Type          string        `json:"type"`
		ReleaseTime   string        `json:"releaseTime"`
		Requires      []requirement `json:"requires,omitempty"`
		ConflictsWith []requirement `json:"conflicts,omitempty"`
		Volatile      bool          `json:"volatile,omitempty"`
	} `json:"versions"`
}

type requirement struct {
	UID     string `json:"uid"`
	Equals  string `json:"equals,omitempty"`
	Suggest string `json:"suggests,omitempty"`
}

// HTTPIndex is a metadata index backed by a remote meta server over
// HTTP(S), matching the piston-meta-shaped endpoints the rest of the
// launcher already fetches at startup.
type HTTPIndex struct {
	BaseURL string

	mu       sync.Mutex
	uids     map[string]bool
	uidsInit bool
	lists    map[string]VersionList
}

// NewHTTPIndex builds an index rooted at baseURL. baseURL must already
// include any trailing path segment the server expects before
// "index.json" / "<uid>/index.json".
func NewHTTPIndex(baseURL string) *HTTPIndex {
	return &HTTPIndex{
		BaseURL: baseURL,
		uids:    make(map[string]bool),
		lists:   make(map[string]VersionList),
	}
}

func (h *HTTPIndex) loadUIDs() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.uidsInit {
		return nil
	}

	var manifest indexManifest
	opts := utils.NewRequestOptions("application/json", &manifest)
	if _, err := utils.DoRequest("GET", h.BaseURL+"/index.json", opts); err != nil {
		return fmt.Errorf("meta: fetch index.json: %w", err)
	}

	for _, pkg := range manifest.Packages {
		h.uids[pkg.UID] = true
	}
	h.uidsInit = true
	return nil
}

func (h *HTTPIndex) HasUID(uid string) bool {
	if err := h.loadUIDs(); err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.uids[uid]
}

func (h *HTTPIndex) GetList(uid string) (VersionList, error) {
	if !h.HasUID(uid) {
		return nil, &ErrUIDNotFound{UID: uid}
	}

	h.mu.Lock()
	if l, ok := h.lists[uid]; ok {
		h.mu.Unlock()
		return l, nil
	}
	h.mu.Unlock()

	var manifest uidManifest
	opts := utils.NewRequestOptions("application/json", &manifest)
	if _, err := utils.DoRequest("GET", h.BaseURL+"/"+uid+"/index.json", opts); err != nil {
		return nil, fmt.Errorf("meta: fetch %s/index.json: %w", uid, err)
	}

	versions := make([]VersionHandle, 0, len(manifest.Versions))
	for _, v := range manifest.Versions {
		versions = append(versions, VersionHandle{
			UID:           uid,
			Version:       v.Version,
			Name:          manifest.Name,
			Type:          v.Type,
			ReleaseTime:   v.ReleaseTime,
			Requires:      toRequirements(v.Requires),
			ConflictsWith: toRequirements(v.ConflictsWith),
			Volatile:      v.Volatile,
		})
	}

	list := newStaticVersionList(uid, versions)

	h.mu.Lock()
	h.lists[uid] = list
	h.mu.Unlock()

	return list, nil
}

func (h *HTTPIndex) Get(uid, version string) (VersionHandle, error) {
	list, err := h.GetList(uid)
	if err != nil {
		return VersionHandle{}, err
	}

	if version == "" {
		if v, ok := list.Latest(); ok {
			return h.fetchVersionData(v)
		}
		return VersionHandle{}, &ErrVersionNotFound{UID: uid, Version: version}
	}

	v, ok := list.Get(version)
	if !ok {
		return VersionHandle{}, &ErrVersionNotFound{UID: uid, Version: version}
	}
	return h.fetchVersionData(v)
}

// fetchVersionData pulls the per-version JSON (uid/version.json), the
// payload that gets merged into a launch profile, and attaches it to
// the handle.
func (h *HTTPIndex) fetchVersionData(v VersionHandle) (VersionHandle, error) {
	data, err := utils.DoRequest[any]("GET", h.BaseURL+"/"+v.UID+"/"+v.Version+".json", nil)
	if err != nil {
		return VersionHandle{}, fmt.Errorf("meta: fetch %s/%s.json: %w", v.UID, v.Version, err)
	}
	v.Data = data
	return v, nil
}

func toRequirements(in []requirement) []Requirement {
	out := make([]Requirement, 0, len(in))
	for _, r := range in {
		out = append(out, Requirement{UID: r.UID, Equals: r.Equals, Suggest: r.Suggest})
	}
	return out
}
