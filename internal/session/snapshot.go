package session

import "github.com/pfassina/rovr/internal/config"

// Region names a togglable part of the explorer.
type Region int

const (
	RegionFooter Region = iota
	RegionPinnedSidebar
	RegionPreviewSidebar
)

func (r Region) String() string {
	switch r {
	case RegionFooter:
		return "footer"
	case RegionPinnedSidebar:
		return "pinned_sidebar"
	case RegionPreviewSidebar:
		return "preview_sidebar"
	}
	return "unknown"
}

// CompactTag is the style tag present while compact mode is on.
const CompactTag = "compact"

// Inspector answers questions about a running explorer. ok is false when the
// answer is not available, e.g. the region was never mounted.
type Inspector interface {
	RegionVisible(r Region) (visible, ok bool)
	StyleTags() (tags []string, ok bool)
}

// FromApp snapshots the toggles of a running explorer. A question the
// inspector cannot answer leaves that field unset; it never aborts the rest.
//
// show_hidden_files comes from cfg when it has a settings table.
func FromApp(in Inspector, cfg *config.Config) State {
	st := State{Version: SchemaVersion}

	if cfg != nil {
		if _, ok := cfg.Lookup("settings"); ok {
			st.ShowHiddenFiles = Ptr(cfg.Bool("settings.show_hidden_files", false))
		}
	}

	if in == nil {
		return st
	}

	st.FooterVisible = regionFlag(in, RegionFooter)
	st.PinnedSidebarVisible = regionFlag(in, RegionPinnedSidebar)
	st.PreviewVisible = regionFlag(in, RegionPreviewSidebar)

	if tags, ok := in.StyleTags(); ok {
		compact := false
		for _, t := range tags {
			if t == CompactTag {
				compact = true
				break
			}
		}
		st.CompactMode = Ptr(compact)
	}

	return st
}

func regionFlag(in Inspector, r Region) *bool {
	visible, ok := in.RegionVisible(r)
	if !ok {
		return nil
	}
	return Ptr(visible)
}
