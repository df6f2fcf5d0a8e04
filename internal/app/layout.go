package app

// Layout computes the dimensions for each panel.
type Layout struct {
	PinnedWidth  int
	FilesWidth   int
	PreviewWidth int
	Height       int
	FooterHeight int
}

// ComputeLayout calculates panel dimensions based on total width/height,
// which sidebars are visible and how tall the footer is (0 when hidden).
func ComputeLayout(totalWidth, totalHeight int, showPinned, showPreview bool, footerHeight, pinnedWidth, previewWidth int) Layout {
	// Some terminals momentarily report 0 (or negative) sizes during resizes.
	if totalWidth < 1 {
		totalWidth = 1
	}
	if footerHeight < 0 {
		footerHeight = 0
	}
	if totalHeight < footerHeight+1 {
		totalHeight = footerHeight + 1
	}

	l := Layout{
		FooterHeight: footerHeight,
		Height:       totalHeight - footerHeight,
	}

	remaining := totalWidth

	if showPinned {
		l.PinnedWidth = pinnedWidth
		if l.PinnedWidth > remaining/4 {
			l.PinnedWidth = remaining / 4
		}
		remaining -= l.PinnedWidth
	}

	if showPreview {
		l.PreviewWidth = previewWidth
		if l.PreviewWidth > remaining/2 {
			l.PreviewWidth = remaining / 2
		}
		remaining -= l.PreviewWidth
	}

	l.FilesWidth = remaining
	if l.FilesWidth < 1 {
		l.FilesWidth = 1
	}

	return l
}
