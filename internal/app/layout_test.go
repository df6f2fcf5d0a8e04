package app

import "testing"

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name                    string
		width, height           int
		showPinned, showPreview bool
		footer                  int
		wantPinned, wantPreview int
		wantFiles, wantHeight   int
	}{
		{"all panels", 120, 40, true, true, 2, 24, 40, 56, 38},
		{"no sidebars", 120, 40, false, false, 1, 0, 0, 120, 39},
		{"pinned clamped", 60, 30, true, false, 1, 15, 0, 45, 29},
		{"preview clamped", 60, 30, false, true, 0, 0, 30, 30, 30},
		{"degenerate", 0, 0, true, true, 1, 0, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.width, tt.height, tt.showPinned, tt.showPreview, tt.footer, 24, 40)
			if l.PinnedWidth != tt.wantPinned {
				t.Errorf("PinnedWidth = %d, want %d", l.PinnedWidth, tt.wantPinned)
			}
			if l.PreviewWidth != tt.wantPreview {
				t.Errorf("PreviewWidth = %d, want %d", l.PreviewWidth, tt.wantPreview)
			}
			if l.FilesWidth != tt.wantFiles {
				t.Errorf("FilesWidth = %d, want %d", l.FilesWidth, tt.wantFiles)
			}
			if l.Height != tt.wantHeight {
				t.Errorf("Height = %d, want %d", l.Height, tt.wantHeight)
			}
		})
	}
}
