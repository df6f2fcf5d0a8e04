package app

import (
	"github.com/pfassina/rovr/internal/preview"
)

// dirChangedMsg is sent by the watcher when the current directory changed on
// disk.
type dirChangedMsg struct{ dir string }

// watchErrMsg carries a watcher error; the listing keeps working without
// live refresh.
type watchErrMsg struct{ err error }

// previewMsg carries a finished preview render.
type previewMsg struct{ res preview.Result }

// editorDoneMsg is sent when an external editor process exits.
type editorDoneMsg struct{ err error }
