package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// writeExitFiles writes the final directory to cwdFile and the chosen paths,
// one per line, to chooserFile. Empty names are skipped, as is the chooser
// file when nothing was chosen.
func writeExitFiles(cwdFile, chooserFile, cwd string, chosen []string) error {
	var errs []error

	if cwdFile != "" {
		if err := os.WriteFile(cwdFile, []byte(cwd), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write cwd file: %w", err))
		}
	}

	if chooserFile != "" && len(chosen) > 0 {
		data := strings.Join(chosen, "\n") + "\n"
		if err := os.WriteFile(chooserFile, []byte(data), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write chooser file: %w", err))
		}
	}

	return errors.Join(errs...)
}
