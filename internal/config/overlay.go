package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// OverlayFile returns the overlay file name read for stage, or "" when the
// stage reads none.
func OverlayFile(stage Stage) string {
	switch stage {
	case StageDev:
		return ".env"
	case StageTest:
		return ".env.test"
	default:
		return ""
	}
}

// LoadOverlay merges the stage overlay file from dir into env. Non-empty
// values already in env are kept; empty ones count as unset. A missing file
// leaves env untouched.
func LoadOverlay(dir string, stage Stage, env Environment) error {
	name := OverlayFile(stage)
	if name == "" {
		return nil
	}

	values, err := godotenv.Read(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	for key, value := range values {
		if current, ok := env[key]; ok && current != "" {
			continue
		}
		env[key] = value
	}
	return nil
}
