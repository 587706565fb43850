package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const fingerprintFile = "fingerprint"

// defaultFingerprintPath resolves the per-user fingerprint location,
// falling back to the working directory when no config dir exists.
func defaultFingerprintPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "miso", fingerprintFile)
	}
	return filepath.Join(".miso", fingerprintFile)
}

// loadOrCreateFingerprint returns the persisted fingerprint, minting and
// storing a fresh one on first use. The same fingerprint keeps a caller's
// quota stable across restarts and IP changes.
func loadOrCreateFingerprint(path string) (string, error) {
	if raw, err := os.ReadFile(path); err == nil {
		if fp := strings.TrimSpace(string(raw)); fp != "" {
			return fp, nil
		}
	}

	fp := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create fingerprint dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(fp), 0o600); err != nil {
		return "", fmt.Errorf("failed to store fingerprint: %w", err)
	}
	return fp, nil
}
