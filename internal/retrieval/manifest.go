package retrieval

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestFile is written into the persist directory after a successful build.
const ManifestFile = "manifest.json"

// Manifest describes what a persisted index was built from.
type Manifest struct {
	Embedder    string    `json:"embedder"`
	Dimension   int       `json:"dimension"`
	Fingerprint string    `json:"fingerprint"`
	Chunks      int       `json:"chunks"`
	BuiltAt     time.Time `json:"built_at"`
}

// Compatible reports whether an index built under m can serve queries for
// the given embedder and ingestion fingerprint.
func (m Manifest) Compatible(embedder, fingerprint string) bool {
	return m.Embedder == embedder && m.Fingerprint == fingerprint && m.Dimension > 0 && m.Chunks > 0
}

// Fingerprint hashes the ingestion inputs that define the index contents.
func Fingerprint(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// ReadManifest loads the manifest from dir. A missing file returns (nil, nil).
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// WriteManifest stores m atomically in dir.
func WriteManifest(dir string, m Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, ManifestFile+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return os.Rename(tmp, filepath.Join(dir, ManifestFile))
}

// RemoveManifest invalidates a persisted index before it is rebuilt.
func RemoveManifest(dir string) error {
	err := os.Remove(filepath.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
