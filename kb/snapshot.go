package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/persona-rag/go-persona/core"
)

// snapshotVersion is the current on-disk format version.
const snapshotVersion = 1

// snapshot is the serialized form of the document collection. The version
// tag and dimension let a load fail before any similarity computation runs.
type snapshot struct {
	Version   int        `json:"version"`
	Provider  string     `json:"provider"`
	Dimension int        `json:"dimension"`
	Documents []Document `json:"documents"`
}

// SaveSnapshot writes the full collection, including cached embeddings,
// to a single file so embeddings need not be recomputed on restart.
func (s *Store) SaveSnapshot(path string) error {
	s.mu.RLock()
	snap := snapshot{
		Version:   snapshotVersion,
		Provider:  s.provider.Name(),
		Dimension: s.provider.Dimensions(),
		Documents: s.docs,
	}
	data, err := json.Marshal(snap)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot replaces the store's collection with a previously saved one.
// A snapshot whose embedding dimension disagrees with the active provider
// is refused rather than producing nonsensical similarity scores.
func (s *Store) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: got %d, want %d", core.ErrSnapshotVersion, snap.Version, snapshotVersion)
	}
	if snap.Dimension != s.provider.Dimensions() {
		return fmt.Errorf("%w: snapshot has %d, provider %q expects %d",
			core.ErrDimensionMismatch, snap.Dimension, s.provider.Name(), s.provider.Dimensions())
	}
	for _, d := range snap.Documents {
		if len(d.Embedding) != snap.Dimension {
			return fmt.Errorf("%w: document %s has %d-dimensional embedding, snapshot declares %d",
				core.ErrDimensionMismatch, d.ID, len(d.Embedding), snap.Dimension)
		}
	}

	s.mu.Lock()
	s.docs = snap.Documents
	s.mu.Unlock()
	return nil
}
