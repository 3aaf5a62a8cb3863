package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FilePersister keeps the snapshot as one indented JSON document on disk.
// A missing or undecodable file reads as "no document", matching the
// load-all-or-initialize-defaults startup contract.
type FilePersister struct {
	Path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.Path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt document: treated as absent, a fresh one is seeded.
		return nil, nil
	}
	return &snap, nil
}

func (p *FilePersister) Save(snap *Snapshot) error {
	if dir := filepath.Dir(p.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.Path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p.Path, err)
	}
	return nil
}
