package store

import "encoding/json"

// MemoryPersister holds the serialized document in memory. It round-trips
// through JSON on every call so tests exercise the same encoding path as
// the durable persisters.
type MemoryPersister struct {
	doc []byte
}

func NewMemoryPersister() *MemoryPersister { return &MemoryPersister{} }

func (p *MemoryPersister) Load() (*Snapshot, error) {
	if p.doc == nil {
		return nil, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(p.doc, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (p *MemoryPersister) Save(snap *Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	p.doc = doc
	return nil
}
