package consolidate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ghodss/yaml"
)

// MemStore keeps records in memory, one slot per rank. It is the store used
// when all ranks share one process.
type MemStore struct {
	mu   sync.Mutex
	recs map[int]Record
}

func NewMemStore() *MemStore {
	return &MemStore{recs: make(map[int]Record)}
}

func (m *MemStore) Put(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.recs[r.Rank]; exists {
		return fmt.Errorf("store: rank %d record already written", r.Rank)
	}
	m.recs[r.Rank] = r
	return nil
}

func (m *MemStore) List() (recs []Record, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.recs {
		recs = append(recs, r)
	}
	return
}

// FileStore persists one YAML file per rank under a directory, the durable
// form used when ranks are separate processes. The rank is embedded in the
// record itself; the file name is only a convenience.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) Put(r Record) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	name := filepath.Join(f.Dir, fmt.Sprintf("rank-%04d.yaml", r.Rank))
	if _, err = os.Stat(name); err == nil {
		return fmt.Errorf("store: %s already written", name)
	}
	return os.WriteFile(name, data, 0o644)
}

func (f *FileStore) List() (recs []Record, err error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.Dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var r Record
		if err = yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("store: %s: %w", e.Name(), err)
		}
		recs = append(recs, r)
	}
	return
}
