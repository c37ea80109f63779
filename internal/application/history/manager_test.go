package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/infrastructure/storage"
	"github.com/doeshing/irisform/internal/pkg/logger"
)

type memStorage struct {
	items  map[string]string
	getErr error
	setErr error
}

func newMemStorage() *memStorage {
	return &memStorage{items: map[string]string{}}
}

func (m *memStorage) GetItem(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memStorage) SetItem(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = value
	return nil
}

func (m *memStorage) RemoveItem(key string) error {
	delete(m.items, key)
	return nil
}

func (m *memStorage) Path() string { return "memory" }

func entries(n int) domain.HistoryLog {
	log := make(domain.HistoryLog, 0, n)
	for i := 0; i < n; i++ {
		log = append(log, domain.HistoryEntry{
			Timestamp:  fmt.Sprintf("t%d", i),
			Features:   domain.FeatureVector{float64(i), 1, 1, 1},
			Prediction: domain.Prediction(i % 3),
			Species:    domain.SpeciesLabel(domain.Prediction(i % 3)),
		})
	}
	return log
}

func TestManagerLoadAbsent(t *testing.T) {
	m := NewManager(newMemStorage(), logger.NewNop())
	log := m.Load()
	if log == nil || len(log) != 0 {
		t.Fatalf("expected empty non-nil log, got %#v", log)
	}
}

func TestManagerLoadMalformed(t *testing.T) {
	store := newMemStorage()
	store.items[domain.HistoryStorageKey] = "{not json"
	m := NewManager(store, logger.NewNop())
	if log := m.Load(); len(log) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(log))
	}

	store.items[domain.HistoryStorageKey] = "null"
	if log := m.Load(); log == nil || len(log) != 0 {
		t.Fatalf("expected empty log for null, got %#v", log)
	}
}

func TestManagerLoadReadError(t *testing.T) {
	store := newMemStorage()
	store.getErr = errors.New("disk gone")
	m := NewManager(store, logger.NewNop())
	if log := m.Load(); len(log) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(log))
	}
}

func TestManagerRoundTripPreservesOrder(t *testing.T) {
	store := newMemStorage()
	m := NewManager(store, logger.NewNop())
	if err := m.Save(entries(3)); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	restarted := NewManager(store, logger.NewNop())
	log := restarted.Load()
	if len(log) != 3 {
		t.Fatalf("len = %d, want 3", len(log))
	}
	for i, e := range log {
		if e.Timestamp != fmt.Sprintf("t%d", i) {
			t.Fatalf("entry %d out of order: %+v", i, e)
		}
	}
}

func TestManagerLoadTruncatesLongLog(t *testing.T) {
	store := newMemStorage()
	data, err := json.Marshal(entries(15))
	if err != nil {
		t.Fatal(err)
	}
	store.items[domain.HistoryStorageKey] = string(data)

	log := NewManager(store, logger.NewNop()).Load()
	if len(log) != domain.MaxHistoryEntries {
		t.Fatalf("len = %d, want %d", len(log), domain.MaxHistoryEntries)
	}
	if log[0].Timestamp != "t0" || log[9].Timestamp != "t9" {
		t.Fatalf("kept wrong entries: first=%s last=%s", log[0].Timestamp, log[9].Timestamp)
	}
}

func TestManagerSaveError(t *testing.T) {
	store := newMemStorage()
	store.setErr = errors.New("quota exceeded")
	err := NewManager(store, logger.NewNop()).Save(entries(1))
	if err == nil || !errors.Is(err, store.setErr) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

func TestManagerClearAndExport(t *testing.T) {
	store := newMemStorage()
	m := NewManager(store, logger.NewNop())
	if err := m.Save(entries(2)); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "history.json")
	if err := m.Export(dest); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	var exported domain.HistoryLog
	if err := json.Unmarshal(raw, &exported); err != nil || len(exported) != 2 {
		t.Fatalf("unexpected export %s (%v)", raw, err)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if _, ok := store.items[domain.HistoryStorageKey]; ok {
		t.Fatal("history key still present after Clear")
	}
}

func TestClearWithCorruptFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	if err := os.WriteFile(path, []byte("{garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	m := NewManager(storage.NewFileStore(path), logger.NewNop())

	if got := m.Load(); len(got) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(got))
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
}
