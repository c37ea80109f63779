package history

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/ports"
)

// Manager mirrors the history log into a key/value storage.
type Manager struct {
	Storage ports.Storage
	Logger  ports.Logger
	Key     string
}

// NewManager builds a manager storing under domain.HistoryStorageKey.
func NewManager(storage ports.Storage, logger ports.Logger) *Manager {
	return &Manager{Storage: storage, Logger: logger, Key: domain.HistoryStorageKey}
}

// Load rehydrates the log. Missing or malformed data yields an empty log;
// logs longer than domain.MaxHistoryEntries are truncated.
func (m *Manager) Load() domain.HistoryLog {
	raw, ok, err := m.Storage.GetItem(m.key())
	if err != nil {
		m.warn("history read failed", map[string]interface{}{"error": err.Error()})
		return domain.HistoryLog{}
	}
	if !ok || raw == "" {
		return domain.HistoryLog{}
	}
	var log domain.HistoryLog
	if err := json.Unmarshal([]byte(raw), &log); err != nil {
		m.warn("history is malformed, starting empty", map[string]interface{}{"error": err.Error()})
		return domain.HistoryLog{}
	}
	if log == nil {
		return domain.HistoryLog{}
	}
	if len(log) > domain.MaxHistoryEntries {
		m.warn("history longer than limit, truncating", map[string]interface{}{"entries": len(log)})
	}
	return log.Truncate()
}

// Save serializes the full log under the history key.
func (m *Manager) Save(log domain.HistoryLog) error {
	if log == nil {
		log = domain.HistoryLog{}
	}
	data, err := json.Marshal(log.Truncate())
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := m.Storage.SetItem(m.key(), string(data)); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Clear removes the stored log.
func (m *Manager) Clear() error {
	if err := m.Storage.RemoveItem(m.key()); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Export writes the stored log to dest as indented JSON.
func (m *Manager) Export(dest string) error {
	data, err := json.MarshalIndent(m.Load(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(dest, append(data, '\n'), 0o644)
}

// Path returns the backing storage location.
func (m *Manager) Path() string {
	return m.Storage.Path()
}

func (m *Manager) key() string {
	if m.Key == "" {
		return domain.HistoryStorageKey
	}
	return m.Key
}

func (m *Manager) warn(msg string, fields map[string]interface{}) {
	if m.Logger != nil {
		m.Logger.Warn(msg, fields)
	}
}

var _ ports.HistoryRepository = (*Manager)(nil)
