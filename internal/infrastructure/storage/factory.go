// Package storage provides the durable key/value stores behind the history log.
package storage

import (
	"path/filepath"

	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/pkg/filesystem"
	"github.com/doeshing/irisform/internal/ports"
)

// New opens the store selected by cfg. A SQLite database that cannot be
// opened falls back to the JSON file store next to it.
func New(cfg domain.Config, log ports.Logger) ports.Storage {
	path := ResolvePath(cfg)
	if !cfg.UsesSQLite() {
		return NewFileStore(path)
	}
	store, err := OpenSQLiteStore(path)
	if err != nil {
		fallback := filepath.Join(filepath.Dir(path), "storage.json")
		if log != nil {
			log.Warn("sqlite storage unavailable, using file store", map[string]interface{}{
				"path":     path,
				"fallback": fallback,
				"error":    err.Error(),
			})
		}
		return NewFileStore(fallback)
	}
	return store
}

// ResolvePath returns the configured path or the driver default under ~/.irisform.
func ResolvePath(cfg domain.Config) string {
	if cfg.Storage.Path != "" {
		return filesystem.ExpandPath(cfg.Storage.Path)
	}
	if cfg.UsesSQLite() {
		return filepath.Join(filesystem.AppDir(), "storage.db")
	}
	return filepath.Join(filesystem.AppDir(), "storage.json")
}
