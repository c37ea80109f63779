package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/irisform/internal/domain"
	"github.com/doeshing/irisform/internal/ports"
)

const probeKey = "irisform.doctor.probe"

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Storage        ports.Storage
	History        ports.HistoryRepository
	HTTPClient     *http.Client
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("loaded %s", cfg.ConfigFormatVersion)))

	if s.Storage != nil {
		checks = append(checks, storageCheck(s.Storage, cfg))
	} else {
		checks = append(checks, warn("Storage", "storage not initialized"))
	}

	if s.History != nil {
		checks = append(checks, historyCheck(s.History.Load(), storagePath(s.Storage)))
	}

	checks = append(checks, s.endpointCheck(ctx, cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func storageCheck(store ports.Storage, cfg domain.Config) domain.HealthCheck {
	if err := store.SetItem(probeKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fail("Storage", fmt.Sprintf("%s not writable: %v", store.Path(), err))
	}
	if err := store.RemoveItem(probeKey); err != nil {
		return warn("Storage", fmt.Sprintf("probe cleanup failed: %v", err))
	}
	return ok("Storage", fmt.Sprintf("%s (%s)", store.Path(), cfg.StorageDriver()))
}

func historyCheck(log domain.HistoryLog, path string) domain.HealthCheck {
	details := fmt.Sprintf("%d of %d entries", len(log), domain.MaxHistoryEntries)
	if path != "" {
		if info, err := os.Stat(path); err == nil {
			details = fmt.Sprintf("%s, %s on disk", details, humanize.Bytes(uint64(info.Size())))
		}
	}
	return ok("History", details)
}

func (s *Service) endpointCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, cfg.Endpoint.URL, nil)
	if err != nil {
		return fail("Endpoint", err.Error())
	}
	resp, err := client.Do(req)
	if err != nil {
		return warn("Endpoint", fmt.Sprintf("%s unreachable: %v", cfg.Endpoint.URL, err))
	}
	defer resp.Body.Close()
	return ok("Endpoint", fmt.Sprintf("%s answered %d", cfg.Endpoint.URL, resp.StatusCode))
}

func storagePath(store ports.Storage) string {
	if store == nil {
		return ""
	}
	return store.Path()
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
