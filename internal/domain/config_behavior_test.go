package domain_test

import (
	"testing"
	"time"

	"github.com/doeshing/irisform/internal/domain"
)

// TestConfig_RequestTimeout tests the endpoint timeout fallback
func TestConfig_RequestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{name: "uses configured timeout", seconds: 5, want: 5 * time.Second},
		{name: "falls back when zero", seconds: 0, want: 30 * time.Second},
		{name: "falls back when negative", seconds: -1, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Endpoint: domain.EndpointSettings{TimeoutSeconds: tt.seconds}}
			if got := cfg.RequestTimeout(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestConfig_TimestampLayout tests the history layout fallback
func TestConfig_TimestampLayout(t *testing.T) {
	cfg := domain.Config{}
	if got := cfg.TimestampLayout(); got != domain.DefaultTimestampLayout {
		t.Errorf("got %q, want default layout", got)
	}

	cfg.History.TimestampLayout = time.RFC3339
	if got := cfg.TimestampLayout(); got != time.RFC3339 {
		t.Errorf("got %q, want %q", got, time.RFC3339)
	}
}

// TestConfig_StorageDriver tests driver selection
func TestConfig_StorageDriver(t *testing.T) {
	tests := []struct {
		name       string
		driver     string
		wantDriver string
		wantSQLite bool
	}{
		{name: "defaults to sqlite", driver: "", wantDriver: "sqlite", wantSQLite: true},
		{name: "explicit sqlite", driver: "sqlite", wantDriver: "sqlite", wantSQLite: true},
		{name: "file driver", driver: "file", wantDriver: "file", wantSQLite: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domain.Config{Storage: domain.StorageSettings{Driver: tt.driver}}
			if got := cfg.StorageDriver(); got != tt.wantDriver {
				t.Errorf("got driver %q, want %q", got, tt.wantDriver)
			}
			if got := cfg.UsesSQLite(); got != tt.wantSQLite {
				t.Errorf("got UsesSQLite %v, want %v", got, tt.wantSQLite)
			}
		})
	}
}
