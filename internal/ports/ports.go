// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The form controller and the other application services depend only on the
// abstractions below. Adapters in the infrastructure layer (HTTP prediction
// client, file and SQLite storage, terminal and browser surfaces) implement
// them, so the controller never touches a concrete transport or widget toolkit.
package ports

import (
	"context"
	"time"

	"github.com/doeshing/irisform/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.irisform/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Predictor performs the single round trip to the prediction endpoint.
// Failures are reported as *domain.RequestError.
type Predictor interface {
	Predict(context.Context, domain.FeatureVector) (domain.Prediction, error)
}

// Storage is a string key/value store mirroring browser local storage.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Path() string
}

// HistoryRepository persists the bounded history log.
type HistoryRepository interface {
	Load() domain.HistoryLog
	Save(domain.HistoryLog) error
	Clear() error
}

// Alerter delivers a blocking, user-facing message such as a validation error.
type Alerter interface {
	Alert(message string)
}

// PredictionMetrics records the outcome of prediction round trips.
type PredictionMetrics interface {
	ObservePrediction(outcome string, elapsed time.Duration)
	SetHistorySize(n int)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
