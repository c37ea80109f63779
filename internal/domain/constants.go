package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Defaults applied when the config file leaves a value empty.
const (
	DefaultEndpointURL       = "http://localhost:8000/predict"
	DefaultTimeoutSeconds    = 30
	DefaultServerAddr        = "127.0.0.1:8080"
	DefaultStorageDriver     = StorageDriverSQLite
	DefaultHTTPClientTimeout = 60 * time.Second
)

// HistoryStorageKey is the storage key the history log is mirrored under.
const HistoryStorageKey = "predictionHistory"

// Submit control labels.
const (
	SubmitLabelIdle = "Predict Species"
	SubmitLabelBusy = "Predicting..."
)

// HistoryPlaceholder is shown instead of an empty history list.
const HistoryPlaceholder = "No prediction history yet."

// Prediction outcomes reported to metrics.
const (
	OutcomeSuccess      = "success"
	OutcomeRequestError = "request_error"
	OutcomeInvalidInput = "invalid_input"
)
