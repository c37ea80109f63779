package domain

// Config mirrors ~/.irisform/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version" validate:"required"`
	Endpoint            EndpointSettings `yaml:"endpoint"`
	Storage             StorageSettings  `yaml:"storage"`
	History             HistorySettings  `yaml:"history"`
	Server              ServerSettings   `yaml:"server"`
	Metrics             MetricsSettings  `yaml:"metrics"`
}

// EndpointSettings locates the prediction service.
type EndpointSettings struct {
	URL            string `yaml:"url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=1,lte=600"`
}

// StorageSettings selects the durable storage backend.
type StorageSettings struct {
	Driver string `yaml:"driver" validate:"oneof=file sqlite"`
	Path   string `yaml:"path"`
}

// HistorySettings controls how history entries are stamped.
type HistorySettings struct {
	TimestampLayout string `yaml:"timestamp_layout"`
}

// ServerSettings configures the browser surface.
type ServerSettings struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// MetricsSettings toggles the Prometheus endpoint of the browser surface.
type MetricsSettings struct {
	Enabled bool `yaml:"enabled"`
}

// Storage drivers.
const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
)
