package domain

import "time"

// RequestTimeout returns the per-request timeout for the prediction endpoint.
func (c *Config) RequestTimeout() time.Duration {
	if c.Endpoint.TimeoutSeconds <= 0 {
		return time.Duration(DefaultTimeoutSeconds) * time.Second
	}
	return time.Duration(c.Endpoint.TimeoutSeconds) * time.Second
}

// TimestampLayout returns the layout used to stamp history entries.
func (c *Config) TimestampLayout() string {
	if c.History.TimestampLayout == "" {
		return DefaultTimestampLayout
	}
	return c.History.TimestampLayout
}

// StorageDriver returns the configured driver or the default one.
func (c *Config) StorageDriver() string {
	if c.Storage.Driver == "" {
		return DefaultStorageDriver
	}
	return c.Storage.Driver
}

// UsesSQLite reports whether history is kept in the SQLite key/value table.
func (c *Config) UsesSQLite() bool {
	return c.StorageDriver() == StorageDriverSQLite
}
