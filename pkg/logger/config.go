package logger

import "time"

// Config holds the logger configuration.
type Config struct {
	// Level sets the minimum log level (debug, info, warn, error)
	Level string

	// Environment determines output format (development = console, production = JSON)
	Environment string

	// EnableConsole enables console output
	EnableConsole bool

	// EnableAudit enables the SQLite audit sink. Ignored when RetentionDays
	// is zero: a zero retention policy means no log rows are kept at all.
	EnableAudit bool

	// AuditDBPath is the path to the SQLite database file
	AuditDBPath string

	// AsyncBufferSize is the buffer size for async log writing
	AsyncBufferSize int

	// RetentionDays is the number of days to keep audit rows (0 = keep none)
	RetentionDays int

	// FlushInterval is how often to flush buffered entries to SQLite
	FlushInterval time.Duration

	// BatchSize is the maximum number of entries to write in a single batch
	BatchSize int
}

// DefaultConfig returns a Config with privacy-first defaults: console only,
// no audit rows retained.
func DefaultConfig() Config {
	return Config{
		Level:           "info",
		Environment:     "development",
		EnableConsole:   true,
		EnableAudit:     false,
		AuditDBPath:     "./data/audit.db",
		AsyncBufferSize: 1000,
		RetentionDays:   0,
		FlushInterval:   100 * time.Millisecond,
		BatchSize:       100,
	}
}
