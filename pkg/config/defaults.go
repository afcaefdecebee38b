package config

// Default values applied by DefaultConfig and by LoadConfig after decoding.
const (
	// DefaultConfigFile is the config file name looked up in the working directory.
	DefaultConfigFile = "covert.yml"

	// DefaultStrategy is the update execution strategy.
	DefaultStrategy = "sequential"

	// DefaultMaxParallel bounds concurrent installs in parallel mode.
	DefaultMaxParallel = 3

	// DefaultVersionPolicy is the version policy applied when none is configured.
	DefaultVersionPolicy = "safe"

	// DefaultTestCommand is the test runner invoked for validation.
	DefaultTestCommand = "pytest"

	// DefaultTestTimeoutSeconds bounds a single test run.
	DefaultTestTimeoutSeconds = 300

	// DefaultBackupLocation is the directory for requirement snapshots.
	DefaultBackupLocation = "./backups"

	// DefaultBackupRetentionDays controls snapshot retention.
	DefaultBackupRetentionDays = 30

	// DefaultBackupFormat is the snapshot file format.
	DefaultBackupFormat = BackupFormatTxt

	// DefaultLogLevel is the logger level when none is configured.
	DefaultLogLevel = "info"
)

// Snapshot file formats accepted by backup.format.
const (
	BackupFormatTxt  = "txt"
	BackupFormatJSON = "json"
)

// DefaultConfig returns the built-in configuration used when no config file
// is present. Testing and backups are enabled: covert's whole point is to
// validate updates and keep an escape hatch.
//
// Returns:
//   - *Config: Configuration populated with default values
func DefaultConfig() *Config {
	return &Config{
		Updates: UpdatesCfg{
			Strategy:      DefaultStrategy,
			MaxParallel:   DefaultMaxParallel,
			VersionPolicy: DefaultVersionPolicy,
		},
		Testing: TestingCfg{
			Enabled:        true,
			Command:        DefaultTestCommand,
			Args:           []string{"-v", "--tb=short"},
			TimeoutSeconds: DefaultTestTimeoutSeconds,
		},
		Backup: BackupCfg{
			Enabled:       true,
			Location:      DefaultBackupLocation,
			RetentionDays: DefaultBackupRetentionDays,
			Format:        DefaultBackupFormat,
		},
		Logging: LoggingCfg{
			Level: DefaultLogLevel,
		},
	}
}

// applyDefaults fills zero-valued fields after YAML decoding so a partial
// config file behaves like the defaults for everything it omits.
func applyDefaults(cfg *Config) {
	if cfg.Updates.Strategy == "" {
		cfg.Updates.Strategy = DefaultStrategy
	}
	if cfg.Updates.MaxParallel == 0 {
		cfg.Updates.MaxParallel = DefaultMaxParallel
	}
	if cfg.Updates.VersionPolicy == "" {
		cfg.Updates.VersionPolicy = DefaultVersionPolicy
	}
	if cfg.Testing.Command == "" {
		cfg.Testing.Command = DefaultTestCommand
	}
	if cfg.Testing.TimeoutSeconds == 0 {
		cfg.Testing.TimeoutSeconds = DefaultTestTimeoutSeconds
	}
	if cfg.Backup.Location == "" {
		cfg.Backup.Location = DefaultBackupLocation
	}
	if cfg.Backup.RetentionDays == 0 {
		cfg.Backup.RetentionDays = DefaultBackupRetentionDays
	}
	if cfg.Backup.Format == "" {
		cfg.Backup.Format = DefaultBackupFormat
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
}
