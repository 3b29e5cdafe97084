package config

const (
	defaultDataDir       = "~/.local/share/rollcall"
	defaultLogDir        = "~/.local/share/rollcall/logs"
	defaultDBDriver      = "sqlite"
	defaultDBHost        = "127.0.0.1"
	defaultDBPort        = 3306
	defaultIngestMode    = "auto"
	defaultColumnMapping = "dated"
	defaultBatchSize     = 100
	defaultDelimiter     = ","
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Database: Database{
			Driver: defaultDBDriver,
			Host:   defaultDBHost,
			Port:   defaultDBPort,
		},
		Ingest: Ingest{
			Mode:          defaultIngestMode,
			ColumnMapping: defaultColumnMapping,
			BatchSize:     defaultBatchSize,
			Delimiter:     defaultDelimiter,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
