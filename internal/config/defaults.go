package config

const (
	defaultDataDir          = "~/.local/share/greenlight"
	defaultLogDir           = "~/.local/share/greenlight/logs"
	defaultAPIBind          = "127.0.0.1:7474"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultRequestTimeout   = 10
	defaultDispatchInterval = 5
	defaultMaxAttempts      = 8
	defaultMaxBackoff       = 300
	defaultMaxRetries       = 3
	defaultActor            = "system"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Orchestrator: Orchestrator{
			RequestTimeout:   defaultRequestTimeout,
			DispatchInterval: defaultDispatchInterval,
			MaxAttempts:      defaultMaxAttempts,
			MaxBackoff:       defaultMaxBackoff,
		},
		Workflow: Workflow{
			MaxRetries:   defaultMaxRetries,
			DefaultActor: defaultActor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
