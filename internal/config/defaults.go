package config

const (
	defaultDataDir           = "~/.local/share/stockpile"
	defaultLogDir            = "~/.local/share/stockpile/logs"
	defaultAPIBind           = "127.0.0.1:7295"
	defaultIdentifierPrefix  = "JA"
	defaultIdentifierPad     = 6
	defaultMiscLiteral       = "MISC"
	defaultDoneLiteral       = "DONE"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultRequestTimeout    = 30
	defaultAllocationRetries = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Identifier: Identifier{
			Prefix:   defaultIdentifierPrefix,
			PadWidth: defaultIdentifierPad,
		},
		Scanner: Scanner{
			BinPrefixes:     []string{"M"},
			StoragePrefixes: []string{"TS"},
			MiscLiteral:     defaultMiscLiteral,
			DoneLiteral:     defaultDoneLiteral,
		},
		Workflow: Workflow{
			RequestTimeout:    defaultRequestTimeout,
			AllocationRetries: defaultAllocationRetries,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
