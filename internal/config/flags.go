package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagAbort    = flag.Bool("abort", false, "Stop at the first file that fails to convert")
	flagWatch    = flag.Bool("watch", false, "Re-convert when inputs change")
	flagExt      = flag.String("ext", "", "Output file extension")
	flagEncoding = flag.String("encoding", "", "Text encoding of input files")
	flagLogFile  = flag.String("log-file", "", "Write logs to this file")
	flagSave     = flag.Bool("save-config", false, "Save the effective config to the user config directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAbort {
		cfg.Convert.AbortOnError = true
	}
	if *flagWatch {
		cfg.Watch.Enabled = true
	}
	if *flagExt != "" {
		cfg.Convert.OutputExt = *flagExt
	}
	if *flagEncoding != "" {
		cfg.Convert.InputEncoding = *flagEncoding
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
