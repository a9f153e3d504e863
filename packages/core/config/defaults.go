package config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BaseDir:    "",
		Format:     "console",
		OutputFile: "",
		TimingFile: "",
		ForceColor: boolPtr(false),
		NoColor:    boolPtr(false),
		Follow:     boolPtr(false),
		Timing:     boolPtr(false),
		Notify:     boolPtr(false),
		NotifyOn:   "failure",
		Verbose:    boolPtr(false),
		Slowest:    intPtr(10),
		ExitZero:   boolPtr(false),
	}
}
