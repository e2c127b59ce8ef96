package launcher

// Defaults bundles the baseline configuration values the tool uses before
// config files, environment variables and CLI flags override them.

type Defaults struct {
	Preset  string // Name of the rules preset resolved at startup (main, test or fake). Everything rules-related (threshold, purpose, discrimination) follows from it unless overridden.
	Logging LoggingDefaults
	Output  OutputDefaults
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    // Log level numeric (0=fatal, 1=error, 2=warn, 3=info, 4=debug, 5=trace).
	Format    string // Log output format (text vs json).
	Color     bool   // Whether to use ANSI color codes in logs (helpful on terminals, best disabled when piping to files).
}

// OutputDefaults controls how results render when no flag says otherwise.
type OutputDefaults struct {
	Format string // Result rendering (text vs json). Results default to JSON since they usually feed the genesis builder, not a human.
}

// DefaultConfig returns a fully populated Defaults instance.
func DefaultConfig() Defaults {
	return Defaults{
		Preset: "main",
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
		Output: OutputDefaults{
			Format: "json",
		},
	}
}
