package launcher

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-ballot/ballot"
	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/chainaddr"
)

// Config aggregates everything a command run needs: the rules the snapshot
// is built under, where inputs come from, where outputs land, and how the
// tool logs.
type Config struct {
	Rules   ballot.Rules
	Input   InputConfig
	Output  OutputConfig
	Logging LoggingConfig
	Sentry  SentryConfig
}

// InputConfig names the snapshot source. When ArchivePath is set the
// snapshot is loaded from a stored archive and RegistrationsPath is ignored;
// otherwise it is rebuilt from the registration dump at RegistrationsPath.
type InputConfig struct {
	RegistrationsPath string
	ArchivePath       string
}

// OutputConfig decides where the rendered result goes and in which form.
type OutputConfig struct {
	Path        string // result destination; empty writes to stdout
	Format      string // text or json
	ArchivePath string // when set, the snapshot is also stored here as a compressed archive
}

// LoggingConfig mirrors the log.* flags.
type LoggingConfig struct {
	Verbosity int
	Format    string
	Color     bool
}

// SentryConfig carries the error reporting DSN. An empty DSN disables
// reporting.
type SentryConfig struct {
	DSN string
}

// -----------------------------------------------------------------------------
// Default config + builders
// -----------------------------------------------------------------------------

func defaultConfig() Config {
	d := DefaultConfig()
	rules, err := ballot.RulesByName(d.Preset)
	if err != nil {
		panic(err) // the default preset must resolve against the built-in table
	}
	return Config{
		Rules: rules,
		Logging: LoggingConfig{
			Verbosity: d.Logging.Verbosity,
			Format:    d.Logging.Format,
			Color:     d.Logging.Color,
		},
		Output: OutputConfig{
			Format: d.Output.Format,
		},
	}
}

// MakeAllConfigs merges defaults, optional config-file values, environment
// overrides and CLI flag overrides, in that order, into a single config
// struct. Later stages win.
func MakeAllConfigs(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()

	if file := ctx.String("config"); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", file, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := applyCLIOverrides(ctx, &cfg); err != nil {
		return Config{}, err
	}

	for _, path := range []string{cfg.Output.Path, cfg.Output.ArchivePath} {
		if path == "" {
			continue
		}
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Config-file / env / CLI wiring
// -----------------------------------------------------------------------------

// loadConfigFile overlays cfg with values from a JSON config file. Only the
// fields the file names are touched; everything else keeps its current
// value.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// ballotEnv mirrors the config knobs that can arrive through the
// environment. Every field is a raw string; empty means "not set", so unset
// variables never clobber values from earlier merge stages.
type ballotEnv struct {
	Registrations  string `env:"BALLOT_REGISTRATIONS"`
	FromArchive    string `env:"BALLOT_FROM_ARCHIVE"`
	Preset         string `env:"BALLOT_PRESET"`
	Threshold      string `env:"BALLOT_VOTES_THRESHOLD"`
	Purpose        string `env:"BALLOT_VOTES_PURPOSE"`
	Discrimination string `env:"BALLOT_GENESIS_DISCRIMINATION"`
	LogVerbosity   string `env:"BALLOT_LOG_VERBOSITY"`
	LogFormat      string `env:"BALLOT_LOG_FORMAT"`
	SentryDSN      string `env:"BALLOT_SENTRY_DSN"`
}

func applyEnvOverrides(cfg *Config) error {
	var raw ballotEnv
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	// The preset replaces the whole rules bundle, so it applies before the
	// finer-grained overrides.
	if raw.Preset != "" {
		rules, err := ballot.RulesByName(raw.Preset)
		if err != nil {
			return err
		}
		cfg.Rules = rules
	}
	if raw.Threshold != "" {
		v, err := strconv.ParseUint(raw.Threshold, 10, 64)
		if err != nil {
			return fmt.Errorf("parse BALLOT_VOTES_THRESHOLD: %w", err)
		}
		cfg.Rules.Votes.MinStakeThreshold = inter.Value(v)
	}
	if raw.Purpose != "" {
		v, err := strconv.ParseUint(raw.Purpose, 10, 64)
		if err != nil {
			return fmt.Errorf("parse BALLOT_VOTES_PURPOSE: %w", err)
		}
		cfg.Rules.Votes.VotingPurpose = inter.VotingPurpose(v)
	}
	if raw.Discrimination != "" {
		d, err := chainaddr.DiscriminationFromString(raw.Discrimination)
		if err != nil {
			return err
		}
		cfg.Rules.Genesis.Discrimination = d
	}

	if raw.Registrations != "" {
		cfg.Input.RegistrationsPath = resolvePath(raw.Registrations)
	}
	if raw.FromArchive != "" {
		cfg.Input.ArchivePath = resolvePath(raw.FromArchive)
	}
	if raw.LogVerbosity != "" {
		v, err := strconv.Atoi(raw.LogVerbosity)
		if err != nil {
			return fmt.Errorf("parse BALLOT_LOG_VERBOSITY: %w", err)
		}
		cfg.Logging.Verbosity = v
	}
	if raw.LogFormat != "" {
		cfg.Logging.Format = raw.LogFormat
	}
	if raw.SentryDSN != "" {
		cfg.Sentry.DSN = raw.SentryDSN
	}
	return nil
}

func applyCLIOverrides(ctx *cli.Context, cfg *Config) error {
	if ctx.IsSet("preset") {
		rules, err := ballot.RulesByName(ctx.String("preset"))
		if err != nil {
			return err
		}
		cfg.Rules = rules
	}
	if ctx.IsSet("votes.threshold") {
		cfg.Rules.Votes.MinStakeThreshold = inter.Value(ctx.Uint64("votes.threshold"))
	}
	if ctx.IsSet("votes.purpose") {
		cfg.Rules.Votes.VotingPurpose = inter.VotingPurpose(ctx.Uint64("votes.purpose"))
	}
	if ctx.IsSet("genesis.discrimination") {
		d, err := chainaddr.DiscriminationFromString(ctx.String("genesis.discrimination"))
		if err != nil {
			return err
		}
		cfg.Rules.Genesis.Discrimination = d
	}

	if ctx.IsSet("registrations") {
		cfg.Input.RegistrationsPath = resolvePath(ctx.String("registrations"))
	}
	if ctx.IsSet("from-archive") {
		cfg.Input.ArchivePath = resolvePath(ctx.String("from-archive"))
	}

	if ctx.IsSet("out") {
		cfg.Output.Path = resolvePath(ctx.String("out"))
	}
	if ctx.IsSet("output.format") {
		cfg.Output.Format = ctx.String("output.format")
	}
	if ctx.IsSet("archive") {
		cfg.Output.ArchivePath = resolvePath(ctx.String("archive"))
	}

	if ctx.IsSet("log.format") {
		cfg.Logging.Format = ctx.String("log.format")
	}
	if ctx.IsSet("log.verbosity") {
		cfg.Logging.Verbosity = ctx.Int("log.verbosity")
	}
	if ctx.IsSet("log.color") {
		cfg.Logging.Color = ctx.Bool("log.color")
	}
	if ctx.IsSet("sentry.dsn") {
		cfg.Sentry.DSN = ctx.String("sentry.dsn")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return nil
}

func resolvePath(p string) string {
	if strings.HasPrefix(p, "~") {
		return filepath.Join(GuessHomeDir(), strings.TrimPrefix(p, "~"))
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(GuessWorkDir(), p)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func GuessWorkDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func GuessHomeDir() string {
	if dir, err := os.UserHomeDir(); err == nil {
		return dir
	}
	return "."
}

func GuessProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd // hit filesystem root without finding go.mod
		}
		dir = parent
	}
}
