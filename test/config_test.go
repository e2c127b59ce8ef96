package test

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-ballot/ballot"
	"github.com/rony4d/go-ballot/cmd/ballot/launcher"
	"github.com/rony4d/go-ballot/flags"
	"github.com/rony4d/go-ballot/inter/chainaddr"
)

// helper to run MakeAllConfigs with a synthetic CLI context.

func runConfigFromArgs(t *testing.T, args []string) launcher.Config {
	t.Helper()

	got, err := tryConfigFromArgs(t, args)
	if err != nil {
		t.Fatalf("MakeAllConfigs failed: %v", err)
	}
	return got
}

// tryConfigFromArgs is runConfigFromArgs without the failure shortcut, for
// scenarios that expect MakeAllConfigs to reject its input.
func tryConfigFromArgs(t *testing.T, args []string) (launcher.Config, error) {
	t.Helper()

	app := cli.NewApp()
	app.HideHelp = true
	app.HideVersion = true

	// Register the same flag groups the real commands carry.
	app.Flags = append(app.Flags, flags.CommonFlags()...)
	app.Flags = append(app.Flags, flags.SnapshotFlags()...)
	app.Flags = append(app.Flags, flags.OutputFlags()...)

	var got launcher.Config
	var gotErr error

	app.Action = func(c *cli.Context) error {
		got, gotErr = launcher.MakeAllConfigs(c)
		return nil
	}

	if err := app.Run(append([]string{"ballot"}, args...)); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
	return got, gotErr
}

// TestMakeAllConfigs_flagOverrides verifies that every command-line flag we
// declare correctly overrides the corresponding field in the aggregated
// Config struct. The test iterates through representative flag combinations
// and asserts that MakeAllConfigs applies them as expected.
//
// Each sub-test feeds custom CLI arguments into a synthetic app, invokes
// launcher.MakeAllConfigs, and checks the bits of the resulting struct that
// should have changed.
func TestMakeAllConfigs_flagOverrides(t *testing.T) {
	projectRoot := launcher.GuessProjectRoot()

	tests := []struct {
		name string                                  // descriptive name for the scenario
		args []string                                // CLI arguments to feed into MakeAllConfigs
		want func(t *testing.T, cfg launcher.Config) // assertion helper examining the final config
	}{
		{
			name: "defaults without flags",
			args: nil,
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Rules.Name != "main" {
					t.Fatalf("Rules.Name = %q, want main", cfg.Rules.Name)
				}
				if cfg.Rules.NetworkID != ballot.MainNetworkID {
					t.Fatalf("NetworkID = %#x, want %#x", cfg.Rules.NetworkID, ballot.MainNetworkID)
				}
				if cfg.Rules.Votes.MinStakeThreshold != ballot.DefaultMinStakeThreshold {
					t.Fatalf("MinStakeThreshold = %d, want %d", cfg.Rules.Votes.MinStakeThreshold, ballot.DefaultMinStakeThreshold)
				}
				if cfg.Logging.Verbosity != 3 || cfg.Logging.Format != "text" {
					t.Fatalf("Logging = %+v, want verbosity 3, text format", cfg.Logging)
				}
				if cfg.Output.Format != "json" {
					t.Fatalf("Output.Format = %q, want json", cfg.Output.Format)
				}
				if cfg.Input.RegistrationsPath != "" || cfg.Input.ArchivePath != "" {
					t.Fatalf("Input = %+v, want empty paths", cfg.Input)
				}
			},
		},

		{
			name: "preset selects the whole rules bundle",
			args: []string{"--preset", "test"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Rules.Name != "test" {
					t.Fatalf("Rules.Name = %q, want test", cfg.Rules.Name)
				}
				if cfg.Rules.NetworkID != ballot.TestNetworkID {
					t.Fatalf("NetworkID = %#x, want %#x", cfg.Rules.NetworkID, ballot.TestNetworkID)
				}
				// Testnet mints test-discriminated addresses.
				if cfg.Rules.Genesis.Discrimination != chainaddr.Test {
					t.Fatalf("Discrimination = %v, want test", cfg.Rules.Genesis.Discrimination)
				}
			},
		},

		{
			name: "explicit vote overrides trump the preset",
			args: []string{"--preset", "fake", "--votes.threshold", "123", "--votes.purpose", "7"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Rules.Name != "fake" {
					t.Fatalf("Rules.Name = %q, want fake", cfg.Rules.Name)
				}
				// The fake preset carries a zero threshold; the explicit flag must win.
				if cfg.Rules.Votes.MinStakeThreshold != 123 {
					t.Fatalf("MinStakeThreshold = %d, want 123", cfg.Rules.Votes.MinStakeThreshold)
				}
				if cfg.Rules.Votes.VotingPurpose != 7 {
					t.Fatalf("VotingPurpose = %d, want 7", cfg.Rules.Votes.VotingPurpose)
				}
			},
		},

		{
			name: "genesis discrimination override keeps the rest of the preset",
			args: []string{"--genesis.discrimination", "test"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Rules.Genesis.Discrimination != chainaddr.Test {
					t.Fatalf("Discrimination = %v, want test", cfg.Rules.Genesis.Discrimination)
				}
				// Only the discrimination changes; thresholds stay mainnet.
				if cfg.Rules.Name != "main" || cfg.Rules.Votes.MinStakeThreshold != ballot.DefaultMinStakeThreshold {
					t.Fatalf("Rules = %+v, want main rules otherwise", cfg.Rules)
				}
			},
		},

		{
			name: "relative input paths resolve against the working directory",
			args: []string{"--registrations", "dumps/regs.json", "--from-archive", "snap.arch"},
			want: func(t *testing.T, cfg launcher.Config) {
				wantRegs := filepath.Join(launcher.GuessWorkDir(), "dumps/regs.json")
				if cfg.Input.RegistrationsPath != wantRegs {
					t.Fatalf("RegistrationsPath = %q, want %q", cfg.Input.RegistrationsPath, wantRegs)
				}
				wantArch := filepath.Join(launcher.GuessWorkDir(), "snap.arch")
				if cfg.Input.ArchivePath != wantArch {
					t.Fatalf("ArchivePath = %q, want %q", cfg.Input.ArchivePath, wantArch)
				}
			},
		},

		{
			name: "absolute input paths are kept verbatim",
			args: []string{"--registrations", filepath.Join(projectRoot, "testdata", "registrations.json")},
			want: func(t *testing.T, cfg launcher.Config) {
				want := filepath.Join(projectRoot, "testdata", "registrations.json")
				if cfg.Input.RegistrationsPath != want {
					t.Fatalf("RegistrationsPath = %q, want %q", cfg.Input.RegistrationsPath, want)
				}
			},
		},

		{
			name: "tilde paths resolve against the home directory",
			args: []string{"--registrations", "~/dumps/regs.json"},
			want: func(t *testing.T, cfg launcher.Config) {
				want := filepath.Join(launcher.GuessHomeDir(), "/dumps/regs.json")
				if cfg.Input.RegistrationsPath != want {
					t.Fatalf("RegistrationsPath = %q, want %q", cfg.Input.RegistrationsPath, want)
				}
			},
		},

		{
			name: "logging and sentry flags land in the config",
			args: []string{"--log.verbosity", "5", "--log.format", "json", "--log.color", "--sentry.dsn", "https://key@sentry.example/1"},
			want: func(t *testing.T, cfg launcher.Config) {
				if cfg.Logging.Verbosity != 5 {
					t.Fatalf("Verbosity = %d, want 5", cfg.Logging.Verbosity)
				}
				if cfg.Logging.Format != "json" {
					t.Fatalf("Format = %q, want json", cfg.Logging.Format)
				}
				if !cfg.Logging.Color {
					t.Fatal("Color = false, want true")
				}
				if cfg.Sentry.DSN != "https://key@sentry.example/1" {
					t.Fatalf("Sentry.DSN = %q, want the flag value", cfg.Sentry.DSN)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := runConfigFromArgs(t, test.args) // build config using the test helper
			test.want(t, cfg)                      // apply the scenario-specific assertions
			t.Logf("args = %#v", test.args)        // NOTE: this will only be printed if the test fails
		})
	}
}

// TestMakeAllConfigs_configFile verifies the JSON config file overlay: the
// file's values replace defaults, fields the file does not name keep their
// defaults, and CLI flags still win over the file.
func TestMakeAllConfigs_configFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ballot.json")
	content := `{
		"Rules": {
			"Votes": {"MinStakeThreshold": 42},
			"Genesis": {"Discrimination": "test"}
		},
		"Logging": {"Verbosity": 4},
		"Sentry": {"DSN": "https://file@sentry.example/2"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := runConfigFromArgs(t, []string{"--config", path})

	if cfg.Rules.Votes.MinStakeThreshold != 42 {
		t.Fatalf("MinStakeThreshold = %d, want 42 from file", cfg.Rules.Votes.MinStakeThreshold)
	}
	if cfg.Rules.Genesis.Discrimination != chainaddr.Test {
		t.Fatalf("Discrimination = %v, want test from file", cfg.Rules.Genesis.Discrimination)
	}
	// The file never names the preset, so the bundle identity is untouched.
	if cfg.Rules.Name != "main" {
		t.Fatalf("Rules.Name = %q, want main", cfg.Rules.Name)
	}
	if cfg.Logging.Verbosity != 4 {
		t.Fatalf("Verbosity = %d, want 4 from file", cfg.Logging.Verbosity)
	}
	if cfg.Sentry.DSN != "https://file@sentry.example/2" {
		t.Fatalf("Sentry.DSN = %q, want the file value", cfg.Sentry.DSN)
	}

	// CLI flags apply after the file and win.
	cfg = runConfigFromArgs(t, []string{"--config", path, "--log.verbosity", "1"})
	if cfg.Logging.Verbosity != 1 {
		t.Fatalf("Verbosity = %d, want 1 from CLI over file", cfg.Logging.Verbosity)
	}
	if cfg.Rules.Votes.MinStakeThreshold != 42 {
		t.Fatalf("MinStakeThreshold = %d, want 42 kept from file", cfg.Rules.Votes.MinStakeThreshold)
	}
}

// TestMakeAllConfigs_envOverrides verifies that BALLOT_* environment
// variables override defaults and config-file values.
func TestMakeAllConfigs_envOverrides(t *testing.T) {
	t.Setenv("BALLOT_PRESET", "test")
	t.Setenv("BALLOT_VOTES_THRESHOLD", "777")
	t.Setenv("BALLOT_LOG_FORMAT", "json")
	t.Setenv("BALLOT_REGISTRATIONS", "env-dump.json")

	cfg := runConfigFromArgs(t, nil)

	// The preset replaces the bundle first, then the finer override applies.
	if cfg.Rules.Name != "test" {
		t.Fatalf("Rules.Name = %q, want test from env", cfg.Rules.Name)
	}
	if cfg.Rules.Votes.MinStakeThreshold != 777 {
		t.Fatalf("MinStakeThreshold = %d, want 777 from env", cfg.Rules.Votes.MinStakeThreshold)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("Logging.Format = %q, want json from env", cfg.Logging.Format)
	}
	want := filepath.Join(launcher.GuessWorkDir(), "env-dump.json")
	if cfg.Input.RegistrationsPath != want {
		t.Fatalf("RegistrationsPath = %q, want %q", cfg.Input.RegistrationsPath, want)
	}
}

// TestMakeAllConfigs_envPrecedence verifies that CLI flags beat environment
// variables for the same knob.
func TestMakeAllConfigs_envPrecedence(t *testing.T) {
	t.Setenv("BALLOT_VOTES_THRESHOLD", "777")

	cfg := runConfigFromArgs(t, []string{"--votes.threshold", "888"})

	if cfg.Rules.Votes.MinStakeThreshold != 888 {
		t.Fatalf("MinStakeThreshold = %d, want 888 (CLI over env)", cfg.Rules.Votes.MinStakeThreshold)
	}
}

// TestMakeAllConfigs_outputDirsCreated verifies that the directories of
// configured output paths exist after MakeAllConfigs, so commands can write
// without a separate mkdir step.
func TestMakeAllConfigs_outputDirsCreated(t *testing.T) {
	tmp := t.TempDir()
	outPath := filepath.Join(tmp, "exports", "initials.json")
	archPath := filepath.Join(tmp, "archives", "snap.arch")

	cfg := runConfigFromArgs(t, []string{"--out", outPath, "--archive", archPath})

	if cfg.Output.Path != outPath {
		t.Fatalf("Output.Path = %q, want %q", cfg.Output.Path, outPath)
	}
	if cfg.Output.ArchivePath != archPath {
		t.Fatalf("Output.ArchivePath = %q, want %q", cfg.Output.ArchivePath, archPath)
	}
	for _, dir := range []string{filepath.Dir(outPath), filepath.Dir(archPath)} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("output dir %s not created: %v", dir, err)
		}
	}
}

// TestMakeAllConfigs_badInputs verifies that unusable configuration is
// rejected with an error instead of silently producing a broken config.
func TestMakeAllConfigs_badInputs(t *testing.T) {
	t.Run("unknown preset", func(t *testing.T) {
		if _, err := tryConfigFromArgs(t, []string{"--preset", "devnet"}); err == nil {
			t.Fatal("expected error for unknown preset")
		}
	})

	t.Run("unknown discrimination", func(t *testing.T) {
		if _, err := tryConfigFromArgs(t, []string{"--genesis.discrimination", "staging"}); err == nil {
			t.Fatal("expected error for unknown discrimination")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		if _, err := tryConfigFromArgs(t, []string{"--config", filepath.Join(t.TempDir(), "absent.json")}); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("malformed env threshold", func(t *testing.T) {
		t.Setenv("BALLOT_VOTES_THRESHOLD", "not-a-number")
		if _, err := tryConfigFromArgs(t, nil); err == nil {
			t.Fatal("expected error for malformed BALLOT_VOTES_THRESHOLD")
		}
	})
}
