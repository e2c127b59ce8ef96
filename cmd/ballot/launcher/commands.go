package launcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Fantom-foundation/lachesis-base/inter/idx"
	"github.com/Fantom-foundation/lachesis-base/inter/pos"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-ballot/ballot/genesis"
	"github.com/rony4d/go-ballot/flags"
	"github.com/rony4d/go-ballot/integration"
	"github.com/rony4d/go-ballot/inter"
	"github.com/rony4d/go-ballot/inter/votepk"
	"github.com/rony4d/go-ballot/snapshot"
)

var snapshotCommand = cli.Command{
	Name:   "snapshot",
	Usage:  "Build a voting-power snapshot and export block0 initial funds",
	Flags:  joinFlags(flags.CommonFlags(), flags.SnapshotFlags(), flags.OutputFlags()),
	Action: snapshotAction,
	Description: `
Reads a raw registration dump, filters it by the configured stake threshold
and voting purpose, distributes each registration's power across its
delegated voting keys and writes the resulting initial funds document.
Use --archive to also store the snapshot itself for later runs.`,
}

var weightsCommand = cli.Command{
	Name:   "weights",
	Usage:  "List voters with their total powers and committee weights",
	Flags:  append(joinFlags(flags.CommonFlags(), flags.SnapshotFlags(), flags.OutputFlags()), keysFlag),
	Action: weightsAction,
	Description: `
Prints one row per voting key: its assigned voter ID, accumulated voting
power and the scaled weight it carries in the committee. The snapshot is
rebuilt from --registrations or loaded from --from-archive.`,
}

var inspectCommand = cli.Command{
	Name:   "inspect",
	Usage:  "Summarize a snapshot without exporting it",
	Flags:  joinFlags(flags.CommonFlags(), flags.SnapshotFlags(), flags.OutputFlags()),
	Action: inspectAction,
	Description: `
Prints the stake threshold, key and contribution counts, total power and
fingerprint of a snapshot. Two parties can compare fingerprints to agree
they built the same snapshot from the same dump.`,
}

// keysFlag is specific to the weights command.
var keysFlag = cli.StringFlag{
	Name:  "keys",
	Usage: "Comma-separated voting keys to restrict the listing to",
}

func snapshotAction(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := setupLogging(cfg.Logging, cfg.Sentry)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cfg, log)
	if err != nil {
		return err
	}

	initials := snap.ToBlock0Initials(cfg.Rules.Genesis.Discrimination)
	log.WithFields(logrus.Fields{
		"discrimination": cfg.Rules.Genesis.Discrimination,
		"funds":          len(initials.Fund),
		"total":          initials.TotalValue(),
	}).Info("exported block0 initial funds")

	out, err := renderInitials(initials, cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.Output.Path, out); err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		log.WithField("path", cfg.Output.Path).Info("wrote initial funds")
	}
	return storeArchive(cfg, snap, log)
}

func weightsAction(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := setupLogging(cfg.Logging, cfg.Sentry)
	if err != nil {
		return err
	}

	filter, err := parseKeysFilter(ctx.String("keys"))
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cfg, log)
	if err != nil {
		return err
	}

	rows := weightRows(snap, filter)
	out, err := renderWeights(rows, cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.Output.Path, out); err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		log.WithField("path", cfg.Output.Path).Info("wrote voter weights")
	}
	return storeArchive(cfg, snap, log)
}

func inspectAction(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	log, err := setupLogging(cfg.Logging, cfg.Sentry)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cfg, log)
	if err != nil {
		return err
	}

	out, err := renderSummary(summarize(snap), cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := writeOutput(cfg.Output.Path, out); err != nil {
		return err
	}
	if cfg.Output.Path != "" {
		log.WithField("path", cfg.Output.Path).Info("wrote snapshot summary")
	}
	return storeArchive(cfg, snap, log)
}

// -----------------------------------------------------------------------------
// Shared pipeline
// -----------------------------------------------------------------------------

// loadSnapshot obtains the snapshot a command works on: from a stored
// archive when one is configured, otherwise by rebuilding it from the raw
// registration dump.
func loadSnapshot(cfg Config, log *logrus.Logger) (*snapshot.Snapshot, error) {
	switch {
	case cfg.Input.ArchivePath != "":
		snap, err := integration.ReadSnapshotArchive(cfg.Input.ArchivePath)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"path":        cfg.Input.ArchivePath,
			"keys":        snap.Len(),
			"fingerprint": fingerprint(snap),
		}).Info("loaded snapshot archive")
		return snap, nil

	case cfg.Input.RegistrationsPath != "":
		raw, err := integration.LoadRawSnapshot(cfg.Input.RegistrationsPath)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"path":          cfg.Input.RegistrationsPath,
			"registrations": len(raw),
		}).Info("loaded registrations")

		snap, err := integration.BuildSnapshot(cfg.Rules, raw)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"network":     cfg.Rules.Name,
			"threshold":   snap.StakeThreshold(),
			"purpose":     cfg.Rules.Votes.VotingPurpose,
			"keys":        snap.Len(),
			"fingerprint": fingerprint(snap),
		}).Info("built snapshot")
		return snap, nil
	}
	return nil, errors.New("no input: pass --registrations or --from-archive")
}

func storeArchive(cfg Config, snap *snapshot.Snapshot, log *logrus.Logger) error {
	if cfg.Output.ArchivePath == "" {
		return nil
	}
	if err := integration.WriteSnapshotArchive(cfg.Output.ArchivePath, snap); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"path":        cfg.Output.ArchivePath,
		"fingerprint": fingerprint(snap),
	}).Info("stored snapshot archive")
	return nil
}

func fingerprint(snap *snapshot.Snapshot) string {
	return hexutil.Encode(snap.Hash().Bytes())
}

// writeOutput sends rendered bytes to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var fs []cli.Flag
	for _, group := range groups {
		fs = append(fs, group...)
	}
	return fs
}

// -----------------------------------------------------------------------------
// Renders
// -----------------------------------------------------------------------------

func renderInitials(initials genesis.Initial, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(initials, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "text":
		var b bytes.Buffer
		for _, f := range initials.Fund {
			fmt.Fprintf(&b, "%s %d\n", f.Address, f.Value)
		}
		fmt.Fprintf(&b, "total %d\n", initials.TotalValue())
		return b.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown output format: %q (valid: text, json)", format)
}

// weightRow is one line of the weights listing: a voter's snapshot power
// next to the scaled weight it carries in the committee.
type weightRow struct {
	ID     idx.ValidatorID `json:"id"`
	PubKey votepk.PubKey   `json:"voting_key"`
	Power  inter.Value     `json:"power"`
	Weight pos.Weight      `json:"committee_weight"`
}

func weightRows(snap *snapshot.Snapshot, filter map[votepk.PubKey]bool) []weightRow {
	committee := snap.Committee()
	voters := snap.Voters()
	rows := make([]weightRow, 0, len(voters))
	for _, v := range voters {
		if filter != nil && !filter[v.Voter.PubKey] {
			continue
		}
		rows = append(rows, weightRow{
			ID:     v.VoterID,
			PubKey: v.Voter.PubKey,
			Power:  v.Voter.Power,
			Weight: committee.Get(v.VoterID),
		})
	}
	return rows
}

func parseKeysFilter(raw string) (map[votepk.PubKey]bool, error) {
	if raw == "" {
		return nil, nil
	}
	filter := make(map[votepk.PubKey]bool)
	for _, s := range splitCSV(raw) {
		pk, err := votepk.FromString(s)
		if err != nil {
			return nil, fmt.Errorf("bad --keys entry %q: %w", s, err)
		}
		filter[pk] = true
	}
	return filter, nil
}

func renderWeights(rows []weightRow, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "text":
		var b bytes.Buffer
		for _, row := range rows {
			fmt.Fprintf(&b, "%d %s %d %d\n", row.ID, row.PubKey, row.Power, row.Weight)
		}
		return b.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown output format: %q (valid: text, json)", format)
}

// snapshotSummary is what inspect prints: enough to verify a stored archive
// matches an expected build without dumping its contents.
type snapshotSummary struct {
	StakeThreshold inter.Value `json:"stake_threshold"`
	Keys           int         `json:"keys"`
	Contributions  int         `json:"contributions"`
	TotalPower     inter.Value `json:"total_power"`
	Fingerprint    string      `json:"fingerprint"`
}

func summarize(snap *snapshot.Snapshot) snapshotSummary {
	s := snapshotSummary{
		StakeThreshold: snap.StakeThreshold(),
		Keys:           snap.Len(),
		Fingerprint:    fingerprint(snap),
	}
	for _, pk := range snap.VotingKeys() {
		s.Contributions += len(snap.ContributionsForVotingKey(pk))
		s.TotalPower += snap.VotingPowerOf(pk)
	}
	return s
}

func renderSummary(s snapshotSummary, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "text":
		var b bytes.Buffer
		fmt.Fprintf(&b, "stake_threshold %d\n", s.StakeThreshold)
		fmt.Fprintf(&b, "keys %d\n", s.Keys)
		fmt.Fprintf(&b, "contributions %d\n", s.Contributions)
		fmt.Fprintf(&b, "total_power %d\n", s.TotalPower)
		fmt.Fprintf(&b, "fingerprint %s\n", s.Fingerprint)
		return b.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown output format: %q (valid: text, json)", format)
}
