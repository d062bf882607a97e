// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// seedtool generates, decodes, and stores seed strings for the formats
// declared in its config file.
package main

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/seedkit/seedkit/cmd/seedtool/config"
	"github.com/seedkit/seedkit/seed"
	"github.com/seedkit/seedkit/seed/options"
	"github.com/seedkit/seedkit/seedlist"
	"github.com/seedkit/seedkit/utils/logging"
)

const cliVersion = "0.1.0"

var errUnknownAssignment = errors.New("unknown option in assignment")

func main() {
	var (
		configPath  string
		rawLogLevel string
	)

	rootCmd := &cobra.Command{
		Use:          "seedtool",
		Short:        "seedtool commands",
		SilenceUsage: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "seedtool.yaml", "Path of the config file declaring seed formats")
	flags.StringVar(&rawLogLevel, "log-level", logging.Info.String(), "Log verbosity: debug, info, warn, error or fatal")

	newLogger := func() (logging.Logger, error) {
		level, err := logging.ToLevel(rawLogLevel)
		if err != nil {
			return nil, err
		}
		return logging.NewLogger("seedtool", level, os.Stderr), nil
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version details",
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(os.Stdout, cliVersion)
			return nil
		},
	}
	rootCmd.AddCommand(versionCmd)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new seed and print it",
		RunE: func(c *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}

			cfg, registry, err := loadRegistry(configPath)
			if err != nil {
				return err
			}
			return generateFunc(c.Flags(), log, cfg, registry)
		},
	}
	addGenerateFlags(generateCmd.Flags())
	rootCmd.AddCommand(generateCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect seed-string",
		Short: "Decode a seed string and print its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, registry, err := loadRegistry(configPath)
			if err != nil {
				return err
			}

			decoded, err := registry.Parse(args[0])
			if err != nil {
				return describeParseError(args[0], err)
			}
			printSeed(decoded)
			return nil
		},
	}
	rootCmd.AddCommand(inspectCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored seed list and each entry's status",
		RunE: func(*cobra.Command, []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}

			cfg, registry, err := loadRegistry(configPath)
			if err != nil {
				return err
			}

			store := seedlist.NewFileStore(cfg.SeedList, log)
			entries, err := store.Load()
			if err != nil {
				return err
			}

			for _, entry := range entries {
				fmt.Fprintf(os.Stdout, "%s\t%s\n", entry, entryStatus(registry, entry))
			}
			return nil
		},
	}
	rootCmd.AddCommand(listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "seedtool failed: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

const (
	versionKey = "version"
	randomKey  = "random"
	setKey     = "set"
	saveKey    = "save"
)

func addGenerateFlags(flags *pflag.FlagSet) {
	flags.Uint8(versionKey, 0, "Seed format version to generate; defaults to the configured default")
	flags.String(randomKey, "", "Random segment override, as an integer")
	flags.StringArray(setKey, nil, "Option assignment id=value; repeatable")
	flags.Bool(saveKey, false, "Append the generated seed to the seed list")
}

func generateFunc(
	flags *pflag.FlagSet,
	log logging.Logger,
	cfg *config.Config,
	registry *seed.Registry,
) error {
	var (
		format *seed.Format
		err    error
	)
	if flags.Changed(versionKey) {
		version, err := flags.GetUint8(versionKey)
		if err != nil {
			return err
		}
		format, err = registry.Format(version)
		if err != nil {
			return err
		}
	} else if format, err = registry.DefaultFormat(); err != nil {
		return err
	}

	genOpts := []seed.GenerateOption{seed.WithFormat(format)}

	assignments, err := flags.GetStringArray(setKey)
	if err != nil {
		return err
	}
	for _, assignment := range assignments {
		id, value, err := parseAssignment(format, assignment)
		if err != nil {
			return err
		}
		genOpts = append(genOpts, seed.WithValue(id, value))
	}

	rawRandom, err := flags.GetString(randomKey)
	if err != nil {
		return err
	}
	if rawRandom != "" {
		random, ok := new(big.Int).SetString(rawRandom, 0)
		if !ok {
			return fmt.Errorf("invalid random override %q", rawRandom)
		}
		genOpts = append(genOpts, seed.WithRandom(random))
	}

	generated, err := registry.Generate(genOpts...)
	if err != nil {
		return err
	}

	save, err := flags.GetBool(saveKey)
	if err != nil {
		return err
	}
	if save {
		store := seedlist.NewFileStore(cfg.SeedList, log)
		if err := store.Append(generated.String()); err != nil {
			return err
		}
		log.Info("saved seed",
			zap.String("path", cfg.SeedList),
		)
	}

	fmt.Fprintln(os.Stdout, generated.String())
	return nil
}

func loadRegistry(configPath string) (*config.Config, *seed.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	registry, err := cfg.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	return cfg, registry, nil
}

// parseAssignment splits an id=value pair and coerces the value according to
// the option's variant.
func parseAssignment(format *seed.Format, assignment string) (string, any, error) {
	id, raw, found := strings.Cut(assignment, "=")
	if !found {
		return "", nil, fmt.Errorf("assignment %q isn't of the form id=value", assignment)
	}

	for _, opt := range format.ValueOptions() {
		if opt.ID() != id {
			continue
		}
		switch opt.(type) {
		case *options.Bool:
			value, err := strconv.ParseBool(raw)
			return id, value, err
		case *options.Range:
			value, err := strconv.ParseInt(raw, 10, 64)
			return id, value, err
		default:
			return id, raw, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %q isn't part of %s", errUnknownAssignment, id, format)
}

// describeParseError keeps the two decode failure classes distinguishable
// for the user: an unknown version is actionable, garbage is not.
func describeParseError(input string, err error) error {
	var versionErr *seed.UnknownVersionError
	if errors.As(err, &versionErr) {
		return fmt.Errorf(
			"seed %q uses version %d, which isn't declared in the config; it may require a newer format set",
			input, versionErr.Version,
		)
	}
	return fmt.Errorf("seed %q is not valid: %w", input, err)
}

func printSeed(decoded *seed.Seed) {
	fmt.Fprintf(os.Stdout, "seed:    %s\n", decoded)
	fmt.Fprintf(os.Stdout, "version: %d\n", decoded.Format().Version())
	fmt.Fprintf(os.Stdout, "bytes:   %x\n", decoded.Bytes())
	fmt.Fprintf(os.Stdout, "random:  %d bits\n", decoded.Format().RandomWidth())

	values := decoded.Values()
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(os.Stdout, "option:  %s = %v\n", id, values[id])
	}
}

func entryStatus(registry *seed.Registry, entry string) string {
	decoded, err := registry.Parse(entry)
	var versionErr *seed.UnknownVersionError
	switch {
	case errors.As(err, &versionErr):
		return fmt.Sprintf("unknown version %d", versionErr.Version)
	case err != nil:
		return "invalid"
	default:
		return fmt.Sprintf("ok (version %d)", decoded.Format().Version())
	}
}
