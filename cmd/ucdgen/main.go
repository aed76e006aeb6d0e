// Command ucdgen reads a ucd.nounihan.grouped.xml document and emits a
// compact, constant-time C++ lookup module for East Asian display width and
// simplified grapheme-cluster-break behavior.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ucdgen/ucdgen/internal/emit"
	"github.com/ucdgen/ucdgen/internal/graphemes"
	"github.com/ucdgen/ucdgen/internal/trie"
	"github.com/ucdgen/ucdgen/internal/ucd"
)

const usageNotice = `ucdgen requires exactly one argument: the path to a ucd.nounihan.grouped.xml
file, downloadable from the Unicode Character Database at
https://www.unicode.org/Public/UCD/latest/ucdxml/.

Usage: ucdgen <path-to-ucd.nounihan.grouped.xml>`

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	minShift  int
	maxShift  int
	stages    int
	workers   int
	jsonStats bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "ucdgen <path-to-ucd.nounihan.grouped.xml>",
		Short:         "Generate a constant-time UCD lookup module",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(cmd.ErrOrStderr(), usageNotice)
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Args = cobra.ArbitraryArgs

	cmd.Flags().IntVar(&opts.minShift, "min-shift", 2, "smallest per-stage shift to search")
	cmd.Flags().IntVar(&opts.maxShift, "max-shift", 8, "largest per-stage shift to search")
	cmd.Flags().IntVar(&opts.stages, "stages", 4, "number of trie stages, root included")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "bounded concurrency for the shift search (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.jsonStats, "json-stats", false, "emit a machine-readable build summary to stderr")

	return cmd
}

var errUsage = fmt.Errorf("usage error")

func run(ctx context.Context, path string, opts *options, stdout io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Error("failed to open UCD document")
		return err
	}
	defer f.Close()

	doc, err := ucd.ParseDocument(f)
	if err != nil {
		log.WithError(err).Error("failed to parse UCD document")
		return err
	}

	values, err := doc.ExtractValues()
	if err != nil {
		log.WithError(err).Error("failed to extract codepoint values")
		return err
	}

	start := time.Now()
	best, err := trie.BuildBestTrie(ctx, values, opts.minShift, opts.maxShift, opts.stages, opts.workers)
	if err != nil {
		log.WithError(err).Error("failed to build trie")
		return err
	}
	buildElapsed := time.Since(start)

	rawRules := graphemes.BuildRules()
	packedRules, err := graphemes.PackRules(rawRules)
	if err != nil {
		log.WithError(err).Error("failed to pack grapheme join rules")
		return err
	}

	if err := trie.Verify(values, best); err != nil {
		log.WithError(err).Error("trie sanity check failed")
		return err
	}

	if opts.jsonStats {
		if err := writeStats(best, packedRules, buildElapsed); err != nil {
			log.WithError(err).Warn("failed to write build stats")
		}
	}

	if err := emit.Write(stdout, doc, best, packedRules, time.Now().UTC()); err != nil {
		log.WithError(err).Error("failed to emit module")
		return err
	}

	return nil
}

type stageStat struct {
	Bits int `json:"bits"`
	Len  int `json:"len"`
	Size int `json:"size_bytes"`
}

type buildStats struct {
	Stages         []stageStat `json:"stages"`
	TrieSizeBytes  int         `json:"trie_size_bytes"`
	RulesSizeBytes int         `json:"rules_size_bytes"`
	BuildMillis    int64       `json:"build_millis"`
}

func writeStats(t *trie.Trie, rules [2][16]uint32, elapsed time.Duration) error {
	stats := buildStats{
		TrieSizeBytes:  t.TotalSize,
		RulesSizeBytes: graphemes.RulesSize(rules),
		BuildMillis:    elapsed.Milliseconds(),
	}
	for _, s := range t.Stages {
		stats.Stages = append(stats.Stages, stageStat{
			Bits: s.Bits,
			Len:  len(s.Values),
			Size: (s.Bits / 8) * len(s.Values),
		})
	}
	return json.NewEncoder(os.Stderr).Encode(stats)
}
