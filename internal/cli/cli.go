// Package cli implements the hgtool command line.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/hypergraph/config"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/hgtext"
	"github.com/katalvlaran/hypergraph/internal/logutil"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// settings is the resolved configuration shared by every subcommand.
type settings struct {
	configPath string
	output     string
	cfg        config.Config
}

func NewCLI() *cobra.Command {
	s := &settings{cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:   "hgtool",
		Short: "Weighted hypergraph toolkit",
		Long:  "Determinize, compose, search and inspect hypergraphs in the line-oriented text format.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			return s.resolve(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "YAML option file")
	flags.StringVarP(&s.output, "output", "o", "", "Write results to this file instead of stdout")
	flags.String("arc-type", s.cfg.ArcType, "Weight type: viterbi, log, expectation or feature")
	flags.String("log-level", s.cfg.LogLevel, "Log level: trace, debug, info, warn or error")
	flags.Int("jobs", s.cfg.Jobs, "Number of input files processed concurrently")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		newDeterminizeCmd(s),
		newComposeCmd(s),
		newBestCmd(s),
		newStatsCmd(s),
		newPrintCmd(s),
	)
	return rootCmd
}

// resolve loads the option file and lets explicitly set flags override it.
func (s *settings) resolve(cmd *cobra.Command) error {
	if s.configPath != "" {
		cfg, err := config.Load(s.configPath)
		if err != nil {
			return err
		}
		s.cfg = cfg
	}
	flags := cmd.Flags()
	if flags.Changed("arc-type") {
		s.cfg.ArcType, _ = flags.GetString("arc-type")
	}
	if flags.Changed("log-level") {
		s.cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("jobs") {
		s.cfg.Jobs, _ = flags.GetInt("jobs")
	}
	overrides := []struct {
		name string
		dst  *string
	}{
		{"rho", &s.cfg.Determinize.Rho},
		{"phi", &s.cfg.Determinize.Phi},
		{"sigma", &s.cfg.Determinize.Sigma},
		{"filter", &s.cfg.Compose.Filter},
	}
	for _, o := range overrides {
		if flags.Lookup(o.name) != nil && flags.Changed(o.name) {
			*o.dst, _ = flags.GetString(o.name)
		}
	}
	if flags.Lookup("chart") != nil && flags.Changed("chart") {
		s.cfg.Compose.Chart, _ = flags.GetBool("chart")
	}
	if flags.Lookup("nbest") != nil && flags.Changed("nbest") {
		s.cfg.Best.Nbest, _ = flags.GetInt("nbest")
	}
	if flags.Lookup("best-first") != nil && flags.Changed("best-first") {
		s.cfg.Best.BestFirst, _ = flags.GetBool("best-first")
	}
	if flags.Lookup("per-string") != nil && flags.Changed("per-string") {
		s.cfg.Best.NbestPerString, _ = flags.GetInt("per-string")
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	level, _ := logutil.ParseLevel(s.cfg.LogLevel)
	slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), level))
	return nil
}

// runFunc is a subcommand body instantiated for one weight type.
type runFunc[W semiring.Weight[W]] func(cmd *cobra.Command, s *settings, args []string) error

// byArcType picks the instantiation matching the configured arc type.
func (s *settings) byArcType(
	viterbi runFunc[semiring.Viterbi],
	log runFunc[semiring.Log],
	expectation runFunc[semiring.Expectation],
	feature runFunc[semiring.Feature],
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		switch s.cfg.ArcType {
		case config.ArcLog:
			return log(cmd, s, args)
		case config.ArcExpectation:
			return expectation(cmd, s, args)
		case config.ArcFeature:
			return feature(cmd, s, args)
		}
		return viterbi(cmd, s, args)
	}
}

// parallel runs fn on every path, at most Jobs at a time.
func (s *settings) parallel(ctx context.Context, paths []string, fn func(ctx context.Context, i int, path string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i, path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// eachFile runs fn on every path in parallel and writes the outputs in argument
// order. With several paths each output is preceded by a "# path" line.
func (s *settings) eachFile(cmd *cobra.Command, paths []string, fn func(ctx context.Context, path string, w io.Writer) error) error {
	bufs := make([]bytes.Buffer, len(paths))
	err := s.parallel(cmd.Context(), paths, func(ctx context.Context, i int, path string) error {
		if len(paths) > 1 {
			fmt.Fprintf(&bufs[i], "# %s\n", path)
		}
		return fn(ctx, path, &bufs[i])
	})
	if err != nil {
		return err
	}
	return s.write(cmd, func(w io.Writer) error {
		for i := range bufs {
			if _, err := bufs[i].WriteTo(w); err != nil {
				return err
			}
		}
		return nil
	})
}

// write sends output to the -o file or to the command's stdout.
func (s *settings) write(cmd *cobra.Command, fn func(w io.Writer) error) error {
	if s.output == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(s.output)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readGraph parses path over voc (a fresh vocabulary when nil).
func readGraph[W semiring.Weight[W]](path string, voc *vocab.Vocabulary) (*core.Hypergraph[W], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hgtext.Parse[W](f, voc, core.WithProperties(core.CanonicalLex))
}
