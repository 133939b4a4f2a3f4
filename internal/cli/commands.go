package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/hypergraph/compose"
	"github.com/katalvlaran/hypergraph/config"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/derivation"
	"github.com/katalvlaran/hypergraph/determinize"
	"github.com/katalvlaran/hypergraph/hgtext"
	"github.com/katalvlaran/hypergraph/kbest"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

func newDeterminizeCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "determinize FILE...",
		Short: "Determinize unweighted FSMs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  s.byArcType(runDeterminize[semiring.Viterbi], runDeterminize[semiring.Log], runDeterminize[semiring.Expectation], runDeterminize[semiring.Feature]),
	}
	cmd.Flags().String("rho", s.cfg.Determinize.Rho, "Treatment of <rho>: special or ordinary")
	cmd.Flags().String("phi", s.cfg.Determinize.Phi, "Treatment of <phi>: special or ordinary")
	cmd.Flags().String("sigma", s.cfg.Determinize.Sigma, "Treatment of <sigma>: special or ordinary")
	return cmd
}

func runDeterminize[W semiring.Weight[W]](cmd *cobra.Command, s *settings, args []string) error {
	opts, err := s.cfg.Determinize.Options()
	if err != nil {
		return err
	}
	return s.eachFile(cmd, args, func(_ context.Context, path string, w io.Writer) error {
		h, err := readGraph[W](path, nil)
		if err != nil {
			return err
		}
		d, err := determinize.Determinize(h, opts...)
		if err != nil {
			return err
		}
		return hgtext.Print(w, d)
	})
}

func newComposeCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose LEFT RIGHT",
		Short: "Compose a grammar or transducer with a transducer",
		Long: "Compose LEFT with the transducer RIGHT. An FSM on the left is composed lazily " +
			"and expanded; any other hypergraph, or --chart, uses the Earley chart.",
		Args: cobra.ExactArgs(2),
		RunE: s.byArcType(runCompose[semiring.Viterbi], runCompose[semiring.Log], runCompose[semiring.Expectation], runCompose[semiring.Feature]),
	}
	cmd.Flags().String("filter", s.cfg.Compose.Filter, "Epsilon filter: sequence, match or none")
	cmd.Flags().Bool("chart", s.cfg.Compose.Chart, "Use the chart composer even for FSM inputs")
	return cmd
}

func runCompose[W semiring.Weight[W]](cmd *cobra.Command, s *settings, args []string) error {
	voc := vocab.New()
	left, err := readGraph[W](args[0], voc)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	right, err := readGraph[W](args[1], voc)
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	var res *core.Hypergraph[W]
	if s.cfg.Compose.Chart || !left.HasProperties(core.FSM) {
		if right.NumArcs() > 0 {
			if err := right.ForceProperties(core.SortedOutArcs, true); err != nil {
				return err
			}
		}
		res, err = compose.Chart(left, right, s.cfg.Compose.ChartOptions()...)
	} else {
		res, err = composeLazy(s.cfg, left, right)
	}
	if err != nil {
		return err
	}
	return s.write(cmd, func(w io.Writer) error { return hgtext.Print(w, res) })
}

func composeLazy[W semiring.Weight[W]](cfg config.Config, left, right *core.Hypergraph[W]) (*core.Hypergraph[W], error) {
	l, err := compose.FromFSM(left)
	if err != nil {
		return nil, err
	}
	r, err := compose.FromFSM(right)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Compose.LazyOptions()
	if err != nil {
		return nil, err
	}
	if cfg.ArcType == config.ArcFeature && cfg.Compose.FeatureScale != 1 {
		opts = append(opts, compose.FeatureCombiner(cfg.Compose.FeatureScale))
	}
	c, err := compose.Lazy[W](l, r, opts...)
	if err != nil {
		return nil, err
	}
	return compose.Expand[W](c, cfg.Compose.ExpandOptions()...)
}

func newBestCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best FILE...",
		Short: "Print the cheapest derivations",
		Long:  "Print up to --nbest derivations of each file, one per line: rank, cost, yield and tree.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  s.byArcType(runBest[semiring.Viterbi], runBest[semiring.Log], runBest[semiring.Expectation], runBest[semiring.Feature]),
	}
	cmd.Flags().IntP("nbest", "n", s.cfg.Best.Nbest, "Number of derivations")
	cmd.Flags().Bool("best-first", s.cfg.Best.BestFirst, "Use the best-first search for the single best")
	cmd.Flags().Int("per-string", s.cfg.Best.NbestPerString, "Derivations kept per distinct yield (0: all)")
	return cmd
}

func runBest[W semiring.Weight[W]](cmd *cobra.Command, s *settings, args []string) error {
	b := s.cfg.Best
	side := core.OutputSide
	if b.YieldSide == core.InputSide.String() {
		side = core.InputSide
	}
	return s.eachFile(cmd, args, func(_ context.Context, path string, w io.Writer) error {
		h, err := readGraph[W](path, nil)
		if err != nil {
			return err
		}
		_, err = kbest.Enumerate(h, b.Nbest, func(hyp kbest.Hypothesis[W]) error {
			syms, err := derivation.Yield(h, hyp.Tree, side, false)
			if err != nil {
				return err
			}
			tree, err := derivation.Format(h, hyp.Tree)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", hyp.Rank, hyp.Cost, yieldString(h.Vocab(), syms), tree)
			return err
		}, b.KBestOptions()...)
		return err
	})
}

func yieldString(voc *vocab.Vocabulary, syms []vocab.Sym) string {
	out := make([]byte, 0, 8*len(syms))
	for i, s := range syms {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, voc.Format(s)...)
	}
	return string(out)
}

func newStatsCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE...",
		Short: "Summarize hypergraphs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  s.byArcType(runStats[semiring.Viterbi], runStats[semiring.Log], runStats[semiring.Expectation], runStats[semiring.Feature]),
	}
}

func runStats[W semiring.Weight[W]](cmd *cobra.Command, s *settings, args []string) error {
	rows := make([][]string, len(args))
	err := s.parallel(cmd.Context(), args, func(_ context.Context, i int, path string) error {
		h, err := readGraph[W](path, nil)
		if err != nil {
			return err
		}
		st := h.Stats()
		rows[i] = []string{
			path,
			strconv.Itoa(st.States),
			strconv.Itoa(st.Arcs),
			strconv.Itoa(st.Terminals),
			strconv.Itoa(st.MaxTails),
			strconv.FormatBool(h.IsEmpty()),
			st.Properties.String(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.write(cmd, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"FILE", "STATES", "ARCS", "TERMINALS", "MAX TAILS", "EMPTY", "PROPERTIES"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		table.SetAutoWrapText(false)
		table.AppendBulk(rows)
		table.Render()
		return nil
	})
}

func newPrintCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "print FILE...",
		Short: "Parse and print hypergraphs in canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE:  s.byArcType(runPrint[semiring.Viterbi], runPrint[semiring.Log], runPrint[semiring.Expectation], runPrint[semiring.Feature]),
	}
}

func runPrint[W semiring.Weight[W]](cmd *cobra.Command, s *settings, args []string) error {
	return s.eachFile(cmd, args, func(_ context.Context, path string, w io.Writer) error {
		h, err := readGraph[W](path, nil)
		if err != nil {
			return err
		}
		return hgtext.Print(w, h)
	})
}
