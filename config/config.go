// Package config reads the YAML option file of the hgtool command.
//
//	arc_type: viterbi
//	log_level: info
//	jobs: 4
//	determinize:
//	  rho: special
//	  sigma: ordinary
//	  max_states: 100000
//	compose:
//	  filter: match
//	  cache_size: 4096
//	best:
//	  nbest: 10
//	  best_first: true
//	  nbest_per_string: 1
//
// Missing keys keep their defaults; unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hypergraph/bestpath"
	"github.com/katalvlaran/hypergraph/compose"
	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/determinize"
	"github.com/katalvlaran/hypergraph/internal/logutil"
	"github.com/katalvlaran/hypergraph/kbest"
)

// ErrInvalid reports a configuration value out of range or unknown.
var ErrInvalid = fmt.Errorf("config: %w", core.ErrConfig)

// Arc types understood by the CLI.
const (
	ArcViterbi     = "viterbi"
	ArcLog         = "log"
	ArcExpectation = "expectation"
	ArcFeature     = "feature"
)

// Config is the complete set of tool options.
type Config struct {
	ArcType     string      `yaml:"arc_type"`
	LogLevel    string      `yaml:"log_level"`
	Jobs        int         `yaml:"jobs"`
	Determinize Determinize `yaml:"determinize"`
	Compose     Compose     `yaml:"compose"`
	Best        Best        `yaml:"best"`
}

// Determinize holds the subset construction settings.
type Determinize struct {
	Rho       string `yaml:"rho"`
	Phi       string `yaml:"phi"`
	Sigma     string `yaml:"sigma"`
	MaxStates int    `yaml:"max_states"`
}

// Compose holds the composition settings.
type Compose struct {
	Filter       string  `yaml:"filter"`
	Chart        bool    `yaml:"chart"`
	CacheSize    int     `yaml:"cache_size"`
	MaxItems     int     `yaml:"max_items"`
	MaxStates    int     `yaml:"max_states"`
	FeatureScale float64 `yaml:"feature_scale"`
}

// Best holds the best-path and k-best settings.
type Best struct {
	Nbest          int     `yaml:"nbest"`
	BestFirst      bool    `yaml:"best_first"`
	MaxBackArcs    int     `yaml:"max_back_arcs"`
	Convergence    float64 `yaml:"convergence"`
	MaxRereach     int     `yaml:"max_rereach"`
	NbestPerString int     `yaml:"nbest_per_string"`
	MaxSkipped     int     `yaml:"max_skipped"`
	Padding        bool    `yaml:"padding"`
	YieldSide      string  `yaml:"yield_side"`
	FailIfEmpty    bool    `yaml:"fail_if_empty"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		ArcType:  ArcViterbi,
		LogLevel: "info",
		Jobs:     runtime.GOMAXPROCS(0),
		Determinize: Determinize{
			Rho: determinize.Special.String(),
		},
		Compose: Compose{
			Filter:       compose.FilterSequence.String(),
			CacheSize:    compose.DefaultCacheSize,
			FeatureScale: 1,
		},
		Best: Best{
			Nbest:       1,
			MaxBackArcs: -1,
			YieldSide:   core.OutputSide.String(),
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// An empty document yields the defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	switch c.ArcType {
	case ArcViterbi, ArcLog, ArcExpectation, ArcFeature:
	default:
		return fmt.Errorf("%w: arc_type %q", ErrInvalid, c.ArcType)
	}
	if _, err := logutil.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs %d < 1", ErrInvalid, c.Jobs)
	}
	if _, err := c.Determinize.Options(); err != nil {
		return err
	}
	if _, err := c.Compose.LazyOptions(); err != nil {
		return err
	}
	if c.Compose.MaxItems < 0 || c.Compose.MaxStates < 0 {
		return fmt.Errorf("%w: compose limits must not be negative", ErrInvalid)
	}
	return c.Best.validate()
}

// Options converts the settings into determinize options.
func (d Determinize) Options() ([]determinize.Option, error) {
	rho, err := determinize.ParseTreatment(d.Rho)
	if err != nil {
		return nil, err
	}
	phi, err := determinize.ParseTreatment(d.Phi)
	if err != nil {
		return nil, err
	}
	sigma, err := determinize.ParseTreatment(d.Sigma)
	if err != nil {
		return nil, err
	}
	if d.MaxStates < 0 {
		return nil, fmt.Errorf("%w: determinize max_states %d", ErrInvalid, d.MaxStates)
	}
	return []determinize.Option{
		determinize.WithRho(rho),
		determinize.WithPhi(phi),
		determinize.WithSigma(sigma),
		determinize.WithMaxStates(d.MaxStates),
	}, nil
}

// LazyOptions converts the settings into options for compose.Lazy. FeatureScale is
// left to the caller since it only applies to feature weights.
func (c Compose) LazyOptions() ([]compose.LazyOption, error) {
	f, err := compose.ParseFilter(c.Filter)
	if err != nil {
		return nil, err
	}
	if c.CacheSize < 1 {
		return nil, fmt.Errorf("%w: compose cache_size %d < 1", ErrInvalid, c.CacheSize)
	}
	if math.IsNaN(c.FeatureScale) || math.IsInf(c.FeatureScale, 0) {
		return nil, fmt.Errorf("%w: compose feature_scale %v", ErrInvalid, c.FeatureScale)
	}
	return []compose.LazyOption{compose.WithFilter(f), compose.WithCacheSize(c.CacheSize)}, nil
}

// ChartOptions converts the settings into options for compose.Chart.
func (c Compose) ChartOptions() []compose.ChartOption {
	return []compose.ChartOption{compose.WithMaxItems(c.MaxItems)}
}

// ExpandOptions converts the settings into options for compose.Expand.
func (c Compose) ExpandOptions() []compose.ExpandOption {
	return []compose.ExpandOption{compose.WithMaxStates(c.MaxStates)}
}

func (b Best) validate() error {
	switch {
	case b.Nbest < 1:
		return fmt.Errorf("%w: best nbest %d < 1", ErrInvalid, b.Nbest)
	case b.Convergence < 0 || math.IsNaN(b.Convergence):
		return fmt.Errorf("%w: best convergence %v", ErrInvalid, b.Convergence)
	case b.MaxRereach < 0 || b.NbestPerString < 0 || b.MaxSkipped < 0:
		return fmt.Errorf("%w: best limits must not be negative", ErrInvalid)
	}
	if _, err := b.side(); err != nil {
		return err
	}
	return nil
}

func (b Best) side() (core.Side, error) {
	switch b.YieldSide {
	case core.InputSide.String():
		return core.InputSide, nil
	case core.OutputSide.String(), "":
		return core.OutputSide, nil
	}
	return core.OutputSide, fmt.Errorf("%w: best yield_side %q", ErrInvalid, b.YieldSide)
}

// BestPathOptions converts the settings into bestpath options.
func (b Best) BestPathOptions() []bestpath.Option {
	alg := bestpath.Auto
	if b.BestFirst {
		alg = bestpath.BestFirst
	}
	return []bestpath.Option{
		bestpath.WithAlgorithm(alg),
		bestpath.WithMaxBackArcs(b.MaxBackArcs),
		bestpath.WithConvergence(b.Convergence),
		bestpath.WithMaxRereach(b.MaxRereach),
	}
}

// KBestOptions converts the settings into kbest options. Validate must have passed.
func (b Best) KBestOptions() []kbest.Option {
	side, _ := b.side()
	opts := []kbest.Option{
		kbest.WithNbestPerString(b.NbestPerString),
		kbest.WithMaxSkipped(b.MaxSkipped),
		kbest.WithYieldSide(side),
		kbest.WithBestPath(b.BestPathOptions()...),
	}
	if b.Padding {
		opts = append(opts, kbest.WithPadding())
	}
	if b.FailIfEmpty {
		opts = append(opts, kbest.WithFailIfEmpty())
	}
	return opts
}
