package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/born-ml/hopfield/backend/cpu"
	"github.com/born-ml/hopfield/internal/patterns"
	"github.com/born-ml/hopfield/internal/tokenizer"
	"github.com/born-ml/hopfield/nn"
	"github.com/born-ml/hopfield/tensor"
)

type recallConfig struct {
	memory   string
	query    string
	beta     float64
	steps    int
	eps      float64
	dim      int
	encoding string
	top      int
}

func parseRecall(args []string, output io.Writer) (recallConfig, error) {
	var cfg recallConfig
	fs := flag.NewFlagSet("recall", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.memory, "memory", "", "File with one stored pattern per line (required)")
	fs.StringVar(&cfg.query, "query", "", "Query text (required)")
	fs.Float64Var(&cfg.beta, "beta", 8, "Inverse temperature β")
	fs.IntVar(&cfg.steps, "steps", 3, "Maximum retrieval iterations")
	fs.Float64Var(&cfg.eps, "eps", 1e-4, "Convergence threshold")
	fs.IntVar(&cfg.dim, "dim", 256, "Pattern width")
	fs.StringVar(&cfg.encoding, "encoding", tokenizer.EncodingWords,
		"Tokenizer: \"words\" (offline) or a tiktoken encoding such as \"cl100k_base\"; tiktoken fetches its ranks on first use unless TIKTOKEN_CACHE_DIR holds them")
	fs.IntVar(&cfg.top, "top", 3, "Number of matches to print")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	if cfg.memory == "" || cfg.query == "" {
		fs.Usage()
		return cfg, fmt.Errorf("%w: -memory and -query are required", errUsage)
	}
	return cfg, nil
}

func runRecall(args []string, stdout io.Writer) error {
	cfg, err := parseRecall(args, stdout)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.memory)
	if err != nil {
		return fmt.Errorf("open memory: %w", err)
	}
	defer f.Close()

	lines, err := patterns.ReadLines(f)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return errors.New("memory file has no patterns")
	}

	tok, err := tokenizer.New(cfg.encoding)
	if err != nil {
		return err
	}
	enc, err := patterns.NewEncoder(tok, cfg.dim)
	if err != nil {
		return err
	}

	backend := cpu.New()
	stored, err := patterns.Matrix(enc, lines, backend)
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}
	query, err := patterns.Matrix(enc, []string{cfg.query}, backend)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	hcfg := nn.DefaultHopfieldConfig()
	hcfg.Scaling = float32(cfg.beta)
	hcfg.UpdateStepsMax = cfg.steps
	hcfg.UpdateStepsEps = float32(cfg.eps)
	layer, err := nn.NewHopfield(hcfg, backend)
	if err != nil {
		return err
	}

	r, err := layer.Retrieve(stored, query, stored)
	if err != nil {
		return err
	}

	printMatches(stdout, lines, r.Attention, cfg.top)
	fmt.Fprintf(stdout, "retrieval: %s after %d step(s), delta %.3g\n", r.State, r.Steps, r.Delta)
	return nil
}

type match struct {
	line   string
	weight float32
}

// topMatches returns the n highest-weighted lines of the first attention row.
func topMatches(lines []string, attention *tensor.Tensor[float32, *cpu.Backend], n int) []match {
	row := attention.Row(0)
	matches := make([]match, len(row))
	for i, w := range row {
		matches[i] = match{line: lines[i], weight: w}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].weight > matches[j].weight
	})
	if n > 0 && n < len(matches) {
		matches = matches[:n]
	}
	return matches
}

func printMatches(w io.Writer, lines []string, attention *tensor.Tensor[float32, *cpu.Backend], n int) {
	for i, m := range topMatches(lines, attention, n) {
		fmt.Fprintf(w, "%d. %.4f  %s\n", i+1, m.weight, m.line)
	}
}
