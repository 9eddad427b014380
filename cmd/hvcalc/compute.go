package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/copyleftdev/hypervol/internal/errors"
	"github.com/copyleftdev/hypervol/internal/hypervolume"
)

// pointFile is the input format of compute and the output of generate.
// Files without a .json extension, and standard input, decode as YAML,
// which also accepts most JSON.
type pointFile struct {
	Points    [][]float64 `json:"points" yaml:"points,flow"`
	Reference []float64   `json:"reference" yaml:"reference,flow"`
}

type computeResult struct {
	Hypervolume float64 `json:"hypervolume"`
	Algorithm   string  `json:"algorithm"`
	Dimensions  int     `json:"dimensions"`
	Points      int     `json:"points"`
}

type computeOptions struct {
	*rootOptions
	calcFlags
	seed       int64
	configPath string
	asJSON     bool
}

// calcFlags are the calculator settings shared by compute and config write.
type calcFlags struct {
	useLog  bool
	approx  bool
	epsilon float64
	delta   float64
}

func (f *calcFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.useLog, "log", false, "take the natural logarithm of every point coordinate (not the reference)")
	cmd.Flags().BoolVar(&f.approx, "approx", false, "estimate by Monte-Carlo sampling above three objectives")
	cmd.Flags().Float64Var(&f.epsilon, "epsilon", hypervolume.DefaultEpsilon, "relative error bound of the approximation")
	cmd.Flags().Float64Var(&f.delta, "delta", hypervolume.DefaultDelta, "failure probability of the approximation")
}

// apply copies the flags the user set onto calc.
func (f *calcFlags) apply(cmd *cobra.Command, calc *hypervolume.Calculator) {
	flags := cmd.Flags()
	if flags.Changed("log") {
		calc.UseLogHyp = f.useLog
	}
	if flags.Changed("approx") {
		calc.UseApproximation = f.approx
	}
	if flags.Changed("epsilon") {
		calc.SetApproximationEpsilon(f.epsilon)
	}
	if flags.Changed("delta") {
		calc.SetApproximationDelta(f.delta)
	}
}

func newComputeCmd(root *rootOptions) *cobra.Command {
	o := &computeOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "compute <file>",
		Short: "Compute the hypervolume of a point file",
		Long: `Reads a JSON or YAML file holding "points" (a list of objective vectors)
and "reference" (the reference point) and prints the hypervolume.
Use - to read from standard input. Flags override settings loaded with
--config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}
	o.calcFlags.register(cmd)
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "seed for the approximation (0 draws from the process source)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "calculator configuration file (json, yaml or toml)")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "output the result as JSON")
	return cmd
}

func (o *computeOptions) run(cmd *cobra.Command, path string) error {
	in, err := readPointFile(cmd, path)
	if err != nil {
		return err
	}

	calc := hypervolume.NewCalculator(
		hypervolume.WithRand(hypervolume.NewRand(o.seed)),
		hypervolume.WithLogger(o.logger(cmd)),
	)
	if o.configPath != "" {
		if err := calc.LoadConfigFile(o.configPath); err != nil {
			return errors.Wrapf(err, "load calculator config %s", o.configPath)
		}
	}
	o.calcFlags.apply(cmd, calc)

	algorithm, err := calc.Algorithm(len(in.Reference))
	if err != nil {
		return err
	}
	v, err := calc.Compute(in.Points, in.Reference)
	if err != nil {
		return err
	}

	res := computeResult{
		Hypervolume: v,
		Algorithm:   algorithm,
		Dimensions:  len(in.Reference),
		Points:      len(in.Points),
	}
	out := cmd.OutOrStdout()
	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Fprintf(out, "hypervolume: %s\n", strconv.FormatFloat(res.Hypervolume, 'g', -1, 64))
	fmt.Fprintf(out, "algorithm:   %s\n", res.Algorithm)
	fmt.Fprintf(out, "points:      %d\n", res.Points)
	fmt.Fprintf(out, "dimensions:  %d\n", res.Dimensions)
	return nil
}

func readPointFile(cmd *cobra.Command, path string) (*pointFile, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "open point file")
		}
		defer f.Close()
		r = f
	}

	var pf pointFile
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.NewDecoder(r).Decode(&pf)
	} else {
		err = yaml.NewDecoder(r).Decode(&pf)
	}
	if err != nil {
		if err == io.EOF {
			return nil, errors.Errorf("point file %s is empty", path)
		}
		return nil, errors.Wrapf(err, "decode point file %s", path)
	}
	return &pf, nil
}
