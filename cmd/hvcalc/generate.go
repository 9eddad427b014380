package main

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/copyleftdev/hypervol/internal/errors"
	"github.com/copyleftdev/hypervol/internal/hypervolume"
	"github.com/copyleftdev/hypervol/internal/hypervolume/orderstat"
)

type generateOptions struct {
	points    int
	dims      int
	sample    int
	seed      int64
	reference float64
	format    string
	output    string
}

func newGenerateCmd() *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random non-dominated point file",
		Long: `Draws points uniformly on the unit simplex, which makes them mutually
non-dominated, and writes them with a constant reference point in the
format compute reads. --sample keeps a random subset of the drawn points.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
	cmd.Flags().IntVarP(&o.points, "points", "n", 100, "number of points to draw")
	cmd.Flags().IntVarP(&o.dims, "dims", "d", 3, "number of objectives")
	cmd.Flags().IntVar(&o.sample, "sample", 0, "keep a random subset of this many points (0 keeps all)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random seed (0 draws from the process source)")
	cmd.Flags().Float64Var(&o.reference, "ref", 1.1, "value of every reference coordinate")
	cmd.Flags().StringVar(&o.format, "format", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&o.output, "output", "o", "-", "output file, - for standard output")
	return cmd
}

func (o *generateOptions) run(cmd *cobra.Command) error {
	switch {
	case o.dims < 2:
		return errors.Errorf("--dims must be at least 2, got %d", o.dims)
	case o.points < 1:
		return errors.Errorf("--points must be positive, got %d", o.points)
	case o.sample < 0:
		return errors.Errorf("--sample must not be negative, got %d", o.sample)
	case !(o.reference > 1):
		return errors.Errorf("--ref must exceed 1 so every simplex point is dominated by it, got %v", o.reference)
	}

	rng := hypervolume.NewRand(o.seed)
	front := simplexFront(o.points, o.dims, rng)
	if o.sample > 0 && o.sample < len(front) {
		orderstat.PartialShuffle(front, o.sample, rng)
		front = front[:o.sample]
	}

	ref := make([]float64, o.dims)
	for i := range ref {
		ref[i] = o.reference
	}
	pf := pointFile{Points: front, Reference: ref}

	var w io.Writer = cmd.OutOrStdout()
	if o.output != "-" {
		f, err := os.Create(o.output)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer f.Close()
		w = f
	}
	return writePointFile(w, &pf, o.format)
}

// simplexFront draws n points uniformly on the unit simplex by normalizing
// exponential variates.
func simplexFront(n, d int, rng hypervolume.Rand) [][]float64 {
	flat := make([]float64, n*d)
	points := make([][]float64, n)
	for i := range points {
		p := flat[i*d : (i+1)*d : (i+1)*d]
		sum := 0.0
		for k := range p {
			p[k] = -math.Log(1 - rng.Float64())
			sum += p[k]
		}
		for k := range p {
			p[k] /= sum
		}
		points[i] = p
	}
	return points
}

func writePointFile(w io.Writer, pf *pointFile, format string) error {
	switch hypervolume.Format(format) {
	case hypervolume.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pf)
	case hypervolume.FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(pf); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Errorf("unsupported point file format %q", format)
}
