package main

import (
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/dataset/array"
	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
	"github.com/wippyai/dataset/txttable"
)

func newFillCommand(opts *rootOptions) *cobra.Command {
	var (
		value   string
		column  int
		output  string
		lo, hi  float64
		hasLo   bool
		hasHi   bool
		setFill bool
	)

	cmd := &cobra.Command{
		Use:   "fill <table|->",
		Short: "Mask out-of-range values and replace blanks",
		Long: `Blank numeric values outside [--min, --max) and then, when --value is
given, replace every blank with that value. --column restricts both steps
to one column (1-based).`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			hasLo = cmd.Flags().Changed("min")
			hasHi = cmd.Flags().Changed("max")
			setFill = cmd.Flags().Changed("value")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Release()

			if column < 0 || column > len(t.Columns) {
				return errors.InvalidInput(errors.PhaseMask, "--column is out of range")
			}
			if !hasLo {
				lo = math.NaN()
			}
			if !hasHi {
				hi = math.NaN()
			}

			for i := range t.Columns {
				if column != 0 && i != column-1 {
					continue
				}
				if err := fillColumn(&t.Columns[i], lo, hi, value, setFill); err != nil {
					return err
				}
			}
			return writeTable(cmd, output, t)
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "replacement for blank values")
	cmd.Flags().IntVar(&column, "column", 0, "only process this column (1-based)")
	cmd.Flags().Float64Var(&lo, "min", 0, "blank values below this")
	cmd.Flags().Float64Var(&hi, "max", 0, "blank values at or above this")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func fillColumn(c *txttable.Column, lo, hi float64, value string, setFill bool) error {
	k := c.Data.Kind()
	if (!math.IsNaN(lo) || !math.IsNaN(hi)) && k.IsNumeric() {
		if err := array.MaskOutOfRange(c.Data, lo, hi); err != nil {
			return err
		}
	}
	if !setFill {
		return nil
	}

	v, err := scalar.ParseValue(k, value)
	if err != nil {
		return err
	}
	n := array.CountBlank(c.Data)
	if err := array.ReplaceBlank(c.Data, v); err != nil {
		return err
	}
	array.Logger().Debug("filled blanks",
		zap.Int("column", c.Info.Index),
		zap.Int("replaced", n))
	return nil
}
