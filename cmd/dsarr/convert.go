package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
)

func newConvertCommand(opts *rootOptions) *cobra.Command {
	var (
		to      string
		output  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "convert <table|->",
		Short: "Convert every numeric column to one kind",
		Long: `Convert every numeric column to the kind given by --to, using Go numeric
conversion. String columns are left as they are unless --to is str.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, _, err := scalar.ParseCode(to)
			if err != nil {
				return err
			}
			if workers < 0 {
				return errors.InvalidInput(errors.PhaseConvert, "--workers must not be negative")
			}

			t, err := opts.loadTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Release()

			if err := t.Convert(cmd.Context(), k, workers); err != nil {
				return err
			}
			return writeTable(cmd, output, t)
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "f64", "target type code")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "columns converted concurrently (0 for no limit)")

	return cmd
}
