package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/txttable"
)

// loadTable reads the table at path, or stdin when path is "-".
func (o *rootOptions) loadTable(cmd *cobra.Command, path string) (*txttable.Table, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.IO(errors.PhaseParse, "open", path, err)
		}
		defer f.Close()
		r = f
	}
	return txttable.Read(r, o.alloc, o.readOptions())
}

// writeTable writes t to path, or to the command output when path is empty.
func writeTable(cmd *cobra.Command, path string, t *txttable.Table) error {
	if path == "" {
		return txttable.Write(cmd.OutOrStdout(), t)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.IO(errors.PhaseParse, "create", path, err)
	}
	if err := txttable.Write(f, t); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.IO(errors.PhaseParse, "close", path, err)
	}
	return nil
}
