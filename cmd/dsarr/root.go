package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/dataset/array"
	"github.com/wippyai/dataset/config"
	"github.com/wippyai/dataset/store"
	"github.com/wippyai/dataset/txttable"
)

// rootOptions holds the global flags and the state built from them before
// a subcommand runs.
type rootOptions struct {
	ConfigPath string
	Map        bool
	Verbose    bool

	cfg      *config.Config
	logger   *zap.Logger
	provider *store.Provider
	alloc    *array.Allocator
}

// newRootCommand builds the command tree. Run it with execute so that
// teardown also happens when a subcommand fails.
func newRootCommand() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dsarr",
		Short: "Inspect and transform typed column tables",
		Long: `dsarr reads plain-text tables with column-info comments into typed
arrays, and reports on, converts or fills their blank values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config")
	cmd.PersistentFlags().BoolVarP(&opts.Map, "map", "m", false, "back numeric columns with mapped files")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.AddCommand(newInfoCommand(opts))
	cmd.AddCommand(newConvertCommand(opts))
	cmd.AddCommand(newFillCommand(opts))
	cmd.AddCommand(newViewCommand(opts))

	return cmd, opts
}

// execute runs cmd and tears down whatever setup built, keeping the first
// error.
func execute(cmd *cobra.Command, opts *rootOptions) error {
	err := cmd.Execute()
	if terr := opts.teardown(); err == nil {
		err = terr
	}
	return err
}

func (o *rootOptions) setup() error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.Map {
		cfg.Store.Backing = store.PolicyMapped.String()
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	store.SetLogger(logger.Named("store"))
	array.SetLogger(logger.Named("array"))
	txttable.SetLogger(logger.Named("txttable"))

	o.cfg = cfg
	o.logger = logger
	o.provider = store.NewProvider(cfg.StoreConfig())
	o.alloc = array.NewAllocator(o.provider)

	logger.Debug("configured",
		zap.String("scratch_dir", cfg.Store.ScratchDir),
		zap.Stringer("backing", cfg.Policy()))
	return nil
}

func (o *rootOptions) teardown() error {
	if o.provider == nil {
		return nil
	}
	p := o.provider
	o.provider = nil

	err := p.Close()
	if removed, rerr := p.RemoveScratchIfEmpty(); rerr != nil {
		o.logger.Warn("remove scratch dir", zap.Error(rerr))
	} else if removed {
		o.logger.Debug("removed empty scratch dir")
	}
	_ = o.logger.Sync()
	return err
}

func (o *rootOptions) readOptions() txttable.ReadOptions {
	return txttable.ReadOptions{Policy: o.cfg.Policy()}
}
