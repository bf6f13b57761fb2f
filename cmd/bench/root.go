package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/IvanBrykalov/pecache/internal/config"
	"github.com/spf13/cobra"
)

// options collects flag values; flags that were set override the config file.
type options struct {
	configPath string
	sizes      []int
	rounds     int
	workers    int
	httpAddr   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure fill-and-drain eviction time of the priority/expiry cache",
		Long: `bench fills a cache to each configured capacity with random keys,
then shrinks the capacity one slot at a time to zero so that every entry
leaves through the eviction policy. One line "<size>  <microseconds>" is
printed per size.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := resolveWorkload(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), w, cmd.OutOrStdout(), newLogger(w.Verbose, cmd.ErrOrStderr()))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "workload file (.yaml, .yml or .toml)")
	f.IntSliceVar(&opts.sizes, "sizes", nil, "cache capacities to measure (default 1000..10000)")
	f.IntVar(&opts.rounds, "rounds", 0, "fill/drain cycles per size (default 10)")
	f.IntVar(&opts.workers, "workers", 0, "independent caches run in parallel (default 1)")
	f.StringVar(&opts.httpAddr, "http", "", "serve /metrics and /debug/pprof at addr (e.g. :8080); empty = disabled")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log cache construction and capacity changes")
	return cmd
}

// resolveWorkload layers defaults, the optional file, then explicit flags.
func resolveWorkload(cmd *cobra.Command, opts options) (config.Workload, error) {
	w := config.Default()
	if opts.configPath != "" {
		var err error
		if w, err = config.Load(opts.configPath); err != nil {
			return w, err
		}
	}

	f := cmd.Flags()
	if f.Changed("sizes") {
		w.Sizes = opts.sizes
	}
	if f.Changed("rounds") {
		w.Rounds = opts.rounds
	}
	if f.Changed("workers") {
		w.Workers = opts.workers
	}
	if f.Changed("http") {
		w.HTTPAddr = opts.httpAddr
	}
	if f.Changed("verbose") {
		w.Verbose = opts.verbose
	}
	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("invalid workload: %w", err)
	}
	return w, nil
}

func newLogger(verbose bool, stderr io.Writer) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return log.New(stderr, "", log.LstdFlags)
}
