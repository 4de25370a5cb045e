package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./readsanalyzer.toml"

type cliOptions struct {
	configPath   string
	kmerSize     int
	minOverlap   int
	output       string
	format       string
	noKmers      bool
	watch        bool
	ui           bool
	db           bool
	history      bool
	historyLimit int
	historyJSON  string
	verbose      bool
	version      bool
	args         []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("readsanalyzer", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.IntVar(&opts.kmerSize, "kmer-size", 0, "K-mer length (overrides kmers.size)")
	fs.IntVar(&opts.minOverlap, "min-overlap", 0, "Minimum overlap for an edge (overrides overlap.min_overlap)")
	fs.StringVar(&opts.output, "output", "", "Assembly output file (overrides output.assembly)")
	fs.StringVar(&opts.format, "format", "", "Input format: auto, fasta, fastq or text (overrides inputs.format)")
	fs.BoolVar(&opts.noKmers, "no-kmers", false, "Skip the k-mer table")
	fs.BoolVar(&opts.watch, "watch", false, "Keep running and ingest new read files under the input directories")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode")
	fs.BoolVar(&opts.db, "db", false, "Record assembly runs in the history database")
	fs.BoolVar(&opts.history, "history", false, "Print recorded assembly runs and exit")
	fs.IntVar(&opts.historyLimit, "history-limit", 20, "Maximum number of runs printed by --history (0 for all)")
	fs.StringVar(&opts.historyJSON, "history-json", "", "Write the runs printed by --history as JSON to this path")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
