// intcode runs intcode programs: single machines, amplifier chains and
// feedback rings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/intcode/manifest"
	"github.com/chazu/intcode/pipeline"
	"github.com/chazu/intcode/program"
	"github.com/chazu/intcode/vm"
)

var log = commonlog.GetLogger("intcode.cli")

// config is the merged result of intcode.toml and the command line.
type config struct {
	path        string
	inputs      []int64
	interactive bool
	ascii       bool
	chain       []int64
	ring        []int64
	search      []int64
	feedback    bool
	disasm      bool
	trace       bool
	verbosity   int
	progress    bool
	workers     int
	init        bool
	color       bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command line in args and returns the process exit
// status: 0 on success or -h, 1 on any error.
func execute(args []string, in io.Reader, out, errOut io.Writer) int {
	colors := newPalette(os.Getenv("NO_COLOR") == "")

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintln(errOut, colors.failure("Error: "+err.Error()))
		return 1
	}

	cfg, err := parseArgs(args, m, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, colors.failure("Error: "+err.Error()))
		return 1
	}
	cfg.color = colors.enabled

	commonlog.Configure(cfg.verbosity, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, in, out, errOut); err != nil {
		fmt.Fprintln(errOut, colors.failure("Error: "+err.Error()))
		return 1
	}
	return 0
}

// parseArgs builds a config from args. Values from m, when non-nil, are
// the defaults every flag overrides.
func parseArgs(args []string, m *manifest.Manifest, errOut io.Writer) (*config, error) {
	if m == nil {
		m = manifest.Default()
	}

	fs := flag.NewFlagSet("intcode", flag.ContinueOnError)
	fs.SetOutput(errOut)

	inputs := fs.String("i", joinValues(m.Run.Inputs), "Comma-separated inputs for a buffered run")
	interactive := fs.Bool("interactive", m.Run.Interactive, "Read inputs from stdin and print outputs as they come")
	ascii := fs.Bool("ascii", m.Run.ASCII, "Exchange ASCII text instead of integers")
	chain := fs.String("chain", "", "Run the amplifier chain with these phases (e.g. 4,3,2,1,0)")
	ring := fs.String("ring", "", "Run the feedback ring with these phases (e.g. 9,8,7,6,5)")
	search := fs.String("search", "", "Find the phase permutation of these values with the largest result")
	feedback := fs.Bool("feedback", m.Ring(), "Search over the feedback ring instead of the chain")
	disasm := fs.Bool("disasm", false, "Print a disassembly and exit")
	trace := fs.Bool("trace", m.Run.Trace, "Log every instruction (implies -v)")
	verbose := fs.Bool("v", false, "Verbose output")
	progress := fs.Bool("progress", false, "Show a progress bar while searching")
	workers := fs.Int("workers", m.Pipeline.Workers, "Permutations evaluated at once (0 for one per CPU)")
	initManifest := fs.Bool("init", false, "Write an intcode.toml for the program in the current directory")

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: intcode [options] [program-file]\n\n")
		fmt.Fprintf(errOut, "Runs an intcode program. Without a program file the one named in intcode.toml is used.\n\n")
		fmt.Fprintf(errOut, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(errOut, "\nExamples:\n")
		fmt.Fprintf(errOut, "  intcode -i 1 day05.txt              # Run with input 1\n")
		fmt.Fprintf(errOut, "  intcode -interactive -ascii day25.txt\n")
		fmt.Fprintf(errOut, "  intcode -chain 4,3,2,1,0 day07.txt\n")
		fmt.Fprintf(errOut, "  intcode -search 5,6,7,8,9 -feedback -progress day07.txt\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &config{
		interactive: *interactive,
		ascii:       *ascii,
		feedback:    *feedback,
		disasm:      *disasm,
		trace:       *trace,
		verbosity:   m.Log.Verbosity,
		progress:    *progress,
		workers:     *workers,
		init:        *initManifest,
	}
	if *verbose || *trace {
		cfg.verbosity = 2
	}

	var err error
	if cfg.inputs, err = program.ParseValues(*inputs); err != nil {
		return nil, fmt.Errorf("-i: %w", err)
	}
	if cfg.chain, err = program.ParseValues(*chain); err != nil {
		return nil, fmt.Errorf("-chain: %w", err)
	}
	if cfg.ring, err = program.ParseValues(*ring); err != nil {
		return nil, fmt.Errorf("-ring: %w", err)
	}
	if cfg.search, err = program.ParseValues(*search); err != nil {
		return nil, fmt.Errorf("-search: %w", err)
	}

	// Pipeline settings from the manifest apply only when no pipeline flag
	// was given.
	if cfg.chain == nil && cfg.ring == nil && cfg.search == nil {
		switch {
		case m.Pipeline.Search:
			cfg.search = m.Pipeline.Values
		case len(m.Pipeline.Phases) > 0 && m.Ring():
			cfg.ring = m.Pipeline.Phases
		case len(m.Pipeline.Phases) > 0:
			cfg.chain = m.Pipeline.Phases
		}
	}

	switch fs.NArg() {
	case 0:
		cfg.path = m.ProgramPath()
	case 1:
		cfg.path = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one program file, got %d", fs.NArg())
	}
	if cfg.path == "" {
		fs.Usage()
		return nil, errors.New("no program file given and no [program] path in intcode.toml")
	}
	return cfg, nil
}

// run executes the mode selected by cfg. Results go to out; progress and
// diagnostics go to errOut.
func run(ctx context.Context, cfg *config, in io.Reader, out, errOut io.Writer) error {
	colors := newPalette(cfg.color)

	if cfg.init {
		return writeManifest(cfg)
	}

	p, err := program.Load(cfg.path)
	if err != nil {
		return err
	}
	log.Debugf("loaded %s: %d cells", cfg.path, len(p))

	switch {
	case cfg.disasm:
		fmt.Fprint(out, p.DisassembleWithName(cfg.path))
		return nil

	case cfg.search != nil:
		res, err := runSearch(ctx, cfg, p, errOut)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", colors.label("phases"), joinValues(res.Phases))
		fmt.Fprintf(out, "%s %s\n", colors.label("signal"), colors.result(res.Signal))
		return nil

	case cfg.ring != nil:
		v, err := pipeline.RingContext(ctx, p, cfg.ring, pipelineOptions(cfg)...)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, colors.result(v))
		return nil

	case cfg.chain != nil:
		v, err := pipeline.Chain(p, cfg.chain)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, colors.result(v))
		return nil

	case cfg.interactive:
		console := newConsoleIO(in, out, cfg.ascii, true)
		_, err := vm.Execute(p, console, vm.WithTrace(cfg.trace))
		log.Debugf("interactive run wrote %d values", console.written)
		return err
	}

	buf := vm.NewBuffer(cfg.inputs...)
	_, err = vm.Execute(p, buf, vm.WithTrace(cfg.trace))
	printOutputs(out, buf.Output(), cfg.ascii, colors)
	if err != nil {
		return err
	}
	if buf.Remaining() > 0 {
		log.Infof("%d inputs left unread", buf.Remaining())
	}
	return nil
}

func runSearch(ctx context.Context, cfg *config, p vm.Program, errOut io.Writer) (pipeline.Result, error) {
	opts := pipelineOptions(cfg)
	if cfg.progress {
		bar := progressbar.NewOptions(pipeline.PermutationCount(len(cfg.search)),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("searching"),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		opts = append(opts, pipeline.WithProgress(func() {
			bar.Add(1)
		}))
	}

	if cfg.feedback {
		return pipeline.MaxRingContext(ctx, p, cfg.search, opts...)
	}
	return pipeline.MaxChain(p, cfg.search, opts...)
}

func pipelineOptions(cfg *config) []pipeline.Option {
	opts := []pipeline.Option{pipeline.WithTrace(cfg.trace)}
	if cfg.workers > 0 {
		opts = append(opts, pipeline.WithWorkers(cfg.workers))
	}
	return opts
}

// printOutputs prints a buffered run's outputs. In ASCII mode text is
// printed as is and any value outside the ASCII range follows on its own
// line.
func printOutputs(out io.Writer, values []int64, ascii bool, colors palette) {
	if !ascii {
		for _, v := range values {
			fmt.Fprintln(out, colors.result(v))
		}
		return
	}
	var text strings.Builder
	for _, v := range values {
		if v >= 0 && v < 128 {
			text.WriteByte(byte(v))
			continue
		}
		if text.Len() > 0 {
			fmt.Fprint(out, text.String())
			text.Reset()
		}
		fmt.Fprintln(out, colors.result(v))
	}
	fmt.Fprint(out, text.String())
}

func writeManifest(cfg *config) error {
	m := manifest.Default()
	m.Program.Path = cfg.path
	m.Run.Inputs = cfg.inputs
	m.Run.ASCII = cfg.ascii
	m.Run.Interactive = cfg.interactive
	m.Pipeline.Workers = cfg.workers
	switch {
	case cfg.search != nil:
		m.Pipeline.Search = true
		m.Pipeline.Values = cfg.search
		if cfg.feedback {
			m.Pipeline.Mode = manifest.ModeRing
		}
	case cfg.ring != nil:
		m.Pipeline.Mode = manifest.ModeRing
		m.Pipeline.Phases = cfg.ring
		m.Pipeline.Values = manifest.DefaultValues(manifest.ModeRing)
	case cfg.chain != nil:
		m.Pipeline.Phases = cfg.chain
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := manifest.Write(dir, m); err != nil {
		return err
	}
	log.Infof("wrote %s", manifest.FileName)
	return nil
}

func joinValues(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}
