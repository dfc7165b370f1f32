// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/chipripper/internal/options"
)

var validChips = []string{"apu", "sid", "pokey", "ay"}

// ParseFlags parses command line flags and returns program and extraction
// options. The extraction still lacks the code bytes, the caller reads
// those from the input file.
func ParseFlags() (options.Program, options.Extraction, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, options.Extraction{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Extraction{}, err
	}

	opts.Input = args[0]

	if err := normalizeOptions(&opts); err != nil {
		return opts, options.Extraction{}, err
	}

	extraction, err := createExtraction(opts)
	if err != nil {
		return opts, options.Extraction{}, err
	}

	return opts, extraction, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: chipripper [options] <code image file>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after code image file, please pass the code image as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Chip = strings.ToLower(opts.Chip)
	if opts.Chip == "ay8910" || opts.Chip == "ym2149" {
		opts.Chip = "ay"
	}

	for _, valid := range validChips {
		if opts.Chip == valid {
			return nil
		}
	}

	return fmt.Errorf("unsupported chip: %s. Valid options: %s",
		opts.Chip, strings.Join(validChips, ", "))
}

// createExtraction resolves the address flags into an extraction run
func createExtraction(opts options.Program) (options.Extraction, error) {
	load, err := parseAddress("load", opts.Load)
	if err != nil {
		return options.Extraction{}, err
	}
	initAddr, err := parseAddress("init", opts.Init)
	if err != nil {
		return options.Extraction{}, err
	}
	tickAddr, err := parseAddress("tick", opts.Tick)
	if err != nil {
		return options.Extraction{}, err
	}
	if opts.Song < 0 || opts.Song > 255 {
		return options.Extraction{}, fmt.Errorf("song number %d out of range", opts.Song)
	}

	return options.Extraction{
		LoadAddr:   load,
		InitAddr:   initAddr,
		TickAddr:   tickAddr,
		Chip:       opts.Chip,
		TickRate:   opts.TickRate,
		Ticks:      opts.Seconds * opts.TickRate,
		TargetRows: opts.Rows,
		Song:       byte(opts.Song),
		Trace:      opts.Debug,
	}, nil
}

// parseAddress parses a 16-bit address given as hex ($8000, 0x8000) or
// decimal.
func parseAddress(name, value string) (uint16, error) {
	if value == "" {
		return 0, &UsageError{msg: fmt.Sprintf("missing -%s address", name)}
	}

	s := strings.TrimPrefix(strings.ToLower(value), "$")
	base := 10
	if strings.HasPrefix(s, "0x") {
		s = strings.TrimPrefix(s, "0x")
		base = 16
	} else if s != value {
		base = 16
	}

	addr, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid -%s address %q: %w", name, value, err)
	}
	return uint16(addr), nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Chip, "chip", "apu", "sound chip to track (apu/sid/pokey/ay)")
	flags.StringVar(&opts.Load, "load", "", "load address of the code image ($8000 or 0x8000)")
	flags.StringVar(&opts.Init, "init", "", "address of the init routine")
	flags.StringVar(&opts.Tick, "tick", "", "address of the per-tick play routine")
	flags.IntVar(&opts.TickRate, "rate", 50, "native tick rate in Hz")
	flags.IntVar(&opts.Seconds, "seconds", 60, "seconds of playback to replay")
	flags.IntVar(&opts.Rows, "rows", 256, "maximum number of output rows")
	flags.IntVar(&opts.Song, "song", 0, "subsong number passed to the init routine")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
