// Package options contains the program options and their parsing from the
// command line and an optional JSON config file.
package options

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mnafees/chopper/v2/internal"
)

// Names of the supported frontends
const (
	FrontendSDL      = "sdl"
	FrontendEbiten   = "ebiten"
	FrontendTerminal = "term"
	FrontendHeadless = "headless"
)

var frontends = []string{FrontendSDL, FrontendEbiten, FrontendTerminal, FrontendHeadless}

// Defaults for the emulation speed
const (
	DefaultIPS   = 700
	DefaultScale = 20
)

// Program options of the emulator.
type Program struct {
	Input  string // CHIP-8 program to run
	Config string // JSON config file

	Frontend string
	Scale    int // window pixels per CHIP-8 pixel
	Quirks   string
	IPS      int   // instructions per second
	Seed     int64 // CXNN seed, 0 picks one from the clock
	Frames   int   // stop after this many frames, 0 runs until quit

	WavFile  string // record the beeper to this file
	DumpFile string // write a graphviz dump of the machine state on exit

	Disasm bool // print a disassembly listing instead of running
	Trace  bool // log every executed instruction
	Stats  bool // start the statsview server
	Debug  bool
	Quiet  bool
}

// File is the layout of the JSON config file
type File struct {
	Emulation EmulationConfig `json:"emulation"`
	Video     VideoConfig     `json:"video"`
	Audio     AudioConfig     `json:"audio"`
	Debug     DebugConfig     `json:"debug"`
}

// EmulationConfig contains emulation related configuration
type EmulationConfig struct {
	IPS    int    `json:"ips"`
	Quirks string `json:"quirks"`
	Seed   int64  `json:"seed"`
}

// VideoConfig contains display related configuration
type VideoConfig struct {
	Frontend string `json:"frontend"`
	Scale    int    `json:"scale"`
}

// AudioConfig contains audio related configuration
type AudioConfig struct {
	WavFile string `json:"wav_file"`
}

// DebugConfig contains debugging configuration
type DebugConfig struct {
	Trace    bool   `json:"trace"`
	Stats    bool   `json:"stats"`
	DumpFile string `json:"dump_file"`
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage text and all flags
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chopper [options] <CHIP-8 program>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(w)
		e.flags.PrintDefaults()
	}
	fmt.Fprintln(w)
}

// ParseFlags parses the command line arguments, without the program name.
// Values from a config file given with -config are used for every flag that
// was not set explicitly.
func ParseFlags(args []string) (Program, error) {
	flags := flag.NewFlagSet("chopper", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Program
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	rest := flags.Args()
	if len(rest) != 1 {
		return opts, &UsageError{flags: flags, msg: "expected exactly one CHIP-8 program"}
	}
	opts.Input = rest[0]

	if opts.Config != "" {
		file, err := LoadFile(opts.Config)
		if err != nil {
			return opts, err
		}
		set := map[string]bool{}
		flags.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})
		applyFile(&opts, file, set)
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Program) {
	flags.StringVar(&opts.Config, "config", "", "JSON config file to read settings from")
	flags.StringVar(&opts.Frontend, "frontend", FrontendSDL, "frontend to use ("+strings.Join(frontends, "/")+")")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.StringVar(&opts.Quirks, "quirks", internal.QuirksModern, "opcode behaviour profile (modern/cosmac)")
	flags.IntVar(&opts.IPS, "ips", DefaultIPS, "instructions executed per second")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed for the random number opcode, 0 seeds from the clock")
	flags.IntVar(&opts.Frames, "frames", 0, "stop after this many 60Hz frames, 0 runs until quit")
	flags.StringVar(&opts.WavFile, "wav", "", "record the beeper to a WAV file")
	flags.StringVar(&opts.DumpFile, "dump", "", "write a graphviz dump of the machine state to this file on exit")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly of the program and exit")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Stats, "stats", false, "serve runtime statistics over http")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}

// LoadFile reads a JSON config file
func LoadFile(path string) (File, error) {
	var file File
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parsing config file '%s': %w", path, err)
	}
	return file, nil
}

// applyFile copies every non-zero value of the config file into opts unless
// the matching flag was given on the command line.
func applyFile(opts *Program, file File, set map[string]bool) {
	if !set["ips"] && file.Emulation.IPS != 0 {
		opts.IPS = file.Emulation.IPS
	}
	if !set["quirks"] && file.Emulation.Quirks != "" {
		opts.Quirks = file.Emulation.Quirks
	}
	if !set["seed"] && file.Emulation.Seed != 0 {
		opts.Seed = file.Emulation.Seed
	}
	if !set["frontend"] && file.Video.Frontend != "" {
		opts.Frontend = file.Video.Frontend
	}
	if !set["scale"] && file.Video.Scale != 0 {
		opts.Scale = file.Video.Scale
	}
	if !set["wav"] && file.Audio.WavFile != "" {
		opts.WavFile = file.Audio.WavFile
	}
	if !set["trace"] && file.Debug.Trace {
		opts.Trace = true
	}
	if !set["stats"] && file.Debug.Stats {
		opts.Stats = true
	}
	if !set["dump"] && file.Debug.DumpFile != "" {
		opts.DumpFile = file.Debug.DumpFile
	}
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *Program) error {
	opts.Frontend = strings.ToLower(opts.Frontend)
	opts.Quirks = strings.ToLower(opts.Quirks)
	if opts.Trace {
		opts.Debug = true
	}

	if _, err := internal.QuirksByName(opts.Quirks); err != nil {
		return err
	}
	if opts.IPS <= 0 {
		return errors.New("instructions per second must be positive")
	}
	if opts.Scale <= 0 {
		return errors.New("scale must be positive")
	}
	if opts.Frames < 0 {
		return errors.New("frame count must not be negative")
	}

	for _, valid := range frontends {
		if opts.Frontend == valid {
			return nil
		}
	}
	return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
		opts.Frontend, strings.Join(frontends, ", "))
}

// VMOptions returns the options to construct a VM with
func (p Program) VMOptions() ([]internal.Option, error) {
	quirks, err := internal.QuirksByName(p.Quirks)
	if err != nil {
		return nil, err
	}
	vmOpts := []internal.Option{internal.WithQuirks(quirks)}
	if p.Seed != 0 {
		vmOpts = append(vmOpts, internal.WithSeed(p.Seed))
	}
	return vmOpts, nil
}
