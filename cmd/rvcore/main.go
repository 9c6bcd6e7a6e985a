// Package main provides the rvcore command.
// It decodes RV32I instruction words and replays short programs through
// the cycle-accounting core.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32core/emu"
	"github.com/sarchlab/rv32core/insts"
	"github.com/sarchlab/rv32core/timing/cache"
	"github.com/sarchlab/rv32core/timing/core"
	"github.com/sarchlab/rv32core/timing/latency"
)

var (
	jsonOut    = flag.Bool("json", false, "Print decoded control signals as JSON")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	useCache   = flag.Bool("cache", false, "Attach the default L1 data cache")
	maxSteps   = flag.Uint64("steps", 10000, "Maximum instructions to execute in trace mode")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: rvcore [options] decode|trace <hexword>...\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}

	logrus.SetLevel(logLevel(*verbose))

	words, err := parseWords(flag.Args()[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "decode":
		err = runDecode(os.Stdout, words, *jsonOut)
	case "trace":
		err = runTrace(os.Stdout, words, *configPath, *useCache, *maxSteps)
	default:
		err = fmt.Errorf("unknown command %q", flag.Arg(0))
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logLevel returns Trace when verbose so per-instruction records show.
func logLevel(verbose bool) logrus.Level {
	if verbose {
		return logrus.TraceLevel
	}
	return logrus.InfoLevel
}

// parseWords parses hexadecimal instruction words, with or without a 0x
// prefix.
func parseWords(args []string) ([]uint32, error) {
	words := make([]uint32, 0, len(args))
	for _, arg := range args {
		s := strings.TrimPrefix(strings.ToLower(arg), "0x")
		word, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid instruction word %q: %w", arg, err)
		}
		words = append(words, uint32(word))
	}
	return words, nil
}

// runDecode prints the control vector of each word.
func runDecode(w io.Writer, words []uint32, asJSON bool) error {
	decoder := insts.NewDecoder()

	if asJSON {
		type decoded struct {
			Word    string               `json:"word"`
			Control insts.ControlSignals `json:"control"`
		}

		out := make([]decoded, 0, len(words))
		for _, word := range words {
			out = append(out, decoded{
				Word:    fmt.Sprintf("0x%08X", word),
				Control: decoder.Decode(word),
			})
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to encode control signals: %w", err)
		}
		return nil
	}

	for _, word := range words {
		fmt.Fprintf(w, "0x%08X  %s\n", word, decoder.Decode(word))
	}
	return nil
}

// runTrace executes words as a program image at PC 0 through the timing
// core and prints the resulting state.
func runTrace(
	w io.Writer,
	words []uint32,
	configPath string,
	withCache bool,
	steps uint64,
) error {
	timingConfig := latency.DefaultTimingConfig()
	if configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load timing config: %w", err)
		}
	}
	if err := timingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid timing config: %w", err)
	}

	opts := []core.CoreOption{core.WithTimingConfig(timingConfig)}
	if withCache {
		opts = append(opts, core.WithDataCache(cache.DefaultL1DConfig()))
	}

	c := core.NewCore(emu.NewDatapath(), opts...)
	pc := c.Run(0, words, steps)

	fmt.Fprintf(w, "Final PC: 0x%08X\n", pc)
	fmt.Fprintf(w, "\nRegisters:\n")
	regFile := c.Datapath.RegFile()
	for i := uint8(1); i < 32; i++ {
		if v := regFile.ReadReg(i); v != 0 {
			fmt.Fprintf(w, "  x%-2d = 0x%08X (%d)\n", i, v, int32(v))
		}
	}

	stats := c.Stats()
	cpi := 0.0
	if stats.Instructions > 0 {
		cpi = float64(stats.Cycles) / float64(stats.Instructions)
	}

	fmt.Fprintf(w, "\nStatistics:\n")
	fmt.Fprintf(w, "  Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "  Cycles:       %d\n", stats.Cycles)
	fmt.Fprintf(w, "  CPI:          %.3f\n", cpi)
	fmt.Fprintf(w, "  Loads/Stores: %d/%d\n", stats.Loads, stats.Stores)
	fmt.Fprintf(w, "  Branches:     %d (%d taken)\n", stats.Branches, stats.TakenBranches)
	if withCache {
		fmt.Fprintf(w, "  Cache:        %d hits, %d misses, %d writebacks\n",
			stats.CacheHits, stats.CacheMisses, stats.CacheWritebacks)
	}
	fmt.Fprintf(w, "  Elapsed:      %.3g s at %.0f MHz\n", c.Elapsed(), timingConfig.ClockFreqMHz)

	return nil
}
