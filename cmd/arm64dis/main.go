// Package main provides the entry point for arm64dis.
// arm64dis decodes and disassembles AArch64 instruction words.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/arm64dis/config"
)

var (
	configPath = flag.String("config", "", "Path to configuration JSON file")
	elfPath    = flag.String("elf", "", "Disassemble the executable segments of an ARM64 ELF file")
	addrFlag   = flag.String("addr", "", "Address (hex) the word is fetched from, overrides base_address")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: arm64dis [options] <word | speed | stress | test>\n")
	fmt.Fprintf(os.Stderr, "       arm64dis [options] -elf <program.elf>\n")
	fmt.Fprintf(os.Stderr, "\nExample:\n\tarm64dis d503201f\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *elfPath == "" && flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := newDriver(cfg, log, os.Stdout)

	if *elfPath != "" {
		err = d.disassembleELF(*elfPath)
	} else {
		err = run(ctx, d, flag.Arg(0))
	}

	if err != nil {
		log.WithError(err).Error("arm64dis failed")
		os.Exit(1)
	}
}

// loadConfig builds the configuration from the -config, -addr and -v flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if *addrFlag != "" {
		addr, err := parseHex(*addrFlag, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid -addr: %w", err)
		}
		cfg.BaseAddress = addr
	}

	if *verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run dispatches a positional command.
func run(ctx context.Context, d *driver, arg string) error {
	switch arg {
	case "speed":
		return d.speed()
	case "stress", "stresser", "strain", "strainer":
		return d.stress(ctx)
	case "test":
		return d.test()
	}

	word, err := parseHex(arg, 32)
	if err != nil {
		return fmt.Errorf("invalid instruction word %q: %w", arg, err)
	}
	return d.disassembleWord(uint32(word))
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	return strconv.ParseUint(s, 16, bits)
}
