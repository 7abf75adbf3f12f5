package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/arm64dis/cache"
	"github.com/sarchlab/arm64dis/config"
	"github.com/sarchlab/arm64dis/disasm"
	"github.com/sarchlab/arm64dis/insts"
	"github.com/sarchlab/arm64dis/loader"
)

// textSize bounds the rendered text of one instruction.
const textSize = 128

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// driver runs the command modes against one configuration.
type driver struct {
	cfg      *config.Config
	log      *logrus.Logger
	out      io.Writer
	decoder  *insts.Decoder
	renderer *disasm.Renderer
}

func newDriver(cfg *config.Config, log *logrus.Logger, out io.Writer) *driver {
	return &driver{
		cfg:      cfg,
		log:      log,
		out:      out,
		decoder:  insts.NewDecoder(),
		renderer: newRenderer(cfg),
	}
}

func newRenderer(cfg *config.Config) *disasm.Renderer {
	return disasm.NewRenderer(disasm.WithStrict(cfg.StrictOperands))
}

// dump logs the decoded fields and operand classes at debug level.
func (d *driver) dump(inst *insts.Instruction, err error) {
	if !d.log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}

	d.log.WithFields(logrus.Fields{
		"word":     fmt.Sprintf("%08X", inst.Word),
		"encoding": inst.Encoding.String(),
		"op":       inst.Op.String(),
		"operands": inst.Operands.Len(),
		"error":    err,
	}).Debug("decoded")

	for i := 0; i < inst.Operands.Len(); i++ {
		fields := logrus.Fields{"index": i, "class": inst.Operands.Class(i).String()}
		if c, ok := inst.Operands.At(i).(insts.CondOperand); ok {
			fields["cond"] = c.Cond.String()
		}
		d.log.WithFields(fields).Debug("operand")
	}

	d.log.Debug(dumpConfig.Sdump(*inst))
}

// disassembleWord prints one word fetched from the configured base address.
// A decode failure is printed in place of the text.
func (d *driver) disassembleWord(word uint32) error {
	addr := d.cfg.BaseAddress

	inst, err := d.decoder.Decode(word, addr)
	d.dump(&inst, err)
	if err != nil {
		fmt.Fprintf(d.out, "%08X: %v\n", word, err)
		return nil
	}

	var buf [textSize]byte
	n, err := d.renderer.Render(&inst, addr, buf[:])
	if err != nil {
		return fmt.Errorf("render %08X: %w", word, err)
	}

	fmt.Fprintf(d.out, "%08X: %s\n", word, buf[:n])
	return nil
}

// speed decodes and renders pseudo-random words and reports throughput.
func (d *driver) speed() error {
	rng := rand.New(rand.NewSource(d.cfg.Seed))
	var buf [textSize]byte
	var decoded, failed uint64

	start := time.Now()
	for i := uint64(0); i < d.cfg.SpeedIterations; i++ {
		word := rng.Uint32()
		inst, err := d.decoder.Decode(word, 0)
		if err != nil {
			failed++
			continue
		}
		if _, err := d.renderer.Render(&inst, 0, buf[:]); err != nil {
			return fmt.Errorf("render %08X: %w", word, err)
		}
		decoded++
	}
	elapsed := time.Since(start)

	rate := float64(d.cfg.SpeedIterations) / elapsed.Seconds()
	d.log.WithFields(logrus.Fields{
		"decoded": decoded,
		"failed":  failed,
		"elapsed": elapsed,
	}).Debug("speed run complete")

	fmt.Fprintf(d.out, "%d words in %v (%.0f words/s)\n", d.cfg.SpeedIterations, elapsed, rate)
	return nil
}

// stress disassembles every 32-bit word, printing one line per 2^24 words.
func (d *driver) stress(ctx context.Context) error {
	return d.sweep(ctx, 1<<8, 24)
}

// sweep covers words [0, shards<<shardBits) in parallel shards. The first
// word of each shard is printed once every shard has finished.
func (d *driver) sweep(ctx context.Context, shards int, shardBits uint) error {
	lines := make([]string, shards)
	var failed atomic.Uint64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for s := 0; s < shards; s++ {
		g.Go(func() error {
			decoder := insts.NewDecoder()
			renderer := newRenderer(d.cfg)
			var buf [textSize]byte
			var fails uint64

			first := uint32(s) << shardBits
			for i := uint32(0); i < 1<<shardBits; i++ {
				if i&0xFFFF == 0 && ctx.Err() != nil {
					return ctx.Err()
				}

				word := first + i
				inst, err := decoder.Decode(word, 0)
				if err != nil {
					fails++
					if i == 0 {
						lines[s] = fmt.Sprintf("%08X: %v", word, err)
					}
					continue
				}

				n, err := renderer.Render(&inst, 0, buf[:])
				if err != nil {
					return fmt.Errorf("render %08X: %w", word, err)
				}
				if i == 0 {
					lines[s] = fmt.Sprintf("%08X: %s", word, buf[:n])
				}
			}

			failed.Add(fails)
			d.log.WithFields(logrus.Fields{
				"shard":  s,
				"failed": fails,
			}).Debug("shard done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Fprintln(d.out, line)
	}

	total := uint64(shards) << shardBits
	d.log.WithFields(logrus.Fields{
		"words":  total,
		"failed": failed.Load(),
	}).Info("sweep complete")
	return nil
}

// test prints the encoding group of pseudo-random words.
func (d *driver) test() error {
	rng := rand.New(rand.NewSource(d.cfg.Seed))
	for i := uint64(0); i < d.cfg.TestIterations; i++ {
		word := rng.Uint32()
		inst, _ := d.decoder.Decode(word, 0)
		fmt.Fprintf(d.out, "%08X: %d %s\n", word, inst.Encoding, inst.Encoding)
	}
	return nil
}

// disassembleELF prints every instruction of the executable segments of an
// ELF file, decoding through the decode cache.
func (d *driver) disassembleELF(path string) error {
	prog, err := loader.Load(path)
	if err != nil {
		return err
	}

	segs := prog.ExecutableSegments()
	d.log.WithFields(logrus.Fields{
		"path":     path,
		"entry":    fmt.Sprintf("0x%x", prog.EntryPoint),
		"segments": len(prog.Segments),
		"code":     len(segs),
	}).Debug("loaded")
	if len(segs) == 0 {
		d.log.WithField("path", path).Warn("no executable segments")
	}

	c := cache.New(d.cfg.CacheConfig(), d.decoder)
	var buf [textSize]byte

	for _, seg := range segs {
		fmt.Fprintf(d.out, "\n%016x <segment>:\n", seg.VirtAddr)
		for addr, word := range seg.Words() {
			res := c.Decode(word)
			if res.Err != nil {
				fmt.Fprintf(d.out, "%8x:\t%08x\t.inst\t0x%08x // %v\n", addr, word, word, res.Err)
				continue
			}

			n, err := d.renderer.Render(&res.Inst, addr, buf[:])
			if err != nil {
				return fmt.Errorf("render %08X at 0x%x: %w", word, addr, err)
			}
			fmt.Fprintf(d.out, "%8x:\t%08x\t%s\n", addr, word, buf[:n])
		}
	}

	stats := c.Stats()
	d.log.WithFields(logrus.Fields{
		"lookups":   stats.Lookups,
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"evictions": stats.Evictions,
		"failures":  stats.Failures,
		"entries":   c.Len(),
	}).Debug("decode cache")
	return nil
}
