package main

import (
	"bytes"
	"context"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/arm64dis/config"
)

var _ = Describe("driver", func() {
	var (
		cfg *config.Config
		log *logrus.Logger
		out *bytes.Buffer
	)

	newTestDriver := func() *driver {
		return newDriver(cfg, log, out)
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.StrictOperands = true
		log = logrus.New()
		log.SetOutput(GinkgoWriter)
		out = &bytes.Buffer{}
	})

	Describe("disassembleWord", func() {
		It("should print the rendered text", func() {
			Expect(newTestDriver().disassembleWord(0xD503201F)).To(Succeed())
			Expect(out.String()).To(Equal("D503201F: nop\n"))
		})

		It("should resolve labels against the base address", func() {
			cfg.BaseAddress = 0x1000
			Expect(newTestDriver().disassembleWord(0x14000002)).To(Succeed())
			Expect(out.String()).To(Equal("14000002: b 0x1008\n"))
		})

		It("should print decode failures in place of the text", func() {
			Expect(newTestDriver().disassembleWord(0x04000000)).To(Succeed())
			Expect(out.String()).To(Equal("04000000: unallocated encoding\n"))
		})

		It("should dump the decoded instruction at debug level", func() {
			logged := &bytes.Buffer{}
			log.SetOutput(logged)
			log.SetLevel(logrus.DebugLevel)

			// b.ne 0x8
			Expect(newTestDriver().disassembleWord(0x54000041)).To(Succeed())
			Expect(logged.String()).To(ContainSubstring("encoding=cond_branch"))
			Expect(logged.String()).To(ContainSubstring("cond=ne"))
			Expect(logged.String()).To(ContainSubstring("Instruction"))
		})
	})

	Describe("run", func() {
		It("should accept words with a 0x prefix", func() {
			Expect(run(context.Background(), newTestDriver(), "0xd503201f")).To(Succeed())
			Expect(out.String()).To(Equal("D503201F: nop\n"))
		})

		It("should reject words that are not hex", func() {
			err := run(context.Background(), newTestDriver(), "nothex")
			Expect(err).To(MatchError(ContainSubstring("invalid instruction word")))
		})

		It("should reject words wider than 32 bits", func() {
			Expect(run(context.Background(), newTestDriver(), "123456789")).NotTo(Succeed())
		})
	})

	Describe("test", func() {
		It("should print a bounded, reproducible list of encodings", func() {
			cfg.TestIterations = 16
			Expect(newTestDriver().test()).To(Succeed())
			first := out.String()

			lines := strings.Split(strings.TrimSpace(first), "\n")
			Expect(lines).To(HaveLen(16))
			for _, line := range lines {
				Expect(line).To(MatchRegexp(`^[0-9A-F]{8}: \d+ \w+$`))
			}

			out.Reset()
			Expect(newTestDriver().test()).To(Succeed())
			Expect(out.String()).To(Equal(first))
		})
	})

	Describe("speed", func() {
		It("should report throughput", func() {
			cfg.SpeedIterations = 1000
			Expect(newTestDriver().speed()).To(Succeed())
			Expect(out.String()).To(HavePrefix("1000 words in "))
		})
	})

	Describe("sweep", func() {
		It("should print the first word of each shard in order", func() {
			Expect(newTestDriver().sweep(context.Background(), 4, 8)).To(Succeed())
			Expect(out.String()).To(Equal(
				"00000000: udf #0x0\n" +
					"00000100: udf #0x100\n" +
					"00000200: udf #0x200\n" +
					"00000300: udf #0x300\n"))
		})

		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := newTestDriver().sweep(ctx, 4, 8)
			Expect(err).To(MatchError(context.Canceled))
			Expect(out.String()).To(BeEmpty())
		})
	})

	Describe("disassembleELF", func() {
		It("should disassemble the executable segment through the cache", func() {
			code := []byte{
				0x1f, 0x20, 0x03, 0xd5, // nop
				0x02, 0x00, 0x00, 0x14, // b +8
				0x00, 0x00, 0x00, 0x04, // unallocated
				0x1f, 0x20, 0x03, 0xd5, // nop
			}
			path := filepath.Join(GinkgoT().TempDir(), "prog.elf")
			Expect(os.WriteFile(path, codeELF(0x400000, code), 0644)).To(Succeed())

			logged := &bytes.Buffer{}
			log.SetOutput(logged)
			log.SetLevel(logrus.DebugLevel)

			Expect(newTestDriver().disassembleELF(path)).To(Succeed())
			Expect(out.String()).To(Equal("\n0000000000400000 <segment>:\n" +
				"  400000:\td503201f\tnop\n" +
				"  400004:\t14000002\tb 0x40000c\n" +
				"  400008:\t04000000\t.inst\t0x04000000 // unallocated encoding\n" +
				"  40000c:\td503201f\tnop\n"))
			Expect(logged.String()).To(ContainSubstring("hits=1"))
			Expect(logged.String()).To(ContainSubstring("misses=3"))
		})

		It("should return loader errors", func() {
			err := newTestDriver().disassembleELF("/nonexistent/prog.elf")
			Expect(err).To(MatchError(ContainSubstring("failed to open")))
		})
	})
})

// codeELF returns an AArch64 executable with a single RX segment.
func codeELF(vaddr uint64, code []byte) []byte {
	const ehdrSize, phdrSize = 64, 56
	le := binary.LittleEndian

	img := make([]byte, ehdrSize+phdrSize, ehdrSize+phdrSize+len(code))
	copy(img, elf.ELFMAG)
	img[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	img[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	img[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	le.PutUint16(img[16:], uint16(elf.ET_EXEC))
	le.PutUint16(img[18:], uint16(elf.EM_AARCH64))
	le.PutUint32(img[20:], uint32(elf.EV_CURRENT))
	le.PutUint64(img[24:], vaddr)
	le.PutUint64(img[32:], ehdrSize)
	le.PutUint16(img[52:], ehdrSize)
	le.PutUint16(img[54:], phdrSize)
	le.PutUint16(img[56:], 1)

	ph := img[ehdrSize:]
	le.PutUint32(ph[0:], uint32(elf.PT_LOAD))
	le.PutUint32(ph[4:], uint32(elf.PF_R|elf.PF_X))
	le.PutUint64(ph[8:], ehdrSize+phdrSize)
	le.PutUint64(ph[16:], vaddr)
	le.PutUint64(ph[24:], vaddr)
	le.PutUint64(ph[32:], uint64(len(code)))
	le.PutUint64(ph[40:], uint64(len(code)))
	le.PutUint64(ph[48:], 0x1000)

	return append(img, code...)
}
