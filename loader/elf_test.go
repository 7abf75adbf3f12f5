package loader_test

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arm64dis/loader"
)

// mov x0, #42; ret
var movRet = []byte{0x40, 0x05, 0x80, 0xd2, 0xc0, 0x03, 0x5f, 0xd6}

var _ = Describe("ELF Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	write := func(name string, image []byte) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, image, 0644)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		Context("with a valid ARM64 ELF binary", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = write("test.elf", buildELF(elfImage{
					entry: 0x400080,
					progs: []elfProg{codeProg(0x400000, movRet)},
				}))
			})

			It("should extract the entry point and segment", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint64(0x400080)))
				Expect(prog.Segments).To(HaveLen(1))

				seg := prog.Segments[0]
				Expect(seg.VirtAddr).To(Equal(uint64(0x400000)))
				Expect(seg.Data).To(Equal(movRet))
				Expect(seg.IsExecutable()).To(BeTrue())
				Expect(seg.Flags & loader.SegmentFlagRead).NotTo(BeZero())
				Expect(seg.Flags & loader.SegmentFlagWrite).To(BeZero())
			})

			It("should parse the same program from a reader", func() {
				f, err := os.Open(elfPath)
				Expect(err).NotTo(HaveOccurred())
				defer func() { _ = f.Close() }()

				prog, err := loader.Parse(f)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint64(0x400080)))
				Expect(prog.Segments).To(HaveLen(1))
			})
		})

		Context("with an invalid file", func() {
			It("should return error for non-existent file", func() {
				_, err := loader.Load("/nonexistent/path/to/file.elf")
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open"))
			})

			It("should return error for non-ELF file", func() {
				_, err := loader.Load(write("not-elf.bin", []byte("not an elf file")))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("ELF"))
			})

			It("should return error for empty input", func() {
				_, err := loader.Parse(bytes.NewReader(nil))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to parse"))
			})
		})

		It("should reject an x86-64 ELF", func() {
			_, err := loader.Load(write("x86.elf", buildELF(elfImage{machine: elf.EM_X86_64})))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not an ARM64"))
		})

		It("should reject a 32-bit ELF", func() {
			_, err := loader.Load(write("elf32.elf", elf32Header()))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not a 64-bit"))
		})
	})

	Describe("segments", func() {
		It("should load code and data segments with their permissions", func() {
			data := []byte{0x01, 0x02, 0x03, 0x04}
			prog, err := loader.Load(write("multi.elf", buildELF(elfImage{
				entry: 0x400000,
				progs: []elfProg{
					codeProg(0x400000, movRet),
					{typ: elf.PT_LOAD, flags: elf.PF_R | elf.PF_W, vaddr: 0x600000, data: data},
				},
			})))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(2))

			Expect(prog.Segments[1].Data).To(Equal(data))
			Expect(prog.Segments[1].Flags & loader.SegmentFlagWrite).NotTo(BeZero())
			Expect(prog.Segments[1].IsExecutable()).To(BeFalse())

			segs := prog.ExecutableSegments()
			Expect(segs).To(HaveLen(1))
			Expect(segs[0].VirtAddr).To(Equal(uint64(0x400000)))
		})

		It("should keep file data separate from memory size", func() {
			prog, err := loader.Load(write("bss.elf", buildELF(elfImage{
				progs: []elfProg{
					{typ: elf.PT_LOAD, flags: elf.PF_R | elf.PF_W, vaddr: 0x600000,
						data: []byte{1, 2, 3, 4}, memSize: 1024},
					{typ: elf.PT_LOAD, flags: elf.PF_R | elf.PF_W, vaddr: 0x700000, memSize: 4096},
				},
			})))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(HaveLen(2))
			Expect(prog.Segments[0].Data).To(HaveLen(4))
			Expect(prog.Segments[0].MemSize).To(Equal(uint64(1024)))
			Expect(prog.Segments[1].Data).To(BeEmpty())
			Expect(prog.Segments[1].MemSize).To(Equal(uint64(4096)))
		})

		Describe("segments that run past the end of the file", func() {
			var image []byte

			BeforeEach(func() {
				prog := codeProg(0x400000, movRet)
				prog.fileSz = 1 << 40
				image = buildELF(elfImage{entry: 0x400000, progs: []elfProg{prog}})
			})

			It("should reject them from a path", func() {
				_, err := loader.Load(write("huge.elf", image))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("extends past end of file"))
			})

			It("should reject them from a sized reader", func() {
				_, err := loader.Parse(bytes.NewReader(image))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("extends past end of file"))
			})

			It("should reject a segment one byte longer than the file", func() {
				prog := codeProg(0x400000, movRet)
				prog.fileSz = uint64(len(movRet)) + 1
				_, err := loader.Parse(bytes.NewReader(buildELF(elfImage{progs: []elfProg{prog}})))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("extends past end of file"))
			})
		})

		It("should skip segments that are not PT_LOAD", func() {
			prog, err := loader.Load(write("note.elf", buildELF(elfImage{
				entry: 0x400000,
				progs: []elfProg{{typ: elf.PT_NOTE, flags: elf.PF_R}},
			})))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Segments).To(BeEmpty())
			Expect(prog.ExecutableSegments()).To(BeEmpty())
			Expect(prog.EntryPoint).To(Equal(uint64(0x400000)))
		})
	})

	Describe("instruction words", func() {
		var prog *loader.Program

		BeforeEach(func() {
			// A trailing partial word is ignored.
			code := append(append([]byte{}, movRet...), 0x1f, 0x20)

			var err error
			prog, err = loader.Parse(bytes.NewReader(buildELF(elfImage{
				entry: 0x400000,
				progs: []elfProg{codeProg(0x400000, code)},
			})))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should iterate whole words with addresses", func() {
			seg := prog.ExecutableSegments()[0]
			Expect(seg.NumWords()).To(Equal(2))

			var addrs []uint64
			var words []uint32
			for addr, word := range seg.Words() {
				addrs = append(addrs, addr)
				words = append(words, word)
			}
			Expect(addrs).To(Equal([]uint64{0x400000, 0x400004}))
			Expect(words).To(Equal([]uint32{0xd2800540, 0xd65f03c0}))
		})

		It("should stop iterating when the consumer breaks", func() {
			count := 0
			for range prog.ExecutableSegments()[0].Words() {
				count++
				break
			}
			Expect(count).To(Equal(1))
		})

		It("should fetch a word by address", func() {
			word, ok := prog.WordAt(0x400004)
			Expect(ok).To(BeTrue())
			Expect(word).To(Equal(uint32(0xd65f03c0)))
		})

		It("should reject unaligned and unmapped addresses", func() {
			_, ok := prog.WordAt(0x400002)
			Expect(ok).To(BeFalse())
			_, ok = prog.WordAt(0x400008)
			Expect(ok).To(BeFalse())
			_, ok = prog.WordAt(0x300000)
			Expect(ok).To(BeFalse())
		})
	})
})

type elfProg struct {
	typ     elf.ProgType
	flags   elf.ProgFlag
	vaddr   uint64
	data    []byte
	memSize uint64 // defaults to len(data)
	fileSz  uint64 // header filesz, defaults to len(data)
}

type elfImage struct {
	machine elf.Machine // defaults to EM_AARCH64
	entry   uint64
	progs   []elfProg
}

func codeProg(vaddr uint64, code []byte) elfProg {
	return elfProg{typ: elf.PT_LOAD, flags: elf.PF_R | elf.PF_X, vaddr: vaddr, data: code}
}

const (
	ehdrSize = 64
	phdrSize = 56
)

// buildELF lays out a little-endian ELF64 executable: header, program
// headers, then each segment's file data in order.
func buildELF(img elfImage) []byte {
	machine := img.machine
	if machine == 0 {
		machine = elf.EM_AARCH64
	}

	le := binary.LittleEndian
	hdr := make([]byte, ehdrSize)
	copy(hdr, elf.ELFMAG)
	hdr[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	le.PutUint16(hdr[16:], uint16(elf.ET_EXEC))
	le.PutUint16(hdr[18:], uint16(machine))
	le.PutUint32(hdr[20:], uint32(elf.EV_CURRENT))
	le.PutUint64(hdr[24:], img.entry)
	le.PutUint64(hdr[32:], ehdrSize)
	le.PutUint16(hdr[52:], ehdrSize)
	le.PutUint16(hdr[54:], phdrSize)
	le.PutUint16(hdr[56:], uint16(len(img.progs)))
	le.PutUint16(hdr[58:], 64)

	out := bytes.NewBuffer(hdr)
	offset := uint64(ehdrSize + phdrSize*len(img.progs))
	for _, p := range img.progs {
		memSize := p.memSize
		if memSize == 0 {
			memSize = uint64(len(p.data))
		}

		ph := make([]byte, phdrSize)
		le.PutUint32(ph[0:], uint32(p.typ))
		le.PutUint32(ph[4:], uint32(p.flags))
		le.PutUint64(ph[8:], offset)
		le.PutUint64(ph[16:], p.vaddr)
		le.PutUint64(ph[24:], p.vaddr)
		fileSz := p.fileSz
		if fileSz == 0 {
			fileSz = uint64(len(p.data))
		}

		le.PutUint64(ph[32:], fileSz)
		le.PutUint64(ph[40:], memSize)
		le.PutUint64(ph[48:], 0x1000)
		out.Write(ph)

		offset += uint64(len(p.data))
	}

	for _, p := range img.progs {
		out.Write(p.data)
	}
	return out.Bytes()
}

// elf32Header returns the identification and machine fields of an ELF32
// file, enough for the class check to reject it.
func elf32Header() []byte {
	hdr := make([]byte, 52)
	copy(hdr, elf.ELFMAG)
	hdr[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	hdr[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	binary.LittleEndian.PutUint16(hdr[16:], uint16(elf.ET_EXEC))
	binary.LittleEndian.PutUint16(hdr[18:], uint16(elf.EM_AARCH64))
	binary.LittleEndian.PutUint32(hdr[20:], uint32(elf.EV_CURRENT))
	return hdr
}
