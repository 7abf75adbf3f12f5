// Package loader reads the code of ARM64 ELF executables for disassembly.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// InstructionSize is the size in bytes of an A64 instruction word.
const InstructionSize = 4

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment is mapped.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// IsExecutable reports whether the segment holds code.
func (s *Segment) IsExecutable() bool {
	return s.Flags&SegmentFlagExecute != 0
}

// NumWords returns the number of whole instruction words in the file-backed
// part of the segment. A trailing partial word is ignored.
func (s *Segment) NumWords() int {
	return len(s.Data) / InstructionSize
}

// Words yields each little-endian instruction word with its address.
func (s *Segment) Words() iter.Seq2[uint64, uint32] {
	return func(yield func(uint64, uint32) bool) {
		for i := 0; i < s.NumWords(); i++ {
			off := i * InstructionSize
			word := binary.LittleEndian.Uint32(s.Data[off:])
			if !yield(s.VirtAddr+uint64(off), word) {
				return
			}
		}
	}
}

// Program represents the loadable contents of an ELF binary.
type Program struct {
	// EntryPoint is the virtual address where execution begins.
	EntryPoint uint64
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
}

// ExecutableSegments returns the segments that hold code, in file order.
func (p *Program) ExecutableSegments() []*Segment {
	var segs []*Segment
	for i := range p.Segments {
		if p.Segments[i].IsExecutable() {
			segs = append(segs, &p.Segments[i])
		}
	}
	return segs
}

// WordAt returns the instruction word stored at addr. It reports false when
// addr is unaligned or not backed by file data of any segment.
func (p *Program) WordAt(addr uint64) (uint32, bool) {
	if addr%InstructionSize != 0 {
		return 0, false
	}
	for i := range p.Segments {
		seg := &p.Segments[i]
		if addr < seg.VirtAddr {
			continue
		}
		off := addr - seg.VirtAddr
		if off+InstructionSize > uint64(len(seg.Data)) {
			continue
		}
		return binary.LittleEndian.Uint32(seg.Data[off:]), true
	}
	return 0, false
}

// Load opens an ARM64 ELF binary and returns its loadable segments.
func Load(path string) (*Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}

	f, err := elf.NewFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}

	return parse(f, info.Size())
}

// Parse reads an ARM64 ELF binary from r. Segment sizes are checked against
// the input length when r reports one through a Size or Stat method.
func Parse(r io.ReaderAt) (*Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}

	return parse(f, readerSize(r))
}

// readerSize returns the length of r, or -1 when it is unknown.
func readerSize(r io.ReaderAt) int64 {
	switch s := r.(type) {
	case interface{ Size() int64 }:
		return s.Size()
	case interface{ Stat() (fs.FileInfo, error) }:
		if info, err := s.Stat(); err == nil {
			return info.Size()
		}
	}
	return -1
}

func parse(f *elf.File, size int64) (*Program, error) {
	if f.Class != elf.ELFCLASS64 {
		return nil, fmt.Errorf("not a 64-bit ELF file")
	}

	if f.Machine != elf.EM_AARCH64 {
		return nil, fmt.Errorf("not an ARM64 ELF file (machine type: %v)", f.Machine)
	}

	prog := &Program{
		EntryPoint: f.Entry,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		if size >= 0 && (phdr.Filesz > uint64(size) || phdr.Off > uint64(size)-phdr.Filesz) {
			return nil, fmt.Errorf("segment at 0x%x extends past end of file: offset %d, size %d, file %d bytes",
				phdr.Vaddr, phdr.Off, phdr.Filesz, size)
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    segmentFlags(phdr.Flags),
		})
	}

	return prog, nil
}

func segmentFlags(pf elf.ProgFlag) SegmentFlags {
	var flags SegmentFlags
	if pf&elf.PF_X != 0 {
		flags |= SegmentFlagExecute
	}
	if pf&elf.PF_W != 0 {
		flags |= SegmentFlagWrite
	}
	if pf&elf.PF_R != 0 {
		flags |= SegmentFlagRead
	}
	return flags
}
