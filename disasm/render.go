// Package disasm renders decoded ARM64 instructions as assembler text.
package disasm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/arm64dis/insts"
)

// Rendering errors.
var (
	ErrInvalidInstruction = errors.New("disasm: instruction was not decoded")
	ErrBufferTooSmall     = errors.New("disasm: output buffer too small")
	ErrUnknownOperand     = errors.New("disasm: unknown operand class")
)

// Renderer turns instructions into text. A Renderer holds no per-call state
// and is safe for concurrent use.
type Renderer struct {
	strict bool
}

// RendererOption is a functional option for configuring the Renderer.
type RendererOption func(*Renderer)

// WithStrict makes an operand class without a rendering rule panic instead
// of returning ErrUnknownOperand. Meant for development builds.
func WithStrict(strict bool) RendererOption {
	return func(r *Renderer) {
		r.strict = strict
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the text of inst, fetched from addr, into buf and returns
// the number of bytes written. The buffer is left untouched on error.
func (r *Renderer) Render(inst *insts.Instruction, addr uint64, buf []byte) (int, error) {
	var scratch [96]byte
	text, err := r.appendInstruction(scratch[:0], inst, addr)
	if err != nil {
		return 0, err
	}
	if len(text) > len(buf) {
		return 0, ErrBufferTooSmall
	}
	return copy(buf, text), nil
}

// Format returns the text of inst, fetched from addr.
func (r *Renderer) Format(inst *insts.Instruction, addr uint64) (string, error) {
	text, err := r.appendInstruction(nil, inst, addr)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func (r *Renderer) appendInstruction(b []byte, inst *insts.Instruction, addr uint64) ([]byte, error) {
	if inst == nil || !inst.IsValid() {
		return nil, ErrInvalidInstruction
	}

	b = append(b, inst.Op.Mnemonic()...)
	first := 0

	// The condition of B.cond is part of the mnemonic.
	if inst.Op == insts.OpBCond {
		if c, ok := inst.Operands.At(0).(insts.CondOperand); ok {
			b = append(b, '.')
			b = append(b, c.Cond.String()...)
			first = 1
		}
	}

	for i := first; i < inst.Operands.Len(); i++ {
		if i == first {
			b = append(b, ' ')
		} else {
			b = append(b, ", "...)
		}

		var err error
		b, err = r.appendOperand(b, inst.Operands.At(i), addr)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

func (r *Renderer) appendOperand(b []byte, op insts.Operand, addr uint64) ([]byte, error) {
	switch o := op.(type) {
	case insts.RegOperand:
		b = append(b, o.Reg.String()...)
		return appendShift(b, o.Shift), nil
	case insts.MultiRegOperand:
		b = append(b, '{')
		for i := 0; i < int(o.Count) && i < len(o.Regs); i++ {
			if i > 0 {
				b = append(b, ", "...)
			}
			b = append(b, o.Regs[i].String()...)
		}
		return append(b, '}'), nil
	case insts.SysRegOperand:
		return append(b, o.Reg.String()...), nil
	case insts.Imm32Operand:
		if o.Signed {
			b = appendImm(b, int64(int32(o.Value)))
		} else {
			b = appendUImm(b, uint64(o.Value))
		}
		return appendShift(b, o.Shift), nil
	case insts.Imm64Operand:
		if o.Signed {
			return appendImm(b, int64(o.Value)), nil
		}
		return appendUImm(b, o.Value), nil
	case insts.FImm32Operand:
		return appendFloat(b, o.Value), nil
	case insts.StrImmOperand:
		return append(b, o.Name...), nil
	case insts.MemRegOperand:
		b = append(b, '[')
		b = append(b, o.Base.String()...)
		return append(b, ']'), nil
	case insts.MemOffsetOperand:
		return appendMemOffset(b, o.Base, o.Offset), nil
	case insts.MemPreIdxOperand:
		b = appendMemOffset(b, o.Base, o.Offset)
		return append(b, '!'), nil
	case insts.MemPostIdxOperand:
		b = append(b, '[')
		b = append(b, o.Base.String()...)
		b = append(b, "], "...)
		if o.Index.IsValid() {
			return append(b, o.Index.String()...), nil
		}
		return appendImm(b, o.Offset), nil
	case insts.MemExtendedOperand:
		b = append(b, '[')
		b = append(b, o.Base.String()...)
		b = append(b, ", "...)
		b = append(b, o.Index.String()...)
		b = appendShift(b, o.Shift)
		return append(b, ']'), nil
	case insts.LabelOperand:
		b = append(b, "0x"...)
		return strconv.AppendUint(b, o.Target(addr), 16), nil
	case insts.CondOperand:
		return append(b, o.Cond.String()...), nil
	case insts.NameOperand:
		return append(b, o.Name...), nil
	case insts.ImplSpecificOperand:
		return append(b, insts.SysRegFromEncoding(o.Payload).GenericName()...), nil
	}

	if r.strict {
		panic(fmt.Sprintf("disasm: no rendering rule for operand %#v", op))
	}
	return nil, ErrUnknownOperand
}

// appendShift appends the ", <shift> #<amount>" suffix. LSL #0 and a zero
// extend amount are omitted unless the shift is explicit.
func appendShift(b []byte, s insts.Shift) []byte {
	if s.Type == insts.ShiftNone {
		return b
	}
	showAmount := s.Amount != 0 || s.Explicit
	if s.Type == insts.ShiftLSL && !showAmount {
		return b
	}

	b = append(b, ", "...)
	b = append(b, s.Type.String()...)
	if s.Type.IsExtend() && !showAmount {
		return b
	}
	b = append(b, " #"...)
	return strconv.AppendUint(b, uint64(s.Amount), 10)
}

func appendMemOffset(b []byte, base insts.Reg, offset int64) []byte {
	b = append(b, '[')
	b = append(b, base.String()...)
	b = append(b, ", "...)
	b = appendImm(b, offset)
	return append(b, ']')
}

func appendUImm(b []byte, v uint64) []byte {
	b = append(b, "#0x"...)
	return strconv.AppendUint(b, v, 16)
}

func appendImm(b []byte, v int64) []byte {
	if v >= 0 {
		return appendUImm(b, uint64(v))
	}
	b = append(b, "#-0x"...)
	return strconv.AppendUint(b, uint64(-v), 16)
}

func appendFloat(b []byte, v float32) []byte {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	b = append(b, '#')
	b = append(b, s...)
	if !strings.ContainsAny(s, ".IN") {
		b = append(b, ".0"...)
	}
	return b
}
