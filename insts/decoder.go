package insts

import (
	"math/bits"
	"sort"
)

// decodeFunc builds the operation and operands of one encoding group.
// It returns ErrReserved or ErrUnallocated when the sub-fields do not
// describe an instruction.
type decodeFunc func(word uint32, inst *Instruction) error

// Rule describes one encoding group: a word belongs to the group when
// word&Mask == Value.
type Rule struct {
	Mask     uint32
	Value    uint32
	Encoding Encoding
	decode   decodeFunc
}

// Matches reports whether word belongs to the rule's encoding group.
func (r *Rule) Matches(word uint32) bool {
	return word&r.Mask == r.Value
}

// op0 occupies bits [28:25] and selects the top-level instruction class.
const op0Mask = 0xF << 25

// buckets holds the rules compatible with each op0 value, most specific
// first.
var buckets [16][]*Rule

func init() {
	for op0 := uint32(0); op0 < 16; op0++ {
		probe := op0 << 25
		var list []*Rule
		for i := range rules {
			r := &rules[i]
			if (probe^r.Value)&r.Mask&op0Mask == 0 {
				list = append(list, r)
			}
		}
		sort.SliceStable(list, func(a, b int) bool {
			return bits.OnesCount32(list[a].Mask) > bits.OnesCount32(list[b].Mask)
		})
		buckets[op0] = list
	}
}

// Rules returns a copy of the encoding rule table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// classify returns the rule matching word, or nil.
func classify(word uint32) *Rule {
	for _, r := range buckets[(word>>25)&0xF] {
		if r.Matches(word) {
			return r
		}
	}
	return nil
}

// Classify returns the encoding group of word without building operands.
func Classify(word uint32) (Encoding, bool) {
	r := classify(word)
	if r == nil {
		return EncodingNone, false
	}
	return r.Encoding, true
}

// Decoder decodes ARM64 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new ARM64 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit ARM64 instruction word fetched from addr.
//
// PC-relative operands keep their signed offset; they are resolved against
// the address at render time, so the result does not depend on addr. On
// failure the returned instruction holds only the word, with EncodingNone,
// OpUnknown and no operands.
func (d *Decoder) Decode(word uint32, addr uint64) (Instruction, error) {
	r := classify(word)
	if r == nil {
		return Instruction{Word: word}, ErrUnallocated
	}

	inst := Instruction{Word: word, Encoding: r.Encoding}
	if err := r.decode(word, &inst); err != nil {
		return Instruction{Word: word}, err
	}

	return inst, nil
}
