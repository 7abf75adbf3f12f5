package insts_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arm64dis/insts"
)

var _ = Describe("Decoder properties", func() {
	const samples = 100000

	var (
		decoder *insts.Decoder
		words   []uint32
	)

	BeforeEach(func() {
		decoder = insts.NewDecoder()
		rng := rand.New(rand.NewSource(0xCAFE))
		words = make([]uint32, samples)
		for i := range words {
			words[i] = rng.Uint32()
		}
	})

	It("should either decode fully or return an empty instruction", func() {
		for _, w := range words {
			inst, err := decoder.Decode(w, 0)
			if err != nil {
				Expect(inst).To(Equal(insts.Instruction{Word: w}), "word %#08x", w)
				continue
			}
			Expect(inst.IsValid()).To(BeTrue(), "word %#08x", w)
			Expect(inst.Operands.Len()).To(BeNumerically("<=", insts.MaxOperands))
		}
	})

	It("should report operand classes that match the operands", func() {
		for _, w := range words {
			inst, err := decoder.Decode(w, 0)
			if err != nil {
				continue
			}
			for i := 0; i < inst.Operands.Len(); i++ {
				op := inst.Operands.At(i)
				Expect(op).ToNot(BeNil(), "word %#08x operand %d", w, i)
				Expect(inst.Operands.Class(i)).To(Equal(op.Class()))
			}
			Expect(inst.Operands.Class(inst.Operands.Len())).To(Equal(insts.ClassNone))
		}
	})

	It("should be deterministic and independent of the address", func() {
		for _, w := range words[:samples/10] {
			a, errA := decoder.Decode(w, 0)
			b, errB := decoder.Decode(w, 0xFFFF_0000_1000)
			Expect(errB == errA).To(BeTrue())
			Expect(a == b).To(BeTrue(), "word %#08x", w)
		}
	})

	It("should classify words the same way Decode does", func() {
		for _, w := range words {
			inst, err := decoder.Decode(w, 0)
			enc, ok := insts.Classify(w)
			if err == nil {
				Expect(ok).To(BeTrue())
				Expect(enc).To(Equal(inst.Encoding))
			}
		}
	})
})
