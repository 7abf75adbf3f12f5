package disasm_test

import (
	"math/rand"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/arm64dis/disasm"
	"github.com/sarchlab/arm64dis/insts"
)

var _ = Describe("Renderer", func() {
	var (
		decoder  *insts.Decoder
		renderer *disasm.Renderer
	)

	BeforeEach(func() {
		decoder = insts.NewDecoder()
		renderer = disasm.NewRenderer(disasm.WithStrict(true))
	})

	format := func(word uint32, addr uint64) string {
		inst, err := decoder.Decode(word, addr)
		ExpectWithOffset(1, err).ToNot(HaveOccurred(), "word %#08x", word)
		text, err := renderer.Format(&inst, addr)
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		return text
	}

	It("should render NOP end to end", func() {
		inst, err := decoder.Decode(0xD503201F, 0)
		Expect(err).ToNot(HaveOccurred())

		buf := make([]byte, 64)
		n, err := renderer.Render(&inst, 0, buf)

		Expect(err).ToNot(HaveOccurred())
		Expect(string(buf[:n])).To(Equal("nop"))
	})

	It("should resolve labels against the address", func() {
		Expect(format(0x14000002, 0x1000)).To(Equal("b 0x1008"))
		Expect(format(0x14000002, 0x2000)).To(Equal("b 0x2008"))
	})

	It("should fold every condition into B.cond", func() {
		names := []string{
			"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
			"hi", "ls", "ge", "lt", "gt", "le", "al", "nv",
		}
		for c := uint32(0); c < 16; c++ {
			text := format(0x54000040|c, 0x1000)
			Expect(text).To(Equal("b." + names[c] + " 0x1008"))
			Expect(insts.Cond(c).String()).To(Equal(names[c]))
		}
	})

	DescribeTable("system and branch instructions",
		func(word uint32, addr uint64, want string) {
			Expect(format(word, addr)).To(Equal(want))
		},
		Entry(nil, uint32(0xD65F03C0), uint64(0), "ret"),
		Entry(nil, uint32(0xD65F0020), uint64(0), "ret x1"),
		Entry(nil, uint32(0xD61F0200), uint64(0), "br x16"),
		Entry(nil, uint32(0xD63F0020), uint64(0), "blr x1"),
		Entry(nil, uint32(0xD69F03E0), uint64(0), "eret"),
		Entry(nil, uint32(0xD4000001), uint64(0), "svc #0x0"),
		Entry(nil, uint32(0xD4000021), uint64(0), "svc #0x1"),
		Entry(nil, uint32(0xD4200020), uint64(0), "brk #0x1"),
		Entry(nil, uint32(0xD4400000), uint64(0), "hlt #0x0"),
		Entry(nil, uint32(0x00000000), uint64(0), "udf #0x0"),
		Entry(nil, uint32(0x00001234), uint64(0), "udf #0x1234"),
		Entry(nil, uint32(0xD503203F), uint64(0), "yield"),
		Entry(nil, uint32(0xD503205F), uint64(0), "wfe"),
		Entry(nil, uint32(0xD503207F), uint64(0), "wfi"),
		Entry(nil, uint32(0xD503209F), uint64(0), "sev"),
		Entry(nil, uint32(0xD50320BF), uint64(0), "sevl"),
		Entry(nil, uint32(0xD50320DF), uint64(0), "dgh"),
		Entry(nil, uint32(0xD503221F), uint64(0), "esb"),
		Entry(nil, uint32(0xD503223F), uint64(0), "psb csync"),
		Entry(nil, uint32(0xD503225F), uint64(0), "tsb csync"),
		Entry(nil, uint32(0xD503229F), uint64(0), "csdb"),
		Entry(nil, uint32(0xD503245F), uint64(0), "bti c"),
		Entry(nil, uint32(0xD5033FBF), uint64(0), "dmb sy"),
		Entry(nil, uint32(0xD5033EBF), uint64(0), "dmb st"),
		Entry(nil, uint32(0xD5033ABF), uint64(0), "dmb ishst"),
		Entry(nil, uint32(0xD5033F9F), uint64(0), "dsb sy"),
		Entry(nil, uint32(0xD5033A9F), uint64(0), "dsb ishst"),
		Entry(nil, uint32(0xD5033E9F), uint64(0), "dsb st"),
		Entry(nil, uint32(0xD5033FDF), uint64(0), "isb"),
		Entry(nil, uint32(0xD50330DF), uint64(0), "isb #0x0"),
		Entry(nil, uint32(0xD5033F5F), uint64(0), "clrex"),
		Entry(nil, uint32(0xD503309F), uint64(0), "ssbb"),
		Entry(nil, uint32(0xD503349F), uint64(0), "pssbb"),
		Entry(nil, uint32(0xD51EC000), uint64(0), "msr vbar_el3, x0"),
		Entry(nil, uint32(0xD51E1000), uint64(0), "msr sctlr_el3, x0"),
		Entry(nil, uint32(0xD53E1000), uint64(0), "mrs x0, sctlr_el3"),
		Entry(nil, uint32(0xD53B4200), uint64(0), "mrs x0, nzcv"),
		Entry(nil, uint32(0xD53BD040), uint64(0), "mrs x0, tpidr_el0"),
		Entry(nil, uint32(0xD538F200), uint64(0), "mrs x0, s3_0_c15_c2_0"),
		Entry(nil, uint32(0xD50344FF), uint64(0), "msr daifclr, #0x4"),
		Entry(nil, uint32(0xD50B7420), uint64(0), "dc zva, x0"),
		Entry(nil, uint32(0xD508751F), uint64(0), "ic iallu"),
		Entry(nil, uint32(0xD5081200), uint64(0), "sys #0x0, c1, c2, #0x0, x0"),
		Entry(nil, uint32(0x97FFFFFF), uint64(0x1000), "bl 0xffc"),
		Entry(nil, uint32(0x34000040), uint64(0x1000), "cbz w0, 0x1008"),
		Entry(nil, uint32(0xB5000041), uint64(0x1000), "cbnz x1, 0x1008"),
		Entry(nil, uint32(0x36180040), uint64(0x1000), "tbz w0, #0x3, 0x1008"),
		Entry(nil, uint32(0xB7080041), uint64(0x1000), "tbnz x1, #0x21, 0x1008"),
		Entry(nil, uint32(0x10000080), uint64(0x1000), "adr x0, 0x1010"),
		Entry(nil, uint32(0xB0000001), uint64(0x1234), "adrp x1, 0x2000"),
	)

	DescribeTable("data processing",
		func(word uint32, want string) {
			Expect(format(word, 0)).To(Equal(want))
		},
		Entry(nil, uint32(0x5280000A), "mov w10, #0x0"),
		Entry(nil, uint32(0xD2800540), "mov x0, #0x2a"),
		Entry(nil, uint32(0xF2A24680), "movk x0, #0x1234, lsl #16"),
		Entry(nil, uint32(0x92800000), "mov x0, #-0x1"),
		Entry(nil, uint32(0x12800000), "mov w0, #-0x1"),
		Entry(nil, uint32(0x9100A820), "add x0, x1, #0x2a"),
		Entry(nil, uint32(0x91400420), "add x0, x1, #0x1, lsl #12"),
		Entry(nil, uint32(0xF1001549), "subs x9, x10, #0x5"),
		Entry(nil, uint32(0xF100043F), "cmp x1, #0x1"),
		Entry(nil, uint32(0x910003FD), "mov x29, sp"),
		Entry(nil, uint32(0x92400C20), "and x0, x1, #0xf"),
		Entry(nil, uint32(0x7200001F), "tst w0, #0x1"),
		Entry(nil, uint32(0xD37CEC20), "lsl x0, x1, #0x4"),
		Entry(nil, uint32(0xD344FC20), "lsr x0, x1, #0x4"),
		Entry(nil, uint32(0x13027C20), "asr w0, w1, #0x2"),
		Entry(nil, uint32(0xD3442C20), "ubfx x0, x1, #0x4, #0x8"),
		Entry(nil, uint32(0x93407C20), "sxtw x0, w1"),
		Entry(nil, uint32(0x53001C20), "uxtb w0, w1"),
		Entry(nil, uint32(0x93C21020), "extr x0, x1, x2, #0x4"),
		Entry(nil, uint32(0x13811020), "ror w0, w1, #0x4"),
		Entry(nil, uint32(0x8B020020), "add x0, x1, x2"),
		Entry(nil, uint32(0xAA0103E0), "mov x0, x1"),
		Entry(nil, uint32(0xEB02003F), "cmp x1, x2"),
		Entry(nil, uint32(0x8B020C20), "add x0, x1, x2, lsl #3"),
		Entry(nil, uint32(0x8B22C020), "add x0, x1, w2, sxtw"),
		Entry(nil, uint32(0x8B2363FF), "add sp, sp, x3"),
		Entry(nil, uint32(0x7A5248C1), "ccmp w6, #0x12, #0x1, mi"),
		Entry(nil, uint32(0x7A400862), "ccmp w3, #0x0, #0x2, eq"),
		Entry(nil, uint32(0x9A820020), "csel x0, x1, x2, eq"),
		Entry(nil, uint32(0x1A9F17E0), "cset w0, eq"),
		Entry(nil, uint32(0x9B027C20), "mul x0, x1, x2"),
		Entry(nil, uint32(0x9B020C20), "madd x0, x1, x2, x3"),
		Entry(nil, uint32(0x9BC27C20), "umulh x0, x1, x2"),
		Entry(nil, uint32(0x9B227C20), "smull x0, w1, w2"),
		Entry(nil, uint32(0x1AC20820), "udiv w0, w1, w2"),
		Entry(nil, uint32(0x9AC22020), "lsl x0, x1, x2"),
		Entry(nil, uint32(0xDAC00C20), "rev x0, x1"),
		Entry(nil, uint32(0x5AC01020), "clz w0, w1"),
		Entry(nil, uint32(0xDAC00020), "rbit x0, x1"),
		Entry(nil, uint32(0x9A020020), "adc x0, x1, x2"),
		Entry(nil, uint32(0x5A0103E0), "ngc w0, w1"),
	)

	DescribeTable("loads and stores",
		func(word uint32, want string) {
			Expect(format(word, 0x1000)).To(Equal(want))
		},
		Entry(nil, uint32(0xF9400020), "ldr x0, [x1]"),
		Entry(nil, uint32(0xF9400420), "ldr x0, [x1, #0x8]"),
		Entry(nil, uint32(0xB90007E2), "str w2, [sp, #0x4]"),
		Entry(nil, uint32(0xF8410C20), "ldr x0, [x1, #0x10]!"),
		Entry(nil, uint32(0xF81F0420), "str x0, [x1], #-0x10"),
		Entry(nil, uint32(0xF85F8020), "ldur x0, [x1, #-0x8]"),
		Entry(nil, uint32(0xA9BF7BFD), "stp x29, x30, [sp, #-0x10]!"),
		Entry(nil, uint32(0xA8C17BFD), "ldp x29, x30, [sp], #0x10"),
		Entry(nil, uint32(0xA9400440), "ldp x0, x1, [x2]"),
		Entry(nil, uint32(0xF8627820), "ldr x0, [x1, x2, lsl #3]"),
		Entry(nil, uint32(0x38624820), "ldrb w0, [x1, w2, uxtw]"),
		Entry(nil, uint32(0xB8626820), "ldr w0, [x1, x2]"),
		Entry(nil, uint32(0x58000040), "ldr x0, 0x1008"),
		Entry(nil, uint32(0xC85F7C20), "ldxr x0, [x1]"),
		Entry(nil, uint32(0xC8027C20), "stxr w2, x0, [x1]"),
		Entry(nil, uint32(0xC8DFFC20), "ldar x0, [x1]"),
		Entry(nil, uint32(0xC89FFC20), "stlr x0, [x1]"),
		Entry(nil, uint32(0x4C407000), "ld1 {v0.16b}, [x0]"),
		Entry(nil, uint32(0x4CDFA820), "ld1 {v0.4s, v1.4s}, [x1], #0x20"),
		Entry(nil, uint32(0x0C000000), "st4 {v0.8b, v1.8b, v2.8b, v3.8b}, [x0]"),
		Entry(nil, uint32(0x0C40001F), "ld4 {v31.8b, v0.8b, v1.8b, v2.8b}, [x0]"),
	)

	DescribeTable("floating point and SIMD",
		func(word uint32, want string) {
			Expect(format(word, 0)).To(Equal(want))
		},
		Entry(nil, uint32(0x1E2E1000), "fmov s0, #1.0"),
		Entry(nil, uint32(0x1E701000), "fmov d0, #-2.0"),
		Entry(nil, uint32(0x1E222820), "fadd s0, s1, s2"),
		Entry(nil, uint32(0x1E620820), "fmul d0, d1, d2"),
		Entry(nil, uint32(0x1E202008), "fcmp s0, #0.0"),
		Entry(nil, uint32(0x1E612000), "fcmp d0, d1"),
		Entry(nil, uint32(0x1E220C20), "fcsel s0, s1, s2, eq"),
		Entry(nil, uint32(0x9E620020), "scvtf d0, x1"),
		Entry(nil, uint32(0x1E380020), "fcvtzs w0, s1"),
		Entry(nil, uint32(0x9E660020), "fmov x0, d1"),
		Entry(nil, uint32(0x9E670020), "fmov d0, x1"),
		Entry(nil, uint32(0x9EAE0020), "fmov x0, v1.d[1]"),
		Entry(nil, uint32(0x1E204020), "fmov s0, s1"),
		Entry(nil, uint32(0x1E614020), "fneg d0, d1"),
		Entry(nil, uint32(0x1E22C020), "fcvt d0, s1"),
		Entry(nil, uint32(0x1E21C020), "fsqrt s0, s1"),
		Entry(nil, uint32(0x4EA28420), "add v0.4s, v1.4s, v2.4s"),
		Entry(nil, uint32(0x4EA11C20), "mov v0.16b, v1.16b"),
		Entry(nil, uint32(0x0E0C3C20), "mov w0, v1.s[1]"),
		Entry(nil, uint32(0x4E040C20), "dup v0.4s, w1"),
		Entry(nil, uint32(0x4E0C1C20), "mov v0.s[1], w1"),
		Entry(nil, uint32(0x6F00E400), "movi v0.2d, #0x0"),
		Entry(nil, uint32(0x4F00E420), "movi v0.16b, #0x1"),
		Entry(nil, uint32(0x4F03F600), "fmov v0.4s, #1.0"),
	)

	Describe("errors", func() {
		It("should reject an undecoded instruction", func() {
			inst, err := decoder.Decode(0x12400000, 0)
			Expect(err).To(HaveOccurred())

			_, err = renderer.Render(&inst, 0, make([]byte, 64))
			Expect(err).To(MatchError(disasm.ErrInvalidInstruction))

			_, err = renderer.Format(nil, 0)
			Expect(err).To(MatchError(disasm.ErrInvalidInstruction))
		})

		It("should leave a short buffer untouched", func() {
			inst, err := decoder.Decode(0xA9BF7BFD, 0)
			Expect(err).ToNot(HaveOccurred())

			buf := []byte("xxxxxxxx")
			n, err := renderer.Render(&inst, 0, buf)

			Expect(err).To(MatchError(disasm.ErrBufferTooSmall))
			Expect(n).To(Equal(0))
			Expect(string(buf)).To(Equal("xxxxxxxx"))
		})

		It("should fill an exactly sized buffer", func() {
			inst, err := decoder.Decode(0xD503201F, 0)
			Expect(err).ToNot(HaveOccurred())

			buf := make([]byte, 3)
			n, err := renderer.Render(&inst, 0, buf)

			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(3))
		})
	})

	It("should render every decodable word in a random sample", func() {
		rng := rand.New(rand.NewSource(0xCAFE))
		buf := make([]byte, 128)

		for i := 0; i < 100000; i++ {
			w := rng.Uint32()
			inst, err := decoder.Decode(w, 0x400000)
			if err != nil {
				continue
			}

			n, err := renderer.Render(&inst, 0x400000, buf)
			Expect(err).ToNot(HaveOccurred(), "word %#08x", w)
			text := string(buf[:n])
			Expect(strings.HasPrefix(text, inst.Op.Mnemonic())).To(BeTrue(), "word %#08x: %q", w, text)
		}
	})

	It("should render the value pattern of every rule", func() {
		for _, r := range insts.Rules() {
			inst, err := decoder.Decode(r.Value, 0)
			if err != nil {
				continue
			}
			_, err = renderer.Format(&inst, 0)
			Expect(err).ToNot(HaveOccurred(), "rule %s", r.Encoding)
		}
	})
})
