package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32core/emu"
	"github.com/sarchlab/rv32core/insts"
)

var _ = Describe("BranchUnit", func() {
	var branchUnit *emu.BranchUnit

	BeforeEach(func() {
		branchUnit = emu.NewBranchUnit()
	})

	It("should evaluate BEQ and BNE", func() {
		Expect(branchUnit.Taken(insts.BranchEQ, 5, 5)).To(BeTrue())
		Expect(branchUnit.Taken(insts.BranchEQ, 5, 6)).To(BeFalse())
		Expect(branchUnit.Taken(insts.BranchNE, 5, 6)).To(BeTrue())
		Expect(branchUnit.Taken(insts.BranchNE, 5, 5)).To(BeFalse())
	})

	It("should compare signed for BLT and BGE", func() {
		Expect(branchUnit.Taken(insts.BranchLT, 0xFFFFFFFF, 1)).To(BeTrue())
		Expect(branchUnit.Taken(insts.BranchLT, 1, 0xFFFFFFFF)).To(BeFalse())
		Expect(branchUnit.Taken(insts.BranchGE, 1, 0xFFFFFFFF)).To(BeTrue())
		Expect(branchUnit.Taken(insts.BranchGE, 7, 7)).To(BeTrue())
	})

	It("should compare unsigned for BLTU and BGEU", func() {
		Expect(branchUnit.Taken(insts.BranchLTU, 0xFFFFFFFF, 1)).To(BeFalse())
		Expect(branchUnit.Taken(insts.BranchLTU, 1, 0xFFFFFFFF)).To(BeTrue())
		Expect(branchUnit.Taken(insts.BranchGEU, 0xFFFFFFFF, 1)).To(BeTrue())
		Expect(branchUnit.Taken(insts.BranchGEU, 0, 0)).To(BeTrue())
	})

	It("should never take the reserved conditions", func() {
		Expect(branchUnit.Taken(insts.BranchCond(0b010), 0, 0)).To(BeFalse())
		Expect(branchUnit.Taken(insts.BranchCond(0b011), 1, 0)).To(BeFalse())
	})
})

var _ = Describe("RegFile", func() {
	It("should hard-wire x0 to zero", func() {
		regFile := &emu.RegFile{}
		regFile.WriteReg(0, 42)

		Expect(regFile.ReadReg(0)).To(BeZero())
	})

	It("should store to other registers", func() {
		regFile := &emu.RegFile{}
		regFile.WriteReg(31, 0xDEADBEEF)

		Expect(regFile.ReadReg(31)).To(Equal(uint32(0xDEADBEEF)))
		Expect(regFile.ReadReg(32)).To(BeZero())
	})
})
