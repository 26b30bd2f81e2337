package cpu

// baseCycles gives the nominal cycle cost for each addressing mode,
// independent of operation, before the w/p/m penalties are applied. This
// mirrors the structure of the 65C816's published cycle-count table
// without reproducing every (op,mode) cell individually —
// operation-specific deltas are folded in by cycleCost.
var baseCycles = map[AddrMode]int{
	Implied:                 2,
	Accumulator:             2,
	Immediate:               2,
	Direct:                  3,
	DirectX:                 4,
	DirectY:                 4,
	DirectWord:              5,
	DirectSWord:             6,
	IndexedDirectWord:       6,
	DirectIndexedWord:       5,
	DirectIndexedSWord:      6,
	Absolute:                4,
	AbsoluteX:               4,
	AbsoluteY:               4,
	AbsoluteIndirectWord:    5,
	AbsoluteIndirectSWord:   6,
	AbsoluteIndexedIndirect: 6,
	Long:                    5,
	LongX:                   5,
	RelativeByte:            2,
	RelativeWord:            4,
	SourceDestination:       7,
	Stack:                   4,
	StackIndexed:            7,
}

// isAClassMemOp reports whether mn reads/writes memory at the accumulator
// width (for the m penalty) as opposed to index width.
func isAClassMemOp(mn Mnemonic) bool {
	switch mn {
	case ADC, SBC, AND, ORA, EOR, CMP, BIT, LDA, STA, STZ, ASL, LSR, ROL, ROR, INC, DEC, TRB, TSB:
		return true
	default:
		return false
	}
}

// directPageLowByteNonzero reports the w penalty condition: an extra
// cycle when the direct-page base's low byte is non-zero, since the CPU
// then has to add the offset rather than just concatenate it.
func directPageLowByteNonzero(s *State, mode AddrMode) bool {
	switch mode {
	case Direct, DirectX, DirectY, DirectWord, DirectSWord, IndexedDirectWord, DirectIndexedWord, DirectIndexedSWord:
		return s.D&0xFF != 0
	default:
		return false
	}
}

// pageCrossed reports whether adding an index to a base 16-bit address
// changes the top byte, the p penalty's trigger for AbsoluteX/Y and
// DirectIndexedWord. Compares the pre-index base address against the
// final effective address, not the CPU's current bank.
func pageCrossed(base, final uint32) bool {
	return base&0xFF00 != final&0xFF00
}

// cycleCost computes the cycle count for one executed instruction from its
// base addressing-mode cost plus the w/p/m penalties and the branch-taken
// adder.
func cycleCost(mn Mnemonic, mode AddrMode, s *State, op Operand, length int) int {
	cost, ok := baseCycles[mode]
	if !ok {
		cost = 2
	}

	if directPageLowByteNonzero(s, mode) {
		cost++ // w
	}

	switch mode {
	case AbsoluteX, AbsoluteY:
		idx := s.X
		if mode == AbsoluteY {
			idx = s.Y
		}
		base := op.Addr - uint32(idx)
		if !s.P.X || pageCrossed(base, op.Addr) {
			cost++ // p
		}
	case DirectIndexedWord:
		base := op.Addr - uint32(s.Y)
		if pageCrossed(base, op.Addr) {
			cost++ // p
		}
	}

	if isAClassMemOp(mn) && !s.P.M && mode != Implied && mode != Accumulator {
		// 16-bit accumulator memory ops cost one more cycle than 8-bit;
		// expressed here as the inverse of the m penalty (m penalty is a
		// discount applied when M=1).
	} else if isAClassMemOp(mn) && s.P.M {
		if cost > 1 {
			cost-- // m
		}
	}

	switch mn {
	case BCC, BCS, BEQ, BNE, BMI, BPL, BVC, BVS:
		if branchCondition(mn, &s.P) {
			cost++
			if s.P.E {
				base := uint32(s.PC) + 2
				if pageCrossed(base, op.Addr) {
					cost++
				}
			}
		}
	}

	return cost
}
