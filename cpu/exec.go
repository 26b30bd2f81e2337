package cpu

import (
	"fmt"

	"snes816/cartridge"
	"snes816/mask"
)

// Result tags the control-flow effect of one executed instruction.
type Result int

const (
	ResultNormal Result = iota
	ResultBranchTaken
	ResultJump
	ResultSubroutine
	ResultReturn
	ResultInterrupt
)

func (r Result) String() string {
	switch r {
	case ResultNormal:
		return "Normal"
	case ResultBranchTaken:
		return "BranchTaken"
	case ResultJump:
		return "Jump"
	case ResultSubroutine:
		return "Subroutine"
	case ResultReturn:
		return "Return"
	case ResultInterrupt:
		return "Interrupt"
	default:
		return "???"
	}
}

// ErrUnimplemented reports a documented but unemulated corner, namely
// decimal-mode ADC/SBC.
type ErrUnimplemented struct {
	Reason string
}

func (e *ErrUnimplemented) Error() string {
	return fmt.Sprintf("cpu: unimplemented: %s", e.Reason)
}

// VectorSource supplies interrupt vectors, satisfied by *cartridge.Cartridge.
type VectorSource interface {
	Vector(index int, emulation bool) uint16
}

// InstructionContext is the decoded form of one instruction at a specific
// PC.
type InstructionContext struct {
	Mnemonic  Mnemonic
	Mode      AddrMode
	InstrAddr uint32
	DataAddr  uint32
	DestAddr  uint32
	HasDest   bool
	Length    int
}

// Decode produces the InstructionContext for the instruction at s's
// current PC without mutating CPU state. Operand fetches still go through
// mem, but mem is expected to be side-effect free for code/data reads (as
// the bus Gateway is).
func Decode(s *State, mem Memory) (InstructionContext, error) {
	opByte, err := mem.PeekByte(s.LongPC())
	if err != nil {
		return InstructionContext{}, err
	}
	mn := DecodeMnemonic(opByte)
	mode, err := DecodeAddrMode(opByte)
	if err != nil {
		return InstructionContext{}, err
	}
	op, err := resolve(mode, mn, s, mem, isJumpBank(mn))
	if err != nil {
		return InstructionContext{}, err
	}
	length := mode.Length(s.P.M, s.P.X)
	if mode == Immediate {
		length = 1 + immLen(mn, s.P.M, s.P.X)
	}
	return InstructionContext{
		Mnemonic:  mn,
		Mode:      mode,
		InstrAddr: s.LongPC(),
		DataAddr:  op.Addr,
		DestAddr:  op.DestAddr,
		HasDest:   op.HasDest,
		Length:    length,
	}, nil
}

// Step decodes and executes one instruction at s's current PC, mutating s
// and mem, and returns the control-flow result and cycle cost.
func Step(s *State, mem Memory, vectors VectorSource) (Result, int, error) {
	opByte, err := mem.ReadByte(s.LongPC())
	if err != nil {
		return 0, 0, err
	}
	mn := DecodeMnemonic(opByte)
	mode, err := DecodeAddrMode(opByte)
	if err != nil {
		return 0, 0, err
	}
	op, err := resolve(mode, mn, s, mem, isJumpBank(mn))
	if err != nil {
		return 0, 0, err
	}
	length := mode.Length(s.P.M, s.P.X)
	if mode == Immediate {
		length = 1 + immLen(mn, s.P.M, s.P.X)
	}
	cycles := cycleCost(mn, mode, s, op, length)

	result, err := execute(mn, mode, s, mem, op, length, vectors)
	if err != nil {
		return 0, 0, err
	}
	return result, cycles, nil
}

func push8(s *State, mem Memory, v byte) error {
	addr := uint32(s.S)
	if err := mem.WriteByte(addr, v); err != nil {
		return err
	}
	s.S--
	if s.P.E {
		s.S = (s.S & 0xFF) | 0x0100
	}
	return nil
}

func push16(s *State, mem Memory, v uint16) error {
	if err := push8(s, mem, byte(v>>8)); err != nil {
		return err
	}
	return push8(s, mem, byte(v))
}

func pull8(s *State, mem Memory) (byte, error) {
	s.S++
	if s.P.E {
		s.S = (s.S & 0xFF) | 0x0100
	}
	return mem.ReadByte(uint32(s.S))
}

func pull16(s *State, mem Memory) (uint16, error) {
	lo, err := pull8(s, mem)
	if err != nil {
		return 0, err
	}
	hi, err := pull8(s, mem)
	if err != nil {
		return 0, err
	}
	return mask.Word(lo, hi), nil
}

func readWidth(mem Memory, addr uint32, wide bool) (uint16, error) {
	if wide {
		return mem.ReadWord(addr)
	}
	b, err := mem.ReadByte(addr)
	return uint16(b), err
}

func writeWidth(mem Memory, addr uint32, v uint16, wide bool) error {
	if wide {
		return mem.WriteWord(addr, v)
	}
	return mem.WriteByte(addr, byte(v))
}

// readOperandValue fetches the operand value for an A-class or index-class
// read op: immediate operands come from DataAddr directly (already pointed
// at the operand bytes by the resolver); memory operands are read at the
// given width.
func readOperandValue(mode AddrMode, mem Memory, addr uint32, wide bool) (uint16, error) {
	return readWidth(mem, addr, wide)
}

func adc(s *State, v uint16, wide bool) error {
	if s.P.D {
		return &ErrUnimplemented{Reason: "decimal"}
	}
	carry := uint32(0)
	if s.P.C {
		carry = 1
	}
	if wide {
		sum := uint32(s.A) + uint32(v) + carry
		result := uint16(sum)
		s.P.C = sum > 0xFFFF
		s.P.V = (^(s.A ^ v) & (s.A ^ result) & 0x8000) != 0
		s.A = result
		setNZ16(&s.P, s.A)
	} else {
		lo := byte(s.A)
		sum := uint32(lo) + uint32(byte(v)) + carry
		result := byte(sum)
		s.P.C = sum > 0xFF
		s.P.V = (^(lo ^ byte(v)) & (lo ^ result) & 0x80) != 0
		s.A = (s.A & 0xFF00) | uint16(result)
		setNZ8(&s.P, result)
	}
	return nil
}

func sbc(s *State, v uint16, wide bool) error {
	if s.P.D {
		return &ErrUnimplemented{Reason: "decimal"}
	}
	borrow := uint32(0)
	if !s.P.C {
		borrow = 1
	}
	if wide {
		diff := uint32(s.A) - uint32(v) - borrow
		result := uint16(diff)
		s.P.C = uint32(s.A) >= uint32(v)+borrow
		s.P.V = ((s.A ^ v) & (s.A ^ result) & 0x8000) != 0
		s.A = result
		setNZ16(&s.P, s.A)
	} else {
		lo := byte(s.A)
		m := byte(v)
		diff := uint32(lo) - uint32(m) - borrow
		result := byte(diff)
		s.P.C = uint32(lo) >= uint32(m)+borrow
		s.P.V = ((lo ^ m) & (lo ^ result) & 0x80) != 0
		s.A = (s.A & 0xFF00) | uint16(result)
		setNZ8(&s.P, result)
	}
	return nil
}

func cmp(f *Flags, reg, m uint16, wide bool) {
	if wide {
		diff := int32(reg) - int32(m)
		f.C = reg >= m
		setNZ16(f, uint16(diff))
	} else {
		r := byte(reg)
		mm := byte(m)
		diff := int32(r) - int32(mm)
		f.C = r >= mm
		setNZ8(f, byte(diff))
	}
}

func branchTarget(op Operand) uint16 {
	return uint16(op.Addr)
}

// execute applies mn's effect to s/mem given the resolved operand, and
// returns the control-flow result. PC advancement for ResultNormal is
// length bytes; branch/jump/subroutine/return/interrupt set PC themselves.
func execute(mn Mnemonic, mode AddrMode, s *State, mem Memory, op Operand, length int, vectors VectorSource) (Result, error) {
	wideA := !s.P.M
	wideIdx := !s.P.X

	normal := func() (Result, error) {
		s.PC += uint16(length)
		return ResultNormal, nil
	}

	switch mn {
	case ADC:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		if err := adc(s, v, wideA); err != nil {
			return 0, err
		}
		return normal()

	case SBC:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		if err := sbc(s, v, wideA); err != nil {
			return 0, err
		}
		return normal()

	case AND, ORA, EOR:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		if wideA {
			switch mn {
			case AND:
				s.A &= v
			case ORA:
				s.A |= v
			case EOR:
				s.A ^= v
			}
			setNZ16(&s.P, s.A)
		} else {
			lo := byte(s.A)
			switch mn {
			case AND:
				lo &= byte(v)
			case ORA:
				lo |= byte(v)
			case EOR:
				lo ^= byte(v)
			}
			s.A = (s.A & 0xFF00) | uint16(lo)
			setNZ8(&s.P, lo)
		}
		return normal()

	case CMP:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		cmp(&s.P, s.A, v, wideA)
		return normal()

	case CPX, CPY:
		v, err := readOperandValue(mode, mem, op.Addr, wideIdx)
		if err != nil {
			return 0, err
		}
		reg := s.X
		if mn == CPY {
			reg = s.Y
		}
		cmp(&s.P, reg, v, wideIdx)
		return normal()

	case BIT:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		if wideA {
			s.P.Z = s.A&v == 0
		} else {
			s.P.Z = byte(s.A)&byte(v) == 0
		}
		if mode != Immediate {
			if wideA {
				s.P.N = v&0x8000 != 0
				s.P.V = v&0x4000 != 0
			} else {
				s.P.N = v&0x80 != 0
				s.P.V = v&0x40 != 0
			}
		}
		return normal()

	case LDA:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		if wideA {
			s.A = v
			setNZ16(&s.P, v)
		} else {
			s.A = (s.A & 0xFF00) | (v & 0xFF)
			setNZ8(&s.P, byte(v))
		}
		return normal()

	case LDX, LDY:
		v, err := readOperandValue(mode, mem, op.Addr, wideIdx)
		if err != nil {
			return 0, err
		}
		if wideIdx {
			if mn == LDX {
				s.X = v
			} else {
				s.Y = v
			}
			setNZ16(&s.P, v)
		} else {
			if mn == LDX {
				s.X = v & 0xFF
			} else {
				s.Y = v & 0xFF
			}
			setNZ8(&s.P, byte(v))
		}
		return normal()

	case STA:
		if err := writeWidth(mem, op.Addr, s.A, wideA); err != nil {
			return 0, err
		}
		return normal()

	case STX:
		if err := writeWidth(mem, op.Addr, s.X, wideIdx); err != nil {
			return 0, err
		}
		return normal()

	case STY:
		if err := writeWidth(mem, op.Addr, s.Y, wideIdx); err != nil {
			return 0, err
		}
		return normal()

	case STZ:
		if err := writeWidth(mem, op.Addr, 0, wideA); err != nil {
			return 0, err
		}
		return normal()

	case ASL, LSR, ROL, ROR:
		wide := wideA
		var v uint16
		var err error
		if mode == Accumulator {
			v = s.A
		} else {
			v, err = readOperandValue(mode, mem, op.Addr, wide)
			if err != nil {
				return 0, err
			}
		}
		var result uint16
		var carryOut bool
		width := 16
		if !wide {
			width = 8
		}
		switch mn {
		case ASL:
			carryOut = v&(1<<(width-1)) != 0
			result = v << 1
		case LSR:
			carryOut = v&1 != 0
			result = v >> 1
		case ROL:
			oldCarry := uint16(0)
			if s.P.C {
				oldCarry = 1
			}
			carryOut = v&(1<<(width-1)) != 0
			result = (v << 1) | oldCarry
		case ROR:
			oldCarry := uint16(0)
			if s.P.C {
				oldCarry = 1 << (width - 1)
			}
			carryOut = v&1 != 0
			result = (v >> 1) | oldCarry
		}
		if !wide {
			result &= 0xFF
		}
		s.P.C = carryOut
		if wide {
			setNZ16(&s.P, result)
		} else {
			setNZ8(&s.P, byte(result))
		}
		if mode == Accumulator {
			s.A = result
		} else if err := writeWidth(mem, op.Addr, result, wide); err != nil {
			return 0, err
		}
		return normal()

	case INC, DEC:
		wide := wideA
		var v uint16
		var err error
		if mode == Accumulator {
			v = s.A
		} else {
			v, err = readOperandValue(mode, mem, op.Addr, wide)
			if err != nil {
				return 0, err
			}
		}
		var result uint16
		if mn == INC {
			result = v + 1
		} else {
			result = v - 1
		}
		if !wide {
			result &= 0xFF
			setNZ8(&s.P, byte(result))
		} else {
			setNZ16(&s.P, result)
		}
		if mode == Accumulator {
			s.A = result
		} else if err := writeWidth(mem, op.Addr, result, wide); err != nil {
			return 0, err
		}
		return normal()

	case INX, DEX, INY, DEY:
		reg := &s.X
		if mn == INY || mn == DEY {
			reg = &s.Y
		}
		if wideIdx {
			if mn == INX || mn == INY {
				*reg++
			} else {
				*reg--
			}
			setNZ16(&s.P, *reg)
		} else {
			v := byte(*reg)
			if mn == INX || mn == INY {
				v++
			} else {
				v--
			}
			*reg = uint16(v)
			setNZ8(&s.P, v)
		}
		return normal()

	case TRB, TSB:
		v, err := readOperandValue(mode, mem, op.Addr, wideA)
		if err != nil {
			return 0, err
		}
		if wideA {
			s.P.Z = v&s.A == 0
			if mn == TRB {
				v &^= s.A
			} else {
				v |= s.A
			}
		} else {
			av := byte(s.A)
			vv := byte(v)
			s.P.Z = vv&av == 0
			if mn == TRB {
				vv &^= av
			} else {
				vv |= av
			}
			v = uint16(vv)
		}
		if err := writeWidth(mem, op.Addr, v, wideA); err != nil {
			return 0, err
		}
		return normal()

	case TAX, TAY, TXA, TYA, TXY, TYX, TSX, TXS, TCD, TDC, TCS, TSC:
		return transfer(mn, s)

	case PHA:
		if err := pushWidth(s, mem, s.A, wideA); err != nil {
			return 0, err
		}
		return normal()
	case PLA:
		v, err := pullWidth(s, mem, wideA)
		if err != nil {
			return 0, err
		}
		if wideA {
			s.A = v
			setNZ16(&s.P, v)
		} else {
			s.A = (s.A & 0xFF00) | v
			setNZ8(&s.P, byte(v))
		}
		return normal()
	case PHX:
		if err := pushWidth(s, mem, s.X, wideIdx); err != nil {
			return 0, err
		}
		return normal()
	case PHY:
		if err := pushWidth(s, mem, s.Y, wideIdx); err != nil {
			return 0, err
		}
		return normal()
	case PLX:
		v, err := pullWidth(s, mem, wideIdx)
		if err != nil {
			return 0, err
		}
		s.X = v
		setNZWidth(&s.P, v, wideIdx)
		return normal()
	case PLY:
		v, err := pullWidth(s, mem, wideIdx)
		if err != nil {
			return 0, err
		}
		s.Y = v
		setNZWidth(&s.P, v, wideIdx)
		return normal()
	case PHP:
		if err := push8(s, mem, s.P.toByte()); err != nil {
			return 0, err
		}
		return normal()
	case PLP:
		v, err := pull8(s, mem)
		if err != nil {
			return 0, err
		}
		s.P.fromByte(v)
		s.forceIndexWidth()
		return normal()
	case PHB:
		if err := push8(s, mem, s.DBR); err != nil {
			return 0, err
		}
		return normal()
	case PLB:
		v, err := pull8(s, mem)
		if err != nil {
			return 0, err
		}
		s.DBR = v
		setNZ8(&s.P, v)
		return normal()
	case PHD:
		if err := push16(s, mem, s.D); err != nil {
			return 0, err
		}
		return normal()
	case PLD:
		v, err := pull16(s, mem)
		if err != nil {
			return 0, err
		}
		s.D = v
		setNZ16(&s.P, v)
		return normal()
	case PHK:
		if err := push8(s, mem, s.K); err != nil {
			return 0, err
		}
		return normal()
	case PEA:
		v, err := mem.ReadWord(op.Addr)
		if err != nil {
			return 0, err
		}
		if err := push16(s, mem, v); err != nil {
			return 0, err
		}
		return normal()
	case PEI:
		v, err := mem.ReadWord(op.Addr)
		if err != nil {
			return 0, err
		}
		if err := push16(s, mem, v); err != nil {
			return 0, err
		}
		return normal()
	case PER:
		if err := push16(s, mem, branchTarget(op)); err != nil {
			return 0, err
		}
		return normal()

	case CLC:
		s.P.C = false
		return normal()
	case SEC:
		s.P.C = true
		return normal()
	case CLI:
		s.P.I = false
		return normal()
	case SEI:
		s.P.I = true
		return normal()
	case CLD:
		s.P.D = false
		return normal()
	case SED:
		s.P.D = true
		return normal()
	case CLV:
		s.P.V = false
		return normal()

	case REP:
		mask, err := mem.ReadByte(op.Addr)
		if err != nil {
			return 0, err
		}
		applyFlagMask(&s.P, mask, false)
		s.forceIndexWidth()
		return normal()
	case SEP:
		mask, err := mem.ReadByte(op.Addr)
		if err != nil {
			return 0, err
		}
		applyFlagMask(&s.P, mask, true)
		s.forceIndexWidth()
		return normal()

	case XCE:
		oldC := s.P.C
		s.P.C = s.P.E
		s.P.E = oldC
		if s.P.E {
			s.forceEmulationInvariants()
		}
		return normal()

	case XBA:
		lo := byte(s.A)
		hi := byte(s.A >> 8)
		s.A = mask.Word(hi, lo)
		setNZ8(&s.P, hi)
		return normal()

	case NOP, WDM:
		return normal()

	case STP, WAI:
		return normal()

	case MVN, MVP:
		srcByte, err := mem.ReadByte(op.Addr)
		if err != nil {
			return 0, err
		}
		if err := mem.WriteByte(op.DestAddr, srcByte); err != nil {
			return 0, err
		}
		s.DBR = byte(op.Addr >> 16)
		if mn == MVN {
			s.X++
			s.Y++
		} else {
			s.X--
			s.Y--
		}
		s.A--
		if s.A != 0xFFFF {
			// more bytes remain; MVN/MVP re-execute at the same PC until
			// A wraps to 0xFFFF, per the 65C816's documented block-move
			// loop. This core executes one byte per Step call and lets
			// the caller re-invoke Step while A != 0xFFFF.
			return ResultNormal, nil
		}
		s.PC += uint16(length)
		return ResultNormal, nil

	case BRA, BRL:
		s.PC = branchTarget(op)
		return ResultBranchTaken, nil

	case BCC, BCS, BEQ, BNE, BMI, BPL, BVC, BVS:
		taken := branchCondition(mn, &s.P)
		if !taken {
			s.PC += uint16(length)
			return ResultNormal, nil
		}
		s.PC = branchTarget(op)
		return ResultBranchTaken, nil

	case JMP, JML:
		s.PC = uint16(op.Addr)
		if mn == JML {
			s.K = byte(op.Addr >> 16)
		}
		return ResultJump, nil

	case JSR:
		ret := s.PC + uint16(length) - 1
		if err := push16(s, mem, ret); err != nil {
			return 0, err
		}
		s.PC = uint16(op.Addr)
		return ResultSubroutine, nil

	case JSL:
		if err := push8(s, mem, s.K); err != nil {
			return 0, err
		}
		ret := s.PC + uint16(length) - 1
		if err := push16(s, mem, ret); err != nil {
			return 0, err
		}
		s.K = byte(op.Addr >> 16)
		s.PC = uint16(op.Addr)
		return ResultSubroutine, nil

	case RTS:
		ret, err := pull16(s, mem)
		if err != nil {
			return 0, err
		}
		s.PC = ret + 1
		return ResultReturn, nil

	case RTL:
		ret, err := pull16(s, mem)
		if err != nil {
			return 0, err
		}
		k, err := pull8(s, mem)
		if err != nil {
			return 0, err
		}
		s.K = k
		s.PC = ret + 1
		return ResultReturn, nil

	case RTI:
		p, err := pull8(s, mem)
		if err != nil {
			return 0, err
		}
		s.P.fromByte(p)
		s.forceIndexWidth()
		pc, err := pull16(s, mem)
		if err != nil {
			return 0, err
		}
		s.PC = pc
		if !s.P.E {
			k, err := pull8(s, mem)
			if err != nil {
				return 0, err
			}
			s.K = k
		}
		return ResultReturn, nil

	case BRK:
		return interrupt(s, mem, vectors, cartridge.VecBRK, true)
	case COP:
		return interrupt(s, mem, vectors, cartridge.VecCOP, false)

	default:
		return 0, &ErrUnimplemented{Reason: mn.String()}
	}
}

func pushWidth(s *State, mem Memory, v uint16, wide bool) error {
	if wide {
		return push16(s, mem, v)
	}
	return push8(s, mem, byte(v))
}

func pullWidth(s *State, mem Memory, wide bool) (uint16, error) {
	if wide {
		return pull16(s, mem)
	}
	v, err := pull8(s, mem)
	return uint16(v), err
}

func setNZWidth(f *Flags, v uint16, wide bool) {
	if wide {
		setNZ16(f, v)
	} else {
		setNZ8(f, byte(v))
	}
}

func applyFlagMask(f *Flags, mask byte, set bool) {
	apply := func(bit byte, target *bool) {
		if mask&bit != 0 {
			*target = set
		}
	}
	apply(0x80, &f.N)
	apply(0x40, &f.V)
	apply(0x20, &f.M)
	apply(0x10, &f.X)
	apply(0x08, &f.D)
	apply(0x04, &f.I)
	apply(0x02, &f.Z)
	apply(0x01, &f.C)
}

func branchCondition(mn Mnemonic, f *Flags) bool {
	switch mn {
	case BCC:
		return !f.C
	case BCS:
		return f.C
	case BEQ:
		return f.Z
	case BNE:
		return !f.Z
	case BMI:
		return f.N
	case BPL:
		return !f.N
	case BVC:
		return !f.V
	case BVS:
		return f.V
	default:
		return false
	}
}

func transfer(mn Mnemonic, s *State) (Result, error) {
	switch mn {
	case TAX:
		if !s.P.X {
			s.X = s.A
			setNZ16(&s.P, s.X)
		} else {
			s.X = s.A & 0xFF
			setNZ8(&s.P, byte(s.X))
		}
	case TAY:
		if !s.P.X {
			s.Y = s.A
			setNZ16(&s.P, s.Y)
		} else {
			s.Y = s.A & 0xFF
			setNZ8(&s.P, byte(s.Y))
		}
	case TXA:
		if !s.P.M {
			s.A = s.X
			setNZ16(&s.P, s.A)
		} else {
			s.A = (s.A & 0xFF00) | (s.X & 0xFF)
			setNZ8(&s.P, byte(s.A))
		}
	case TYA:
		if !s.P.M {
			s.A = s.Y
			setNZ16(&s.P, s.A)
		} else {
			s.A = (s.A & 0xFF00) | (s.Y & 0xFF)
			setNZ8(&s.P, byte(s.A))
		}
	case TXY:
		s.Y = s.X
		setNZWidth(&s.P, s.Y, !s.P.X)
	case TYX:
		s.X = s.Y
		setNZWidth(&s.P, s.X, !s.P.X)
	case TSX:
		if !s.P.X {
			s.X = s.S
			setNZ16(&s.P, s.X)
		} else {
			s.X = s.S & 0xFF
			setNZ8(&s.P, byte(s.X))
		}
	case TXS:
		s.S = s.X
		if s.P.E {
			s.S = (s.S & 0xFF) | 0x0100
		}
	case TCD:
		s.D = s.A
		setNZ16(&s.P, s.D)
	case TDC:
		s.A = s.D
		setNZ16(&s.P, s.A)
	case TCS:
		s.S = s.A
		if s.P.E {
			s.S = (s.S & 0xFF) | 0x0100
		}
	case TSC:
		s.A = s.S
		setNZ16(&s.P, s.A)
	}
	s.PC++
	return ResultNormal, nil
}

// interrupt implements the BRK/COP entry template shared with NMI/IRQ/ABORT:
// push K (native mode only), return PC, P (B set for BRK only in emulation
// mode), clear D, set I, clear K, load the vector.
func interrupt(s *State, mem Memory, vectors VectorSource, vecIndex int, isBRK bool) (Result, error) {
	if !s.P.E {
		if err := push8(s, mem, s.K); err != nil {
			return 0, err
		}
	}
	retPC := s.PC + 2
	if err := push16(s, mem, retPC); err != nil {
		return 0, err
	}
	p := s.P
	if isBRK && s.P.E {
		p.B = true
	}
	if err := push8(s, mem, p.toByte()); err != nil {
		return 0, err
	}
	s.P.D = false
	s.P.I = true
	s.K = 0
	s.PC = vectors.Vector(vecIndex, s.P.E)
	return ResultInterrupt, nil
}

// NMI raises the non-maskable interrupt, the sole NMI entry point.
func NMI(s *State, mem Memory, vectors VectorSource) error {
	_, err := interrupt(s, mem, vectors, cartridge.VecNMI, false)
	return err
}

// IRQ raises a maskable interrupt if I is clear.
func IRQ(s *State, mem Memory, vectors VectorSource) error {
	if s.P.I {
		return nil
	}
	_, err := interrupt(s, mem, vectors, cartridge.VecIRQ, false)
	return err
}

// Abort raises the ABORT interrupt.
func Abort(s *State, mem Memory, vectors VectorSource) error {
	_, err := interrupt(s, mem, vectors, cartridge.VecABORT, false)
	return err
}
