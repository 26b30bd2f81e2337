package cpu

import "snes816/mask"

// Memory is the subset of the memory gateway the resolver and executor
// need: typed byte/word access with the read/peek distinction preserved
// for callers that care (Decode peeks the opcode byte; operand and data
// fetches use the Read methods).
type Memory interface {
	ReadByte(addr uint32) (byte, error)
	ReadWord(addr uint32) (uint16, error)
	PeekByte(addr uint32) (byte, error)
	PeekWord(addr uint32) (uint16, error)
	WriteByte(addr uint32, v byte) error
	WriteWord(addr uint32, v uint16) error
}

// Operand is the resolved effective address (and, for block moves, the
// second address) produced by the address resolver.
type Operand struct {
	Addr     uint32
	DestAddr uint32
	HasDest  bool
}

// directPointer computes the 16-bit direct-page pointer for offset+index.
// When running in emulation mode with the direct-page base's low byte at
// zero, the result wraps within the base's page instead of carrying into
// the high byte, matching the 6502-compatible direct-page behavior real
// hardware falls back to.
func directPointer(s *State, offset byte, index uint16) uint16 {
	if s.P.E && s.D&0xFF == 0 {
		low := offset + byte(index)
		return (s.D & 0xFF00) | uint16(low)
	}
	return s.D + uint16(offset) + index
}

// resolve computes the effective address for mode, reading the operand
// bytes it needs at K:PC+1 through K:PC+3. forJump distinguishes the two
// Absolute bank rules (K for control flow, DBR for data).
func resolve(mode AddrMode, mn Mnemonic, s *State, mem Memory, forJump bool) (Operand, error) {
	pc1 := func() (byte, error) { return mem.ReadByte(mask.Long(s.K, s.PC+1)) }
	pc2 := func() (byte, error) { return mem.ReadByte(mask.Long(s.K, s.PC+2)) }
	pc3 := func() (byte, error) { return mem.ReadByte(mask.Long(s.K, s.PC+3)) }
	word := func() (uint16, error) {
		lo, err := pc1()
		if err != nil {
			return 0, err
		}
		hi, err := pc2()
		if err != nil {
			return 0, err
		}
		return mask.Word(lo, hi), nil
	}

	switch mode {
	case Implied, Accumulator:
		return Operand{}, nil

	case Immediate:
		return Operand{Addr: mask.Long(s.K, s.PC+1)}, nil

	case Absolute:
		w, err := word()
		if err != nil {
			return Operand{}, err
		}
		bank := s.DBR
		if forJump {
			bank = s.K
		}
		return Operand{Addr: mask.Long(bank, w)}, nil

	case AbsoluteX, AbsoluteY:
		w, err := word()
		if err != nil {
			return Operand{}, err
		}
		idx := s.X
		if mode == AbsoluteY {
			idx = s.Y
		}
		return Operand{Addr: mask.Long(s.DBR, w+idx)}, nil

	case AbsoluteIndirectWord: // JMP (abs)
		w, err := word()
		if err != nil {
			return Operand{}, err
		}
		ptr, err := mem.ReadWord(uint32(w))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(s.K, ptr)}, nil

	case AbsoluteIndirectSWord: // JML [abs]
		w, err := word()
		if err != nil {
			return Operand{}, err
		}
		lo, err := mem.ReadWord(uint32(w))
		if err != nil {
			return Operand{}, err
		}
		bank, err := mem.ReadByte(uint32(w) + 2)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(bank, lo)}, nil

	case AbsoluteIndexedIndirect: // JMP/JSR (abs,X)
		w, err := word()
		if err != nil {
			return Operand{}, err
		}
		ptr, err := mem.ReadWord(mask.Long(s.K, w+s.X))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(s.K, ptr)}, nil

	case Direct:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: uint32(directPointer(s, l, 0))}, nil

	case DirectX, DirectY:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		idx := s.X
		if mode == DirectY {
			idx = s.Y
		}
		return Operand{Addr: uint32(directPointer(s, l, idx))}, nil

	case DirectWord: // (dp)
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		ptr := directPointer(s, l, 0)
		w, err := mem.ReadWord(uint32(ptr))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(s.DBR, w)}, nil

	case DirectSWord: // [dp]
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		ptr := directPointer(s, l, 0)
		lo, err := mem.ReadWord(uint32(ptr))
		if err != nil {
			return Operand{}, err
		}
		bank, err := mem.ReadByte(uint32(ptr) + 2)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(bank, lo)}, nil

	case IndexedDirectWord: // (dp,X)
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		ptr := directPointer(s, l, s.X)
		w, err := mem.ReadWord(uint32(ptr))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(s.DBR, w)}, nil

	case DirectIndexedWord: // (dp),Y
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		ptr := directPointer(s, l, 0)
		w, err := mem.ReadWord(uint32(ptr))
		if err != nil {
			return Operand{}, err
		}
		base := mask.Long(s.DBR, w)
		return Operand{Addr: (base + uint32(s.Y)) & 0xFFFFFF}, nil

	case DirectIndexedSWord: // [dp],Y
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		ptr := directPointer(s, l, 0)
		lo, err := mem.ReadWord(uint32(ptr))
		if err != nil {
			return Operand{}, err
		}
		bank, err := mem.ReadByte(uint32(ptr) + 2)
		if err != nil {
			return Operand{}, err
		}
		base := mask.Long(bank, lo)
		return Operand{Addr: (base + uint32(s.Y)) & 0xFFFFFF}, nil

	case Long:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		h, err := pc2()
		if err != nil {
			return Operand{}, err
		}
		b, err := pc3()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(b, mask.Word(l, h))}, nil

	case LongX:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		h, err := pc2()
		if err != nil {
			return Operand{}, err
		}
		b, err := pc3()
		if err != nil {
			return Operand{}, err
		}
		base := mask.Long(b, mask.Word(l, h))
		return Operand{Addr: (base + uint32(s.X)) & 0xFFFFFF}, nil

	case RelativeByte:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		disp := mask.SignExtend8(l)
		target := uint16(int32(s.PC) + 2 + int32(disp))
		return Operand{Addr: mask.Long(s.K, target)}, nil

	case RelativeWord:
		w, err := word()
		if err != nil {
			return Operand{}, err
		}
		target := uint16(int32(s.PC) + 3 + int32(int16(w)))
		return Operand{Addr: mask.Long(s.K, target)}, nil

	case SourceDestination:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		h, err := pc2()
		if err != nil {
			return Operand{}, err
		}
		return Operand{
			Addr:     mask.Long(h, s.Y),
			DestAddr: mask.Long(l, s.X),
			HasDest:  true,
		}, nil

	case Stack:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: uint32(uint16(l) + s.S)}, nil

	case StackIndexed:
		l, err := pc1()
		if err != nil {
			return Operand{}, err
		}
		w, err := mem.ReadWord(uint32(uint16(l) + s.S))
		if err != nil {
			return Operand{}, err
		}
		return Operand{Addr: mask.Long(s.DBR, w+s.Y)}, nil
	}

	return Operand{}, &ErrUnknownOpcode{}
}

// isJumpBank reports whether mn uses K (not DBR) as the Absolute bank.
func isJumpBank(mn Mnemonic) bool {
	switch mn {
	case JMP, JSR, JML, JSL:
		return true
	default:
		return false
	}
}
