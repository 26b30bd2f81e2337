// Package disasm implements the bounded linear disassembler: a
// non-destructive walker that partially simulates execution from the
// current PC to track M/X/E flag transitions and annotates branch flow
// for a TUI.
package disasm

import (
	"fmt"

	"snes816/console"
	"snes816/cpu"
)

// DebugState is the M/X/E register-width snapshot at the point an
// instruction was decoded, needed to render Immediate operand width.
type DebugState struct {
	M, X, E bool
}

// InstructionWrapper is one decoded instruction plus the simulation
// context needed to render and cross-reference it.
type InstructionWrapper struct {
	Location    uint32
	Status      DebugState
	BranchFrom  []uint32
	BranchTo    *uint32
	Data        uint16
	Instruction cpu.InstructionContext
}

// Text renders the instruction the way the teacher's debugger would:
// address, mnemonic, operand, addressing mode, matching the Immediate
// width rules for REP/SEP/WDM (8-bit) and PEA/PER (16-bit); other
// immediates print at the width the instruction was decoded with (M for
// accumulator-class ops, X for index-class ops).
func (w InstructionWrapper) Text() string {
	instr := w.Instruction
	switch instr.Mode {
	case cpu.SourceDestination:
		return fmt.Sprintf("$%06X: %s %06X, %06X (%s)", instr.InstrAddr, instr.Mnemonic, instr.DataAddr, instr.DestAddr, instr.Mode)
	case cpu.Accumulator, cpu.Implied:
		return fmt.Sprintf("$%06X: %s (%s)", instr.InstrAddr, instr.Mnemonic, instr.Mode)
	case cpu.Immediate:
		switch instr.Mnemonic {
		case cpu.REP, cpu.SEP, cpu.WDM:
			return fmt.Sprintf("$%06X: %s #%02X (%s)", instr.InstrAddr, instr.Mnemonic, w.Data&0xFF, instr.Mode)
		case cpu.PEA, cpu.PER:
			return fmt.Sprintf("$%06X: %s #%04X (%s)", instr.InstrAddr, instr.Mnemonic, w.Data, instr.Mode)
		default:
			if instr.Length == 2 {
				return fmt.Sprintf("$%06X: %s #%02X (%s)", instr.InstrAddr, instr.Mnemonic, w.Data&0xFF, instr.Mode)
			}
			return fmt.Sprintf("$%06X: %s #%04X (%s)", instr.InstrAddr, instr.Mnemonic, w.Data, instr.Mode)
		}
	default:
		return fmt.Sprintf("$%06X: %s $%06X (%s)", instr.InstrAddr, instr.Mnemonic, instr.DataAddr, instr.Mode)
	}
}

// FlagKind is one of the three branch-arrow glyph roles.
type FlagKind int

const (
	BranchStart FlagKind = iota
	BranchCont
	BranchEnd
)

// Flag annotates a DisassemblerLine with a branch-arrow segment pointing
// at Target.
type Flag struct {
	Kind   FlagKind
	Target uint32
}

// DisassemblerLine is one row of a disassembly window.
type DisassemblerLine struct {
	Location uint32
	Flags    []Flag
	Decoded  InstructionWrapper
}

// DisassemblerContext is a disassembly snapshot: ascending-PC lines, the
// indices of branch instructions, and the branch-gutter depth.
type DisassemblerContext struct {
	Lines       []DisassemblerLine
	BranchTable []int
	BranchDepth int
	StartLoc    uint32
}

// DisassemblyError reports a simulation failure partway through a walk. It
// carries the partial instruction list and the machine snapshot at the
// failing step so the caller can present exactly where analysis stalled.
type DisassemblyError struct {
	Instructions []InstructionWrapper
	Snapshot     *cpu.State
	Err          error
}

func (e *DisassemblyError) Error() string {
	return fmt.Sprintf("disasm: stalled after %d instructions: %v", len(e.Instructions), e.Err)
}

func (e *DisassemblyError) Unwrap() error { return e.Err }

func isBranchMnemonic(mn cpu.Mnemonic) bool {
	switch mn {
	case cpu.BCC, cpu.BCS, cpu.BEQ, cpu.BNE, cpu.BMI, cpu.BPL, cpu.BVC, cpu.BVS, cpu.BRA, cpu.BRL:
		return true
	default:
		return false
	}
}

func isStopMnemonic(mn cpu.Mnemonic) bool {
	switch mn {
	case cpu.BRK, cpu.JSR, cpu.JSL, cpu.RTS, cpu.RTL, cpu.RTI, cpu.BRA:
		return true
	default:
		return false
	}
}

func isControlFlow(mn cpu.Mnemonic) bool {
	if isBranchMnemonic(mn) {
		return true
	}
	switch mn {
	case cpu.JMP, cpu.JML, cpu.JSR, cpu.JSL, cpu.RTS, cpu.RTL, cpu.RTI:
		return true
	default:
		return false
	}
}

// Disassemble walks up to maxLines instructions from c's current PC on a
// clone of c, so the live machine is never mutated by the walk.
func Disassemble(c *console.Console, maxLines int) (*DisassemblerContext, error) {
	sim := c.Clone()
	startLoc := sim.CPU.LongPC()

	var wrappers []InstructionWrapper

	for i := 0; i < maxLines; i++ {
		loc := sim.CPU.LongPC()
		status := DebugState{M: sim.CPU.P.M, X: sim.CPU.P.X, E: sim.CPU.P.E}

		instr, err := sim.Decode()
		if err != nil {
			return nil, &DisassemblyError{Instructions: wrappers, Snapshot: sim.CPU.Clone(), Err: err}
		}

		var data uint16
		if instr.Mode == cpu.Immediate {
			if instr.Length == 2 {
				b, err := sim.PeekByte(instr.DataAddr)
				if err != nil {
					return nil, &DisassemblyError{Instructions: wrappers, Snapshot: sim.CPU.Clone(), Err: err}
				}
				data = uint16(b)
			} else {
				w, err := sim.PeekWord(instr.DataAddr)
				if err != nil {
					return nil, &DisassemblyError{Instructions: wrappers, Snapshot: sim.CPU.Clone(), Err: err}
				}
				data = w
			}
		}

		wrapper := InstructionWrapper{Location: loc, Status: status, Data: data, Instruction: instr}
		if isBranchMnemonic(instr.Mnemonic) {
			target := instr.DataAddr
			wrapper.BranchTo = &target
		}

		if isControlFlow(instr.Mnemonic) {
			sim.CPU.PC += uint16(instr.Length)
		} else {
			if _, _, err := sim.Step(); err != nil {
				wrappers = append(wrappers, wrapper)
				return nil, &DisassemblyError{Instructions: wrappers, Snapshot: sim.CPU.Clone(), Err: err}
			}
		}

		wrappers = append(wrappers, wrapper)

		if isStopMnemonic(instr.Mnemonic) {
			break
		}
	}

	return renderFlows(&DisassemblerContext{
		Lines:    linesFrom(wrappers),
		StartLoc: startLoc,
	}), nil
}

func linesFrom(wrappers []InstructionWrapper) []DisassemblerLine {
	lines := make([]DisassemblerLine, len(wrappers))
	for i, w := range wrappers {
		lines[i] = DisassemblerLine{Location: w.Location, Decoded: w}
	}
	return lines
}

// renderFlows fills ctx.Lines[*].Flags and ctx.BranchDepth from each
// branch instruction's target, pushing the source PC onto the target
// line's BranchFrom list and emitting a Start/Cont/End chain between the
// two lines.
func renderFlows(ctx *DisassemblerContext) *DisassemblerContext {
	indexByLoc := make(map[uint32]int, len(ctx.Lines))
	for i, l := range ctx.Lines {
		indexByLoc[l.Location] = i
	}

	type span struct{ lo, hi int }
	var spans []span

	for i := range ctx.Lines {
		w := ctx.Lines[i].Decoded
		if w.BranchTo == nil {
			continue
		}
		j, ok := indexByLoc[*w.BranchTo]
		if !ok {
			// Target outside the window: BranchTo is left set but no
			// gutter flags are emitted for it, since there is no line to
			// anchor the arrow to.
			continue
		}
		ctx.BranchTable = append(ctx.BranchTable, i)
		ctx.Lines[j].Decoded.BranchFrom = append(ctx.Lines[j].Decoded.BranchFrom, w.Location)

		lo, hi := i, j
		if lo > hi {
			lo, hi = hi, lo
		}
		spans = append(spans, span{lo: lo, hi: hi})

		ctx.Lines[i].Flags = append(ctx.Lines[i].Flags, Flag{Kind: BranchStart, Target: *w.BranchTo})
		ctx.Lines[j].Flags = append(ctx.Lines[j].Flags, Flag{Kind: BranchEnd, Target: *w.BranchTo})
		for k := lo + 1; k < hi; k++ {
			if k == i || k == j {
				continue
			}
			ctx.Lines[k].Flags = append(ctx.Lines[k].Flags, Flag{Kind: BranchCont, Target: *w.BranchTo})
		}
	}

	depth := 0
	for lineIdx := range ctx.Lines {
		count := 0
		for _, sp := range spans {
			if lineIdx >= sp.lo && lineIdx <= sp.hi {
				count++
			}
		}
		if count > depth {
			depth = count
		}
	}
	ctx.BranchDepth = depth

	return ctx
}
