package internal

import (
	"fmt"
)

// Fetch decodes the instruction at PC without executing it
func (vm *C8VM) Fetch() Instruction {
	hi := vm.memory[vm.pc&addressMask]
	lo := vm.memory[(vm.pc+1)&addressMask]
	return Decode(uint16(hi)<<8 | uint16(lo))
}

// Step executes exactly one instruction.
//
// An unknown opcode is skipped and reported with an *UnknownOpcodeError while
// the status stays StatusRunning. A stack fault halts the VM: the faulting
// instruction leaves the machine untouched, the status is StatusHalted and
// every later call returns ErrHalted until Reset. While FX0A has no key press
// to consume the status is StatusWaitingForKey and PC stays on the FX0A, so
// the host simply calls Step again next cycle.
func (vm *C8VM) Step() (Status, error) {
	if vm.halted {
		return StatusHalted, ErrHalted
	}

	addr := vm.pc
	in := vm.Fetch()
	vm.pc = (addr + 2) & addressMask

	status, err := vm.execute(in, addr)
	switch {
	case IsFatal(err):
		vm.pc = addr
		vm.halted = true
		return StatusHalted, err
	case status == StatusWaitingForKey:
		vm.pc = addr
	}
	return status, err
}

// skipIf advances PC past the next instruction when cond holds
func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc = (vm.pc + 2) & addressMask
	}
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// execute applies a decoded instruction. PC has already been advanced past
// it; addr is where it was fetched from.
func (vm *C8VM) execute(in Instruction, addr uint16) (Status, error) {
	x, y := in.X, in.Y

	switch in.Family {
	case 0x0:
		switch in.Opcode {
		case 0x00E0: // CLS
			vm.NullifyPixels()
		case 0x00EE: // RET
			if vm.sp == 0 {
				return StatusHalted, fmt.Errorf("%w: return at %03X", ErrStackUnderflow, addr)
			}
			vm.sp--
			vm.pc = vm.stack[vm.sp]
		default:
			return StatusRunning, &UnknownOpcodeError{Opcode: in.Opcode, Address: addr}
		}

	case 0x1: // JP nnn
		vm.pc = in.NNN

	case 0x2: // CALL nnn
		if vm.sp >= stackDepth {
			return StatusHalted, fmt.Errorf("%w: call at %03X", ErrStackOverflow, addr)
		}
		vm.stack[vm.sp] = vm.pc
		vm.sp++
		vm.pc = in.NNN

	case 0x3: // SE Vx, nn
		vm.skipIf(vm.regV[x] == in.NN)

	case 0x4: // SNE Vx, nn
		vm.skipIf(vm.regV[x] != in.NN)

	case 0x5: // SE Vx, Vy
		if in.N != 0 {
			return StatusRunning, &UnknownOpcodeError{Opcode: in.Opcode, Address: addr}
		}
		vm.skipIf(vm.regV[x] == vm.regV[y])

	case 0x6: // LD Vx, nn
		vm.regV[x] = in.NN

	case 0x7: // ADD Vx, nn
		vm.regV[x] += in.NN

	case 0x8:
		return vm.executeALU(in, addr)

	case 0x9: // SNE Vx, Vy
		if in.N != 0 {
			return StatusRunning, &UnknownOpcodeError{Opcode: in.Opcode, Address: addr}
		}
		vm.skipIf(vm.regV[x] != vm.regV[y])

	case 0xA: // LD I, nnn
		vm.regI = in.NNN

	case 0xB: // JP V0, nnn
		offset := vm.regV[0]
		if vm.quirks.JumpUsesVX {
			offset = vm.regV[x]
		}
		vm.pc = (in.NNN + uint16(offset)) & addressMask

	case 0xC: // RND Vx, nn
		vm.regV[x] = vm.rnd.Byte() & in.NN

	case 0xD: // DRW Vx, Vy, n
		collision := vm.drawSprite(vm.regV[x], vm.regV[y], in.N)
		vm.regV[0xF] = boolToFlag(collision)

	case 0xE:
		switch in.NN {
		case 0x9E: // SKP Vx
			vm.skipIf(vm.IsKeyPressed(vm.regV[x]))
		case 0xA1: // SKNP Vx
			vm.skipIf(!vm.IsKeyPressed(vm.regV[x]))
		default:
			return StatusRunning, &UnknownOpcodeError{Opcode: in.Opcode, Address: addr}
		}

	case 0xF:
		return vm.executeMisc(in, addr)
	}

	return StatusRunning, nil
}

// executeALU handles the 8XYN register to register family. Every result is
// computed from the operands as they were before the instruction so that VF
// can be written last, even when X or Y is F.
func (vm *C8VM) executeALU(in Instruction, addr uint16) (Status, error) {
	x, y := in.X, in.Y
	vx, vy := vm.regV[x], vm.regV[y]

	switch in.N {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vy
	case 0x1: // OR Vx, Vy
		vm.regV[x] = vx | vy
		if vm.quirks.VFReset {
			vm.regV[0xF] = 0
		}
	case 0x2: // AND Vx, Vy
		vm.regV[x] = vx & vy
		if vm.quirks.VFReset {
			vm.regV[0xF] = 0
		}
	case 0x3: // XOR Vx, Vy
		vm.regV[x] = vx ^ vy
		if vm.quirks.VFReset {
			vm.regV[0xF] = 0
		}
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = boolToFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		vm.regV[x] = vx - vy
		vm.regV[0xF] = boolToFlag(vx >= vy)
	case 0x6: // SHR Vx {, Vy}
		src := vx
		if vm.quirks.ShiftUsesVY {
			src = vy
		}
		vm.regV[x] = src >> 1
		vm.regV[0xF] = src & 0x01
	case 0x7: // SUBN Vx, Vy
		vm.regV[x] = vy - vx
		vm.regV[0xF] = boolToFlag(vy >= vx)
	case 0xE: // SHL Vx {, Vy}
		src := vx
		if vm.quirks.ShiftUsesVY {
			src = vy
		}
		vm.regV[x] = src << 1
		vm.regV[0xF] = src >> 7
	default:
		return StatusRunning, &UnknownOpcodeError{Opcode: in.Opcode, Address: addr}
	}
	return StatusRunning, nil
}

// executeMisc handles the FXNN family: timers, keypad wait and the
// instructions that move data between registers and memory at I.
func (vm *C8VM) executeMisc(in Instruction, addr uint16) (Status, error) {
	x := in.X

	switch in.NN {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		if !vm.waiting {
			vm.waiting = true
			vm.keyEvents = 0
		}
		key, ok := vm.nextKeyEvent()
		if !ok {
			return StatusWaitingForKey, nil
		}
		vm.regV[x] = key
		vm.waiting = false
		vm.keyEvents = 0
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		sum := vm.regI + uint16(vm.regV[x])
		if vm.quirks.IndexOverflowVF {
			vm.regV[0xF] = boolToFlag(sum > addressMask)
		}
		vm.regI = sum & addressMask
	case 0x29: // LD F, Vx
		vm.regI = FontAddr + FontSpriteSize*uint16(vm.regV[x]&0x0F)
	case 0x33: // LD B, Vx
		v := vm.regV[x]
		vm.memory[vm.regI&addressMask] = v / 100
		vm.memory[(vm.regI+1)&addressMask] = (v / 10) % 10
		vm.memory[(vm.regI+2)&addressMask] = v % 10
	case 0x55: // LD [I], Vx
		for i := uint16(0); i <= uint16(x); i++ {
			vm.memory[(vm.regI+i)&addressMask] = vm.regV[i]
		}
		if vm.quirks.LoadStoreIncrementsI {
			vm.regI = (vm.regI + uint16(x) + 1) & addressMask
		}
	case 0x65: // LD Vx, [I]
		for i := uint16(0); i <= uint16(x); i++ {
			vm.regV[i] = vm.memory[(vm.regI+i)&addressMask]
		}
		if vm.quirks.LoadStoreIncrementsI {
			vm.regI = (vm.regI + uint16(x) + 1) & addressMask
		}
	default:
		return StatusRunning, &UnknownOpcodeError{Opcode: in.Opcode, Address: addr}
	}
	return StatusRunning, nil
}
