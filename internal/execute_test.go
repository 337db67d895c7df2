package internal

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// exec runs a single instruction word placed at 0x200
func exec(t *testing.T, vm *C8VM, opcode uint16) (Status, error) {
	t.Helper()

	vm.pc = 0x200
	vm.memory[0x200] = uint8(opcode >> 8)
	vm.memory[0x201] = uint8(opcode)
	return vm.Step()
}

func newBareVM(t *testing.T, opts ...Option) *C8VM {
	t.Helper()

	vm, err := NewC8VM(opts...)
	assert.NoError(t, err)
	return vm
}

func TestLoadImmediate(t *testing.T) {
	vm := newBareVM(t)
	for x := uint16(0); x < 16; x++ {
		for nn := uint16(0); nn < 256; nn += 17 {
			_, err := exec(t, vm, 0x6000|x<<8|nn)
			assert.NoError(t, err)
			assert.Equal(t, uint8(nn), vm.V(uint8(x)))
			assert.Equal(t, uint16(0x202), vm.PC())
		}
	}
}

func TestAddImmediateWraps(t *testing.T) {
	vm := newTestVM(t, []uint8{0x60, 0xFF, 0x70, 0x01})
	vm.regV[0xF] = 0x42
	step(t, vm, 2)
	assert.Equal(t, uint8(0x00), vm.V(0))
	assert.Equal(t, uint8(0x42), vm.V(0xF))
}

func TestAddRegisters(t *testing.T) {
	vm := newBareVM(t)
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			vm.regV[1] = uint8(a)
			vm.regV[2] = uint8(b)
			_, err := exec(t, vm, 0x8124)
			assert.NoError(t, err)
			if vm.regV[1] != uint8((a+b)%256) {
				t.Fatalf("%d + %d = %d", a, b, vm.regV[1])
			}
			if vm.regV[0xF] != boolToFlag(a+b >= 256) {
				t.Fatalf("%d + %d carry = %d", a, b, vm.regV[0xF])
			}
		}
	}
}

func TestSubRegisters(t *testing.T) {
	vm := newBareVM(t)
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			vm.regV[1] = uint8(a)
			vm.regV[2] = uint8(b)
			_, err := exec(t, vm, 0x8125)
			assert.NoError(t, err)
			if vm.regV[1] != uint8((a-b+256)%256) {
				t.Fatalf("%d - %d = %d", a, b, vm.regV[1])
			}
			if vm.regV[0xF] != boolToFlag(a >= b) {
				t.Fatalf("%d - %d no borrow = %d", a, b, vm.regV[0xF])
			}

			vm.regV[1] = uint8(a)
			vm.regV[2] = uint8(b)
			_, err = exec(t, vm, 0x8127)
			assert.NoError(t, err)
			if vm.regV[1] != uint8((b-a+256)%256) {
				t.Fatalf("%d subn %d = %d", a, b, vm.regV[1])
			}
			if vm.regV[0xF] != boolToFlag(b >= a) {
				t.Fatalf("%d subn %d no borrow = %d", a, b, vm.regV[0xF])
			}
		}
	}
}

func TestFlagRegisterAsOperand(t *testing.T) {
	t.Run("add into VF keeps the carry", func(t *testing.T) {
		vm := newBareVM(t)
		vm.regV[0xF] = 0xFF
		vm.regV[1] = 0x02
		_, err := exec(t, vm, 0x8F14)
		assert.NoError(t, err)
		assert.Equal(t, uint8(1), vm.V(0xF))
	})

	t.Run("add VF as source uses its old value", func(t *testing.T) {
		vm := newBareVM(t)
		vm.regV[0xF] = 0x10
		vm.regV[1] = 0x01
		_, err := exec(t, vm, 0x81F4)
		assert.NoError(t, err)
		assert.Equal(t, uint8(0x11), vm.V(1))
		assert.Equal(t, uint8(0), vm.V(0xF))
	})

	t.Run("sub into VF keeps the flag", func(t *testing.T) {
		vm := newBareVM(t)
		vm.regV[0xF] = 0x01
		vm.regV[1] = 0x05
		_, err := exec(t, vm, 0x8F15)
		assert.NoError(t, err)
		assert.Equal(t, uint8(0), vm.V(0xF))
	})

	t.Run("shift VF keeps the shifted out bit", func(t *testing.T) {
		vm := newBareVM(t)
		vm.regV[0xF] = 0x81
		_, err := exec(t, vm, 0x8F06)
		assert.NoError(t, err)
		assert.Equal(t, uint8(1), vm.V(0xF))

		vm.regV[0xF] = 0x81
		_, err = exec(t, vm, 0x8F0E)
		assert.NoError(t, err)
		assert.Equal(t, uint8(1), vm.V(0xF))
	})
}

func TestLogicOps(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		want   uint8
	}{
		{"ld", 0x8120, 0x0F},
		{"or", 0x8121, 0x3F},
		{"and", 0x8122, 0x0C},
		{"xor", 0x8123, 0x33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newBareVM(t)
			vm.regV[1] = 0x3C
			vm.regV[2] = 0x0F
			vm.regV[0xF] = 0x07
			_, err := exec(t, vm, tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, vm.V(1))
			assert.Equal(t, uint8(0x07), vm.V(0xF))

			cosmac := newBareVM(t, WithQuirks(Quirks{VFReset: true}))
			cosmac.regV[1] = 0x3C
			cosmac.regV[2] = 0x0F
			cosmac.regV[0xF] = 0x07
			_, err = exec(t, cosmac, tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, cosmac.V(1))
			if tt.opcode&0xF != 0 {
				assert.Equal(t, uint8(0), cosmac.V(0xF))
			}
		})
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		name   string
		quirks Quirks
		opcode uint16
		vx, vy uint8
		want   uint8
		flag   uint8
	}{
		{"shr vx", ModernQuirks(), 0x8126, 0x05, 0xF0, 0x02, 1},
		{"shr vx even", ModernQuirks(), 0x8126, 0x04, 0xF1, 0x02, 0},
		{"shl vx", ModernQuirks(), 0x812E, 0x81, 0x00, 0x02, 1},
		{"shl vx no carry", ModernQuirks(), 0x812E, 0x41, 0xFF, 0x82, 0},
		{"shr vy", Quirks{ShiftUsesVY: true}, 0x8126, 0x05, 0xF0, 0x78, 0},
		{"shl vy", Quirks{ShiftUsesVY: true}, 0x812E, 0x00, 0xC0, 0x80, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newBareVM(t, WithQuirks(tt.quirks))
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			_, err := exec(t, vm, tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, vm.V(1))
			assert.Equal(t, tt.flag, vm.V(0xF))
		})
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		vx, vy uint8
		skip   bool
	}{
		{"se nn equal", 0x3142, 0x42, 0, true},
		{"se nn differ", 0x3142, 0x41, 0, false},
		{"sne nn equal", 0x4142, 0x42, 0, false},
		{"sne nn differ", 0x4142, 0x41, 0, true},
		{"se vy equal", 0x5120, 0x10, 0x10, true},
		{"se vy differ", 0x5120, 0x10, 0x11, false},
		{"sne vy equal", 0x9120, 0x10, 0x10, false},
		{"sne vy differ", 0x9120, 0x10, 0x11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := newBareVM(t)
			vm.regV[1] = tt.vx
			vm.regV[2] = tt.vy
			_, err := exec(t, vm, tt.opcode)
			assert.NoError(t, err)
			if tt.skip {
				assert.Equal(t, uint16(0x204), vm.PC())
			} else {
				assert.Equal(t, uint16(0x202), vm.PC())
			}
		})
	}
}

func TestKeySkips(t *testing.T) {
	vm := newBareVM(t)
	vm.regV[3] = 0xB

	_, err := exec(t, vm, 0xE39E)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), vm.PC())
	_, err = exec(t, vm, 0xE3A1)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x204), vm.PC())

	vm.SetKey(0xB, true)
	_, err = exec(t, vm, 0xE39E)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x204), vm.PC())
	_, err = exec(t, vm, 0xE3A1)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x202), vm.PC())
}

func TestJumps(t *testing.T) {
	vm := newBareVM(t)
	_, err := exec(t, vm, 0x1ABC)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xABC), vm.PC())

	vm.regV[0] = 0x10
	vm.regV[2] = 0x20
	_, err = exec(t, vm, 0xB234)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x244), vm.PC())

	vm.regV[0] = 0xFF
	_, err = exec(t, vm, 0xBFFF)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0FE), vm.PC())

	bxnn := newBareVM(t, WithQuirks(Quirks{JumpUsesVX: true}))
	bxnn.regV[0] = 0x10
	bxnn.regV[2] = 0x20
	_, err = exec(t, bxnn, 0xB234)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x254), bxnn.PC())
}

func TestCallReturn(t *testing.T) {
	// 0x200: call 0x206; 0x202: ld V1, 1; 0x204: jp 0x204; 0x206: ld V0, 7; 0x208: ret
	vm := newTestVM(t, []uint8{0x22, 0x06, 0x61, 0x01, 0x12, 0x04, 0x60, 0x07, 0x00, 0xEE})

	step(t, vm, 1)
	assert.Equal(t, uint16(0x206), vm.PC())
	stack := vm.State().Stack
	assert.Len(t, stack, 1)
	assert.Equal(t, uint16(0x202), stack[0])

	step(t, vm, 2)
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.Equal(t, uint8(0), vm.State().SP)
	assert.Equal(t, uint8(7), vm.V(0))

	step(t, vm, 1)
	assert.Equal(t, uint8(1), vm.V(1))
}

func TestStackOverflow(t *testing.T) {
	// call 0x200 forever
	vm := newTestVM(t, []uint8{0x22, 0x00})
	step(t, vm, 16)
	before := vm.State()
	assert.Equal(t, uint8(16), before.SP)

	status, err := vm.Step()
	assert.Equal(t, StatusHalted, status)
	assert.True(t, errors.Is(err, ErrStackOverflow))
	assert.True(t, IsFatal(err))

	after := vm.State()
	assert.Equal(t, uint8(16), after.SP)
	assert.Equal(t, uint16(0x200), after.PC)
	for i, addr := range after.Stack {
		assert.Equal(t, uint16(0x202), addr, "stack entry %d", i)
	}
	assert.True(t, vm.Halted())

	status, err = vm.Step()
	assert.Equal(t, StatusHalted, status)
	assert.True(t, errors.Is(err, ErrHalted))

	assert.NoError(t, vm.Reset())
	assert.False(t, vm.Halted())
	step(t, vm, 1)
}

func TestStackUnderflow(t *testing.T) {
	vm := newTestVM(t, []uint8{0x00, 0xEE})
	status, err := vm.Step()
	assert.Equal(t, StatusHalted, status)
	assert.True(t, errors.Is(err, ErrStackUnderflow))
	assert.Equal(t, uint16(0x200), vm.PC())
}

func TestUnknownOpcode(t *testing.T) {
	for _, opcode := range []uint16{0x0000, 0x0123, 0x5121, 0x8128, 0x912A, 0xE1FF, 0xF1FF} {
		vm := newBareVM(t)
		vm.regV[1] = 0x33
		status, err := exec(t, vm, opcode)
		assert.Equal(t, StatusRunning, status)

		var unknown *UnknownOpcodeError
		assert.True(t, errors.As(err, &unknown), "opcode %04X", opcode)
		assert.Equal(t, opcode, unknown.Opcode)
		assert.Equal(t, uint16(0x200), unknown.Address)
		assert.False(t, IsFatal(err))
		assert.Equal(t, uint16(0x202), vm.PC())
		assert.Equal(t, uint8(0x33), vm.V(1))
		assert.False(t, vm.Halted())
	}
}

func TestIndexOps(t *testing.T) {
	vm := newBareVM(t)
	_, err := exec(t, vm, 0xA123)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x123), vm.I())

	vm.regV[4] = 0x10
	_, err = exec(t, vm, 0xF41E)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x133), vm.I())

	vm.regI = 0xFFF
	vm.regV[4] = 0x02
	vm.regV[0xF] = 0x09
	_, err = exec(t, vm, 0xF41E)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x001), vm.I())
	assert.Equal(t, uint8(0x09), vm.V(0xF))

	amiga := newBareVM(t, WithQuirks(Quirks{IndexOverflowVF: true}))
	amiga.regI = 0xFFF
	amiga.regV[4] = 0x02
	_, err = exec(t, amiga, 0xF41E)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x001), amiga.I())
	assert.Equal(t, uint8(1), amiga.V(0xF))

	amiga.regI = 0x100
	_, err = exec(t, amiga, 0xF41E)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), amiga.V(0xF))
}

func TestFontAddress(t *testing.T) {
	vm := newBareVM(t)
	for digit := uint8(0); digit < 16; digit++ {
		vm.regV[2] = digit
		_, err := exec(t, vm, 0xF229)
		assert.NoError(t, err)
		assert.Equal(t, uint16(FontAddr)+uint16(digit)*5, vm.I())
		assert.Equal(t, fontset[digit*5], vm.Read(vm.I()))
	}

	vm.regV[2] = 0x1A
	_, err := exec(t, vm, 0xF229)
	assert.NoError(t, err)
	assert.Equal(t, uint16(FontAddr)+0xA*5, vm.I())
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value   uint8
		digits  [3]uint8
		address uint16
	}{
		{0, [3]uint8{0, 0, 0}, 0x300},
		{7, [3]uint8{0, 0, 7}, 0x300},
		{42, [3]uint8{0, 4, 2}, 0x300},
		{255, [3]uint8{2, 5, 5}, 0x300},
		{128, [3]uint8{1, 2, 8}, 0xFFE},
	}

	for _, tt := range tests {
		vm := newBareVM(t)
		vm.regV[5] = tt.value
		vm.regI = tt.address
		_, err := exec(t, vm, 0xF533)
		assert.NoError(t, err)
		for i, d := range tt.digits {
			assert.Equal(t, d, vm.Read(tt.address+uint16(i)), "digit %d of %d", i, tt.value)
		}
		assert.Equal(t, tt.address, vm.I())
	}
}

func TestStoreLoadRegisters(t *testing.T) {
	vm := newBareVM(t)
	for i := range vm.regV {
		vm.regV[i] = uint8(0xA0 + i)
	}
	vm.regI = 0x300

	_, err := exec(t, vm, 0xF355)
	assert.NoError(t, err)
	for i := uint16(0); i < 4; i++ {
		assert.Equal(t, uint8(0xA0+i), vm.Read(0x300+i))
	}
	assert.Equal(t, uint8(0), vm.Read(0x304))
	assert.Equal(t, uint16(0x300), vm.I())

	vm.regV = [16]uint8{}
	_, err = exec(t, vm, 0xF265)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xA0), vm.V(0))
	assert.Equal(t, uint8(0xA1), vm.V(1))
	assert.Equal(t, uint8(0xA2), vm.V(2))
	assert.Equal(t, uint8(0), vm.V(3))
	assert.Equal(t, uint16(0x300), vm.I())

	cosmac := newBareVM(t, WithQuirks(Quirks{LoadStoreIncrementsI: true}))
	cosmac.regI = 0x300
	_, err = exec(t, cosmac, 0xF355)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x304), cosmac.I())
	_, err = exec(t, cosmac, 0xF065)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x305), cosmac.I())
}

func TestStoreWrapsAddressSpace(t *testing.T) {
	vm := newBareVM(t)
	vm.regV[0] = 0x11
	vm.regV[1] = 0x22
	vm.regI = 0xFFF
	_, err := exec(t, vm, 0xF155)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x11), vm.Read(0xFFF))
	assert.Equal(t, uint8(0x22), vm.Read(0x000))
}

func TestTimerOps(t *testing.T) {
	vm := newBareVM(t)
	vm.regV[1] = 30
	_, err := exec(t, vm, 0xF115)
	assert.NoError(t, err)
	_, err = exec(t, vm, 0xF118)
	assert.NoError(t, err)
	assert.Equal(t, uint8(30), vm.DelayTimer())
	assert.Equal(t, uint8(30), vm.SoundTimer())

	vm.TickTimers()
	_, err = exec(t, vm, 0xF207)
	assert.NoError(t, err)
	assert.Equal(t, uint8(29), vm.V(2))
}

func TestRandom(t *testing.T) {
	vm := newBareVM(t, WithRandom(fixedRandom(0xAB)))
	_, err := exec(t, vm, 0xC30F)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x0B), vm.V(3))

	_, err = exec(t, vm, 0xC300)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), vm.V(3))

	a := newBareVM(t, WithSeed(7))
	b := newBareVM(t, WithSeed(7))
	for i := 0; i < 20; i++ {
		_, err = exec(t, a, 0xC0FF)
		assert.NoError(t, err)
		_, err = exec(t, b, 0xC0FF)
		assert.NoError(t, err)
		assert.Equal(t, a.V(0), b.V(0))
	}
}

func TestWaitForKey(t *testing.T) {
	// ld V4, K; ld V5, 1
	vm := newTestVM(t, []uint8{0xF4, 0x0A, 0x65, 0x01})

	status, err := vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusWaitingForKey, status)
	assert.Equal(t, uint16(0x200), vm.PC())
	assert.True(t, vm.Waiting())

	status, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusWaitingForKey, status)
	assert.Equal(t, uint16(0x200), vm.PC())

	vm.SetKey(0x9, true)
	vm.SetKey(0x7, true)
	status, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, uint8(0x7), vm.V(4))
	assert.Equal(t, uint16(0x202), vm.PC())
	assert.False(t, vm.Waiting())

	step(t, vm, 1)
	assert.Equal(t, uint8(1), vm.V(5))
}

func TestWaitForKeyNeedsNewPress(t *testing.T) {
	vm := newTestVM(t, []uint8{0xF0, 0x0A})
	vm.SetKey(0x3, true)

	status, err := vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusWaitingForKey, status)

	// still held from before the wait started
	vm.SetKey(0x3, true)
	status, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusWaitingForKey, status)

	vm.SetKey(0x3, false)
	vm.SetKey(0x3, true)
	status, err = vm.Step()
	assert.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
	assert.Equal(t, uint8(0x3), vm.V(0))
}

func TestDraw(t *testing.T) {
	vm := newBareVM(t)
	vm.regI = 0x300
	vm.memory[0x300] = 0xF0
	vm.memory[0x301] = 0x90
	vm.regV[0] = 2
	vm.regV[1] = 3

	_, err := exec(t, vm, 0xD012)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), vm.V(0xF))
	assert.True(t, vm.IsDrawFlagSet())
	for x := 2; x < 6; x++ {
		assert.True(t, vm.Pixel(x, 3))
	}
	assert.True(t, vm.Pixel(2, 4))
	assert.False(t, vm.Pixel(3, 4))
	assert.True(t, vm.Pixel(5, 4))
	assert.Equal(t, 6, vm.pixels.Lit())
}

func TestDrawTwiceRestoresDisplay(t *testing.T) {
	vm := newBareVM(t)
	vm.regI = 0x300
	vm.memory[0x300] = 0x3C
	vm.memory[0x301] = 0xFF
	vm.memory[0x302] = 0x81
	vm.regV[0] = 10
	vm.regV[1] = 20

	// something already on screen that overlaps the sprite
	vm.pixels[21][10] = true
	vm.pixels[0][0] = true
	before := vm.Pixels()

	_, err := exec(t, vm, 0xD013)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), vm.V(0xF))

	_, err = exec(t, vm, 0xD013)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), vm.V(0xF))
	assert.Equal(t, before, vm.Pixels())

	blank := newBareVM(t)
	blank.regI = 0x300
	blank.memory[0x300] = 0x3C
	_, err = exec(t, blank, 0xD011)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), blank.V(0xF))
	_, err = exec(t, blank, 0xD011)
	assert.NoError(t, err)
	assert.Equal(t, uint8(1), blank.V(0xF))
	assert.Equal(t, 0, blank.pixels.Lit())
}

func TestDrawWrapsAndClips(t *testing.T) {
	vm := newBareVM(t)
	vm.regI = 0x300
	vm.memory[0x300] = 0xFF
	vm.memory[0x301] = 0xFF
	vm.regV[0] = 60 + ScreenWidth
	vm.regV[1] = 31 + ScreenHeight

	_, err := exec(t, vm, 0xD012)
	assert.NoError(t, err)
	assert.True(t, vm.Pixel(63, 31))
	assert.True(t, vm.Pixel(0, 31))
	assert.True(t, vm.Pixel(3, 31))
	assert.False(t, vm.Pixel(4, 31))
	assert.True(t, vm.Pixel(60, 0))
	assert.True(t, vm.Pixel(3, 0))
	assert.Equal(t, 16, vm.pixels.Lit())

	clip := newBareVM(t, WithQuirks(Quirks{ClipSprites: true}))
	clip.regI = 0x300
	clip.memory[0x300] = 0xFF
	clip.memory[0x301] = 0xFF
	clip.regV[0] = 60
	clip.regV[1] = 31
	_, err = exec(t, clip, 0xD012)
	assert.NoError(t, err)
	assert.True(t, clip.Pixel(63, 31))
	assert.False(t, clip.Pixel(0, 31))
	assert.False(t, clip.Pixel(60, 0))
	assert.Equal(t, 4, clip.pixels.Lit())
}

func TestDrawCollisionWithVFCoordinates(t *testing.T) {
	vm := newBareVM(t)
	vm.regI = 0x300
	vm.memory[0x300] = 0x80
	vm.regV[0xF] = 5
	vm.regV[1] = 6

	_, err := exec(t, vm, 0xDF11)
	assert.NoError(t, err)
	assert.True(t, vm.Pixel(5, 6))
	assert.Equal(t, uint8(0), vm.V(0xF))
}

func TestClearScreen(t *testing.T) {
	// draw the font sprites for 0 to 7 across the screen, then cls
	rom := []uint8{}
	for d := uint8(0); d < 8; d++ {
		rom = append(rom,
			0x60, d, // ld V0, d
			0xF0, 0x29, // ld F, V0
			0x61, d*8, // ld V1, d*8
			0xD1, 0x15, // drw V1, V1, 5
		)
	}
	rom = append(rom, 0x00, 0xE0)
	vm := newTestVM(t, rom)

	step(t, vm, 32)
	assert.True(t, vm.pixels.Lit() > 0)
	vm.UnsetDrawFlag()

	step(t, vm, 1)
	assert.Equal(t, 0, vm.pixels.Lit())
	assert.Equal(t, Display{}, vm.Pixels())
	assert.True(t, vm.IsDrawFlagSet())
}

func TestAddProgram(t *testing.T) {
	vm := newTestVM(t, []uint8{0x60, 0x05, 0x61, 0x03, 0x80, 0x14, 0x00, 0x00})
	step(t, vm, 3)
	assert.Equal(t, uint8(8), vm.V(0))
	assert.Equal(t, uint8(0), vm.V(0xF))
	assert.Equal(t, uint16(0x206), vm.PC())

	status, err := vm.Step()
	assert.Equal(t, StatusRunning, status)
	assert.False(t, IsFatal(err))
	assert.Error(t, err)
}

func TestPCWrapsAtEndOfMemory(t *testing.T) {
	vm := newBareVM(t)
	vm.pc = 0xFFE
	vm.memory[0xFFE] = 0x60
	vm.memory[0xFFF] = 0x2A
	step(t, vm, 1)
	assert.Equal(t, uint8(0x2A), vm.V(0))
	assert.Equal(t, uint16(0x000), vm.PC())
}
