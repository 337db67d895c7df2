package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"errors"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	addressMask    = totalMemory - 1
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	stackDepth     = 16

	// FontAddr is where the built-in hexadecimal digit sprites live
	FontAddr = 0x050
	// FontSpriteSize is the number of bytes in a single digit sprite
	FontSpriteSize = 5

	TimerFrequency = 60
	ScreenWidth    = 64
	ScreenHeight   = 32
)

// Status describes what a call to Step left the VM doing
type Status int

// List of valid Status values
const (
	StatusRunning Status = iota
	StatusWaitingForKey
	StatusHalted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusWaitingForKey:
		return "waiting for key"
	case StatusHalted:
		return "halted"
	}
	return "unknown"
}

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	regV       [16]uint8          // 16 general purpose 8-bit registers
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	sp         uint8              // Stack pointer
	stack      [stackDepth]uint16 // A stack of 16 16-bit values
	memory     [totalMemory]uint8 // 4 KB global memory

	// 64 px x 32 px display
	pixels   Display
	drawFlag bool // Display changed since the frontend last looked

	// A 16-bit integer to hold the current key values in the form of individual bits.
	// So when 0 is pushed in the keypad, the 0'th bit will be set and so on.
	key uint16
	// released to pressed transitions seen while FX0A is pending
	keyEvents uint16

	waiting bool // FX0A is pending
	halted  bool // a fatal fault stopped execution

	quirks Quirks
	rnd    Random

	rom    []uint8 // copy of the loaded program, used by Reset
	loaded bool
}

var fontset = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Option configures a VM at construction time
type Option func(*C8VM) error

// WithQuirks selects the behaviour of the opcodes that historical interpreters disagree on
func WithQuirks(q Quirks) Option {
	return func(vm *C8VM) error {
		vm.quirks = q
		return nil
	}
}

// WithRandom replaces the random byte source used by CXNN
func WithRandom(r Random) Option {
	return func(vm *C8VM) error {
		if r == nil {
			return errors.New("random source must not be nil")
		}
		vm.rnd = r
		return nil
	}
}

// WithSeed makes CXNN produce a repeatable sequence
func WithSeed(seed int64) Option {
	return func(vm *C8VM) error {
		vm.rnd = NewSeededRandom(seed)
		return nil
	}
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) (*C8VM, error) {
	vm := &C8VM{
		quirks: ModernQuirks(),
	}
	for _, opt := range opts {
		if err := opt(vm); err != nil {
			return nil, err
		}
	}
	if vm.rnd == nil {
		vm.rnd = NewRandom()
	}
	if err := vm.powerOn(); err != nil {
		return nil, err
	}
	return vm, nil
}

// powerOn puts every piece of machine state into its initial condition. The
// random source and quirks survive.
func (vm *C8VM) powerOn() error {
	vm.regV = [16]uint8{}
	vm.regI = 0
	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [stackDepth]uint16{}
	vm.memory = [totalMemory]uint8{}
	vm.pixels = Display{}
	vm.drawFlag = true
	vm.key = 0
	vm.keyEvents = 0
	vm.waiting = false
	vm.halted = false

	if copy(vm.memory[FontAddr:], fontset) != len(fontset) {
		return errors.New("error copying fontset data to memory")
	}
	return nil
}

// Reset returns the VM to its power-on state. A previously loaded program is
// copied back into memory so it can be run again from the start.
func (vm *C8VM) Reset() error {
	if err := vm.powerOn(); err != nil {
		return err
	}
	if vm.loaded {
		copy(vm.memory[pcStartAddr:], vm.rom)
	}
	return nil
}

// Quirks returns the quirk settings the VM was built with
func (vm *C8VM) Quirks() Quirks {
	return vm.quirks
}

// Halted returns whether a fatal fault has stopped the VM
func (vm *C8VM) Halted() bool {
	return vm.halted
}

// Waiting returns whether the VM is blocked on FX0A
func (vm *C8VM) Waiting() bool {
	return vm.waiting
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// SoundActive returns whether the host should currently be emitting a tone
func (vm *C8VM) SoundActive() bool {
	return vm.soundTimer != 0
}

// TickTimers decrements both timers by one if they are nonzero. It is called
// by the host at TimerFrequency, never by instruction execution.
func (vm *C8VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// State is a snapshot of the CPU registers
type State struct {
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      []uint16
	DelayTimer uint8
	SoundTimer uint8
	Waiting    bool
	Halted     bool
}

// State returns a copy of the register file. Only the occupied part of the
// stack is included.
func (vm *C8VM) State() State {
	stack := make([]uint16, vm.sp)
	copy(stack, vm.stack[:vm.sp])
	return State{
		V:          vm.regV,
		I:          vm.regI,
		PC:         vm.pc,
		SP:         vm.sp,
		Stack:      stack,
		DelayTimer: vm.delayTimer,
		SoundTimer: vm.soundTimer,
		Waiting:    vm.waiting,
		Halted:     vm.halted,
	}
}

// V returns the value of register Vx
func (vm *C8VM) V(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// I returns the value of the index register
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// PC returns the program counter
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// Read returns the byte at addr. The address wraps within the 4 KB space.
func (vm *C8VM) Read(addr uint16) uint8 {
	return vm.memory[addr&addressMask]
}

// Memory returns a copy of the whole address space
func (vm *C8VM) Memory() []uint8 {
	mem := make([]uint8, totalMemory)
	copy(mem, vm.memory[:])
	return mem
}
