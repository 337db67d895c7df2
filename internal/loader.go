package internal

import (
	"fmt"
	"os"
)

// LoadROM copies a CHIP-8 program into memory starting at 0x200 and puts
// the rest of the machine into its power-on state. A program that does not
// fit is rejected without touching the VM.
func (vm *C8VM) LoadROM(data []uint8) error {
	size := len(data)
	if size > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", ErrProgramTooLarge, size, maxProgramSize)
	}

	vm.rom = make([]uint8, size)
	copy(vm.rom, data)
	vm.loaded = true
	return vm.Reset()
}

// LoadProgram loads a given CHIP-8 program file into the VM's memory
func (vm *C8VM) LoadProgram(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return vm.LoadROM(data)
}

// Loaded returns whether a program has been loaded
func (vm *C8VM) Loaded() bool {
	return vm.loaded
}
