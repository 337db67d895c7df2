// Package inspect contains debugging helpers: a disassembly listing of
// CHIP-8 programs and a graphviz dump of the machine state.
package inspect

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/mnafees/chopper/v2/internal"
)

const programStart = 0x200

// Disassemble writes one line per instruction word of the program, as it
// would be laid out in memory. A trailing odd byte is listed on its own.
func Disassemble(w io.Writer, program []byte) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(program); i += 2 {
		addr := programStart + i
		if i+1 == len(program) {
			if _, err := fmt.Fprintf(bw, "%03X: %02X    .byte $%02X\n", addr, program[i], program[i]); err != nil {
				return err
			}
			break
		}

		word := uint16(program[i])<<8 | uint16(program[i+1])
		if _, err := fmt.Fprintf(bw, "%03X: %04X  %s\n", addr, word, internal.Decode(word)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Snapshot is the machine state written by DumpState
type Snapshot struct {
	Registers internal.State
	Quirks    internal.Quirks
	Next      string // instruction at PC
	LitPixels int
}

// TakeSnapshot captures the current state of the VM
func TakeSnapshot(vm *internal.C8VM) Snapshot {
	pixels := vm.Pixels()
	return Snapshot{
		Registers: vm.State(),
		Quirks:    vm.Quirks(),
		Next:      vm.Fetch().String(),
		LitPixels: pixels.Lit(),
	}
}

// DumpState writes a graphviz graph of the VM state to w
func DumpState(w io.Writer, vm *internal.C8VM) {
	snapshot := TakeSnapshot(vm)
	memviz.Map(w, &snapshot)
}
