package internal

import (
	"errors"
	"fmt"
)

// Errors returned by the VM. Stack faults are fatal, see IsFatal.
var (
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrHalted          = errors.New("vm is halted")
	ErrProgramTooLarge = errors.New("program size exceeds the maximum size")
)

// UnknownOpcodeError reports an instruction word with no defined meaning. It
// is not fatal: the instruction is skipped and execution may continue.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %03X", e.Opcode, e.Address)
}

// IsFatal returns whether an error returned by Step means the VM cannot continue
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var unknown *UnknownOpcodeError
	return !errors.As(err, &unknown)
}
