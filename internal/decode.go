package internal

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction is a decoded 16-bit CHIP-8 instruction word
type Instruction struct {
	Opcode uint16 // the raw instruction word
	Family uint8  // the highest 4 bits, selects the opcode family
	X      uint8  // the lower 4 bits of the high byte
	Y      uint8  // the upper 4 bits of the low byte
	N      uint8  // the lowest 4 bits
	NN     uint8  // the lowest 8 bits
	NNN    uint16 // the lowest 12 bits
}

// Decode splits an instruction word into its fields. Every word decodes; use
// Known to find out whether it means anything.
func Decode(word uint16) Instruction {
	return Instruction{
		Opcode: word,
		Family: uint8(word >> 12),
		X:      uint8((word >> 8) & 0x000F),
		Y:      uint8((word >> 4) & 0x000F),
		N:      uint8(word & 0x000F),
		NN:     uint8(word & 0x00FF),
		NNN:    word & 0x0FFF,
	}
}

// Known returns whether the instruction belongs to the CHIP-8 instruction set
func (in Instruction) Known() bool {
	switch in.Family {
	case 0x0:
		return in.Opcode == 0x00E0 || in.Opcode == 0x00EE
	case 0x5, 0x9:
		return in.N == 0
	case 0x8:
		switch in.N {
		case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0xE:
			return true
		}
		return false
	case 0xE:
		return in.NN == 0x9E || in.NN == 0xA1
	case 0xF:
		switch in.NN {
		case 0x07, 0x0A, 0x15, 0x18, 0x1E, 0x29, 0x33, 0x55, 0x65:
			return true
		}
		return false
	}
	return true
}

// String returns the instruction in assembler notation, for example
// "drw V0, V1, $5". Unknown words are shown as data.
func (in Instruction) String() string {
	if !in.Known() {
		return fmt.Sprintf(".word $%04X", in.Opcode)
	}

	name, params := in.mnemonic()
	if params == "" {
		return name
	}
	return name + " " + params
}

func (in Instruction) mnemonic() (string, string) {
	vx := fmt.Sprintf("V%X", in.X)
	vxvy := fmt.Sprintf("V%X, V%X", in.X, in.Y)
	vxnn := fmt.Sprintf("V%X, $%02X", in.X, in.NN)
	addr := fmt.Sprintf("$%03X", in.NNN)

	switch in.Family {
	case 0x0:
		if in.Opcode == 0x00E0 {
			return chip8.ClsInst.Name, ""
		}
		return chip8.RetInst.Name, ""
	case 0x1:
		return chip8.JpInst.Name, addr
	case 0x2:
		return chip8.CallInst.Name, addr
	case 0x3:
		return chip8.SeInst.Name, vxnn
	case 0x4:
		return chip8.SneInst.Name, vxnn
	case 0x5:
		return chip8.SeInst.Name, vxvy
	case 0x6:
		return chip8.LdInst.Name, vxnn
	case 0x7:
		return chip8.AddInst.Name, vxnn
	case 0x8:
		return in.aluMnemonic(), vxvy
	case 0x9:
		return chip8.SneInst.Name, vxvy
	case 0xA:
		return chip8.LdInst.Name, "I, " + addr
	case 0xB:
		return chip8.JpInst.Name, "V0, " + addr
	case 0xC:
		return chip8.RndInst.Name, vxnn
	case 0xD:
		return chip8.DrwInst.Name, fmt.Sprintf("V%X, V%X, $%X", in.X, in.Y, in.N)
	case 0xE:
		if in.NN == 0x9E {
			return chip8.SkpInst.Name, vx
		}
		return chip8.SknpInst.Name, vx
	}

	switch in.NN {
	case 0x07:
		return chip8.LdInst.Name, vx + ", DT"
	case 0x0A:
		return chip8.LdInst.Name, vx + ", K"
	case 0x15:
		return chip8.LdInst.Name, "DT, " + vx
	case 0x18:
		return chip8.LdInst.Name, "ST, " + vx
	case 0x1E:
		return chip8.AddInst.Name, "I, " + vx
	case 0x29:
		return chip8.LdInst.Name, "F, " + vx
	case 0x33:
		return chip8.LdInst.Name, "B, " + vx
	case 0x55:
		return chip8.LdInst.Name, "[I], " + vx
	default:
		return chip8.LdInst.Name, vx + ", [I]"
	}
}

func (in Instruction) aluMnemonic() string {
	switch in.N {
	case 0x0:
		return chip8.LdInst.Name
	case 0x1:
		return chip8.OrInst.Name
	case 0x2:
		return chip8.AndInst.Name
	case 0x3:
		return chip8.XorInst.Name
	case 0x4:
		return chip8.AddInst.Name
	case 0x5:
		return chip8.SubInst.Name
	case 0x6:
		return chip8.ShrInst.Name
	case 0x7:
		return chip8.SubnInst.Name
	default:
		return chip8.ShlInst.Name
	}
}
