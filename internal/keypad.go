package internal

// NumKeys is the number of keys on the hexadecimal keypad
const NumKeys = 16

// SetKey records the state of a keypad key. Keys outside 0x0-0xF are ignored.
// Pressing a released key while FX0A is pending counts as a key press event.
func (vm *C8VM) SetKey(code uint8, pressed bool) {
	if code >= NumKeys {
		return
	}
	mask := uint16(1) << code
	if pressed {
		if vm.key&mask == 0 && vm.waiting {
			vm.keyEvents |= mask
		}
		vm.key |= mask
	} else {
		vm.key &^= mask
	}
}

// SetKeymask sets the respective bit in the key
func (vm *C8VM) SetKeymask(code uint8) {
	vm.SetKey(code, true)
}

// UnsetKeymask unsets the respective bit in the key
func (vm *C8VM) UnsetKeymask(code uint8) {
	vm.SetKey(code, false)
}

// IsKeyPressed returns whether a keypad key is currently held. Only the low
// nibble of code is used, which is how EX9E and EXA1 see VX.
func (vm *C8VM) IsKeyPressed(code uint8) bool {
	mask := uint16(1) << (code & 0xF)
	return vm.key&mask == mask
}

// nextKeyEvent returns the lowest key pressed since FX0A began waiting
func (vm *C8VM) nextKeyEvent() (uint8, bool) {
	for k := uint8(0); k < NumKeys; k++ {
		if vm.keyEvents&(1<<k) != 0 {
			return k, true
		}
	}
	return 0, false
}
