package internal

// Display is the 64x32 monochrome frame buffer, row-major with the origin in
// the top left corner.
type Display [ScreenHeight][ScreenWidth]bool

// Lit returns the number of pixels switched on
func (d *Display) Lit() int {
	n := 0
	for y := range d {
		for x := range d[y] {
			if d[y][x] {
				n++
			}
		}
	}
	return n
}

// Pixels returns a copy of the display
func (vm *C8VM) Pixels() Display {
	return vm.pixels
}

// Pixel returns the state of a single pixel. Coordinates wrap.
func (vm *C8VM) Pixel(x, y int) bool {
	return vm.pixels[mod(y, ScreenHeight)][mod(x, ScreenWidth)]
}

// NullifyPixels resets all pixels to off
func (vm *C8VM) NullifyPixels() {
	vm.pixels = Display{}
	vm.drawFlag = true
}

// IsDrawFlagSet returns whether the display changed since UnsetDrawFlag
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}

// drawSprite XORs an n byte sprite read from I onto the display at (x, y)
// and reports whether any lit pixel was switched off.
func (vm *C8VM) drawSprite(x, y uint8, n uint8) bool {
	x0 := int(x) % ScreenWidth
	y0 := int(y) % ScreenHeight
	collision := false

	for row := 0; row < int(n); row++ {
		py := y0 + row
		if py >= ScreenHeight {
			if vm.quirks.ClipSprites {
				break
			}
			py %= ScreenHeight
		}
		spriteByte := vm.memory[(vm.regI+uint16(row))&addressMask]
		for bit := 0; bit < 8; bit++ {
			if spriteByte&(0x80>>bit) == 0 {
				continue
			}
			px := x0 + bit
			if px >= ScreenWidth {
				if vm.quirks.ClipSprites {
					break
				}
				px %= ScreenWidth
			}
			if vm.pixels[py][px] {
				collision = true
			}
			vm.pixels[py][px] = !vm.pixels[py][px]
		}
	}
	vm.drawFlag = true
	return collision
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
