package chip8vm

const (
	GfxWidth      = 64
	GfxWidthBytes = GfxWidth / 8
	GfxHeight     = 32
	SpriteWidth   = 8
)

// Graphics is the monochrome display, one bit per pixel, row-major from the
// top-left corner.
type Graphics struct {
	buffer [GfxWidthBytes * GfxHeight]uint8
	dirty  bool
}

func (g *Graphics) isDirty() bool {
	return g.dirty
}

func (g *Graphics) setDirty(dirty bool) {
	g.dirty = dirty
}

func (g *Graphics) clear() {
	for i := 0; i < len(g.buffer); i++ {
		g.buffer[i] = 0
	}
	g.dirty = true
}

func locate(x, y uint8) (offset uint, mask uint8) {
	bit := 7 - (x % 8) // bit 7 is the first pixel and so on
	return uint(x)/8 + uint(y)*GfxWidthBytes, 1 << bit
}

func (g *Graphics) getPixel(x, y uint8) bool {
	offset, mask := locate(x, y)
	return g.buffer[offset]&mask != 0
}

// flip toggles one pixel and reports whether it was on before.
func (g *Graphics) flip(x, y uint8) bool {
	offset, mask := locate(x, y)
	was := g.buffer[offset]&mask != 0
	g.buffer[offset] ^= mask
	return was
}

// draw XORs an 8-pixel-wide sprite of h rows read from mem at I onto the
// display. The origin wraps onto the screen; the sprite itself is clipped at
// the right and bottom edges. It reports whether any lit pixel was turned off.
func (g *Graphics) draw(mem *Memory, I uint16, x, y, h uint8) bool {
	hit := false
	x %= GfxWidth
	y %= GfxHeight
	for r := uint8(0); r < h; r++ {
		row := y + r
		if row >= GfxHeight {
			break
		}
		pixels := mem.readAt(I, r)
		for c := uint8(0); c < SpriteWidth; c++ {
			col := x + c
			if col >= GfxWidth {
				break
			}
			if pixels&(0x80>>c) == 0 {
				continue
			}
			if g.flip(col, row) {
				hit = true
			}
		}
	}
	g.dirty = true
	return hit
}
