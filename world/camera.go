package world

// Camera maps y-up world units onto screen pixels.
type Camera struct {
	X, Y          float64
	PixelsPerUnit float64
	Width, Height int
}

// DefaultCamera centers the origin of a 1024x768 view at 32 pixels per unit.
func DefaultCamera() Camera {
	return Camera{PixelsPerUnit: 32, Width: 1024, Height: 768}
}

// ToScreen converts world coordinates to screen pixels.
func (c Camera) ToScreen(x, y float64) (float32, float32) {
	ppu := c.PixelsPerUnit
	if ppu <= 0 {
		ppu = 1
	}
	sx := float64(c.Width)/2 + (x-c.X)*ppu
	sy := float64(c.Height)/2 - (y-c.Y)*ppu
	return float32(sx), float32(sy)
}

// Scale converts a world length to pixels.
func (c Camera) Scale(length float64) float32 {
	ppu := c.PixelsPerUnit
	if ppu <= 0 {
		ppu = 1
	}
	return float32(length * ppu)
}
