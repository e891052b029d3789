package config

import "image/color"

// Palette
var (
	Purple500 = color.RGBA{R: 0x79, G: 0x0E, B: 0xCB, A: 0xFF}
	Purple300 = color.RGBA{R: 0xA8, G: 0x55, B: 0xF7, A: 0xFF}
	White     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Gold      = color.RGBA{R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}
	Prey300   = color.RGBA{R: 0x9C, G: 0xA3, B: 0xAF, A: 0xFF}
	Black900  = color.RGBA{R: 0x0A, G: 0x0A, B: 0x0A, A: 0xFF}
	KillGreen = color.RGBA{R: 0x4A, G: 0xDE, B: 0x80, A: 0xFF}
	HitRed    = color.RGBA{R: 0xFF, G: 0x44, B: 0x44, A: 0xFF}
)
