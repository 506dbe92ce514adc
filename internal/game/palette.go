package game

import "image/color"

// levelColors is indexed by (level-1) modulo its length.
var levelColors = []color.RGBA{
	hexRGB(0xe0e0e0), hexRGB(0xffd700), hexRGB(0xff6b6b), hexRGB(0x4ecdc4),
	hexRGB(0x45b7d1), hexRGB(0x96ceb4), hexRGB(0xfeca57), hexRGB(0xff9ff3),
	hexRGB(0x54a0ff), hexRGB(0x5f27cd), hexRGB(0x00d2d3), hexRGB(0xff9f43),
	hexRGB(0xa55eea), hexRGB(0x26de81), hexRGB(0xfd79a8), hexRGB(0xfdcb6e),
	hexRGB(0x6c5ce7), hexRGB(0xa29bfe), hexRGB(0xfd79a8), hexRGB(0x00b894),
}

var (
	testBallColor     = hexRGB(0xff6b6b)
	traveledBallColor = hexRGB(0x000000)
)

func hexRGB(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// LevelColor returns the display colour of a ball of the given level.
// Levels below 1 are treated as 1.
func LevelColor(level int) color.RGBA {
	if level < 1 {
		level = 1
	}
	return levelColors[(level-1)%len(levelColors)]
}
