package render

import "github.com/gdamore/tcell/v2"

// Palette for the track view
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbFloor      = tcell.NewRGBColor(70, 72, 96)    // Platform surface
	RgbFloorTurn  = tcell.NewRGBColor(110, 90, 140)  // Curved platform surface
	RgbRunner     = tcell.NewRGBColor(255, 165, 0)   // Orange runner
	RgbRunnerAir  = tcell.NewRGBColor(255, 220, 120) // Runner while airborne
	RgbCoin       = tcell.NewRGBColor(255, 255, 0)   // Bright yellow
	RgbBarrier    = tcell.NewRGBColor(255, 80, 80)   // Jumpable, red
	RgbBeam       = tcell.NewRGBColor(100, 150, 255) // Slide-under, blue
	RgbBlock      = tcell.NewRGBColor(200, 50, 50)   // Dodge only, dark red
	RgbObstacle   = tcell.NewRGBColor(180, 180, 180) // Unknown prototype

	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
	RgbScoreBg    = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbPausedBg   = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbOverBg     = tcell.NewRGBColor(200, 50, 50)   // Red for game over
)

// obstacleLook returns the glyph and color of an obstacle prototype
func obstacleLook(kind string) (rune, tcell.Color) {
	switch kind {
	case "barrier":
		return '=', RgbBarrier
	case "beam":
		return '~', RgbBeam
	case "block":
		return '#', RgbBlock
	default:
		return '?', RgbObstacle
	}
}
