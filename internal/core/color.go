package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)

// ParseColor maps a config color name to a Color.
// Unknown names map to ColorDefault.
func ParseColor(name string) Color {
	switch name {
	case "red":
		return ColorRed
	case "green":
		return ColorGreen
	case "yellow":
		return ColorYellow
	case "blue":
		return ColorBlue
	case "magenta", "purple":
		return ColorMagenta
	case "cyan":
		return ColorCyan
	case "white":
		return ColorWhite
	case "bright_red":
		return ColorBrightRed
	case "bright_green":
		return ColorBrightGreen
	case "bright_yellow":
		return ColorBrightYellow
	case "orange":
		return ColorOrange
	case "gray", "grey":
		return ColorGray
	default:
		return ColorDefault
	}
}
