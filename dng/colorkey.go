package dng

// ColorKey names the filter colour of a CFA plane.
type ColorKey uint8

const (
	ColorKeyRed ColorKey = iota
	ColorKeyGreen
	ColorKeyBlue
	ColorKeyCyan
	ColorKeyMagenta
	ColorKeyYellow
	ColorKeyWhite

	// ColorKeyUnknown marks a plane whose colour could not be identified.
	ColorKeyUnknown
)

func (k ColorKey) String() string {
	switch k {
	case ColorKeyRed:
		return "Red"
	case ColorKeyGreen:
		return "Green"
	case ColorKeyBlue:
		return "Blue"
	case ColorKeyCyan:
		return "Cyan"
	case ColorKeyMagenta:
		return "Magenta"
	case ColorKeyYellow:
		return "Yellow"
	case ColorKeyWhite:
		return "White"
	default:
		return "Unknown"
	}
}

// MarshalYAML emits the key by name.
func (k ColorKey) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}
