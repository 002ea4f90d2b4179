package stool

import "strings"

// BristolType es la escala de consistencia de 7 puntos (1 = más duro, 4 = ideal, 7 = líquido).
type BristolType int

const (
	BristolMin   BristolType = 1
	BristolIdeal BristolType = 4
	BristolMax   BristolType = 7
)

func (b BristolType) Valid() bool {
	return b >= BristolMin && b <= BristolMax
}

type Volume string

const (
	VolumeSmall   Volume = "small"
	VolumeMedium  Volume = "medium"
	VolumeLarge   Volume = "large"
	VolumeMassive Volume = "massive"
)

type Color string

const (
	ColorBrown      Color = "brown"
	ColorDarkBrown  Color = "dark-brown"
	ColorLightBrown Color = "light-brown"
	ColorGreen      Color = "green"
	ColorYellow     Color = "yellow"
	ColorBlack      Color = "black"
	ColorRed        Color = "red"
	ColorWhite      Color = "white"
)

// Concerning indica los colores que ameritan consulta médica (negro, rojo, blanco/arcilla).
func (c Color) Concerning() bool {
	switch c {
	case ColorBlack, ColorRed, ColorWhite:
		return true
	default:
		return false
	}
}

func ParseVolume(s string) (Volume, bool) {
	v := Volume(strings.ToLower(strings.TrimSpace(s)))
	_, ok := volumeInfo[v]
	return v, ok
}

func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	_, ok := colorInfo[c]
	return c, ok
}
