package stool

// BristolInfo describe un tipo de la escala para la UI.
type BristolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

type VolumeInfo struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type ColorInfo struct {
	Name    string `json:"name"`
	Hex     string `json:"hex"`
	Warning string `json:"warning,omitempty"`
}

var bristolInfo = map[BristolType]BristolInfo{
	1: {Name: "Severe Constipation", Description: "Separate hard lumps", Emoji: "🪨"},
	2: {Name: "Mild Constipation", Description: "Lumpy and sausage-like", Emoji: "🥜"},
	3: {Name: "Normal", Description: "Sausage with cracks", Emoji: "🌭"},
	4: {Name: "Ideal", Description: "Smooth, soft sausage", Emoji: "✨"},
	5: {Name: "Lacking Fiber", Description: "Soft blobs with clear edges", Emoji: "☁️"},
	6: {Name: "Mild Diarrhea", Description: "Mushy with ragged edges", Emoji: "💨"},
	7: {Name: "Severe Diarrhea", Description: "Liquid, no solid pieces", Emoji: "💦"},
}

var volumeInfo = map[Volume]VolumeInfo{
	VolumeSmall:   {Name: "Small", Emoji: "🫘"},
	VolumeMedium:  {Name: "Medium", Emoji: "🥔"},
	VolumeLarge:   {Name: "Large", Emoji: "🥖"},
	VolumeMassive: {Name: "Massive", Emoji: "🪵"},
}

var colorInfo = map[Color]ColorInfo{
	ColorBrown:      {Name: "Brown", Hex: "#8B4513"},
	ColorDarkBrown:  {Name: "Dark Brown", Hex: "#5C4033"},
	ColorLightBrown: {Name: "Light Brown", Hex: "#C4A484"},
	ColorGreen:      {Name: "Green", Hex: "#556B2F", Warning: "May indicate rapid digestion or leafy greens"},
	ColorYellow:     {Name: "Yellow", Hex: "#DAA520", Warning: "May indicate fat malabsorption"},
	ColorBlack:      {Name: "Black", Hex: "#1a1a1a", Warning: "Seek medical attention - may indicate bleeding"},
	ColorRed:        {Name: "Red", Hex: "#8B0000", Warning: "Seek medical attention - may indicate bleeding"},
	ColorWhite:      {Name: "White/Clay", Hex: "#F5F5DC", Warning: "Seek medical attention - may indicate bile duct issue"},
}

// DescribeBristol devuelve la descripción del tipo; ok=false si está fuera de la escala.
func DescribeBristol(b BristolType) (BristolInfo, bool) {
	info, ok := bristolInfo[b]
	return info, ok
}

func DescribeVolume(v Volume) (VolumeInfo, bool) {
	info, ok := volumeInfo[v]
	return info, ok
}

func DescribeColor(c Color) (ColorInfo, bool) {
	info, ok := colorInfo[c]
	return info, ok
}

// Volumes devuelve los volúmenes en orden de tamaño.
func Volumes() []Volume {
	return []Volume{VolumeSmall, VolumeMedium, VolumeLarge, VolumeMassive}
}

// Colors devuelve los colores en el orden del selector.
func Colors() []Color {
	return []Color{
		ColorBrown, ColorDarkBrown, ColorLightBrown, ColorGreen,
		ColorYellow, ColorBlack, ColorRed, ColorWhite,
	}
}
