package style

import "sort"

// PresetVersion is bumped whenever a preset's meaning changes, so fingerprints
// of previously generated artifacts stay distinguishable.
const PresetVersion = 1

// Preset is a named bundle of style defaults. Explicit options set alongside
// a preset win over the preset's values.
type Preset struct {
	ModuleShape ModuleShape
	EyeFrame    EyeShape
	Eyeball     EyeShape
	ColorMode   string
	Foreground  string
	GradientTo  string
	Background  string
	// Gradient geometry in normalized canvas coordinates.
	GradientStart  string
	GradientEnd    string
	GradientCenter string
}

var presets = map[string]Preset{
	"classic": {
		ModuleShape: ModuleSquare,
		EyeFrame:    EyeSquare,
		Eyeball:     EyeSquare,
		ColorMode:   "solid",
		Foreground:  "#000000",
		Background:  "#FFFFFF",
	},
	"rounded": {
		ModuleShape: ModuleRound,
		EyeFrame:    EyeRounded,
		Eyeball:     EyeRounded,
		ColorMode:   "solid",
		Foreground:  "#000000",
		Background:  "#FFFFFF",
	},
	"dots": {
		ModuleShape: ModuleDot,
		EyeFrame:    EyeCircle,
		Eyeball:     EyeCircle,
		ColorMode:   "solid",
		Foreground:  "#000000",
		Background:  "#FFFFFF",
	},
	"modern_blue": {
		ModuleShape:   ModuleRound,
		EyeFrame:      EyeRounded,
		Eyeball:       EyeRounded,
		ColorMode:     "linear",
		Foreground:    "#0066CC",
		GradientTo:    "#003399",
		Background:    "#FFFFFF",
		GradientStart: "0.5,0",
		GradientEnd:   "0.5,1",
	},
	"sunset": {
		ModuleShape:   ModuleDot,
		EyeFrame:      EyeCircle,
		Eyeball:       EyeCircle,
		ColorMode:     "linear",
		Foreground:    "#FF6600",
		GradientTo:    "#CC0000",
		Background:    "#FFFFFF",
		GradientStart: "0,0.5",
		GradientEnd:   "1,0.5",
	},
	"forest": {
		ModuleShape:    ModuleSquare,
		EyeFrame:       EyeSquare,
		Eyeball:        EyeSquare,
		ColorMode:      "radial",
		Foreground:     "#006600",
		GradientTo:     "#003300",
		Background:     "#FFFFFF",
		GradientCenter: "0.5,0.5",
	},
	"ocean": {
		ModuleShape:    ModuleRound,
		EyeFrame:       EyeRounded,
		Eyeball:        EyeRounded,
		ColorMode:      "radial",
		Foreground:     "#0099CC",
		GradientTo:     "#003366",
		Background:     "#FFFFFF",
		GradientCenter: "0.5,0.5",
	},
	"elegant": {
		ModuleShape: ModuleSquare,
		EyeFrame:    EyeSquare,
		Eyeball:     EyeSquare,
		ColorMode:   "solid",
		Foreground:  "#333333",
		Background:  "#F5F5F5",
	},
}

// PresetNames returns the available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// brandColors maps social platform identifiers to their brand foreground,
// used as the default ring-overlay backdrop color.
var brandColors = map[string]string{
	"facebook":  "#1877F2",
	"twitter":   "#1DA1F2",
	"instagram": "#E4405F",
	"linkedin":  "#0A66C2",
	"youtube":   "#FF0000",
	"whatsapp":  "#25D366",
	"tiktok":    "#010101",
	"github":    "#181717",
}

// BrandColor looks up the brand color for a social platform.
func BrandColor(platform string) (string, bool) {
	c, ok := brandColors[platform]
	return c, ok
}
