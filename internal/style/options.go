package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/qrstudio/qrstudio/internal/colormask"
)

// Default geometry applied when the caller leaves the fields unset.
const (
	DefaultMargin      = 4
	DefaultModuleScale = 16
)

// Options is the raw, unvalidated style request as it arrives from the
// outside (query parameters, JSON bodies). Zero values mean "use default";
// optional numerics are pointers so zero stays expressible.
type Options struct {
	Preset        string `json:"preset"`
	ModuleShape   string `json:"module_shape"`
	EyeFrameShape string `json:"eye_frame_shape"`
	EyeballShape  string `json:"eyeball_shape"`
	EyeColor      string `json:"eye_color"`

	ColorMode  string `json:"color_mode"` // solid, linear, radial
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	GradientTo string `json:"gradient_to"`
	// Gradient geometry in normalized canvas coordinates, "x,y".
	GradientStart  string `json:"gradient_start"`
	GradientEnd    string `json:"gradient_end"`
	GradientCenter string `json:"gradient_center"`

	DrawBackgroundCells bool `json:"draw_background_cells"`

	Margin      *int `json:"margin"`
	ModuleScale *int `json:"module_scale"`

	Logo             []byte   `json:"-"`
	LogoShape        string   `json:"logo_shape"`
	LogoRelativeSize *float64 `json:"logo_relative_size"`
	LogoBackdrop     string   `json:"logo_backdrop"`
	RingImages [][]byte `json:"-"`
	// RingPlatforms optionally names the social platform behind each ring
	// image; matching entries default that overlay's backdrop to the
	// platform's brand color.
	RingPlatforms []string `json:"ring_platforms"`
	RingRadius    *float64 `json:"ring_radius"`
}

var (
	moduleShapes = map[ModuleShape]bool{
		ModuleSquare: true, ModuleDot: true, ModuleRound: true,
		ModuleDiamond: true, ModuleStar: true, ModuleTriangle: true,
	}
	eyeShapes = map[EyeShape]bool{
		EyeSquare: true, EyeRounded: true, EyeCircle: true, EyeDiamond: true,
	}
	logoShapes = map[LogoShape]bool{
		LogoSquare: true, LogoCircle: true,
	}
)

// Resolve merges preset defaults with explicit options, parses every field
// and returns a validated Config. On failure the returned error is a
// *ValidationError listing all violations at once.
func Resolve(opts Options) (Config, error) {
	verr := &ValidationError{}

	if opts.Preset != "" {
		preset, ok := presets[opts.Preset]
		if !ok {
			verr.add("preset", "unknown preset %q, want one of %s", opts.Preset, strings.Join(PresetNames(), ", "))
		} else {
			opts = applyPreset(opts, preset)
		}
	}

	cfg := Config{
		ModuleShape:         ModuleSquare,
		EyeFrame:            EyeSquare,
		Eyeball:             EyeSquare,
		DrawBackgroundCells: opts.DrawBackgroundCells,
		Margin:              DefaultMargin,
		ModuleScale:         DefaultModuleScale,
	}

	if opts.ModuleShape != "" {
		if s := ModuleShape(opts.ModuleShape); moduleShapes[s] {
			cfg.ModuleShape = s
		} else {
			verr.add("module_shape", "unknown shape %q", opts.ModuleShape)
		}
	}
	if opts.EyeFrameShape != "" {
		if s := EyeShape(opts.EyeFrameShape); eyeShapes[s] {
			cfg.EyeFrame = s
		} else {
			verr.add("eye_frame_shape", "unknown shape %q", opts.EyeFrameShape)
		}
	}
	if opts.EyeballShape != "" {
		if s := EyeShape(opts.EyeballShape); eyeShapes[s] {
			cfg.Eyeball = s
		} else {
			verr.add("eyeball_shape", "unknown shape %q", opts.EyeballShape)
		}
	}
	if opts.EyeColor != "" {
		c, err := ParseHexColor(opts.EyeColor)
		if err != nil {
			verr.add("eye_color", "%v", err)
		} else {
			cfg.EyeColor = &c
		}
	}

	cfg.Mask = resolveMask(opts, verr)

	if opts.Margin != nil {
		if *opts.Margin < 0 {
			verr.add("margin", "must be >= 0, got %d", *opts.Margin)
		} else {
			cfg.Margin = *opts.Margin
		}
	}
	if opts.ModuleScale != nil {
		if *opts.ModuleScale <= 0 {
			verr.add("module_scale", "must be > 0, got %d", *opts.ModuleScale)
		} else {
			cfg.ModuleScale = *opts.ModuleScale
		}
	}

	cfg.Logo = resolveLogo(opts, verr)

	if err := verr.orNil(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyPreset fills blank option fields from the preset. Explicit values win.
func applyPreset(opts Options, p Preset) Options {
	if opts.ModuleShape == "" {
		opts.ModuleShape = string(p.ModuleShape)
	}
	if opts.EyeFrameShape == "" {
		opts.EyeFrameShape = string(p.EyeFrame)
	}
	if opts.EyeballShape == "" {
		opts.EyeballShape = string(p.Eyeball)
	}
	if opts.ColorMode == "" {
		opts.ColorMode = p.ColorMode
	}
	if opts.Foreground == "" {
		opts.Foreground = p.Foreground
	}
	if opts.Background == "" {
		opts.Background = p.Background
	}
	if opts.GradientTo == "" {
		opts.GradientTo = p.GradientTo
	}
	if opts.GradientStart == "" {
		opts.GradientStart = p.GradientStart
	}
	if opts.GradientEnd == "" {
		opts.GradientEnd = p.GradientEnd
	}
	if opts.GradientCenter == "" {
		opts.GradientCenter = p.GradientCenter
	}
	return opts
}

func resolveMask(opts Options, verr *ValidationError) colormask.Mask {
	fg := color.RGBA{A: 0xFF}
	bg := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if opts.Foreground != "" {
		c, err := ParseHexColor(opts.Foreground)
		if err != nil {
			verr.add("foreground", "%v", err)
		} else {
			fg = c
		}
	}
	if opts.Background != "" {
		c, err := ParseHexColor(opts.Background)
		if err != nil {
			verr.add("background", "%v", err)
		} else {
			bg = c
		}
	}

	mode := opts.ColorMode
	if mode == "" {
		mode = "solid"
	}
	switch mode {
	case "solid":
		return colormask.Solid{FG: fg, BG: bg}
	case "linear", "radial":
		to := fg
		if opts.GradientTo == "" {
			verr.add("gradient_to", "required for %s color mode", mode)
		} else if c, err := ParseHexColor(opts.GradientTo); err != nil {
			verr.add("gradient_to", "%v", err)
		} else {
			to = c
		}
		if mode == "linear" {
			start := parsePoint(opts.GradientStart, colormask.Point{X: 0, Y: 0}, "gradient_start", verr)
			end := parsePoint(opts.GradientEnd, colormask.Point{X: 1, Y: 1}, "gradient_end", verr)
			if start == end {
				verr.add("gradient_end", "must differ from gradient_start")
			}
			return colormask.Linear{Start: start, End: end, From: fg, To: to, BG: bg}
		}
		center := parsePoint(opts.GradientCenter, colormask.Point{X: 0.5, Y: 0.5}, "gradient_center", verr)
		return colormask.Radial{Center: center, From: fg, To: to, BG: bg}
	default:
		verr.add("color_mode", "unknown mode %q, want solid, linear or radial", mode)
		return colormask.Solid{FG: fg, BG: bg}
	}
}

func resolveLogo(opts Options, verr *ValidationError) *Logo {
	hasRing := len(opts.RingImages) > 0
	if len(opts.Logo) == 0 && !hasRing {
		for _, set := range []struct {
			name string
			on   bool
		}{
			{"logo_shape", opts.LogoShape != ""},
			{"logo_relative_size", opts.LogoRelativeSize != nil},
			{"logo_backdrop", opts.LogoBackdrop != ""},
			{"ring_platforms", len(opts.RingPlatforms) > 0},
			{"ring_radius", opts.RingRadius != nil},
		} {
			if set.on {
				verr.add(set.name, "set without a logo image")
			}
		}
		return nil
	}

	logo := &Logo{
		Image:        opts.Logo,
		RelativeSize: 0.20,
		Shape:        LogoSquare,
	}
	if opts.LogoShape != "" {
		if s := LogoShape(opts.LogoShape); logoShapes[s] {
			logo.Shape = s
		} else {
			verr.add("logo_shape", "unknown shape %q", opts.LogoShape)
		}
	}
	if opts.LogoRelativeSize != nil {
		rs := *opts.LogoRelativeSize
		if rs < MinLogoRelativeSize || rs > MaxLogoRelativeSize {
			verr.add("logo_relative_size", "must be in [%.2f, %.2f], got %.3f", MinLogoRelativeSize, MaxLogoRelativeSize, rs)
		} else {
			logo.RelativeSize = rs
		}
	}
	if opts.LogoBackdrop != "" {
		c, err := ParseHexColor(opts.LogoBackdrop)
		if err != nil {
			verr.add("logo_backdrop", "%v", err)
		} else {
			logo.Backdrop = &c
		}
	}
	if hasRing {
		if len(opts.RingImages) < 2 {
			verr.add("ring_images", "ring needs at least 2 images, got %d", len(opts.RingImages))
		}
		radius := 0.35
		if opts.RingRadius != nil {
			radius = *opts.RingRadius
			if radius <= 0 || radius > 0.5 {
				verr.add("ring_radius", "must be in (0, 0.5], got %.3f", radius)
			}
		}
		logo.Ring = &Ring{
			Images:    opts.RingImages,
			Backdrops: resolveRingBackdrops(opts, verr),
			Radius:    radius,
		}
	} else if len(opts.RingPlatforms) > 0 {
		verr.add("ring_platforms", "set without ring images")
	}
	return logo
}

// resolveRingBackdrops maps each named platform to its brand color, one per
// ring image.
func resolveRingBackdrops(opts Options, verr *ValidationError) []*color.RGBA {
	if len(opts.RingPlatforms) == 0 {
		return nil
	}
	if len(opts.RingPlatforms) != len(opts.RingImages) {
		verr.add("ring_platforms", "got %d names for %d images", len(opts.RingPlatforms), len(opts.RingImages))
		return nil
	}
	backdrops := make([]*color.RGBA, len(opts.RingPlatforms))
	for i, platform := range opts.RingPlatforms {
		if platform == "" {
			continue
		}
		hex, ok := BrandColor(platform)
		if !ok {
			verr.add("ring_platforms", "unknown platform %q", platform)
			continue
		}
		c, err := ParseHexColor(hex)
		if err != nil {
			verr.add("ring_platforms", "%v", err)
			continue
		}
		backdrops[i] = &c
	}
	return backdrops
}

func parsePoint(s string, fallback colormask.Point, field string, verr *ValidationError) colormask.Point {
	if s == "" {
		return fallback
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		verr.add(field, "want \"x,y\", got %q", s)
		return fallback
	}
	coords := make([]float64, 2)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			verr.add(field, "coordinate %q: %v", part, err)
			return fallback
		}
		if v < 0 || v > 1 {
			verr.add(field, "coordinate must be in [0, 1], got %s", fmt.Sprintf("%g", v))
			return fallback
		}
		coords[i] = v
	}
	return colormask.Point{X: coords[0], Y: coords[1]}
}
