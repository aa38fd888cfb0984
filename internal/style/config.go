// Package style holds the validated appearance configuration for a rendered
// code: module and eye shapes, color mask, logo placement and geometry. A
// Config is immutable once built; construction reports every violated
// constraint instead of stopping at the first.
package style

import (
	"crypto/sha256"
	"fmt"
	"image/color"

	"github.com/qrstudio/qrstudio/internal/colormask"
)

// ModuleShape selects the primitive drawn for each data module.
type ModuleShape string

const (
	ModuleSquare   ModuleShape = "square"
	ModuleDot      ModuleShape = "dot"
	ModuleRound    ModuleShape = "round"
	ModuleDiamond  ModuleShape = "diamond"
	ModuleStar     ModuleShape = "star"
	ModuleTriangle ModuleShape = "triangle"
)

// EyeShape selects the primitive used for a finder frame or eyeball,
// independent of the module shape.
type EyeShape string

const (
	EyeSquare  EyeShape = "square"
	EyeRounded EyeShape = "rounded"
	EyeCircle  EyeShape = "circle"
	EyeDiamond EyeShape = "diamond"
)

// LogoShape selects the clipping applied to an embedded logo.
type LogoShape string

const (
	LogoSquare LogoShape = "square"
	LogoCircle LogoShape = "circle"
)

// Logo relative-size bounds, as a fraction of the canvas edge.
const (
	MinLogoRelativeSize = 0.05
	MaxLogoRelativeSize = 0.40
)

// Ring places several overlay images evenly on a circle around the canvas
// center, each with its own exclusion zone.
type Ring struct {
	// Images holds the raw bytes of each overlay, clockwise from 12 o'clock.
	Images [][]byte
	// Backdrops optionally pairs each overlay with its own panel color, such
	// as a platform brand color. Either empty or one entry per image.
	Backdrops []*color.RGBA
	// Radius is the ring radius as a fraction of the canvas edge, (0, 0.5].
	Radius float64
}

// Logo describes an embedded center image (or a ring of them).
type Logo struct {
	// Image holds raw PNG, JPEG or SVG bytes. Ignored when Ring is set.
	Image []byte
	// RelativeSize is the overlay edge as a fraction of the canvas edge.
	RelativeSize float64
	Shape        LogoShape
	// Backdrop, when set, paints a solid padded panel behind the logo to
	// guarantee contrast against surrounding modules.
	Backdrop *color.RGBA
	Ring     *Ring
}

// Config is the resolved, validated appearance description consumed by the
// render-plan builder.
type Config struct {
	ModuleShape ModuleShape
	EyeFrame    EyeShape
	Eyeball     EyeShape
	// EyeColor overrides the mask color for finder patterns when set.
	EyeColor *color.RGBA
	Mask     colormask.Mask
	// DrawBackgroundCells paints off modules in the background color instead
	// of leaving them to the canvas background.
	DrawBackgroundCells bool
	Logo                *Logo
	// Margin is the quiet zone width in modules on each side.
	Margin int
	// ModuleScale is pixels per module (raster) or units per module (vector).
	ModuleScale int
}

// Fingerprint returns a stable digest of the configuration, used together
// with the payload to address generated artifacts.
func (c Config) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "shape=%s;frame=%s;ball=%s;margin=%d;scale=%d;bgcells=%t;",
		c.ModuleShape, c.EyeFrame, c.Eyeball, c.Margin, c.ModuleScale, c.DrawBackgroundCells)
	if c.EyeColor != nil {
		fmt.Fprintf(h, "eye=%v;", *c.EyeColor)
	}
	fmt.Fprintf(h, "mask=%#v;", c.Mask)
	if c.Logo != nil {
		fmt.Fprintf(h, "logo=%x/%.3f/%s;", sha256.Sum256(c.Logo.Image), c.Logo.RelativeSize, c.Logo.Shape)
		if c.Logo.Backdrop != nil {
			fmt.Fprintf(h, "backdrop=%v;", *c.Logo.Backdrop)
		}
		if c.Logo.Ring != nil {
			fmt.Fprintf(h, "ring=%.3f/%d;", c.Logo.Ring.Radius, len(c.Logo.Ring.Images))
			for i, img := range c.Logo.Ring.Images {
				fmt.Fprintf(h, "%x;", sha256.Sum256(img))
				if i < len(c.Logo.Ring.Backdrops) && c.Logo.Ring.Backdrops[i] != nil {
					fmt.Fprintf(h, "bd=%v;", *c.Logo.Ring.Backdrops[i])
				}
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// FieldViolation is a single failed validation rule.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every violated constraint found while resolving
// a configuration. Nothing is clamped silently.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		v := e.Violations[0]
		return fmt.Sprintf("invalid style: %s: %s", v.Field, v.Reason)
	}
	msg := fmt.Sprintf("invalid style: %d violations:", len(e.Violations))
	for _, v := range e.Violations {
		msg += fmt.Sprintf(" [%s: %s]", v.Field, v.Reason)
	}
	return msg
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}
