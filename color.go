package orgb

import "github.com/lucasb-eyer/go-colorful"

// Color is the wire representation of an RGB LED color: three color bytes
// followed by one padding byte that is always written as zero and ignored
// on read.
type Color struct {
	R, G, B uint8
}

// RGB returns a Color built from three 8-bit channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Colorful converts c to a go-colorful Color so callers can compose
// gradients, blends, or perceptual color-space effects (HSLuv, Lab, HCL)
// before handing the result back to the wire via FromColorful.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// FromColorful converts a go-colorful Color back to the wire Color,
// clamping each channel to [0,255] the way colorful.Clamped does.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// BlendRGB linearly interpolates between a and b in RGB space at t in
// [0,1], useful for simple effects that don't need perceptual blending.
func BlendRGB(a, b Color, t float64) Color {
	return FromColorful(a.Colorful().BlendRgb(b.Colorful(), t))
}
