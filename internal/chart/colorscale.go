package chart

import "fmt"

// ColorScale names either a known scheme or a custom stop list. Exactly one
// of Scheme and Stops is set.
type ColorScale struct {
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Stops  []Stop `json:"stops,omitempty" yaml:"stops,omitempty"`
}

// Stop anchors a color at a position in [0,1].
type Stop struct {
	Pos   float64 `json:"pos" yaml:"pos"`
	Color string  `json:"color" yaml:"color"`
}

// knownSchemes is the closed set of scheme names a figure may carry:
// perceptually monotonic sequential ramps plus the diverging scales used for
// signed data. Hue-cycling schemes like Rainbow, HSV, or Jet wrap their hue
// and misorder ranked values, so they never validate.
var knownSchemes = map[string]bool{
	"Viridis": true, "Plasma": true, "Inferno": true, "Magma": true,
	"Cividis": true, "Blues": true, "Greens": true, "Greys": true,
	"Oranges": true, "Purples": true, "Reds": true,
	"YlOrBr": true, "YlOrRd": true, "YlGnBu": true, "YlGn": true,
	"BuGn": true, "BuPu": true, "GnBu": true, "OrRd": true,
	"PuBu": true, "PuRd": true, "RdPu": true,
	"RdBu": true, "RdYlBu": true, "PiYG": true, "BrBG": true,
}

const defaultScheme = "Viridis"

// schemeForDomain picks the configured color scheme for a metric's domain,
// falling back to defaultScheme for unlisted domains and unknown scheme
// names.
func (b *Builder) schemeForDomain(domain string) *ColorScale {
	if s, ok := b.schemes[domain]; ok && knownSchemes[s] {
		return &ColorScale{Scheme: s}
	}
	return &ColorScale{Scheme: defaultScheme}
}

// Validate checks a color scale: a scheme must come from the known monotonic
// set and stand alone, and custom stops must run strictly ascending from
// position 0 to position 1.
func (c *ColorScale) Validate() error {
	if c.Scheme != "" && len(c.Stops) > 0 {
		return fmt.Errorf("color scale: scheme and stops are mutually exclusive")
	}
	if c.Scheme != "" {
		if !knownSchemes[c.Scheme] {
			return fmt.Errorf("color scale: unknown or non-monotonic scheme %q", c.Scheme)
		}
		return nil
	}
	if len(c.Stops) < 2 {
		return fmt.Errorf("color scale: need at least two stops")
	}
	if c.Stops[0].Pos != 0 {
		return fmt.Errorf("color scale: first stop at %v, want 0", c.Stops[0].Pos)
	}
	if last := c.Stops[len(c.Stops)-1].Pos; last != 1 {
		return fmt.Errorf("color scale: last stop at %v, want 1", last)
	}
	for i := 1; i < len(c.Stops); i++ {
		if c.Stops[i].Pos <= c.Stops[i-1].Pos {
			return fmt.Errorf("color scale: stops not strictly ascending at index %d", i)
		}
	}
	for i, s := range c.Stops {
		if s.Color == "" {
			return fmt.Errorf("color scale: empty color at index %d", i)
		}
	}
	return nil
}
