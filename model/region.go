package model

import "github.com/andaru/escl/units"

// DefaultMaxLength is the region extent used for "max" when no
// capabilities are known.
const DefaultMaxLength units.DeviceUnits = 30000

// RegionBuilder builds a single-region ScanRegions. Width and height
// default to the maximum of the input source.
type RegionBuilder struct {
	caps             *InputSourceCaps
	width, height    units.Length
	xOffset, yOffset units.Length
}

// NewRegionBuilder returns a builder whose maxima come from caps, which
// may be nil.
func NewRegionBuilder(caps *InputSourceCaps) *RegionBuilder { return &RegionBuilder{caps: caps} }

func (b *RegionBuilder) Width(l units.Length) *RegionBuilder  { b.width = l; return b }
func (b *RegionBuilder) Height(l units.Length) *RegionBuilder { b.height = l; return b }

// Offset sets the top left corner of the region.
func (b *RegionBuilder) Offset(x, y units.Length) *RegionBuilder {
	b.xOffset, b.yOffset = x, y
	return b
}

func (b *RegionBuilder) MaxWidth() *RegionBuilder  { b.width = nil; return b }
func (b *RegionBuilder) MaxHeight() *RegionBuilder { b.height = nil; return b }

// MaxSize selects the largest region the input source allows.
func (b *RegionBuilder) MaxSize() *RegionBuilder { return b.MaxWidth().MaxHeight() }

// MaxWidthLength returns the width used for MaxWidth.
func (b *RegionBuilder) MaxWidthLength() units.DeviceUnits {
	if b.caps != nil {
		return b.caps.MaxWidth
	}
	return DefaultMaxLength
}

// MaxHeightLength returns the height used for MaxHeight.
func (b *RegionBuilder) MaxHeightLength() units.DeviceUnits {
	if b.caps != nil {
		return b.caps.MaxHeight
	}
	return DefaultMaxLength
}

// Build returns the regions, with MustHonor set.
func (b *RegionBuilder) Build() ScanRegions {
	r := ScanRegion{
		Width:   resolve(b.width, b.MaxWidthLength()),
		Height:  resolve(b.height, b.MaxHeightLength()),
		XOffset: resolve(b.xOffset, 0),
		YOffset: resolve(b.yOffset, 0),
	}
	return ScanRegions{Regions: []ScanRegion{r}, MustHonor: true}
}

func resolve(l units.Length, def units.DeviceUnits) units.DeviceUnits {
	if l == nil {
		return def
	}
	return l.DeviceUnits()
}
