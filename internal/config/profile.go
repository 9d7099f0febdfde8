package config

import (
	"slices"
	"strings"

	"github.com/OpenPrinting/go-mfp/util/optional"
	"github.com/pkg/errors"

	"github.com/andaru/escl/model"
	"github.com/andaru/escl/units"
)

// DefaultResolution is used when a profile has no resolution.
const DefaultResolution = 300

// Profile is a named set of scan options.
type Profile struct {
	Source     string `yaml:"source"`
	Duplex     bool   `yaml:"duplex,omitempty"`
	Resolution uint   `yaml:"resolution,omitempty"`
	ColorMode  string `yaml:"color_mode,omitempty"`
	Format     string `yaml:"format,omitempty"`
	Intent     string `yaml:"intent,omitempty"`
	// Width and Height are in millimeters. Zero is the source maximum.
	Width  float64 `yaml:"width_mm,omitempty"`
	Height float64 `yaml:"height_mm,omitempty"`
}

var sources = map[string]model.InputSource{
	"platen":  model.Platen,
	"flatbed": model.Platen,
	"feeder":  model.Feeder,
	"adf":     model.Feeder,
	"camera":  model.Camera,
}

var colorModes = map[string]model.ColorMode{
	"color":     model.RGB24,
	"grayscale": model.Grayscale8,
	"gray":      model.Grayscale8,
	"binary":    model.BlackAndWhite1,
	"bw":        model.BlackAndWhite1,
}

// InputSource returns the profile's input source.
func (p Profile) InputSource() (model.InputSource, error) {
	if p.Source == "" {
		return model.Platen, nil
	}
	src, ok := sources[strings.ToLower(p.Source)]
	if !ok {
		return "", errors.Errorf("unknown source %q", p.Source)
	}
	return src, nil
}

// Settings builds scan settings for p, checked against caps.
func (p Profile) Settings(caps *model.ScannerCapabilities) (*model.ScanSettings, error) {
	src, err := p.InputSource()
	if err != nil {
		return nil, err
	}
	if p.Duplex && src != model.Feeder {
		return nil, errors.Errorf("duplex needs the feeder, not %s", src)
	}
	sc, ok := caps.SourceCaps(src, p.Duplex)
	if !ok {
		return nil, errors.Errorf("scanner has no %s source (have %v)", src, caps.InputSources())
	}

	s := &model.ScanSettings{
		Version:     caps.Version,
		InputSource: optional.New(model.Known(src)),
	}
	if s.Version == "" {
		s.Version = "2.0"
	}

	rb := model.NewRegionBuilder(sc)
	if p.Width > 0 {
		rb.Width(units.Millimeters(p.Width))
	}
	if p.Height > 0 {
		rb.Height(units.Millimeters(p.Height))
	}
	s.ScanRegions = optional.New(rb.Build())

	res := p.Resolution
	if res == 0 {
		res = DefaultResolution
	}
	if err := checkResolution(sc, res); err != nil {
		return nil, err
	}
	s.XResolution = optional.New(res)
	s.YResolution = optional.New(res)

	if p.ColorMode != "" {
		mode, ok := colorModes[strings.ToLower(p.ColorMode)]
		cm := model.Known(mode)
		if !ok {
			cm = model.DecodeOrRaw[model.ColorMode](p.ColorMode)
		}
		s.ColorMode = optional.New(cm)
	}
	if p.Intent != "" {
		s.Intent = optional.New(model.DecodeOrRaw[model.ScanIntent](p.Intent))
	}
	if p.Format != "" {
		setFormat(s, sc, p.Format)
	}
	if p.Duplex {
		s.Duplex = optional.New(true)
	}
	return s, nil
}

// checkResolution accepts res if any setting profile lists it, or if
// no profile lists discrete resolutions.
func checkResolution(sc *model.InputSourceCaps, res uint) error {
	var have []uint
	for _, sp := range sc.SettingProfiles {
		for _, r := range sp.SupportedResolutions {
			if r.XResolution == res && r.YResolution == res {
				return nil
			}
			if !slices.Contains(have, r.XResolution) {
				have = append(have, r.XResolution)
			}
		}
	}
	if len(have) == 0 {
		return nil
	}
	slices.Sort(have)
	return errors.Errorf("resolution %d not supported (have %v)", res, have)
}

// setFormat uses DocumentFormatExt when the scanner lists the format
// there, and DocumentFormat otherwise.
func setFormat(s *model.ScanSettings, sc *model.InputSourceCaps, format string) {
	for _, sp := range sc.SettingProfiles {
		if slices.ContainsFunc(sp.DocumentFormats.FormatsExt, func(f string) bool { return strings.EqualFold(f, format) }) {
			s.DocumentFormatExt = optional.New(format)
			return
		}
	}
	s.DocumentFormat = optional.New(format)
}
