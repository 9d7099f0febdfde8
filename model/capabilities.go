package model

import (
	"encoding/xml"
	"io"

	"github.com/OpenPrinting/go-mfp/util/optional"
	"github.com/google/uuid"

	"github.com/andaru/escl/schema"
	"github.com/andaru/escl/units"
)

// ScannerCapabilities is the ScannerCapabilities document.
type ScannerCapabilities struct {
	Version      string
	MakeAndModel string
	Manufacturer optional.Val[string]
	// UUID matches the UUID TXT record the scanner advertises over DNS-SD.
	UUID           optional.Val[uuid.UUID]
	SerialNumber   string
	AdminURI       optional.Val[string]
	IconURI        optional.Val[string]
	Certifications []Certification

	Platen *InputSourceCaps
	Adf    *AdfCaps

	SupportedMediaTypes []string

	BrightnessSupport        *Support
	CompressionFactorSupport *Support
	ContrastSupport          *Support
	HighlightSupport         *Support
	NoiseRemovalSupport      *Support
	ShadowSupport            *Support
	SharpenSupport           *Support
	ThresholdSupport         *Support

	StoredJobRequestSupport      *StoredJobRequestSupport
	BlankPageDetection           optional.Val[bool]
	BlankPageDetectionAndRemoval optional.Val[bool]
}

// Certification is a certification the scanner claims, such as
// Mopria or AirPrint.
type Certification struct {
	Name    string
	Version string
}

// AdfCaps are the document feeder capabilities.
type AdfCaps struct {
	Simplex InputSourceCaps
	// Duplex is nil if the feeder is simplex only.
	Duplex         *InputSourceCaps
	FeederCapacity optional.Val[uint]
	Options        []OrRaw[AdfOption]
}

// InputSourceCaps are the capabilities of one input source. Lengths are
// in device units.
type InputSourceCaps struct {
	MinWidth  units.DeviceUnits
	MaxWidth  units.DeviceUnits
	MinHeight units.DeviceUnits
	MaxHeight units.DeviceUnits

	MaxScanRegions        optional.Val[uint]
	MaxOpticalXResolution optional.Val[uint]
	MaxOpticalYResolution optional.Val[uint]

	RiskyLeftMargin   optional.Val[units.DeviceUnits]
	RiskyRightMargin  optional.Val[units.DeviceUnits]
	RiskyTopMargin    optional.Val[units.DeviceUnits]
	RiskyBottomMargin optional.Val[units.DeviceUnits]
	MaxPhysicalWidth  optional.Val[units.DeviceUnits]
	MaxPhysicalHeight optional.Val[units.DeviceUnits]

	SettingProfiles   []SettingProfile
	SupportedIntents  []OrRaw[ScanIntent]
	EdgeAutoDetection []OrRaw[Edge]
}

// SettingProfile is one combination of settings the input source supports.
type SettingProfile struct {
	ColorModes           []OrRaw[ColorMode]
	ContentTypes         []OrRaw[ContentType]
	DocumentFormats      DocumentFormats
	SupportedResolutions []DiscreteResolution
	ColorSpaces          []string
	CcdChannels          []OrRaw[CcdChannel]
	BinaryRenderings     []OrRaw[BinaryRendering]
}

// DiscreteResolution is a supported resolution pair, in DPI.
type DiscreteResolution struct {
	XResolution uint
	YResolution uint
}

// Support is the range of an image adjustment setting.
type Support struct {
	Min    int
	Max    int
	Normal optional.Val[int]
	Step   int
}

type StoredJobRequestSupport struct {
	MaxStoredJobRequests uint
	TimeoutInSeconds     uint
}

// SourceCaps returns the capabilities of src. duplex selects the duplex
// capabilities of the feeder. It returns false if the scanner doesn't
// report the source.
func (c *ScannerCapabilities) SourceCaps(src InputSource, duplex bool) (*InputSourceCaps, bool) {
	switch src {
	case Platen:
		return c.Platen, c.Platen != nil
	case Feeder:
		if c.Adf == nil {
			return nil, false
		}
		if duplex {
			return c.Adf.Duplex, c.Adf.Duplex != nil
		}
		return &c.Adf.Simplex, true
	}
	return nil, false
}

// InputSources returns the input sources the scanner reports.
func (c *ScannerCapabilities) InputSources() (out []InputSource) {
	if c.Platen != nil {
		out = append(out, Platen)
	}
	if c.Adf != nil {
		out = append(out, Feeder)
	}
	return out
}

// SupportsDuplex reports whether the feeder can scan both sides.
func (c *ScannerCapabilities) SupportsDuplex() bool { return c.Adf != nil && c.Adf.Duplex != nil }

// DecodeScannerCapabilities decodes a ScannerCapabilities document.
func DecodeScannerCapabilities(r io.Reader) (*ScannerCapabilities, []schema.UnknownInput, error) {
	c := &ScannerCapabilities{}
	res, err := schema.Decode(r, capabilitiesSchema(c))
	if err != nil {
		return nil, res.Unknown, err
	}
	return c, res.Unknown, nil
}

func capabilitiesSchema(c *ScannerCapabilities) *schema.Node {
	var cert Certification
	certification := elem(scan("Certification"),
		text(scan("Name"), schema.String(&cert.Name), schema.Required),
		text(scan("Version"), schema.String(&cert.Version), schema.Required),
	)
	certification.Start = func(xml.StartElement) error { cert = Certification{}; return nil }
	certification.End = func() error { c.Certifications = append(c.Certifications, cert); return nil }

	return elem(scan("ScannerCapabilities"),
		text(pwg("Version"), schema.String(&c.Version), schema.Required),
		text(pwg("MakeAndModel"), schema.String(&c.MakeAndModel), schema.Required),
		text(scan("Manufacturer"), optString(&c.Manufacturer)),
		text(pwg("Manufacturer"), optString(&c.Manufacturer)),
		text(scan("UUID"), optUUID(&c.UUID)),
		text(pwg("SerialNumber"), schema.String(&c.SerialNumber)),
		text(scan("AdminURI"), optString(&c.AdminURI)),
		text(scan("IconURI"), optString(&c.IconURI)),
		elem(scan("Certifications"), certification),
		elem(scan("Platen"),
			inputSourceCapsSchema(scan("PlatenInputCaps"), func(v InputSourceCaps) { c.Platen = &v })),
		adfSchema(&c.Adf),
		elem(scan("SupportedMediaTypes"), text(scan("MediaType"), schema.Strings(&c.SupportedMediaTypes))),
		supportSchema(scan("BrightnessSupport"), &c.BrightnessSupport),
		supportSchema(scan("CompressionFactorSupport"), &c.CompressionFactorSupport),
		supportSchema(scan("ContrastSupport"), &c.ContrastSupport),
		supportSchema(scan("HighlightSupport"), &c.HighlightSupport),
		supportSchema(scan("NoiseRemovalSupport"), &c.NoiseRemovalSupport),
		supportSchema(scan("ShadowSupport"), &c.ShadowSupport),
		supportSchema(scan("SharpenSupport"), &c.SharpenSupport),
		supportSchema(scan("ThresholdSupport"), &c.ThresholdSupport),
		storedJobRequestSchema(&c.StoredJobRequestSupport),
		text(scan("BlankPageDetection"), optBool(&c.BlankPageDetection)),
		text(scan("BlankPageDetectionAndRemoval"), optBool(&c.BlankPageDetectionAndRemoval)),
	)
}

func adfSchema(p **AdfCaps) *schema.Node {
	var adf AdfCaps
	return schema.Element(scan("Adf"),
		schema.OnStart(func(xml.StartElement) error { adf = AdfCaps{}; return nil }),
		schema.Children(
			inputSourceCapsSchema(scan("AdfSimplexInputCaps"), func(v InputSourceCaps) { adf.Simplex = v }),
			inputSourceCapsSchema(scan("AdfDuplexInputCaps"), func(v InputSourceCaps) { adf.Duplex = &v }),
			text(scan("FeederCapacity"), optUint(&adf.FeederCapacity)),
			elem(scan("AdfOptions"), text(scan("AdfOption"), appendEnum(&adf.Options))),
		),
		schema.OnEnd(func() error { v := adf; *p = &v; return nil }),
	)
}

func inputSourceCapsSchema(name xml.Name, done func(InputSourceCaps)) *schema.Node {
	var caps InputSourceCaps
	return schema.Element(name,
		schema.OnStart(func(xml.StartElement) error { caps = InputSourceCaps{}; return nil }),
		schema.Children(
			text(scan("MinWidth"), setLength(&caps.MinWidth), schema.Required),
			text(scan("MaxWidth"), setLength(&caps.MaxWidth), schema.Required),
			text(scan("MinHeight"), setLength(&caps.MinHeight), schema.Required),
			text(scan("MaxHeight"), setLength(&caps.MaxHeight), schema.Required),
			text(scan("MaxScanRegions"), optUint(&caps.MaxScanRegions)),
			text(scan("MaxOpticalXResolution"), optUint(&caps.MaxOpticalXResolution)),
			text(scan("MaxOpticalYResolution"), optUint(&caps.MaxOpticalYResolution)),
			text(scan("RiskyLeftMargin"), optLength(&caps.RiskyLeftMargin)),
			text(scan("RiskyRightMargin"), optLength(&caps.RiskyRightMargin)),
			text(scan("RiskyTopMargin"), optLength(&caps.RiskyTopMargin)),
			text(scan("RiskyBottomMargin"), optLength(&caps.RiskyBottomMargin)),
			text(scan("MaxPhysicalWidth"), optLength(&caps.MaxPhysicalWidth)),
			text(scan("MaxPhysicalHeight"), optLength(&caps.MaxPhysicalHeight)),
			elem(scan("SettingProfiles"), settingProfileSchema(&caps.SettingProfiles)),
			elem(scan("SupportedIntents"), text(scan("Intent"), appendEnum(&caps.SupportedIntents))),
			elem(scan("EdgeAutoDetection"), text(scan("SupportedEdge"), appendEnum(&caps.EdgeAutoDetection))),
		),
		schema.OnEnd(func() error { done(caps); return nil }),
	)
}

func settingProfileSchema(list *[]SettingProfile) *schema.Node {
	var p SettingProfile
	var res DiscreteResolution
	resolution := elem(scan("DiscreteResolution"),
		text(scan("XResolution"), setUint(&res.XResolution), schema.Required),
		text(scan("YResolution"), setUint(&res.YResolution), schema.Required),
	)
	resolution.Start = func(xml.StartElement) error { res = DiscreteResolution{}; return nil }
	resolution.End = func() error {
		p.SupportedResolutions = append(p.SupportedResolutions, res)
		return nil
	}

	return schema.Element(scan("SettingProfile"),
		schema.OnStart(func(xml.StartElement) error { p = SettingProfile{}; return nil }),
		schema.Children(
			elem(scan("ColorModes"), text(scan("ColorMode"), appendEnum(&p.ColorModes))),
			elem(scan("ContentTypes"), text(pwg("ContentType"), appendEnum(&p.ContentTypes))),
			documentFormatsSchema(&p.DocumentFormats),
			elem(scan("SupportedResolutions"), elem(scan("DiscreteResolutions"), resolution)),
			elem(scan("ColorSpaces"), text(scan("ColorSpace"), schema.Strings(&p.ColorSpaces))),
			elem(scan("CcdChannels"), text(scan("CcdChannel"), appendEnum(&p.CcdChannels))),
			elem(scan("CCDChannels"), text(scan("CCDChannel"), appendEnum(&p.CcdChannels))),
			elem(scan("BinaryRenderings"), text(scan("BinaryRendering"), appendEnum(&p.BinaryRenderings))),
		),
		schema.OnEnd(func() error { *list = append(*list, p); return nil }),
	)
}

func supportSchema(name xml.Name, p **Support) *schema.Node {
	var s Support
	return schema.Element(name,
		schema.OnStart(func(xml.StartElement) error { s = Support{}; return nil }),
		schema.Children(
			text(scan("Min"), schema.Int(&s.Min), schema.Required),
			text(scan("Max"), schema.Int(&s.Max), schema.Required),
			text(scan("Normal"), optInt(&s.Normal)),
			text(scan("Step"), schema.Int(&s.Step)),
		),
		schema.OnEnd(func() error { v := s; *p = &v; return nil }),
	)
}

func storedJobRequestSchema(p **StoredJobRequestSupport) *schema.Node {
	var s StoredJobRequestSupport
	return schema.Element(scan("StoredJobRequestSupport"),
		schema.OnStart(func(xml.StartElement) error { s = StoredJobRequestSupport{}; return nil }),
		schema.Children(
			text(scan("MaxStoredjobRequests"), setUint(&s.MaxStoredJobRequests)),
			text(scan("TimeoutInSeconds"), setUint(&s.TimeoutInSeconds)),
		),
		schema.OnEnd(func() error { v := s; *p = &v; return nil }),
	)
}
