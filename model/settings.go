package model

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/OpenPrinting/go-mfp/util/optional"

	"github.com/andaru/escl/schema"
	"github.com/andaru/escl/units"
)

// ContentRegionUnits is the only unit scan regions are expressed in.
const ContentRegionUnits = "escl:ThreeHundredthsOfInches"

// ScanRegion is a rectangle to scan, in device units.
type ScanRegion struct {
	Height  units.DeviceUnits
	Width   units.DeviceUnits
	XOffset units.DeviceUnits
	YOffset units.DeviceUnits
}

// ScanRegions is the list of regions to scan.
type ScanRegions struct {
	Regions []ScanRegion
	// MustHonor asks the scanner to fail rather than adjust the regions.
	MustHonor bool
}

// ScanSettings is a scan job request. Only Version is required.
// Resolutions are in DPI. ContextID is opaque to the scanner and relayed
// back in job status by some devices.
type ScanSettings struct {
	Version                      string
	Intent                       optional.Val[OrRaw[ScanIntent]]
	ScanRegions                  optional.Val[ScanRegions]
	DocumentFormat               optional.Val[string]
	DocumentFormatExt            optional.Val[string]
	ContentType                  optional.Val[OrRaw[ContentType]]
	InputSource                  optional.Val[OrRaw[InputSource]]
	XResolution                  optional.Val[uint]
	YResolution                  optional.Val[uint]
	ColorMode                    optional.Val[OrRaw[ColorMode]]
	ColorSpace                   optional.Val[string]
	MediaType                    optional.Val[string]
	CcdChannel                   optional.Val[OrRaw[CcdChannel]]
	BinaryRendering              optional.Val[OrRaw[BinaryRendering]]
	Duplex                       optional.Val[bool]
	NumberOfPages                optional.Val[uint]
	Brightness                   optional.Val[uint]
	CompressionFactor            optional.Val[uint]
	Contrast                     optional.Val[uint]
	Gamma                        optional.Val[uint]
	Highlight                    optional.Val[uint]
	NoiseRemoval                 optional.Val[uint]
	Shadow                       optional.Val[uint]
	Sharpen                      optional.Val[uint]
	Threshold                    optional.Val[uint]
	ContextID                    optional.Val[string]
	BlankPageDetection           optional.Val[bool]
	FeedDirection                optional.Val[OrRaw[FeedDirection]]
	BlankPageDetectionAndRemoval optional.Val[bool]
}

var (
	nameScanSettings = scan("ScanSettings")
	nameScanRegions  = pwg("ScanRegions")
	nameScanRegion   = pwg("ScanRegion")
	nameMustHonor    = pwg("MustHonor")
)

// Encode writes s to w.
func (s *ScanSettings) Encode(w io.Writer) error {
	e := schema.NewEncoder(w)
	e.Start(nameScanSettings)
	e.Text(pwg("Version"), s.Version)
	encodeEnum(e, scan("Intent"), s.Intent)
	if s.ScanRegions != nil {
		encodeRegions(e, *s.ScanRegions)
	}
	encodeString(e, pwg("DocumentFormat"), s.DocumentFormat)
	encodeString(e, scan("DocumentFormatExt"), s.DocumentFormatExt)
	encodeEnum(e, pwg("ContentType"), s.ContentType)
	encodeEnum(e, pwg("InputSource"), s.InputSource)
	encodeUint(e, scan("XResolution"), s.XResolution)
	encodeUint(e, scan("YResolution"), s.YResolution)
	encodeEnum(e, scan("ColorMode"), s.ColorMode)
	encodeString(e, scan("ColorSpace"), s.ColorSpace)
	encodeString(e, scan("MediaType"), s.MediaType)
	encodeEnum(e, scan("CcdChannel"), s.CcdChannel)
	encodeEnum(e, scan("BinaryRendering"), s.BinaryRendering)
	encodeBool(e, scan("Duplex"), s.Duplex)
	encodeUint(e, scan("NumberOfPages"), s.NumberOfPages)
	encodeUint(e, scan("Brightness"), s.Brightness)
	encodeUint(e, scan("CompressionFactor"), s.CompressionFactor)
	encodeUint(e, scan("Contrast"), s.Contrast)
	encodeUint(e, scan("Gamma"), s.Gamma)
	encodeUint(e, scan("Highlight"), s.Highlight)
	encodeUint(e, scan("NoiseRemoval"), s.NoiseRemoval)
	encodeUint(e, scan("Shadow"), s.Shadow)
	encodeUint(e, scan("Sharpen"), s.Sharpen)
	encodeUint(e, scan("Threshold"), s.Threshold)
	encodeString(e, scan("ContextID"), s.ContextID)
	encodeBool(e, scan("BlankPageDetection"), s.BlankPageDetection)
	encodeEnum(e, scan("FeedDirection"), s.FeedDirection)
	encodeBool(e, scan("BlankPageDetectionAndRemoval"), s.BlankPageDetectionAndRemoval)
	e.End(nameScanSettings)
	return e.Close()
}

func encodeRegions(e *schema.Encoder, r ScanRegions) {
	e.Start(nameScanRegions, xml.Attr{Name: nameMustHonor, Value: strconv.FormatBool(r.MustHonor)})
	for _, region := range r.Regions {
		e.Start(nameScanRegion)
		e.Text(pwg("Height"), formatLength(region.Height))
		e.Text(pwg("Width"), formatLength(region.Width))
		e.Text(pwg("XOffset"), formatLength(region.XOffset))
		e.Text(pwg("YOffset"), formatLength(region.YOffset))
		e.Text(pwg("ContentRegionUnits"), ContentRegionUnits)
		e.End(nameScanRegion)
	}
	e.End(nameScanRegions)
}

func formatLength(v units.DeviceUnits) string { return strconv.FormatUint(uint64(v), 10) }

// Marshal returns the encoded form of s.
func (s *ScanSettings) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeScanSettings decodes a ScanSettings document.
func DecodeScanSettings(r io.Reader) (*ScanSettings, []schema.UnknownInput, error) {
	s := &ScanSettings{}
	res, err := schema.Decode(r, scanSettingsSchema(s))
	if err != nil {
		return nil, res.Unknown, err
	}
	return s, res.Unknown, nil
}

func scanSettingsSchema(s *ScanSettings) *schema.Node {
	return elem(nameScanSettings,
		text(pwg("Version"), schema.String(&s.Version), schema.Required),
		text(scan("Intent"), optEnum(&s.Intent)),
		scanRegionsSchema(&s.ScanRegions),
		text(pwg("DocumentFormat"), optString(&s.DocumentFormat)),
		text(scan("DocumentFormatExt"), optString(&s.DocumentFormatExt)),
		text(pwg("ContentType"), optEnum(&s.ContentType)),
		text(pwg("InputSource"), optEnum(&s.InputSource)),
		text(scan("XResolution"), optUint(&s.XResolution)),
		text(scan("YResolution"), optUint(&s.YResolution)),
		text(scan("ColorMode"), optEnum(&s.ColorMode)),
		text(scan("ColorSpace"), optString(&s.ColorSpace)),
		text(scan("MediaType"), optString(&s.MediaType)),
		text(scan("CcdChannel"), optEnum(&s.CcdChannel)),
		text(scan("BinaryRendering"), optEnum(&s.BinaryRendering)),
		text(scan("Duplex"), optBool(&s.Duplex)),
		text(scan("NumberOfPages"), optUint(&s.NumberOfPages)),
		text(scan("Brightness"), optUint(&s.Brightness)),
		text(scan("CompressionFactor"), optUint(&s.CompressionFactor)),
		text(scan("Contrast"), optUint(&s.Contrast)),
		text(scan("Gamma"), optUint(&s.Gamma)),
		text(scan("Highlight"), optUint(&s.Highlight)),
		text(scan("NoiseRemoval"), optUint(&s.NoiseRemoval)),
		text(scan("Shadow"), optUint(&s.Shadow)),
		text(scan("Sharpen"), optUint(&s.Sharpen)),
		text(scan("Threshold"), optUint(&s.Threshold)),
		text(scan("ContextID"), optString(&s.ContextID)),
		text(scan("BlankPageDetection"), optBool(&s.BlankPageDetection)),
		text(scan("FeedDirection"), optEnum(&s.FeedDirection)),
		text(scan("BlankPageDetectionAndRemoval"), optBool(&s.BlankPageDetectionAndRemoval)),
	)
}

func scanRegionsSchema(p *optional.Val[ScanRegions]) *schema.Node {
	var regions ScanRegions
	var cur ScanRegion
	region := elem(nameScanRegion,
		text(pwg("Height"), setLength(&cur.Height), schema.Required),
		text(pwg("Width"), setLength(&cur.Width), schema.Required),
		text(pwg("XOffset"), setLength(&cur.XOffset)),
		text(pwg("YOffset"), setLength(&cur.YOffset)),
		text(pwg("ContentRegionUnits"), func(string) error { return nil }),
	)
	region.Start = func(xml.StartElement) error {
		cur = ScanRegion{}
		return nil
	}
	region.End = func() error {
		regions.Regions = append(regions.Regions, cur)
		return nil
	}
	return schema.Element(nameScanRegions,
		schema.Children(region),
		schema.OnStart(func(xml.StartElement) error {
			regions = ScanRegions{MustHonor: true}
			return nil
		}),
		schema.WithAttr(nameMustHonor, schema.Parse(schema.ParseBool, func(v bool) { regions.MustHonor = v })),
		schema.OnEnd(func() error {
			*p = optional.New(regions)
			return nil
		}),
	)
}
