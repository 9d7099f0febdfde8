package model

import "strings"

// LegacyPrefix is stripped from enumerated values before matching.
// Some firmware reports values such as "scan:Document".
const LegacyPrefix = "scan:"

// Enum is an enumeration whose enumerators are their wire names.
type Enum[E any] interface {
	~string
	// Values returns every enumerator.
	Values() []E
}

// OrRaw holds either a known enumerator or the raw string a device sent.
// The zero value is Unknown("").
type OrRaw[E ~string] struct {
	known E
	raw   string
	ok    bool
}

// Known returns an OrRaw holding e.
func Known[E ~string](e E) OrRaw[E] { return OrRaw[E]{known: e, ok: true} }

// Unknown returns an OrRaw holding raw.
func Unknown[E ~string](raw string) OrRaw[E] { return OrRaw[E]{raw: raw} }

// DecodeOrRaw returns Known(e) for the enumerator e named by raw, after
// stripping LegacyPrefix, and Unknown(raw) otherwise.
func DecodeOrRaw[E Enum[E]](raw string) OrRaw[E] {
	name := strings.TrimPrefix(raw, LegacyPrefix)
	var zero E
	for _, e := range zero.Values() {
		if string(e) == name {
			return Known(e)
		}
	}
	return Unknown[E](raw)
}

// Value returns the enumerator and true if v is known.
func (v OrRaw[E]) Value() (E, bool) { return v.known, v.ok }

// IsKnown reports whether v holds an enumerator.
func (v OrRaw[E]) IsKnown() bool { return v.ok }

// Is reports whether v holds the enumerator e.
func (v OrRaw[E]) Is(e E) bool { return v.ok && v.known == e }

// String returns the wire form of v.
func (v OrRaw[E]) String() string {
	if v.ok {
		return string(v.known)
	}
	return v.raw
}

// MarshalText implements encoding.TextMarshaler.
func (v OrRaw[E]) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// decodeList decodes each of raws.
func decodeList[E Enum[E]](raws ...string) (out []OrRaw[E]) {
	for _, raw := range raws {
		out = append(out, DecodeOrRaw[E](raw))
	}
	return out
}

// ScanIntent is the purpose of a scan, which the scanner may use to
// pick defaults.
type ScanIntent string

const (
	IntentDocument       ScanIntent = "Document"
	IntentTextAndGraphic ScanIntent = "TextAndGraphic"
	IntentPhoto          ScanIntent = "Photo"
	IntentPreview        ScanIntent = "Preview"
	IntentObject         ScanIntent = "Object"
	IntentBusinessCard   ScanIntent = "BusinessCard"
)

func (ScanIntent) Values() []ScanIntent {
	return []ScanIntent{IntentDocument, IntentTextAndGraphic, IntentPhoto, IntentPreview, IntentObject, IntentBusinessCard}
}

// ContentType is the type of content being scanned.
type ContentType string

const (
	ContentPhoto        ContentType = "Photo"
	ContentText         ContentType = "Text"
	ContentTextAndPhoto ContentType = "TextAndPhoto"
	ContentLineArt      ContentType = "LineArt"
	ContentMagazine     ContentType = "Magazine"
	ContentHalftone     ContentType = "Halftone"
	ContentAuto         ContentType = "Auto"
	ContentThru         ContentType = "Thru"
)

func (ContentType) Values() []ContentType {
	return []ContentType{ContentPhoto, ContentText, ContentTextAndPhoto, ContentLineArt,
		ContentMagazine, ContentHalftone, ContentAuto, ContentThru}
}

type ColorMode string

const (
	BlackAndWhite1     ColorMode = "BlackAndWhite1"
	Grayscale8         ColorMode = "Grayscale8"
	Grayscale16        ColorMode = "Grayscale16"
	RGB24              ColorMode = "RGB24"
	RGB48              ColorMode = "RGB48"
	AutoColorDetection ColorMode = "AutoColorDetection"
)

func (ColorMode) Values() []ColorMode {
	return []ColorMode{BlackAndWhite1, Grayscale8, Grayscale16, RGB24, RGB48, AutoColorDetection}
}

// CcdChannel is the CCD channel used for grayscale and black and white scans.
type CcdChannel string

const (
	CcdRed             CcdChannel = "Red"
	CcdGreen           CcdChannel = "Green"
	CcdBlue            CcdChannel = "Blue"
	CcdNTSC            CcdChannel = "NTSC"
	CcdGrayCcd         CcdChannel = "GrayCcd"
	CcdGrayCcdEmulated CcdChannel = "GrayCcdEmulated"
)

func (CcdChannel) Values() []CcdChannel {
	return []CcdChannel{CcdRed, CcdGreen, CcdBlue, CcdNTSC, CcdGrayCcd, CcdGrayCcdEmulated}
}

type AdfOption string

const (
	AdfDetectPaperLoaded  AdfOption = "DetectPaperLoaded"
	AdfSelectSinglePage   AdfOption = "SelectSinglePage"
	AdfDuplex             AdfOption = "Duplex"
	AdfMultipickDetection AdfOption = "MultipickDetection"
)

func (AdfOption) Values() []AdfOption {
	return []AdfOption{AdfDetectPaperLoaded, AdfSelectSinglePage, AdfDuplex, AdfMultipickDetection}
}

// Edge is a document edge the scanner can detect.
type Edge string

const (
	TopEdge    Edge = "TopEdge"
	BottomEdge Edge = "BottomEdge"
	LeftEdge   Edge = "LeftEdge"
	RightEdge  Edge = "RightEdge"
)

func (Edge) Values() []Edge { return []Edge{TopEdge, BottomEdge, LeftEdge, RightEdge} }

type InputSource string

const (
	// Platen is the flatbed glass.
	Platen InputSource = "Platen"
	// Feeder is the automatic document feeder.
	Feeder InputSource = "Feeder"
	// Camera is a camera based scanner.
	Camera InputSource = "Camera"
)

func (InputSource) Values() []InputSource { return []InputSource{Platen, Feeder, Camera} }

type BinaryRendering string

const (
	Halftone  BinaryRendering = "Halftone"
	Threshold BinaryRendering = "Threshold"
)

func (BinaryRendering) Values() []BinaryRendering { return []BinaryRendering{Halftone, Threshold} }

type FeedDirection string

const (
	LongEdgeFeed  FeedDirection = "LongEdgeFeed"
	ShortEdgeFeed FeedDirection = "ShortEdgeFeed"
)

func (FeedDirection) Values() []FeedDirection { return []FeedDirection{LongEdgeFeed, ShortEdgeFeed} }

// ScannerState is the overall state of the scanner.
type ScannerState string

const (
	// StateIdle means the scanner is ready for a job.
	StateIdle ScannerState = "Idle"
	// StateProcessing means the scanner is busy with a job or other activity.
	StateProcessing ScannerState = "Processing"
	// StateTesting means the scanner is calibrating or warming up.
	StateTesting ScannerState = "Testing"
	// StateStopped means an error condition occurred.
	StateStopped ScannerState = "Stopped"
	// StateDown means the scanner is unavailable.
	StateDown ScannerState = "Down"
)

func (ScannerState) Values() []ScannerState {
	return []ScannerState{StateIdle, StateProcessing, StateTesting, StateStopped, StateDown}
}

// AdfState is the state of the document feeder. Every state but
// AdfProcessing, AdfEmpty and AdfLoaded needs user attention.
type AdfState string

const (
	AdfProcessing          AdfState = "ScannerAdfProcessing"
	AdfEmpty               AdfState = "ScannerAdfEmpty"
	AdfJam                 AdfState = "ScannerAdfJam"
	AdfLoaded              AdfState = "ScannerAdfLoaded"
	AdfMispick             AdfState = "ScannerAdfMispick"
	AdfHatchOpen           AdfState = "ScannerAdfHatchOpen"
	AdfDuplexPageTooShort  AdfState = "ScannerAdfDuplexPageTooShort"
	AdfDuplexPageTooLong   AdfState = "ScannerAdfDuplexPageTooLong"
	AdfMultipickDetected   AdfState = "ScannerAdfMultipickDetected"
	AdfInputTrayFailed     AdfState = "ScannerAdfInputTrayFailed"
	AdfInputTrayOverloaded AdfState = "ScannerAdfInputTrayOverloaded"
)

func (AdfState) Values() []AdfState {
	return []AdfState{AdfProcessing, AdfEmpty, AdfJam, AdfLoaded, AdfMispick, AdfHatchOpen,
		AdfDuplexPageTooShort, AdfDuplexPageTooLong, AdfMultipickDetected,
		AdfInputTrayFailed, AdfInputTrayOverloaded}
}

// JobState is the state of a scan job.
type JobState string

const (
	// JobCanceled is terminal: the job was canceled by a client or at the device.
	JobCanceled JobState = "Canceled"
	// JobAborted is terminal: a device, communication or security error ended the job.
	JobAborted JobState = "Aborted"
	// JobCompleted is terminal: the job finished successfully.
	JobCompleted JobState = "Completed"
	// JobPending means the scanner is preparing to scan.
	JobPending JobState = "Pending"
	// JobProcessing means the scanner is scanning and transferring images.
	JobProcessing JobState = "Processing"
)

func (JobState) Values() []JobState {
	return []JobState{JobCanceled, JobAborted, JobCompleted, JobPending, JobProcessing}
}

// Terminal reports whether no further state changes will occur.
func (s JobState) Terminal() bool {
	return s == JobCanceled || s == JobAborted || s == JobCompleted
}
