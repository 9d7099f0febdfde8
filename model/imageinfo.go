package model

import (
	"io"

	"github.com/OpenPrinting/go-mfp/util/optional"
	"github.com/google/uuid"

	"github.com/andaru/escl/schema"
)

// ScanImageInfo describes the page most recently retrieved from a job.
// Dimensions are in pixels.
type ScanImageInfo struct {
	JobURI             string
	JobUUID            uuid.UUID
	ActualWidth        uint
	ActualHeight       uint
	ActualBytesPerLine uint
	BlankPageDetected  optional.Val[bool]
}

// DecodeScanImageInfo decodes a ScanImageInfo document.
func DecodeScanImageInfo(r io.Reader) (*ScanImageInfo, []schema.UnknownInput, error) {
	info := &ScanImageInfo{}
	res, err := schema.Decode(r, elem(scan("ScanImageInfo"),
		text(pwg("JobUri"), schema.String(&info.JobURI), schema.Required),
		text(pwg("JobUuid"), setUUID(&info.JobUUID)),
		text(scan("ActualWidth"), setUint(&info.ActualWidth), schema.Required),
		text(scan("ActualHeight"), setUint(&info.ActualHeight), schema.Required),
		text(scan("ActualBytesPerLine"), setUint(&info.ActualBytesPerLine), schema.Required),
		text(scan("BlankPageDetected"), optBool(&info.BlankPageDetected)),
	))
	if err != nil {
		return nil, res.Unknown, err
	}
	return info, res.Unknown, nil
}
