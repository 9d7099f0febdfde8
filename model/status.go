package model

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/OpenPrinting/go-mfp/util/optional"

	"github.com/andaru/escl/schema"
)

// ScannerStatus is the ScannerStatus document.
type ScannerStatus struct {
	Version  string
	State    OrRaw[ScannerState]
	Jobs     []JobInfo
	AdfState optional.Val[OrRaw[AdfState]]
}

// JobInfo is the state of one job known to the scanner.
type JobInfo struct {
	JobURI  string
	JobUUID string
	// Age is the number of seconds since the job info last changed.
	Age                uint
	ImagesCompleted    uint
	ImagesToTransfer   optional.Val[uint]
	TransferRetryCount optional.Val[uint]
	JobState           OrRaw[JobState]
	JobStateReasons    []string
}

// FindJob returns the job whose URI is uri, ignoring trailing slashes.
func (s *ScannerStatus) FindJob(uri string) (*JobInfo, bool) {
	want := strings.TrimRight(uri, "/")
	for i := range s.Jobs {
		if strings.TrimRight(s.Jobs[i].JobURI, "/") == want {
			return &s.Jobs[i], true
		}
	}
	return nil, false
}

// DecodeScannerStatus decodes a ScannerStatus document.
func DecodeScannerStatus(r io.Reader) (*ScannerStatus, []schema.UnknownInput, error) {
	s := &ScannerStatus{}
	res, err := schema.Decode(r, statusSchema(s))
	if err != nil {
		return nil, res.Unknown, err
	}
	return s, res.Unknown, nil
}

func statusSchema(s *ScannerStatus) *schema.Node {
	var job JobInfo
	jobInfo := elem(scan("JobInfo"),
		text(pwg("JobUri"), schema.String(&job.JobURI), schema.Required),
		text(pwg("JobUuid"), schema.String(&job.JobUUID)),
		text(scan("Age"), setUint(&job.Age)),
		text(pwg("ImagesCompleted"), setUint(&job.ImagesCompleted)),
		text(pwg("ImagesToTransfer"), optUint(&job.ImagesToTransfer)),
		text(scan("TransferRetryCount"), optUint(&job.TransferRetryCount)),
		text(pwg("JobState"), setEnum(&job.JobState), schema.Required),
		elem(pwg("JobStateReasons"), text(pwg("JobStateReason"), schema.Strings(&job.JobStateReasons))),
	)
	jobInfo.Start = func(xml.StartElement) error { job = JobInfo{}; return nil }
	jobInfo.End = func() error { s.Jobs = append(s.Jobs, job); return nil }

	return elem(scan("ScannerStatus"),
		text(pwg("Version"), schema.String(&s.Version), schema.Required),
		text(pwg("State"), setEnum(&s.State), schema.Required),
		elem(scan("Jobs"), jobInfo),
		text(scan("AdfState"), optEnum(&s.AdfState)),
	)
}
