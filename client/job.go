package client

import (
	"context"
	"sync/atomic"

	"github.com/andaru/escl/model"
)

// ScanJob is a job created by Client.CreateJob.
type ScanJob struct {
	c         *Client
	uri       string
	settings  *model.ScanSettings
	cancelled atomic.Bool
}

// URI returns the job URI, always with a trailing slash.
func (j *ScanJob) URI() string { return j.uri }

// Settings returns the settings the job was created with.
func (j *ScanJob) Settings() *model.ScanSettings { return j.settings }

// Cancelled reports whether Cancel has succeeded.
func (j *ScanJob) Cancelled() bool { return j.cancelled.Load() }

// Status fetches the scanner status and returns this job's entry. found
// is false if the scanner no longer reports the job.
func (j *ScanJob) Status(ctx context.Context) (info *model.JobInfo, found bool, err error) {
	res, err := j.c.Status(ctx)
	if err != nil {
		return nil, false, err
	}
	info, found = res.Value.FindJob(j.uri)
	return info, found, nil
}

// NextPage retrieves the job's next page.
func (j *ScanJob) NextPage(ctx context.Context) (*Page, error) { return j.c.NextPage(ctx, j.uri) }

// ImageInfo fetches the ScanImageInfo of the most recent page.
func (j *ScanJob) ImageInfo(ctx context.Context) (*Result[model.ScanImageInfo], error) {
	return j.c.ScanImageInfo(ctx, j.uri)
}

// Cancel deletes the job. Cancelled only becomes true once the scanner
// has accepted the deletion.
func (j *ScanJob) Cancel(ctx context.Context) error {
	if err := j.c.DeleteJob(ctx, j.uri); err != nil {
		return err
	}
	j.cancelled.Store(true)
	return nil
}
