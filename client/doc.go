/*
Package client is an eSCL (AirScan) protocol client.

A Client is created for a scanner's base URL, usually found with package
discovery. It fetches the scanner's capabilities and status, creates scan
jobs from model.ScanSettings and retrieves the pages those jobs produce.

	c, err := client.New("http://192.168.1.20/eSCL/")
	caps, err := c.Capabilities(ctx)
	job, err := c.CreateJob(ctx, settings)
	for {
		page, err := job.NextPage(ctx)
		if errors.Is(err, client.ErrNoFurtherPages) {
			break
		}
		...
	}

Every operation returns an *Error whose Kind classifies the failure.
Operations never panic; an unexpected condition is returned as
KindInternalBug and logged at error level.
*/
package client
