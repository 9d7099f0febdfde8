package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/andaru/escl/client"
	"github.com/andaru/escl/internal/config"
	"github.com/andaru/escl/internal/pdf"
	"github.com/andaru/escl/model"
	"github.com/andaru/escl/units"
)

// newBackOff paces NextPage retries while the scanner is busy.
var newBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

const cancelTimeout = 10 * time.Second

type scanOptions struct {
	profile string
	p       config.Profile
	output  string
	pdfPath string
	retries uint64
}

func (a *app) scanCommand() *cobra.Command {
	var o scanOptions
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan pages to files",
		Long: `Scan creates a scan job from a profile, retrieves every page and
writes them to <output>-<n>.<ext>, or combines them into one PDF with --pdf.

Flags override the profile's settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.cfg.Profile(o.profile)
			if err != nil {
				return err
			}
			return a.scan(cmd, o.override(cmd, p), o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.profile, "profile", "p", config.DefaultProfile, "scan profile from the configuration")
	f.StringVar(&o.p.Source, "source", "", "input source (platen, adf, camera)")
	f.BoolVar(&o.p.Duplex, "duplex", false, "scan both sides from the feeder")
	f.UintVarP(&o.p.Resolution, "resolution", "r", 0, "resolution in DPI")
	f.StringVar(&o.p.ColorMode, "color-mode", "", "color, grayscale, binary or an eSCL color mode")
	f.StringVar(&o.p.Format, "format", "", "document format, such as image/jpeg")
	f.StringVar(&o.p.Intent, "intent", "", "scan intent, such as Document or Photo")
	f.Float64Var(&o.p.Width, "width", 0, "region width in millimeters (0 for the maximum)")
	f.Float64Var(&o.p.Height, "height", 0, "region height in millimeters (0 for the maximum)")
	f.StringVarP(&o.output, "output", "o", "scan", "output file prefix")
	f.StringVar(&o.pdfPath, "pdf", "", "combine the pages into this PDF file")
	f.Uint64Var(&o.retries, "retries", 20, "NextDocument retries while the scanner is busy")
	return cmd
}

// override applies the flags set on the command line to p.
func (o scanOptions) override(cmd *cobra.Command, p config.Profile) config.Profile {
	f := cmd.Flags()
	if f.Changed("source") {
		p.Source = o.p.Source
	}
	if f.Changed("duplex") {
		p.Duplex = o.p.Duplex
	}
	if f.Changed("resolution") {
		p.Resolution = o.p.Resolution
	}
	if f.Changed("color-mode") {
		p.ColorMode = o.p.ColorMode
	}
	if f.Changed("format") {
		p.Format = o.p.Format
	}
	if f.Changed("intent") {
		p.Intent = o.p.Intent
	}
	if f.Changed("width") {
		p.Width = o.p.Width
	}
	if f.Changed("height") {
		p.Height = o.p.Height
	}
	return p
}

type scannedPage struct {
	*client.Page
	info *model.ScanImageInfo
}

func (a *app) scan(cmd *cobra.Command, p config.Profile, o scanOptions) error {
	if o.pdfPath != "" && !pdf.Supported(p.Format) {
		return errors.Errorf("--pdf needs image/jpeg or image/png pages, not %q", p.Format)
	}
	c, err := a.client()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	caps, err := c.Capabilities(ctx)
	if err != nil {
		return err
	}
	settings, err := p.Settings(caps.Value)
	if err != nil {
		return err
	}
	job, err := c.CreateJob(ctx, settings)
	if err != nil {
		return err
	}
	a.logger.Info("scan job created", "job", job.URI())

	pages, err := a.retrievePages(ctx, job, o.retries)
	if err != nil {
		a.abandonJob(ctx, job)
		return err
	}
	if len(pages) == 0 {
		return errors.New("the scanner returned no pages")
	}
	if info, found, err := job.Status(ctx); err == nil && found {
		a.logger.Debug("scan job finished", "job", job.URI(), "state", info.JobState.String(), "images", info.ImagesCompleted)
	}

	var files []string
	if o.pdfPath != "" {
		err = writePDF(o.pdfPath, pages, settings)
		files = append(files, o.pdfPath)
	} else {
		files, err = writePages(o.output, pages)
	}
	if err != nil {
		return err
	}
	v := struct {
		Job   string   `json:"job"`
		Pages int      `json:"pages"`
		Files []string `json:"files"`
	}{job.URI(), len(pages), files}
	return a.output(cmd.OutOrStdout(), v, func(w io.Writer) {
		fmt.Fprintf(w, "Scanned %d page(s)\n", len(pages))
		for _, f := range files {
			fmt.Fprintln(w, f)
		}
	})
}

func (a *app) cancelJob(ctx context.Context, job *client.ScanJob) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
	defer cancel()
	if err := job.Cancel(ctx); err != nil {
		a.logger.Warn("scan job cancel failed", "job", job.URI(), "err", err)
		return
	}
	a.logger.Info("scan job cancelled", "job", job.URI())
}

// abandonJob cancels job unless the scanner already reports it in a
// terminal state.
func (a *app) abandonJob(ctx context.Context, job *client.ScanJob) {
	if ctx.Err() == nil {
		sctx, cancel := context.WithTimeout(ctx, cancelTimeout)
		info, found, err := job.Status(sctx)
		cancel()
		if err == nil && found {
			if state, ok := info.JobState.Value(); ok && state.Terminal() {
				a.logger.Debug("scan job already finished", "job", job.URI(), "state", info.JobState.String())
				return
			}
		}
	}
	a.cancelJob(ctx, job)
}

func (a *app) retrievePages(ctx context.Context, job *client.ScanJob, retries uint64) ([]scannedPage, error) {
	var pages []scannedPage
	for {
		page, err := nextPage(ctx, job, retries)
		if errors.Is(err, client.ErrNoFurtherPages) {
			return pages, nil
		}
		if err != nil {
			return pages, err
		}
		sp := scannedPage{Page: page}
		if res, err := job.ImageInfo(ctx); err == nil {
			sp.info = res.Value
		} else {
			a.logger.Debug("no image info", "job", job.URI(), "err", err)
		}
		pages = append(pages, sp)
		a.logger.Info("page received", "page", len(pages), "type", page.ContentType, "bytes", len(page.Data))
	}
}

// nextPage retries NextPage while the scanner answers 503.
func nextPage(ctx context.Context, job *client.ScanJob, retries uint64) (*client.Page, error) {
	var page *client.Page
	var final error
	b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), retries), ctx)
	err := backoff.Retry(func() error {
		p, err := job.NextPage(ctx)
		if busy(err) {
			return err
		}
		page, final = p, err
		return nil
	}, b)
	if err != nil {
		return nil, err
	}
	return page, final
}

func busy(err error) bool {
	return client.KindOf(err) == client.KindRequestFailure && client.StatusCode(err) == 503
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/tiff":      ".tiff",
	"application/pdf": ".pdf",
}

func extension(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".bin"
	}
	if ext, ok := extensions[strings.ToLower(mt)]; ok {
		return ext
	}
	return ".bin"
}

func writePages(prefix string, pages []scannedPage) ([]string, error) {
	var files []string
	for i, p := range pages {
		name := fmt.Sprintf("%s-%d%s", prefix, i+1, extension(p.ContentType))
		if err := os.WriteFile(name, p.Data, 0o644); err != nil {
			return files, errors.Wrap(err, "write page")
		}
		files = append(files, name)
	}
	return files, nil
}

func writePDF(path string, pages []scannedPage, s *model.ScanSettings) error {
	out := make([]pdf.Page, 0, len(pages))
	for _, p := range pages {
		w, h := pageSize(p, s)
		out = append(out, pdf.Page{ContentType: p.ContentType, Data: p.Data, Width: w, Height: h})
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := pdf.Write(f, out); err != nil {
		f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

// pageSize uses the page's image info, falling back to the requested
// scan region.
func pageSize(p scannedPage, s *model.ScanSettings) (width, height units.Length) {
	var xres, yres uint
	if s.XResolution != nil && s.YResolution != nil {
		xres, yres = *s.XResolution, *s.YResolution
	}
	if w, h, ok := pdf.Size(p.info, xres, yres); ok {
		return w, h
	}
	if s.ScanRegions != nil && len((*s.ScanRegions).Regions) > 0 {
		r := (*s.ScanRegions).Regions[0]
		return r.Width, r.Height
	}
	return nil, nil
}
