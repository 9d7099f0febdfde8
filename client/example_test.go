package client_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/OpenPrinting/go-mfp/util/optional"
	"github.com/pkg/errors"

	"github.com/andaru/escl/client"
	"github.com/andaru/escl/model"
	"github.com/andaru/escl/units"
)

func Example() {
	ctx := context.Background()
	c, err := client.New("http://192.168.1.20/eSCL/")
	if err != nil {
		log.Fatal(err)
	}
	caps, err := c.Capabilities(ctx)
	if err != nil {
		log.Fatal(err)
	}
	platen, ok := caps.Value.SourceCaps(model.Platen, false)
	if !ok {
		log.Fatal("no platen")
	}

	region := model.NewRegionBuilder(platen).
		Width(units.Millimeters(210)).
		Height(units.Millimeters(297)).
		Build()
	job, err := c.CreateJob(ctx, &model.ScanSettings{
		Version:           "2.63",
		Intent:            optional.New(model.Known(model.IntentDocument)),
		ScanRegions:       optional.New(region),
		DocumentFormatExt: optional.New("image/jpeg"),
		InputSource:       optional.New(model.Known(model.Platen)),
		XResolution:       optional.New(uint(300)),
		YResolution:       optional.New(uint(300)),
		ColorMode:         optional.New(model.Known(model.RGB24)),
	})
	if err != nil {
		log.Fatal(err)
	}

	for n := 1; ; n++ {
		page, err := job.NextPage(ctx)
		if errors.Is(err, client.ErrNoFurtherPages) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		name := filepath.Join(os.TempDir(), fmt.Sprintf("page-%d.jpg", n))
		if err := os.WriteFile(name, page.Data, 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
