// cmd/hours/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/calendar"
	"github.com/codr1/openhours/internal/config"
	"github.com/codr1/openhours/internal/display"
	"github.com/codr1/openhours/internal/hours"
)

// createFile opens the calendar output; replaced in tests.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

type options struct {
	configPath string
	businessTZ string
	viewerTZ   string
	at         string
	icsPath    string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Path to config.yaml (standard Mon-Sat 07:30-18:00 schedule when empty)")
	flag.StringVar(&opts.businessTZ, "business-tz", config.DefaultBusinessTimezone, "Business timezone when no config is given")
	flag.StringVar(&opts.viewerTZ, "tz", "", "Viewer timezone (config default, else process zone, when empty)")
	flag.StringVar(&opts.at, "at", "", "Evaluate at this RFC 3339 instant instead of now")
	flag.StringVar(&opts.icsPath, "ics", "", "Write the next opening as an .ics file to this path")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := run(os.Stdout, opts, time.Now()); err != nil {
		log.Fatal().Err(err).Msg("hours failed")
	}
}

func run(out io.Writer, opts options, now time.Time) error {
	name, engine, viewer, err := loadEngine(opts)
	if err != nil {
		return err
	}

	if opts.viewerTZ != "" {
		viewer, err = display.ResolveViewer(opts.viewerTZ)
		if err != nil {
			return err
		}
	}

	if opts.at != "" {
		now, err = time.Parse(time.RFC3339, opts.at)
		if err != nil {
			return fmt.Errorf("invalid -at: %w", err)
		}
	}

	status := engine.Evaluate(now)
	badge := display.NewBadge(status, viewer)
	line := display.NewStatusLine(status, viewer)

	fmt.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "%s\n%s\n\n", badge.Main, badge.Sub)
	fmt.Fprintf(out, "Status: %s\n", line.State)
	if line.Open && line.ClosesAt != "" {
		fmt.Fprintf(out, "Closes: %s\n", line.ClosesAt)
	}
	if !line.Open {
		fmt.Fprintf(out, "Next opening: %s\n", line.NextOpening)
	}
	fmt.Fprintf(out, "%s\n\n", display.TimezoneText(viewer))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, row := range display.WeekRows(engine.Week(now), viewer) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Day, row.Date, row.Hours)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.icsPath == "" {
		return nil
	}
	opening, ok := engine.NextOpening(now)
	if !ok {
		return fmt.Errorf("next opening: %s", display.NextOpenUnavailable)
	}
	file, err := createFile(opts.icsPath)
	if err != nil {
		return fmt.Errorf("create calendar file: %w", err)
	}
	if err := calendar.Encode(file, now, calendar.NextOpeningEvent(name, "", opening)); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close calendar file: %w", err)
	}
	log.Info().Str("path", opts.icsPath).Time("opening", opening).Msg("Calendar file written")
	return nil
}

// loadEngine builds the engine and the default viewer, from config when one
// is given.
func loadEngine(opts options) (string, *hours.Engine, display.Viewer, error) {
	if opts.configPath == "" {
		loc, err := time.LoadLocation(opts.businessTZ)
		if err != nil {
			return "", nil, display.Viewer{}, fmt.Errorf("business timezone %q: %w", opts.businessTZ, err)
		}
		engine, err := hours.NewEngine(hours.StandardSchedule(), loc)
		return "Business hours", engine, display.LocalViewer(), err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return "", nil, display.Viewer{}, err
	}
	engine, err := hours.NewEngine(cfg.Schedule(), cfg.BusinessLocation())
	return cfg.Business.Name, engine, display.NewViewer(cfg.ViewerLocation()), err
}
