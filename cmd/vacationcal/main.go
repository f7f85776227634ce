package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"vacationcal/internal/capture"
	"vacationcal/internal/config"
	"vacationcal/internal/geometry"
	"vacationcal/internal/layout"
	appLog "vacationcal/internal/log"
	"vacationcal/internal/model"
	"vacationcal/internal/render"
	"vacationcal/internal/source"
	"vacationcal/internal/web"
	"vacationcal/internal/window"
)

// flagConfig holds CLI flag values; non-empty values override the config
// file.
type flagConfig struct {
	configPath string
	csvPath    string
	outputSVG  string
	outputPNG  string
	anchor     string
	listen     string
	serve      bool
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("vacationcal starting", "version", "0.1.0")

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	applyOverrides(cfg, flags)

	var anchor model.Date
	if flags.anchor != "" {
		anchor, err = model.ParseDate(flags.anchor)
		if err != nil {
			appLog.Error("invalid -date flag, expected YYYY/MM/DD", err, "value", flags.anchor)
			os.Exit(1)
		}
	}

	appLog.Info("effective config",
		"csv", cfg.CSVPath,
		"ics_count", len(cfg.ICS),
		"output_svg", cfg.OutputSVG,
		"output_png", cfg.OutputPNG,
		"serve", flags.serve,
		"listen", cfg.Listen,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if !flags.serve {
		if err := renderOnce(ctx, cfg, anchor); err != nil {
			appLog.Error("render failed", err)
			os.Exit(1)
		}
		appLog.Info("vacationcal done", "output", cfg.OutputSVG)
		return
	}

	runServe(ctx, cfg, anchor)
	appLog.Info("vacationcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "vacationcal.yaml", "Path to config file")
	flag.StringVar(&cfg.csvPath, "csv", "", "Vacation CSV file (overrides config if set)")
	flag.StringVar(&cfg.outputSVG, "out", "", "Output SVG path (overrides config if set)")
	flag.StringVar(&cfg.outputPNG, "png", "", "Output PNG path; enables Chromium capture (overrides config if set)")
	flag.StringVar(&cfg.anchor, "date", "", "Anchor date YYYY/MM/DD (defaults to today)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address for -serve (overrides config if set)")
	flag.BoolVar(&cfg.serve, "serve", false, "Run the preview server with periodic re-renders")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()
	return cfg
}

func applyOverrides(cfg *config.Config, flags flagConfig) {
	if flags.csvPath != "" {
		cfg.CSVPath = flags.csvPath
	}
	if flags.outputSVG != "" {
		cfg.OutputSVG = flags.outputSVG
	}
	if flags.outputPNG != "" {
		cfg.OutputPNG = flags.outputPNG
	}
	if flags.listen != "" {
		cfg.Listen = flags.listen
	}
}

// computeLayout runs one full layout pass: load events, compute the window,
// pack rows, synthesize bands and render the document. A zero anchor means
// today in the configured zone.
func computeLayout(ctx context.Context, cfg *config.Config, anchor model.Date) (*web.Result, *geometry.Mapper, error) {
	loc := cfg.Location()
	if anchor.IsZero() {
		anchor = model.DateOf(time.Now().In(loc))
	}

	win := window.Compute(anchor)

	events, colors := source.Load(ctx, source.Options{
		CSVPath:      cfg.CSVPath,
		Feeds:        cfg.ICS,
		CacheDir:     cfg.CacheDir,
		Location:     loc,
		HorizonStart: win.Start(),
		HorizonEnd:   win.End(),
	})

	packed, occ := layout.Pack(events, win)
	bands := layout.Synthesize(occ, colors)
	mapper := geometry.NewMapper(cfg.Geometry, occ.MaxRows())

	appLog.Debug("layout computed",
		"anchor", anchor.String(),
		"window_start", win.Start().String(),
		"window_end", win.End().String(),
		"packed_events", len(packed),
		"bands", len(bands),
		"max_rows", occ.MaxRows(),
	)

	doc := render.Document(render.Options{
		Window:        win,
		Today:         anchor,
		Bands:         bands,
		Mapper:        mapper,
		WeekdayLabels: cfg.WeekdayLabels,
	})

	return &web.Result{SVG: doc, Window: win, Bands: bands}, mapper, nil
}

// renderOnce computes the layout and writes the SVG (and PNG when
// configured) to disk.
func renderOnce(ctx context.Context, cfg *config.Config, anchor model.Date) error {
	res, mapper, err := computeLayout(ctx, cfg, anchor)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.OutputSVG, []byte(res.SVG), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	appLog.Info("svg written", "path", cfg.OutputSVG)

	if cfg.OutputPNG == "" {
		return nil
	}
	err = capture.SVGToPNG(ctx, capture.Options{
		SVGPath:    cfg.OutputSVG,
		OutputPath: cfg.OutputPNG,
		Width:      mapper.CanvasWidth(),
		Height:     mapper.CanvasHeight(),
	})
	if err != nil {
		return fmt.Errorf("png capture: %w", err)
	}
	appLog.Info("png written", "path", cfg.OutputPNG)
	return nil
}

// runServe renders once, then keeps the preview server and the cron refresh
// loop running until the context is canceled.
func runServe(ctx context.Context, cfg *config.Config, anchor model.Date) {
	if err := renderOnce(ctx, cfg, anchor); err != nil {
		appLog.Error("initial render failed", err)
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.RefreshCron, func() {
		if err := renderOnce(ctx, cfg, anchor); err != nil {
			appLog.Error("scheduled render failed", err)
		}
	})
	if err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", cfg.RefreshCron)
	} else {
		c.Start()
		defer c.Stop()
		appLog.Info("refresh schedule started", "refresh", cfg.RefreshCron)
	}

	srv := web.NewServer(cfg, func(ctx context.Context, a model.Date) (*web.Result, error) {
		if a.IsZero() {
			a = anchor
		}
		res, _, err := computeLayout(ctx, cfg, a)
		return res, err
	})
	go func() {
		if err := srv.Start(); err != nil {
			appLog.Error("HTTP server stopped", err)
		}
	}()

	<-ctx.Done()
	time.Sleep(100 * time.Millisecond)
}
