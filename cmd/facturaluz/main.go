package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/levenlabs/go-llog"

	"github.com/polhenarejos/factura-luz/pkg/billing"
	"github.com/polhenarejos/factura-luz/pkg/calendar"
	"github.com/polhenarejos/factura-luz/pkg/ingest"
	"github.com/polhenarejos/factura-luz/pkg/log"
	"github.com/polhenarejos/factura-luz/pkg/pricing"
	"github.com/polhenarejos/factura-luz/pkg/report"
	"github.com/polhenarejos/factura-luz/pkg/tariff"
	"github.com/polhenarejos/factura-luz/pkg/types"
)

func main() {
	// init packages
	cache := pricing.Configured()

	csvPath := lflag.RequiredString("csv", "Consumption CSV exported from the distributor")
	schemeFlag := lflag.String("scheme", "auto", "Tariff plan (available: auto, 2.0A, 2.0DHA, 2.0DHS, 2.0TD, 2.0TD-CM)")
	ceuta := lflag.Bool("ceuta-melilla", false, "Apply the Ceuta/Melilla hour shift and price series")
	powerFlag := lflag.String("power", "4.6", "Contracted peak power in kW")
	powerValleyFlag := lflag.String("power-valley", "", "Contracted off-peak power in kW (defaults to --power)")
	bonoFlag := lflag.String("bono", "none", "Bono social consumption tier (available: none, 0, 1, 2, 3)")
	severe := lflag.Bool("severe", false, "Severe-vulnerability bono social rate")
	stats := lflag.Bool("stats", false, "Print per-day and per-weekday consumption statistics")
	vatFrom := lflag.String("vat-reduced-from", "", "Override the reduced-VAT window start (YYYY-MM-DD)")
	vatTo := lflag.String("vat-reduced-to", "", "Override the reduced-VAT window end (YYYY-MM-DD)")
	holidaysPath := lflag.String("holidays", "", "TOML holiday calendar overriding the embedded one")
	pdfPath := lflag.String("pdf", "", "Write the invoice as a PDF to this path")
	xlsxPath := lflag.String("xlsx", "", "Write the statistics workbook to this path")

	opts := billing.DefaultOptions()
	lflag.Do(func() {
		var err error
		if opts.Scheme, err = types.ParseScheme(*schemeFlag); err != nil {
			panic(fmt.Sprintf("invalid --scheme: %v", err))
		}
		opts.CeutaMelilla = *ceuta
		if opts.PeakPowerKW, err = strconv.ParseFloat(*powerFlag, 64); err != nil || opts.PeakPowerKW <= 0 {
			panic(fmt.Sprintf("invalid --power: %s", *powerFlag))
		}
		if *powerValleyFlag != "" {
			if opts.OffPeakPowerKW, err = strconv.ParseFloat(*powerValleyFlag, 64); err != nil || opts.OffPeakPowerKW <= 0 {
				panic(fmt.Sprintf("invalid --power-valley: %s", *powerValleyFlag))
			}
		}
		if opts.SubsidyTier, err = billing.ParseSubsidyTier(*bonoFlag); err != nil {
			panic(fmt.Sprintf("invalid --bono: %v", err))
		}
		opts.Severe = *severe
		if *vatFrom != "" {
			if opts.VAT.ReducedFrom, err = parseISODate(*vatFrom); err != nil {
				panic(fmt.Sprintf("invalid --vat-reduced-from: %v", err))
			}
		}
		if *vatTo != "" {
			if opts.VAT.ReducedTo, err = parseISODate(*vatTo); err != nil {
				panic(fmt.Sprintf("invalid --vat-reduced-to: %v", err))
			}
		}
	})

	// parse flags
	lflag.Configure()

	var level slog.Level
	// lflag automatically sets llog's level, but we need to set the slog level
	switch llog.GetLevel() {
	case llog.DebugLevel:
		level = slog.LevelDebug
	case llog.InfoLevel:
		level = slog.LevelInfo
	case llog.WarnLevel:
		level = slog.LevelWarn
	case llog.ErrorLevel:
		level = slog.LevelError
	default:
		panic(fmt.Errorf("unknown log level: %s", llog.GetLevel().String()))
	}
	log.SetDefaultLogLevel(level)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer func() {
		if err := cache.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close price store", "error", err)
		}
	}()

	cal := calendar.New()
	if *holidaysPath != "" {
		var err error
		if cal, err = calendar.Load(*holidaysPath); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to load holiday calendar", "error", err, "path", *holidaysPath)
			os.Exit(1)
		}
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to open consumption csv", "error", err)
		os.Exit(1)
	}
	records, err := ingest.ReadRecords(f)
	f.Close()
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to parse consumption csv", "error", err, "path", *csvPath)
		os.Exit(1)
	}

	engine := billing.NewEngine(cache, tariff.NewClassifier(cal))
	var diags types.Diagnostics
	invoice, err := engine.Compute(ctx, records, opts, &diags)
	for _, d := range diags.Events() {
		log.Ctx(ctx).InfoContext(ctx, d.Message, "date", d.Date.ISO())
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "billing failed", "error", err)
		os.Exit(1)
	}

	report.WriteConsole(os.Stdout, invoice, *stats)

	if *pdfPath != "" {
		b, err := report.BuildInvoicePDF(invoice)
		if err == nil {
			err = os.WriteFile(*pdfPath, b, 0o644)
		}
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to write pdf", "error", err, "path", *pdfPath)
			os.Exit(1)
		}
	}
	if *xlsxPath != "" {
		b, err := report.BuildStatsXLSX(invoice)
		if err == nil {
			err = os.WriteFile(*xlsxPath, b, 0o644)
		}
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to write xlsx", "error", err, "path", *xlsxPath)
			os.Exit(1)
		}
	}
}

func parseISODate(s string) (types.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return types.Date{}, err
	}
	return types.NewDate(y, time.Month(m), d)
}
