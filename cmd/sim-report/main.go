package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"solar_tracker/internal/config"
	"solar_tracker/internal/ingest"
	"solar_tracker/internal/model"
	"solar_tracker/internal/simulator"
	"solar_tracker/internal/timeline"
)

func main() {
	configPath := flag.String("config", "", "simulation config file (yaml or json); defaults when empty")
	samplesFile := flag.String("samples", "", "irradiance CSV export; synthetic data when empty")
	syntheticDays := flag.Int("synthetic-days", 30, "days of synthetic irradiance when no samples are given")
	windowHours := flag.Float64("window", 24, "trailing window for the closing aggregate")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Loading config: %v", err)
		}
		cfg = *loaded
	}

	var samples []model.IrradianceSample
	if *samplesFile != "" {
		f, err := os.Open(*samplesFile)
		if err != nil {
			log.Fatalf("Opening %s: %v", *samplesFile, err)
		}
		samples, err = (&ingest.CSVParser{}).Parse(f)
		f.Close()
		if err != nil {
			log.Fatalf("Parsing %s: %v", *samplesFile, err)
		}
	} else {
		samples = ingest.Synthetic(*syntheticDays, cfg.SimulationEnd)
	}

	result, err := simulator.Run(cfg, samples)
	if err != nil {
		log.Fatalf("Simulation: %v", err)
	}

	index, err := timeline.New(result.Rows)
	if err != nil {
		log.Fatalf("Indexing timeline: %v", err)
	}

	tr := index.TimeRange()
	days := tr.End.Sub(tr.Start).Hours() / 24

	fmt.Println()
	fmt.Println("Simulation Report")
	fmt.Printf("  Horizon: %s to %s (%.1f days, %d rows)\n",
		tr.Start.Format("2006-01-02 15:04"), tr.End.Format("2006-01-02 15:04"), days, index.Len())
	fmt.Printf("  Installation: %.2f kWp at %.0f%% efficiency, battery %.1f kWh (floor %.1f kWh)\n",
		cfg.InstalledCapacityKWp, cfg.PanelEfficiency*100, cfg.BatteryCapacityKWh, cfg.MinBatteryKWh)
	fmt.Println()

	if len(result.Warnings) > 0 {
		fmt.Println("=== Warnings ===")
		for _, w := range result.Warnings {
			fmt.Printf("  [%s] %s\n", w.Code, w.Message)
		}
		fmt.Println()
	}

	fmt.Println("=== Totals ===")
	horizonHours := tr.End.Sub(tr.Start).Hours()
	totalGen := index.WindowSum(model.FieldGenerated, tr.End, horizonHours)
	totalLoad := index.WindowSum(model.FieldLoad, tr.End, horizonHours)
	fmt.Printf("  Generated: %8.2f kWh\n", totalGen)
	fmt.Printf("  Consumed:  %8.2f kWh\n", totalLoad)
	fmt.Printf("  Curtailed: %8.2f kWh\n", result.CurtailedKWh)
	fmt.Printf("  Unmet:     %8.2f kWh\n", result.UnmetKWh)

	last := index.Row(index.Len() - 1)
	fmt.Printf("  Final battery level: %.2f kWh (%.0f%% of capacity)\n",
		last.BatteryLevelKWh, last.BatteryLevelKWh/cfg.BatteryCapacityKWh*100)
	fmt.Println()

	fmt.Println("=== Per Day ===")
	fmt.Println("  Date         Gen kWh   Load kWh   End level")
	for _, d := range perDayLines(index) {
		fmt.Printf("  %s  %7.2f    %7.2f      %6.2f\n",
			d.Date, d.GenKWh, d.LoadKWh, d.EndLevelKWh)
	}
	fmt.Println()

	idx, ts, clamped := index.Nearest(tr.End)
	closing := index.WindowSum(model.FieldGenerated, ts, *windowHours)
	fmt.Printf("Trailing %.0fh generation at %s: %.2f kWh (row %d", *windowHours, ts.Format("2006-01-02 15:04"), closing, idx)
	if clamped {
		fmt.Print(", boundary clamped")
	}
	fmt.Println(")")
}

type dayLine struct {
	Date        string
	GenKWh      float64
	LoadKWh     float64
	EndLevelKWh float64
}

// perDayLines aggregates the timeline into one line per calendar day. Each
// day's window runs from that day's own start, so a trailing partial day only
// counts its own rows instead of reaching back into the previous line.
func perDayLines(index *timeline.Index) []dayLine {
	tr := index.TimeRange()

	var lines []dayLine
	for dayStart := tr.Start; !dayStart.After(tr.End); dayStart = dayStart.AddDate(0, 0, 1) {
		dayEnd := dayStart.Add(23 * time.Hour)
		if dayEnd.After(tr.End) {
			dayEnd = tr.End
		}
		idx, ts, _ := index.Nearest(dayEnd)
		hours := ts.Sub(dayStart).Hours()
		lines = append(lines, dayLine{
			Date:        ts.Format("2006-01-02"),
			GenKWh:      index.WindowSum(model.FieldGenerated, ts, hours),
			LoadKWh:     index.WindowSum(model.FieldLoad, ts, hours),
			EndLevelKWh: index.Row(idx).BatteryLevelKWh,
		})
	}
	return lines
}
