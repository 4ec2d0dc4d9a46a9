package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solar_tracker/internal/config"
	"solar_tracker/internal/ingest"
	"solar_tracker/internal/logging"
	"solar_tracker/internal/model"
	"solar_tracker/internal/simulator"
	"solar_tracker/internal/timeline"
	"solar_tracker/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "simulation config file (yaml or json); defaults when empty")
	samplesDir := flag.String("samples-dir", "", "directory with irradiance CSV exports; synthetic data when empty")
	syntheticDays := flag.Int("synthetic-days", 30, "days of synthetic irradiance when no samples are given")
	frontendDir := flag.String("frontend-dir", "frontend/build", "directory containing frontend build")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	_ = godotenv.Load()
	log := logging.New("server")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Errorf("loading config: %v", err)
		os.Exit(1)
	}

	samples, err := loadSamples(*samplesDir, *syntheticDays, cfg.SimulationEnd, log)
	if err != nil {
		log.Errorf("loading samples: %v", err)
		os.Exit(1)
	}
	log.Infof("loaded %d irradiance samples", len(samples))

	result, err := simulator.Run(*cfg, samples)
	if err != nil {
		log.Errorf("simulation: %v", err)
		os.Exit(1)
	}
	for _, w := range result.Warnings {
		log.Warnf("%s: %s", w.Code, w.Message)
	}

	index, err := timeline.New(result.Rows)
	if err != nil {
		log.Errorf("indexing timeline: %v", err)
		os.Exit(1)
	}
	tr := index.TimeRange()
	log.Infof("simulated %d rows: %s to %s", index.Len(),
		tr.Start.Format("2006-01-02 15:04"), tr.End.Format("2006-01-02 15:04"))

	hub := ws.NewHub(log)
	bridge := ws.NewBridge(hub, log)
	player := simulator.NewPlayer(index, result, cfg.BatteryCapacityKWh, bridge)
	handler := ws.NewHandler(hub, player, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", handler)

	if _, err := os.Stat(*frontendDir); err == nil {
		log.Infof("serving frontend from %s", *frontendDir)
		mux.Handle("/", http.FileServer(http.Dir(*frontendDir)))
	}

	log.Infof("starting server on %s", *addr)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Errorf("server: %v", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.SimulationConfig, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}

// loadSamples reads every CSV export from dir, or generates synthetic data
// covering the simulation horizon when no directory is given.
func loadSamples(dir string, syntheticDays int, end time.Time, log logging.Logger) ([]model.IrradianceSample, error) {
	if dir == "" {
		log.Infof("no samples directory, generating %d synthetic days", syntheticDays)
		return ingest.Synthetic(syntheticDays, end), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading samples directory: %w", err)
	}

	parser := &ingest.CSVParser{}
	var samples []model.IrradianceSample
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}

		parsed, err := parser.Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		log.Infof("loaded %d samples from %s", len(parsed), entry.Name())
		samples = append(samples, parsed...)
	}
	return samples, nil
}
