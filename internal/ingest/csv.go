package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"solar_tracker/internal/model"
)

// CSVParser parses irradiance exports.
//
// Expected format:
//
//	timestamp,irradiance_w_m2[,more irradiance columns...]
//	2024-06-01T10:00:00Z,512.4,88.1
//
// When a row carries several irradiance component columns (direct, diffuse,
// reflected), they are summed into one magnitude. Rows that fail to parse
// (e.g. an "unavailable" state) are skipped, matching how ragged sensor
// exports behave in practice.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader) ([]model.IrradianceSample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var samples []model.IrradianceSample
	lineNum := 1 // header was line 1

	for {
		lineNum++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV line %d: %w", lineNum, err)
		}

		sample, err := parseRecord(record)
		if err != nil {
			continue
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func validateHeader(header []string) error {
	if len(header) < 2 {
		return fmt.Errorf("expected at least 2 columns, got %d", len(header))
	}
	if strings.TrimSpace(header[0]) != "timestamp" {
		return fmt.Errorf("expected first column to be %q, got %q", "timestamp", header[0])
	}
	return nil
}

func parseRecord(record []string) (model.IrradianceSample, error) {
	if len(record) < 2 {
		return model.IrradianceSample{}, fmt.Errorf("expected at least 2 fields, got %d", len(record))
	}

	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(record[0]))
	if err != nil {
		return model.IrradianceSample{}, fmt.Errorf("parsing timestamp %q: %w", record[0], err)
	}

	var total float64
	for _, f := range record[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return model.IrradianceSample{}, fmt.Errorf("parsing value %q: %w", f, err)
		}
		total += v
	}

	return model.IrradianceSample{Timestamp: ts, WPerM2: total}, nil
}
