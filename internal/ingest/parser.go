package ingest

import (
	"io"

	"solar_tracker/internal/model"
)

// Parser reads irradiance samples from a source. The engine never dictates
// where samples come from; anything that yields timestamped magnitudes fits.
type Parser interface {
	Parse(r io.Reader) ([]model.IrradianceSample, error)
}
