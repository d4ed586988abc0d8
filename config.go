package spatialgrid

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// maxAxisConfigFileSize bounds the size of a file LoadAxisConfig will read.
const maxAxisConfigFileSize = 1 * 1024 * 1024 // 1MB

// axisConfigEntry is the on-disk JSON shape for one axis: an aperiodic
// axis omits lo/hi entirely.
type axisConfigEntry struct {
	Periodic bool    `json:"periodic"`
	Lo       float64 `json:"lo,omitempty"`
	Hi       float64 `json:"hi,omitempty"`
}

// LoadAxisConfig reads a JSON array of per-axis configuration from path
// and returns the corresponding []AxisConfig, in axis order. The file
// must have a .json extension and be under maxAxisConfigFileSize.
//
// Example file contents, for a 3-axis space with one periodic axis:
//
//	[
//	  {"periodic": false},
//	  {"periodic": true, "lo": 0, "hi": 360},
//	  {"periodic": false}
//	]
func LoadAxisConfig(path string) ([]AxisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, newErrorf(BadAxisConfig, "LoadAxisConfig", "config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, newErrorf(BadAxisConfig, "LoadAxisConfig", "failed to stat config file: %v", err)
	}
	if info.Size() > maxAxisConfigFileSize {
		return nil, newErrorf(BadAxisConfig, "LoadAxisConfig", "config file too large: %d bytes (max %d)", info.Size(), maxAxisConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, newErrorf(BadAxisConfig, "LoadAxisConfig", "failed to read config file: %v", err)
	}

	var entries []axisConfigEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, newErrorf(BadAxisConfig, "LoadAxisConfig", "failed to parse config JSON: %v", err)
	}

	axes := make([]AxisConfig, len(entries))
	for i, e := range entries {
		if e.Periodic {
			if e.Lo >= e.Hi {
				return nil, newErrorf(BadAxisConfig, "LoadAxisConfig", "axis %d: periodic lo=%g >= hi=%g", i, e.Lo, e.Hi)
			}
			axes[i] = PeriodicAxis(e.Lo, e.Hi)
			continue
		}
		axes[i] = Aperiodic()
	}
	return axes, nil
}
