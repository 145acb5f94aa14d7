package capture

import "github.com/handiism/capture-studio/internal/model"

// ComputeLevels downsamples frequency data to the meter's bars.
//
// Bar i reads data[floor(i/LevelCount*len(data))] and scales the byte
// range [0,255] to [0,100]. Empty data gives a silent meter.
func ComputeLevels(data []byte) model.Levels {
	var levels model.Levels
	if len(data) == 0 {
		return levels
	}
	for i := range levels {
		idx := i * len(data) / model.LevelCount
		levels[i] = float64(data[idx]) / 255 * 100
	}
	return levels
}
