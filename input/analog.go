package input

import "github.com/samber/lo"

// ScaleADC maps a raw reading in [0, fullScale] onto the [0, inputMax]
// scalar the governor and trim consume.
func ScaleADC(raw, fullScale, inputMax int) int {
	if fullScale <= 0 {
		return 0
	}
	raw = lo.Clamp(raw, 0, fullScale)
	return raw * inputMax / fullScale
}
