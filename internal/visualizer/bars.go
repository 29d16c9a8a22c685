package visualizer

const (
	// BarCount is the number of bars drawn every tick.
	BarCount = 9
	// BarSpacing is the gap between neighbouring bars, in view units.
	BarSpacing = 10.0
	// MinBarHeight and MaxBarHeight bound every bar's height.
	MinBarHeight = 20.0
	MaxBarHeight = 100.0

	barGain = 80.0
)

// BarSpec is the geometry of one bar in view units, origin top-left.
type BarSpec struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BarHeight maps a raw sample to a bar height. Samples outside [-1, 1]
// saturate at the bounds and NaN maps to the minimum.
func BarHeight(sample float32) float64 {
	h := float64(sample)*barGain + MinBarHeight
	if !(h >= MinBarHeight) {
		return MinBarHeight
	}
	if h > MaxBarHeight {
		return MaxBarHeight
	}
	return h
}

// Layout computes the bars for frame inside a viewWidth x viewHeight area.
// Bar i reads frame[i%len(frame)], so short frames repeat and only the first
// BarCount samples of a long frame are used. An empty frame yields nil.
func Layout(frame Frame, viewWidth, viewHeight float64) []BarSpec {
	if len(frame) == 0 {
		return nil
	}

	rectWidth := (viewWidth - (BarCount-1)*BarSpacing) / BarCount

	bars := make([]BarSpec, BarCount)
	for i := range BarCount {
		h := BarHeight(frame[i%len(frame)])
		bars[i] = BarSpec{
			X:      float64(i) * (rectWidth + BarSpacing),
			Y:      (viewHeight - h) / 2,
			Width:  rectWidth,
			Height: h,
		}
	}
	return bars
}
