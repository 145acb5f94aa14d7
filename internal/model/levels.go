package model

// LevelCount is the number of bars in the amplitude meter.
const LevelCount = 20

// Levels holds one percentage in [0,100] per meter bar.
//
// Levels is an array rather than a slice so that the bar count is part
// of the type.
type Levels [LevelCount]float64

// Max returns the largest level.
func (l Levels) Max() float64 {
	var m float64
	for _, v := range l {
		if v > m {
			m = v
		}
	}
	return m
}
