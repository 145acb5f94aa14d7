package capture

import (
	"testing"

	"github.com/handiism/capture-studio/internal/model"
)

func TestComputeLevels(t *testing.T) {
	ramp := make([]byte, 32)
	for i := range ramp {
		ramp[i] = byte(i * 8)
	}
	full := make([]byte, 7)
	for i := range full {
		full[i] = 255
	}

	tests := []struct {
		name string
		data []byte
		want map[int]float64
	}{
		{"empty", nil, map[int]float64{0: 0, 19: 0}},
		{"single bin", []byte{255}, map[int]float64{0: 100, 10: 100, 19: 100}},
		{"saturated short", full, map[int]float64{0: 100, 19: 100}},
		{
			// bucket i reads index floor(i*32/20)
			"ramp", ramp,
			map[int]float64{
				0:  0,
				1:  float64(1*8) / 255 * 100,
				10: float64(16*8) / 255 * 100,
				19: float64(30*8) / 255 * 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLevels(tt.data)
			if len(got) != model.LevelCount {
				t.Fatalf("len = %d, want %d", len(got), model.LevelCount)
			}
			for i, v := range got {
				if v < 0 || v > 100 {
					t.Errorf("level[%d] = %v, out of range", i, v)
				}
			}
			for i, want := range tt.want {
				if got[i] != want {
					t.Errorf("level[%d] = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrNotReady, KindNotReady},
		{ErrCameraOff, KindNotReady},
		{ErrNoVideoTrack, KindAccess},
		{ErrAlreadyActive, KindOther},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
