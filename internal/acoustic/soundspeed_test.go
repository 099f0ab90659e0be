package acoustic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSoundSpeedProfile(t *testing.T) {
	t.Parallel()

	p := NewSoundSpeedProfile(Config{SurfaceSpeed: 1500, SpeedGradient: 0.017})

	tests := []struct {
		depth float64
		want  float64
	}{
		{0, 1500},
		{100, 1501.7},
		{1000, 1517},
		{-100, 1498.3},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, p.Speed(tt.depth), 1e-9, "depth=%f", tt.depth)
	}
}

func TestSoundSpeedIncreasesWithDepth(t *testing.T) {
	t.Parallel()

	p := SoundSpeedProfile{C0: 1500, K: 0.017}
	assert.Greater(t, p.Speed(500), p.Speed(50))
}
