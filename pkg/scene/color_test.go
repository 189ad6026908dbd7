package scene

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"red", color.NRGBA{R: 255, A: 255}, true},
		{"  Navy ", color.NRGBA{B: 128, A: 255}, true},
		{"transparent", color.NRGBA{}, true},
		{"#0f8", color.NRGBA{G: 255, B: 136, A: 255}, true},
		{"#102030", color.NRGBA{R: 16, G: 32, B: 48, A: 255}, true},
		{"#10203040", color.NRGBA{R: 16, G: 32, B: 48, A: 64}, true},
		{"rgb(1, 2, 3)", color.NRGBA{R: 1, G: 2, B: 3, A: 255}, true},
		{"rgba(1,2,3,0.5)", color.NRGBA{R: 1, G: 2, B: 3, A: 128}, true},
		{"#12", color.NRGBA{}, false},
		{"#gggggg", color.NRGBA{}, false},
		{"rgb(1,2)", color.NRGBA{}, false},
		{"rgb(1,2,300)", color.NRGBA{}, false},
		{"rgba(1,2,3,2)", color.NRGBA{}, false},
		{"chartreuse", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
