package screen

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestViewport(t *testing.T) {
	tests := []struct {
		name   string
		dw, dh int32
		want   sdl.Rect
	}{
		{"exact", 640, 320, sdl.Rect{X: 0, Y: 0, W: 640, H: 320}},
		{"tall", 640, 480, sdl.Rect{X: 0, Y: 80, W: 640, H: 320}},
		{"wide", 1000, 320, sdl.Rect{X: 180, Y: 0, W: 640, H: 320}},
		{"odd", 101, 51, sdl.Rect{X: 0, Y: 0, W: 101, H: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := viewport(tt.dw, tt.dh, 64, 32); got != tt.want {
				t.Errorf("viewport(%d, %d) = %+v, want %+v", tt.dw, tt.dh, got, tt.want)
			}
		})
	}
}
