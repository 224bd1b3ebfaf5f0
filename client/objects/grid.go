package objects

import (
	"image/color"
	"math"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const GridSpacing = 40

var gridColor = color.RGBA{R: 0x40, G: 0x40, B: 0x48, A: 0xff}

// Grid draws world grid lines so movement is visible while the camera
// follows the vehicle.
type Grid struct{}

func (g *Grid) Draw(screen *ebiten.Image, camera kinematic.Pose) {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	for _, sx := range GridLines(camera.Y, w) {
		vector.StrokeLine(screen, float32(sx), 0, float32(sx), float32(h), 1, gridColor, false)
	}
	for _, sy := range GridLines(camera.X, h) {
		vector.StrokeLine(screen, 0, float32(sy), float32(w), float32(sy), 1, gridColor, false)
	}
}

// GridLines returns the screen offsets, within [0, extent], of the grid lines
// along one world axis whose camera coordinate is center.
func GridLines(center float64, extent int) []float64 {
	half := float64(extent) / 2
	first := math.Ceil((center-half)/GridSpacing) * GridSpacing
	var lines []float64
	for world := first; world <= center+half; world += GridSpacing {
		lines = append(lines, half-(world-center))
	}
	return lines
}
