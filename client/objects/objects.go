package objects

import (
	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/hajimehoshi/ebiten/v2"
)

// GameObject is the highest level interface for drawable scene objects.
type GameObject interface {
	Draw(screen *ebiten.Image, camera kinematic.Pose)
}

// WorldToScreen maps a world position onto the screen. The camera position
// is drawn at the screen centre, world +x points up and world +y points left.
func WorldToScreen(x, y float64, camera kinematic.Pose, screenWidth, screenHeight int) (float64, float64) {
	cx := float64(screenWidth) / 2
	cy := float64(screenHeight) / 2
	return cx - (y - camera.Y), cy - (x - camera.X)
}
