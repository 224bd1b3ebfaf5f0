package objects

import (
	"fmt"
	"image/color"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/messages"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// HUD prints the latest pose update in the top left corner.
type HUD struct {
	face   font.Face
	update *messages.ServerPoseUpdate
	status string
}

func NewHUD() *HUD {
	return &HUD{face: basicfont.Face7x13}
}

func (h *HUD) SetUpdate(update *messages.ServerPoseUpdate) {
	h.update = update
}

func (h *HUD) SetStatus(status string) {
	h.status = status
}

func (h *HUD) Draw(screen *ebiten.Image, _ kinematic.Pose) {
	lines := HUDLines(h.update)
	if h.status != "" {
		lines = append(lines, h.status)
	}
	for i, line := range lines {
		text.Draw(screen, line, h.face, 8, 16+i*15, color.White)
	}
}

// HUDLines formats a pose update for display.
func HUDLines(update *messages.ServerPoseUpdate) []string {
	if update == nil {
		return []string{"waiting for first tick"}
	}
	return []string{
		fmt.Sprintf("tick %d", update.Tick),
		fmt.Sprintf("x %.1f  y %.1f  r %.1f", update.Pose.X, update.Pose.Y, update.Pose.R),
		fmt.Sprintf("speed %.2f (%s)", update.SpeedMomentum, update.SpeedIntent),
		fmt.Sprintf("steering %+.2f (%s)", update.SteeringMomentum, update.SteeringIntent),
	}
}
