package game

import (
	"fmt"

	"github.com/cbodonnell/drivesim/client/input"
	"github.com/cbodonnell/drivesim/client/objects"
	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	DefaultScreenWidth  = 640
	DefaultScreenHeight = 480
)

// Game implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Game struct {
	// debug is a boolean value indicating whether the debug overlay is shown.
	debug   bool
	driver  Driver
	tracker *input.Tracker
	keys    input.KeyState
	// pinger reports the round trip time of remote drivers.
	pinger pinger

	vehicle *objects.Vehicle
	hud     *objects.HUD
	// layers are drawn in order, back to front.
	layers []objects.GameObject
	camera kinematic.Pose
	ended  bool
}

type pinger interface {
	Ping() float64
}

type NewGameOptions struct {
	Debug  bool
	Driver Driver
	// KeyBindings defaults to input.DefaultKeyBindings.
	KeyBindings map[ebiten.Key]vehicle.Direction
	// KeyState defaults to input.EbitenKeyState.
	KeyState input.KeyState
}

func NewGame(opts NewGameOptions) (*Game, error) {
	if opts.Driver == nil {
		return nil, fmt.Errorf("a driver is required")
	}
	bindings := opts.KeyBindings
	if bindings == nil {
		bindings = input.DefaultKeyBindings()
	}
	keys := opts.KeyState
	if keys == nil {
		keys = input.EbitenKeyState{}
	}

	g := &Game{
		debug:   opts.Debug,
		driver:  opts.Driver,
		tracker: input.NewTracker(bindings),
		keys:    keys,
		vehicle: objects.NewVehicle(),
		hud:     objects.NewHUD(),
	}
	g.layers = []objects.GameObject{&objects.Grid{}, g.vehicle, g.hud}
	if p, ok := opts.Driver.(pinger); ok {
		g.pinger = p
	}
	return g, nil
}

func (g *Game) Update() error {
	if input.IsQuitJustPressed() {
		return ebiten.Termination
	}
	if input.IsDebugJustPressed() {
		g.debug = !g.debug
	}
	return g.update()
}

// update forwards this frame's input and follows the latest pose.
func (g *Game) update() error {
	select {
	case <-g.driver.Done():
		if !g.ended {
			log.Info("Session ended")
			g.ended = true
			g.hud.SetStatus("session ended, press Esc to quit")
		}
	default:
		for _, change := range g.tracker.Changes(g.keys) {
			if err := g.driver.Input(change.Direction, change.Pressed); err != nil {
				log.Warn("Failed to send input %s: %v", change.Direction, err)
			}
		}
	}

	if update, ok := g.driver.Latest(); ok {
		g.vehicle.SetPose(update.Pose)
		g.hud.SetUpdate(update)
		g.camera = update.Pose
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	for _, layer := range g.layers {
		layer.Draw(screen, g.camera)
	}
	if g.debug {
		g.drawDebugOverlay(screen)
	}
}

func (g *Game) drawDebugOverlay(screen *ebiten.Image) {
	w := screen.Bounds().Dx()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %0.1f", ebiten.ActualFPS()), w-110, 4)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %0.1f", ebiten.ActualTPS()), w-110, 20)
	if g.pinger != nil {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Ping: %0.1f", g.pinger.Ping()), w-110, 36)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return DefaultScreenWidth, DefaultScreenHeight
}

// Close releases the driver.
func (g *Game) Close() error {
	return g.driver.Close()
}
