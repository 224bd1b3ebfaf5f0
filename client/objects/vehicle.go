package objects

import (
	"image/color"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	VehicleWidth  = 16
	VehicleLength = 30
)

var (
	vehicleBodyColor = color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}
	vehicleNoseColor = color.RGBA{R: 0xf0, G: 0xe0, B: 0x60, A: 0xff}
)

// Vehicle draws the simulated vehicle at its pose.
type Vehicle struct {
	image *ebiten.Image
	pose  kinematic.Pose
}

func NewVehicle() *Vehicle {
	img := ebiten.NewImage(VehicleWidth, VehicleLength)
	img.Fill(vehicleBodyColor)
	// the nose marks the front of the vehicle
	vector.DrawFilledRect(img, 2, 2, VehicleWidth-4, 5, vehicleNoseColor, false)
	return &Vehicle{image: img}
}

func (v *Vehicle) SetPose(pose kinematic.Pose) {
	v.pose = pose
}

func (v *Vehicle) Pose() kinematic.Pose {
	return v.pose
}

func (v *Vehicle) Draw(screen *ebiten.Image, camera kinematic.Pose) {
	bounds := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM = ScreenTransform(v.pose, camera, bounds.Dx(), bounds.Dy())
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(v.image, op)
}

// ScreenTransform places the vehicle image on the screen. The image points
// up at a zero heading and turns counterclockwise as the heading grows.
func ScreenTransform(pose kinematic.Pose, camera kinematic.Pose, screenWidth, screenHeight int) ebiten.GeoM {
	x, y := WorldToScreen(pose.X, pose.Y, camera, screenWidth, screenHeight)

	m := ebiten.GeoM{}
	m.Translate(-VehicleWidth/2, -VehicleLength/2)
	m.Rotate(-kinematic.DegreesToRadians(pose.R))
	m.Translate(x, y)
	return m
}
