package events

// Void is the payload of signal-only topics
type Void struct{}

// Vec2 is a 2D vector payload
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3D vector payload
type Vec3 struct {
	X, Y, Z float64
}

// UICall asks the UI collaborator to open or close a named widget
type UICall struct {
	Name string
	Open bool
}

// Animation asks the presentation layer to play a named clip on a target
type Animation struct {
	Name   string
	Target string
}

// Presentation topics shared by the scheduler, effects and sequences
var (
	Narration   = NewTopic[string]("presentation.narration")
	Animations  = NewTopic[Animation]("presentation.animation")
	Sounds      = NewTopic[string]("presentation.sound")
	CameraShake = NewTopic[Vec2]("presentation.camera_shake")
	Movement    = NewTopic[Vec3]("presentation.move")
	Popups      = NewTopic[int]("presentation.popup")
	Flash       = NewTopic[bool]("presentation.flash")
	UI          = NewTopic[UICall]("presentation.ui")
)
