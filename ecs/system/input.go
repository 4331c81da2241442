package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/ledgerunner/ecs"
	"github.com/milk9111/ledgerunner/ecs/component"
)

// InputSource produces the raw action snapshot for one tick.
type InputSource func() component.Input

// InputSystem copies the snapshot onto every Input component. Held actions
// are overwritten; pressed edges accumulate until InputResetSystem runs so a
// system that consumes an edge can clear it for the rest of the tick.
type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	if source == nil {
		source = NewEbitenInput()
	}
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	snap := i.source()
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Forward = snap.Forward
		input.Back = snap.Back
		input.Left = snap.Left
		input.Right = snap.Right
		input.Run = snap.Run
		input.JumpPressed = input.JumpPressed || snap.JumpPressed
		input.PunchPressed = input.PunchPressed || snap.PunchPressed
		input.KickPressed = input.KickPressed || snap.KickPressed
		input.PickupPressed = input.PickupPressed || snap.PickupPressed
		input.LookX += snap.LookX
	})
}

// InputResetSystem clears pressed edges at the end of the tick.
type InputResetSystem struct{}

func NewInputResetSystem() *InputResetSystem {
	return &InputResetSystem{}
}

func (i *InputResetSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.ResetPressed()
	})
}

// cursorLook turns horizontal cursor motion during a left drag into a look
// delta. The press tick only records the anchor.
type cursorLook struct {
	lastX int
}

func (c *cursorLook) delta(x int, held, justPressed bool) float64 {
	d := 0.0
	if held && !justPressed {
		d = float64(x - c.lastX)
	}
	c.lastX = x
	return d
}

// NewEbitenInput returns a source polling keyboard, mouse and the first
// gamepad. Each source tracks its own cursor.
func NewEbitenInput() InputSource {
	look := &cursorLook{}
	return func() component.Input {
		return pollEbiten(look)
	}
}

func pollEbiten(look *cursorLook) component.Input {
	const stickDeadzone = 0.2

	in := component.Input{
		Forward:       ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Back:          ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:          ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:         ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Run:           ebiten.IsKeyPressed(ebiten.KeyShiftLeft),
		JumpPressed:   inpututil.IsKeyJustPressed(ebiten.KeySpace),
		PunchPressed:  inpututil.IsKeyJustPressed(ebiten.KeyJ),
		KickPressed:   inpututil.IsKeyJustPressed(ebiten.KeyK),
		PickupPressed: inpututil.IsKeyJustPressed(ebiten.KeyE),
	}

	x, _ := ebiten.CursorPosition()
	in.LookX = look.delta(x,
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft))

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Abs(lx) > stickDeadzone {
			in.Left = in.Left || lx < 0
			in.Right = in.Right || lx > 0
		}
		if math.Abs(ly) > stickDeadzone {
			in.Forward = in.Forward || ly < 0
			in.Back = in.Back || ly > 0
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		if math.Abs(rx) > stickDeadzone {
			in.LookX += rx * 20
		}

		in.Run = in.Run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.PunchPressed = in.PunchPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		in.KickPressed = in.KickPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		in.PickupPressed = in.PickupPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
	}
	return in
}
