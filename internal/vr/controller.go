package vr

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DeviceMismatchError reports a connected device of the wrong class in a
// controller slot. It is recoverable: the controller keeps its previous state.
type DeviceMismatchError struct {
	Hand Hand
	Got  DeviceClass
}

func (e *DeviceMismatchError) Error() string {
	return fmt.Sprintf("vr: %s slot holds a %s, want a controller", e.Hand, e.Got)
}

// DefaultPrimaryPad is the primary controller's pad position before the first
// touch. Forward-biased so anything steered by the pad has a direction.
var DefaultPrimaryPad = rl.Vector2{X: 0, Y: 1}

// ControllerState is the normalized frame-over-frame state of one controller.
// Trigger and Pad only take effect while Connected; stale values are kept.
type ControllerState struct {
	Hand      Hand
	Connected bool
	Pose      rl.Matrix
	Trigger   float32
	Pad       rl.Vector2
}

// NewControllerState returns a disconnected controller for the given slot.
func NewControllerState(hand Hand) *ControllerState {
	c := &ControllerState{
		Hand: hand,
		Pose: rl.MatrixIdentity(),
	}
	if hand == Primary {
		c.Pad = DefaultPrimaryPad
	}
	return c
}

// Update reads this controller's slot from the snapshot. Presence is
// authoritative: an empty or disconnected slot marks the controller
// disconnected. A device of the wrong class returns *DeviceMismatchError and
// leaves the state untouched.
func (c *ControllerState) Update(snap Snapshot) error {
	dev, ok := snap.Slot(c.Hand)
	if !ok || !dev.Connected {
		c.Connected = false
		return nil
	}
	if dev.Class != DeviceController {
		return &DeviceMismatchError{Hand: c.Hand, Got: dev.Class}
	}

	c.Connected = true
	c.Pose = ToMatrix(dev.Pose)
	c.Trigger = clamp01(dev.Trigger)
	if dev.PadTouched {
		c.Pad = rl.Vector2{X: dev.Pad.X(), Y: dev.Pad.Y()}
	}
	return nil
}

// EffectiveTrigger is the trigger value that may drive gameplay: zero while disconnected.
func (c *ControllerState) EffectiveTrigger() float32 {
	if !c.Connected {
		return 0
	}
	return c.Trigger
}

// Position is the controller's location in tracking space.
func (c *ControllerState) Position() rl.Vector3 {
	return Translation(c.Pose)
}

func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
