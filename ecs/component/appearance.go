package component

import "image/color"

// Appearance is how the debug view paints an entity.
type Appearance struct {
	Color color.Color
}

var AppearanceComponent = NewComponent[Appearance]("appearance")
