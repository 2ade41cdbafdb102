package virtuallist

// Orientation declares which host axis the pixel dimension represents. It is
// a tag consulted by the host when measuring items; core arithmetic never
// branches on it.
type Orientation int

const (
	// Vertical means sizes are heights and offsets run top to bottom.
	Vertical Orientation = iota
	// Horizontal means sizes are widths and offsets run left to right.
	Horizontal
)

// String returns the orientation name
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}
