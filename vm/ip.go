package vm

// Direction is the heading of the instruction pointer.
type Direction uint8

const (
	Right Direction = iota
	Down
	Left
	Up
)

// Directions lists every direction in the order used by the random opcode.
var Directions = [4]Direction{Right, Down, Left, Up}

// String returns the lower case name of the direction.
func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Delta returns the per-step movement along each axis.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Up:
		return 0, -1
	default:
		return 0, 0
	}
}

// IP is the instruction pointer state: the current cell, the heading and
// whether cells are being read as string data.
type IP struct {
	X          int
	Y          int
	Dir        Direction
	StringMode bool
}
