package grid

// Direction is a unit step of one cell along an axis.
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Key codes understood by DirectionForKey.
const (
	KeyLeft  = 37
	KeyUp    = 38
	KeyRight = 39
	KeyDown  = 40
)

func Up(cellSize int) Direction    { return Direction{DX: 0, DY: -cellSize} }
func Down(cellSize int) Direction  { return Direction{DX: 0, DY: cellSize} }
func Left(cellSize int) Direction  { return Direction{DX: -cellSize, DY: 0} }
func Right(cellSize int) Direction { return Direction{DX: cellSize, DY: 0} }

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return Direction{DX: -d.DX, DY: -d.DY}
}

// IsReverseOf reports whether d points exactly against other.
func (d Direction) IsReverseOf(other Direction) bool {
	return d == other.Reverse()
}

func (d Direction) String() string {
	switch {
	case d.DX > 0 && d.DY == 0:
		return "right"
	case d.DX < 0 && d.DY == 0:
		return "left"
	case d.DX == 0 && d.DY > 0:
		return "down"
	case d.DX == 0 && d.DY < 0:
		return "up"
	}
	return "none"
}

// DirectionForKey maps an arrow key code to a direction. Unknown codes
// report false.
func DirectionForKey(code, cellSize int) (Direction, bool) {
	switch code {
	case KeyLeft:
		return Left(cellSize), true
	case KeyUp:
		return Up(cellSize), true
	case KeyRight:
		return Right(cellSize), true
	case KeyDown:
		return Down(cellSize), true
	}
	return Direction{}, false
}
