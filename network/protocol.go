package network

import "github.com/wfunc/snakegrid/grid"

// Client to server.
const (
	MsgTypeHeartbeat = 1
	MsgTypeStart     = 101
	MsgTypeReset     = 102
	MsgTypeKey       = 201
)

// Server to client.
const (
	MsgTypeFrame    = 301
	MsgTypeEatCue   = 302
	MsgTypeGameOver = 303
	MsgTypeError    = 304
)

// KeyPayload carries one arrow key code (37 left, 38 up, 39 right, 40 down).
type KeyPayload struct {
	Code int `json:"code"`
}

// FramePayload is one rendered board. The geometry lets a client lay the
// cells out without knowing the server configuration.
type FramePayload struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	CellSize  int         `json:"cell_size"`
	Food      *grid.Cell  `json:"food,omitempty"`
	Snake     []grid.Cell `json:"snake"`
	Obstacles []grid.Cell `json:"obstacles"`
	Score     int         `json:"score"`
}

type GameOverPayload struct {
	Score int `json:"score"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
