package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/wfunc/snakegrid/grid"
	"github.com/wfunc/snakegrid/network"
)

// keys maps typed commands to arrow key codes.
var keys = map[string]int{
	"a": grid.KeyLeft,
	"w": grid.KeyUp,
	"d": grid.KeyRight,
	"s": grid.KeyDown,
}

func main() {
	host := flag.String("addr", "localhost:8080", "game server address")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *host, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, err := network.Dial(u.String())
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			packet, err := c.ReadPacket()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			handlePacket(packet)
		}
	}()

	log.Println("Client started. Type start, reset or w/a/s/d and press Enter.")

	lines := make(chan string)
	go func() {
		reader := bufio.NewScanner(os.Stdin)
		for reader.Scan() {
			lines <- strings.TrimSpace(reader.Text())
		}
	}()

	heartbeat := time.NewTicker(10 * time.Second)
	defer heartbeat.Stop()

	// Write loop
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case <-heartbeat.C:
			if err := c.Send(network.MsgTypeHeartbeat, nil); err != nil {
				log.Println("Heartbeat error:", err)
				return
			}
		case text := <-lines:
			if err := sendCommand(c, text); err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}

func sendCommand(c network.Connection, text string) error {
	switch text {
	case "start":
		return c.Send(network.MsgTypeStart, nil)
	case "reset":
		return c.Send(network.MsgTypeReset, nil)
	}
	if code, ok := keys[text]; ok {
		return network.SendJSON(c, network.MsgTypeKey, network.KeyPayload{Code: code})
	}
	log.Printf("Unknown command %q", text)
	return nil
}

func handlePacket(packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeFrame:
		var frame network.FramePayload
		if err := json.Unmarshal(packet.Data, &frame); err != nil {
			log.Printf("Bad frame: %v", err)
			return
		}
		board, err := frameBoard(frame)
		if err != nil {
			log.Printf("Bad frame: %v", err)
			return
		}
		fmt.Print("\033[H\033[2J")
		fmt.Print(renderASCII(frame, board))
		fmt.Printf("score %d\n", frame.Score)
	case network.MsgTypeEatCue:
		fmt.Print("\a")
	case network.MsgTypeGameOver:
		var over network.GameOverPayload
		json.Unmarshal(packet.Data, &over)
		fmt.Printf("Game over! Score %d. Type start to play again.\n", over.Score)
	case network.MsgTypeError:
		log.Printf("Server error: %s", packet.Data)
	default:
		log.Printf("<- RECV (ID: %d): %s", packet.MsgID, packet.Data)
	}
}

// frameBoard is the board the server drew frame on.
func frameBoard(frame network.FramePayload) (grid.Board, error) {
	return grid.NewBoard(frame.Width, frame.Height, frame.CellSize)
}

// renderASCII draws a frame as one line per row: # obstacle, @ head,
// o body, * food.
func renderASCII(frame network.FramePayload, board grid.Board) string {
	rows := make([][]byte, board.Rows())
	for i := range rows {
		rows[i] = []byte(strings.Repeat(".", board.Columns()))
	}
	put := func(c grid.Cell, ch byte) {
		if board.Contains(c) {
			rows[c.Y/board.CellSize][c.X/board.CellSize] = ch
		}
	}

	if frame.Food != nil {
		put(*frame.Food, '*')
	}
	for i, c := range frame.Snake {
		if i == 0 {
			put(c, '@')
		} else {
			put(c, 'o')
		}
	}
	for _, c := range frame.Obstacles {
		put(c, '#')
	}

	var b strings.Builder
	for _, row := range rows {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}
