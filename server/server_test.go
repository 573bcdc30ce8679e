package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wfunc/snakegrid/game"
	"github.com/wfunc/snakegrid/grid"
	"github.com/wfunc/snakegrid/network"
	"github.com/wfunc/snakegrid/room"
	"github.com/wfunc/snakegrid/timer"
)

func newTestServer(t *testing.T, maxRooms int) (*httptest.Server, *room.Manager, *GameServer) {
	t.Helper()
	scheduler := timer.NewTimerManager()
	t.Cleanup(scheduler.Stop)

	cfg := game.DefaultConfig()
	cfg.TickInterval = time.Hour
	rooms := room.NewRoomManager(cfg, scheduler, nil, maxRooms)
	t.Cleanup(rooms.CloseAll)

	srv := NewGameServer("", rooms)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, rooms, srv
}

func dial(t *testing.T, ts *httptest.Server) *network.WSConnection {
	t.Helper()
	conn, err := network.Dial("ws" + strings.TrimPrefix(ts.URL, "http") + "/ws")
	if err != nil {
		t.Fatalf("Dial should not fail: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestGameServer_StartSendsFrame(t *testing.T) {
	ts, rooms, _ := newTestServer(t, 0)
	conn := dial(t, ts)
	waitFor(t, "the room", func() bool { return rooms.Count() == 1 })

	if err := conn.Send(network.MsgTypeStart, nil); err != nil {
		t.Fatalf("Send should not fail: %v", err)
	}

	packet, err := conn.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket should not fail: %v", err)
	}
	if packet.MsgID != network.MsgTypeFrame {
		t.Fatalf("Expected message ID %d, got %d", network.MsgTypeFrame, packet.MsgID)
	}

	var frame network.FramePayload
	if err := json.Unmarshal(packet.Data, &frame); err != nil {
		t.Fatalf("Frame should be valid JSON: %v", err)
	}
	if len(frame.Snake) != 1 || frame.Snake[0].X != 150 || frame.Snake[0].Y != 150 {
		t.Errorf("Expected snake [(150,150)], got %v", frame.Snake)
	}
	if frame.Width != 300 || frame.Height != 300 || frame.CellSize != grid.DefaultCellSize {
		t.Errorf("Expected a 300x300 board of %d unit cells, got %dx%d of %d", grid.DefaultCellSize, frame.Width, frame.Height, frame.CellSize)
	}
	if len(frame.Obstacles) != game.DefaultObstacleCount {
		t.Errorf("Expected %d obstacles, got %d", game.DefaultObstacleCount, len(frame.Obstacles))
	}

	id := rooms.IDs()[0]
	waitFor(t, "the running state", func() bool {
		snap, err := rooms.Snapshot(id)
		return err == nil && snap.State == game.StateRunning
	})
}

func TestGameServer_KeyChangesDirection(t *testing.T) {
	ts, rooms, _ := newTestServer(t, 0)
	conn := dial(t, ts)
	waitFor(t, "the room", func() bool { return rooms.Count() == 1 })
	id := rooms.IDs()[0]

	conn.Send(network.MsgTypeStart, nil)
	conn.ReadPacket()
	data, _ := json.Marshal(network.KeyPayload{Code: 38})
	conn.Send(network.MsgTypeKey, data)

	waitFor(t, "the new direction", func() bool {
		snap, _ := rooms.Snapshot(id)
		return snap.Direction.DY == -10
	})
}

func TestGameServer_RoomsFull(t *testing.T) {
	ts, rooms, _ := newTestServer(t, 1)
	dial(t, ts)
	waitFor(t, "the first room", func() bool { return rooms.Count() == 1 })

	second := dial(t, ts)
	packet, err := second.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket should not fail: %v", err)
	}
	if packet.MsgID != network.MsgTypeError {
		t.Errorf("Expected message ID %d, got %d", network.MsgTypeError, packet.MsgID)
	}
}

func TestGameServer_DisconnectRemovesRoom(t *testing.T) {
	ts, rooms, _ := newTestServer(t, 0)
	conn := dial(t, ts)
	waitFor(t, "the room", func() bool { return rooms.Count() == 1 })

	conn.Close()
	waitFor(t, "the room to be removed", func() bool { return rooms.Count() == 0 })
}

func TestGameServer_SweepIdleClosesSessions(t *testing.T) {
	ts, rooms, srv := newTestServer(t, 0)
	idle := dial(t, ts)
	waitFor(t, "the room", func() bool { return rooms.Count() == 1 })

	if n := srv.sweepIdle(time.Now().Add(-time.Hour)); n != 0 {
		t.Errorf("Expected no session idle for an hour, got %d", n)
	}
	if n := srv.sweepIdle(time.Now().Add(time.Second)); n != 1 {
		t.Errorf("Expected 1 idle session closed, got %d", n)
	}

	waitFor(t, "the idle room to be removed", func() bool { return rooms.Count() == 0 })
	idle.SetHeartbeat(time.Second)
	if _, err := idle.ReadPacket(); err == nil {
		t.Error("Expected the idle connection to be closed by the server")
	}
}
