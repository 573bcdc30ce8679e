package room

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/snakegrid/game"
	"github.com/wfunc/snakegrid/network"
	"github.com/wfunc/snakegrid/session"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	mu    sync.Mutex
	count int
}

func (m *MockConnection) Send(msgID uint16, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return nil
}
func (m *MockConnection) Close() error                         { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                 { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)  {}
func (m *MockConnection) ReadPacket() (*network.Packet, error) { return nil, nil }

func (m *MockConnection) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// MockScheduler never fires; it only tracks pending timers.
type MockScheduler struct {
	mu      sync.Mutex
	nextID  int64
	pending map[int64]bool
}

func (m *MockScheduler) AddTimer(delay time.Duration, interval time.Duration, callback func()) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		m.pending = make(map[int64]bool)
	}
	m.nextID++
	m.pending[m.nextID] = true
	return m.nextID
}

func (m *MockScheduler) RemoveTimer(timerId int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.pending[timerId]
	delete(m.pending, timerId)
	return ok
}

func (m *MockScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func newTestManager(maxRooms int) (*Manager, *MockScheduler) {
	scheduler := &MockScheduler{}
	cfg := game.DefaultConfig()
	cfg.Seed = 7
	return NewRoomManager(cfg, scheduler, nil, maxRooms), scheduler
}

// newTestSession creates a dummy session for testing purposes.
func newTestSession(id string) (*session.Session, *MockConnection) {
	conn := &MockConnection{}
	return session.NewSession(id, conn), conn
}

func TestRoomManager_CreateAndGetRoom(t *testing.T) {
	manager, _ := newTestManager(0)
	sess, _ := newTestSession("player1")

	roomID := "test_room_1"
	room, err := manager.CreateRoom(roomID, sess)
	if err != nil {
		t.Fatalf("CreateRoom should not fail: %v", err)
	}

	if room.ID != roomID {
		t.Errorf("Expected room ID %s, got %s", roomID, room.ID)
	}
	if sess.RoomID != roomID {
		t.Errorf("Expected session room ID %s, got %s", roomID, sess.RoomID)
	}

	retrievedRoom, exists := manager.GetRoom(roomID)
	if !exists {
		t.Fatal("GetRoom should find the created room")
	}
	if retrievedRoom != room {
		t.Error("GetRoom should return the same room instance")
	}
	if room.Game.State() != game.StateNotStarted {
		t.Errorf("Expected a new game in state %s, got %s", game.StateNotStarted, room.Game.State())
	}
}

func TestRoomManager_Full(t *testing.T) {
	manager, _ := newTestManager(1)
	s1, _ := newTestSession("player1")
	s2, _ := newTestSession("player2")

	if _, err := manager.CreateRoom("r1", s1); err != nil {
		t.Fatalf("Failed to create the first room: %v", err)
	}
	if _, err := manager.CreateRoom("r2", s2); !errors.Is(err, ErrRoomsFull) {
		t.Fatalf("Expected ErrRoomsFull, got %v", err)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected room count to be 1, got %d", manager.Count())
	}
}

func TestRoomManager_Duplicate(t *testing.T) {
	manager, _ := newTestManager(0)
	sess, _ := newTestSession("player1")

	manager.CreateRoom("r1", sess)
	if _, err := manager.CreateRoom("r1", sess); !errors.Is(err, ErrRoomExists) {
		t.Errorf("Expected ErrRoomExists, got %v", err)
	}
}

func TestRoomManager_RemoveRoomClosesGame(t *testing.T) {
	manager, scheduler := newTestManager(0)
	sess, conn := newTestSession("player1")

	room, _ := manager.CreateRoom("r1", sess)
	if err := room.Game.Start(); err != nil {
		t.Fatalf("Start should not fail: %v", err)
	}
	if conn.Count() == 0 {
		t.Error("Expected the first frame to reach the connection")
	}
	if scheduler.Pending() != 1 {
		t.Fatalf("Expected 1 scheduled tick, got %d", scheduler.Pending())
	}

	manager.RemoveRoom("r1")

	if _, exists := manager.GetRoom("r1"); exists {
		t.Error("Room should be removed")
	}
	if scheduler.Pending() != 0 {
		t.Errorf("Expected the tick to be cancelled, got %d pending", scheduler.Pending())
	}
	if err := room.Game.Start(); !errors.Is(err, game.ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestRoomManager_SnapshotAndIDs(t *testing.T) {
	manager, _ := newTestManager(0)
	for _, id := range []string{"b", "a", "c"} {
		sess, _ := newTestSession("s-" + id)
		manager.CreateRoom(id, sess)
	}

	ids := manager.IDs()
	if len(ids) != 3 || ids[0] != "a" || ids[2] != "c" {
		t.Errorf("Expected sorted IDs [a b c], got %v", ids)
	}

	snap, err := manager.Snapshot("a")
	if err != nil {
		t.Fatalf("Snapshot should not fail: %v", err)
	}
	if snap.ID != "a" || snap.Score != 0 {
		t.Errorf("Expected room a with score 0, got %s with %d", snap.ID, snap.Score)
	}

	if _, err := manager.Snapshot("missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}

	manager.CloseAll()
	if manager.Count() != 0 {
		t.Errorf("Expected no rooms after CloseAll, got %d", manager.Count())
	}
}
