// room/room.go
package room

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wfunc/snakegrid/game"
	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/session"
)

var (
	ErrRoomsFull    = errors.New("room limit reached")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomExists   = errors.New("room already exists")
)

// Room 把一个游戏和一个连接绑定在一起
type Room struct {
	ID        string
	Game      *game.Game
	Session   *session.Session
	CreatedAt time.Time
}

// Close 停止游戏, 取消尚未触发的 tick
func (r *Room) Close() {
	r.Game.Close()
}

// Manager 房间管理器. Every room gets its own game built from the same
// configuration, scheduler and observer.
type Manager struct {
	rooms     map[string]*Room
	mutex     sync.RWMutex
	config    game.Config
	scheduler game.Scheduler
	observer  game.Observer
	maxRooms  int
}

// NewRoomManager 创建一个新的房间管理器. maxRooms <= 0 means no limit.
func NewRoomManager(cfg game.Config, scheduler game.Scheduler, observer game.Observer, maxRooms int) *Manager {
	return &Manager{
		rooms:     make(map[string]*Room),
		config:    cfg,
		scheduler: scheduler,
		observer:  observer,
		maxRooms:  maxRooms,
	}
}

// CreateRoom 创建一个新房间, with a fresh game rendered to sess.
func (m *Manager) CreateRoom(id string, sess *session.Session) (*Room, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.rooms[id]; exists {
		return nil, fmt.Errorf("create room %s: %w", id, ErrRoomExists)
	}
	if m.maxRooms > 0 && len(m.rooms) >= m.maxRooms {
		return nil, fmt.Errorf("create room %s: %w", id, ErrRoomsFull)
	}

	renderer := session.NewFrameRenderer(sess, m.config.Board)
	g, err := game.New(id, m.config, game.Collaborators{
		Renderer:  renderer,
		Scheduler: m.scheduler,
		Audio:     renderer,
		Notifier:  renderer,
		Observer:  m.observer,
	})
	if err != nil {
		return nil, fmt.Errorf("create room %s: %w", id, err)
	}

	room := &Room{
		ID:        id,
		Game:      g,
		Session:   sess,
		CreatedAt: time.Now(),
	}
	m.rooms[id] = room
	sess.RoomID = id

	logger.Log.Infof("Room %s created for session %s", id, sess.GetID())
	return room, nil
}

// RemoveRoom 从管理器中移除并关闭一个房间
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	room, exists := m.rooms[id]
	delete(m.rooms, id)
	m.mutex.Unlock()

	if exists {
		room.Close()
		logger.Log.Infof("Room %s removed", id)
	}
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// Snapshot returns the state of the game in room id.
func (m *Manager) Snapshot(id string) (game.Snapshot, error) {
	room, exists := m.GetRoom(id)
	if !exists {
		return game.Snapshot{}, fmt.Errorf("room %s: %w", id, ErrRoomNotFound)
	}
	return room.Game.Snapshot(), nil
}

// IDs returns the room IDs in sorted order.
func (m *Manager) IDs() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// CloseAll 关闭所有房间
func (m *Manager) CloseAll() {
	for _, id := range m.IDs() {
		m.RemoveRoom(id)
	}
}
