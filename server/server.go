package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/network"
	"github.com/wfunc/snakegrid/room"
	"github.com/wfunc/snakegrid/session"
)

// HeartbeatInterval is how often clients are expected to send something.
// A connection silent for two intervals is closed.
const HeartbeatInterval = 30 * time.Second

// GameServer hosts one game per WebSocket connection on /ws.
type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	httpServer     *http.Server
	mutex          sync.Mutex
	shutdownChan   chan struct{}
	closed         bool
}

func NewGameServer(addr string, rooms *room.Manager) *GameServer {
	s := &GameServer{
		addr:           addr,
		roomManager:    rooms,
		sessionManager: session.NewManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	return s
}

// Handler routes /ws to the game endpoint.
func (s *GameServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start blocks serving HTTP until Shutdown.
func (s *GameServer) Start() error {
	logger.Log.Infof("Game server listening on %s", s.addr)
	go s.sweepLoop()
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and closes every game.
func (s *GameServer) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	if !s.closed {
		s.closed = true
		close(s.shutdownChan)
	}
	s.mutex.Unlock()

	err := s.httpServer.Shutdown(ctx)
	s.roomManager.CloseAll()
	return err
}

// sweepLoop closes idle sessions once per heartbeat interval.
func (s *GameServer) sweepLoop() {
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			s.sweepIdle(now.Add(-2 * HeartbeatInterval))
		case <-s.shutdownChan:
			return
		}
	}
}

// sweepIdle closes every session silent since cutoff. Closing the
// connection ends its read loop, which removes the session and its room.
func (s *GameServer) sweepIdle(cutoff time.Time) int {
	idle := s.sessionManager.IdleSince(cutoff)
	for _, sess := range idle {
		logger.Log.Infof("Closing idle session %s, last active %s", sess.GetID(), sess.LastActive().Format(time.RFC3339))
		sess.Close()
	}
	if len(idle) > 0 {
		logger.Log.Infof("Closed %d idle sessions, %d remain", len(idle), s.sessionManager.Count()-len(idle))
	}
	return len(idle)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		if sess.RoomID != "" {
			s.roomManager.RemoveRoom(sess.RoomID)
		}
		wsConn.Close()
	}()

	if _, err := s.roomManager.CreateRoom(uuid.New().String(), sess); err != nil {
		logger.Log.Warnf("Session %s rejected: %v", sess.GetID(), err)
		sess.SendError(err)
		return
	}
	wsConn.SetHeartbeat(HeartbeatInterval)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.shutdownChan:
			wsConn.Close()
		case <-done:
		}
	}()

	for {
		packet, err := wsConn.ReadPacket()
		if err != nil {
			return
		}
		s.handlePacket(sess, packet)
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	sess.Touch()

	rm, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		logger.Log.Errorf("Room %s not found for session %s", sess.RoomID, sess.GetID())
		return
	}

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
	case network.MsgTypeStart:
		if err := rm.Game.Start(); err != nil {
			logger.Log.Errorf("Session %s: start failed: %v", sess.GetID(), err)
			sess.SendError(err)
		}
	case network.MsgTypeReset:
		if err := rm.Game.Reset(); err != nil {
			logger.Log.Errorf("Session %s: reset failed: %v", sess.GetID(), err)
			sess.SendError(err)
		}
	case network.MsgTypeKey:
		var key network.KeyPayload
		if err := json.Unmarshal(packet.Data, &key); err != nil {
			logger.Log.Warnf("Session %s sent a malformed key: %v", sess.GetID(), err)
			return
		}
		rm.Game.HandleKey(key.Code)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}
