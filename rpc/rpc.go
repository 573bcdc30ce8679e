package rpc

import (
	"errors"
	"net"
	"net/rpc"

	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/room"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
	rpc      *rpc.Server
}

// NewServer listens on addr and serves the given services.
func NewServer(addr string, services ...interface{}) (*Server, error) {
	server := rpc.NewServer()
	for _, service := range services {
		if err := server.Register(service); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
		rpc:      server,
	}, nil
}

// Addr is the address actually bound, useful with port 0.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// GameService exposes the hosted games read only.
type GameService struct {
	rooms *room.Manager
}

func NewGameService(rooms *room.Manager) *GameService {
	return &GameService{rooms: rooms}
}

type GetStatusArgs struct {
	RoomID string
}

type GetStatusReply struct {
	State  string
	Score  int
	Length int
	Ticks  int
}

// GetStatus reports one game. It follows the net/rpc method signature.
func (gs *GameService) GetStatus(args *GetStatusArgs, reply *GetStatusReply) error {
	snap, err := gs.rooms.Snapshot(args.RoomID)
	if err != nil {
		return err
	}
	reply.State = snap.State
	reply.Score = snap.Score
	reply.Length = len(snap.Snake)
	reply.Ticks = snap.Ticks
	return nil
}

// ListRoomsArgs limits the reply to the first Limit IDs; zero lists all.
type ListRoomsArgs struct {
	Limit int
}

type ListRoomsReply struct {
	RoomIDs []string
}

func (gs *GameService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	ids := gs.rooms.IDs()
	if args.Limit > 0 && len(ids) > args.Limit {
		ids = ids[:args.Limit]
	}
	reply.RoomIDs = ids
	return nil
}
