// network/connection.go
package network

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrPayloadTooLarge  = errors.New("payload does not fit a packet")
	ErrSendQueueFull    = errors.New("send queue full")
	ErrConnectionClosed = errors.New("connection closed")
)

type Packet struct {
	MsgID  uint16
	Data   []byte
	Length uint16
}

type Connection interface {
	Send(msgID uint16, data []byte) error
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
	ReadPacket() (*Packet, error)
}

// EncodePacket frames data as 2 byte message ID + 2 byte length + data,
// big endian.
func EncodePacket(msgID uint16, data []byte) ([]byte, error) {
	if len(data) > math.MaxUint16 {
		return nil, fmt.Errorf("message %d with %d bytes: %w", msgID, len(data), ErrPayloadTooLarge)
	}
	// 封包: 2字节消息ID + 2字节数据长度 + 数据
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)
	return packet, nil
}

// DecodePacket is the inverse of EncodePacket. Bytes after the declared
// length are ignored.
func DecodePacket(data []byte) (*Packet, error) {
	if len(data) < 4 {
		return nil, io.ErrShortBuffer
	}

	msgID := binary.BigEndian.Uint16(data[0:2])
	length := binary.BigEndian.Uint16(data[2:4])

	if len(data) < 4+int(length) {
		return nil, io.ErrShortBuffer
	}

	return &Packet{
		MsgID:  msgID,
		Length: length,
		Data:   data[4 : 4+int(length)],
	}, nil
}

// SendJSON marshals v and sends it as one packet.
func SendJSON(c Connection, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message %d: %w", msgID, err)
	}
	return c.Send(msgID, data)
}

const (
	// WriteTimeout bounds a single websocket write. A peer that stays
	// behind for longer is disconnected.
	WriteTimeout = 5 * time.Second
	// SendQueueSize is the number of packets buffered per connection.
	SendQueueSize = 64
)

// WSConnection sends through a bounded queue drained by its own writer
// goroutine, so Send never waits on the network.
type WSConnection struct {
	conn         *websocket.Conn
	queue        chan []byte
	closed       chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
	heartbeat    time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return newWSConnection(conn, WriteTimeout, SendQueueSize)
}

func newWSConnection(conn *websocket.Conn, writeTimeout time.Duration, queueSize int) *WSConnection {
	c := &WSConnection{
		conn:         conn,
		queue:        make(chan []byte, queueSize),
		closed:       make(chan struct{}),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
	}
	go c.writeLoop()
	return c
}

// Dial opens a client connection to a game server.
func Dial(url string) (*WSConnection, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewWSConnection(conn), nil
}

// Send queues one packet. It fails with ErrSendQueueFull instead of
// blocking when the peer is not keeping up; the packet is dropped then.
func (c *WSConnection) Send(msgID uint16, data []byte) error {
	packet, err := EncodePacket(msgID, data)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.queue <- packet:
		return nil
	default:
		return fmt.Errorf("message %d: %w", msgID, ErrSendQueueFull)
	}
}

func (c *WSConnection) writeLoop() {
	defer close(c.done)
	defer c.conn.Close()

	for {
		select {
		case packet := <-c.queue:
			if err := c.write(packet, time.Now().Add(c.writeTimeout)); err != nil {
				c.markClosed()
				return
			}
		case <-c.closed:
			// 关闭前把已排队的消息发完
			deadline := time.Now().Add(c.writeTimeout)
			for {
				select {
				case packet := <-c.queue:
					if err := c.write(packet, deadline); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (c *WSConnection) write(packet []byte, deadline time.Time) error {
	c.conn.SetWriteDeadline(deadline)
	return c.conn.WriteMessage(websocket.BinaryMessage, packet)
}

func (c *WSConnection) markClosed() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// ReadPacket blocks for the next packet. Every packet extends the read
// deadline when a heartbeat interval is set.
func (c *WSConnection) ReadPacket() (*Packet, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return DecodePacket(data)
}

func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

// Close flushes the packets already queued, then closes the socket. The
// flush is bounded by one write timeout.
func (c *WSConnection) Close() error {
	c.markClosed()
	<-c.done
	return nil
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
