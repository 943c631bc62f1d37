package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrSendBufferFull   = errors.New("send buffer is full")
)

type State int32

const (
	StateOpen State = iota
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Connection - one live client socket. The server only writes to it,
// inbound frames are read and dropped so close and pong frames get processed.
type Connection struct {
	ID string

	logger *slog.Logger
	conn   *gorilla.Conn
	send   chan []byte
	done   chan struct{}

	state     atomic.Int32
	closeOnce sync.Once
}

func NewConnection(logger *slog.Logger, conn *gorilla.Conn) *Connection {
	id := uuid.NewString()

	return &Connection{
		ID:     id,
		logger: logger.With("connection", id),
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (that *Connection) State() State {
	return State(that.state.Load())
}

// IsLive - open and closing connections still receive broadcasts.
func (that *Connection) IsLive() bool {
	return that.State() != StateClosed
}

// Send - queues message for the write pump without waiting for delivery.
func (that *Connection) Send(message []byte) error {
	if !that.IsLive() {
		return ErrConnectionClosed
	}

	select {
	case that.send <- message:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close - asks the write pump to send a close frame and release the socket.
func (that *Connection) Close() {
	that.closeOnce.Do(func() {
		that.state.CompareAndSwap(int32(StateOpen), int32(StateClosing))
		close(that.done)
	})
}

// Serve - runs the read and write pumps and returns once the socket is closed.
func (that *Connection) Serve(ctx context.Context) {
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		that.writePump(ctx)
	}()

	that.readPump()
	that.Close()

	<-writeDone
}

func (that *Connection) readPump() {
	log := that.logger.With("method", "readPump")

	that.conn.SetReadLimit(maxMessageSize)

	if err := that.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error("failed to set read deadline", "error", err)
		return
	}

	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := that.conn.ReadMessage(); err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}
	}
}

func (that *Connection) writePump(ctx context.Context) {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		that.state.Store(int32(StateClosed))

		if dropped := len(that.send); dropped > 0 {
			log.Warn("dropping queued messages", "count", dropped)
		}

		closeMessage := gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "")
		_ = that.conn.WriteControl(gorilla.CloseMessage, closeMessage, time.Now().Add(writeWait))

		if err := that.conn.Close(); err != nil {
			log.Debug("failed to close socket", "error", err)
		}

		that.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-that.done:
			that.flush(log)
			return
		case message := <-that.send:
			if err := that.write(gorilla.TextMessage, message); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			if err := that.write(gorilla.PingMessage, nil); err != nil {
				log.Error("failed to write ping", "error", err)
				return
			}
		}
	}
}

// flush - writes whatever was queued before Close, so a closing connection still delivers.
func (that *Connection) flush(log *slog.Logger) {
	for {
		select {
		case message := <-that.send:
			if err := that.write(gorilla.TextMessage, message); err != nil {
				log.Error("failed to flush message", "error", err)
				return
			}
		default:
			return
		}
	}
}

func (that *Connection) write(messageType int, data []byte) error {
	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteMessage(messageType, data); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}

	return nil
}
