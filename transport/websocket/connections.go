package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// connection wraps one participant's socket. The write mutex is required
// because gorilla's WriteJSON is not safe for concurrent writers.
type connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (that *connection) send(message Message) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err := that.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// connectionManager maps participant identifiers to their live sockets.
type connectionManager struct {
	mu          sync.RWMutex
	connections map[string]*connection
}

func newConnectionManager() *connectionManager {
	return &connectionManager{
		connections: make(map[string]*connection),
	}
}

func (that *connectionManager) add(participantID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.connections[participantID] = &connection{conn: conn}
}

// remove drops the mapping only if it still points at conn, so a fresh
// connection registered under the same identifier survives the cleanup
// of the stale one.
func (that *connectionManager) remove(participantID string, conn *websocket.Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.connections[participantID]; ok && current.conn == conn {
		delete(that.connections, participantID)
	}
}

// sendTo delivers a message to one participant. A missing connection is
// not an error: a disconnected participant simply misses the update.
func (that *connectionManager) sendTo(participantID, action string, payload any) error {
	that.mu.RLock()
	conn, ok := that.connections[participantID]
	that.mu.RUnlock()

	if !ok {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return conn.send(Message{Action: action, Payload: raw})
}
