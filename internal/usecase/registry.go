package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/rocketscienceinc/tilewars-backend/internal/apperror"
	"github.com/rocketscienceinc/tilewars-backend/internal/entity"
	"github.com/rocketscienceinc/tilewars-backend/internal/tilewars"
)

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// Room pairs one game with the mutex that serializes every intent for it.
// Callers hold the lock across validate, mutate and broadcast so all
// participants observe results in admission order.
type Room struct {
	ID   string
	Game *tilewars.Game

	mu sync.Mutex
}

func (that *Room) Lock() {
	that.mu.Lock()
}

func (that *Room) Unlock() {
	that.mu.Unlock()
}

// RoomRegistry maps room identifiers to games and participants to their
// room. Rooms never block each other; entries are removed only when a
// room is closed, never on transient disconnect.
//
// Known gap, preserved from the original behaviour: a disconnected active
// participant stalls their room until they reconnect. There is no timeout
// or forfeit path.
type RoomRegistry struct {
	logger   *slog.Logger
	sessions sessionRepo

	mu           sync.RWMutex
	nextRoomID   int64
	rooms        map[string]*Room
	participants map[string]string
}

func NewRoomRegistry(logger *slog.Logger, sessions sessionRepo) *RoomRegistry {
	return &RoomRegistry{
		logger:   logger.With("component", "registry"),
		sessions: sessions,

		rooms:        make(map[string]*Room),
		participants: make(map[string]string),
	}
}

// CreateRoom - allocates a fresh room with the creator as its first
// player. Room identifiers increase monotonically.
func (that *RoomRegistry) CreateRoom(ctx context.Context, participantID, name string) *Room {
	that.mu.Lock()

	roomID := strconv.FormatInt(that.nextRoomID, 10)
	that.nextRoomID++

	room := &Room{ID: roomID, Game: tilewars.NewGame(roomID)}
	room.Game.AddPlayer(participantID, name)

	that.rooms[roomID] = room
	that.participants[participantID] = roomID

	that.mu.Unlock()

	that.saveSession(ctx, participantID, name)

	that.logger.Info("room created", "room", roomID, "participant", participantID)

	return room
}

// JoinRoom - adds a participant to an existing lobby, returning the room
// and a snapshot of the participant names already in it.
func (that *RoomRegistry) JoinRoom(ctx context.Context, roomID, participantID, name string) (*Room, map[string]string, error) {
	that.mu.Lock()

	room, ok := that.rooms[roomID]
	if !ok {
		that.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: room %s", apperror.ErrRoomNotFound, roomID)
	}

	room.Lock()
	if !room.Game.AddPlayer(participantID, name) {
		room.Unlock()
		that.mu.Unlock()

		return nil, nil, fmt.Errorf("%w: room %s", apperror.ErrRoomFull, roomID)
	}
	names := room.Game.PlayerNames()
	room.Unlock()

	that.participants[participantID] = roomID
	that.mu.Unlock()

	that.saveSession(ctx, participantID, name)

	that.logger.Info("participant joined room", "room", roomID, "participant", participantID)

	return room, names, nil
}

// RouteToRoom - the reverse lookup used for every per-participant intent.
func (that *RoomRegistry) RouteToRoom(participantID string) (*Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	roomID, ok := that.participants[participantID]
	if !ok {
		return nil, fmt.Errorf("%w: participant %s is not in a room", apperror.ErrRoomNotFound, participantID)
	}

	return that.rooms[roomID], nil
}

// ReassignIdentity - remaps a participant from a previous identifier to a
// new one after a reconnect, so hand, captures and turn-order position
// survive the transport-level identity change. The remap is serialized
// with in-flight moves on the same room.
func (that *RoomRegistry) ReassignIdentity(ctx context.Context, previousID, newID string) (*Room, error) {
	session, err := that.sessions.GetByID(ctx, previousID)
	if err != nil {
		if errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrUnknownParticipant, previousID)
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	that.mu.Lock()

	roomID, ok := that.participants[previousID]
	if !ok {
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is not in a room", apperror.ErrUnknownParticipant, previousID)
	}

	room := that.rooms[roomID]

	room.Lock()
	room.Game.ReassignPlayer(previousID, newID)
	room.Unlock()

	delete(that.participants, previousID)
	that.participants[newID] = roomID

	that.mu.Unlock()

	that.saveSession(ctx, newID, session.Name)

	if err = that.sessions.DeleteByID(ctx, previousID); err != nil {
		that.logger.Error("failed to delete previous session", "participant", previousID, "error", err)
	}

	that.logger.Info("identity reassigned", "room", roomID, "from", previousID, "to", newID)

	return room, nil
}

// CloseRoom - removes a finished room and every participant bound to it.
func (that *RoomRegistry) CloseRoom(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return
	}

	for id := range room.Game.PlayerNames() {
		delete(that.participants, id)
	}
	delete(that.rooms, roomID)

	that.logger.Info("room closed", "room", roomID)
}

// saveSession - records the reconnect token. A failure degrades only the
// reconnect flow, so the room operation itself is not aborted.
func (that *RoomRegistry) saveSession(ctx context.Context, participantID, name string) {
	session := &entity.Session{ID: participantID, Name: name}

	if err := that.sessions.Save(ctx, session); err != nil {
		that.logger.Error("failed to save session", "participant", participantID, "error", err)
	}
}
