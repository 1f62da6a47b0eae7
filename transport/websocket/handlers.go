package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tilewars-backend/internal/apperror"
	"github.com/rocketscienceinc/tilewars-backend/internal/tilewars"
	"github.com/rocketscienceinc/tilewars-backend/internal/usecase"
)

func (that *Server) handleCreateGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleCreateGame")

	var payload createGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room := that.registry.CreateRoom(ctx, c.id, payload.Name)

	log.Info("room created", "room", room.ID, "participant", c.id)

	return that.conns.sendTo(c.id, "game:new", newGamePayload{
		NewRoomID:   room.ID,
		NewPlayerID: c.id,
	})
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleJoinGame")

	var payload joinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	_, names, err := that.registry.JoinRoom(ctx, payload.Room, c.id, payload.Name)
	if err != nil {
		log.Info("join rejected", "room", payload.Room, "participant", c.id, "error", err)
		return that.sendError(c, err, apperror.Reason(err))
	}

	if err = that.conns.sendTo(c.id, "game:joined", gameJoinedPayload{
		NewPlayerID: c.id,
		PlayerNames: names,
	}); err != nil {
		return err
	}

	// announce the newcomer to everyone already in the room
	for id := range names {
		if id == c.id {
			continue
		}

		if err = that.conns.sendTo(id, "player:joined", playerJoinedPayload{
			NewPlayerID:   c.id,
			NewPlayerName: payload.Name,
		}); err != nil {
			log.Error("failed to announce participant", "to", id, "error", err)
		}
	}

	return nil
}

func (that *Server) handleStartGame(_ context.Context, c *client, _ *Message) error {
	log := that.logger.With("method", "handleStartGame")

	room, err := that.registry.RouteToRoom(c.id)
	if err != nil {
		return that.sendError(c, err, apperror.Reason(err))
	}

	room.Lock()
	defer room.Unlock()

	if !room.Game.Start() {
		err = apperror.ErrInsufficientPlayers
		return that.sendError(c, err, apperror.Reason(err))
	}

	log.Info("game started", "room", room.ID, "players", room.Game.PlayerCount())

	// hands differ, so every participant gets their own start message
	active := room.Game.ActivePlayer()
	for id := range room.Game.PlayerNames() {
		player, _ := room.Game.Player(id)

		if err = that.conns.sendTo(id, "game:started", gameStartedPayload{
			StartingTiles: player.Hand,
			ActivePlayer:  active,
		}); err != nil {
			log.Error("failed to send starting tiles", "to", id, "error", err)
		}
	}

	return nil
}

// handlePlayTurn applies one move under the room's lock and broadcasts
// the result before releasing it, so no participant can act on a stale
// board.
func (that *Server) handlePlayTurn(_ context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handlePlayTurn")

	var payload playTurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.registry.RouteToRoom(c.id)
	if err != nil {
		return that.sendError(c, err, apperror.Reason(err))
	}

	room.Lock()

	result, err := room.Game.SubmitMove(c.id, payload.Selection, payload.X, payload.Y)
	if err != nil {
		room.Unlock()

		if errors.Is(err, apperror.ErrPoolExhausted) {
			// a sizing bug, not a rule violation: surface it loudly
			log.Error("draw pool exhausted",
				"room", room.ID, "participant", c.id,
				"selection", payload.Selection, "x", payload.X, "y", payload.Y,
				"error", err)
		}

		return that.sendError(c, err, apperror.Reason(err))
	}

	that.broadcastState(room, result.NextActive)
	that.sendHands(room)

	var outcome *tilewars.Outcome
	if result.NextActive == "" {
		ended := room.Game.End()
		outcome = &ended
		that.broadcastEnd(room, outcome)
	}

	room.Unlock()

	if outcome != nil {
		that.registry.CloseRoom(room.ID)
	}

	return nil
}

func (that *Server) handleReconnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleReconnect")

	var payload reconnectPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	room, err := that.registry.ReassignIdentity(ctx, payload.PreviousID, c.id)
	if err != nil {
		if errors.Is(err, apperror.ErrUnknownParticipant) {
			// non-fatal: the participant proceeds into a fresh flow
			log.Info("reconnect without a known session", "previous", payload.PreviousID, "participant", c.id)
			return nil
		}

		return fmt.Errorf("failed to reassign identity: %w", err)
	}

	log.Info("participant reconnected", "room", room.ID, "previous", payload.PreviousID, "participant", c.id)

	room.Lock()
	defer room.Unlock()

	if !room.Game.IsOngoing() {
		return nil
	}

	// bring the reconnected participant back up to date
	if err = that.conns.sendTo(c.id, "state:update", updateStatePayload{
		Map:          room.Game.Board,
		TilesTaken:   room.Game.TilesTaken(),
		ActivePlayer: room.Game.ActivePlayer(),
	}); err != nil {
		return err
	}

	player, ok := room.Game.Player(c.id)
	if !ok {
		return nil
	}

	return that.conns.sendTo(c.id, "tiles:mine", myTilesPayload{Tiles: player.Hand})
}

// broadcastState sends the committed move to every participant of the
// room. Callers hold the room lock.
func (that *Server) broadcastState(room *usecase.Room, activePlayer string) {
	log := that.logger.With("method", "broadcastState")

	payload := updateStatePayload{
		Map:          room.Game.Board,
		TilesTaken:   room.Game.TilesTaken(),
		ActivePlayer: activePlayer,
	}

	for id := range room.Game.PlayerNames() {
		if err := that.conns.sendTo(id, "state:update", payload); err != nil {
			log.Error("failed to send state", "room", room.ID, "to", id, "error", err)
		}
	}
}

// sendHands refreshes every participant's private hand after a draw.
func (that *Server) sendHands(room *usecase.Room) {
	log := that.logger.With("method", "sendHands")

	for id := range room.Game.PlayerNames() {
		player, _ := room.Game.Player(id)

		if err := that.conns.sendTo(id, "tiles:mine", myTilesPayload{Tiles: player.Hand}); err != nil {
			log.Error("failed to send tiles", "room", room.ID, "to", id, "error", err)
		}
	}
}

func (that *Server) broadcastEnd(room *usecase.Room, outcome *tilewars.Outcome) {
	log := that.logger.With("method", "broadcastEnd")

	names := room.Game.PlayerNames()

	winners := make([]string, 0, len(outcome.Winners))
	for _, id := range outcome.Winners {
		winners = append(winners, names[id])
	}

	payload := gameEndPayload{
		WinType: outcome.Kind,
		Winners: winners,
	}

	for id := range names {
		if err := that.conns.sendTo(id, "game:end", payload); err != nil {
			log.Error("failed to send outcome", "room", room.ID, "to", id, "error", err)
		}
	}

	log.Info("game ended", "room", room.ID, "winType", outcome.Kind, "winners", winners)
}
