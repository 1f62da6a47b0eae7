package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tilewars-backend/internal/entity"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createGamePayload struct {
	Name string `json:"name"`
}

type joinGamePayload struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

type playTurnPayload struct {
	Selection int `json:"selection"`
	X         int `json:"x"`
	Y         int `json:"y"`
}

type reconnectPayload struct {
	PreviousID string `json:"previousID"`
}

type newGamePayload struct {
	NewRoomID   string `json:"newRoomID"`
	NewPlayerID string `json:"newPlayerID"`
}

type gameJoinedPayload struct {
	NewPlayerID string            `json:"newPlayerID"`
	PlayerNames map[string]string `json:"playerNames"`
}

type playerJoinedPayload struct {
	NewPlayerID   string `json:"newPlayerID"`
	NewPlayerName string `json:"newPlayerName"`
}

type gameStartedPayload struct {
	StartingTiles [entity.HandSize]string `json:"startingTiles"`
	ActivePlayer  string                  `json:"activePlayer"`
}

type myTilesPayload struct {
	Tiles [entity.HandSize]string `json:"tiles"`
}

type updateStatePayload struct {
	Map          entity.Board                     `json:"map"`
	TilesTaken   map[string][]entity.CapturedTile `json:"tilesTaken"`
	ActivePlayer string                           `json:"activePlayer"`
}

type gameEndPayload struct {
	WinType string   `json:"winType"`
	Winners []string `json:"winners"`
}

type errorPayload struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}
