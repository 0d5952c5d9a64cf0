package ws

import "blackjack-bankroll/internal/game"

// Roles a connection can hold at a table.
const (
	RoleDealer = "dealer"
	RolePlayer = "player"
)

// Inbound messages. Every request carries a "type" discriminator; the
// dispatcher decodes the base envelope first and the full message second.

type CreateTableMessage struct {
	Type     string      `json:"type"`
	Nickname string      `json:"nickname"`
	Rules    *game.Rules `json:"rules,omitempty"`
}

type JoinTableMessage struct {
	Type      string `json:"type"`
	TableCode string `json:"tableCode"`
	Nickname  string `json:"nickname"`
}

type PlaceBetMessage struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
}

// BetRefMessage addresses an existing bet by position; used by split_bet and
// double_bet.
type BetRefMessage struct {
	Type     string `json:"type"`
	BetIndex int    `json:"betIndex"`
}

type SetResultsMessage struct {
	Type    string        `json:"type"`
	Results []ResultEntry `json:"results"`
}

type ResultEntry struct {
	BetIndex int    `json:"betIndex"`
	Outcome  string `json:"outcome"`
}

type KickPlayerMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

// Outbound messages. The table_state snapshot itself is game.TableView.

type Welcome struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type TableCreated struct {
	Type       string     `json:"type"`
	TableCode  string     `json:"tableCode"`
	Role       string     `json:"role"`
	DealerName string     `json:"dealerName"`
	Rules      game.Rules `json:"rules"`
}

type JoinedTable struct {
	Type      string `json:"type"`
	TableCode string `json:"tableCode"`
	Role      string `json:"role"`
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
}

type TableClosed struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type Kicked struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type Echo struct {
	Type     string `json:"type"`
	Received string `json:"received"`
}
