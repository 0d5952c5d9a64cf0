package game

// Player is one seated participant. The transport connection associated with
// the player lives at the ws layer; the session only tracks identity.
type Player struct {
	ID    string
	Name  string
	Color string
}

type RoundStatus string

const (
	RoundBetting  RoundStatus = "betting"
	RoundFinished RoundStatus = "finished"
)

// Bet is one hand's stake within a round. Outcome stays empty until the
// dealer resolves the hand, and is immutable afterwards.
type Bet struct {
	PlayerID  string
	HandIndex int
	Amount    int64
	IsDouble  bool
	Outcome   Outcome
}

// Resolved reports whether an outcome has been recorded for the bet.
func (b Bet) Resolved() bool {
	return b.Outcome != ""
}

// Stake is the amount at risk, doubled when the bet was doubled.
func (b Bet) Stake() int64 {
	if b.IsDouble {
		return 2 * b.Amount
	}
	return b.Amount
}

type Round struct {
	ID     string
	Status RoundStatus
	Bets   []Bet
}

// TableView is the role-agnostic snapshot broadcast to every participant.
// Field names match the wire protocol.
type TableView struct {
	Type      string       `json:"type"`
	TableCode string       `json:"tableCode"`
	Players   []PlayerView `json:"players"`
	Round     *RoundView   `json:"round"`
	Rules     Rules        `json:"rules"`
}

type PlayerView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Balance int64  `json:"balance"`
}

type RoundView struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Bets   []BetView `json:"bets"`
}

type BetView struct {
	PlayerID  string  `json:"playerId"`
	HandIndex int     `json:"handIndex"`
	Amount    int64   `json:"amount"`
	IsDouble  bool    `json:"isDouble"`
	Outcome   *string `json:"outcome"`
}
