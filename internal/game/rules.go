package game

import "errors"

var (
	ErrNoRound             = errors.New("no round started")
	ErrBettingClosed       = errors.New("betting is not open")
	ErrRoundInProgress     = errors.New("a round is already in progress")
	ErrBetAlreadyPlaced    = errors.New("bet already placed for this round")
	ErrInvalidAmount       = errors.New("invalid bet amount")
	ErrBetBelowMin         = errors.New("bet below minimum")
	ErrBetAboveMax         = errors.New("bet above maximum")
	ErrInsufficientBalance = errors.New("not enough balance")
	ErrInvalidBetIndex     = errors.New("invalid bet index")
	ErrBetSettled          = errors.New("bet already doubled or resolved")
	ErrUnknownPlayer       = errors.New("unknown player")
	ErrInvalidName         = errors.New("invalid nickname")
	ErrNameTaken           = errors.New("nickname already in use at this table")
)

// Rules are fixed at table creation and never change afterwards.
type Rules struct {
	MinBet          int64 `json:"minBet"`
	MaxBet          int64 `json:"maxBet"`
	StartingBalance int64 `json:"startingBalance"`
}

// Valid reports whether the rules are usable for a new table.
func (r Rules) Valid() bool {
	return r.MinBet > 0 && r.MaxBet >= r.MinBet && r.StartingBalance > 0
}
