package game

import (
	"fmt"
	"strings"
)

// palette of player colors handed out in order; once exhausted every further
// player shares the fallback.
var palette = []string{
	"#e57373",
	"#64b5f6",
	"#81c784",
	"#fff176",
	"#ba68c8",
	"#ffb74d",
	"#4db6ac",
	"#dce775",
}

const fallbackColor = "#cccccc"

// Session is the mutable game state of one table: rules, roster, balances and
// the current round. It is not safe for concurrent use; the owner serializes
// every mutation.
type Session struct {
	Rules    Rules
	players  []*Player
	balances map[string]int64
	round    *Round
}

func NewSession(rules Rules) *Session {
	return &Session{
		Rules:    rules,
		balances: make(map[string]int64),
	}
}

// Players returns the roster in join order.
func (s *Session) Players() []*Player {
	return s.players
}

// Round returns the current round, or nil when none is active.
func (s *Session) Round() *Round {
	return s.round
}

// Balance reports the tracked balance for a player.
func (s *Session) Balance(playerID string) (int64, bool) {
	b, ok := s.balances[playerID]
	return b, ok
}

// AddPlayer seats a player with a fresh starting balance and the next free
// palette color. Names must be non-blank and unique case-insensitively.
func (s *Session) AddPlayer(id, name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	lower := strings.ToLower(name)
	for _, p := range s.players {
		if strings.ToLower(p.Name) == lower {
			return nil, ErrNameTaken
		}
	}
	p := &Player{ID: id, Name: name, Color: s.nextColor()}
	s.players = append(s.players, p)
	s.balances[id] = s.Rules.StartingBalance
	return p, nil
}

func (s *Session) nextColor() string {
	used := make(map[string]bool, len(s.players))
	for _, p := range s.players {
		used[p.Color] = true
	}
	for _, c := range palette {
		if !used[c] {
			return c
		}
	}
	return fallbackColor
}

// RemovePlayer drops a player from the roster and balances and purges their
// bets from the active round. Reports whether the player was seated.
func (s *Session) RemovePlayer(playerID string) bool {
	found := false
	kept := s.players[:0]
	for _, p := range s.players {
		if p.ID == playerID {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	s.players = kept
	if !found {
		return false
	}
	delete(s.balances, playerID)
	if s.round != nil {
		bets := s.round.Bets[:0]
		for _, b := range s.round.Bets {
			if b.PlayerID != playerID {
				bets = append(bets, b)
			}
		}
		s.round.Bets = bets
	}
	return true
}

// StartRound opens a new betting round. Only allowed when no round is active
// or the previous one finished.
func (s *Session) StartRound(roundID string) error {
	if s.round != nil && s.round.Status == RoundBetting {
		return ErrRoundInProgress
	}
	s.round = &Round{ID: roundID, Status: RoundBetting}
	return nil
}

// Reset restores every balance to the starting balance and clears the round.
func (s *Session) Reset() {
	for id := range s.balances {
		s.balances[id] = s.Rules.StartingBalance
	}
	s.round = nil
}

// PlaceBet debits the player and appends their initial hand for this round.
// One bet per player; splits create further hands.
func (s *Session) PlaceBet(playerID string, amount int64) error {
	if s.round == nil || s.round.Status != RoundBetting {
		return ErrBettingClosed
	}
	for _, b := range s.round.Bets {
		if b.PlayerID == playerID {
			return ErrBetAlreadyPlaced
		}
	}
	balance, ok := s.balances[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount < s.Rules.MinBet {
		return fmt.Errorf("%w (%d)", ErrBetBelowMin, s.Rules.MinBet)
	}
	if amount > s.Rules.MaxBet {
		return fmt.Errorf("%w (%d)", ErrBetAboveMax, s.Rules.MaxBet)
	}
	if amount > balance {
		return ErrInsufficientBalance
	}
	s.balances[playerID] -= amount
	s.round.Bets = append(s.round.Bets, Bet{
		PlayerID:  playerID,
		HandIndex: 1,
		Amount:    amount,
	})
	return nil
}

// SplitBet debits the owner of the addressed bet by the same amount and
// inserts the new hand immediately after it. The new hand index is one past
// the owner's highest, keeping resplits in a stable order.
func (s *Session) SplitBet(betIndex int) (Bet, error) {
	if s.round == nil || s.round.Status != RoundBetting {
		return Bet{}, ErrBettingClosed
	}
	if betIndex < 0 || betIndex >= len(s.round.Bets) {
		return Bet{}, ErrInvalidBetIndex
	}
	src := s.round.Bets[betIndex]
	balance, ok := s.balances[src.PlayerID]
	if !ok {
		return Bet{}, ErrUnknownPlayer
	}
	if balance < src.Amount {
		return Bet{}, ErrInsufficientBalance
	}

	maxHand := 1
	for _, b := range s.round.Bets {
		if b.PlayerID == src.PlayerID && b.HandIndex > maxHand {
			maxHand = b.HandIndex
		}
	}
	next := Bet{
		PlayerID:  src.PlayerID,
		HandIndex: maxHand + 1,
		Amount:    src.Amount,
	}

	s.balances[src.PlayerID] -= src.Amount
	s.round.Bets = append(s.round.Bets, Bet{})
	copy(s.round.Bets[betIndex+2:], s.round.Bets[betIndex+1:])
	s.round.Bets[betIndex+1] = next
	return next, nil
}

// DoubleBet debits the owner by the original amount and marks the bet
// doubled. A bet doubles at most once and never after resolution.
func (s *Session) DoubleBet(betIndex int) (Bet, error) {
	if s.round == nil || s.round.Status != RoundBetting {
		return Bet{}, ErrBettingClosed
	}
	if betIndex < 0 || betIndex >= len(s.round.Bets) {
		return Bet{}, ErrInvalidBetIndex
	}
	bet := &s.round.Bets[betIndex]
	if bet.IsDouble || bet.Resolved() {
		return Bet{}, ErrBetSettled
	}
	balance, ok := s.balances[bet.PlayerID]
	if !ok {
		return Bet{}, ErrUnknownPlayer
	}
	if balance < bet.Amount {
		return Bet{}, ErrInsufficientBalance
	}
	s.balances[bet.PlayerID] -= bet.Amount
	bet.IsDouble = true
	return *bet, nil
}

// Result is one entry of a set_results batch.
type Result struct {
	BetIndex int
	Outcome  Outcome
}

// Applied records one result that actually took effect.
type Applied struct {
	PlayerID     string
	BetIndex     int
	Outcome      Outcome
	Stake        int64
	Delta        int64
	BalanceAfter int64
}

// ApplyResults credits payouts for each addressable, unresolved entry and
// records the outcomes. Entries with bad indices, empty outcomes or
// already-resolved bets are skipped; the batch is not atomic. When every bet
// of a non-empty round is resolved the round finishes.
func (s *Session) ApplyResults(results []Result) ([]Applied, error) {
	if s.round == nil {
		return nil, ErrNoRound
	}
	var applied []Applied
	for _, r := range results {
		if r.Outcome == "" {
			// an empty outcome can never mark the bet resolved, so crediting
			// it would be repeatable
			continue
		}
		if r.BetIndex < 0 || r.BetIndex >= len(s.round.Bets) {
			continue
		}
		bet := &s.round.Bets[r.BetIndex]
		if bet.Resolved() {
			continue
		}
		if _, ok := s.balances[bet.PlayerID]; !ok {
			continue
		}
		delta := PayoutDelta(r.Outcome, bet.Stake())
		s.balances[bet.PlayerID] += delta
		bet.Outcome = r.Outcome
		applied = append(applied, Applied{
			PlayerID:     bet.PlayerID,
			BetIndex:     r.BetIndex,
			Outcome:      r.Outcome,
			Stake:        bet.Stake(),
			Delta:        delta,
			BalanceAfter: s.balances[bet.PlayerID],
		})
	}
	if len(s.round.Bets) > 0 {
		finished := true
		for _, b := range s.round.Bets {
			if !b.Resolved() {
				finished = false
				break
			}
		}
		if finished {
			s.round.Status = RoundFinished
		}
	}
	return applied, nil
}

// Snapshot builds the role-agnostic public view of the session.
func (s *Session) Snapshot(tableCode string) TableView {
	players := make([]PlayerView, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, PlayerView{
			ID:      p.ID,
			Name:    p.Name,
			Color:   p.Color,
			Balance: s.balances[p.ID],
		})
	}
	var round *RoundView
	if s.round != nil {
		bets := make([]BetView, 0, len(s.round.Bets))
		for _, b := range s.round.Bets {
			var outcome *string
			if b.Resolved() {
				o := string(b.Outcome)
				outcome = &o
			}
			bets = append(bets, BetView{
				PlayerID:  b.PlayerID,
				HandIndex: b.HandIndex,
				Amount:    b.Amount,
				IsDouble:  b.IsDouble,
				Outcome:   outcome,
			})
		}
		round = &RoundView{ID: s.round.ID, Status: string(s.round.Status), Bets: bets}
	}
	return TableView{
		Type:      "table_state",
		TableCode: tableCode,
		Players:   players,
		Round:     round,
		Rules:     s.Rules,
	}
}
