package ledger

import (
	"sync"
	"time"
)

type Kind string

const (
	KindBetDebit     Kind = "bet_debit"
	KindSplitDebit   Kind = "split_debit"
	KindDoubleDebit  Kind = "double_debit"
	KindPayoutCredit Kind = "payout_credit"
	KindResetCredit  Kind = "reset_credit"
)

// Entry is one balance movement on a table.
type Entry struct {
	Seq          int64     `json:"seq"`
	PlayerID     string    `json:"playerId"`
	Kind         Kind      `json:"kind"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balanceAfter"`
	RoundID      string    `json:"roundId,omitempty"`
	At           time.Time `json:"at"`
}

// Journal keeps the most recent balance movements of one table in memory.
// Oldest entries are evicted once the configured depth is exceeded. A journal
// lives and dies with its table.
type Journal struct {
	mu      sync.Mutex
	depth   int
	seq     int64
	entries []Entry
}

func New(depth int) *Journal {
	if depth <= 0 {
		depth = 256
	}
	return &Journal{depth: depth}
}

// Record appends a movement, evicting the oldest entry when full.
func (j *Journal) Record(playerID string, kind Kind, amount, balanceAfter int64, roundID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.seq++
	j.entries = append(j.entries, Entry{
		Seq:          j.seq,
		PlayerID:     playerID,
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		RoundID:      roundID,
		At:           time.Now().UTC(),
	})
	if len(j.entries) > j.depth {
		j.entries = j.entries[len(j.entries)-j.depth:]
	}
}

// Entries returns a copy of the journal, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}
