package game

import (
	"errors"
	"testing"
)

func testSession(t *testing.T, names ...string) *Session {
	t.Helper()
	s := NewSession(Rules{MinBet: 10, MaxBet: 500, StartingBalance: 1000})
	for i, name := range names {
		if _, err := s.AddPlayer(playerID(i), name); err != nil {
			t.Fatalf("add player %s: %v", name, err)
		}
	}
	return s
}

func playerID(i int) string {
	return string(rune('a' + i))
}

func mustBalance(t *testing.T, s *Session, id string) int64 {
	t.Helper()
	b, ok := s.Balance(id)
	if !ok {
		t.Fatalf("no balance for %s", id)
	}
	return b
}

func TestAddPlayerNameUniqueCaseInsensitive(t *testing.T) {
	s := testSession(t, "Alice")
	if _, err := s.AddPlayer("x", "ALICE"); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	if _, err := s.AddPlayer("y", "  "); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestAddPlayerColorsUniqueUntilPaletteExhausted(t *testing.T) {
	s := NewSession(Rules{MinBet: 1, MaxBet: 10, StartingBalance: 100})
	seen := map[string]bool{}
	for i := 0; i < len(palette); i++ {
		p, err := s.AddPlayer(playerID(i), "p"+playerID(i))
		if err != nil {
			t.Fatalf("add player: %v", err)
		}
		if seen[p.Color] {
			t.Fatalf("color %s reused with palette capacity left", p.Color)
		}
		seen[p.Color] = true
	}
	extra, err := s.AddPlayer("zz", "overflow")
	if err != nil {
		t.Fatalf("add overflow player: %v", err)
	}
	if extra.Color != fallbackColor {
		t.Fatalf("overflow color = %s, want %s", extra.Color, fallbackColor)
	}
}

func TestStartRoundBlockedWhileBetting(t *testing.T) {
	s := testSession(t, "Alice")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.StartRound("r2"); !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("expected ErrRoundInProgress, got %v", err)
	}
	if err := s.PlaceBet("a", 50); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if _, err := s.ApplyResults([]Result{{BetIndex: 0, Outcome: OutcomeWon}}); err != nil {
		t.Fatalf("apply results: %v", err)
	}
	if err := s.StartRound("r2"); err != nil {
		t.Fatalf("start round after finished: %v", err)
	}
}

func TestPlaceBetValidation(t *testing.T) {
	s := testSession(t, "Alice")

	if err := s.PlaceBet("a", 50); !errors.Is(err, ErrBettingClosed) {
		t.Fatalf("expected ErrBettingClosed before any round, got %v", err)
	}
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}

	cases := []struct {
		amount int64
		want   error
	}{
		{0, ErrInvalidAmount},
		{-5, ErrInvalidAmount},
		{5, ErrBetBelowMin},
		{600, ErrBetAboveMax},
	}
	for _, c := range cases {
		if err := s.PlaceBet("a", c.amount); !errors.Is(err, c.want) {
			t.Fatalf("PlaceBet(%d) = %v, want %v", c.amount, err, c.want)
		}
		if got := mustBalance(t, s, "a"); got != 1000 {
			t.Fatalf("balance changed on rejected bet: %d", got)
		}
	}

	if err := s.PlaceBet("ghost", 50); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}

	if err := s.PlaceBet("a", 500); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if got := mustBalance(t, s, "a"); got != 500 {
		t.Fatalf("balance = %d, want 500", got)
	}
	if err := s.PlaceBet("a", 50); !errors.Is(err, ErrBetAlreadyPlaced) {
		t.Fatalf("expected ErrBetAlreadyPlaced, got %v", err)
	}

	// 600 exceeds the remaining 500 but also the table max; shrink table max
	// is immutable, so check balance path with a fresh player instead.
	if _, err := s.AddPlayer("b", "Bob"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	s.balances["b"] = 20
	if err := s.PlaceBet("b", 50); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := mustBalance(t, s, "b"); got != 20 {
		t.Fatalf("balance changed on rejected bet: %d", got)
	}
}

func TestSplitBetInsertsAfterSourceWithNextHandIndex(t *testing.T) {
	s := testSession(t, "Alice", "Bob")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 50); err != nil {
		t.Fatalf("place bet a: %v", err)
	}
	if err := s.PlaceBet("b", 100); err != nil {
		t.Fatalf("place bet b: %v", err)
	}

	nb, err := s.SplitBet(0)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if nb.HandIndex != 2 || nb.Amount != 50 || nb.IsDouble || nb.Resolved() {
		t.Fatalf("unexpected split bet: %+v", nb)
	}
	if got := mustBalance(t, s, "a"); got != 900 {
		t.Fatalf("balance = %d, want 900", got)
	}
	bets := s.Round().Bets
	if len(bets) != 3 {
		t.Fatalf("expected 3 bets, got %d", len(bets))
	}
	if bets[1].PlayerID != "a" || bets[1].HandIndex != 2 {
		t.Fatalf("split not inserted after source: %+v", bets)
	}
	if bets[2].PlayerID != "b" {
		t.Fatalf("trailing bet disturbed: %+v", bets[2])
	}

	// resplit keeps climbing the hand index
	nb, err = s.SplitBet(0)
	if err != nil {
		t.Fatalf("resplit: %v", err)
	}
	if nb.HandIndex != 3 {
		t.Fatalf("resplit hand index = %d, want 3", nb.HandIndex)
	}
}

func TestSplitBetErrors(t *testing.T) {
	s := testSession(t, "Alice")
	if _, err := s.SplitBet(0); !errors.Is(err, ErrBettingClosed) {
		t.Fatalf("expected ErrBettingClosed, got %v", err)
	}
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := s.SplitBet(0); !errors.Is(err, ErrInvalidBetIndex) {
		t.Fatalf("expected ErrInvalidBetIndex, got %v", err)
	}
	if err := s.PlaceBet("a", 500); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	s.balances["a"] = 100
	if _, err := s.SplitBet(0); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestDoubleBet(t *testing.T) {
	s := testSession(t, "Alice")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 20); err != nil {
		t.Fatalf("place bet: %v", err)
	}

	bet, err := s.DoubleBet(0)
	if err != nil {
		t.Fatalf("double: %v", err)
	}
	if !bet.IsDouble {
		t.Fatal("bet not marked doubled")
	}
	if got := mustBalance(t, s, "a"); got != 960 {
		t.Fatalf("balance = %d, want 960", got)
	}
	if _, err := s.DoubleBet(0); !errors.Is(err, ErrBetSettled) {
		t.Fatalf("second double: expected ErrBetSettled, got %v", err)
	}
}

func TestDoubleBetRejectedAfterResolution(t *testing.T) {
	s := testSession(t, "Alice", "Bob")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 20); err != nil {
		t.Fatalf("place bet a: %v", err)
	}
	if err := s.PlaceBet("b", 20); err != nil {
		t.Fatalf("place bet b: %v", err)
	}
	if _, err := s.ApplyResults([]Result{{BetIndex: 0, Outcome: OutcomeLost}}); err != nil {
		t.Fatalf("apply results: %v", err)
	}
	if _, err := s.DoubleBet(0); !errors.Is(err, ErrBetSettled) {
		t.Fatalf("expected ErrBetSettled, got %v", err)
	}
}

func TestApplyResultsPartialBatchAndFinish(t *testing.T) {
	s := testSession(t, "Alice", "Bob")
	if _, err := s.ApplyResults(nil); !errors.Is(err, ErrNoRound) {
		t.Fatalf("expected ErrNoRound, got %v", err)
	}
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 50); err != nil {
		t.Fatalf("place bet a: %v", err)
	}
	if err := s.PlaceBet("b", 30); err != nil {
		t.Fatalf("place bet b: %v", err)
	}

	applied, err := s.ApplyResults([]Result{
		{BetIndex: 5, Outcome: OutcomeWon},  // out of range, skipped
		{BetIndex: 0, Outcome: OutcomeWon},  // applies
		{BetIndex: 0, Outcome: OutcomeLost}, // already resolved, skipped
	})
	if err != nil {
		t.Fatalf("apply results: %v", err)
	}
	if len(applied) != 1 {
		t.Fatalf("applied = %d entries, want 1", len(applied))
	}
	if applied[0].Delta != 100 || applied[0].BalanceAfter != 1050 {
		t.Fatalf("unexpected applied entry: %+v", applied[0])
	}
	if s.Round().Status != RoundBetting {
		t.Fatalf("round finished with unresolved bets")
	}
	if s.Round().Bets[0].Outcome != OutcomeWon {
		t.Fatalf("outcome overwritten: %v", s.Round().Bets[0].Outcome)
	}

	if _, err := s.ApplyResults([]Result{{BetIndex: 1, Outcome: OutcomePush}}); err != nil {
		t.Fatalf("apply results: %v", err)
	}
	if s.Round().Status != RoundFinished {
		t.Fatalf("round status = %s, want finished", s.Round().Status)
	}
	if got := mustBalance(t, s, "b"); got != 1000 {
		t.Fatalf("push should return stake: balance = %d", got)
	}
}

func TestApplyResultsSkipsEmptyOutcome(t *testing.T) {
	s := testSession(t, "Alice")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 50); err != nil {
		t.Fatalf("place bet: %v", err)
	}

	// an empty outcome must neither credit nor resolve, however often it is
	// replayed
	for i := 0; i < 2; i++ {
		applied, err := s.ApplyResults([]Result{{BetIndex: 0, Outcome: ""}})
		if err != nil {
			t.Fatalf("apply results: %v", err)
		}
		if len(applied) != 0 {
			t.Fatalf("empty outcome applied: %+v", applied)
		}
	}
	if got := mustBalance(t, s, "a"); got != 950 {
		t.Fatalf("balance = %d, want 950", got)
	}
	if s.Round().Status != RoundBetting {
		t.Fatalf("round status = %s, want betting", s.Round().Status)
	}
	if s.Round().Bets[0].Resolved() {
		t.Fatal("bet must stay unresolved")
	}

	if _, err := s.ApplyResults([]Result{{BetIndex: 0, Outcome: OutcomePush}}); err != nil {
		t.Fatalf("apply results: %v", err)
	}
	if got := mustBalance(t, s, "a"); got != 1000 {
		t.Fatalf("balance = %d, want 1000", got)
	}
	if s.Round().Status != RoundFinished {
		t.Fatalf("round status = %s, want finished", s.Round().Status)
	}
}

func TestScenarioWonBetFinishesRound(t *testing.T) {
	s := NewSession(Rules{MinBet: 10, MaxBet: 100, StartingBalance: 1000})
	if _, err := s.AddPlayer("alice", "Alice"); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("alice", 50); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if _, err := s.ApplyResults([]Result{{BetIndex: 0, Outcome: OutcomeWon}}); err != nil {
		t.Fatalf("apply results: %v", err)
	}
	if got := mustBalance(t, s, "alice"); got != 1050 {
		t.Fatalf("balance = %d, want 1050", got)
	}
	if s.Round().Status != RoundFinished {
		t.Fatalf("round status = %s, want finished", s.Round().Status)
	}
}

func TestRemovePlayerPurgesBets(t *testing.T) {
	s := testSession(t, "Alice", "Bob")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 50); err != nil {
		t.Fatalf("place bet a: %v", err)
	}
	if err := s.PlaceBet("b", 60); err != nil {
		t.Fatalf("place bet b: %v", err)
	}
	if !s.RemovePlayer("a") {
		t.Fatal("expected player removed")
	}
	if s.RemovePlayer("a") {
		t.Fatal("second removal should report not found")
	}
	if len(s.Players()) != 1 || s.Players()[0].ID != "b" {
		t.Fatalf("unexpected roster: %+v", s.Players())
	}
	if _, ok := s.Balance("a"); ok {
		t.Fatal("balance not dropped")
	}
	for _, b := range s.Round().Bets {
		if b.PlayerID == "a" {
			t.Fatal("bet not purged")
		}
	}
}

func TestResetRestoresBalancesAndClearsRound(t *testing.T) {
	s := testSession(t, "Alice", "Bob")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 100); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	s.Reset()
	if s.Round() != nil {
		t.Fatal("round not cleared")
	}
	for _, id := range []string{"a", "b"} {
		if got := mustBalance(t, s, id); got != 1000 {
			t.Fatalf("balance %s = %d, want 1000", id, got)
		}
	}
}

func TestSnapshotShape(t *testing.T) {
	s := testSession(t, "Alice")
	if err := s.StartRound("r1"); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.PlaceBet("a", 50); err != nil {
		t.Fatalf("place bet: %v", err)
	}

	view := s.Snapshot("AB12")
	if view.Type != "table_state" || view.TableCode != "AB12" {
		t.Fatalf("unexpected view header: %+v", view)
	}
	if len(view.Players) != 1 || view.Players[0].Balance != 950 {
		t.Fatalf("unexpected players view: %+v", view.Players)
	}
	if view.Round == nil || view.Round.Status != "betting" {
		t.Fatalf("unexpected round view: %+v", view.Round)
	}
	if view.Round.Bets[0].Outcome != nil {
		t.Fatal("unresolved outcome should be null")
	}

	if _, err := s.ApplyResults([]Result{{BetIndex: 0, Outcome: OutcomeBust}}); err != nil {
		t.Fatalf("apply results: %v", err)
	}
	view = s.Snapshot("AB12")
	if view.Round.Bets[0].Outcome == nil || *view.Round.Bets[0].Outcome != "bust" {
		t.Fatalf("resolved outcome missing: %+v", view.Round.Bets[0])
	}

	s = testSession(t)
	if got := s.Snapshot("XY99"); got.Round != nil {
		t.Fatal("round view should be null with no round")
	}
}
