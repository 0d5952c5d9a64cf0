package ws

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"blackjack-bankroll/internal/game"
	"blackjack-bankroll/internal/ledger"
)

// dispatch routes one inbound frame. Undecodable input is echoed back as a
// diagnostic; JSON without a type and unknown types get an error reply. The
// connection stays open in every case.
func (s *Server) dispatch(c *Client, raw []byte) {
	if !json.Valid(raw) {
		sendJSON(c, Echo{Type: "echo", Received: string(raw)})
		return
	}
	var base struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(raw, &base)
	if base.Type == "" {
		sendError(c, "message missing type")
		return
	}

	switch base.Type {
	case "create_table":
		var m CreateTableMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			// malformed custom rules fall back to the defaults instead of
			// blocking table creation
			var loose struct {
				Nickname string `json:"nickname"`
			}
			if err := json.Unmarshal(raw, &loose); err != nil {
				sendError(c, "invalid create_table payload")
				return
			}
			m = CreateTableMessage{Type: base.Type, Nickname: loose.Nickname}
		}
		s.handleCreateTable(c, m)
	case "join_table":
		var m JoinTableMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			sendError(c, "invalid join_table payload")
			return
		}
		s.handleJoinTable(c, m)
	case "start_round":
		s.handleStartRound(c)
	case "place_bet":
		var m PlaceBetMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			// fractional or non-numeric amounts fail the invalid-amount
			// check, not the protocol
			sendError(c, game.ErrInvalidAmount.Error())
			return
		}
		s.handlePlaceBet(c, m)
	case "split_bet":
		var m BetRefMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			sendError(c, "invalid split_bet payload")
			return
		}
		s.handleSplitBet(c, m)
	case "double_bet":
		var m BetRefMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			sendError(c, "invalid double_bet payload")
			return
		}
		s.handleDoubleBet(c, m)
	case "set_results":
		var m SetResultsMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			sendError(c, "invalid set_results payload")
			return
		}
		s.handleSetResults(c, m)
	case "reset_table":
		s.handleResetTable(c)
	case "kick_player":
		var m KickPlayerMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			sendError(c, "invalid kick_player payload")
			return
		}
		s.handleKickPlayer(c, m)
	default:
		sendError(c, "unknown message type: "+base.Type)
	}
}

func (s *Server) handleCreateTable(c *Client, m CreateTableMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clients[c] != nil {
		sendError(c, "already connected to a table")
		return
	}

	rules := s.opts.DefaultRules
	if m.Rules != nil && m.Rules.Valid() {
		rules = *m.Rules
	}

	code := s.gen.NewCode(s.opts.CodeLength)
	for s.tables[code] != nil {
		code = s.gen.NewCode(s.opts.CodeLength)
	}

	dealerName := strings.TrimSpace(m.Nickname)
	if dealerName == "" {
		dealerName = "Dealer"
	}

	table := &Table{
		code:    code,
		dealer:  c,
		players: map[string]*Client{},
		session: game.NewSession(rules),
		journal: ledger.New(s.opts.LedgerDepth),
	}
	s.tables[code] = table
	s.clients[c] = &clientContext{role: RoleDealer, tableCode: code}

	log.Info().Str("table", code).Str("dealer", dealerName).
		Int64("min_bet", rules.MinBet).Int64("max_bet", rules.MaxBet).
		Msg("table_created")

	sendJSON(c, TableCreated{
		Type:       "table_created",
		TableCode:  code,
		Role:       RoleDealer,
		DealerName: dealerName,
		Rules:      rules,
	})
	s.broadcastLocked(table)
}

func (s *Server) handleJoinTable(c *Client, m JoinTableMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clients[c] != nil {
		sendError(c, "already connected to a table")
		return
	}
	code := strings.TrimSpace(m.TableCode)
	if code == "" {
		sendError(c, "tableCode missing")
		return
	}
	table := s.tables[code]
	if table == nil {
		sendError(c, "table "+code+" not found")
		return
	}

	player, err := table.session.AddPlayer(s.gen.NewID("player"), m.Nickname)
	if err != nil {
		sendError(c, err.Error())
		return
	}
	table.players[player.ID] = c
	s.clients[c] = &clientContext{role: RolePlayer, tableCode: code, playerID: player.ID}

	log.Info().Str("table", code).Str("player_id", player.ID).Str("name", player.Name).Msg("player_joined")

	sendJSON(c, JoinedTable{
		Type:      "joined_table",
		TableCode: code,
		Role:      RolePlayer,
		PlayerID:  player.ID,
		Name:      player.Name,
	})
	s.broadcastLocked(table)
}

// dealerTableLocked resolves the caller's table when it holds the dealer
// role. Callers hold s.mu.
func (s *Server) dealerTableLocked(c *Client) *Table {
	ctx := s.clients[c]
	if ctx == nil || ctx.role != RoleDealer {
		return nil
	}
	return s.tables[ctx.tableCode]
}

func (s *Server) handleStartRound(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.dealerTableLocked(c)
	if table == nil {
		sendError(c, "only the dealer can start a round")
		return
	}
	if err := table.session.StartRound(s.gen.NewID("round")); err != nil {
		sendError(c, err.Error())
		return
	}
	log.Info().Str("table", table.code).Str("round_id", table.session.Round().ID).Msg("round_started")
	s.broadcastLocked(table)
}

func (s *Server) handlePlaceBet(c *Client, m PlaceBetMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.clients[c]
	if ctx == nil || ctx.role != RolePlayer {
		sendError(c, "only players can bet")
		return
	}
	table := s.tables[ctx.tableCode]
	if table == nil {
		sendError(c, "table not found")
		return
	}
	if err := table.session.PlaceBet(ctx.playerID, m.Amount); err != nil {
		sendError(c, err.Error())
		return
	}
	balance, _ := table.session.Balance(ctx.playerID)
	table.journal.Record(ctx.playerID, ledger.KindBetDebit, m.Amount, balance, table.session.Round().ID)

	log.Info().Str("table", table.code).Str("player_id", ctx.playerID).Int64("amount", m.Amount).Msg("bet_placed")
	s.broadcastLocked(table)
}

func (s *Server) handleSplitBet(c *Client, m BetRefMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.dealerTableLocked(c)
	if table == nil {
		sendError(c, "only the dealer can split bets")
		return
	}
	bet, err := table.session.SplitBet(m.BetIndex)
	if err != nil {
		sendError(c, err.Error())
		return
	}
	balance, _ := table.session.Balance(bet.PlayerID)
	table.journal.Record(bet.PlayerID, ledger.KindSplitDebit, bet.Amount, balance, table.session.Round().ID)

	log.Info().Str("table", table.code).Str("player_id", bet.PlayerID).
		Int("bet_index", m.BetIndex).Int("hand_index", bet.HandIndex).Msg("bet_split")
	s.broadcastLocked(table)
}

func (s *Server) handleDoubleBet(c *Client, m BetRefMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.dealerTableLocked(c)
	if table == nil {
		sendError(c, "only the dealer can double bets")
		return
	}
	bet, err := table.session.DoubleBet(m.BetIndex)
	if err != nil {
		sendError(c, err.Error())
		return
	}
	balance, _ := table.session.Balance(bet.PlayerID)
	table.journal.Record(bet.PlayerID, ledger.KindDoubleDebit, bet.Amount, balance, table.session.Round().ID)

	log.Info().Str("table", table.code).Str("player_id", bet.PlayerID).
		Int("bet_index", m.BetIndex).Msg("bet_doubled")
	s.broadcastLocked(table)
}

func (s *Server) handleSetResults(c *Client, m SetResultsMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.dealerTableLocked(c)
	if table == nil {
		sendError(c, "only the dealer can set results")
		return
	}
	results := make([]game.Result, 0, len(m.Results))
	for _, r := range m.Results {
		results = append(results, game.Result{BetIndex: r.BetIndex, Outcome: game.Outcome(r.Outcome)})
	}
	applied, err := table.session.ApplyResults(results)
	if err != nil {
		sendError(c, err.Error())
		return
	}
	roundID := table.session.Round().ID
	for _, a := range applied {
		table.journal.Record(a.PlayerID, ledger.KindPayoutCredit, a.Delta, a.BalanceAfter, roundID)
	}

	log.Info().Str("table", table.code).Str("round_id", roundID).
		Int("applied", len(applied)).Str("round_status", string(table.session.Round().Status)).
		Msg("results_applied")
	s.broadcastLocked(table)
}

func (s *Server) handleResetTable(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.dealerTableLocked(c)
	if table == nil {
		sendError(c, "only the dealer can reset the table")
		return
	}
	table.session.Reset()
	for _, p := range table.session.Players() {
		balance, _ := table.session.Balance(p.ID)
		table.journal.Record(p.ID, ledger.KindResetCredit, balance, balance, "")
	}

	log.Info().Str("table", table.code).Msg("table_reset")
	s.broadcastLocked(table)
}

func (s *Server) handleKickPlayer(c *Client, m KickPlayerMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.dealerTableLocked(c)
	if table == nil {
		sendError(c, "only the dealer can kick players")
		return
	}
	if m.PlayerID == "" {
		sendError(c, "playerId missing")
		return
	}
	pc := table.players[m.PlayerID]
	if pc == nil {
		sendError(c, "player not found at this table")
		return
	}

	table.session.RemovePlayer(m.PlayerID)
	delete(table.players, m.PlayerID)
	delete(s.clients, pc)

	sendJSON(pc, Kicked{Type: "kicked", Reason: "kicked_by_dealer"})
	pc.close()

	log.Info().Str("table", table.code).Str("player_id", m.PlayerID).Msg("player_kicked")
	s.broadcastLocked(table)
}
