package ws

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"blackjack-bankroll/internal/game"
	"blackjack-bankroll/internal/ids"
	"blackjack-bankroll/internal/ledger"
)

// Client is one websocket peer. Outbound messages go through a buffered send
// channel drained by the write pump; a full buffer drops the message rather
// than stall the sender.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// clientContext ties a live connection to its role at a table.
type clientContext struct {
	role      string
	tableCode string
	playerID  string
}

// Table is one dealer-run game instance.
type Table struct {
	code    string
	dealer  *Client
	players map[string]*Client
	session *game.Session
	journal *ledger.Journal
}

type Options struct {
	DefaultRules game.Rules
	CodeLength   int
	LedgerDepth  int
}

// Server owns the table directory and the connection registry. A single
// mutex serializes every validate-mutate-broadcast sequence, including
// disconnects, so participants always observe fully-applied snapshots.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	gen      ids.Generator
	opts     Options
	tables   map[string]*Table
	clients  map[*Client]*clientContext
}

func NewServer(gen ids.Generator, opts Options) *Server {
	if !opts.DefaultRules.Valid() {
		opts.DefaultRules = game.Rules{MinBet: 10, MaxBet: 500, StartingBalance: 1000}
	}
	if opts.CodeLength <= 0 {
		opts.CodeLength = 4
	}
	return &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		gen:      gen,
		opts:     opts,
		tables:   map[string]*Table{},
		clients:  map[*Client]*clientContext{},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 32)}

	go client.writeLoop()
	sendJSON(client, Welcome{Type: "welcome", Message: "connected to the bankroll table server"})
	s.readLoop(client)
}

func (c *Client) writeLoop() {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
	_ = c.conn.Close()
}

func (s *Server) readLoop(c *Client) {
	defer s.disconnect(c)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(c, msg)
	}
}

// trySend queues a message without ever blocking. Sends to closed or
// saturated peers are dropped; the stale connection cleans itself up on its
// own close event.
func (c *Client) trySend(msg []byte) {
	defer func() { _ = recover() }()
	select {
	case c.send <- msg:
	default:
	}
}

// close releases the write pump, which closes the underlying connection once
// the buffer drains.
func (c *Client) close() {
	defer func() { _ = recover() }()
	close(c.send)
}

func sendJSON(c *Client, v any) {
	msg, _ := json.Marshal(v)
	c.trySend(msg)
}

func sendError(c *Client, message string) {
	sendJSON(c, ErrorMessage{Type: "error", Message: message})
}

// disconnect handles a closed connection. A dealer drop destroys the whole
// table and force-closes every player; a player drop only removes that
// player and their pending bets.
func (s *Server) disconnect(c *Client) {
	s.mu.Lock()
	ctx := s.clients[c]
	delete(s.clients, c)
	if ctx != nil {
		table := s.tables[ctx.tableCode]
		switch {
		case table == nil:
			// table already torn down, nothing to do
		case ctx.role == RoleDealer && table.dealer == c:
			delete(s.tables, ctx.tableCode)
			for _, pc := range table.players {
				delete(s.clients, pc)
				sendJSON(pc, TableClosed{Type: "table_closed", Reason: "dealer_disconnected"})
				pc.close()
			}
			log.Info().Str("table", table.code).Msg("table_closed")
		case ctx.role == RolePlayer:
			table.session.RemovePlayer(ctx.playerID)
			delete(table.players, ctx.playerID)
			log.Info().Str("table", table.code).Str("player_id", ctx.playerID).Msg("player_left")
			s.broadcastLocked(table)
		}
	}
	s.mu.Unlock()
	c.close()
}

// broadcastLocked pushes the current snapshot to the dealer and every player.
// Callers hold s.mu.
func (s *Server) broadcastLocked(t *Table) {
	payload, _ := json.Marshal(t.session.Snapshot(t.code))
	t.dealer.trySend(payload)
	for _, p := range t.session.Players() {
		if pc := t.players[p.ID]; pc != nil {
			pc.trySend(payload)
		}
	}
}

// TableSummary is the read-only directory listing served over REST.
type TableSummary struct {
	Code        string `json:"code"`
	PlayerCount int    `json:"playerCount"`
	RoundStatus string `json:"roundStatus,omitempty"`
}

// Tables lists live tables, sorted by code.
func (s *Server) Tables() []TableSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TableSummary, 0, len(s.tables))
	for code, t := range s.tables {
		summary := TableSummary{Code: code, PlayerCount: len(t.session.Players())}
		if r := t.session.Round(); r != nil {
			summary.RoundStatus = string(r.Status)
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Snapshot returns the public view of one table.
func (s *Server) Snapshot(code string) (game.TableView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[code]
	if !ok {
		return game.TableView{}, false
	}
	return t.session.Snapshot(t.code), true
}

// Ledger returns the recent balance movements of one table.
func (s *Server) Ledger(code string) ([]ledger.Entry, bool) {
	s.mu.Lock()
	t, ok := s.tables[code]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	return t.journal.Entries(), true
}
