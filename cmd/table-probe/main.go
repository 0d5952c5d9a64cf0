package main

import (
	"encoding/json"
	"flag"
	"log"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	"blackjack-bankroll/internal/config"
)

// table-probe drives a live table server through its websocket protocol.
// With -code it joins an existing table as a player and keeps placing -bet
// whenever a betting round opens; without -code it creates a table and
// prints everything it sees.

type inbound struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	TableCode string `json:"tableCode"`
	PlayerID  string `json:"playerId"`
	Round     *struct {
		Status string `json:"status"`
		Bets   []struct {
			PlayerID string `json:"playerId"`
		} `json:"bets"`
	} `json:"round"`
}

func main() {
	cfg, err := config.LoadProbe()
	if err != nil {
		log.Fatal(err)
	}
	code := flag.String("code", "", "table code to join; empty to create a table")
	name := flag.String("name", cfg.Nickname, "nickname")
	bet := flag.Int64("bet", 0, "amount to bet whenever a betting round opens (join mode)")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	var first []byte
	if *code == "" {
		first, _ = json.Marshal(map[string]any{"type": "create_table", "nickname": *name})
	} else {
		first, _ = json.Marshal(map[string]any{"type": "join_table", "tableCode": *code, "nickname": *name})
	}
	if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
		log.Fatal(err)
	}

	playerID := ""
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		render(msg, data)

		switch msg.Type {
		case "joined_table":
			playerID = msg.PlayerID
		case "table_state":
			if *bet > 0 && playerID != "" && openForBet(msg, playerID) {
				payload, _ := json.Marshal(map[string]any{"type": "place_bet", "amount": *bet})
				_ = conn.WriteMessage(websocket.TextMessage, payload)
			}
		case "table_closed", "kicked":
			return
		}
	}
}

func openForBet(msg inbound, playerID string) bool {
	if msg.Round == nil || msg.Round.Status != "betting" {
		return false
	}
	for _, b := range msg.Round.Bets {
		if b.PlayerID == playerID {
			return false
		}
	}
	return true
}

func render(msg inbound, raw []byte) {
	switch msg.Type {
	case "error":
		color.Red("error: %s", msg.Message)
	case "table_created", "joined_table":
		color.Green("%s table=%s", msg.Type, msg.TableCode)
	case "table_state":
		color.Cyan("%s", raw)
	case "table_closed", "kicked":
		color.Yellow("%s", raw)
	default:
		color.White("%s", raw)
	}
}
