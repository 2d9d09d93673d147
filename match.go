package main

import (
	"math/rand"
	"time"
)

const boardCells = 9

const winnerDraw = "draw"

// Match is one active game session between two players. It is created fresh
// when a challenge is accepted, so the board and the private transcript
// always start clean, and lives until either player leaves or disconnects.
//
// LastWinner is whatever the clients reported, stored verbatim. The server
// never derives the outcome from the board; the value only decides who moves
// first after a rematch.
type Match struct {
	Challenger string
	Challenged string
	Symbols    map[string]string // nickname -> X | O
	Board      []string          // 9 cells, "" when empty
	Turn       string            // symbol to move
	LastWinner string            // X | O | draw | ""
	Ready      map[string]bool   // rematch handshake, keyed by nickname
	Messages   []PrivateMessage
	StartedAt  time.Time
}

func newMatch(c *Challenge) *Match {
	return &Match{
		Challenger: c.Challenger,
		Challenged: c.Challenged,
		Symbols:    c.Symbols,
		Board:      make([]string, boardCells),
		Turn:       c.Symbols[c.Challenger], // challenger's symbol always opens
		Ready:      make(map[string]bool),
		StartedAt:  time.Now(),
	}
}

func (m *Match) Other(nickname string) string {
	if nickname == m.Challenger {
		return m.Challenged
	}
	return m.Challenger
}

func (m *Match) SymbolOf(nickname string) string {
	return m.Symbols[nickname]
}

// BoardSnapshot returns a copy safe to hand to another goroutine.
func (m *Match) BoardSnapshot() []string {
	return append([]string(nil), m.Board...)
}

// ApplyMove writes the cell and flips the turn. It reports false, touching
// nothing, when the symbol is not the one to move, the cell is out of range,
// or the cell is already taken.
func (m *Match) ApplyMove(cell int, symbol string) bool {
	if symbol != m.Turn {
		return false
	}
	if cell < 0 || cell >= boardCells {
		return false
	}
	if m.Board[cell] != "" {
		return false
	}
	m.Board[cell] = symbol
	m.Turn = otherSymbol(m.Turn)
	return true
}

// MarkReady records a rematch vote. Voting twice is idempotent. It reports
// whether both players are now ready.
func (m *Match) MarkReady(nickname string) bool {
	m.Ready[nickname] = true
	return m.Ready[m.Challenger] && m.Ready[m.Challenged]
}

// ResetForRematch clears the board, the ready set and the reported result,
// and returns the opening turn of the next game: the last reported winner's
// symbol, a coin flip after a draw, or the challenger's symbol when no
// result was ever reported.
func (m *Match) ResetForRematch() string {
	switch m.LastWinner {
	case symbolX, symbolO:
		m.Turn = m.LastWinner
	case winnerDraw:
		if rand.Intn(2) == 0 {
			m.Turn = symbolX
		} else {
			m.Turn = symbolO
		}
	default:
		m.Turn = m.Symbols[m.Challenger]
	}
	m.Board = make([]string, boardCells)
	m.Ready = make(map[string]bool)
	m.LastWinner = ""
	return m.Turn
}

func (m *Match) AddMessage(from, to, text string) {
	m.Messages = append(m.Messages, PrivateMessage{
		From:      from,
		To:        to,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (m *Match) ClearMessages() {
	m.Messages = nil
}

// MatchRegistry holds every active match, indexed by the unordered player
// pair and by each player for O(1) "what match am I in" lookups.
type MatchRegistry struct {
	byPair   map[pairKey]*Match
	byPlayer map[string]*Match
}

func newMatchRegistry() *MatchRegistry {
	return &MatchRegistry{
		byPair:   make(map[pairKey]*Match),
		byPlayer: make(map[string]*Match),
	}
}

// Add promotes an accepted challenge into a fresh match.
func (r *MatchRegistry) Add(c *Challenge) *Match {
	m := newMatch(c)
	r.byPair[makePair(m.Challenger, m.Challenged)] = m
	r.byPlayer[m.Challenger] = m
	r.byPlayer[m.Challenged] = m
	return m
}

// ByPlayer returns the active match a nickname is part of, or nil.
func (r *MatchRegistry) ByPlayer(nickname string) *Match {
	return r.byPlayer[nickname]
}

// Remove deletes the match from every index. Nil-safe.
func (r *MatchRegistry) Remove(m *Match) {
	if m == nil {
		return
	}
	delete(r.byPair, makePair(m.Challenger, m.Challenged))
	delete(r.byPlayer, m.Challenger)
	delete(r.byPlayer, m.Challenged)
}

func (r *MatchRegistry) Len() int {
	return len(r.byPair)
}

func (r *MatchRegistry) Reset() {
	r.byPair = make(map[pairKey]*Match)
	r.byPlayer = make(map[string]*Match)
}
