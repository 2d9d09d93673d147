package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testChallenge(challengerSymbol string) *Challenge {
	return &Challenge{
		Challenger: "alice",
		Challenged: "bob",
		Symbols: map[string]string{
			"alice": challengerSymbol,
			"bob":   otherSymbol(challengerSymbol),
		},
	}
}

func TestNewMatch_StartsCleanWithChallengerTurn(t *testing.T) {
	req := require.New(t)

	m := newMatch(testChallenge(symbolO))

	req.Equal(make([]string, boardCells), m.Board)
	req.Equal(symbolO, m.Turn, "challenger's symbol always opens")
	req.Empty(m.Messages)
	req.Empty(m.Ready)
	req.Equal("", m.LastWinner)
}

func TestMatch_ApplyMoveRejections(t *testing.T) {
	req := require.New(t)
	m := newMatch(testChallenge(symbolX))

	req.False(m.ApplyMove(0, symbolO), "not O's turn")
	req.False(m.ApplyMove(-1, symbolX))
	req.False(m.ApplyMove(boardCells, symbolX))
	req.Equal(make([]string, boardCells), m.Board, "rejected moves must not touch the board")
	req.Equal(symbolX, m.Turn)

	req.True(m.ApplyMove(4, symbolX))
	req.False(m.ApplyMove(4, symbolO), "cell already taken")
	req.Equal(symbolX, m.Board[4])
	req.Equal(symbolO, m.Turn)
}

func TestMatch_TurnAlternatesStrictly(t *testing.T) {
	req := require.New(t)
	m := newMatch(testChallenge(symbolX))
	initial := m.Turn

	for i := 0; i < boardCells; i++ {
		if i%2 == 0 {
			req.Equal(initial, m.Turn)
		} else {
			req.Equal(otherSymbol(initial), m.Turn)
		}
		req.True(m.ApplyMove(i, m.Turn))
	}
}

func TestMatch_MarkReadyIsIdempotentPerPlayer(t *testing.T) {
	req := require.New(t)
	m := newMatch(testChallenge(symbolX))

	req.False(m.MarkReady("alice"))
	req.False(m.MarkReady("alice"))
	req.Len(m.Ready, 1)

	req.True(m.MarkReady("bob"))
	req.Len(m.Ready, 2)
}

func TestMatch_ResetForRematch_WinnerOpens(t *testing.T) {
	req := require.New(t)
	m := newMatch(testChallenge(symbolX))
	req.True(m.ApplyMove(0, symbolX))
	m.MarkReady("alice")
	m.MarkReady("bob")
	m.LastWinner = symbolO

	req.Equal(symbolO, m.ResetForRematch())
	req.Equal(symbolO, m.Turn)
	req.Equal(make([]string, boardCells), m.Board)
	req.Empty(m.Ready)
	req.Equal("", m.LastWinner)
}

func TestMatch_ResetForRematch_DrawFlipsACoin(t *testing.T) {
	req := require.New(t)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		m := newMatch(testChallenge(symbolX))
		m.LastWinner = winnerDraw
		seen[m.ResetForRematch()] = true
	}
	req.True(seen[symbolX], "draw rematch never opened with X in 200 flips")
	req.True(seen[symbolO], "draw rematch never opened with O in 200 flips")
}

func TestMatch_ResetForRematch_DefaultsToChallenger(t *testing.T) {
	req := require.New(t)
	m := newMatch(testChallenge(symbolO))

	// No result was ever reported.
	req.Equal(symbolO, m.ResetForRematch())
}

func TestMatchRegistry_AddAndRemove(t *testing.T) {
	req := require.New(t)
	r := newMatchRegistry()

	m := r.Add(testChallenge(symbolX))
	req.Equal(1, r.Len())
	req.Same(m, r.ByPlayer("alice"))
	req.Same(m, r.ByPlayer("bob"))

	r.Remove(m)
	req.Equal(0, r.Len())
	req.Nil(r.ByPlayer("alice"))
	req.Nil(r.ByPlayer("bob"))

	r.Remove(nil) // must not panic
}

func TestMatch_BoardSnapshotIsACopy(t *testing.T) {
	req := require.New(t)
	m := newMatch(testChallenge(symbolX))

	snapshot := m.BoardSnapshot()
	req.True(m.ApplyMove(0, symbolX))
	req.Equal("", snapshot[0])
}
