package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChallengeRegistry_SymmetricLookup(t *testing.T) {
	req := require.New(t)
	r := newChallengeRegistry()

	c := r.Add("alice", "bob")
	req.Equal(1, r.Len())

	// Both sides must observe the same object, not copies.
	req.Same(c, r.ByPlayer("alice"))
	req.Same(c, r.ByPlayer("bob"))
	req.Nil(r.ByPlayer("carol"))
}

func TestChallengeRegistry_SymbolsAreComplementary(t *testing.T) {
	req := require.New(t)
	r := newChallengeRegistry()

	c := r.Add("alice", "bob")
	req.Contains([]string{symbolX, symbolO}, c.Symbols["alice"])
	req.Equal(otherSymbol(c.Symbols["alice"]), c.Symbols["bob"])
}

func TestChallengeRegistry_SymbolAssignmentIsACoinFlip(t *testing.T) {
	req := require.New(t)
	r := newChallengeRegistry()

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c := r.Add("alice", "bob")
		seen[c.Symbols["alice"]] = true
		r.Remove(c)
	}
	req.True(seen[symbolX], "challenger never got X in 200 flips")
	req.True(seen[symbolO], "challenger never got O in 200 flips")
}

func TestChallengeRegistry_RemoveClearsBothSides(t *testing.T) {
	req := require.New(t)
	r := newChallengeRegistry()

	c := r.Add("alice", "bob")
	r.Remove(c)

	req.Equal(0, r.Len())
	req.Nil(r.ByPlayer("alice"))
	req.Nil(r.ByPlayer("bob"))

	r.Remove(nil) // must not panic
}

func TestMakePair_IsOrderInsensitive(t *testing.T) {
	req := require.New(t)
	req.Equal(makePair("alice", "bob"), makePair("bob", "alice"))
	req.NotEqual(makePair("alice", "bob"), makePair("alice", "carol"))
}
