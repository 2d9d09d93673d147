package main

import "math/rand"

const (
	symbolX = "X"
	symbolO = "O"
)

func otherSymbol(s string) string {
	if s == symbolX {
		return symbolO
	}
	return symbolX
}

// pairKey identifies the two participants of a challenge or match without
// caring who comes first, so a lookup from either side lands on the same
// canonical object and there is no reverse key to forget on delete.
type pairKey struct {
	a, b string
}

func makePair(x, y string) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// Challenge is a pending match proposal. Symbols are assigned by coin flip
// when the challenge is sent and carried over into the match on acceptance.
type Challenge struct {
	Challenger string
	Challenged string
	Symbols    map[string]string // nickname -> X | O
}

func (c *Challenge) Other(nickname string) string {
	if nickname == c.Challenger {
		return c.Challenged
	}
	return c.Challenger
}

// ChallengeRegistry is the directory of pending challenges, searchable by
// either participant. A nickname owns at most one pending challenge.
type ChallengeRegistry struct {
	byPair   map[pairKey]*Challenge
	byPlayer map[string]*Challenge
}

func newChallengeRegistry() *ChallengeRegistry {
	return &ChallengeRegistry{
		byPair:   make(map[pairKey]*Challenge),
		byPlayer: make(map[string]*Challenge),
	}
}

// Add creates a pending challenge with coin-flipped symbols and indexes it
// under both participants.
func (r *ChallengeRegistry) Add(challenger, challenged string) *Challenge {
	challengerSymbol := symbolX
	if rand.Intn(2) == 0 {
		challengerSymbol = symbolO
	}
	c := &Challenge{
		Challenger: challenger,
		Challenged: challenged,
		Symbols: map[string]string{
			challenger: challengerSymbol,
			challenged: otherSymbol(challengerSymbol),
		},
	}
	r.byPair[makePair(challenger, challenged)] = c
	r.byPlayer[challenger] = c
	r.byPlayer[challenged] = c
	return c
}

// ByPlayer returns the pending challenge a nickname is part of, or nil.
func (r *ChallengeRegistry) ByPlayer(nickname string) *Challenge {
	return r.byPlayer[nickname]
}

// Remove deletes the challenge from every index. Nil-safe, so a decline or
// accept racing an earlier resolution is a harmless no-op at the call site.
func (r *ChallengeRegistry) Remove(c *Challenge) {
	if c == nil {
		return
	}
	delete(r.byPair, makePair(c.Challenger, c.Challenged))
	delete(r.byPlayer, c.Challenger)
	delete(r.byPlayer, c.Challenged)
}

func (r *ChallengeRegistry) Len() int {
	return len(r.byPair)
}

func (r *ChallengeRegistry) Reset() {
	r.byPair = make(map[pairKey]*Challenge)
	r.byPlayer = make(map[string]*Challenge)
}
