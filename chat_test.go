package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChatHistory_CapsLength(t *testing.T) {
	req := require.New(t)
	h := newChatHistory(10, time.Hour)

	for i := 0; i < 25; i++ {
		h.Add("alice", fmt.Sprintf("message %d", i))
	}

	recent := h.Recent()
	req.Len(recent, 10)
	req.Equal("message 15", recent[0].Text, "oldest surviving entry")
	req.Equal("message 24", recent[9].Text)
}

func TestChatHistory_PrunesOldEntries(t *testing.T) {
	req := require.New(t)
	h := newChatHistory(10, time.Hour)

	h.Add("alice", "stale")
	h.Add("bob", "fresh")
	h.entries[0].Timestamp = time.Now().Add(-2 * time.Hour).UnixMilli()

	recent := h.Recent()
	req.Len(recent, 1)
	req.Equal("fresh", recent[0].Text)
}

func TestChatHistory_RecentReturnsACopy(t *testing.T) {
	req := require.New(t)
	h := newChatHistory(10, time.Hour)

	h.Add("alice", "hello")
	recent := h.Recent()
	recent[0].Text = "mutated"

	req.Equal("hello", h.Recent()[0].Text)
}

func TestChatHistory_Reset(t *testing.T) {
	req := require.New(t)
	h := newChatHistory(10, time.Hour)

	h.Add("alice", "hello")
	h.Reset()
	req.Empty(h.Recent())
}
