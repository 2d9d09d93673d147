package main

import "time"

// ChatHistory keeps a short, time-windowed log of lobby chat so a joining
// client can catch up. Entries older than maxAge are pruned, and at most
// limit entries are kept, on every append and read.
type ChatHistory struct {
	limit   int
	maxAge  time.Duration
	entries []ChatMessage
}

func newChatHistory(limit int, maxAge time.Duration) *ChatHistory {
	return &ChatHistory{limit: limit, maxAge: maxAge}
}

// Add appends a message and returns it stamped with the current time.
func (h *ChatHistory) Add(from, text string) ChatMessage {
	msg := ChatMessage{From: from, Text: text, Timestamp: time.Now().UnixMilli()}
	h.entries = append(h.entries, msg)
	h.prune()
	return msg
}

// Recent returns a copy of the messages still inside the window.
func (h *ChatHistory) Recent() []ChatMessage {
	h.prune()
	return append([]ChatMessage(nil), h.entries...)
}

func (h *ChatHistory) prune() {
	cutoff := time.Now().Add(-h.maxAge).UnixMilli()
	kept := h.entries[:0]
	for _, msg := range h.entries {
		if msg.Timestamp > cutoff {
			kept = append(kept, msg)
		}
	}
	if len(kept) > h.limit {
		kept = kept[len(kept)-h.limit:]
	}
	h.entries = append([]ChatMessage(nil), kept...)
}

func (h *ChatHistory) Reset() {
	h.entries = nil
}
