package main

// Message is the envelope for everything sent between client and server.
// Requests may carry an AckID; the server then answers the sender with an
// "ack" message echoing it, so the client can match the reply. Everything
// else is fire-and-forget.
type Message struct {
	Type  string `json:"type"`
	AckID string `json:"ackId,omitempty"`
	OK    *bool  `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`

	Nickname string `json:"nickname,omitempty"`
	To       string `json:"to,omitempty"`
	From     string `json:"from,omitempty"`
	Status   string `json:"status,omitempty"`
	Text     string `json:"text,omitempty"`

	Accepted  *bool  `json:"accepted,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Winner    string `json:"winner,omitempty"`
	Voluntary *bool  `json:"voluntary,omitempty"`

	Board    []string `json:"board,omitempty"`
	Turn     string   `json:"turn,omitempty"`
	Opponent string   `json:"opponent,omitempty"`
	MySymbol string   `json:"mySymbol,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	By       string   `json:"by,omitempty"`

	ChallengerReady *bool `json:"challengerReady,omitempty"`
	ChallengedReady *bool `json:"challengedReady,omitempty"`

	Users    []UserInfo    `json:"users,omitempty"`
	Messages []ChatMessage `json:"messages,omitempty"`
}

type UserInfo struct {
	Nickname string `json:"nickname"`
	Status   string `json:"status"`
}

// ChatMessage is one lobby chat entry. Timestamp is unix milliseconds.
type ChatMessage struct {
	From      string `json:"from"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// PrivateMessage is one entry of a match session's private transcript.
type PrivateMessage struct {
	From      string
	To        string
	Text      string
	Timestamp int64
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
