package main

import "log"

// clientMessage pairs a message with the client that sent it.
type clientMessage struct {
	client *Client
	msg    *Message
}

// Hub owns all lobby state: the connected clients, the user registry, the
// pending challenges, the active matches and the chat history. Every event
// (connect, disconnect, client message) is funneled through run() and
// handled to completion on a single goroutine, in strict arrival order, so
// the registries need no locking and the busy flag alone is enough to block
// double-challenging.
type Hub struct {
	clients map[*Client]bool
	byID    map[string]*Client

	users      *UserRegistry
	challenges *ChallengeRegistry
	matches    *MatchRegistry
	chat       *ChatHistory
	archive    *MatchArchive

	register   chan *Client
	unregister chan *Client
	incoming   chan *clientMessage
}

// newHub wires the registries together. archive may be nil to disable the
// SQLite log.
func newHub(chat *ChatHistory, archive *MatchArchive) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byID:       make(map[string]*Client),
		users:      newUserRegistry(),
		challenges: newChallengeRegistry(),
		matches:    newMatchRegistry(),
		chat:       chat,
		archive:    archive,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan *clientMessage),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.byID[client.id] = client
			log.Printf("[CONNECT] %s", client.id)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.handleDisconnect(client)
				h.dropClient(client)
			}
		case wrapper := <-h.incoming:
			h.handleClientMessage(wrapper.client, wrapper.msg)
		}
	}
}

// reset clears every registry. Used for test isolation.
func (h *Hub) reset() {
	h.users.Reset()
	h.challenges.Reset()
	h.matches.Reset()
	h.chat.Reset()
}

// dropClient removes the client from the connection maps and closes its send
// channel, which stops its writePump.
func (h *Hub) dropClient(c *Client) {
	delete(h.clients, c)
	delete(h.byID, c.id)
	close(c.send)
}

func (h *Hub) sendToClient(c *Client, msg *Message) {
	if !h.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
		// Slow consumer: drop the connection rather than block the hub.
		h.dropClient(c)
	}
}

// clientOf resolves a nickname to its live connection, or nil.
func (h *Hub) clientOf(nickname string) *Client {
	connID, ok := h.users.ConnID(nickname)
	if !ok {
		return nil
	}
	return h.byID[connID]
}

func (h *Hub) sendToNick(nickname string, msg *Message) {
	if c := h.clientOf(nickname); c != nil {
		h.sendToClient(c, msg)
	}
}

func (h *Hub) broadcast(msg *Message) {
	for client := range h.clients {
		h.sendToClient(client, msg)
	}
}

func (h *Hub) broadcastUserList() {
	h.broadcast(&Message{Type: "user_list", Users: h.users.List()})
}

// ack answers a request that carried an ackId. Without an ackId the request
// is fire-and-forget and failures stay silent.
func (h *Hub) ack(c *Client, ackID string, err error) {
	if ackID == "" {
		return
	}
	msg := &Message{Type: "ack", AckID: ackID, OK: boolPtr(err == nil)}
	if err != nil {
		msg.Error = err.Error()
	}
	h.sendToClient(c, msg)
}

func (h *Hub) handleClientMessage(c *Client, msg *Message) {
	switch msg.Type {
	case "join":
		h.handleJoin(c, msg)
	case "logout":
		h.handleLogout(c, msg)
	case "request_user_list":
		h.handleRequestUserList(c)
	case "update_status":
		h.handleUpdateStatus(c, msg)
	case "force_disconnect":
		h.handleForceDisconnect(c, msg)
	case "challenge":
		h.handleChallenge(c, msg)
	case "challenge_response":
		h.handleChallengeResponse(c, msg)
	case "move":
		h.handleMove(c, msg)
	case "report_result":
		h.handleReportResult(c, msg)
	case "request_rematch":
		h.handleRequestRematch(c)
	case "leave_room":
		h.handleLeaveRoom(c, msg)
	case "private_message":
		h.handlePrivateMessage(c, msg)
	case "chat_message":
		h.handleChatMessage(c, msg)
	case "request_recent_chat":
		h.handleRequestRecentChat(c)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
	}
}

func (h *Hub) handleJoin(c *Client, msg *Message) {
	if err := h.users.Add(msg.Nickname, c.id); err != nil {
		h.ack(c, msg.AckID, err)
		return
	}
	h.broadcastUserList()
	h.sendToClient(c, &Message{Type: "chat_recent", Messages: h.chat.Recent()})
	h.ack(c, msg.AckID, nil)
	log.Printf("[JOIN] %s (%s)", msg.Nickname, c.id)
}

func (h *Hub) handleLogout(c *Client, msg *Message) {
	if nickname := h.users.Nickname(c.id); nickname != "" {
		h.removeUser(nickname)
	}
	h.ack(c, msg.AckID, nil)
}

func (h *Hub) handleRequestUserList(c *Client) {
	h.sendToClient(c, &Message{Type: "user_list", Users: h.users.List()})
}

func (h *Hub) handleUpdateStatus(c *Client, msg *Message) {
	nickname := h.users.Nickname(c.id)
	if nickname == "" {
		h.ack(c, msg.AckID, errUnknownUser)
		return
	}
	if msg.Status != statusIdle && msg.Status != statusBusy {
		h.ack(c, msg.AckID, errInvalidStatus)
		return
	}
	h.users.SetStatus(nickname, msg.Status)
	h.broadcastUserList()
	h.ack(c, msg.AckID, nil)
}

// handleForceDisconnect tears the user down like a disconnect would and then
// closes the connection from the server side.
func (h *Hub) handleForceDisconnect(c *Client, msg *Message) {
	if nickname := h.users.Nickname(c.id); nickname != "" {
		h.removeUser(nickname)
	}
	h.ack(c, msg.AckID, nil)
	h.dropClient(c)
}

func (h *Hub) handleDisconnect(c *Client) {
	nickname := h.users.Nickname(c.id)
	if nickname != "" {
		h.removeUser(nickname)
	}
	log.Printf("[DISCONNECT] %s (%s)", nickname, c.id)
}

// removeUser tears down everything a departing nickname owns. A pending
// challenge is auto-declined toward the counterpart; an active match takes
// the involuntary-leave path. Either way the counterpart ends up idle and
// never waits on a peer that no longer exists.
func (h *Hub) removeUser(nickname string) {
	if _, ok := h.users.ConnID(nickname); !ok {
		return
	}

	if m := h.matches.ByPlayer(nickname); m != nil {
		other := m.Other(nickname)
		h.users.SetStatus(other, statusIdle)
		h.sendToNick(other, &Message{Type: "force_lobby"})
		h.endMatch(m, "disconnect")
	} else if ch := h.challenges.ByPlayer(nickname); ch != nil {
		other := ch.Other(nickname)
		h.sendToNick(other, &Message{Type: "challenge_closed", Reason: "declined", By: nickname})
		h.challenges.Remove(ch)
		h.users.SetStatus(other, statusIdle)
	}

	h.users.Remove(nickname)
	h.broadcastUserList()
	log.Printf("[REMOVE USER] %s", nickname)
}

// endMatch archives the session, clears its transcript and drops it from the
// registry. Presence and notifications are the caller's business.
func (h *Hub) endMatch(m *Match, termination string) {
	h.archive.SaveMatch(m, termination)
	m.ClearMessages()
	h.matches.Remove(m)
}

func (h *Hub) handleChallenge(c *Client, msg *Message) {
	from := h.users.Nickname(c.id)
	if from == "" {
		h.ack(c, msg.AckID, errUnknownUser)
		return
	}
	// The busy flag is the sole guard against double-booking, so both
	// parties must be idle now and flip to busy before any acceptance.
	// Challenging yourself is rejected the same way.
	if msg.To == from || h.users.Status(from) != statusIdle || h.users.Status(msg.To) != statusIdle {
		h.ack(c, msg.AckID, errUserBusy)
		return
	}

	h.challenges.Add(from, msg.To)
	h.users.SetStatus(from, statusBusy)
	h.users.SetStatus(msg.To, statusBusy)
	h.broadcastUserList()

	h.sendToNick(msg.To, &Message{Type: "challenge_received", From: from, To: msg.To})
	h.ack(c, msg.AckID, nil)
	log.Printf("[CHALLENGE SENT] %s -> %s", from, msg.To)
}

func (h *Hub) handleChallengeResponse(c *Client, msg *Message) {
	nickname := h.users.Nickname(c.id)
	if nickname == "" {
		return
	}
	ch := h.challenges.ByPlayer(nickname)
	if ch == nil {
		// Already resolved; a late or duplicate response is a no-op.
		return
	}

	if msg.Accepted == nil || !*msg.Accepted {
		other := ch.Other(nickname)
		h.sendToNick(other, &Message{Type: "challenge_closed", Reason: "declined", By: nickname})
		h.sendToClient(c, &Message{Type: "challenge_closed", Reason: "self-declined", By: nickname})
		h.challenges.Remove(ch)
		h.users.SetStatus(ch.Challenger, statusIdle)
		h.users.SetStatus(ch.Challenged, statusIdle)
		h.broadcastUserList()
		log.Printf("[CHALLENGE DECLINED] %s declined %s", nickname, other)
		return
	}

	h.challenges.Remove(ch)
	m := h.matches.Add(ch)
	for _, nick := range []string{m.Challenger, m.Challenged} {
		h.sendToNick(nick, &Message{
			Type:     "game_start",
			Board:    m.BoardSnapshot(),
			Turn:     m.Turn,
			Opponent: m.Other(nick),
			MySymbol: m.SymbolOf(nick),
		})
	}
	log.Printf("[GAME START] %s vs %s", m.Challenger, m.Challenged)
}

func (h *Hub) handleMove(c *Client, msg *Message) {
	from := h.users.Nickname(c.id)
	if from == "" {
		return
	}
	m := h.matches.ByPlayer(from)
	if m == nil || msg.Cell == nil {
		return
	}
	if !m.ApplyMove(*msg.Cell, msg.Symbol) {
		// Wrong turn or occupied cell: best-effort signal, dropped without
		// notice. The missing board_update is the rejection.
		return
	}

	update := &Message{Type: "board_update", Board: m.BoardSnapshot(), Turn: m.Turn}
	h.sendToNick(m.Other(from), update)
	h.sendToClient(c, update)
}

func (h *Hub) handleReportResult(c *Client, msg *Message) {
	from := h.users.Nickname(c.id)
	if from == "" {
		return
	}
	m := h.matches.ByPlayer(from)
	if m == nil {
		return
	}
	switch msg.Winner {
	case symbolX, symbolO, winnerDraw, "":
		m.LastWinner = msg.Winner
		log.Printf("[RESULT] %s reported winner=%q", from, msg.Winner)
	}
}

func (h *Hub) handleRequestRematch(c *Client) {
	nickname := h.users.Nickname(c.id)
	if nickname == "" {
		return
	}
	m := h.matches.ByPlayer(nickname)
	if m == nil {
		return
	}

	bothReady := m.MarkReady(nickname)

	pending := &Message{
		Type:            "rematch_pending",
		ChallengerReady: boolPtr(m.Ready[m.Challenger]),
		ChallengedReady: boolPtr(m.Ready[m.Challenged]),
	}
	h.sendToNick(m.Challenger, pending)
	h.sendToNick(m.Challenged, pending)

	if !bothReady {
		return
	}

	// The finished game goes to the archive before the result is cleared.
	h.archive.SaveMatch(m, "rematch")
	firstTurn := m.ResetForRematch()
	for _, nick := range []string{m.Challenger, m.Challenged} {
		h.sendToNick(nick, &Message{
			Type:     "rematch_confirmed",
			Board:    m.BoardSnapshot(),
			Turn:     firstTurn,
			MySymbol: m.SymbolOf(nick),
		})
	}
	log.Printf("[REMATCH] %s vs %s, first turn %s", m.Challenger, m.Challenged, firstTurn)
}

func (h *Hub) handleLeaveRoom(c *Client, msg *Message) {
	nickname := msg.Nickname
	if nickname == "" {
		nickname = h.users.Nickname(c.id)
	}
	if nickname == "" {
		return
	}

	m := h.matches.ByPlayer(nickname)
	if m == nil {
		// Speculative lobby return: force idle and rebroadcast anyway.
		h.users.SetStatus(nickname, statusIdle)
		h.broadcastUserList()
		return
	}

	other := m.Other(nickname)
	voluntary := msg.Voluntary != nil && *msg.Voluntary

	// Resolve both connections before presence is touched; an involuntary
	// leave purges the leaver's entry entirely.
	leaverClient := h.clientOf(nickname)
	otherClient := h.clientOf(other)

	h.users.SetStatus(nickname, statusIdle)
	h.users.SetStatus(other, statusIdle)

	termination := "leave"
	if !voluntary {
		termination = "disconnect"
		h.users.Remove(nickname)
	}

	if leaverClient != nil {
		h.sendToClient(leaverClient, &Message{Type: "force_lobby"})
	}
	if otherClient != nil {
		h.sendToClient(otherClient, &Message{Type: "force_lobby"})
	}

	h.endMatch(m, termination)
	h.broadcastUserList()
	log.Printf("[LEAVE] %s and %s returned to the lobby", nickname, other)
}

func (h *Hub) handlePrivateMessage(c *Client, msg *Message) {
	from := h.users.Nickname(c.id)
	if from == "" {
		return
	}
	m := h.matches.ByPlayer(from)
	if m == nil {
		return
	}
	other := m.Other(from)
	otherClient := h.clientOf(other)
	if otherClient == nil {
		// Opponent has no live connection; drop the message entirely.
		return
	}

	m.AddMessage(from, other, msg.Text)
	out := &Message{Type: "private_message", From: from, Text: msg.Text}
	h.sendToClient(otherClient, out)
	// Echo to the sender so its UI shows the message like the recipient's.
	h.sendToClient(c, out)
}

func (h *Hub) handleChatMessage(c *Client, msg *Message) {
	nickname := h.users.Nickname(c.id)
	if nickname == "" || msg.Text == "" {
		return
	}
	stored := h.chat.Add(nickname, msg.Text)
	h.broadcast(&Message{Type: "chat_message", From: stored.From, Text: stored.Text})
}

func (h *Hub) handleRequestRecentChat(c *Client) {
	h.sendToClient(c, &Message{Type: "chat_recent", Messages: h.chat.Recent()})
}
