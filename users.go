package main

import (
	"errors"
	"sort"
)

const (
	statusIdle = "idle"
	statusBusy = "busy"
)

var (
	errNicknameRequired = errors.New("Nickname required")
	errNicknameTaken    = errors.New("Sorry, nickname already in use!")
	errUnknownUser      = errors.New("Unknown user")
	errUserBusy         = errors.New("User busy")
	errInvalidStatus    = errors.New("Invalid status")
)

// UserRegistry tracks every joined user: nickname to connection id, the
// reverse index needed on every disconnect, and the lobby status. Nicknames
// are case-sensitive and unique; a nickname owns at most one connection.
type UserRegistry struct {
	byNick map[string]string // nickname -> connection id
	byConn map[string]string // connection id -> nickname
	status map[string]string // nickname -> idle | busy
}

func newUserRegistry() *UserRegistry {
	return &UserRegistry{
		byNick: make(map[string]string),
		byConn: make(map[string]string),
		status: make(map[string]string),
	}
}

// Add registers a nickname for a connection. New users start idle.
func (r *UserRegistry) Add(nickname, connID string) error {
	if nickname == "" {
		return errNicknameRequired
	}
	if _, ok := r.byNick[nickname]; ok {
		return errNicknameTaken
	}
	r.byNick[nickname] = connID
	r.byConn[connID] = nickname
	r.status[nickname] = statusIdle
	return nil
}

// Remove drops the nickname, its reverse mapping and its status. Removing an
// unknown nickname is a no-op.
func (r *UserRegistry) Remove(nickname string) {
	connID, ok := r.byNick[nickname]
	if !ok {
		return
	}
	delete(r.byNick, nickname)
	delete(r.byConn, connID)
	delete(r.status, nickname)
}

// Nickname returns the nickname owning a connection, or "" when the
// connection never joined.
func (r *UserRegistry) Nickname(connID string) string {
	return r.byConn[connID]
}

func (r *UserRegistry) ConnID(nickname string) (string, bool) {
	connID, ok := r.byNick[nickname]
	return connID, ok
}

// SetStatus writes the status unconditionally for a registered nickname.
// Callers are responsible for keeping status in step with challenge and
// match ownership.
func (r *UserRegistry) SetStatus(nickname, status string) {
	if _, ok := r.byNick[nickname]; ok {
		r.status[nickname] = status
	}
}

// Status returns "" for unknown nicknames.
func (r *UserRegistry) Status(nickname string) string {
	return r.status[nickname]
}

// List returns every user with its status, sorted by nickname so broadcasts
// are deterministic.
func (r *UserRegistry) List() []UserInfo {
	users := make([]UserInfo, 0, len(r.status))
	for nickname, status := range r.status {
		users = append(users, UserInfo{Nickname: nickname, Status: status})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Nickname < users[j].Nickname })
	return users
}

func (r *UserRegistry) Reset() {
	r.byNick = make(map[string]string)
	r.byConn = make(map[string]string)
	r.status = make(map[string]string)
}
