package session

import (
	"time"

	"copy_ai_server/internal/ai"
	"copy_ai_server/internal/types"
)

// boundSession is a backend session together with the content type whose
// system instruction it was created with.
type boundSession struct {
	handle         ai.Session
	contentType    types.ContentType
	conversationID string
	startedAt      time.Time
}

// viewState is the page the user is on plus the session it owns. The two
// implementations make "conversation view without a session" unrepresentable.
type viewState interface {
	view() types.View
	active() *boundSession
	withSession(b *boundSession) viewState
}

// configuring may or may not hold a session: a first Generate that failed
// keeps its session so the next attempt reuses it.
type configuring struct {
	bound *boundSession
}

func (configuring) view() types.View        { return types.ViewConfiguration }
func (s configuring) active() *boundSession { return s.bound }
func (configuring) withSession(b *boundSession) viewState {
	return configuring{bound: b}
}

// conversing always holds a session.
type conversing struct {
	bound *boundSession
}

func (conversing) view() types.View        { return types.ViewConversation }
func (s conversing) active() *boundSession { return s.bound }
func (conversing) withSession(b *boundSession) viewState {
	if b == nil {
		return configuring{}
	}
	return conversing{bound: b}
}
