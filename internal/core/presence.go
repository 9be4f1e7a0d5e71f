package core

// Participant is the identity a join event binds to a connection.
// The core holds only this cached copy; the user store owns the record.
type Participant struct {
	UserID int64
	Name   string
}

// presenceRegistry maps connection ids to participant identities.
// It is the single source of truth for "who is currently connected".
// Only the hub goroutine touches it.
type presenceRegistry struct {
	participants map[string]Participant
}

func newPresenceRegistry() *presenceRegistry {
	return &presenceRegistry{participants: make(map[string]Participant)}
}

// Join records the participant identity for a connection.
// Returns false if the connection already joined.
func (p *presenceRegistry) Join(connID string, userID int64, name string) bool {
	if _, exists := p.participants[connID]; exists {
		return false
	}
	p.participants[connID] = Participant{UserID: userID, Name: name}
	return true
}

// Leave removes the connection's entry and returns the removed identity.
func (p *presenceRegistry) Leave(connID string) (Participant, bool) {
	participant, ok := p.participants[connID]
	if !ok {
		return Participant{}, false
	}
	delete(p.participants, connID)
	return participant, true
}

// Get returns the cached identity for a connection.
func (p *presenceRegistry) Get(connID string) (Participant, bool) {
	participant, ok := p.participants[connID]
	return participant, ok
}

// Count returns the number of joined connections.
func (p *presenceRegistry) Count() int {
	return len(p.participants)
}
