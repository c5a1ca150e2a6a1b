package models

const (
	SessionStatusCreated   SessionStatus = "created"
	SessionStatusUpdated   SessionStatus = "updated"
	SessionStatusUnchanged SessionStatus = "unchanged"
)

type SessionStatus = string

// SessionOutcome is the terminal result of one add/refresh session.
type SessionOutcome struct {
	Status         SessionStatus   `json:"status"`
	Product        *TrackedProduct `json:"product"`
	Reconciliation *Reconciliation `json:"-"`
	Alerted        bool            `json:"alerted"`
	Message        string          `json:"message"`
}
