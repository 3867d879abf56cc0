package enums

// SessionEventType names a change in the lifecycle of a portal session.
type SessionEventType string

const (
	SessionEventLogin    SessionEventType = "login"
	SessionEventRegister SessionEventType = "register"
	SessionEventRefresh  SessionEventType = "refresh"
	SessionEventLogout   SessionEventType = "logout"
)
