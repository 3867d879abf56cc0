package middleware

const (
	RequestSessionKey = "requestSession"
	TokenKey          = "requestToken"
	Authorization     = "Authorization"
	TokenQueryParam   = "token"
)
