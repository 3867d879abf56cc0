package models

// Session is the per-browser state kept by the portal. ID is empty until the
// session is first persisted.
type Session struct {
	ID           string `json:"-"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserEmail    string `json:"user_email"`
	UserRole     string `json:"user_role"`
}

// SetAuth overwrites every token and user field from an auth service payload.
func (s *Session) SetAuth(p AuthPayload) {
	s.AccessToken = p.Tokens.Access
	s.RefreshToken = p.Tokens.Refresh
	s.UserEmail = p.User.Email
	s.UserRole = p.User.Role
}

func (s *Session) IsEmpty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.UserEmail == "" && s.UserRole == ""
}
