package session

// Session is the authenticated identity of the current device user.
// At most one Session exists per state directory at a time.
type Session struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// LoggedIn reports whether a token is present
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

// CanUseEvents reports whether the session is complete enough for event
// features. A token without a user id is a partial write the rest of the
// system tolerates by treating the user as logged out of event features.
func (s *Session) CanUseEvents() bool {
	return s.LoggedIn() && s.UserID != ""
}
