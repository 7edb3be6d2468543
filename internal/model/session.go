package model

// Session identifies which user is currently logged in on this device.
//
// There is at most one session at a time — a single persisted slot, not a
// table of tokens. It carries only the fields the presentation layer needs
// to render "who am I"; the password never enters the session record.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
