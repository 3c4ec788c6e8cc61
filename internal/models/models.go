// Package models contains the shared data structures for go-msgboard.
package models

// User roles. Registration always creates guests; the single admin
// account is seeded at first startup.
const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// User represents a row in the users table.
type User struct {
	UserID       int64  `json:"userid" db:"userid"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password"`
	Role         string `json:"role" db:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Forum represents a row in the forums table.
type Forum struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// Message represents a row in the messages table. Timestamp is the
// ISO-8601 UTC string returned by the external time service and is
// stored verbatim.
type Message struct {
	ID        int64  `json:"id" db:"id"`
	ForumID   int64  `json:"forum_id" db:"forumId"`
	UserID    int64  `json:"user_id" db:"userId"`
	Body      string `json:"message" db:"message"`
	Timestamp string `json:"timestamp" db:"timestamp"`
}

// ForumMessage is a message joined with the posting user's name,
// as rendered on the forum detail page.
type ForumMessage struct {
	Message
	Username string `json:"username" db:"username"`
}

// SessionUser is the immutable per-request view of the logged-in user.
// It is rebuilt from the session store on every request; the admin flag
// is derived from the stored role, never mutated in place.
type SessionUser struct {
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}
