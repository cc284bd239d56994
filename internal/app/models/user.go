package models

import "time"

// Role gates admin-only UI affordances. The backend enforces authorization.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the account record returned by the backend.
type User struct {
	ID    int64  `json:"id_usuario"`
	Name  string `json:"nm_usuario"`
	Email string `json:"email_usuario"`
	Role  Role   `json:"tipo_usuario"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CanEdit reports whether u may see edit affordances for a record owned by ownerID.
func (u *User) CanEdit(ownerID int64) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || u.ID == ownerID
}

// Session associates the process with at most one signed-in user.
// Token and User are always written and cleared together.
type Session struct {
	User    *User     `json:"user"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

type RegisterRequest struct {
	Name     string `json:"nm_usuario"`
	Email    string `json:"email_usuario"`
	Password string `json:"senha_usuario"`
}

type LoginRequest struct {
	Email    string `json:"email_usuario"`
	Password string `json:"senha_usuario"`
}

type LoginResponse struct {
	Message string `json:"mensagem"`
	Token   string `json:"token"`
	User    User   `json:"usuario"`
}

// RegisterResponse is the acknowledgment of a registration.
type RegisterResponse struct {
	Message string `json:"mensagem"`
}

type UpdateUserRequest struct {
	Name  *string `json:"nm_usuario,omitempty"`
	Email *string `json:"email_usuario,omitempty"`
}
