package model

import "time"

// AdminAccount mirrors the 'admin_accounts' table (and, on the legacy
// fallback path, an entry of the KV admin directory). Only the bcrypt hash
// of the credential is ever stored.
type AdminAccount struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	IsSuper      bool      `json:"isSuper"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Session is the authenticated operator identity. Absent (nil) means logged
// out. It is carried inside the persisted session token and trusted on
// restore until the next privileged operation or an explicit logout.
type Session struct {
	Username string `json:"username"`
	IsSuper  bool   `json:"isSuper"`
}
