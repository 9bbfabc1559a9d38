package domain

// Identity carries the already-resolved caller identity. The core never
// touches credentials; an external auth collaborator produces this.
type Identity struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}
