package dtos

type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// SessionResponse never carries the full access token.
type SessionResponse struct {
	User        SessionUser `json:"user"`
	AccessToken string      `json:"accessToken"`
	ExpiresAt   string      `json:"expiresAt"`
}
