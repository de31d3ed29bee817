package auth

import "time"

// Claims representa la información extraída del ID token.
type Claims struct {
	UserID string
	Email  string
}

// User es la vista simplificada del usuario que consume la UI.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Credential es el resultado de un sign-up o sign-in.
type Credential struct {
	User         User
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// ProfileUpdate: nil = no tocar.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}
