package models

// User is a registered account. The relational table keeps the original
// user_detail layout.
type User struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"uniqueIndex;size:160;not null"`
	FullName       string `json:"fullname,omitempty" gorm:"column:fullname;size:128"`
	Email          string `json:"email,omitempty" gorm:"index;size:255"`
	HashedPassword string `json:"-" gorm:"column:hashed_password;not null"` // bcrypt hash, never serialized
	Disabled       bool   `json:"disabled" gorm:"default:false"`
	// FirebaseUID links the account to a Firebase identity; empty for local-only users.
	FirebaseUID string `json:"-" gorm:"column:firebase_uid;index;size:128"`
}

// ExternalIdentity is a sign-in already verified by an identity provider.
type ExternalIdentity struct {
	UID           string
	Email         string
	EmailVerified bool
	FullName      string
}

func (User) TableName() string {
	return "user_detail"
}

// CredentialsRequest carries the username/password pair accepted by /token.
// The form tags match an OAuth2 password-grant form post.
type CredentialsRequest struct {
	Username string `json:"username" form:"username" query:"username" validate:"required,max=64"`
	Password string `json:"password" form:"password" query:"password" validate:"required"`
}

// SignupRequest is accepted as query parameters, a form post or JSON.
type SignupRequest struct {
	Username string `json:"username" form:"username" query:"username" validate:"required,max=64"`
	Password string `json:"password" form:"password" query:"password" validate:"required"`
	FullName string `json:"fullname,omitempty" form:"fullname" query:"fullname" validate:"omitempty,max=128"`
	Email    string `json:"email,omitempty" form:"email" query:"email" validate:"omitempty,email"`
}

// FirebaseLoginRequest exchanges a Firebase ID token for a local access token.
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" form:"id_token" validate:"required"`
}

// TokenResponse is returned by every endpoint that issues an access token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
