package auth

// Claims es lo que el backend de auth confirma sobre el usuario del token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
