package auth

import "crypto/subtle"

// Credentials is the single dashboard account.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Verify reports whether username and password match the account.
func (c Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passOK := VerifyPassword(c.PasswordHash, password) == nil
	return userOK && passOK
}
