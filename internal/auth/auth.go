package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/onlystock/stock-momentum/pkg/config"
)

var (
	// ErrCredentialsNotConfigured means the server has no operator credentials
	ErrCredentialsNotConfigured = errors.New("credentials not configured")

	// ErrInvalidCredentials means the supplied user or password is wrong
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authenticator checks operator credentials without keeping session state
// ⭐ SSOT: 인증 검사는 여기서만
type Authenticator struct {
	user     string
	password string
}

// New creates an authenticator from config
func New(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{user: cfg.User, password: cfg.Password}
}

// Configured reports whether both user and password are set
func (a *Authenticator) Configured() bool {
	return a.user != "" && a.password != ""
}

// Verify compares user and password in constant time
func (a *Authenticator) Verify(user, password string) error {
	if !a.Configured() {
		return ErrCredentialsNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	if userOK&passOK != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
