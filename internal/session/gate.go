package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lcorp/storefront/pkg/enums"
)

// Session is the auth state persisted for one browser session.
type Session struct {
	Token    string
	Role     enums.Role
	Username string
	UserID   *int
}

// Authenticated reports whether all login fields are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.Role != "" && s.Username != ""
}

// IsAuthorized is true when the session holds a login for role whose token
// has not expired at now.
func IsAuthorized(s Session, role enums.Role, now time.Time) bool {
	if !s.Authenticated() {
		return false
	}
	return s.Role == role && !TokenExpired(s.Token, now)
}

// TokenExpired decodes the token payload without verifying the signature
// and compares its exp claim with now. Tokens that cannot be decoded or carry
// no exp count as expired.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return true
	}
	return exp.Before(now)
}

// TokenExpiry returns the exp claim of an unverified token.
func TokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// UserIDString renders the user id for logging.
func (s Session) UserIDString() string {
	if s.UserID == nil {
		return ""
	}
	return strconv.Itoa(*s.UserID)
}
