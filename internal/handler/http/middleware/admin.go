package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// ClaimsFromRequest returns the console claims of the verified token. The
// is_admin flag is read here and handed to services as a plain capability
// bool; nothing below the handlers inspects tokens.
func ClaimsFromRequest(r *http.Request) (jwt.Claims, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return jwt.Claims{}, err
	}
	return jwt.ClaimsFromMap(claims)
}
