package router

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/fieldreach/intelligence-api/pkg/utils/httputil"
)

// CustomAuthenticator is a default authentication middleware to enforce access from the
// Verifier middleware request context values. The Authenticator sends a 401 Unauthorized
// response for any unverified tokens and passes the good ones through.
func CustomAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if err != nil {
			httputil.Error(w, r, httputil.ErrAPISecurityMissingContext, nil)
			return
		}

		if token == nil {
			httputil.Error(w, r, httputil.ErrAPISecurityMissingContext, nil)
			return
		}

		// Token is authenticated, pass it through
		next.ServeHTTP(w, r)
	})
}
