package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"mandi-backend/internal/apperrors"
)

// PanicRecovery converts handler panics into the standard JSON 500 shape.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				apperrors.Write(w, apperrors.Internal("Internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
