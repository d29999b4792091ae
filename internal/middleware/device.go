package middleware

import (
	"net/http"
	"strings"

	"mandi-backend/internal/apperrors"
)

// Substrings that mark a mobile or tablet user agent. Bill preview and
// generation are desktop-only: the preview table does not fit small screens
// and operators were confirming batches by accident on phones.
var mobileAgentMarkers = []string{
	"mobile", "android", "iphone", "ipad", "ipod",
	"blackberry", "windows phone", "opera mini",
}

func isMobileAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileAgentMarkers {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return false
}

// RequireDesktop rejects mobile and tablet clients before the handler runs.
func RequireDesktop(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isMobileAgent(r.Header.Get("User-Agent")) {
			apperrors.Write(w, apperrors.Validation("bill preview and generation are available on desktop only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
