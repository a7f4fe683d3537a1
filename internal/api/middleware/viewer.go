package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-feed/internal/api/shared"
	"github.com/phrazzld/scry-feed/internal/platform/logger"
	"github.com/phrazzld/scry-feed/internal/redact"
)

const (
	// SessionHeader carries the anonymous session id in both directions.
	SessionHeader = "X-Session-ID"

	// maxSessionIDLength rejects client session ids that cannot be real.
	maxSessionIDLength = 128
)

// ErrInvalidToken is returned for bearer tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// ViewerMiddleware derives the viewer key that scopes deduplication.
// In order of preference: the subject of a valid HS256 bearer token, the
// client's session header, a newly issued session id, or the client address
// when session issuing is disabled. Invalid tokens fall through to the
// anonymous identities; they never fail the request.
type ViewerMiddleware struct {
	secret        []byte
	issueSessions bool
}

// NewViewerMiddleware creates a ViewerMiddleware. An empty secret disables
// bearer token identification.
func NewViewerMiddleware(jwtSecret string, issueSessions bool) *ViewerMiddleware {
	return &ViewerMiddleware{
		secret:        []byte(jwtSecret),
		issueSessions: issueSessions,
	}
}

// Identify stores the viewer key in the request context.
func (m *ViewerMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewerKey := m.viewerKey(w, r)
		ctx := shared.WithViewerKey(r.Context(), viewerKey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *ViewerMiddleware) viewerKey(w http.ResponseWriter, r *http.Request) string {
	if token, ok := bearerToken(r); ok && len(m.secret) > 0 {
		subject, err := m.subject(token)
		if err == nil {
			return "user:" + subject
		}
		logger.FromContext(r.Context()).Debug("ignoring bearer token",
			slog.String("error", redact.Error(err)))
	}

	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" && len(id) <= maxSessionIDLength {
		return "session:" + id
	}

	if m.issueSessions {
		id := uuid.NewString()
		w.Header().Set(SessionHeader, id)
		return "session:" + id
	}

	return "ip:" + clientIP(r)
}

// subject verifies token and returns its sub claim.
func (m *ViewerMiddleware) subject(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP
// middleware rewrites from proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
