package audit

import (
	"net"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"bursar/internal/pkg/parser"
)

const (
	ActionSignup         = "account.signup"
	ActionLogin          = "session.login"
	ActionLoginFailed    = "session.login_failed"
	ActionLogout         = "session.logout"
	ActionReceiptIssued  = "receipt.issued"
	ActionUploadRejected = "receipt.upload_rejected"
)

// Logger writes one structured line per security relevant event. Events are
// not persisted; the users table is the only stored state.
type Logger struct {
	logger zerolog.Logger
}

func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger.With().Str("component", "audit").Logger()}
}

// Log records action performed by username, with the client's address and
// user agent family taken from r.
func (l *Logger) Log(r *http.Request, action, username string, metadata map[string]string) {
	os, browser := parser.ParseUserAgent(r.UserAgent())

	ev := l.logger.Info().
		Str("action", action).
		Str("username", username).
		Str("ip", clientIP(r)).
		Str("os", os).
		Str("browser", browser)
	if id, ok := hlog.IDFromRequest(r); ok {
		ev = ev.Stringer("req_id", id)
	}
	for k, v := range metadata {
		ev = ev.Str(k, v)
	}
	ev.Msg("audit")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
