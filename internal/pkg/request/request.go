package request

import "context"

type contextKey string

const sessionIDKey contextKey = "portal_session_id"

// GinSessionIDKey dipakai middleware untuk menyimpan SID di gin context.
const GinSessionIDKey = "session_id"

// WithSessionID menempelkan portal session ID ke context supaya layer di
// bawah handler (gateway, session store) bisa membacanya tanpa bergantung
// pada gin.
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sid)
}

func SessionID(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDKey).(string)
	return sid, ok && sid != ""
}
