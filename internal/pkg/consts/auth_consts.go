package consts

const (
	SessionCookieName = "session"
	ContextUserKey    = "auth_user"
	RequestIDHeader   = "X-Request-ID"
)

// SensitiveHeaders are masked before request headers reach the access log.
var SensitiveHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}
