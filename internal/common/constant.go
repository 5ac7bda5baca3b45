package common

// Keys under which the credential store persists session state.
// All of them are invalidated together on logout or fatal refresh failure.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyGuestMode    = "guest_mode"
	KeyCachedUser   = "user"
)

// HTTP header names used on outbound API calls.
const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
)
