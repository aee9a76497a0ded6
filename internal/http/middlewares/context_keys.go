package middlewares

const (
	CtxRequestID = "request_id"
	CtxUser      = "auth.user"
	CtxUserID    = "auth.userID"
	CtxToken     = "auth.token"
)
