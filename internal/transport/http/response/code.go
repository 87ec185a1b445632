package response

import "net/http"

// Codes follow HTTP semantics; CodeOK is the only non-HTTP value.
const (
	CodeOK                 = 0
	CodeBadRequest         = http.StatusBadRequest
	CodeUnauthorized       = http.StatusUnauthorized
	CodeForbidden          = http.StatusForbidden
	CodeNotFound           = http.StatusNotFound
	CodeRequestTooLarge    = http.StatusRequestEntityTooLarge
	CodeTooManyRequests    = http.StatusTooManyRequests
	CodeServerError        = http.StatusInternalServerError
	CodeServiceUnavailable = http.StatusServiceUnavailable
	CodeGatewayTimeout     = http.StatusGatewayTimeout
)

var CodeMsgMap = map[int]string{
	CodeOK:                 "OK",
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Unauthorized",
	CodeForbidden:          "Forbidden",
	CodeNotFound:           "Not Found",
	CodeRequestTooLarge:    "Request Entity Too Large",
	CodeTooManyRequests:    "Too Many Requests",
	CodeServerError:        "Internal Server Error",
	CodeServiceUnavailable: "Service Unavailable",
	CodeGatewayTimeout:     "Gateway Timeout",
}

// Machine-readable error kinds carried in Resp.Kind.
const (
	KindValidation         = "validation"
	KindConflict           = "conflict"
	KindNotFound           = "not_found"
	KindInvalidCredentials = "invalid_credentials"
	KindAccessDenied       = "access_denied"
	KindInvalidTokenFormat = "invalid_token_format"
	KindInvalidToken       = "invalid_token"
	KindForbidden          = "forbidden"
	KindAlreadyLiked       = "already_liked"
	KindDependency         = "dependency"
	KindRateLimited        = "rate_limited"
	KindBodyTooLarge       = "body_too_large"
	KindTimeout            = "timeout"
	KindBusy               = "busy"
	KindInternal           = "internal"
)
