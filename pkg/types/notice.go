package types

import "github.com/nairamart/storefront-backend/pkg/enums"

// Notice is the user-facing toast emitted by every mutating cart operation.
// It travels alongside the response data, not instead of it.
type Notice struct {
	Level   enums.NoticeLevel `json:"level"`
	Message string            `json:"message"`
}

// SuccessNotice builds a success toast.
func SuccessNotice(message string) Notice {
	return Notice{Level: enums.NoticeLevelSuccess, Message: message}
}

// WarningNotice builds a warning toast (degraded totals etc).
func WarningNotice(message string) Notice {
	return Notice{Level: enums.NoticeLevelWarning, Message: message}
}

// ErrorNotice builds an error toast for a rejected mutation.
func ErrorNotice(message string) Notice {
	return Notice{Level: enums.NoticeLevelError, Message: message}
}
