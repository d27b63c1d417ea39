package bizerror

import (
	"errors"
	"membergate/common"
	"net/http"
)

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("forbidden")
var ErrRemoteUnavailable = errors.New("remote membership platform unavailable")
var ErrBadRedirectTarget = errors.New("bad redirect target")
var ErrUnknownOption = errors.New("unknown option")
var ErrLevelNotFound = errors.New("access level not found")

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}

func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}

func (e *ErrBadParam) Respond() *common.BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &common.BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message}
}

// ErrRemote carries the remote membership platform's error message verbatim.
// The platform is a trusted collaborator; its messages are surfaced to the
// caller without re-validation.
type ErrRemote struct {
	Message string
	Cause   error
}

func (e *ErrRemote) Unwrap() error {
	return e.Cause
}

func (e *ErrRemote) Error() string {
	return e.Message
}

func (e *ErrRemote) Respond() *common.BizErrorDetail {
	return &common.BizErrorDetail{Status: http.StatusBadGateway, Code: "remote.error", Message: e.Message}
}
