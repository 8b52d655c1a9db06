package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/topic-distribution-admin/pkg/errors"
)

// RemoteError is a non-2xx answer of the remote API. The API reports
// failures either as {"error": "..."} or {"message": "..."}.
type RemoteError struct {
	StatusCode  int
	ErrorText   string
	MessageText string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote api status %d: %s", e.StatusCode, e.Reason())
}

// Reason prefers the error field, then message, then a status description.
func (e *RemoteError) Reason() string {
	if e.ErrorText != "" {
		return e.ErrorText
	}
	if e.MessageText != "" {
		return e.MessageText
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

func decodeRemoteError(status int, raw []byte) *RemoteError {
	remote := &RemoteError{StatusCode: status}
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return remote
	}
	remote.MessageText = strings.TrimSpace(payload.Message)
	if len(payload.Error) > 0 {
		var text string
		if err := json.Unmarshal(payload.Error, &text); err == nil {
			remote.ErrorText = strings.TrimSpace(text)
		}
	}
	return remote
}

// Reason extracts the user-facing detail of a failed call: the remote error
// text when the API answered, the transport description otherwise.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Reason()
	}
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return err.Error()
}

// MessageOr returns the remote "message" field, or fallback when the API did
// not send one.
func MessageOr(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) && remote.MessageText != "" {
		return remote.MessageText
	}
	return fallback
}

// ErrorTextOr returns the remote "error" field. Without one it returns
// fallback, or the transport description when fallback is empty.
func ErrorTextOr(err error, fallback string) string {
	var remote *RemoteError
	if errors.As(err, &remote) {
		if remote.ErrorText != "" {
			return remote.ErrorText
		}
		if fallback != "" {
			return fallback
		}
		return fmt.Sprintf("Request failed with status code %d", remote.StatusCode)
	}
	if fallback != "" && err != nil && !isTransport(err) {
		return fallback
	}
	return Reason(err)
}

// MessageText returns the remote "message" field, or the transport
// description of the failure.
func MessageText(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) {
		if remote.MessageText != "" {
			return remote.MessageText
		}
		return fmt.Sprintf("Request failed with status code %d", remote.StatusCode)
	}
	return Reason(err)
}

func isTransport(err error) bool {
	return appErrors.Is(err, appErrors.ErrUpstreamUnavailable)
}
