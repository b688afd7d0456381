package authclient

import (
	"encoding/json"
	"fmt"
)

// APIError is a normalized account-operation failure. Message is the
// display string installed on the session snapshot; Status is the HTTP
// status when a response was received (0 for transport failures); Err is
// the underlying transport error, if any.
type APIError struct {
	Op      Operation
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return "account operation failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// transportFailure normalizes a failure that never produced a usable
// response: connection errors, request construction, body decode.
func transportFailure(op Operation, err error) *APIError {
	return &APIError{Op: op, Message: defaultMessage(op), Err: err}
}

// serverFailure normalizes a non-2xx response body into one display
// string using the fixed precedence order.
func serverFailure(op Operation, status int, body []byte) *APIError {
	return &APIError{Op: op, Status: status, Message: normalizeFailure(op, body)}
}

// errorField is one field of a failure payload. The service emits both
// plain strings and DRF-style lists of strings; either decodes to the
// first message present.
type errorField string

func (f *errorField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = errorField(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) > 0 {
			*f = errorField(list[0])
		}
		return nil
	}
	// Unrecognized shape: ignore the field rather than fail the decode.
	*f = ""
	return nil
}

// errorDetail is the `detail` member, which arrives either as a plain
// message string or as a field→message object.
type errorDetail struct {
	Password string
	Username string
	Message  string
}

func (d *errorDetail) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Message = s
		return nil
	}
	var fields struct {
		Password errorField `json:"password"`
		Username errorField `json:"username"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	d.Password = string(fields.Password)
	d.Username = string(fields.Username)
	return nil
}

// failurePayload covers every error body shape the account service
// produces: `{"detail": {...}}`, `{"detail": "..."}`, bare serializer
// field maps (`{"password": ["..."]}`), and `{"error": "..."}`.
type failurePayload struct {
	Detail   errorDetail `json:"detail"`
	Password errorField  `json:"password"`
	Username errorField  `json:"username"`
	ErrorMsg errorField  `json:"error"`
}

// normalizeFailure reduces a failure body to one display string.
// Precedence: password field, then username field, then a top-level
// message, then the operation default. A password message masking a
// simultaneous username message is intentional; it mirrors the service's
// documented client behavior.
func normalizeFailure(op Operation, body []byte) string {
	var payload failurePayload
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Detail.Password != "":
			return payload.Detail.Password
		case payload.Password != "":
			return string(payload.Password)
		case payload.Detail.Username != "":
			return payload.Detail.Username
		case payload.Username != "":
			return string(payload.Username)
		case payload.Detail.Message != "":
			return payload.Detail.Message
		case payload.ErrorMsg != "":
			return string(payload.ErrorMsg)
		}
	}
	return defaultMessage(op)
}

func defaultMessage(op Operation) string {
	switch op {
	case OpRegister:
		return "An error occurred while registering."
	case OpLogin:
		return "An error occurred while logging in."
	case OpLogout, OpLogoutRemote:
		return "An error occurred while logging out."
	case OpDeleteUser:
		return "An error occurred while deleting the user."
	case OpFetchUser:
		return "An error occurred while fetching user details."
	case OpGetUserByID:
		return "An error occurred while fetching user by ID."
	case OpGetUserByUsername:
		return "An error occurred while fetching user by username."
	case OpUpdateUser:
		return "An error occurred while updating user details."
	default:
		return "An error occurred."
	}
}
