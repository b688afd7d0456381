package authclient

// User is the account record returned by the remote service.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Snapshot is a point-in-time copy of the session state. User and Token
// are absent (nil / empty) when unauthenticated. Loading and AuthError
// are transient request-lifecycle fields; they are stored in the durable
// slot for simplicity but reset on rehydration.
type Snapshot struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"is_authenticated"`
	Loading         bool   `json:"loading"`
	AuthError       string `json:"auth_error"`
}

// Subscriber receives a snapshot after every store mutation. Callbacks
// run synchronously on the mutating goroutine, in subscription order.
type Subscriber func(Snapshot)

// RegisterRequest is the input for [Client.Register]. The server enforces
// that Password and Password2 match; no client-side validation is applied.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// Credentials is the input for [Client.Login].
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest carries partial profile fields for [Client.UpdateUser].
// Nil fields are omitted from the request body.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
}

// Operation identifies one account operation for metrics, audit events,
// and default failure messages.
type Operation uint8

const (
	// OpRegister is the account creation operation.
	OpRegister Operation = iota
	// OpLogin is the credential authentication operation.
	OpLogin
	// OpLogout is the local-only session reset operation.
	OpLogout
	// OpLogoutRemote is the server-side token revocation operation.
	OpLogoutRemote
	// OpDeleteUser is the account deletion operation.
	OpDeleteUser
	// OpFetchUser is the own-profile read operation.
	OpFetchUser
	// OpGetUserByID is the profile-by-id read operation.
	OpGetUserByID
	// OpGetUserByUsername is the profile-by-username read operation.
	OpGetUserByUsername
	// OpUpdateUser is the own-profile update operation.
	OpUpdateUser

	operationCount
)

// String returns the stable wire name of the operation, used in audit
// events and metrics snapshots.
func (o Operation) String() string {
	switch o {
	case OpRegister:
		return "register"
	case OpLogin:
		return "login"
	case OpLogout:
		return "logout"
	case OpLogoutRemote:
		return "logout_remote"
	case OpDeleteUser:
		return "delete_user"
	case OpFetchUser:
		return "fetch_user"
	case OpGetUserByID:
		return "get_user_by_id"
	case OpGetUserByUsername:
		return "get_user_by_username"
	case OpUpdateUser:
		return "update_user"
	default:
		return "unknown"
	}
}

// authPayload is the success body of register and login.
type authPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
