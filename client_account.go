package authclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// Register creates an account and, on success, installs the returned
// identity: user, token, and the authenticated flag. Validation failures
// (duplicate username, password mismatch) surface as the session's
// AuthError without touching identity fields.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.invoke(ctx, OpRegister, req.Username, func(ctx context.Context) (int, *APIError) {
		status, body, failure := c.call(ctx, OpRegister, http.MethodPost, routeRegister, req, false)
		if failure != nil {
			return status, failure
		}
		var payload authPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return status, transportFailure(OpRegister, err)
		}
		if payload.Token == "" || payload.User.Username == "" {
			return status, transportFailure(OpRegister, errMalformedAuthPayload)
		}
		c.store.SetAuthData(payload.User, payload.Token)
		return status, nil
	})
}

// Login authenticates credentials and installs the returned identity on
// success. A failed login leaves the current session exactly as it was.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	return c.invoke(ctx, OpLogin, creds.Username, func(ctx context.Context) (int, *APIError) {
		status, body, failure := c.call(ctx, OpLogin, http.MethodPost, routeLogin, creds, false)
		if failure != nil {
			return status, failure
		}
		var payload authPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return status, transportFailure(OpLogin, err)
		}
		if payload.Token == "" || payload.User.Username == "" {
			return status, transportFailure(OpLogin, errMalformedAuthPayload)
		}
		c.store.SetAuthData(payload.User, payload.Token)
		return status, nil
	})
}

// Logout resets the session to the unauthenticated shape without any
// network call. It is idempotent; the server-held token stays valid until
// it expires or [Client.LogoutRemote] revokes it.
func (c *Client) Logout(ctx context.Context) error {
	return c.invoke(ctx, OpLogout, "", func(context.Context) (int, *APIError) {
		c.store.ClearAuthData()
		return 0, nil
	})
}

// LogoutRemote asks the server to revoke the current token, then clears
// the local session regardless of the outcome: once the user asked to
// leave, a revocation failure must not keep them signed in locally. The
// failure is still reported and recorded as AuthError.
func (c *Client) LogoutRemote(ctx context.Context) error {
	return c.invoke(ctx, OpLogoutRemote, "", func(ctx context.Context) (int, *APIError) {
		status, _, failure := c.call(ctx, OpLogoutRemote, http.MethodPost, routeLogout, nil, true)
		c.store.ClearAuthData()
		return status, failure
	})
}

// DeleteUser deletes the authenticated account. Success is a logout:
// identity fields are cleared and the persisted snapshot overwritten. On
// failure the session is untouched — the account still exists.
func (c *Client) DeleteUser(ctx context.Context) error {
	return c.invoke(ctx, OpDeleteUser, "", func(ctx context.Context) (int, *APIError) {
		status, _, failure := c.call(ctx, OpDeleteUser, http.MethodDelete, routeDelete, nil, true)
		if failure != nil {
			return status, failure
		}
		c.store.ClearAuthData()
		return status, nil
	})
}
