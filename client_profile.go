package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// FetchUserDetails reads the authenticated user's own profile and
// replaces the session user record with the response.
func (c *Client) FetchUserDetails(ctx context.Context) error {
	return c.fetchUser(ctx, OpFetchUser, routeUser)
}

// GetUserByID reads a profile by numeric id.
//
// Like the other profile reads, the response replaces the session user
// record — even when the id belongs to someone other than the
// authenticated user. That conflates "who am I" with "who am I looking
// at"; callers displaying third-party profiles should keep their own
// copy of the result instead of reading it back from the session.
func (c *Client) GetUserByID(ctx context.Context, id int) error {
	return c.fetchUser(ctx, OpGetUserByID, routeGet+strconv.Itoa(id)+"/")
}

// GetUserByUsername reads a profile by username. The overwrite caveat on
// [Client.GetUserByID] applies here too.
func (c *Client) GetUserByUsername(ctx context.Context, username string) error {
	return c.fetchUser(ctx, OpGetUserByUsername, routeGet+url.PathEscape(username)+"/")
}

func (c *Client) fetchUser(ctx context.Context, op Operation, path string) error {
	return c.invoke(ctx, op, "", func(ctx context.Context) (int, *APIError) {
		status, body, failure := c.call(ctx, op, http.MethodGet, path, nil, true)
		if failure != nil {
			return status, failure
		}
		var user User
		if err := json.Unmarshal(body, &user); err != nil {
			return status, transportFailure(op, err)
		}
		c.store.SetUser(user)
		return status, nil
	})
}

// UpdateUser sends partial profile fields and replaces the session user
// record with the server's updated view.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) error {
	return c.invoke(ctx, OpUpdateUser, "", func(ctx context.Context) (int, *APIError) {
		status, body, failure := c.call(ctx, OpUpdateUser, http.MethodPut, routeUpdate, req, true)
		if failure != nil {
			return status, failure
		}
		var user User
		if err := json.Unmarshal(body, &user); err != nil {
			return status, transportFailure(OpUpdateUser, err)
		}
		c.store.SetUser(user)
		return status, nil
	})
}
