package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"taskboard/internal/service"
)

// ListUsers implements service.Service.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	var users []service.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/users"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserRole implements service.Service.
func (c *Client) UpdateUserRole(ctx context.Context, id string, role service.Role) error {
	req, err := jsonRequest(http.MethodPatch, userPath(id)+"/role", map[string]service.Role{"role": role})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// DeleteUser implements service.Service.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: userPath(id)}, nil)
}

// activityRecord is the loosely typed wire shape of an activity entry.
// user may be an id string or a populated user object.
type activityRecord struct {
	ID        string          `json:"_id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
	User      json.RawMessage `json:"user"`
	CreatedAt *time.Time      `json:"createdAt"`
	Timestamp *time.Time      `json:"timestamp"`
}

// ListActivity implements service.Service.
func (c *Client) ListActivity(ctx context.Context) ([]service.ActivityEntry, error) {
	var records []activityRecord
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/activity"}, &records); err != nil {
		return nil, err
	}

	entries := make([]service.ActivityEntry, 0, len(records))
	for _, r := range records {
		at := r.CreatedAt
		if at == nil {
			at = r.Timestamp
		}
		entries = append(entries, service.ActivityEntry{
			ID:        r.ID,
			Action:    r.Action,
			Details:   rawText(r.Details),
			User:      rawUser(r.User),
			CreatedAt: at,
		})
	}
	return entries, nil
}

// rawText renders a JSON value as text: strings unquoted, anything else
// compacted.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// rawUser prefers a populated user's name, then email, then id.
func rawUser(raw json.RawMessage) string {
	var u service.User
	if err := json.Unmarshal(raw, &u); err == nil {
		switch {
		case u.Name != "":
			return u.Name
		case u.Email != "":
			return u.Email
		case u.ID != "":
			return u.ID
		}
	}
	return rawText(raw)
}
