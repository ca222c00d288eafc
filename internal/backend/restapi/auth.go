package restapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"taskboard/internal/service"
)

// authResponse accepts both the flat {_id, name, ..., token} shape and the
// nested {token, user: {...}} shape.
type authResponse struct {
	service.User
	Token  string        `json:"token"`
	Nested *service.User `json:"user"`
}

func (r authResponse) user() service.User {
	if r.Nested != nil {
		return *r.Nested
	}
	return r.User
}

func (r authResponse) session() (service.Session, error) {
	if r.Token == "" {
		return service.Session{}, errors.New("server returned no token")
	}
	return service.Session{Token: r.Token, User: r.user()}, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, in service.RegisterInput) (service.Session, error) {
	body, contentType, err := accountForm(in.Name, in.Email, in.Password, in.Avatar)
	if err != nil {
		return service.Session{}, err
	}

	var resp authResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/register",
		body:        body,
		contentType: contentType,
		anonymous:   true,
	}, &resp)
	if err != nil {
		return service.Session{}, err
	}
	return resp.session()
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (service.Session, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login", creds)
	if err != nil {
		return service.Session{}, err
	}
	req.anonymous = true

	var resp authResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return service.Session{}, err
	}
	return resp.session()
}

// Me implements service.Service.
func (c *Client) Me(ctx context.Context) (service.User, error) {
	var resp authResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &resp); err != nil {
		return service.User{}, err
	}
	return resp.user(), nil
}

// UpdateProfile implements service.Service.
func (c *Client) UpdateProfile(ctx context.Context, in service.ProfileInput) (service.User, error) {
	body, contentType, err := accountForm(in.Name, in.Email, in.Password, in.Avatar)
	if err != nil {
		return service.User{}, err
	}

	var resp authResponse
	err = c.do(ctx, request{
		method:      http.MethodPut,
		path:        "/auth/me",
		body:        body,
		contentType: contentType,
	}, &resp)
	if err != nil {
		return service.User{}, err
	}
	return resp.user(), nil
}

// accountForm encodes the multipart body shared by registration and
// profile update. Empty fields are omitted.
func accountForm(name, email, password string, avatar *service.Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range []struct{ key, value string }{
		{"name", name},
		{"email", email},
		{"password", password},
	} {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}

	if avatar != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename=%q`, avatar.Filename))
		h.Set("Content-Type", http.DetectContentType(avatar.Data))
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(avatar.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
