package restapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestClient(t *testing.T) (*Client, *testutil.FakeAPI, *session.Store) {
	t.Helper()
	api := testutil.NewFakeAPI(t)

	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.APIURL = api.URL()

	store := session.NewStore(cfg.SessionPath())
	return New(cfg, store, nil), api, store
}

func signIn(t *testing.T, api *testutil.FakeAPI, store *session.Store, u service.User) {
	t.Helper()
	token := api.AddUser(u, "secret1")
	require.NoError(t, store.Save(service.Session{Token: token, User: u}))
}

var ada = service.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: service.RoleUser}

func TestLogin(t *testing.T) {
	for _, nested := range []bool{false, true} {
		client, api, _ := newTestClient(t)
		api.NestedAuth = nested
		api.AddUser(ada, "secret1")

		sess, err := client.Login(context.Background(), service.Credentials{Email: ada.Email, Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "token-u1", sess.Token)
		assert.Equal(t, "Ada", sess.User.Name)
		assert.Equal(t, service.RoleUser, sess.User.Role)

		reqs := api.Requests()
		require.Len(t, reqs, 1)
		assert.Empty(t, reqs[0].Authorization)
		assert.Equal(t, "application/json", reqs[0].ContentType)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)

	_, err := client.Login(context.Background(), service.Credentials{Email: ada.Email, Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	// A rejected login does not touch the stored session.
	assert.Equal(t, session.Authenticated, store.State())
}

func TestRegister_Multipart(t *testing.T) {
	client, api, _ := newTestClient(t)

	sess, err := client.Register(context.Background(), service.RegisterInput{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "secret1",
		Avatar:   &service.Upload{Filename: "me.png", Data: pngHeader},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "/uploads/me.png", sess.User.ProfileImage)

	require.NotNil(t, api.LastAvatar)
	assert.Equal(t, "me.png", api.LastAvatar.Filename)
	assert.Equal(t, "image/png", api.LastAvatar.ContentType)
	assert.Equal(t, pngHeader, api.LastAvatar.Data)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "multipart/form-data", reqs[0].ContentType)
}

func TestRegister_ServerMessage(t *testing.T) {
	client, api, _ := newTestClient(t)
	api.AddUser(ada, "secret1")

	_, err := client.Register(context.Background(), service.RegisterInput{Name: "Ada", Email: ada.Email, Password: "secret1"})
	var apiErr *service.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "User already exists", apiErr.Message)
}

func TestListTasks_AttachesBearerAndRequestID(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)
	api.AddTask(service.Task{ID: "a", Title: "First", Status: service.StatusTodo})
	api.AddTask(service.Task{ID: "b", Title: "Second", Status: service.StatusDone})

	tasks, err := client.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "b", tasks[1].ID)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer token-u1", reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestTaskCRUD(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)
	ctx := context.Background()

	due := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	created, err := client.CreateTask(ctx, service.TaskInput{Title: "Ship release", Status: service.StatusTodo, DueDate: &due})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.NotNil(t, created.DueDate)
	assert.True(t, created.DueDate.Equal(due))

	status := service.StatusInProgress
	updated, err := client.UpdateTask(ctx, created.ID, service.TaskUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, service.StatusInProgress, updated.Status)
	assert.Equal(t, "Ship release", updated.Title)

	require.NoError(t, client.DeleteTask(ctx, created.ID))
	assert.Equal(t, 1, api.Count(http.MethodDelete, "/api/tasks/"+created.ID))
	assert.Empty(t, api.Tasks())

	err = client.DeleteTask(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestBreakdownTask(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)
	api.AddTask(service.Task{ID: "a", Title: "Plan launch", Status: service.StatusTodo})
	api.SubTasks = []string{"Draft announcement", "Book venue"}

	subs, err := client.BreakdownTask(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"Draft announcement", "Book venue"}, subs)
	assert.Equal(t, 1, api.Count(http.MethodPost, "/api/tasks/a/breakdown"))
}

func TestUnauthorizedClearsSession(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)
	api.RevokeTokens()

	_, err := client.ListTasks(context.Background())
	assert.ErrorIs(t, err, service.ErrSessionExpired)
	assert.Equal(t, session.Anonymous, store.State())
	assert.NoFileExists(t, store.Path())
}

func TestNoSession_NoRequest(t *testing.T) {
	client, api, _ := newTestClient(t)

	_, err := client.ListTasks(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Empty(t, api.Requests())
}

func TestServerError(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)
	api.Fail["POST /api/tasks"] = http.StatusInternalServerError

	_, err := client.CreateTask(context.Background(), service.TaskInput{Title: "x"})
	var apiErr *service.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "Internal Server Error", apiErr.Message)

	// Non-auth failures keep the session.
	assert.Equal(t, session.Authenticated, store.State())
}

func TestMeAndUpdateProfile(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)
	ctx := context.Background()

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)

	updated, err := client.UpdateProfile(ctx, service.ProfileInput{
		Name:   "Ada L.",
		Avatar: &service.Upload{Filename: "avatar.jpg", Data: []byte("\xff\xd8\xff\xe0jpeg")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "/uploads/avatar.jpg", updated.ProfileImage)
	assert.Equal(t, "image/jpeg", api.LastAvatar.ContentType)
}

func TestAdmin(t *testing.T) {
	client, api, store := newTestClient(t)
	admin := service.User{ID: "root", Name: "Root", Email: "root@example.com", Role: service.RoleAdmin}
	signIn(t, api, store, admin)
	api.AddUser(ada, "secret1")
	ctx := context.Background()

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, client.UpdateUserRole(ctx, "u1", service.RoleAdmin))
	assert.Equal(t, service.RoleAdmin, api.Users()[1].Role)

	require.NoError(t, client.DeleteUser(ctx, "u1"))
	assert.Len(t, api.Users(), 1)
}

func TestAdmin_Forbidden(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, ada)

	_, err := client.ListUsers(context.Background())
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.Equal(t, session.Authenticated, store.State())
}

func TestListActivity(t *testing.T) {
	client, api, store := newTestClient(t)
	signIn(t, api, store, service.User{ID: "root", Name: "Root", Email: "root@example.com", Role: service.RoleAdmin})
	api.Activity = []gin.H{
		{"_id": "e1", "action": "login", "user": gin.H{"_id": "u1", "name": "Ada"}, "createdAt": "2025-06-01T10:00:00.000Z"},
		{"_id": "e2", "action": "delete_task", "details": gin.H{"task": "a"}, "user": "u2"},
	}

	entries, err := client.ListActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Ada", entries[0].User)
	require.NotNil(t, entries[0].CreatedAt)
	assert.Equal(t, 10, entries[0].CreatedAt.Hour())

	assert.Equal(t, "u2", entries[1].User)
	assert.Equal(t, `{"task":"a"}`, entries[1].Details)
	assert.Nil(t, entries[1].CreatedAt)
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "boom", serverMessage(`{"message":"boom"}`))
	assert.Equal(t, "bad", serverMessage(`{"error":"bad"}`))
	assert.Equal(t, "plain text", serverMessage("plain text\n"))
}
