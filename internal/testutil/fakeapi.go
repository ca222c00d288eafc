package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

// Request is one request received by FakeAPI.
type Request struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	RequestID     string
}

// Upload is a multipart file received by FakeAPI.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FakeAPI is an in-memory task service REST server for testing HTTP clients.
// Routes live under /api as on the real server.
type FakeAPI struct {
	mu        sync.Mutex
	server    *httptest.Server
	tasks     []service.Task
	users     []service.User
	passwords map[string]string // email -> password
	tokens    map[string]string // token -> user id
	nextID    int
	requests  []Request

	// Fail forces a status for "METHOD /api/path" keys.
	Fail map[string]int

	// SubTasks is returned by the breakdown endpoint.
	SubTasks []string

	// NestedAuth makes login and register answer {token, user} instead of
	// the flat user-with-token shape.
	NestedAuth bool

	// Activity is served verbatim by GET /api/admin/activity.
	Activity []gin.H

	// LastAvatar is the last uploaded avatar file.
	LastAvatar *Upload
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		Fail:      make(map[string]int),
	}

	r := gin.New()
	r.Use(f.recordRequest, f.injectFailure)

	api := r.Group("/api")
	api.POST("/auth/register", f.register)
	api.POST("/auth/login", f.login)

	authed := api.Group("", f.requireToken)
	authed.GET("/auth/me", f.me)
	authed.PUT("/auth/me", f.updateMe)
	authed.GET("/tasks", f.listTasks)
	authed.POST("/tasks", f.createTask)
	authed.PUT("/tasks/:id", f.updateTask)
	authed.DELETE("/tasks/:id", f.deleteTask)
	authed.POST("/tasks/:id/breakdown", f.breakdown)

	admin := authed.Group("/admin", f.requireAdmin)
	admin.GET("/users", f.listUsers)
	admin.PATCH("/users/:id/role", f.updateRole)
	admin.DELETE("/users/:id", f.deleteUser)
	admin.GET("/activity", f.listActivity)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the API base URL.
func (f *FakeAPI) URL() string {
	return f.server.URL + "/api"
}

// AddUser registers an account and returns a token valid for it.
func (f *FakeAPI) AddUser(u service.User, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
	f.passwords[u.Email] = password
	token := "token-" + u.ID
	f.tokens[token] = u.ID
	return token
}

// RevokeTokens invalidates every issued token.
func (f *FakeAPI) RevokeTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = make(map[string]string)
}

// AddTask appends a task in server order.
func (f *FakeAPI) AddTask(t service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// Tasks returns a snapshot of the stored tasks.
func (f *FakeAPI) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Users returns a snapshot of the stored users.
func (f *FakeAPI) Users() []service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.User(nil), f.users...)
}

// Requests returns every request received so far.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count returns how many requests matched method and path.
func (f *FakeAPI) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) recordRequest(c *gin.Context) {
	f.mu.Lock()
	f.requests = append(f.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.ContentType(),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	f.mu.Unlock()
	c.Next()
}

func (f *FakeAPI) injectFailure(c *gin.Context) {
	f.mu.Lock()
	code, ok := f.Fail[c.Request.Method+" "+c.Request.URL.Path]
	f.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(code, gin.H{"message": http.StatusText(code)})
		return
	}
	c.Next()
}

func (f *FakeAPI) requireToken(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	f.mu.Lock()
	id, ok := f.tokens[token]
	f.mu.Unlock()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
		return
	}
	c.Set("userID", id)
	c.Next()
}

func (f *FakeAPI) requireAdmin(c *gin.Context) {
	u, ok := f.currentUser(c)
	if !ok || u.Role != service.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized as an admin"})
		return
	}
	c.Next()
}

func (f *FakeAPI) currentUser(c *gin.Context) (service.User, bool) {
	id := c.GetString("userID")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, true
		}
	}
	return service.User{}, false
}

func (f *FakeAPI) authReply(c *gin.Context, status int, u service.User, token string) {
	if f.NestedAuth {
		c.JSON(status, gin.H{"token": token, "user": u})
		return
	}
	c.JSON(status, gin.H{
		"_id":          u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"role":         u.Role,
		"profileImage": u.ProfileImage,
		"token":        token,
	})
}

// readAvatar returns the uploaded avatar, or nil when none was sent.
func (f *FakeAPI) readAvatar(c *gin.Context) (*Upload, error) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		return nil, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	up := &Upload{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}
	f.mu.Lock()
	f.LastAvatar = up
	f.mu.Unlock()
	return up, nil
}

func (f *FakeAPI) register(c *gin.Context) {
	name, email, password := c.PostForm("name"), c.PostForm("email"), c.PostForm("password")
	if name == "" || email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please add all fields"})
		return
	}
	avatar, err := f.readAvatar(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f.mu.Lock()
	if _, exists := f.passwords[email]; exists {
		f.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
		return
	}
	f.nextID++
	u := service.User{ID: fmt.Sprintf("user%d", f.nextID), Name: name, Email: email, Role: service.RoleUser}
	if avatar != nil {
		u.ProfileImage = "/uploads/" + avatar.Filename
	}
	f.mu.Unlock()

	token := f.AddUser(u, password)
	f.authReply(c, http.StatusCreated, u, token)
}

func (f *FakeAPI) login(c *gin.Context) {
	var creds service.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f.mu.Lock()
	password, ok := f.passwords[creds.Email]
	var user service.User
	for _, u := range f.users {
		if u.Email == creds.Email {
			user = u
		}
	}
	f.mu.Unlock()

	if !ok || password != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token := "token-" + user.ID
	f.mu.Lock()
	f.tokens[token] = user.ID
	f.mu.Unlock()
	f.authReply(c, http.StatusOK, user, token)
}

func (f *FakeAPI) me(c *gin.Context) {
	u, _ := f.currentUser(c)
	c.JSON(http.StatusOK, u)
}

func (f *FakeAPI) updateMe(c *gin.Context) {
	avatar, err := f.readAvatar(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	id := c.GetString("userID")

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID != id {
			continue
		}
		if v := c.PostForm("name"); v != "" {
			f.users[i].Name = v
		}
		if v := c.PostForm("email"); v != "" {
			f.users[i].Email = v
		}
		if avatar != nil {
			f.users[i].ProfileImage = "/uploads/" + avatar.Filename
		}
		c.JSON(http.StatusOK, f.users[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
}

func (f *FakeAPI) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, f.Tasks())
}

func (f *FakeAPI) createTask(c *gin.Context) {
	var in service.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please add a title"})
		return
	}
	if in.Status == "" {
		in.Status = service.StatusTodo
	}

	f.mu.Lock()
	f.nextID++
	t := service.Task{
		ID:          fmt.Sprintf("task%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
	}
	f.tasks = append(f.tasks, t)
	f.mu.Unlock()

	c.JSON(http.StatusCreated, t)
}

func (f *FakeAPI) updateTask(c *gin.Context) {
	var upd service.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == c.Param("id") {
			f.tasks[i] = upd.Apply(t)
			c.JSON(http.StatusOK, f.tasks[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
}

func (f *FakeAPI) deleteTask(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == c.Param("id") {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"id": t.ID})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
}

func (f *FakeAPI) breakdown(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == c.Param("id") {
			f.tasks[i].SubTasks = append([]string(nil), f.SubTasks...)
			c.JSON(http.StatusOK, gin.H{"subTasks": f.SubTasks})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
}

func (f *FakeAPI) listUsers(c *gin.Context) {
	c.JSON(http.StatusOK, f.Users())
}

func (f *FakeAPI) updateRole(c *gin.Context) {
	var body struct {
		Role service.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == c.Param("id") {
			f.users[i].Role = body.Role
			c.JSON(http.StatusOK, f.users[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
}

func (f *FakeAPI) deleteUser(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == c.Param("id") {
			f.users = append(f.users[:i], f.users[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "User removed"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
}

func (f *FakeAPI) listActivity(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Activity == nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	c.JSON(http.StatusOK, f.Activity)
}
