package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/search"

	qt "github.com/frankban/quicktest"
)

// cluster accepts every request like an Elasticsearch node and remembers the paths.
type cluster struct {
	mu    sync.Mutex
	paths []string
}

func (cl *cluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cl.mu.Lock()
	cl.paths = append(cl.paths, r.Method+" "+r.URL.Path)
	cl.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"result":"created"}`))
}

func (cl *cluster) sorted() []string {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	out := append([]string(nil), cl.paths...)
	sort.Strings(out)
	return out
}

// seed migrates a fresh sqlite file through the migrate command and fills it with
// susan following john and mary, and john following susan.
func seed(c *qt.C) string {
	dir := c.TempDir()
	dsn := filepath.Join(dir, "manage.db")
	c.Setenv("DATABASE_DRIVER", "sqlite")
	c.Setenv("DATABASE_URL", dsn)
	c.Setenv("ELASTICSEARCH_URL", "")

	_, err := execute(dir, "migrate")
	c.Assert(err, qt.IsNil)

	db, err := database.Open("sqlite", dsn)
	c.Assert(err, qt.IsNil)
	sqlDB, err := db.DB()
	c.Assert(err, qt.IsNil)
	defer sqlDB.Close()

	users := []*models.User{
		{Username: "susan", Email: "susan@example.com", AboutMe: "gophers"},
		{Username: "john", Email: "john@example.com"},
		{Username: "mary", Email: "mary@example.com"},
	}
	for _, u := range users {
		c.Assert(db.Create(u).Error, qt.IsNil)
	}
	for _, f := range [][2]*models.User{{users[0], users[1]}, {users[0], users[2]}, {users[1], users[0]}} {
		c.Assert(db.Create(&models.Follow{FollowerID: f[0].ID, FollowedID: f[1].ID}).Error, qt.IsNil)
	}
	c.Assert(db.Create(&models.Post{Body: "first post", UserID: users[0].ID}).Error, qt.IsNil)
	return dir
}

func execute(dir string, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--env-dir", dir))
	err := root.Execute()
	return out.String(), err
}

func TestFollowsCommand(t *testing.T) {
	c := qt.New(t)
	dir := seed(c)

	out, err := execute(dir, "follows", "susan")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Fields(out), qt.DeepEquals, []string{"john", "mary"})

	out, err = execute(dir, "follows", "susan", "--followers")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Fields(out), qt.DeepEquals, []string{"john"})

	_, err = execute(dir, "follows", "ghost")
	c.Assert(err, qt.ErrorIs, database.ErrNotFound)
}

func TestReindexCommand(t *testing.T) {
	c := qt.New(t)
	dir := seed(c)

	_, err := execute(dir, "reindex")
	c.Assert(err, qt.ErrorIs, search.ErrNotConfigured)

	_, err = execute(dir, "reindex", "comments")
	c.Assert(err, qt.IsNotNil)

	cl := &cluster{}
	srv := httptest.NewServer(cl)
	defer srv.Close()
	c.Setenv("ELASTICSEARCH_URL", srv.URL)

	_, err = execute(dir, "reindex", "users")
	c.Assert(err, qt.IsNil)
	c.Assert(cl.sorted(), qt.DeepEquals, []string{
		"PUT /users/_doc/1",
		"PUT /users/_doc/2",
		"PUT /users/_doc/3",
	})

	_, err = execute(dir, "reindex", "posts")
	c.Assert(err, qt.IsNil)
	c.Assert(cl.sorted(), qt.Contains, "PUT /posts/_doc/1")
}
