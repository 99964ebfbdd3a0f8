package store_test

import (
	"context"
	"io"
	"testing"
	"time"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/database/databasetest"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/search"
	"chronicles/backend/internal/search/searchtest"
	"chronicles/backend/internal/store"

	"github.com/sirupsen/logrus"
)

type fixture struct {
	tm    *database.TxManager
	index *searchtest.Index
	users *store.Users
	posts *store.Posts
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	idx := searchtest.New()
	indexer := search.NewIndexer(idx, time.Second, quietLogger())
	tm := database.NewTxManager(db, search.NewSynchronizer(indexer))
	return &fixture{
		tm:    tm,
		index: idx,
		users: store.NewUsers(tm, indexer),
		posts: store.NewPosts(tm, indexer),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), name, name+"@example.com", "secret-"+name)
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) post(t *testing.T, author *models.User, body string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Body: body, UserID: author.ID, Timestamp: at}
	err := f.tm.Run(context.Background(), func(tx *database.Tx) error {
		return tx.Add(p)
	})
	if err != nil {
		t.Fatalf("create post %q: %v", body, err)
	}
	return p
}

func (f *fixture) follow(t *testing.T, a, b *models.User) {
	t.Helper()
	if err := f.users.Follow(context.Background(), a.ID, b.ID); err != nil {
		t.Fatalf("follow %s -> %s: %v", a.Username, b.Username, err)
	}
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func usernames(users []models.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}
