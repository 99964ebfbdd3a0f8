package store_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/database/databasetest"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/search"
	"chronicles/backend/internal/store"

	qt "github.com/frankban/quicktest"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFeed(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	john := f.user(t, "john")
	susan := f.user(t, "susan")
	mary := f.user(t, "mary")
	david := f.user(t, "david")

	p1 := f.post(t, john, "post from john", base.Add(1*time.Second))
	p2 := f.post(t, susan, "post from susan", base.Add(4*time.Second))
	p3 := f.post(t, mary, "post from mary", base.Add(3*time.Second))
	p4 := f.post(t, david, "post from david", base.Add(2*time.Second))

	f.follow(t, john, susan)
	f.follow(t, john, david)
	f.follow(t, susan, mary)
	f.follow(t, mary, david)

	tests := []struct {
		user *models.User
		want []uint
	}{
		{john, []uint{p2.ID, p4.ID, p1.ID}},
		{susan, []uint{p2.ID, p3.ID}},
		{mary, []uint{p3.ID, p4.ID}},
		{david, []uint{p4.ID}},
	}
	for _, test := range tests {
		c.Run(test.user.Username, func(c *qt.C) {
			page, err := f.posts.Feed(ctx, test.user.ID, 1, 10)
			c.Assert(err, qt.IsNil)
			c.Assert(postIDs(page.Items), qt.DeepEquals, test.want)
			c.Assert(page.Total, qt.Equals, int64(len(test.want)))
			c.Assert(page.HasNext(), qt.IsFalse)
			c.Assert(page.HasPrev(), qt.IsFalse)
			for _, p := range page.Items {
				c.Assert(p.Author.ID, qt.Equals, p.UserID)
			}
		})
	}
}

func TestFeedHasNoDuplicatesForPopularAuthors(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	star := f.user(t, "star")
	fans := []*models.User{f.user(t, "fan1"), f.user(t, "fan2"), f.user(t, "fan3")}
	for _, fan := range fans {
		f.follow(t, fan, star)
	}
	starPost := f.post(t, star, "hello fans", base)
	ownPost := f.post(t, fans[0], "me too", base.Add(time.Second))
	f.post(t, fans[1], "not for fan1", base.Add(2*time.Second))

	page, err := f.posts.Feed(ctx, fans[0].ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{ownPost.ID, starPost.ID})
	c.Assert(page.Total, qt.Equals, int64(2))

	// The author is followed three times but sees only their own post once.
	page, err = f.posts.Feed(ctx, star.ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{starPost.ID})
}

func TestFeedBreaksTiesByID(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	a := f.user(t, "a")
	b := f.user(t, "b")
	f.follow(t, a, b)
	first := f.post(t, b, "first", base)
	second := f.post(t, a, "second", base)
	third := f.post(t, b, "third", base)

	want := []uint{third.ID, second.ID, first.ID}
	for range 3 {
		page, err := f.posts.Feed(ctx, a.ID, 1, 10)
		c.Assert(err, qt.IsNil)
		c.Assert(postIDs(page.Items), qt.DeepEquals, want)
	}
}

func TestFeedPagination(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "pager")
	var posts []*models.Post
	for i := range 5 {
		posts = append(posts, f.post(t, u, "post", base.Add(time.Duration(i)*time.Minute)))
	}

	page, err := f.posts.Feed(ctx, u.ID, 1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{posts[4].ID, posts[3].ID})
	c.Assert(page.HasNext(), qt.IsTrue)
	c.Assert(page.HasPrev(), qt.IsFalse)
	c.Assert(page.NextNum(), qt.Equals, 2)
	c.Assert(page.PrevNum(), qt.Equals, 0)
	c.Assert(page.Pages(), qt.Equals, 3)

	page, err = f.posts.Feed(ctx, u.ID, 3, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{posts[0].ID})
	c.Assert(page.HasNext(), qt.IsFalse)
	c.Assert(page.HasPrev(), qt.IsTrue)

	page, err = f.posts.Feed(ctx, u.ID, 7, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(page.Items, qt.HasLen, 0)
	c.Assert(page.HasNext(), qt.IsFalse)
	c.Assert(page.Total, qt.Equals, int64(5))
}

func TestPageNumbersAreClamped(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)

	u := f.user(t, "clamp")
	f.post(t, u, "only", base)

	page, err := f.posts.Feed(context.Background(), u.ID, 0, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(page.Page, qt.Equals, 1)
	c.Assert(page.PerPage, qt.Equals, 1)
	c.Assert(page.Items, qt.HasLen, 1)
}

func TestByAuthorAndExplore(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	a := f.user(t, "alice")
	b := f.user(t, "bob")
	pa1 := f.post(t, a, "a1", base)
	pb := f.post(t, b, "b1", base.Add(time.Second))
	pa2 := f.post(t, a, "a2", base.Add(2*time.Second))

	page, err := f.posts.ByAuthor(ctx, a.ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{pa2.ID, pa1.ID})

	page, err = f.posts.Explore(ctx, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{pa2.ID, pb.ID, pa1.ID})
	c.Assert(page.Items[1].Author.Username, qt.Equals, "bob")
}

func TestCreatePost(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "writer")

	p, err := f.posts.Create(ctx, u.ID, "  hola mundo  ", "es")
	c.Assert(err, qt.IsNil)
	c.Assert(p.Body, qt.Equals, "hola mundo")
	c.Assert(p.Language, qt.Equals, "es")
	c.Assert(p.Author.Username, qt.Equals, "writer")
	c.Assert(p.Timestamp.IsZero(), qt.IsFalse)

	doc, ok := f.index.Doc("posts", p.ID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(doc, qt.DeepEquals, map[string]any{"body": "hola mundo"})

	_, err = f.posts.Create(ctx, u.ID, "   ", "")
	c.Assert(err, qt.ErrorIs, store.ErrEmptyPost)

	_, err = f.posts.Create(ctx, u.ID, strings.Repeat("é", models.MaxPostLength+1), "")
	c.Assert(err, qt.ErrorIs, store.ErrPostTooLong)

	_, err = f.posts.Create(ctx, u.ID, strings.Repeat("é", models.MaxPostLength), "")
	c.Assert(err, qt.IsNil)

	_, err = f.posts.Create(ctx, 9999, "ghost", "")
	c.Assert(err, qt.ErrorIs, database.ErrNotFound)
	c.Assert(f.index.Len("posts"), qt.Equals, 2)
}

func TestSearchPosts(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "searcher")

	one, err := f.posts.Create(ctx, u.ID, "the quick brown fox", "en")
	c.Assert(err, qt.IsNil)
	two, err := f.posts.Create(ctx, u.ID, "a quick fox jumps", "en")
	c.Assert(err, qt.IsNil)
	_, err = f.posts.Create(ctx, u.ID, "nothing to see", "en")
	c.Assert(err, qt.IsNil)
	three, err := f.posts.Create(ctx, u.ID, "brown bears and a quick fox", "en")
	c.Assert(err, qt.IsNil)

	// Three tokens match "one" and "three", ranked by id; "two" matches two.
	page, err := f.posts.Search(ctx, "quick brown fox", 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{one.ID, three.ID, two.ID})
	c.Assert(page.Total, qt.Equals, int64(3))
	c.Assert(page.Items[0].Author.Username, qt.Equals, "searcher")

	page, err = f.posts.Search(ctx, "quick brown fox", 2, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{two.ID})
	c.Assert(page.HasNext(), qt.IsFalse)
	c.Assert(page.HasPrev(), qt.IsTrue)
}

func TestSearchWithoutIndex(t *testing.T) {
	c := qt.New(t)
	db := databasetest.Open(t)
	indexer := search.NewIndexer(nil, time.Second, quietLogger())
	tm := database.NewTxManager(db, search.NewSynchronizer(indexer))
	users := store.NewUsers(tm, indexer)
	posts := store.NewPosts(tm, indexer)
	ctx := context.Background()

	u, err := users.Create(ctx, "offline", "offline@example.com", "password")
	c.Assert(err, qt.IsNil)
	_, err = posts.Create(ctx, u.ID, "still works", "")
	c.Assert(err, qt.IsNil)

	page, err := posts.Search(ctx, "works", 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(page.Items, qt.HasLen, 0)
	c.Assert(page.Total, qt.Equals, int64(0))

	feed, err := posts.Feed(ctx, u.ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(feed.Items, qt.HasLen, 1)
}
