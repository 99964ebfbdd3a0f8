package store_test

import (
	"context"
	"testing"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/store"

	qt "github.com/frankban/quicktest"
)

func TestCreateUser(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "susan", "susan@example.com", "cat")
	c.Assert(err, qt.IsNil)
	c.Assert(u.ID, qt.Not(qt.Equals), uint(0))
	c.Assert(u.PasswordHash, qt.Not(qt.Equals), "cat")
	c.Assert(u.CheckPassword("cat"), qt.IsTrue)
	c.Assert(u.CheckPassword("dog"), qt.IsFalse)

	doc, ok := f.index.Doc("users", u.ID)
	c.Assert(ok, qt.IsTrue)
	c.Assert(doc, qt.DeepEquals, map[string]any{"username": "susan", "about_me": ""})

	_, err = f.users.Create(ctx, "susan", "other@example.com", "x")
	c.Assert(err, qt.ErrorIs, store.ErrUsernameTaken)
	c.Assert(err, qt.ErrorIs, database.ErrConflict)

	_, err = f.users.Create(ctx, "other", "susan@example.com", "x")
	c.Assert(err, qt.ErrorIs, store.ErrEmailTaken)
	c.Assert(f.index.Len("users"), qt.Equals, 1)
}

func TestLookups(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "lookup")

	got, err := f.users.ByID(ctx, u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Username, qt.Equals, "lookup")

	got, err = f.users.ByUsername(ctx, "lookup")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, u.ID)

	got, err = f.users.ByEmail(ctx, "lookup@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(got.ID, qt.Equals, u.ID)

	_, err = f.users.ByUsername(ctx, "nobody")
	c.Assert(err, qt.ErrorIs, database.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "before")
	f.user(t, "taken")

	got, err := f.users.UpdateProfile(ctx, u.ID, "after", "hello there")
	c.Assert(err, qt.IsNil)
	c.Assert(got.Username, qt.Equals, "after")
	c.Assert(got.AboutMe, qt.Equals, "hello there")

	doc, _ := f.index.Doc("users", u.ID)
	c.Assert(doc["username"], qt.Equals, "after")
	c.Assert(doc["about_me"], qt.Equals, "hello there")

	// Keeping one's own name is not a conflict.
	_, err = f.users.UpdateProfile(ctx, u.ID, "after", "changed bio")
	c.Assert(err, qt.IsNil)

	_, err = f.users.UpdateProfile(ctx, u.ID, "taken", "")
	c.Assert(err, qt.ErrorIs, store.ErrUsernameTaken)

	_, err = f.users.UpdateProfile(ctx, 4242, "ghost", "")
	c.Assert(err, qt.ErrorIs, database.ErrNotFound)
}

func TestSetPasswordAndLastSeen(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "forgetful")

	c.Assert(f.users.SetPassword(ctx, u.ID, "new-password"), qt.IsNil)
	got, err := f.users.ByID(ctx, u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.CheckPassword("new-password"), qt.IsTrue)
	c.Assert(got.CheckPassword("secret-forgetful"), qt.IsFalse)
	c.Assert(got.LastSeen, qt.IsNil)

	c.Assert(f.users.SetPassword(ctx, 4242, "x"), qt.ErrorIs, database.ErrNotFound)

	c.Assert(f.users.TouchLastSeen(ctx, u.ID), qt.IsNil)
	got, err = f.users.ByID(ctx, u.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.LastSeen, qt.Not(qt.IsNil))
}

func TestFollowIsIdempotent(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	john := f.user(t, "john")
	susan := f.user(t, "susan")

	ok, err := f.users.IsFollowing(ctx, john.ID, susan.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	c.Assert(f.users.Follow(ctx, john.ID, susan.ID), qt.IsNil)
	c.Assert(f.users.Follow(ctx, john.ID, susan.ID), qt.IsNil)

	ok, err = f.users.IsFollowing(ctx, john.ID, susan.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	ok, err = f.users.IsFollowing(ctx, susan.ID, john.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)

	n, err := f.users.FollowingCount(ctx, john.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(1))
	n, err = f.users.FollowersCount(ctx, susan.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(1))

	ids, err := f.users.FollowerIDs(ctx, susan.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(ids, qt.DeepEquals, []uint{john.ID})

	c.Assert(f.users.Unfollow(ctx, john.ID, susan.ID), qt.IsNil)
	c.Assert(f.users.Unfollow(ctx, john.ID, susan.ID), qt.IsNil)
	n, err = f.users.FollowingCount(ctx, john.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, int64(0))

	// Follow edges are not searchable.
	c.Assert(f.index.Len("followers"), qt.Equals, 0)
}

func TestFollowEdgeCases(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()
	me := f.user(t, "me")

	c.Assert(f.users.Follow(ctx, me.ID, 777), qt.ErrorIs, database.ErrNotFound)

	c.Assert(f.users.Follow(ctx, me.ID, me.ID), qt.IsNil)
	ok, err := f.users.IsFollowing(ctx, me.ID, me.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	// A self-edge adds nothing to the feed beyond the user's own posts.
	p := f.post(t, me, "mine", base)
	page, err := f.posts.Feed(ctx, me.ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(postIDs(page.Items), qt.DeepEquals, []uint{p.ID})
}

func TestFollowListsAndSequences(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	hub := f.user(t, "hub")
	var names []string
	for _, name := range []string{"eve", "bob", "dan", "amy", "cat"} {
		u := f.user(t, name)
		f.follow(t, hub, u)
		f.follow(t, u, hub)
		names = append(names, name)
	}
	sorted := []string{"amy", "bob", "cat", "dan", "eve"}

	page, err := f.users.ListFollowing(ctx, hub.ID, 1, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(usernames(page.Items), qt.DeepEquals, []string{"amy", "bob"})
	c.Assert(page.Total, qt.Equals, int64(len(names)))
	c.Assert(page.HasNext(), qt.IsTrue)

	page, err = f.users.ListFollowers(ctx, hub.ID, 3, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(usernames(page.Items), qt.DeepEquals, []string{"eve"})
	c.Assert(page.HasNext(), qt.IsFalse)

	collect := func() []string {
		var got []string
		for u, err := range f.users.Following(ctx, hub.ID, 2) {
			c.Assert(err, qt.IsNil)
			got = append(got, u.Username)
		}
		return got
	}
	c.Assert(collect(), qt.DeepEquals, sorted)
	// Ranging again starts over.
	c.Assert(collect(), qt.DeepEquals, sorted)

	var first []string
	for u, err := range f.users.Followers(ctx, hub.ID, 2) {
		c.Assert(err, qt.IsNil)
		first = append(first, u.Username)
		if len(first) == 3 {
			break
		}
	}
	c.Assert(first, qt.DeepEquals, sorted[:3])

	var none []models.User
	for u, err := range f.users.Following(ctx, 4242, 2) {
		c.Assert(err, qt.IsNil)
		none = append(none, u)
	}
	c.Assert(none, qt.HasLen, 0)
}

func TestSearchUsers(t *testing.T) {
	c := qt.New(t)
	f := newFixture(t)
	ctx := context.Background()

	f.user(t, "gopher")
	u := f.user(t, "rustacean")
	_, err := f.users.UpdateProfile(ctx, u.ID, "rustacean", "secretly a gopher fan")
	c.Assert(err, qt.IsNil)

	page, err := f.users.Search(ctx, "gopher", 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(usernames(page.Items), qt.DeepEquals, []string{"gopher", "rustacean"})
	c.Assert(page.Total, qt.Equals, int64(2))
}
