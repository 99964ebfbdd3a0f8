package store

import (
	"context"
	"strings"
	"unicode/utf8"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/search"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrEmptyPost   = errors.New("post body is empty")
	ErrPostTooLong = errors.Errorf("post body exceeds %d characters", models.MaxPostLength)
)

const newestFirst = "posts.timestamp DESC, posts.id DESC"

// Posts reads and writes posts.
type Posts struct {
	tm      *database.TxManager
	indexer *search.Indexer
}

func NewPosts(tm *database.TxManager, indexer *search.Indexer) *Posts {
	return &Posts{tm: tm, indexer: indexer}
}

// Create stores a post by author. language is the detected tag, possibly empty.
func (s *Posts) Create(ctx context.Context, authorID uint, body, language string) (*models.Post, error) {
	body = strings.TrimSpace(body)
	switch {
	case body == "":
		return nil, ErrEmptyPost
	case utf8.RuneCountInString(body) > models.MaxPostLength:
		return nil, ErrPostTooLong
	}

	post := &models.Post{Body: body, UserID: authorID, Language: language}
	err := s.tm.Run(ctx, func(tx *database.Tx) error {
		var author models.User
		if err := tx.DB().First(&author, authorID).Error; err != nil {
			return database.Classify(err)
		}
		if err := tx.Add(post); err != nil {
			return err
		}
		post.Author = author
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// feedQuery selects the posts written by userID or by anyone userID follows.
//
// The edge join is outer so authors nobody follows still match on the author branch, and
// grouping collapses the rows a post gains from having several followers.
func feedQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*").
		Joins("JOIN users AS author ON author.id = posts.user_id").
		Joins("LEFT OUTER JOIN followers ON followers.followed_id = author.id").
		Joins("LEFT OUTER JOIN users AS follower ON follower.id = followers.follower_id").
		Where("follower.id = ? OR author.id = ?", userID, userID).
		Group("posts.id").
		Order(newestFirst)
}

// Feed returns one page of userID's timeline, newest first. Posts with equal timestamps
// are ordered by descending id.
func (s *Posts) Feed(ctx context.Context, userID uint, page, perPage int) (*Page[models.Post], error) {
	db := s.tm.DB(ctx)
	return Paginate[models.Post](db, feedQuery(db, userID), page, perPage, "Author")
}

// ByAuthor returns one page of the posts written by userID, newest first.
func (s *Posts) ByAuthor(ctx context.Context, userID uint, page, perPage int) (*Page[models.Post], error) {
	db := s.tm.DB(ctx)
	q := db.Model(&models.Post{}).Where("posts.user_id = ?", userID).Order(newestFirst)
	return Paginate[models.Post](db, q, page, perPage, "Author")
}

// Explore returns one page of every post, newest first.
func (s *Posts) Explore(ctx context.Context, page, perPage int) (*Page[models.Post], error) {
	db := s.tm.DB(ctx)
	return Paginate[models.Post](db, db.Model(&models.Post{}).Order(newestFirst), page, perPage, "Author")
}

// Search resolves a full-text query against the post index, in relevance order.
func (s *Posts) Search(ctx context.Context, expr string, page, perPage int) (*Page[models.Post], error) {
	page, perPage = normalize(page, perPage)
	posts, total, err := search.Search[models.Post](ctx, s.tm.DB(ctx).Preload("Author"), s.indexer, expr, page, perPage)
	if err != nil {
		return nil, err
	}
	return &Page[models.Post]{Items: posts, Page: page, PerPage: perPage, Total: total}, nil
}
