package store

import (
	"context"
	"iter"
	"time"

	"chronicles/backend/internal/database"
	"chronicles/backend/internal/models"
	"chronicles/backend/internal/search"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrUsernameTaken and ErrEmailTaken are conflicts raised before any row is written.
	ErrUsernameTaken = errors.WithMessage(database.ErrConflict, "username already taken")
	ErrEmailTaken    = errors.WithMessage(database.ErrConflict, "email already registered")
)

// Users reads and mutates users and the follow graph.
type Users struct {
	tm      *database.TxManager
	indexer *search.Indexer
}

func NewUsers(tm *database.TxManager, indexer *search.Indexer) *Users {
	return &Users{tm: tm, indexer: indexer}
}

func taken(db *gorm.DB, column, value string, except uint) (bool, error) {
	var n int64
	q := db.Model(&models.User{}).Where(column+" = ?", value)
	if except != 0 {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, database.Classify(err)
	}
	return n > 0, nil
}

// Create registers a new user with a hashed password.
func (s *Users) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	user := &models.User{Username: username, Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	err := s.tm.Run(ctx, func(tx *database.Tx) error {
		if ok, err := taken(tx.DB(), "username", username, 0); err != nil {
			return err
		} else if ok {
			return ErrUsernameTaken
		}
		if ok, err := taken(tx.DB(), "email", email, 0); err != nil {
			return err
		} else if ok {
			return ErrEmailTaken
		}
		return tx.Add(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Users) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := s.tm.DB(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, database.Classify(err)
	}
	return &user, nil
}

func (s *Users) ByID(ctx context.Context, id uint) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Users) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

// UpdateProfile changes username and bio. A new username must not belong to anyone else.
func (s *Users) UpdateProfile(ctx context.Context, id uint, username, aboutMe string) (*models.User, error) {
	var user models.User
	err := s.tm.Run(ctx, func(tx *database.Tx) error {
		if err := tx.DB().First(&user, id).Error; err != nil {
			return database.Classify(err)
		}
		if username != user.Username {
			if ok, err := taken(tx.DB(), "username", username, user.ID); err != nil {
				return err
			} else if ok {
				return ErrUsernameTaken
			}
		}
		user.Username = username
		user.AboutMe = aboutMe
		return tx.Save(&user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetPassword replaces the password hash of user id.
func (s *Users) SetPassword(ctx context.Context, id uint, password string) error {
	var user models.User
	if err := user.SetPassword(password); err != nil {
		return errors.Wrap(err, "hash password")
	}
	res := s.tm.DB(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("password_hash", user.PasswordHash)
	if res.Error != nil {
		return database.Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// TouchLastSeen records activity without touching the search index.
func (s *Users) TouchLastSeen(ctx context.Context, id uint) error {
	err := s.tm.DB(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("last_seen", time.Now().UTC()).Error
	return database.Classify(err)
}

// Search resolves a full-text query against the user index.
func (s *Users) Search(ctx context.Context, expr string, page, perPage int) (*Page[models.User], error) {
	page, perPage = normalize(page, perPage)
	users, total, err := search.Search[models.User](ctx, s.tm.DB(ctx), s.indexer, expr, page, perPage)
	if err != nil {
		return nil, err
	}
	return &Page[models.User]{Items: users, Page: page, PerPage: perPage, Total: total}, nil
}

// Follow makes follower follow followed. Following twice is a no-op. Self-edges are
// accepted here; callers that forbid them must check first.
func (s *Users) Follow(ctx context.Context, followerID, followedID uint) error {
	err := s.tm.Run(ctx, func(tx *database.Tx) error {
		want := int64(2)
		if followerID == followedID {
			want = 1
		}
		var n int64
		if err := tx.DB().Model(&models.User{}).Where("id IN ?", []uint{followerID, followedID}).Count(&n).Error; err != nil {
			return database.Classify(err)
		}
		if n != want {
			return database.ErrNotFound
		}

		if ok, err := isFollowing(tx.DB(), followerID, followedID); err != nil || ok {
			return err
		}
		return tx.Add(&models.Follow{FollowerID: followerID, FollowedID: followedID})
	})
	// A concurrent follow of the same pair won the insert.
	if errors.Is(err, database.ErrConflict) {
		return nil
	}
	return err
}

// Unfollow removes the edge if it exists.
func (s *Users) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.tm.Run(ctx, func(tx *database.Tx) error {
		var edge models.Follow
		err := tx.DB().Where("follower_id = ? AND followed_id = ?", followerID, followedID).First(&edge).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return database.Classify(err)
		}
		return tx.Delete(&edge)
	})
}

func isFollowing(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, database.Classify(err)
	}
	return n > 0, nil
}

// IsFollowing reports whether the edge follower -> followed exists.
func (s *Users) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return isFollowing(s.tm.DB(ctx), followerID, followedID)
}

func (s *Users) count(ctx context.Context, column string, id uint) (int64, error) {
	var n int64
	if err := s.tm.DB(ctx).Model(&models.Follow{}).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return 0, database.Classify(err)
	}
	return n, nil
}

func (s *Users) FollowersCount(ctx context.Context, id uint) (int64, error) {
	return s.count(ctx, "followed_id", id)
}

func (s *Users) FollowingCount(ctx context.Context, id uint) (int64, error) {
	return s.count(ctx, "follower_id", id)
}

// FollowerIDs returns the ids of everyone following id.
func (s *Users) FollowerIDs(ctx context.Context, id uint) ([]uint, error) {
	ids := []uint{}
	err := s.tm.DB(ctx).Model(&models.Follow{}).Where("followed_id = ?", id).Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, database.Classify(err)
	}
	return ids, nil
}

// related selects the users on the far side of id's edges. join names the edge column that
// points at the listed users, where names the one that points at id.
func related(db *gorm.DB, join, where string, id uint) *gorm.DB {
	return db.Model(&models.User{}).
		Joins("JOIN followers ON followers."+join+" = users.id").
		Where("followers."+where+" = ?", id).
		Order("users.username")
}

// ListFollowing returns one page of the users id follows, by username.
func (s *Users) ListFollowing(ctx context.Context, id uint, page, perPage int) (*Page[models.User], error) {
	db := s.tm.DB(ctx)
	return Paginate[models.User](db, related(db, "followed_id", "follower_id", id), page, perPage)
}

// ListFollowers returns one page of the users following id, by username.
func (s *Users) ListFollowers(ctx context.Context, id uint, page, perPage int) (*Page[models.User], error) {
	db := s.tm.DB(ctx)
	return Paginate[models.User](db, related(db, "follower_id", "followed_id", id), page, perPage)
}

// Following lazily yields every user id follows, perPage rows per round trip.
func (s *Users) Following(ctx context.Context, id uint, perPage int) iter.Seq2[models.User, error] {
	return Walk(func(page int) (*Page[models.User], error) {
		return s.ListFollowing(ctx, id, page, perPage)
	})
}

// Followers lazily yields every user following id, perPage rows per round trip.
func (s *Users) Followers(ctx context.Context, id uint, perPage int) iter.Seq2[models.User, error] {
	return Walk(func(page int) (*Page[models.User], error) {
		return s.ListFollowers(ctx, id, page, perPage)
	})
}
