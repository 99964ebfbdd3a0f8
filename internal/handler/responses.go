package handler

import (
	"context"
	"time"

	"chronicles/backend/internal/models"
)

const (
	profileAvatarSize = 128
	postAvatarSize    = 36
)

// UserResponse defines the structure for a user's public profile.
type UserResponse struct {
	ID             uint       `json:"id" example:"1"`
	Username       string     `json:"username" example:"susan"`
	AboutMe        string     `json:"about_me" example:"I like gophers"`
	Avatar         string     `json:"avatar"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollowing    *bool      `json:"is_following,omitempty"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	UserResponse
	Email string `json:"email" example:"susan@example.com"`
}

// AuthorResponse is the compact user shown next to a post.
type AuthorResponse struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"susan"`
	Avatar   string `json:"avatar"`
}

// PostResponse defines the structure of a post.
type PostResponse struct {
	ID        uint           `json:"id" example:"1"`
	Body      string         `json:"body" example:"Hello, world!"`
	Timestamp time.Time      `json:"timestamp"`
	Language  string         `json:"language,omitempty" example:"en"`
	Author    AuthorResponse `json:"author"`
}

// TokenResponse carries an access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func newPostResponse(p models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Body:      p.Body,
		Timestamp: p.Timestamp,
		Language:  p.Language,
		Author: AuthorResponse{
			ID:       p.Author.ID,
			Username: p.Author.Username,
			Avatar:   p.Author.Avatar(postAvatarSize),
		},
	}
}

// newUserResponse builds a profile as seen by viewerID; viewerID 0 is anonymous.
// Count failures leave the counts at zero.
func newUserResponse(ctx context.Context, u models.User, viewerID uint) UserResponse {
	followers, _ := svc.Users.FollowersCount(ctx, u.ID)
	following, _ := svc.Users.FollowingCount(ctx, u.ID)

	res := UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		AboutMe:        u.AboutMe,
		Avatar:         u.Avatar(profileAvatarSize),
		LastSeen:       u.LastSeen,
		FollowersCount: followers,
		FollowingCount: following,
	}
	if viewerID != 0 && viewerID != u.ID {
		if ok, err := svc.Users.IsFollowing(ctx, viewerID, u.ID); err == nil {
			res.IsFollowing = &ok
		}
	}
	return res
}

func newPrivateUserResponse(ctx context.Context, u models.User) PrivateUserResponse {
	return PrivateUserResponse{
		UserResponse: newUserResponse(ctx, u, u.ID),
		Email:        u.Email,
	}
}

// userConverter adapts newUserResponse for NewPaginatedResponse.
func userConverter(ctx context.Context, viewerID uint) func(models.User) UserResponse {
	return func(u models.User) UserResponse {
		return newUserResponse(ctx, u, viewerID)
	}
}
