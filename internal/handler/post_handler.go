package handler

import (
	"net/http"
	"strings"

	"chronicles/backend/internal/auth"
	"chronicles/backend/internal/hub"
	"chronicles/backend/internal/i18n"
	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// PostInput defines the structure for a new post.
type PostInput struct {
	Body string `json:"body" binding:"required,max=140" example:"Hello, world!"`
}

// GetFeed godoc
// @Summary      Get the timeline
// @Description  Lists the posts of the authenticated user and of everyone they follow, newest first.
// @Description  Pages past the end are empty rather than an error.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Success      200   {object}  PaginatedResponse[PostResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /posts/feed [get]
func GetFeed(c *gin.Context) {
	viewerID, _ := auth.UserID(c)

	page, err := svc.Posts.Feed(c.Request.Context(), viewerID, pageParam(c), svc.PostsPerPage)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(page, newPostResponse))
}

// CreatePost godoc
// @Summary      Write a post
// @Description  Publishes a post. Its language is detected from the body and followers with an open stream are notified.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PostInput true "Post"
// @Success      201  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts [post]
func CreatePost(c *gin.Context) {
	viewerID, _ := auth.UserID(c)
	ctx := c.Request.Context()

	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body := strings.TrimSpace(input.Body)
	post, err := svc.Posts.Create(ctx, viewerID, body, i18n.DetectLanguage(body))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	res := newPostResponse(*post)
	notifyFollowers(c, post, res)
	c.JSON(http.StatusCreated, res)
}

func notifyFollowers(c *gin.Context, post *models.Post, res PostResponse) {
	ids, err := svc.Users.FollowerIDs(c.Request.Context(), post.UserID)
	if err != nil {
		logger.Log.WithError(err).WithField("post_id", post.ID).Warn("skipping post notification")
		return
	}
	svc.Hub.Publish(append(ids, post.UserID), hub.Event{Type: hub.EventPostCreated, Payload: res})
}

// ExplorePosts godoc
// @Summary      Explore every post
// @Description  Lists every post, newest first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Success      200   {object}  PaginatedResponse[PostResponse]
// @Failure      401   {object}  ErrorResponse
// @Router       /posts/explore [get]
func ExplorePosts(c *gin.Context) {
	page, err := svc.Posts.Explore(c.Request.Context(), pageParam(c), svc.PostsPerPage)
	if err != nil {
		respondError(c, err, "Not found")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(page, newPostResponse))
}

// SearchPosts godoc
// @Summary      Search posts
// @Description  Full-text search over post bodies in relevance order. Returns no results when search is unavailable.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  true   "Search query"
// @Param        page  query     int     false  "Page number" default(1)
// @Success      200   {object}  PaginatedResponse[PostResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /posts/search [get]
func SearchPosts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, err := svc.Posts.Search(c.Request.Context(), q, pageParam(c), svc.PostsPerPage)
	if err != nil {
		respondError(c, err, "Not found")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(page, newPostResponse))
}
