package handler

import (
	"net/http"
	"strings"

	"chronicles/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// EditProfileInput defines the structure for a profile update.
type EditProfileInput struct {
	Username string `json:"username" binding:"required,max=64" example:"susan"`
	AboutMe  string `json:"about_me" binding:"max=140" example:"I like gophers"`
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := auth.UserID(c)

	user, err := svc.Users.ByID(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(c.Request.Context(), *user))
}

// UpdateMe godoc
// @Summary      Edit current user's profile
// @Description  Changes the username and the about-me text of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EditProfileInput true "Profile"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username taken"
// @Router       /users/me [put]
func UpdateMe(c *gin.Context) {
	viewerID, _ := auth.UserID(c)

	var input EditProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := svc.Users.UpdateProfile(c.Request.Context(), viewerID, strings.TrimSpace(input.Username), input.AboutMe)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(c.Request.Context(), *user))
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Full-text search over usernames and about-me texts. Returns no results when search is unavailable.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  true   "Search query"
// @Param        page  query     int     false  "Page number" default(1)
// @Success      200   {object}  PaginatedResponse[UserResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	viewerID, _ := auth.UserID(c)
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, err := svc.Users.Search(c.Request.Context(), q, pageParam(c), svc.PostsPerPage)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(page, userConverter(c.Request.Context(), viewerID)))
}

// GetUserByUsername godoc
// @Summary      Get user by username
// @Description  Retrieves the public profile of a user, including whether the viewer follows them.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  UserResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username} [get]
func GetUserByUsername(c *gin.Context) {
	viewerID, _ := auth.UserID(c)

	user, err := svc.Users.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(c.Request.Context(), *user, viewerID))
}

// GetUserPosts godoc
// @Summary      Get a user's posts
// @Description  Lists the posts written by a user, newest first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number" default(1)
// @Success      200       {object}  PaginatedResponse[PostResponse]
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username}/posts [get]
func GetUserPosts(c *gin.Context) {
	user, err := svc.Users.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	page, err := svc.Posts.ByAuthor(c.Request.Context(), user.ID, pageParam(c), svc.PostsPerPage)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(page, newPostResponse))
}
