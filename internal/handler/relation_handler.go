package handler

import (
	"fmt"
	"net/http"

	"chronicles/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// FollowUser godoc
// @Summary      Follow a user
// @Description  Starts following a user. Following someone twice is harmless.
// @Tags         followers
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username to follow"
// @Success      200       {object}  MessageResponse
// @Failure      400       {object}  ErrorResponse "Cannot follow yourself"
// @Failure      401       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username}/follow [post]
func FollowUser(c *gin.Context) {
	viewerID, _ := auth.UserID(c)
	username := c.Param("username")

	target, err := svc.Users.ByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, fmt.Sprintf("User %s not found.", username))
		return
	}
	if target.ID == viewerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself!"})
		return
	}

	if err := svc.Users.Follow(c.Request.Context(), viewerID, target.ID); err != nil {
		respondError(c, err, fmt.Sprintf("User %s not found.", username))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("You are following %s!", username)})
}

// UnfollowUser godoc
// @Summary      Unfollow a user
// @Description  Stops following a user. Unfollowing someone not followed is harmless.
// @Tags         followers
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username to unfollow"
// @Success      200       {object}  MessageResponse
// @Failure      400       {object}  ErrorResponse "Cannot unfollow yourself"
// @Failure      401       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username}/unfollow [post]
func UnfollowUser(c *gin.Context) {
	viewerID, _ := auth.UserID(c)
	username := c.Param("username")

	target, err := svc.Users.ByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, fmt.Sprintf("User %s not found.", username))
		return
	}
	if target.ID == viewerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot unfollow yourself!"})
		return
	}

	if err := svc.Users.Unfollow(c.Request.Context(), viewerID, target.ID); err != nil {
		respondError(c, err, fmt.Sprintf("User %s not found.", username))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("You are not following %s.", username)})
}

// GetFollowers godoc
// @Summary      List a user's followers
// @Tags         followers
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number" default(1)
// @Success      200       {object}  PaginatedResponse[UserResponse]
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username}/followers [get]
func GetFollowers(c *gin.Context) {
	listRelations(c, false)
}

// GetFollowing godoc
// @Summary      List the users someone follows
// @Tags         followers
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true   "Username"
// @Param        page      query     int     false  "Page number" default(1)
// @Success      200       {object}  PaginatedResponse[UserResponse]
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username}/following [get]
func GetFollowing(c *gin.Context) {
	listRelations(c, true)
}

func listRelations(c *gin.Context, following bool) {
	viewerID, _ := auth.UserID(c)
	ctx := c.Request.Context()

	user, err := svc.Users.ByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	list := svc.Users.ListFollowers
	if following {
		list = svc.Users.ListFollowing
	}
	page, err := list(ctx, user.ID, pageParam(c), svc.PostsPerPage)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(page, userConverter(ctx, viewerID)))
}
