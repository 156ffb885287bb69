package user

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/middleware"
	"github.com/teamup-app/teamup/pkg/responses"
)

// UserController handles profile and friend-graph HTTP requests.
type UserController struct {
	repo      UserRepository
	appConfig *config.Config
}

func NewUserController(repo UserRepository, appConfig *config.Config) *UserController {
	return &UserController{repo: repo, appConfig: appConfig}
}

type UpdateProfileRequest struct {
	FirstName *string    `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string    `json:"last_name" binding:"omitempty,min=1,max=100"`
	About     *string    `json:"about" binding:"omitempty,max=1000"`
	BirthDate *time.Time `json:"birth_date"`
}

// GetAllUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]PublicUser}
// @Router /users [get]
func (uc *UserController) GetAllUsers(c *gin.Context) {
	users, err := uc.repo.GetAllUsers()
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch users")
		return
	}
	public := make([]PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	responses.SendSuccess(c, http.StatusOK, "", public)
}

// GetUserByID godoc
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=User}
// @Failure 404 {object} responses.ErrorResponse
// @Router /users/{user_id} [get]
func (uc *UserController) GetUserByID(c *gin.Context) {
	id, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID format")
		return
	}
	u, err := uc.repo.GetUserByID(id)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", u)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} responses.SuccessResponse{data=User}
// @Security ApiKeyAuth
// @Router /users/me [put]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := uc.repo.GetUserByID(userID)
	if err != nil || u == nil {
		responses.NotFound(c, "User")
		return
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.About != nil {
		u.About = *req.About
	}
	if req.BirthDate != nil {
		u.BirthDate = *req.BirthDate
	}

	if err := uc.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update profile")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated", u)
}

// UploadAvatar godoc
// @Summary Upload profile avatar
// @Tags Users
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/me/avatar [post]
func (uc *UserController) UploadAvatar(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		responses.BadRequest(c, "Avatar file is required")
		return
	}

	ext := filepath.Ext(file.Filename)
	name := uuid.NewString() + ext
	dst := filepath.Join(uc.appConfig.App.UploadDir, "avatars", name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		responses.InternalServerError(c, "Failed to store avatar")
		return
	}

	u, err := uc.repo.GetUserByID(userID)
	if err != nil || u == nil {
		responses.NotFound(c, "User")
		return
	}
	u.AvatarURL = "/static/avatars/" + name
	if err := uc.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update avatar")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Avatar updated", gin.H{"avatar_url": u.AvatarURL})
}

// --- Friend graph ---

// GetFriends godoc
// @Summary List own friends and pending requests
// @Tags Friends
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/me/friends [get]
func (uc *UserController) GetFriends(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	friends, err := uc.repo.GetFriends(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch friends")
		return
	}
	incoming, err := uc.repo.GetIncomingRequests(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch friend requests")
		return
	}
	outgoing, err := uc.repo.GetOutgoingRequests(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch friend requests")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", gin.H{
		"friends":  toPublic(friends),
		"incoming": toPublic(incoming),
		"outgoing": toPublic(outgoing),
	})
}

// SendFriendRequest godoc
// @Summary Send a friend request
// @Tags Friends
// @Produce json
// @Param user_id path int true "Target user ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/{user_id}/friend-request [post]
func (uc *UserController) SendFriendRequest(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	targetID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID format")
		return
	}
	if targetID == userID {
		responses.BadRequest(c, "Cannot send a friend request to yourself")
		return
	}

	target, err := uc.repo.GetUserByID(targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch user")
		return
	}
	if target == nil {
		responses.NotFound(c, "User")
		return
	}

	already, err := uc.repo.AreFriends(userID, targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check friendship")
		return
	}
	if already {
		responses.Conflict(c, "You are already friends with this user")
		return
	}

	if pending, _ := uc.repo.GetFriendRequest(userID, targetID); pending != nil {
		responses.Conflict(c, "Friend request already sent")
		return
	}

	// A symmetric pending request means both sides want the edge: accept it.
	if reverse, _ := uc.repo.GetFriendRequest(targetID, userID); reverse != nil {
		err := uc.repo.WithTransaction(func(repo UserRepository) error {
			if err := repo.DeleteFriendRequest(targetID, userID); err != nil {
				return err
			}
			return repo.CreateFriendship(userID, targetID)
		})
		if err != nil {
			responses.InternalServerError(c, "Failed to accept friend request")
			return
		}
		responses.SendSuccess(c, http.StatusOK, "Friend request accepted", nil)
		return
	}

	if err := uc.repo.CreateFriendRequest(userID, targetID); err != nil {
		responses.InternalServerError(c, "Failed to send friend request")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Friend request sent", nil)
}

// AcceptFriendRequest godoc
// @Summary Accept an incoming friend request
// @Tags Friends
// @Produce json
// @Param user_id path int true "Requester user ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/{user_id}/friend-request/accept [post]
func (uc *UserController) AcceptFriendRequest(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	fromID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID format")
		return
	}

	pending, err := uc.repo.GetFriendRequest(fromID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch friend request")
		return
	}
	if pending == nil {
		responses.NotFound(c, "Friend request")
		return
	}

	err = uc.repo.WithTransaction(func(repo UserRepository) error {
		if err := repo.DeleteFriendRequest(fromID, userID); err != nil {
			return err
		}
		return repo.CreateFriendship(userID, fromID)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to accept friend request")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Friend request accepted", nil)
}

// DeclineFriendRequest godoc
// @Summary Decline an incoming friend request
// @Tags Friends
// @Produce json
// @Param user_id path int true "Requester user ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/{user_id}/friend-request/decline [post]
func (uc *UserController) DeclineFriendRequest(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	fromID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID format")
		return
	}

	pending, err := uc.repo.GetFriendRequest(fromID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch friend request")
		return
	}
	if pending == nil {
		responses.NotFound(c, "Friend request")
		return
	}

	if err := uc.repo.DeleteFriendRequest(fromID, userID); err != nil {
		responses.InternalServerError(c, "Failed to decline friend request")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Friend request declined", nil)
}

// Unfriend godoc
// @Summary Remove a friend
// @Tags Friends
// @Produce json
// @Param user_id path int true "Friend user ID"
// @Success 200 {object} responses.SuccessResponse
// @Security ApiKeyAuth
// @Router /users/{user_id}/friend [delete]
func (uc *UserController) Unfriend(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	otherID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID format")
		return
	}

	already, err := uc.repo.AreFriends(userID, otherID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check friendship")
		return
	}
	if !already {
		responses.NotFound(c, "Friendship")
		return
	}

	if err := uc.repo.DeleteFriendship(userID, otherID); err != nil {
		responses.InternalServerError(c, "Failed to remove friend")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Friend removed", nil)
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}

func toPublic(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}
