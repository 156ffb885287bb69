package team

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/field"
	"github.com/teamup-app/teamup/internal/middleware"
	"github.com/teamup-app/teamup/internal/user"
	"github.com/teamup-app/teamup/pkg/responses"
)

// TeamController handles the team membership lifecycle: creation, join
// requests, approval, leaving and the delete cascade.
type TeamController struct {
	repo      TeamRepository
	appConfig *config.Config
}

func NewTeamController(repo TeamRepository, appConfig *config.Config) *TeamController {
	return &TeamController{repo: repo, appConfig: appConfig}
}

type CreateTeamRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=100"`
	Description  string   `json:"description" binding:"omitempty,max=1000"`
	City         string   `json:"city" binding:"omitempty,max=100"`
	TrainingDays []string `json:"training_days"`
	Type         string   `json:"type" binding:"required"`
	LogoURL      string   `json:"logo_url"`
}

type UpdateTeamRequest struct {
	Name         *string   `json:"name" binding:"omitempty,min=2,max=100"`
	Description  *string   `json:"description" binding:"omitempty,max=1000"`
	City         *string   `json:"city" binding:"omitempty,max=100"`
	TrainingDays *[]string `json:"training_days"`
	Type         *string   `json:"type"`
	LogoURL      *string   `json:"logo_url"`
}

// GetAllTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Team}
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	teams, err := tc.repo.GetAllTeams()
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch teams")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", teams)
}

// GetTeamByID godoc
// @Summary Get a team with members and pending requests
// @Tags Teams
// @Produce json
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=TeamView}
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, err := parseIDParam(c, "team_id")
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	view, err := tc.loadTeamView(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if view == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", view)
}

// GetMyTeam godoc
// @Summary Get the authenticated user's team
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} responses.SuccessResponse{data=TeamView}
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/my [get]
func (tc *TeamController) GetMyTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	teamID, err := tc.repo.UserTeamID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if teamID == nil {
		responses.NotFound(c, "Team")
		return
	}

	view, err := tc.loadTeamView(*teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if view == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", view)
}

// CreateTeam godoc
// @Summary Create a team
// @Description The creator becomes the sole owner-member. A user who already
// @Description belongs to a team cannot create another one.
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team body CreateTeamRequest true "Team attributes"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !field.ValidType(req.Type) {
		responses.BadRequest(c, "Team type must be 5x5 or 11x11")
		return
	}

	currentTeam, err := tc.repo.UserTeamID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check team membership")
		return
	}
	if currentTeam != nil {
		responses.Conflict(c, "You already belong to a team")
		return
	}

	team := Team{
		Name:         req.Name,
		Description:  req.Description,
		City:         req.City,
		TrainingDays: req.TrainingDays,
		Type:         req.Type,
		LogoURL:      req.LogoURL,
		OwnerID:      userID,
	}

	err = tc.repo.WithTransaction(func(tx TeamRepository) error {
		if err := tx.CreateTeam(&team); err != nil {
			return err
		}
		if err := tx.AddMember(&TeamMember{TeamID: team.ID, UserID: userID, RoleInTeam: RoleOwner}); err != nil {
			return err
		}
		if err := tx.SetUserTeam(userID, &team.ID); err != nil {
			return err
		}
		return tx.SetUserRole(userID, user.RoleOwner)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to create team")
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// UpdateTeam godoc
// @Summary Update team attributes
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Param team body UpdateTeamRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	team, ok := tc.requireOwnedTeam(c)
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Type != nil && !field.ValidType(*req.Type) {
		responses.BadRequest(c, "Team type must be 5x5 or 11x11")
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.City != nil {
		team.City = *req.City
	}
	if req.TrainingDays != nil {
		team.TrainingDays = *req.TrainingDays
	}
	if req.Type != nil {
		team.Type = *req.Type
	}
	if req.LogoURL != nil {
		team.LogoURL = *req.LogoURL
	}

	if err := tc.repo.UpdateTeam(team); err != nil {
		responses.InternalServerError(c, "Failed to update team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team updated successfully", team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Clears every member's team reference, resets the owner's role,
// @Description drops pending requests, team bookings and team chat history.
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	team, ok := tc.requireOwnedTeam(c)
	if !ok {
		return
	}

	if err := tc.cascadeDelete(team); err != nil {
		responses.InternalServerError(c, "Failed to delete team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team deleted successfully", nil)
}

// RequestJoin godoc
// @Summary Request to join a team
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Success 201 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /teams/{team_id}/join [post]
func (tc *TeamController) RequestJoin(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	teamID, err := parseIDParam(c, "team_id")
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}

	currentTeam, err := tc.repo.UserTeamID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check team membership")
		return
	}
	if currentTeam != nil {
		responses.Conflict(c, "You already belong to a team")
		return
	}

	pending, err := tc.repo.GetJoinRequest(teamID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check join requests")
		return
	}
	if pending != nil {
		responses.Conflict(c, "You have already requested to join this team")
		return
	}

	if err := tc.repo.CreateJoinRequest(teamID, userID); err != nil {
		responses.InternalServerError(c, "Failed to create join request")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Join request sent", nil)
}

// ApproveJoin godoc
// @Summary Approve a pending join request
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Param user_id path int true "Requesting user ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id}/requests/{user_id}/approve [post]
func (tc *TeamController) ApproveJoin(c *gin.Context) {
	team, ok := tc.requireOwnedTeam(c)
	if !ok {
		return
	}
	targetID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	err = tc.repo.WithTransaction(func(tx TeamRepository) error {
		// The request row may already be gone (double click, racing reject);
		// approval still succeeds as long as membership ends up in place.
		if err := tx.DeleteJoinRequest(team.ID, targetID); err != nil {
			return err
		}
		existing, err := tx.GetMember(team.ID, targetID)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}
		if err := tx.AddMember(&TeamMember{TeamID: team.ID, UserID: targetID, RoleInTeam: RoleMember}); err != nil {
			return err
		}
		return tx.SetUserTeam(targetID, &team.ID)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to approve join request")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Join request approved", nil)
}

// RejectJoin godoc
// @Summary Reject a pending join request
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Param user_id path int true "Requesting user ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id}/requests/{user_id}/reject [post]
func (tc *TeamController) RejectJoin(c *gin.Context) {
	team, ok := tc.requireOwnedTeam(c)
	if !ok {
		return
	}
	targetID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	if err := tc.repo.DeleteJoinRequest(team.ID, targetID); err != nil {
		responses.InternalServerError(c, "Failed to reject join request")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Join request rejected", nil)
}

// LeaveTeam godoc
// @Summary Leave a team
// @Description A regular member leaving removes only their own membership.
// @Description The owner leaving deletes the whole team with the same cascade
// @Description as DELETE /teams/:team_id.
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id}/leave [post]
func (tc *TeamController) LeaveTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	teamID, err := parseIDParam(c, "team_id")
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}

	member, err := tc.repo.GetMember(teamID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check team membership")
		return
	}
	if member == nil {
		responses.NotFound(c, "Membership")
		return
	}

	if team.OwnerID == userID {
		if err := tc.cascadeDelete(team); err != nil {
			responses.InternalServerError(c, "Failed to leave team")
			return
		}
		responses.SendSuccess(c, http.StatusOK, "You left the team and it was disbanded", nil)
		return
	}

	err = tc.repo.WithTransaction(func(tx TeamRepository) error {
		if err := tx.RemoveMember(teamID, userID); err != nil {
			return err
		}
		return tx.SetUserTeam(userID, nil)
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to leave team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "You left the team", nil)
}

// RemoveMember godoc
// @Summary Remove a member from the team
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Param user_id path int true "Member user ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /teams/{team_id}/remove/{user_id} [post]
func (tc *TeamController) RemoveMember(c *gin.Context) {
	team, ok := tc.requireOwnedTeam(c)
	if !ok {
		return
	}
	targetID, err := parseIDParam(c, "user_id")
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}
	if targetID == team.OwnerID {
		responses.BadRequest(c, "The owner cannot be removed; delete the team instead")
		return
	}

	member, err := tc.repo.GetMember(team.ID, targetID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check team membership")
		return
	}
	if member == nil {
		responses.NotFound(c, "Membership")
		return
	}

	err = tc.repo.WithTransaction(func(tx TeamRepository) error {
		if err := tx.RemoveMember(team.ID, targetID); err != nil {
			return err
		}
		if err := tx.SetUserTeam(targetID, nil); err != nil {
			return err
		}
		if member.RoleInTeam == RoleOwner {
			// Should not happen while the exactly-one-owner invariant holds.
			return tx.SetUserRole(targetID, user.RolePlayer)
		}
		return nil
	})
	if err != nil {
		responses.InternalServerError(c, "Failed to remove member")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed", nil)
}

// cascadeDelete removes the team and everything hanging off it: memberships,
// pending requests, team bookings, team chat history and every member's team
// reference. The owner's role drops back to player.
func (tc *TeamController) cascadeDelete(team *Team) error {
	return tc.repo.WithTransaction(func(tx TeamRepository) error {
		if err := tx.ClearTeamReferences(team.ID); err != nil {
			return err
		}
		if err := tx.SetUserRole(team.OwnerID, user.RolePlayer); err != nil {
			return err
		}
		if err := tx.RemoveAllMembers(team.ID); err != nil {
			return err
		}
		if err := tx.DeleteAllJoinRequests(team.ID); err != nil {
			return err
		}
		if err := tx.DeleteTeamBookings(team.ID); err != nil {
			return err
		}
		if err := tx.DeleteTeamChat(team.ID); err != nil {
			return err
		}
		return tx.DeleteTeam(team.ID)
	})
}

// requireOwnedTeam loads the :team_id team and checks that the caller is its
// owner or an admin. It writes the error response itself when the check fails.
func (tc *TeamController) requireOwnedTeam(c *gin.Context) (*Team, bool) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return nil, false
	}
	teamID, err := parseIDParam(c, "team_id")
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return nil, false
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return nil, false
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return nil, false
	}

	role, _ := c.Get(middleware.AuthRoleKey)
	if team.OwnerID != userID && role != user.RoleAdmin {
		responses.Forbidden(c, "Only the team owner can perform this action")
		return nil, false
	}
	return team, true
}

func (tc *TeamController) loadTeamView(teamID uint) (*TeamView, error) {
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		return nil, err
	}
	members, err := tc.repo.GetMembers(teamID)
	if err != nil {
		return nil, err
	}
	requests, err := tc.repo.GetJoinRequests(teamID)
	if err != nil {
		return nil, err
	}
	return &TeamView{Team: *team, MemberList: members, Requests: requests}, nil
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
