package chat

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/middleware"
	"github.com/teamup-app/teamup/pkg/responses"
)

// ChatController handles persisted chat history for direct rooms and team
// rooms. Live fan-out happens over the relay; this is the durable record.
type ChatController struct {
	repo      ChatRepository
	appConfig *config.Config
}

func NewChatController(repo ChatRepository, appConfig *config.Config) *ChatController {
	return &ChatController{repo: repo, appConfig: appConfig}
}

type CreateMessageRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	Text     string `json:"text"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

type EditMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type SendTeamMessageRequest struct {
	Text     string `json:"text"`
	FileURL  string `json:"file_url"`
	FileType string `json:"file_type"`
}

// GetRoomMessages godoc
// @Summary Direct-chat history for a room, oldest first
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param room_id path string true "Room ID"
// @Success 200 {object} responses.SuccessResponse{data=[]ChatMessage}
// @Router /chat/{room_id} [get]
func (cc *ChatController) GetRoomMessages(c *gin.Context) {
	roomID := c.Param("room_id")
	if roomID == "" {
		responses.BadRequest(c, "Room ID is required")
		return
	}

	messages, err := cc.repo.GetRoomMessages(roomID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch messages")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", messages)
}

// SendMessage godoc
// @Summary Persist a direct-chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body CreateMessageRequest true "Message"
// @Success 201 {object} responses.SuccessResponse{data=ChatMessage}
// @Failure 400 {object} responses.ErrorResponse
// @Router /chat [post]
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" && req.FileURL == "" {
		responses.BadRequest(c, "A message needs text or a file")
		return
	}
	if req.FileURL != "" && !ValidFileType(req.FileType) {
		responses.BadRequest(c, "File type must be image, video or other")
		return
	}

	message := ChatMessage{
		RoomID:   req.RoomID,
		AuthorID: userID,
		Text:     req.Text,
		FileURL:  req.FileURL,
		FileType: req.FileType,
	}
	if err := cc.repo.CreateMessage(&message); err != nil {
		responses.InternalServerError(c, "Failed to save message")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Message sent", message)
}

// EditMessage godoc
// @Summary Edit a direct-chat message's text
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message_id path int true "Message ID"
// @Param message body EditMessageRequest true "New text"
// @Success 200 {object} responses.SuccessResponse{data=ChatMessage}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /chat/{message_id} [put]
func (cc *ChatController) EditMessage(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	messageID, err := parseIDParam(c, "message_id")
	if err != nil {
		responses.BadRequest(c, "Invalid message ID")
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	message, err := cc.repo.GetMessageByID(messageID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch message")
		return
	}
	if message == nil {
		responses.NotFound(c, "Message")
		return
	}
	if message.AuthorID != userID {
		responses.Forbidden(c, "You can only edit your own messages")
		return
	}

	message.Text = req.Text
	message.Edited = true
	if err := cc.repo.UpdateMessage(message); err != nil {
		responses.InternalServerError(c, "Failed to update message")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Message updated", message)
}

// DeleteMessage godoc
// @Summary Delete a direct-chat message
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param message_id path int true "Message ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /chat/{message_id} [delete]
func (cc *ChatController) DeleteMessage(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	messageID, err := parseIDParam(c, "message_id")
	if err != nil {
		responses.BadRequest(c, "Invalid message ID")
		return
	}

	message, err := cc.repo.GetMessageByID(messageID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch message")
		return
	}
	if message == nil {
		responses.NotFound(c, "Message")
		return
	}
	if message.AuthorID != userID {
		responses.Forbidden(c, "You can only delete your own messages")
		return
	}

	if err := cc.repo.DeleteMessage(messageID); err != nil {
		responses.InternalServerError(c, "Failed to delete message")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Message deleted", nil)
}

// GetTeamMessages godoc
// @Summary Team-chat history, oldest first
// @Tags TeamChat
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=[]TeamChatMessage}
// @Failure 404 {object} responses.ErrorResponse
// @Router /team-chat/{team_id}/messages [get]
func (cc *ChatController) GetTeamMessages(c *gin.Context) {
	teamID, err := parseIDParam(c, "team_id")
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return
	}

	exists, err := cc.repo.TeamExists(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if !exists {
		responses.NotFound(c, "Team")
		return
	}

	messages, err := cc.repo.GetTeamMessages(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch messages")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", messages)
}

// SendTeamMessage godoc
// @Summary Persist a team-chat message
// @Description The author display name is resolved from the authenticated
// @Description user at send time.
// @Tags TeamChat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param team_id path int true "Team ID"
// @Param message body SendTeamMessageRequest true "Message"
// @Success 201 {object} responses.SuccessResponse{data=TeamChatMessage}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /team-chat/{team_id}/message [post]
func (cc *ChatController) SendTeamMessage(c *gin.Context) {
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

	var req SendTeamMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Text == "" && req.FileURL == "" {
		responses.BadRequest(c, "A message needs text or a file")
		return
	}
	if req.FileURL != "" && !ValidFileType(req.FileType) {
		responses.BadRequest(c, "File type must be image, video or other")
		return
	}

	exists, err := cc.repo.TeamExists(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch team")
		return
	}
	if !exists {
		responses.NotFound(c, "Team")
		return
	}

	author, err := cc.repo.UserDisplayName(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve author")
		return
	}

	message := TeamChatMessage{
		TeamID:   teamID,
		UserID:   userID,
		Author:   author,
		Text:     req.Text,
		FileURL:  req.FileURL,
		FileType: req.FileType,
	}
	if err := cc.repo.CreateTeamMessage(&message); err != nil {
		responses.InternalServerError(c, "Failed to save message")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Message sent", message)
}

// UploadChatFile godoc
// @Summary Upload a chat attachment
// @Tags TeamChat
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Attachment"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /team-chat/upload [post]
func (cc *ChatController) UploadChatFile(c *gin.Context) {
	if _, err := middleware.GetUserIDFromContext(c); err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		responses.BadRequest(c, "A file is required")
		return
	}

	ext := filepath.Ext(file.Filename)
	name := uuid.NewString() + ext
	dst := filepath.Join(cc.appConfig.App.UploadDir, "team-chat", name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		responses.InternalServerError(c, "Failed to store file")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "File uploaded", gin.H{"file_url": "/static/team-chat/" + name})
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}
