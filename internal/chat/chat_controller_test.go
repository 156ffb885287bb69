package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/middleware"
)

func TestDirectRoomID_Canonical(t *testing.T) {
	assert.Equal(t, "3_7", DirectRoomID(3, 7))
	assert.Equal(t, "3_7", DirectRoomID(7, 3))
	assert.Equal(t, "5_5", DirectRoomID(5, 5))
	assert.Equal(t, DirectRoomID(120, 4), DirectRoomID(4, 120))
}

func TestValidFileType(t *testing.T) {
	assert.True(t, ValidFileType(FileTypeImage))
	assert.True(t, ValidFileType(FileTypeVideo))
	assert.True(t, ValidFileType(FileTypeOther))
	assert.False(t, ValidFileType("gif"))
	assert.False(t, ValidFileType(""))
}

type fakeChatRepo struct {
	messages     map[uint]*ChatMessage
	teamMessages []TeamChatMessage
	nextID       uint
	teams        map[uint]bool
	names        map[uint]string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		messages: make(map[uint]*ChatMessage),
		nextID:   1,
		teams:    map[uint]bool{1: true},
		names:    map[uint]string{1: "Aram Petrosyan", 2: "Nina Sargsyan"},
	}
}

func (f *fakeChatRepo) GetRoomMessages(roomID string) ([]ChatMessage, error) {
	var out []ChatMessage
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) GetMessageByID(id uint) (*ChatMessage, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (f *fakeChatRepo) CreateMessage(m *ChatMessage) error {
	m.ID = f.nextID
	f.nextID++
	copied := *m
	f.messages[m.ID] = &copied
	return nil
}

func (f *fakeChatRepo) UpdateMessage(m *ChatMessage) error {
	copied := *m
	f.messages[m.ID] = &copied
	return nil
}

func (f *fakeChatRepo) DeleteMessage(id uint) error {
	delete(f.messages, id)
	return nil
}

func (f *fakeChatRepo) GetTeamMessages(teamID uint) ([]TeamChatMessage, error) {
	var out []TeamChatMessage
	for _, m := range f.teamMessages {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateTeamMessage(m *TeamChatMessage) error {
	f.teamMessages = append(f.teamMessages, *m)
	return nil
}

func (f *fakeChatRepo) UserDisplayName(userID uint) (string, error) {
	return f.names[userID], nil
}

func (f *fakeChatRepo) TeamExists(id uint) (bool, error) {
	return f.teams[id], nil
}

func setupChatRouter(repo ChatRepository, callerID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cc := NewChatController(repo, &config.Config{})
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.AuthUserIDKey, callerID)
		c.Next()
	})
	r.GET("/chat/:room_id", cc.GetRoomMessages)
	r.POST("/chat", cc.SendMessage)
	r.PUT("/chat/:message_id", cc.EditMessage)
	r.DELETE("/chat/:message_id", cc.DeleteMessage)
	r.GET("/team-chat/:team_id/messages", cc.GetTeamMessages)
	r.POST("/team-chat/:team_id/message", cc.SendTeamMessage)
	return r
}

func chatJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendMessage_NeedsTextOrFile(t *testing.T) {
	repo := newFakeChatRepo()
	r := setupChatRouter(repo, 1)

	w := chatJSON(r, http.MethodPost, "/chat", CreateMessageRequest{RoomID: "1_2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = chatJSON(r, http.MethodPost, "/chat", CreateMessageRequest{RoomID: "1_2", Text: "hi"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = chatJSON(r, http.MethodPost, "/chat", CreateMessageRequest{
		RoomID: "1_2", FileURL: "/static/team-chat/x.png", FileType: FileTypeImage,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSendMessage_FileTypeEnum(t *testing.T) {
	repo := newFakeChatRepo()
	r := setupChatRouter(repo, 1)

	w := chatJSON(r, http.MethodPost, "/chat", CreateMessageRequest{
		RoomID: "1_2", FileURL: "/static/team-chat/x.bin", FileType: "binary",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessage_AuthorFromPrincipal(t *testing.T) {
	repo := newFakeChatRepo()
	r := setupChatRouter(repo, 2)

	w := chatJSON(r, http.MethodPost, "/chat", CreateMessageRequest{RoomID: "1_2", Text: "hey"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.messages, 1)
	for _, m := range repo.messages {
		assert.Equal(t, uint(2), m.AuthorID)
		assert.False(t, m.Edited)
	}
}

func TestEditMessage_SetsEditedAndChecksAuthor(t *testing.T) {
	repo := newFakeChatRepo()
	repo.messages[1] = &ChatMessage{RoomID: "1_2", AuthorID: 1, Text: "original"}
	repo.messages[1].ID = 1

	// Someone else cannot edit.
	asOther := setupChatRouter(repo, 2)
	w := chatJSON(asOther, http.MethodPut, "/chat/1", EditMessageRequest{Text: "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "original", repo.messages[1].Text)

	// The author can; the message is flagged edited.
	asAuthor := setupChatRouter(repo, 1)
	w = chatJSON(asAuthor, http.MethodPut, "/chat/1", EditMessageRequest{Text: "fixed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fixed", repo.messages[1].Text)
	assert.True(t, repo.messages[1].Edited)
}

func TestDeleteMessage_AuthorOnly(t *testing.T) {
	repo := newFakeChatRepo()
	repo.messages[1] = &ChatMessage{RoomID: "1_2", AuthorID: 1, Text: "bye"}
	repo.messages[1].ID = 1

	asOther := setupChatRouter(repo, 2)
	w := chatJSON(asOther, http.MethodDelete, "/chat/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	asAuthor := setupChatRouter(repo, 1)
	w = chatJSON(asAuthor, http.MethodDelete, "/chat/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.messages)

	w = chatJSON(asAuthor, http.MethodDelete, "/chat/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendTeamMessage_ResolvesAuthorName(t *testing.T) {
	repo := newFakeChatRepo()
	r := setupChatRouter(repo, 2)

	w := chatJSON(r, http.MethodPost, "/team-chat/1/message", SendTeamMessageRequest{Text: "training at 7"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.teamMessages, 1)
	assert.Equal(t, "Nina Sargsyan", repo.teamMessages[0].Author)
	assert.Equal(t, uint(2), repo.teamMessages[0].UserID)
	assert.Equal(t, uint(1), repo.teamMessages[0].TeamID)
}

func TestSendTeamMessage_UnknownTeam(t *testing.T) {
	repo := newFakeChatRepo()
	r := setupChatRouter(repo, 1)

	w := chatJSON(r, http.MethodPost, "/team-chat/9/message", SendTeamMessageRequest{Text: "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
