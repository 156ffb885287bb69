package field

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamup-app/teamup/config"
	"github.com/teamup-app/teamup/internal/models"
	"github.com/teamup-app/teamup/pkg/responses"
)

// FieldController handles field (venue) HTTP requests.
type FieldController struct {
	repo      FieldRepository
	appConfig *config.Config
}

func NewFieldController(repo FieldRepository, appConfig *config.Config) *FieldController {
	return &FieldController{repo: repo, appConfig: appConfig}
}

type SlotRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type CreateFieldRequest struct {
	Name     string        `json:"name" binding:"required,min=2,max=100"`
	Type     string        `json:"type" binding:"required"`
	Location string        `json:"location" binding:"required"`
	Slots    []SlotRequest `json:"slots"`
	Images   []string      `json:"images"`
	OwnerID  uint          `json:"owner_id" binding:"required"`
}

type UpdateFieldRequest struct {
	Name     *string       `json:"name" binding:"omitempty,min=2,max=100"`
	Type     *string       `json:"type"`
	Location *string       `json:"location"`
	Slots    []SlotRequest `json:"slots"`
	Images   []string      `json:"images"`
}

// GetAllFields godoc
// @Summary List fields
// @Tags Fields
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Field}
// @Router /fields [get]
func (fc *FieldController) GetAllFields(c *gin.Context) {
	fields, err := fc.repo.GetAllFields()
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch fields")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", fields)
}

// GetFieldByID godoc
// @Summary Get a field
// @Tags Fields
// @Produce json
// @Param field_id path int true "Field ID"
// @Success 200 {object} responses.SuccessResponse{data=Field}
// @Failure 404 {object} responses.ErrorResponse
// @Router /fields/{field_id} [get]
func (fc *FieldController) GetFieldByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("field_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid field ID format")
		return
	}
	f, err := fc.repo.GetFieldByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch field")
		return
	}
	if f == nil {
		responses.NotFound(c, "Field")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", f)
}

// CreateField godoc
// @Summary Create a field
// @Description Creates a bookable field. Without explicit slot templates the seven standard two-hour windows are seeded.
// @Tags Fields
// @Accept json
// @Produce json
// @Param field body CreateFieldRequest true "Field data"
// @Success 201 {object} responses.SuccessResponse{data=Field}
// @Failure 400 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /fields [post]
func (fc *FieldController) CreateField(c *gin.Context) {
	var req CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if !ValidType(req.Type) {
		responses.BadRequest(c, "Field type must be 5x5 or 11x11")
		return
	}

	exists, err := fc.repo.UserExists(req.OwnerID)
	if err != nil {
		responses.InternalServerError(c, "Failed to verify owner")
		return
	}
	if !exists {
		responses.NotFound(c, "Owner user")
		return
	}

	f := Field{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		Images:   models.StringSlice(req.Images),
		OwnerID:  req.OwnerID,
	}
	if len(req.Slots) > 0 {
		for _, s := range req.Slots {
			f.Slots = append(f.Slots, FieldSlot{Start: s.Start, End: s.End})
		}
	} else {
		f.Slots = DefaultSlots()
	}

	if err := fc.repo.CreateField(&f); err != nil {
		responses.InternalServerError(c, "Failed to create field")
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Field created", f)
}

// UpdateField godoc
// @Summary Update a field
// @Tags Fields
// @Accept json
// @Produce json
// @Param field_id path int true "Field ID"
// @Param field body UpdateFieldRequest true "Field fields"
// @Success 200 {object} responses.SuccessResponse{data=Field}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /fields/{field_id} [put]
func (fc *FieldController) UpdateField(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("field_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid field ID format")
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if req.Type != nil && !ValidType(*req.Type) {
		responses.BadRequest(c, "Field type must be 5x5 or 11x11")
		return
	}

	f, err := fc.repo.GetFieldByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch field")
		return
	}
	if f == nil {
		responses.NotFound(c, "Field")
		return
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Type != nil {
		f.Type = *req.Type
	}
	if req.Location != nil {
		f.Location = *req.Location
	}
	if req.Images != nil {
		f.Images = models.StringSlice(req.Images)
	}

	if err := fc.repo.UpdateField(f); err != nil {
		responses.InternalServerError(c, "Failed to update field")
		return
	}

	if req.Slots != nil {
		slots := make([]FieldSlot, 0, len(req.Slots))
		for _, s := range req.Slots {
			slots = append(slots, FieldSlot{Start: s.Start, End: s.End})
		}
		if err := fc.repo.ReplaceSlots(f.ID, slots); err != nil {
			responses.InternalServerError(c, "Failed to update slot templates")
			return
		}
		f.Slots = slots
	}

	responses.SendSuccess(c, http.StatusOK, "Field updated", f)
}

// DeleteField godoc
// @Summary Delete a field
// @Tags Fields
// @Produce json
// @Param field_id path int true "Field ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /fields/{field_id} [delete]
func (fc *FieldController) DeleteField(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("field_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid field ID format")
		return
	}
	f, err := fc.repo.GetFieldByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to fetch field")
		return
	}
	if f == nil {
		responses.NotFound(c, "Field")
		return
	}
	if err := fc.repo.DeleteField(f.ID); err != nil {
		responses.InternalServerError(c, "Failed to delete field")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Field deleted", nil)
}
