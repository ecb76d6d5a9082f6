package handler

import (
	"github.com/gin-gonic/gin"

	appacademic "github.com/acadtrack/backend/internal/application/academic"
	"github.com/acadtrack/backend/internal/interfaces/http/middleware"
)

// SchoolHandler serves school exam records of the signed in user
type SchoolHandler struct {
	BaseHandler
	service *appacademic.SchoolService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(service *appacademic.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: service}
}

// Create godoc
// @Summary      Record a school exam
// @Description  Computes the percentage and failed subjects. Without exam_number the lowest free number is used.
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        request body CreateExamRequest true "Exam"
// @Success      201 {object} dto.Response{data=appacademic.ExamResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo} "Exam number already recorded"
// @Security     BearerAuth
// @Router       /school [post]
func (h *SchoolHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	exam, err := h.service.Create(c.Request.Context(), userID, appacademic.CreateExamInput{
		ExamNumber: req.ExamNumber,
		Subjects:   req.Subjects,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, exam)
}

// List godoc
// @Summary      List school exams
// @Description  Ordered by exam number.
// @Tags         school
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appacademic.ExamResponse,meta=dto.Meta}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school [get]
func (h *SchoolHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	exams, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, exams, len(exams))
}

// Get godoc
// @Summary      Get a school exam
// @Tags         school
// @Produce      json
// @Param        id path string true "Exam ID" format(uuid)
// @Success      200 {object} dto.Response{data=appacademic.ExamResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/{id} [get]
func (h *SchoolHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	exam, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exam)
}

// Update godoc
// @Summary      Replace the subjects of a school exam
// @Tags         school
// @Accept       json
// @Produce      json
// @Param        id      path string            true "Exam ID" format(uuid)
// @Param        request body UpdateExamRequest true "Subjects"
// @Success      200 {object} dto.Response{data=appacademic.ExamResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/{id} [put]
func (h *SchoolHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	exam, err := h.service.Update(c.Request.Context(), userID, id, req.Subjects)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, exam)
}

// Delete godoc
// @Summary      Delete a school exam
// @Tags         school
// @Produce      json
// @Param        id path string true "Exam ID" format(uuid)
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /school/{id} [delete]
func (h *SchoolHandler) Delete(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messageResponse("Deleted successfully"))
}

// Summary godoc
// @Summary      School summary
// @Description  Exam count, average percentage, failed subject total and the next free exam number.
// @Tags         school
// @Produce      json
// @Success      200 {object} dto.Response{data=appacademic.SchoolSummary}
// @Security     BearerAuth
// @Router       /school/summary [get]
func (h *SchoolHandler) Summary(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
