package handler

import (
	"github.com/gin-gonic/gin"

	appacademic "github.com/acadtrack/backend/internal/application/academic"
	"github.com/acadtrack/backend/internal/interfaces/http/middleware"
)

// CollegeHandler serves college semester records of the signed in user
type CollegeHandler struct {
	BaseHandler
	service *appacademic.CollegeService
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(service *appacademic.CollegeService) *CollegeHandler {
	return &CollegeHandler{service: service}
}

// Create godoc
// @Summary      Record a college semester
// @Description  Computes the GPA and arrears. Without a semester label the lowest free "Sem N" is used.
// @Tags         college
// @Accept       json
// @Produce      json
// @Param        request body CreateSemesterRequest true "Semester"
// @Success      201 {object} dto.Response{data=appacademic.SemesterResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo} "Semester already recorded"
// @Security     BearerAuth
// @Router       /college [post]
func (h *CollegeHandler) Create(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req CreateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	sem, err := h.service.Create(c.Request.Context(), userID, appacademic.CreateSemesterInput{
		Semester: req.Semester,
		Subjects: req.Subjects,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sem)
}

// List godoc
// @Summary      List college semesters
// @Description  Ordered by semester number.
// @Tags         college
// @Produce      json
// @Success      200 {object} dto.Response{data=[]appacademic.SemesterResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /college [get]
func (h *CollegeHandler) List(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	sems, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, sems, len(sems))
}

// Get godoc
// @Summary      Get a college semester
// @Tags         college
// @Produce      json
// @Param        id path string true "Semester ID" format(uuid)
// @Success      200 {object} dto.Response{data=appacademic.SemesterResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /college/{id} [get]
func (h *CollegeHandler) Get(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sem, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sem)
}

// Update godoc
// @Summary      Replace the subjects of a college semester
// @Tags         college
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Semester ID" format(uuid)
// @Param        request body UpdateSemesterRequest true "Subjects"
// @Success      200 {object} dto.Response{data=appacademic.SemesterResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /college/{id} [put]
func (h *CollegeHandler) Update(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req UpdateSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	sem, err := h.service.Update(c.Request.Context(), userID, id, req.Subjects)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sem)
}

// Delete godoc
// @Summary      Delete a college semester
// @Tags         college
// @Produce      json
// @Param        id path string true "Semester ID" format(uuid)
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /college/{id} [delete]
func (h *CollegeHandler) Delete(c *gin.Context) {
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

// DeleteByLabel godoc
// @Summary      Delete a college semester by label
// @Description  Labels match case-insensitively, so "sem 2" removes "Sem 2".
// @Tags         college
// @Produce      json
// @Param        semester path string true "Semester label"
// @Success      200 {object} dto.Response{data=dto.MessageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /college/label/{semester} [delete]
func (h *CollegeHandler) DeleteByLabel(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.service.DeleteByLabel(c.Request.Context(), userID, c.Param("semester")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messageResponse("Semester deleted successfully"))
}

// Summary godoc
// @Summary      College summary
// @Description  Semester count, CGPA, total arrears and the next free semester label.
// @Tags         college
// @Produce      json
// @Success      200 {object} dto.Response{data=appacademic.CollegeSummary}
// @Security     BearerAuth
// @Router       /college/summary [get]
func (h *CollegeHandler) Summary(c *gin.Context) {
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
