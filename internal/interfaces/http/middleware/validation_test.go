package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadtrack/backend/internal/interfaces/http/dto"
)

type signupPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username" binding:"omitempty,username"`
}

func bindRouter(limit int64) *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(BodyLimit(limit))
	router.POST("/signup", func(c *gin.Context) {
		var req signupPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router http.Handler, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var resp dto.Response
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestHandleBindError_ValidationDetails(t *testing.T) {
	rec, resp := postJSON(bindRouter(1<<20), `{"email":"nope","password":"short","username":"Has Space"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "Must be at least 8 characters", fields["password"])
	assert.Contains(t, fields, "username")
}

func TestHandleBindError_Valid(t *testing.T) {
	rec, _ := postJSON(bindRouter(1<<20), `{"name":"Ada","email":"ada@example.com","password":"correct horse","username":"ada.l"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleBindError_MalformedJSON(t *testing.T) {
	rec, resp := postJSON(bindRouter(1<<20), `{"name":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
}

func TestHandleBindError_BodyTooLarge(t *testing.T) {
	router := bindRouter(32)
	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"name":"`+strings.Repeat("a", 64)+`"}`))
	req.ContentLength = -1
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
