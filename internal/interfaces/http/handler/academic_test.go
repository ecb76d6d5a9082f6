package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appacademic "github.com/acadtrack/backend/internal/application/academic"
	"github.com/acadtrack/backend/internal/interfaces/http/dto"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func schoolSubjects() []gin.H {
	return []gin.H{
		{"name": "Maths", "mark": 45, "outOf": 50},
		{"name": "Science", "mark": "30", "outOf": 100},
	}
}

func TestSchoolHandler_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{"subjects": schoolSubjects()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var exam appacademic.ExamResponse
	decodeData(t, rec, &exam)
	assert.Equal(t, 1, exam.ExamNumber)
	assertDecimal(t, "50", exam.Percentage)
	assert.Equal(t, []string{"Science"}, exam.Failed)

	rec = srv.do(t, http.MethodGet, "/api/v1/school/"+exam.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched appacademic.ExamResponse
	decodeData(t, rec, &fetched)
	assert.Equal(t, exam.ID, fetched.ID)
	assert.Len(t, fetched.Subjects, 2)
}

func TestSchoolHandler_MarkAboveMaximum(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{
		"subjects": []gin.H{{"name": "Bonus", "mark": 150, "outOf": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var exam appacademic.ExamResponse
	decodeData(t, rec, &exam)
	assertDecimal(t, "15000", exam.Percentage)
	assert.Empty(t, exam.Failed)
}

func TestSchoolHandler_NumberingFillsGaps(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	create := func(body gin.H) int {
		rec := srv.do(t, http.MethodPost, "/api/v1/school", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var exam appacademic.ExamResponse
		decodeData(t, rec, &exam)
		return exam.ExamNumber
	}

	assert.Equal(t, 3, create(gin.H{"exam_number": 3, "subjects": schoolSubjects()}))
	assert.Equal(t, 1, create(gin.H{"subjects": schoolSubjects()}))
	assert.Equal(t, 2, create(gin.H{"subjects": schoolSubjects()}))
	assert.Equal(t, 4, create(gin.H{"subjects": schoolSubjects()}))

	rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{"exam_number": 3, "subjects": schoolSubjects()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeExamExists, errorInfo(t, rec).Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/school", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exams []appacademic.ExamResponse
	decodeData(t, rec, &exams)
	require.Len(t, exams, 4)
	for i, e := range exams {
		assert.Equal(t, i+1, e.ExamNumber)
	}
}

func TestSchoolHandler_UpdateDeleteSummary(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{"subjects": schoolSubjects()})
	require.Equal(t, http.StatusCreated, rec.Code)
	var exam appacademic.ExamResponse
	decodeData(t, rec, &exam)

	rec = srv.do(t, http.MethodPut, "/api/v1/school/"+exam.ID.String(), token, gin.H{
		"subjects": []gin.H{{"name": "Maths", "mark": 90, "outOf": 100}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated appacademic.ExamResponse
	decodeData(t, rec, &updated)
	assertDecimal(t, "90", updated.Percentage)
	assert.Empty(t, updated.Failed)
	assert.Equal(t, exam.ExamNumber, updated.ExamNumber)

	rec = srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{
		"subjects": []gin.H{{"name": "Art", "mark": 10, "outOf": 100}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/school/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary appacademic.SchoolSummary
	decodeData(t, rec, &summary)
	assert.Equal(t, 2, summary.ExamCount)
	assertDecimal(t, "50", summary.AveragePercentage)
	assert.Equal(t, 1, summary.TotalFailed)
	assert.Equal(t, 3, summary.NextExamNumber)

	rec = srv.do(t, http.MethodDelete, "/api/v1/school/"+exam.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg dto.MessageResponse
	decodeData(t, rec, &msg)
	assert.Equal(t, "Deleted successfully", msg.Message)

	rec = srv.do(t, http.MethodGet, "/api/v1/school/"+exam.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchoolHandler_Rejections(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	t.Run("negative mark", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{
			"subjects": []gin.H{{"name": "Maths", "mark": -1, "outOf": 100}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidField, errorInfo(t, rec).Code)
	})
	t.Run("blank subject name", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{
			"subjects": []gin.H{{"name": "  ", "mark": 1, "outOf": 100}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("missing subjects", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorInfo(t, rec).Code)
	})
	t.Run("exam number zero", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/school", token, gin.H{"exam_number": 0, "subjects": schoolSubjects()})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
	t.Run("exam number beyond int32", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/api/v1/school", token, `{"exam_number":2147483648,"subjects":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		info := errorInfo(t, rec)
		assert.Equal(t, dto.ErrCodeValidation, info.Code)
		require.Len(t, info.Details, 1)
		assert.Equal(t, "exam_number", info.Details[0].Field)
	})
	t.Run("bad id", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/school/not-a-uuid", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, errorInfo(t, rec).Code)
	})
	t.Run("unknown id", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, "/api/v1/school/"+uuid.NewString(), token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
	t.Run("no token", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/api/v1/school", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSchoolHandler_OwnerIsolation(t *testing.T) {
	srv := newTestServer(t)
	ada := srv.signup(t, "Ada", "ada@example.com")
	grace := srv.signup(t, "Grace", "grace@example.com")

	rec := srv.do(t, http.MethodPost, "/api/v1/school", ada, gin.H{"subjects": schoolSubjects()})
	require.Equal(t, http.StatusCreated, rec.Code)
	var exam appacademic.ExamResponse
	decodeData(t, rec, &exam)

	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/v1/school/"+exam.ID.String(), grace, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/api/v1/school/"+exam.ID.String(), grace, nil).Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/school", grace, nil)
	var exams []appacademic.ExamResponse
	decodeData(t, rec, &exams)
	assert.Empty(t, exams)

	// Exam numbers are per user.
	rec = srv.do(t, http.MethodPost, "/api/v1/school", grace, gin.H{"subjects": schoolSubjects()})
	require.Equal(t, http.StatusCreated, rec.Code)
	var graceExam appacademic.ExamResponse
	decodeData(t, rec, &graceExam)
	assert.Equal(t, 1, graceExam.ExamNumber)
}

func collegeSubjects() []gin.H {
	return []gin.H{
		{"name": "Algorithms", "mark": 95, "credit": 4},
		{"name": "Physics", "mark": "72", "credit": 3},
		{"name": "Chemistry", "mark": 40, "credit": 3},
	}
}

func createSemester(t *testing.T, srv *testServer, token string, body gin.H) appacademic.SemesterResponse {
	t.Helper()
	rec := srv.do(t, http.MethodPost, "/api/v1/college", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sem appacademic.SemesterResponse
	decodeData(t, rec, &sem)
	return sem
}

func TestCollegeHandler_Create(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	sem := createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()})

	assert.Equal(t, "Sem 1", sem.Semester)
	assertDecimal(t, "9.14", sem.GPA)
	assert.Equal(t, 1, sem.Arrears)
}

func TestCollegeHandler_LabelsFillGaps(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	assert.Equal(t, "Sem 1", createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()}).Semester)
	assert.Equal(t, "Sem 3", createSemester(t, srv, token, gin.H{"semester": "semester 3", "subjects": collegeSubjects()}).Semester)
	assert.Equal(t, "Sem 2", createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()}).Semester)
	assert.Equal(t, "Sem 4", createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()}).Semester)

	rec := srv.do(t, http.MethodPost, "/api/v1/college", token, gin.H{"semester": "sem 2", "subjects": collegeSubjects()})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dto.ErrCodeSemesterExists, errorInfo(t, rec).Code)

	rec = srv.do(t, http.MethodDelete, "/api/v1/college/label/sem%202", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var msg dto.MessageResponse
	decodeData(t, rec, &msg)
	assert.Equal(t, "Semester deleted successfully", msg.Message)

	assert.Equal(t, "Sem 2", createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()}).Semester)

	rec = srv.do(t, http.MethodDelete, "/api/v1/college/label/Sem%209", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollegeHandler_UpdateAndSummary(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	first := createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()})
	createSemester(t, srv, token, gin.H{"subjects": []gin.H{{"name": "Maths", "mark": 85, "credit": 4}}})

	rec := srv.do(t, http.MethodPut, "/api/v1/college/"+first.ID.String(), token, gin.H{
		"subjects": []gin.H{{"name": "Algorithms", "mark": 92, "credit": 4}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated appacademic.SemesterResponse
	decodeData(t, rec, &updated)
	assertDecimal(t, "10", updated.GPA)
	assert.Equal(t, 0, updated.Arrears)
	assert.Equal(t, "Sem 1", updated.Semester)

	rec = srv.do(t, http.MethodGet, "/api/v1/college/summary", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary appacademic.CollegeSummary
	decodeData(t, rec, &summary)
	assert.Equal(t, 2, summary.SemesterCount)
	assertDecimal(t, "9.5", summary.CGPA)
	assert.Equal(t, 0, summary.TotalArrears)
	assert.Equal(t, "Sem 3", summary.NextSemester)

	rec = srv.do(t, http.MethodGet, "/api/v1/college", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.Response
	var sems []appacademic.SemesterResponse
	decodeData(t, rec, &sems)
	assert.Len(t, sems, 2)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.NotNil(t, list.Meta)
	assert.Equal(t, 2, list.Meta.Total)

	rec = srv.do(t, http.MethodDelete, "/api/v1/college/"+first.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/v1/college/"+first.ID.String(), token, nil).Code)
}

func TestCollegeHandler_Rejections(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "Ada", "ada@example.com")

	tests := []struct {
		name     string
		subjects []gin.H
	}{
		{"mark above 100", []gin.H{{"name": "X", "mark": 120, "credit": 3}}},
		{"negative credit", []gin.H{{"name": "X", "mark": 80, "credit": -1}}},
		{"negative mark", []gin.H{{"name": "X", "mark": -5, "credit": 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/v1/college", token, gin.H{"subjects": tt.subjects})
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, dto.ErrCodeInvalidField, errorInfo(t, rec).Code)
		})
	}

	other := srv.signup(t, "Grace", "grace@example.com")
	sem := createSemester(t, srv, token, gin.H{"subjects": collegeSubjects()})
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/v1/college/"+sem.ID.String(), other, nil).Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodDelete, "/api/v1/college/label/Sem%201", other, nil).Code)
}
