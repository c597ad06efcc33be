package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentHandlerEnrollInvalidStudentID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(nil, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/students/abc/enrollments", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Enroll(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerEnrollInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(nil, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/students/1/enrollments", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.Enroll(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollmentHandlerCancelInvalidEnrollmentID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(nil, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/students/1/enrollments/zero", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "1"}, {Key: "enrollmentID", Value: "zero"}}

	handler.Cancel(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
