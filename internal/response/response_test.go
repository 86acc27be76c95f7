package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/weiwangfds/noteapi/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
	now = func() time.Time { return time.Unix(1700000000, 0) }
}

func perform(t *testing.T, lang string, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if lang != "" {
		c.Request.Header.Set("Accept-Language", lang)
	}
	c.Set("request_id", "req-1")
	h(c)

	var body Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := perform(t, "", func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "req-1", body.RequestID)
	assert.EqualValues(t, 1700000000, body.Timestamp)

	w, _ = perform(t, "", func(c *gin.Context) { Created(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = perform(t, "", func(c *gin.Context) { NoContent(c) })
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NoteNotFound(1), http.StatusNotFound},
		{"conflict", apperrors.New(apperrors.ErrTagConflict, "dup"), http.StatusConflict},
		{"validation", apperrors.Validation("bad"), http.StatusBadRequest},
		{"pagination", apperrors.New(apperrors.ErrInvalidPagination, "bad page"), http.StatusBadRequest},
		{"unauthorized", apperrors.New(apperrors.ErrUnauthorized, "who"), http.StatusUnauthorized},
		{"internal", apperrors.Wrap(apperrors.ErrDatabaseQuery, "query", errors.New("disk I/O error")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := perform(t, "", func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	err := apperrors.Wrap(apperrors.ErrDatabaseQuery, "query", errors.New("no such table: secret_notes"))
	w, body := perform(t, "", func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, int(apperrors.ErrDatabaseQuery), body.Code)
	assert.NotContains(t, w.Body.String(), "secret_notes")
}

func TestErrorLocalizedAndFields(t *testing.T) {
	err := apperrors.Validation("bad").WithFields(map[string]string{"title": "is required"})

	_, body := perform(t, "zh-CN,zh;q=0.9", func(c *gin.Context) { Error(c, err) })
	assert.Equal(t, apperrors.GetErrorMessageWithLang(apperrors.ErrInvalidParams, "zh-CN"), body.Message)
	assert.Equal(t, map[string]string{"title": "is required"}, body.Fields)

	_, body = perform(t, "en-US", func(c *gin.Context) { Error(c, apperrors.NoteNotFound(7)) })
	assert.Equal(t, "Note Not Found", body.Message)
	assert.Empty(t, body.Fields)
}
