package middleware

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-tracker/internal/common/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(), Logger(), CallerIdentity())
	r.GET("/", handler)
	return r
}

func do(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSendError_StatusMapping(t *testing.T) {
	cases := map[error]int{
		errors.NewValidationError("f", "bad"):                          http.StatusBadRequest,
		errors.NewAuthorizationError("u"):                              http.StatusForbidden,
		errors.NewTransportError("c", stderrors.New("down")):           http.StatusBadGateway,
		errors.NewPersistenceError("data", stderrors.New("disk full")): http.StatusInternalServerError,
		stderrors.New("plain"):                                         http.StatusInternalServerError,
	}
	for err, status := range cases {
		r := newRouter(func(c *gin.Context) { SendError(c, err) })
		w := do(r, nil)
		assert.Equal(t, status, w.Code, err.Error())

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.NotEmpty(t, body.Error.Code)
	}
}

func TestErrorHandler_RecoversPanic(t *testing.T) {
	r := newRouter(func(c *gin.Context) { panic("boom") })
	w := do(r, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrCodeInternal, body.Error.Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, map[string]string{"X-Request-ID": "abc"})
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = do(r, nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCallerIdentity(t *testing.T) {
	var got string
	r := newRouter(func(c *gin.Context) {
		got = UserID(c)
		c.Status(http.StatusNoContent)
	})

	do(r, map[string]string{UserIDHeader: " 42 "})
	assert.Equal(t, "42", got)
}
