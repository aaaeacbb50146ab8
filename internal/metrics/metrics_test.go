package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/lookmate/lookmate-backend/internal/models"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/items/:id", "204")))
}

func TestRecordReaction(t *testing.T) {
	m := New()
	m.RecordReaction(models.ReactionLike, true)
	m.RecordReaction(models.ReactionLike, true)
	m.RecordReaction(models.ReactionBookmark, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reactions.WithLabelValues("like", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reactions.WithLabelValues("bookmark", "false")))
}

func TestHandlerExposesSeries(t *testing.T) {
	m := New()
	m.RecordUpload("avatar", "ok")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `lookmate_uploads_files_total{endpoint="avatar",outcome="ok"} 1`))
}
