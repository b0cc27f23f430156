package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/assert"

	"etsy_source/internal/controller"
	"etsy_source/internal/task"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTrigger struct {
	calls int
	err   error
}

func (s *stubTrigger) Trigger() error {
	s.calls++
	return s.err
}

func (s *stubTrigger) Status() task.SyncStatus { return task.SyncStatus{} }

func serve(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestNew_Routes(t *testing.T) {
	trigger := &stubTrigger{}
	r := New(Deps{
		SyncCtl:      controller.NewSyncController(trigger),
		SyncCooldown: time.Hour,
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/health"))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/sync"))

	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/api/sync"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/sync"), "冷却期内拒绝")
	assert.Equal(t, 1, trigger.calls)

	// 未提供 CollectionCtl 时不注册只读接口
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/collections"))
}

func TestNew_NoCooldown(t *testing.T) {
	trigger := &stubTrigger{}
	r := New(Deps{SyncCtl: controller.NewSyncController(trigger)})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/api/sync"))
	}
	assert.Equal(t, 3, trigger.calls)
}

func TestNew_CooldownReleasedOnConflict(t *testing.T) {
	trigger := &stubTrigger{err: task.ErrSyncRunning}
	r := New(Deps{
		SyncCtl:      controller.NewSyncController(trigger),
		SyncCooldown: time.Hour,
	})

	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, "/api/sync"))

	// 上一次同步结束后可立即重试
	trigger.err = nil
	assert.Equal(t, http.StatusAccepted, serve(r, http.MethodPost, "/api/sync"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/api/sync"))
	assert.Equal(t, 2, trigger.calls)
}

func TestNew_Swagger(t *testing.T) {
	r := New(Deps{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger")
}
