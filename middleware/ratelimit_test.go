package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestSubmitRateLimiterFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Point the client at a port nothing listens on. Counter updates fail,
	// so every request must still go through.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})

	router := gin.New()
	router.POST("/submit_report", SubmitRateLimiter(client, 1, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "success"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit_report", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Errorf("request %d: expected status 201 with Redis down, got %d", i, w.Code)
		}
	}
}
