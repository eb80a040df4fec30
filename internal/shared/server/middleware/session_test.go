package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func sessionRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(false))
	r.GET("/", func(c *gin.Context) {
		*seen = SessionIDFromContext(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestSessionIssuesCookie(t *testing.T) {
	var seen string
	r := sessionRouter(&seen)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid session id, got %q", seen)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName || cookies[0].Value != seen {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	var seen string
	r := sessionRouter(&seen)
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if seen != id {
		t.Fatalf("expected %s, got %s", id, seen)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be reissued")
	}
}

func TestSessionReplacesMalformedCookie(t *testing.T) {
	var seen string
	r := sessionRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if seen == "../../etc" {
		t.Fatalf("malformed cookie must not be trusted")
	}
	if len(resp.Result().Cookies()) != 1 {
		t.Fatalf("expected a replacement cookie")
	}
}
