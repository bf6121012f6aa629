package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"career-backend/internal/shared/auth"
)

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.OPTIONS("/api/career/recommendations/:user_id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/career/recommendations/u1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestRequireUserRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(), RequireUser())
	router.GET("/private", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/private", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthRejectsMalformedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/private", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"Token abc", "Bearer ", "Bearer not.a.jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestCanAccessOwnerOrAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Auth(), RequireUser())
	router.GET("/users/:user_id", func(c *gin.Context) {
		if !CanAccess(c, c.Param("user_id")) {
			c.Status(http.StatusForbidden)
			return
		}
		c.Status(http.StatusOK)
	})

	student, err := auth.SignJWT(auth.Claims{Sub: "u1", Role: "student"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	admin, err := auth.SignJWT(auth.Claims{Sub: "root", Role: "admin"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := []struct {
		token string
		path  string
		want  int
	}{
		{student, "/users/u1", http.StatusOK},
		{student, "/users/u2", http.StatusForbidden},
		{admin, "/users/u2", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.want, resp.Code)
		}
	}
}

func TestAuthReportsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth())
	router.GET("/private", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := auth.SignJWT(auth.Claims{Sub: "u1", Iat: 1, Exp: 2})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "token_expired") {
		t.Fatalf("expected token_expired code, got %s", resp.Body.String())
	}
}

func TestRequireAdminChecksRoleClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(), RequireUser(), RequireAdmin())
	router.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for role, want := range map[string]int{"admin": http.StatusOK, "student": http.StatusForbidden, "": http.StatusForbidden} {
		token, err := auth.SignJWT(auth.Claims{Sub: "u1", Role: role})
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("role %q: expected %d, got %d", role, want, resp.Code)
		}
	}
}
