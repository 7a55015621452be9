package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"telecare/internal/database"
	"telecare/internal/license"
	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret   = "handler-test-secret"
	testPassword = "Passw0rd1"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// newTestAPI wires the API routes the way the router does, minus pages.
func newTestAPI(t *testing.T, db *gorm.DB, encKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")

	authH := NewAuthHandler(db, testSecret, license.NewRegistry(db), false)
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/logout", authH.Logout)
	api.GET("/auth/session", authH.Session)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(testSecret, db))

	protected.GET("/me", GetMe)
	protected.GET("/doctors", ListDoctors(db))
	protected.PUT("/profile", UpdateProfile(db))
	protected.POST("/profile/password", ChangePassword(db))

	healthH := NewHealthHandler(db, encKey)
	protected.GET("/health-data", healthH.ListAll)
	protected.GET("/health-data/:category", healthH.ListCategory)
	protected.POST("/health-data/:category", healthH.Create)
	protected.DELETE("/health-data/:category/:id", healthH.Delete)

	apptH := NewAppointmentHandler(db)
	protected.POST("/appointments", apptH.Create)
	protected.GET("/appointments", apptH.List)
	protected.POST("/appointments/:ref/cancel", apptH.Cancel)
	protected.POST("/appointments/:ref/complete", apptH.Complete)

	protected.GET("/recommendations", Recommendations(db))

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/users", ListUsers(db))
	admin.DELETE("/users/:email", DeleteUserByEmail(db))

	return r
}

// seedUser inserts a user directly; doctor and admin accounts cannot be
// created through the public API.
func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Email:        email,
		Name:         "Seeded " + role,
		Role:         role,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	raw, err := token.Generate(testSecret, token.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, token.DefaultTTL)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.CookieName, Value: raw}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// authCookie extracts the session cookie set by a response.
func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	for _, c := range res.Cookies() {
		if c.Name == middleware.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
