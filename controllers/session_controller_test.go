package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chiyadani/chiyadani-api/config"
	"github.com/chiyadani/chiyadani-api/models"
	"github.com/chiyadani/chiyadani-api/services"
)

func setupSessionTest(t *testing.T, tableCount int) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Settings{}, &models.SessionEntry{}))
	require.NoError(t, db.Create(&models.Settings{RestaurantName: "Chiyadani", TableCount: tableCount}).Error)
	config.SetDB(db)
	services.InitSessionResolver(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/session", ResolveSession)
	router.POST("/api/v1/session/scan", ScanTable)
	router.POST("/api/v1/session/phone", SavePhone)
	router.POST("/api/v1/session/install-prompt", DismissInstallPrompt)
	return router, db
}

func sessionRequest(router *gin.Engine, method, path, deviceID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func TestResolveSessionFreshDeviceGetsID(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	w := sessionRequest(router, http.MethodGet, "/api/v1/session", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "fresh", data["outcome"])
	assert.NotEmpty(t, data["device_id"])
}

func TestResolveSessionResumesRecentScan(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	w := sessionRequest(router, http.MethodPost, "/api/v1/session/scan", "device-1", gin.H{"table": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = sessionRequest(router, http.MethodGet, "/api/v1/session", "device-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "resume", data["outcome"])
	assert.Equal(t, float64(5), data["table"])
}

func TestResolveSessionRescanAfterExpiry(t *testing.T) {
	router, _ := setupSessionTest(t, 20)
	resolver := services.GetSessionResolver()

	stale := time.Now().Add(-5 * time.Hour)
	require.NoError(t, resolver.BindTable("device-2", 3, stale))
	require.NoError(t, resolver.BindPhone("device-2", "9812345678", stale))

	w := sessionRequest(router, http.MethodGet, "/api/v1/session", "device-2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "rescan", data["outcome"])
	assert.Equal(t, "9812345678", data["phone"])
}

func TestScanTableRejectsOutOfRange(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	for _, table := range []int{0, -1, 21, 100} {
		w := sessionRequest(router, http.MethodPost, "/api/v1/session/scan", "device-3", gin.H{"table": table})
		assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("table %d should be rejected", table))
		if table != 0 {
			// table=0 fails binding:"required" before the bounds check
			assert.Contains(t, w.Body.String(), "INVALID_TABLE")
		}
	}
}

func TestScanTableAcceptsBoundaries(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	for _, table := range []int{1, 20} {
		w := sessionRequest(router, http.MethodPost, "/api/v1/session/scan", "device-4", gin.H{"table": table})
		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, float64(table), data["table"])
	}
}

func TestScanTableRequiresDeviceID(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	w := sessionRequest(router, http.MethodPost, "/api/v1/session/scan", "", gin.H{"table": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_DEVICE_ID")
}

func TestSavePhoneValidation(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	cases := []struct {
		phone string
		code  int
	}{
		{"9812345678", http.StatusOK},
		{"981234567", http.StatusBadRequest},
		{"98123456789", http.StatusBadRequest},
		{"98123456ab", http.StatusBadRequest},
		{"981 234567", http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := sessionRequest(router, http.MethodPost, "/api/v1/session/phone", "device-5", gin.H{"phone": tc.phone})
		assert.Equal(t, tc.code, w.Code, fmt.Sprintf("phone %q", tc.phone))
		if tc.code != http.StatusOK {
			assert.Contains(t, w.Body.String(), "INVALID_PHONE")
		}
	}
}

func TestSavedPhoneSurvivesRescan(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	w := sessionRequest(router, http.MethodPost, "/api/v1/session/phone", "device-6", gin.H{"phone": "9800000000"})
	require.Equal(t, http.StatusOK, w.Code)

	w = sessionRequest(router, http.MethodPost, "/api/v1/session/scan", "device-6", gin.H{"table": 2})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "9800000000", data["phone"])
}

func TestInstallPromptRateLimited(t *testing.T) {
	router, _ := setupSessionTest(t, 20)

	w := sessionRequest(router, http.MethodGet, "/api/v1/session", "device-7", nil)
	data := decodeData(t, w)
	assert.Equal(t, true, data["show_install_prompt"])

	w = sessionRequest(router, http.MethodPost, "/api/v1/session/install-prompt", "device-7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = sessionRequest(router, http.MethodGet, "/api/v1/session", "device-7", nil)
	data = decodeData(t, w)
	assert.Equal(t, false, data["show_install_prompt"])
}
