package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HealthHandler serves the category-keyed health record endpoints.
type HealthHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewHealthHandler(db *gorm.DB, encryptKey string) *HealthHandler {
	return &HealthHandler{
		DB:         db,
		EncryptKey: encryptKey,
	}
}

// sealPayload encrypts raw JSON when a key is configured.
func (h *HealthHandler) sealPayload(raw []byte) (datatypes.JSON, string, error) {
	if h.EncryptKey == "" {
		return datatypes.JSON(raw), "", nil
	}
	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		return nil, "", err
	}
	return nil, base64.StdEncoding.EncodeToString(enc), nil
}

// openPayload returns the plaintext JSON for an entry, preferring the
// ciphertext column. Undecryptable rows come back as null rather than
// failing the whole listing.
func (h *HealthHandler) openPayload(e *models.HealthEntry) json.RawMessage {
	if e.PayloadEnc != "" && h.EncryptKey != "" {
		b, err := base64.StdEncoding.DecodeString(e.PayloadEnc)
		if err != nil {
			return nil
		}
		plain, err := util.DecryptAES(h.EncryptKey, b)
		if err != nil {
			return nil
		}
		return json.RawMessage(plain)
	}
	if len(e.Payload) > 0 {
		return json.RawMessage(e.Payload)
	}
	return nil
}

type healthEntryResp struct {
	ID         uint            `json:"id"`
	Category   string          `json:"category"`
	Payload    json.RawMessage `json:"payload"`
	RecordedAt time.Time       `json:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (h *HealthHandler) toResp(e *models.HealthEntry) healthEntryResp {
	return healthEntryResp{
		ID:         e.ID,
		Category:   e.Category,
		Payload:    h.openPayload(e),
		RecordedAt: e.RecordedAt,
		CreatedAt:  e.CreatedAt,
	}
}

// ListAll returns every category for the current user, newest first.
// Known categories without entries come back as empty lists so the
// client never has to special-case missing keys.
func (h *HealthHandler) ListAll(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	var entries []models.HealthEntry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("recorded_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query health data")
		return
	}

	grouped := make(map[string][]healthEntryResp, len(models.Categories))
	for _, cat := range models.Categories {
		grouped[cat] = []healthEntryResp{}
	}
	for i := range entries {
		e := &entries[i]
		grouped[e.Category] = append(grouped[e.Category], h.toResp(e))
	}

	util.Success(c, http.StatusOK, util.Response{
		"data": grouped,
	})
}

// ListCategory returns one category's entries, newest first, paginated.
func (h *HealthHandler) ListCategory(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	category := c.Param("category")
	if err := util.ValidateCategory(category); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	page, size := pagination(c)

	var entries []models.HealthEntry
	if err := h.DB.Where("user_id = ? AND category = ?", user.ID, category).
		Order("recorded_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query health data")
		return
	}

	items := make([]healthEntryResp, 0, len(entries))
	for i := range entries {
		items = append(items, h.toResp(&entries[i]))
	}

	util.Success(c, http.StatusOK, util.Response{
		"category": category,
		"items":    items,
		"page":     page,
	})
}

type createEntryReq struct {
	Payload    json.RawMessage `json:"payload" binding:"required"`
	RecordedAt string          `json:"recorded_at"`
}

// Create appends a new entry at the head of the category sequence.
func (h *HealthHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	category := c.Param("category")
	if err := util.ValidateCategory(category); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var req createEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if !json.Valid(req.Payload) {
		util.Error(c, http.StatusBadRequest, "payload must be valid JSON")
		return
	}

	recordedAt := time.Now()
	if req.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "recorded_at must be RFC 3339")
			return
		}
		recordedAt = t
	}

	payload, payloadEnc, err := h.sealPayload(req.Payload)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to encrypt payload")
		return
	}

	entry := models.HealthEntry{
		UserID:     user.ID,
		Category:   category,
		Payload:    payload,
		PayloadEnc: payloadEnc,
		RecordedAt: recordedAt,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save entry")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"entry": h.toResp(&entry),
	})
}

// Delete removes one of the current user's entries.
func (h *HealthHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	category := c.Param("category")
	if err := util.ValidateCategory(category); err != nil {
		util.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	res := h.DB.Where("id = ? AND user_id = ? AND category = ?",
		c.Param("id"), user.ID, category).
		Delete(&models.HealthEntry{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "entry not found")
		return
	}

	util.Success(c, http.StatusOK, util.Response{})
}
