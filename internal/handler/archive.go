package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchiveHandler creates and restores encrypted snapshots of a user's
// health record.
type ArchiveHandler struct {
	DB         *gorm.DB
	EncryptKey string
	Dir        string
}

func NewArchiveHandler(db *gorm.DB, encryptKey, dir string) *ArchiveHandler {
	return &ArchiveHandler{
		DB:         db,
		EncryptKey: encryptKey,
		Dir:        dir,
	}
}

// archiveData is the snapshot file layout. Entries keep their stored
// (possibly encrypted) columns; the whole blob is AES-wrapped on disk.
type archiveData struct {
	UserID  uint                 `json:"user_id"`
	Created time.Time            `json:"created"`
	Entries []models.HealthEntry `json:"entries"`
}

func archiveBody(a *models.Archive) gin.H {
	return gin.H{
		"id":         a.ID,
		"file_name":  a.FileName,
		"size":       a.Size,
		"created_at": a.CreatedAt,
	}
}

// Create snapshots the current user's entries into an encrypted file.
func (h *ArchiveHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	var entries []models.HealthEntry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("recorded_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query health data")
		return
	}

	data := archiveData{
		UserID:  user.ID,
		Created: time.Now(),
		Entries: entries,
	}
	raw, err := json.Marshal(&data)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to serialize snapshot")
		return
	}

	enc, err := util.EncryptAES(h.EncryptKey, raw)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to encrypt snapshot")
		return
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create archive dir")
		return
	}

	fileName := fmt.Sprintf("archive-%d-%s.bin", user.ID, uuid.New().String())
	filePath := filepath.Join(h.Dir, fileName)

	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to write archive file")
		return
	}

	info, _ := os.Stat(filePath)

	archive := models.Archive{
		UserID:   user.ID,
		FileName: fileName,
		FilePath: filePath,
		Size:     info.Size(),
	}
	if err := h.DB.Create(&archive).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, "failed to save archive record")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"archive": archiveBody(&archive),
	})
}

// List returns the current user's archives, newest first.
func (h *ArchiveHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	var list []models.Archive
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query archives")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, archiveBody(&list[i]))
	}

	util.Success(c, http.StatusOK, util.Response{
		"items": items,
	})
}

// findOwned loads an archive row belonging to the current user.
func (h *ArchiveHandler) findOwned(c *gin.Context, userID uint) (*models.Archive, bool) {
	var archive models.Archive
	err := h.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&archive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "archive not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to query archive")
		}
		return nil, false
	}
	return &archive, true
}

// Download streams the encrypted snapshot file.
func (h *ArchiveHandler) Download(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	archive, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", archive.FileName))
	c.File(archive.FilePath)
}

// Delete removes the archive record and its file.
func (h *ArchiveHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	archive, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	_ = os.Remove(archive.FilePath)
	if err := h.DB.Delete(archive).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete archive")
		return
	}

	util.Success(c, http.StatusOK, util.Response{})
}

// Restore replaces the user's health entries with the snapshot contents,
// transactionally: either the whole snapshot lands or nothing changes.
func (h *ArchiveHandler) Restore(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return
	}

	archive, ok := h.findOwned(c, user.ID)
	if !ok {
		return
	}

	encData, err := os.ReadFile(archive.FilePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to read archive file")
		return
	}

	raw, err := util.DecryptAES(h.EncryptKey, encData)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to decrypt archive")
		return
	}

	var data archiveData
	if err := json.Unmarshal(raw, &data); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to parse snapshot")
		return
	}

	if data.UserID != 0 && data.UserID != user.ID {
		util.Error(c, http.StatusBadRequest, "archive belongs to another user")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.HealthEntry{}).Error; err != nil {
			return err
		}
		for i := range data.Entries {
			e := data.Entries[i]
			e.ID = 0
			e.UserID = user.ID
			if err := tx.Create(&e).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to restore snapshot")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"entries_count": len(data.Entries),
	})
}
