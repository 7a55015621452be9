package handler

import (
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler writes the current user's health record as CSV or XLSX.
type ExportHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewExportHandler(db *gorm.DB, encryptKey string) *ExportHandler {
	return &ExportHandler{
		DB:         db,
		EncryptKey: encryptKey,
	}
}

func (h *ExportHandler) decryptPayload(e *models.HealthEntry) string {
	if e.PayloadEnc != "" && h.EncryptKey != "" {
		b, err := base64.StdEncoding.DecodeString(e.PayloadEnc)
		if err != nil {
			return ""
		}
		plain, err := util.DecryptAES(h.EncryptKey, b)
		if err != nil {
			return ""
		}
		return string(plain)
	}
	return string(e.Payload)
}

func (h *ExportHandler) fetchEntries(c *gin.Context) ([]models.HealthEntry, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Unauthorized(c)
		return nil, false
	}

	var entries []models.HealthEntry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("recorded_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to query health data")
		return nil, false
	}
	return entries, true
}

var exportHeader = []string{"Category", "Payload", "Recorded at", "Created at"}

// ExportCSV streams the record as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	entries, ok := h.fetchEntries(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"health-record_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeader)
	for i := range entries {
		e := &entries[i]
		writer.Write([]string{
			e.Category,
			h.decryptPayload(e),
			e.RecordedAt.Format(time.RFC3339),
			e.CreatedAt.Format(time.RFC3339),
		})
	}
}

// ExportXLSX writes the record as a spreadsheet.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	entries, ok := h.fetchEntries(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Health record"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, head := range exportHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx := range entries {
		e := &entries[idx]
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), h.decryptPayload(e))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.RecordedAt.Format(time.RFC3339))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.CreatedAt.Format(time.RFC3339))
	}

	f.SetColWidth(sheetName, "A", "A", 16)
	f.SetColWidth(sheetName, "B", "B", 50)
	f.SetColWidth(sheetName, "C", "D", 22)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"health-record_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to write spreadsheet")
	}
}
