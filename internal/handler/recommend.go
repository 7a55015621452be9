package handler

import (
	"net/http"

	"telecare/internal/middleware"
	"telecare/internal/models"
	"telecare/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Canned guidance per category. These are template strings, not model
// output; the portal has no AI backend.
var recommendationText = map[string]string{
	models.CategoryBloodPressure: "Keep logging your blood pressure at the same time each day. Contact your doctor if readings stay above 140/90.",
	models.CategoryGlucose:       "Track glucose before meals for a clearer trend. Discuss repeated readings above 180 mg/dL with your doctor.",
	models.CategoryWeight:        "Weigh yourself weekly under the same conditions. Gradual change is more meaningful than daily fluctuation.",
	models.CategoryHeartRate:     "A resting heart rate between 60 and 100 bpm is typical. Flag sustained readings outside that range.",
	models.CategoryMedications:   "Review your medication list before every appointment and report side effects early.",
	models.CategoryAppointments:  "You have appointment history on file. Book a follow-up if your last visit recommended one.",
}

const defaultRecommendation = "Start tracking this category to receive guidance based on your entries."

// Recommendations returns a canned message per category, depending only
// on whether the user has entries there.
func Recommendations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Unauthorized(c)
			return
		}

		type row struct {
			Category string
			N        int64
		}
		var rows []row
		if err := db.Model(&models.HealthEntry{}).
			Select("category, COUNT(*) AS n").
			Where("user_id = ?", user.ID).
			Group("category").
			Scan(&rows).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to query health data")
			return
		}

		counts := make(map[string]int64, len(rows))
		for _, r := range rows {
			counts[r.Category] = r.N
		}

		items := make([]gin.H, 0, len(models.Categories))
		for _, cat := range models.Categories {
			msg := defaultRecommendation
			if counts[cat] > 0 {
				msg = recommendationText[cat]
			}
			items = append(items, gin.H{
				"category": cat,
				"entries":  counts[cat],
				"message":  msg,
			})
		}

		util.Success(c, http.StatusOK, util.Response{
			"recommendations": items,
		})
	}
}
