package handlers

import (
	"net/http"
	"strings"

	"careline/database/repository/hospital"
	"careline/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HRPoliciesHandler returns the HR knowledge base, optionally filtered by
// ?category= (leave, benefits, timesheet, policies).
func HRPoliciesHandler(repo hospital.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		policies, err := repo.HRPolicies(c.Request.Context())
		if err != nil {
			logger.Error("hr policies query failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to load HR policies", "")
			return
		}

		if cat := strings.ToLower(c.Query("category")); cat != "" {
			filtered := policies[:0:0]
			for _, p := range policies {
				if strings.EqualFold(p.Category, cat) {
					filtered = append(filtered, p)
				}
			}
			policies = filtered
		}

		c.JSON(http.StatusOK, gin.H{"policies": policies, "count": len(policies)})
	}
}

// CompanyInfoHandler returns the hospital's contact details.
func CompanyInfoHandler(repo hospital.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()

		info, err := repo.CompanyInfo(c.Request.Context())
		if err != nil {
			logger.Error("company info query failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to load company info", "")
			return
		}
		c.JSON(http.StatusOK, info)
	}
}
