package main

import (
	"errors"
	"fmt"
	"net/http"

	"bitbucket.org/mmdatafocus/calc_backend/config"
	"bitbucket.org/mmdatafocus/calc_backend/models/reports"
	"bitbucket.org/mmdatafocus/calc_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func reportSummaryHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, ok := utils.GetUserIdFromContext(ctx)
		if !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		summary, err := reports.BuildReportSummary(ctx, config.GetDB(), userId)
		if err != nil {
			if errors.Is(err, utils.ErrorStoreUnavailable) {
				config.LogError(logger, "reports", "reportSummaryHandler", "build summary", userId, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "report temporarily unavailable"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func reportSummaryExportHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, ok := utils.GetUserIdFromContext(ctx)
		if !ok || userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		summary, err := reports.BuildReportSummary(ctx, config.GetDB(), userId)
		if err != nil {
			if errors.Is(err, utils.ErrorStoreUnavailable) {
				config.LogError(logger, "reports", "reportSummaryExportHandler", "build summary", userId, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "report temporarily unavailable"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		file, err := reports.ExportSummaryExcel(summary)
		if err != nil {
			config.LogError(logger, "reports", "reportSummaryExportHandler", "export excel", userId, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}

		fileName := fmt.Sprintf("calculation_summary_%s.xlsx", userId)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
		if err := file.Write(c.Writer); err != nil {
			config.LogError(logger, "reports", "reportSummaryExportHandler", "write response", userId, err)
		}
	}
}
