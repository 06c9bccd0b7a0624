package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"equipdash/internal/ingest"
	"equipdash/internal/repository"
	"equipdash/internal/service"
	"equipdash/internal/utils"
	"equipdash/pkg/redis"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
)

type EquipmentHandler struct {
	service     service.EquipmentService
	repo        repository.DatasetRepository
	redisClient *goredis.Client // nil — Redis не сконфигурирован
}

func NewEquipmentHandler(service service.EquipmentService, repo repository.DatasetRepository, redisClient *goredis.Client) *EquipmentHandler {
	return &EquipmentHandler{service: service, repo: repo, redisClient: redisClient}
}

// Upload принимает multipart-файл в поле "file" и выполняет загрузку.
// Ошибки входных данных возвращаются как 400 с деталями,
// ошибки хранилища — как 500 без внутренностей.
func (h *EquipmentHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	datasetID, err := h.service.Ingest(ctx, fileHeader.Filename, file)
	if err != nil {
		var schemaErr *ingest.SchemaValidationError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        fmt.Sprintf("Missing columns: %v. Found: %v", schemaErr.Missing, schemaErr.Found),
				"missing_cols": schemaErr.Missing,
				"found_cols":   schemaErr.Found,
			})
			return
		}

		var convErr *ingest.RecordConversionError
		if errors.As(err, &convErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  convErr.Error(),
				"row":    convErr.Row,
				"column": convErr.Column,
				"value":  convErr.Value,
			})
			return
		}

		log.Printf("Upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Upload successful",
		"dataset_id": datasetID,
	})
}

// Summary возвращает сводку по самому свежему датасету.
// Отсутствие данных — валидный ответ 200, не ошибка.
func (h *EquipmentHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.service.LatestSummary(ctx)
	if err != nil {
		log.Printf("Failed to get summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summary"})
		return
	}

	if summary == nil {
		c.JSON(http.StatusOK, gin.H{"message": "No data available"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// History возвращает сводки по всем хранимым датасетам, свежие первыми.
func (h *EquipmentHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	history, err := h.service.History(ctx)
	if err != nil {
		log.Printf("Failed to get history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

// ReportPDF отдает PDF-отчет по свежайшей сводке.
func (h *EquipmentHandler) ReportPDF(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.service.LatestSummary(ctx)
	if err != nil {
		log.Printf("Failed to get summary for report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	if summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data available"})
		return
	}

	pdfBytes, err := utils.RenderSummaryPDF(summary)
	if err != nil {
		log.Printf("Failed to render PDF: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="equipment_report_%d.pdf"`, summary.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ExportExcel отдает XLSX со всей историей сводок.
func (h *EquipmentHandler) ExportExcel(c *gin.Context) {
	ctx := c.Request.Context()

	history, err := h.service.History(ctx)
	if err != nil {
		log.Printf("Failed to get history for export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data available"})
		return
	}

	xlsxBytes, err := utils.BuildHistoryWorkbook(history)
	if err != nil {
		log.Printf("Failed to build XLSX: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	filename := fmt.Sprintf("equipment_history_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", xlsxBytes)
}

// Health — health-check для фронтендов и скриптов мониторинга:
// статус плюс состояние каждого внешнего сервиса.
func (h *EquipmentHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	services := gin.H{
		"database": "connected",
		"redis":    "disabled",
	}

	if _, err := h.repo.CountDatasets(ctx); err != nil {
		log.Printf("Health check: database probe failed: %v", err)
		services["database"] = "error"
	}

	resp := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	}

	if h.redisClient != nil {
		if stats, err := redis.GetStats(h.redisClient); err != nil {
			log.Printf("Health check: redis probe failed: %v", err)
			services["redis"] = "error"
		} else {
			services["redis"] = "connected"
			resp["redis"] = stats
		}
	}

	c.JSON(http.StatusOK, resp)
}
