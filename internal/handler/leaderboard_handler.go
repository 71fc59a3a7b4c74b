package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/legalgames-api/internal/domain/entity"
	"github.com/yourusername/legalgames-api/internal/handler/dto"
	"github.com/yourusername/legalgames-api/internal/service"
)

// LeaderboardReader: чтение и пересчёт общего рейтинга
type LeaderboardReader interface {
	GetLeaderboard(ctx context.Context, page, pageSize int) (*service.LeaderboardPage, error)
	GetEntry(ctx context.Context, userID uint) (*entity.LeaderboardEntry, error)
	Recompute(ctx context.Context) error
	ExportEntries(ctx context.Context) ([]entity.LeaderboardEntry, error)
}

// LeaderboardHandler обрабатывает запросы общего рейтинга
type LeaderboardHandler struct {
	leaderboard LeaderboardReader
}

// NewLeaderboardHandler создает обработчик рейтинга
func NewLeaderboardHandler(leaderboard LeaderboardReader) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

var exportHeaders = []string{"Место", "Пользователь", "ID пользователя", "Очки", "Завершено игр", "Обновлено"}

// GetLeaderboard возвращает страницу рейтинга
// GET /api/leaderboard?page=1&page_size=20
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := h.leaderboard.GetLeaderboard(c.Request.Context(), page, pageSize)
	if err != nil {
		handleGameError(c, "LeaderboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedLeaderboardResponse(result.Entries, result.Total, result.Page, result.PageSize))
}

// GetMyEntry возвращает строку рейтинга текущего пользователя
// GET /api/leaderboard/me
func (h *LeaderboardHandler) GetMyEntry(c *gin.Context) {
	actor, ok := requireActor(c, "LeaderboardHandler")
	if !ok {
		return
	}

	entry, err := h.leaderboard.GetEntry(c.Request.Context(), actor.UserID)
	if err != nil {
		handleGameError(c, "LeaderboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLeaderboardEntryResponse(entry))
}

// Recompute принудительно пересчитывает места
// POST /api/leaderboard/recompute
func (h *LeaderboardHandler) Recompute(c *gin.Context) {
	if err := h.leaderboard.Recompute(c.Request.Context()); err != nil {
		handleGameError(c, "LeaderboardHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Leaderboard recomputed"})
}

// ExportLeaderboard выгружает весь рейтинг в CSV или Excel
// GET /api/leaderboard/export?format=csv|xlsx
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	entries, err := h.leaderboard.ExportEntries(c.Request.Context())
	if err != nil {
		handleGameError(c, "LeaderboardHandler", err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, entries, filename)
	default:
		h.exportCSV(c, entries, filename)
	}
}

// exportCSV пишет рейтинг в CSV с BOM для корректного открытия в Excel
func (h *LeaderboardHandler) exportCSV(c *gin.Context, entries []entity.LeaderboardEntry, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, e := range entries {
		writer.Write([]string{
			strconv.Itoa(e.Rank),
			sanitizeForExcel(e.Username),
			strconv.FormatUint(uint64(e.UserID), 10),
			strconv.FormatInt(e.TotalPoints, 10),
			strconv.Itoa(e.GamesCompleted),
			e.LastUpdated.UTC().Format(time.RFC3339),
		})
	}
}

// exportXLSX пишет рейтинг в Excel через StreamWriter
func (h *LeaderboardHandler) exportXLSX(c *gin.Context, entries []entity.LeaderboardEntry, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Рейтинг"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[LeaderboardHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, name := range exportHeaders {
		headers[i] = name
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи заголовков: %v", err)
	}

	for i, e := range entries {
		rowNum := i + 2
		row := []interface{}{
			e.Rank,
			sanitizeForExcel(e.Username),
			e.UserID,
			e.TotalPoints,
			e.GamesCompleted,
			e.LastUpdated.UTC().Format(time.RFC3339),
		}
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), row); err != nil {
			log.Printf("[LeaderboardHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка при Flush: %v", err)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[LeaderboardHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
