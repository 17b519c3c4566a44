package handlers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"promolotto/internal/models"
	"promolotto/internal/resultcache"
	"promolotto/internal/services"
	"promolotto/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
)

// HTTPHandler holds the dependencies for the HTTP handlers: the snapshot
// store, the computation services and the per-fingerprint result caches.
type HTTPHandler struct {
	store      *store.Store
	validation *services.ValidationService
	winners    *services.WinnersService

	validationCache *resultcache.Cache[*models.ValidationReport]
	winnersCache    *resultcache.Cache[*models.CampaignResult]
}

// NewHTTPHandler creates a new HTTPHandler with fresh result caches.
func NewHTTPHandler(st *store.Store, validation *services.ValidationService, winners *services.WinnersService) *HTTPHandler {
	return &HTTPHandler{
		store:           st,
		validation:      validation,
		winners:         winners,
		validationCache: resultcache.New[*models.ValidationReport](),
		winnersCache:    resultcache.New[*models.CampaignResult](),
	}
}

// RegisterRoutes registers all the application routes.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/validation", h.GetValidation)
	router.GET("/api/validation/stats", h.GetValidationStats)
	router.GET("/api/winners", h.GetWinners)
	router.GET("/api/winners/stats", h.GetWinnersStats)
	router.GET("/api/contests/:id/winners", h.GetContestWinners)
	router.POST("/upload-tickets-csv", h.UploadTicketsCSV)
	router.POST("/upload-recharges-csv", h.UploadRechargesCSV)
	router.POST("/upload-results-csv", h.UploadResultsCSV)
	router.POST("/refresh", h.RefreshSnapshot)
	router.GET("/export-validation-csv", h.ExportValidationCSV)
	router.GET("/export-winners-csv", h.ExportWinnersCSV)
}

// validationReport computes (or recalls) the validation report for the
// current snapshot. The cache put is test-and-set: when two requests race on
// the same fingerprint the first published report is the one everybody sees.
func (h *HTTPHandler) validationReport(ctx context.Context) (*models.ValidationReport, error) {
	snap := h.store.Current()
	fingerprint := snap.Fingerprint()
	if report, ok := h.validationCache.Get(fingerprint); ok {
		return report, nil
	}

	report, err := h.validation.ValidateAll(ctx, snap.Tickets, snap.Recharges)
	if err != nil {
		return nil, err
	}
	if !h.validationCache.Put(fingerprint, report) {
		if cached, ok := h.validationCache.Get(fingerprint); ok {
			return cached, nil
		}
	}
	return report, nil
}

// campaignResult computes (or recalls) the winner determination for the
// current snapshot and scope.
func (h *HTTPHandler) campaignResult(ctx context.Context, scope string) (*models.CampaignResult, error) {
	snap := h.store.Current()
	fingerprint := snap.WinnersFingerprint(scope)
	if result, ok := h.winnersCache.Get(fingerprint); ok {
		return result, nil
	}

	result, err := h.winners.CalculateAllWinners(ctx, snap.Tickets, snap.Results, scope)
	if err != nil {
		return nil, err
	}
	if !h.winnersCache.Put(fingerprint, result) {
		if cached, ok := h.winnersCache.Get(fingerprint); ok {
			return cached, nil
		}
	}
	return result, nil
}

// GetValidation returns the per-ticket outcomes and stats for the table view.
func (h *HTTPHandler) GetValidation(c *gin.Context) {
	report, err := h.validationReport(c.Request.Context())
	if err != nil {
		logger.Errorf("Validation run failed: %v", err)
		c.String(http.StatusInternalServerError, "validation failed: %v", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetValidationStats returns only the aggregate counters, for the banners.
func (h *HTTPHandler) GetValidationStats(c *gin.Context) {
	report, err := h.validationReport(c.Request.Context())
	if err != nil {
		logger.Errorf("Validation run failed: %v", err)
		c.String(http.StatusInternalServerError, "validation failed: %v", err)
		return
	}
	c.JSON(http.StatusOK, report.Stats)
}

// GetWinners returns the full campaign winner determination for a scope.
func (h *HTTPHandler) GetWinners(c *gin.Context) {
	result, err := h.campaignResult(c.Request.Context(), c.Query("scope"))
	if err != nil {
		logger.Errorf("Winner calculation failed: %v", err)
		c.String(http.StatusInternalServerError, "winner calculation failed: %v", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetWinnersStats returns only the campaign-wide counters.
func (h *HTTPHandler) GetWinnersStats(c *gin.Context) {
	result, err := h.campaignResult(c.Request.Context(), c.Query("scope"))
	if err != nil {
		logger.Errorf("Winner calculation failed: %v", err)
		c.String(http.StatusInternalServerError, "winner calculation failed: %v", err)
		return
	}
	c.JSON(http.StatusOK, result.Stats)
}

// GetContestWinners returns the winner set of a single contest.
func (h *HTTPHandler) GetContestWinners(c *gin.Context) {
	result, err := h.campaignResult(c.Request.Context(), c.Query("scope"))
	if err != nil {
		logger.Errorf("Winner calculation failed: %v", err)
		c.String(http.StatusInternalServerError, "winner calculation failed: %v", err)
		return
	}
	id := c.Param("id")
	for i := range result.PerContest {
		if result.PerContest[i].ContestID == id {
			c.JSON(http.StatusOK, result.PerContest[i])
			return
		}
	}
	c.String(http.StatusNotFound, "unknown contest %s", id)
}

// UploadTicketsCSV replaces the ticket set from an uploaded CSV file.
func (h *HTTPHandler) UploadTicketsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("ticketsCSV")
	if err != nil {
		c.String(http.StatusBadRequest, "Error retrieving file: %v", err)
		return
	}
	defer file.Close()

	tickets, err := store.ParseTickets(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error reading CSV: %v", err)
		return
	}
	h.store.ReplaceTickets(tickets)
	c.JSON(http.StatusOK, gin.H{"tickets": len(tickets), "fingerprint": h.store.Current().Fingerprint()})
}

// UploadRechargesCSV replaces the recharge set from an uploaded CSV file.
func (h *HTTPHandler) UploadRechargesCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("rechargesCSV")
	if err != nil {
		c.String(http.StatusBadRequest, "Error retrieving file: %v", err)
		return
	}
	defer file.Close()

	recharges, err := store.ParseRecharges(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error reading CSV: %v", err)
		return
	}
	h.store.ReplaceRecharges(recharges)
	c.JSON(http.StatusOK, gin.H{"recharges": len(recharges), "fingerprint": h.store.Current().Fingerprint()})
}

// UploadResultsCSV replaces the result set from an uploaded CSV file.
func (h *HTTPHandler) UploadResultsCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("resultsCSV")
	if err != nil {
		c.String(http.StatusBadRequest, "Error retrieving file: %v", err)
		return
	}
	defer file.Close()

	results, err := store.ParseResults(file)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error reading CSV: %v", err)
		return
	}
	h.store.ReplaceResults(results)
	c.JSON(http.StatusOK, gin.H{"results": len(results), "fingerprint": h.store.Current().Fingerprint()})
}

// RefreshSnapshot reloads the configured CSV sources.
func (h *HTTPHandler) RefreshSnapshot(c *gin.Context) {
	fingerprint, err := h.store.Refresh()
	if err != nil {
		logger.Errorf("Snapshot refresh failed: %v", err)
		c.String(http.StatusInternalServerError, "refresh failed: %v", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fingerprint": fingerprint})
}

// ExportValidationCSV downloads the validation table as a CSV file.
func (h *HTTPHandler) ExportValidationCSV(c *gin.Context) {
	report, err := h.validationReport(c.Request.Context())
	if err != nil {
		logger.Errorf("Validation run failed: %v", err)
		c.String(http.StatusInternalServerError, "validation failed: %v", err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=validation_results.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"ticketId", "status", "reason", "cutoff", "matchedRecharge"}); err != nil {
		logger.Errorf("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	ids := make([]string, 0, len(report.Outcomes))
	for id := range report.Outcomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		outcome := report.Outcomes[id]
		rechargeID := ""
		if outcome.MatchedRecharge != nil {
			rechargeID = outcome.MatchedRecharge.RechargeID
		}
		row := []string{id, string(outcome.Status), outcome.Reason, strconv.FormatBool(outcome.Cutoff), rechargeID}
		if err := w.Write(row); err != nil {
			logger.Errorf("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Errorf("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}

// ExportWinnersCSV downloads the campaign winners list as a CSV file.
func (h *HTTPHandler) ExportWinnersCSV(c *gin.Context) {
	result, err := h.campaignResult(c.Request.Context(), c.Query("scope"))
	if err != nil {
		logger.Errorf("Winner calculation failed: %v", err)
		c.String(http.StatusInternalServerError, "winner calculation failed: %v", err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=campaign_winners.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"contestId", "ticketId", "ownerId", "matches", "prize"}); err != nil {
		logger.Errorf("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	for _, winner := range result.AllWinners {
		row := []string{
			winner.ContestID,
			winner.TicketID,
			winner.OwnerID,
			strconv.Itoa(winner.Matches),
			fmt.Sprintf("%.2f", winner.Prize),
		}
		if err := w.Write(row); err != nil {
			logger.Errorf("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		logger.Errorf("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}
