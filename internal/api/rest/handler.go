package rest

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/openelect/ballot-pipeline/internal/aggregator"
	"github.com/openelect/ballot-pipeline/internal/api/middleware"
	"github.com/openelect/ballot-pipeline/internal/domain"
	"github.com/openelect/ballot-pipeline/internal/intake"
	"github.com/openelect/ballot-pipeline/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// SubmitBallot accepts one ballot submission for a station (requires authentication)
	// POST /api/v1/stations/:station_id/ballots
	SubmitBallot(c *gin.Context)

	// ListBallotEntries returns one page of a station's entries, newest first
	// GET /api/v1/stations/:station_id/ballots?page=<page>&per_page=<per_page>
	ListBallotEntries(c *gin.Context)

	// GetStationResults returns summary and aggregates in one response
	// GET /api/v1/stations/:station_id/results
	GetStationResults(c *gin.Context)

	// GetStationSummary returns the station-level tally by ballot category
	// GET /api/v1/stations/:station_id/summary
	GetStationSummary(c *gin.Context)

	// GetStationAggregates returns per-list and per-candidate vote tallies
	// GET /api/v1/stations/:station_id/aggregates
	GetStationAggregates(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	intake intake.Service
	reader aggregator.Reader
	store  store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(intakeService intake.Service, reader aggregator.Reader, st store.Store) Handler {
	return &handler{
		intake: intakeService,
		reader: reader,
		store:  st,
	}
}

// SubmitBallot accepts one ballot submission for a station
func (h *handler) SubmitBallot(c *gin.Context) {
	stationID, ok := parseStationID(c)
	if !ok {
		respondBadRequest(c, "Invalid station id")
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		respondForbidden(c, "No authenticated user")
		return
	}

	var req SubmitBallotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.intake.Submit(c.Request.Context(), intake.SubmitInput{
		StationID:   stationID,
		UserID:      userID,
		SubmitterIP: c.ClientIP(),
		Payload:     req.Payload(),
	})
	if err != nil {
		h.respondSubmitError(c, err, stationID, userID)
		return
	}

	c.JSON(http.StatusAccepted, SubmitBallotResponse{
		Message: "Ballot entry queued for processing",
		Queued:  true,
		TaskID:  result.TaskID,
	})
}

// respondSubmitError maps intake failure modes onto HTTP responses
func (h *handler) respondSubmitError(c *gin.Context, err error, stationID, userID uint64) {
	var validationErr *domain.ValidationError
	var rateLimitedErr *intake.RateLimitedError

	switch {
	case errors.Is(err, domain.ErrStationNotFound):
		respondNotFound(c, "Polling station not found")
	case errors.Is(err, domain.ErrNotAuthorized):
		respondForbidden(c, "Not an active counter for this station")
	case errors.As(err, &validationErr):
		respondFieldValidationError(c, validationErr.Fields)
	case errors.As(err, &rateLimitedErr):
		seconds := int64(math.Ceil(rateLimitedErr.RetryAfter.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		respondTooManyRequests(c, seconds)
	default:
		respondInternalError(c, err, "Failed to accept ballot entry",
			zap.Uint64("station_id", stationID),
			zap.Uint64("user_id", userID),
		)
	}
}

// ListBallotEntries returns one page of a station's entries, newest first
func (h *handler) ListBallotEntries(c *gin.Context) {
	stationID, ok := parseStationID(c)
	if !ok {
		respondBadRequest(c, "Invalid station id")
		return
	}

	params, err := ParseListEntriesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	station, err := h.store.GetStation(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to load station", zap.Uint64("station_id", stationID))
		return
	}
	if station == nil {
		respondNotFound(c, "Polling station not found")
		return
	}

	entries, total, err := h.store.ListBallotEntries(c.Request.Context(), stationID, params.Page, params.PerPage)
	if err != nil {
		respondInternalError(c, err, "Failed to list ballot entries", zap.Uint64("station_id", stationID))
		return
	}

	c.JSON(http.StatusOK, ListEntriesResponse{
		Entries: entries,
		Pagination: Pagination{
			Page:    params.Page,
			PerPage: params.PerPage,
			Total:   total,
		},
	})
}

// GetStationResults returns summary and aggregates in one response
func (h *handler) GetStationResults(c *gin.Context) {
	stationID, ok := parseStationID(c)
	if !ok {
		respondBadRequest(c, "Invalid station id")
		return
	}

	station, err := h.store.GetStation(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to load station", zap.Uint64("station_id", stationID))
		return
	}
	if station == nil {
		respondNotFound(c, "Polling station not found")
		return
	}

	summary, err := h.reader.GetSummary(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to read station summary", zap.Uint64("station_id", stationID))
		return
	}

	aggregates, err := h.reader.GetAggregates(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to read station aggregates", zap.Uint64("station_id", stationID))
		return
	}

	c.JSON(http.StatusOK, StationResultsResponse{
		StationID:        station.ID,
		StationName:      station.Name,
		RegisteredVoters: station.RegisteredVoters,
		Status:           stationStatus(station),
		Summary:          summary,
		Aggregates:       aggregates,
	})
}

// GetStationSummary returns the station-level tally by ballot category
func (h *handler) GetStationSummary(c *gin.Context) {
	stationID, ok := parseStationID(c)
	if !ok {
		respondBadRequest(c, "Invalid station id")
		return
	}

	station, err := h.store.GetStation(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to load station", zap.Uint64("station_id", stationID))
		return
	}
	if station == nil {
		respondNotFound(c, "Polling station not found")
		return
	}

	summary, err := h.reader.GetSummary(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to read station summary", zap.Uint64("station_id", stationID))
		return
	}

	c.JSON(http.StatusOK, StationSummaryResponse{
		StationID:        station.ID,
		StationName:      station.Name,
		RegisteredVoters: station.RegisteredVoters,
		Status:           stationStatus(station),
		Summary:          summary,
	})
}

// GetStationAggregates returns per-list and per-candidate vote tallies
func (h *handler) GetStationAggregates(c *gin.Context) {
	stationID, ok := parseStationID(c)
	if !ok {
		respondBadRequest(c, "Invalid station id")
		return
	}

	station, err := h.store.GetStation(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to load station", zap.Uint64("station_id", stationID))
		return
	}
	if station == nil {
		respondNotFound(c, "Polling station not found")
		return
	}

	aggregates, err := h.reader.GetAggregates(c.Request.Context(), stationID)
	if err != nil {
		respondInternalError(c, err, "Failed to read station aggregates", zap.Uint64("station_id", stationID))
		return
	}

	c.JSON(http.StatusOK, StationAggregatesResponse{
		StationID:  station.ID,
		Aggregates: aggregates,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
