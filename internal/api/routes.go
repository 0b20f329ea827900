package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zulandar/doctrail/internal/lifecycle"
	"github.com/zulandar/doctrail/internal/metrics"
	"github.com/zulandar/doctrail/internal/models"
	"github.com/zulandar/doctrail/internal/status"
)

// actorHeader carries the acting user's identity, asserted by the deployment
// in front of this service.
const actorHeader = "X-Actor-ID"

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, svc *lifecycle.Service, log zerolog.Logger) {
	api := router.Group("/api")

	api.GET("/documents", handleListDocuments(svc))
	api.POST("/documents", handleCreateDocument(svc))
	api.GET("/documents/:id", handleGetDocument(svc))
	api.POST("/documents/:id/status", handleTransition(svc))
	api.POST("/documents/:id/pin", handlePin(svc))
	api.GET("/metrics", handleMetrics(svc, log))
}

func handleGetDocument(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := svc.Get(c.Request.Context(), c.Param("id"), time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func handleListDocuments(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := parseFilters(c)
		if err != nil {
			writeError(c, err)
			return
		}

		srt := lifecycle.Sort{
			Key:  lifecycle.SortKey(c.DefaultQuery("sort", string(lifecycle.SortCreatedAt))),
			Desc: c.Query("order") == "desc",
		}
		page := lifecycle.Page{
			Offset: intQuery(c, "offset", 0),
			Limit:  intQuery(c, "limit", lifecycle.DefaultPageSize),
		}

		res, err := svc.List(c.Request.Context(), filters, srt, page, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

type createRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Type         string    `json:"type"`
	Flow         string    `json:"flow"`
	StartTrackAt time.Time `json:"startTrackAt"`
	EndTrackAt   time.Time `json:"endTrackAt"`
	TeamID       string    `json:"teamId"`
}

func handleCreateDocument(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(actorHeader)
		if actor == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorHeader + " header"})
			return
		}

		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
			return
		}

		v, err := svc.Create(c.Request.Context(), lifecycle.CreateOpts{
			Title:        req.Title,
			Description:  req.Description,
			Type:         req.Type,
			Flow:         req.Flow,
			StartTrackAt: req.StartTrackAt,
			EndTrackAt:   req.EndTrackAt,
			CreatedByID:  actor,
			TeamID:       req.TeamID,
		}, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

type transitionRequest struct {
	Status string `json:"status"`
}

func handleTransition(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(actorHeader)
		if actor == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorHeader + " header"})
			return
		}

		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
			return
		}
		target, err := status.Parse(req.Status)
		if err != nil {
			writeError(c, err)
			return
		}

		v, err := svc.Transition(c.Request.Context(), c.Param("id"), actor, target, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

func handlePin(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
			return
		}

		v, err := svc.SetPinned(c.Request.Context(), c.Param("id"), req.Pinned, time.Now())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

// metricsResponse is the metrics payload; Members is present only when the
// acting user leads the scoped team.
type metricsResponse struct {
	Summary metrics.Summary         `json:"summary"`
	Members []metrics.MemberMetrics `json:"members,omitempty"`
}

func handleMetrics(svc *lifecycle.Service, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		ctx := c.Request.Context()

		filters := lifecycle.Filters{
			CreatedByID: c.Query("created_by"),
			TeamID:      c.Query("team"),
		}
		if filters.CreatedByID == "" && filters.TeamID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": "created_by or team scope is required"})
			return
		}
		period := time.Duration(intQuery(c, "period_days", 30)) * 24 * time.Hour

		views, err := svc.ListAll(ctx, filters, now)
		if err != nil {
			writeError(c, err)
			return
		}
		docs := documents(views)

		resp := metricsResponse{Summary: metrics.Summarize(docs, now, period)}

		// Per-member breakdown for team leaders.
		if filters.TeamID != "" {
			actor := c.GetHeader(actorHeader)
			leader, err := svc.IsTeamLeader(ctx, actor, filters.TeamID)
			if err != nil {
				log.Warn().Err(err).Str("team", filters.TeamID).Msg("leadership check failed")
			} else if leader {
				members, err := svc.Members(ctx, filters.TeamID)
				if err != nil {
					writeError(c, err)
					return
				}
				resp.Members = metrics.PerMember(members, docs, now)
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// parseFilters builds listing filters from query parameters.
func parseFilters(c *gin.Context) (lifecycle.Filters, error) {
	f := lifecycle.Filters{
		CreatedByID: c.Query("created_by"),
		TeamID:      c.Query("team"),
		Type:        c.Query("type"),
		Flow:        c.Query("flow"),
	}
	if raw := c.Query("status"); raw != "" {
		s, err := status.Parse(raw)
		if err != nil {
			return f, err
		}
		f.Status = s
	}
	if raw := c.Query("pinned"); raw != "" {
		pinned := raw == "true"
		f.Pinned = &pinned
	}
	return f, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func documents(views []lifecycle.DocumentView) []models.Document {
	docs := make([]models.Document, 0, len(views))
	for _, v := range views {
		docs = append(docs, v.Document)
	}
	return docs
}

// writeError maps domain errors onto HTTP statuses with a structured body.
func writeError(c *gin.Context, err error) {
	var ve *status.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": ve.Error()})
		return
	}
	var te *status.TransitionError
	if errors.As(err, &te) {
		c.JSON(http.StatusConflict, gin.H{
			"kind":            "transition",
			"currentStatus":   te.From,
			"requestedStatus": te.To,
			"error":           te.Error(),
		})
		return
	}
	var ae *status.AuthorizationError
	if errors.As(err, &ae) {
		c.JSON(http.StatusForbidden, gin.H{"kind": "authorization", "error": ae.Error()})
		return
	}
	var nfe *lifecycle.NotFoundError
	if errors.As(err, &nfe) {
		c.JSON(http.StatusNotFound, gin.H{"kind": "not_found", "error": nfe.Error()})
		return
	}
	if errors.Is(err, lifecycle.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"kind": "internal", "error": err.Error()})
}
