package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karbonfx/leadform/internal/attribution"
	apperrors "github.com/karbonfx/leadform/internal/errors"
	"github.com/karbonfx/leadform/internal/form"
	"github.com/karbonfx/leadform/pkg/metrics"
)

type createSessionRequest struct {
	URL      string `json:"url"`
	Referrer string `json:"referrer"`
}

type updateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
			return
		}
	}

	page := attribution.PageContext{
		URL:       req.URL,
		Referrer:  req.Referrer,
		UserAgent: c.Request.UserAgent(),
	}

	session, err := s.machine.Create(c.Request.Context(), page)
	if err != nil {
		s.renderError(c, err)
		return
	}

	metrics.RecordSessionStarted()
	c.JSON(http.StatusCreated, session)
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.machine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleUpdateField(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}

	session, err := s.machine.UpdateField(c.Request.Context(), c.Param("id"), form.Field(req.Field), req.Value)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSubmitStep1(c *gin.Context) {
	session, err := s.machine.SubmitStep1(c.Request.Context(), c.Param("id"))
	if err != nil {
		metrics.RecordStepSubmission("step1", "failed")
		s.renderError(c, err)
		return
	}

	if len(session.Errors) > 0 {
		metrics.RecordStepSubmission("step1", "validation_failed")
		c.JSON(http.StatusUnprocessableEntity, session)
		return
	}

	metrics.RecordStepSubmission("step1", "accepted")
	if session.RecordID != "" {
		metrics.RecordLeadCaptured("partial")
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSubmitStep2(c *gin.Context) {
	session, err := s.machine.SubmitStep2(c.Request.Context(), c.Param("id"))
	if err != nil {
		metrics.RecordStepSubmission("step2", "failed")
		s.renderError(c, err)
		return
	}

	if len(session.Errors) > 0 {
		metrics.RecordStepSubmission("step2", "validation_failed")
		c.JSON(http.StatusUnprocessableEntity, session)
		return
	}

	metrics.RecordStepSubmission("step2", "accepted")
	metrics.RecordLeadCaptured("complete")
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleGoBack(c *gin.Context) {
	session, err := s.machine.GoBack(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (s *Server) handleLiveness(c *gin.Context) {
	if s.probes != nil {
		if err := s.probes.Liveness(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReadiness(c *gin.Context) {
	if s.probes != nil {
		if err := s.probes.Readiness(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "reason": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderError maps machine failures to HTTP status codes and the user-safe
// message from the error handler.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, form.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or expired."})
		return
	case errors.Is(err, form.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "Submission already in progress."})
		return
	}

	message, retryable := s.errs.Handle(c.Request.Context(), err)

	status := http.StatusInternalServerError
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr != nil {
		metrics.RecordError(appErr.Code, string(appErr.Severity))
		switch appErr.Code {
		case "E100":
			status = http.StatusBadRequest
		case "E300", "E400":
			status = http.StatusBadGateway
		case "E500":
			status = http.StatusConflict
		}
	}

	c.JSON(status, gin.H{"error": message, "retryable": retryable})
}
