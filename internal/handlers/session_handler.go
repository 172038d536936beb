package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sinavly/exam-engine/internal/services"
	"github.com/sinavly/exam-engine/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// CreateSession starts a new mock exam session for the user
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}

	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", err, err.Error())
		return
	}

	response, err := h.sessionService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// SubmitSession finalizes a session with the user's answers and returns
// the scored result. Duplicate submits return the stored result.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}

	var req services.SubmitSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "VALIDATION_FAILED", err, err.Error())
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": result})
}

// GetSession returns the session, surfacing expiry lazily
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "sessionId")
	if sessionID == "" {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GetSessionResult returns the stored result of a completed session
func (h *SessionHandler) GetSessionResult(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "sessionId")
	if sessionID == "" {
		return
	}

	result, err := h.sessionService.GetResult(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": result})
}

// CancelSession abandons a session before its deadline; no result is
// produced
func (h *SessionHandler) CancelSession(c *gin.Context) {
	userID := ParseStringIDParam(c, "userId")
	if userID == "" {
		return
	}
	sessionID := ParseStringIDParam(c, "sessionId")
	if sessionID == "" {
		return
	}

	if err := h.sessionService.Cancel(c.Request.Context(), userID, sessionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Sınav oturumu iptal edildi", gin.H{
		"session_id": sessionID,
	})
}
