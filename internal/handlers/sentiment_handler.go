package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/response"
	"github.com/gravadigital/encuentro-api/internal/services"
)

type SentimentHandler struct {
	sentiments *services.SentimentService
	log        *log.Logger
}

func NewSentimentHandler(sentiments *services.SentimentService) *SentimentHandler {
	return &SentimentHandler{
		sentiments: sentiments,
		log:        logger.Handler("sentiment"),
	}
}

type analyzeRequest struct {
	Message string `json:"message" binding:"required"`
}

// Analyze handles POST /api/v1/sentiments/analyze
func (h *SentimentHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "message is required")
		return
	}

	record, err := h.sentiments.Analyze(c.Request.Context(), req.Message)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "sentiment analysis completed", record)
}

// GetAllSentiments handles GET /api/v1/sentiments
func (h *SentimentHandler) GetAllSentiments(c *gin.Context) {
	records, err := h.sentiments.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", records)
}
