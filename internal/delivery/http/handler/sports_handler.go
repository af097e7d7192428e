package handler

import (
	"context"
	"net/http"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

type SportsService interface {
	List(ctx context.Context) ([]domain.Sport, error)
}

type SportsHandler struct {
	sportsService SportsService
}

func NewSportsHandler(sportsService SportsService) *SportsHandler {
	return &SportsHandler{
		sportsService: sportsService,
	}
}

// List handles GET /sports
// @Summary Sports catalogue
// @Tags sports
// @Produce json
// @Success 200 {array} domain.Sport
// @Failure 500 {object} ErrorResponse
// @Router /sports [get]
func (h *SportsHandler) List(c *gin.Context) {
	sports, err := h.sportsService.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get sports"})
		return
	}

	c.JSON(http.StatusOK, sports)
}
