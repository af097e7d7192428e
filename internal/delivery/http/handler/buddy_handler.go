package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gdugdh24/buddyfit-backend/internal/domain"
	"github.com/gdugdh24/buddyfit-backend/internal/usecase/buddy"
	"github.com/gin-gonic/gin"
)

// BuddyService is the buddy use case as seen by the HTTP layer.
type BuddyService interface {
	Suggest(ctx context.Context, userID int, req *buddy.SuggestRequest) ([]*buddy.SuggestedBuddy, error)
	Create(ctx context.Context, userID int, req *buddy.CreateBuddyRequest) (*domain.Buddy, error)
	List(ctx context.Context, userID int, status string) ([]*buddy.BuddyDetail, error)
	UpdateStatus(ctx context.Context, userID, buddyID int, req *buddy.UpdateBuddyRequest) (*domain.Buddy, error)
	Delete(ctx context.Context, userID, buddyID int) error
}

type BuddyHandler struct {
	buddyService BuddyService
}

func NewBuddyHandler(buddyService BuddyService) *BuddyHandler {
	return &BuddyHandler{
		buddyService: buddyService,
	}
}

// GetSuggested handles GET /buddies/suggested
// @Summary Suggested buddies
// @Description Rank compatible users for the current user
// @Tags buddies
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size (1-50)" default(10)
// @Param min_score query number false "Minimum score (0-100)" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} buddy.SuggestedBuddy
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /buddies/suggested [get]
func (h *BuddyHandler) GetSuggested(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req buddy.SuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	suggestions, err := h.buddyService.Suggest(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to get suggestions")
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// Create handles POST /buddies
// @Summary Send buddy request
// @Tags buddies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body buddy.CreateBuddyRequest true "Receiver"
// @Success 201 {object} domain.Buddy
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /buddies [post]
func (h *BuddyHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req buddy.CreateBuddyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	created, err := h.buddyService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to create buddy request")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /buddies
// @Summary List buddies
// @Tags buddies
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending, accepted or rejected"
// @Success 200 {array} buddy.BuddyDetail
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /buddies [get]
func (h *BuddyHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	buddies, err := h.buddyService.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err, "failed to list buddies")
		return
	}

	c.JSON(http.StatusOK, buddies)
}

// UpdateStatus handles PUT /buddies/:id
// @Summary Accept or reject a buddy request
// @Tags buddies
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Buddy ID"
// @Param request body buddy.UpdateBuddyRequest true "Decision"
// @Success 200 {object} domain.Buddy
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /buddies/{id} [put]
func (h *BuddyHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	buddyID, err := strconv.Atoi(c.Param("id"))
	if err != nil || buddyID < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid buddy id"})
		return
	}

	var req buddy.UpdateBuddyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return
	}

	updated, err := h.buddyService.UpdateStatus(c.Request.Context(), userID, buddyID, &req)
	if err != nil {
		respondError(c, err, "failed to update buddy")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /buddies/:id
// @Summary Remove a buddy
// @Tags buddies
// @Security BearerAuth
// @Param id path int true "Buddy ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /buddies/{id} [delete]
func (h *BuddyHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	buddyID, err := strconv.Atoi(c.Param("id"))
	if err != nil || buddyID < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid buddy id"})
		return
	}

	if err := h.buddyService.Delete(c.Request.Context(), userID, buddyID); err != nil {
		respondError(c, err, "failed to delete buddy")
		return
	}

	c.Status(http.StatusNoContent)
}
