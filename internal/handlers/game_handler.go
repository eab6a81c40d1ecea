package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ArowuTest/club-portal-backend/internal/middleware"
	"github.com/ArowuTest/club-portal-backend/internal/models"
	"github.com/ArowuTest/club-portal-backend/internal/services"
)

// GameHandler handles game-related HTTP requests
type GameHandler struct {
	gameService services.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// ListGames handles GET /games
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.gameService.ListGames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// CreateGame handles POST /games
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(c.Request.Context(), &req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// GetActiveGame handles GET /games/active
func (h *GameHandler) GetActiveGame(c *gin.Context) {
	view, err := h.gameService.GetActiveGameView(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetGame handles GET /games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	view, err := h.gameService.GetGameView(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateRules handles PUT /games/:id/rules
func (h *GameHandler) UpdateRules(c *gin.Context) {
	var req models.GameRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.gameService.UpdateRules(c.Request.Context(), c.Param("id"), &req, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CloseGame handles POST /games/:id/close
func (h *GameHandler) CloseGame(c *gin.Context) {
	view, err := h.gameService.CloseGame(c.Request.Context(), c.Param("id"), middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteGame handles DELETE /games/:id
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.gameService.DeleteGame(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}

// GetDeckState handles GET /games/:id/cards?shuffle=N
func (h *GameHandler) GetDeckState(c *gin.Context) {
	shuffle := 0
	if raw := c.Query("shuffle"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shuffle number"})
			return
		}
		shuffle = n
	}

	state, err := h.gameService.GetDeckState(c.Request.Context(), c.Param("id"), shuffle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ListAuditEvents handles GET /games/:id/audit?page=1&limit=50
func (h *GameHandler) ListAuditEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	gameID := c.Param("id")
	if _, err := h.gameService.GetGameView(c.Request.Context(), gameID); err != nil {
		respondError(c, err)
		return
	}
	events, err := h.gameService.ListAuditEvents(c.Request.Context(), gameID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "events": events})
}
