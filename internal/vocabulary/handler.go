package vocabulary

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"colortrainer/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                // GET /vocabulary?category=color
	rg.GET("/:category/:term", h.get) // GET /vocabulary/color/navy
}

func parseCategory(s string) (models.TermCategory, bool) {
	c := models.TermCategory(strings.ToLower(strings.TrimSpace(s)))
	return c, c == "" || c.Valid()
}

func (h *Handler) list(c *gin.Context) {
	category, ok := parseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be one of color, fabric, artist, era"})
		return
	}

	q := ListQuery{
		Category: category,
		Q:        c.Query("q"),
		Limit:    atoi(c.Query("limit"), 50),
		Offset:   atoi(c.Query("offset"), 0),
	}

	items, total, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) get(c *gin.Context) {
	category, ok := parseCategory(c.Param("category"))
	if !ok || category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	t, err := h.Repo.Get(c.Request.Context(), category, c.Param("term"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
