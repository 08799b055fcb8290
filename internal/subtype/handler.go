package subtype

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"colortrainer/internal/taxonomy"
	"colortrainer/pkg/models"
)

type Handler struct {
	Repo *Repo
	// Guard protects the write endpoints.
	Guard gin.HandlerFunc
}

func NewHandler(repo *Repo, guard gin.HandlerFunc) *Handler {
	return &Handler{Repo: repo, Guard: guard}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)         // GET /subtypes
	rg.GET("/:slug", h.getOne) // GET /subtypes/:slug

	write := []gin.HandlerFunc{}
	if h.Guard != nil {
		write = append(write, h.Guard)
	}
	rg.POST("", append(write, h.create)...) // POST /subtypes
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:      c.Query("q"),
		Season: c.Query("season"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}
	if q.Season != "" && !taxonomy.Season(strings.ToLower(q.Season)).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "season must be one of spring, summer, autumn, winter"})
		return
	}

	// colors=navy,ivory OR colors=navy&colors=ivory
	colors := c.QueryArray("colors")
	if len(colors) == 1 && strings.Contains(colors[0], ",") {
		colors = strings.Split(colors[0], ",")
	}
	q.Colors = colors

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
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

func (h *Handler) getOne(c *gin.Context) {
	st, err := h.Repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if st == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, st)
}

type createReq struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Season        string   `json:"season"`
	Description   string   `json:"description"`
	PaletteEffect string   `json:"palette_effect"`
	KeyColors     []string `json:"key_colors"`
	AvoidColors   []string `json:"avoid_colors"`
	FabricsBest   []string `json:"fabrics_best"`
	FabricsGood   []string `json:"fabrics_good"`
	FabricsAvoid  []string `json:"fabrics_avoid"`
	PrintTypes    []string `json:"print_types"`
	Silhouettes   []string `json:"silhouette_types"`
	JewelryMetals []string `json:"jewelry_metals"`
	JewelryStones []string `json:"jewelry_stones"`
	JewelryStyles []string `json:"jewelry_styles"`
	EraTags       []string `json:"era_tags"`
	Artists       []string `json:"artists"`
	Designers     []string `json:"designers"`
	MakeupRegions []string `json:"makeup_regions"`
	Suitability   []string `json:"suitability_tags"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	slug := taxonomy.Slugify(req.Slug)
	if slug == "" {
		slug = taxonomy.Slugify(req.Name)
	}
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must contain letters or digits"})
		return
	}

	st := models.Subtype{
		Slug:          slug,
		Name:          req.Name,
		Season:        string(taxonomy.NormalizeSeason(req.Season, req.Name)),
		Description:   strings.TrimSpace(req.Description),
		PaletteEffect: strings.TrimSpace(req.PaletteEffect),
		KeyColors:     req.KeyColors,
		AvoidColors:   req.AvoidColors,
		FabricsBest:   req.FabricsBest,
		FabricsGood:   req.FabricsGood,
		FabricsAvoid:  req.FabricsAvoid,
		PrintTypes:    req.PrintTypes,
		Silhouettes:   req.Silhouettes,
		JewelryMetals: req.JewelryMetals,
		JewelryStones: req.JewelryStones,
		JewelryStyles: req.JewelryStyles,
		EraTags:       req.EraTags,
		Artists:       req.Artists,
		Designers:     req.Designers,
		MakeupRegions: req.MakeupRegions,
		Suitability:   req.Suitability,
	}
	for _, s := range taxonomy.SubtypeSets(&st) {
		*s.Ptr = cleanSet(*s.Ptr)
	}

	if err := h.Repo.Create(c.Request.Context(), st); err != nil {
		if errors.Is(err, ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	created, err := h.Repo.GetBySlug(c.Request.Context(), slug)
	if err != nil || created == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func cleanSet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
