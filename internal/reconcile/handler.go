package reconcile

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Engine *Engine
	// Guard runs before the sync endpoint, typically auth.OperatorMiddleware.
	Guard gin.HandlerFunc
}

func NewHandler(engine *Engine, guard gin.HandlerFunc) *Handler {
	return &Handler{Engine: engine, Guard: guard}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	chain := []gin.HandlerFunc{}
	if h.Guard != nil {
		chain = append(chain, h.Guard)
	}
	rg.POST("/sync", append(chain, h.sync)...) // POST /hub/sync
}

type syncReq struct {
	Scope string `json:"scope"`
}

func (h *Handler) sync(c *gin.Context) {
	var req syncReq
	// An empty body (io.EOF) falls back to ?scope=. Chunked bodies report
	// ContentLength -1, so the length is not consulted.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, SyncResponse{Error: "invalid json"})
		return
	}
	if req.Scope == "" {
		req.Scope = c.Query("scope")
	}

	scope, err := ParseScope(req.Scope)
	if err != nil {
		c.JSON(http.StatusBadRequest, SyncResponse{Error: err.Error()})
		return
	}

	resp := h.Engine.Run(c.Request.Context(), scope)
	if !resp.Success {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
