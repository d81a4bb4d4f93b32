package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/token-route-engine/internal/http/httputil"
)

type CacheHandler struct {
	routeSvc RouteService
}

func NewCacheHandler(routeSvc RouteService) *CacheHandler {
	return &CacheHandler{routeSvc: routeSvc}
}

func (h *CacheHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)

	admin.DELETE("/route/:token", h.clearRoute)
	admin.DELETE("/route", h.clearRoutes)
	admin.DELETE("/pair", h.clearPairs)
}

func (h *CacheHandler) Root() string {
	return "/cache"
}

// ClearResponse reports the outcome of a cache eviction
type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

// @Summary Cache statistics
// @Tags cache
// @Produce json
// @Success 200 {object} route.Stats
// @Router /api/v1/cache/stats [get]
func (h *CacheHandler) getStats(c *gin.Context) {
	httputil.HandleSuccess(c, h.routeSvc.Stats())
}

// @Summary Evict one cached route
// @Tags cache
// @Produce json
// @Param token path string true "BEP-20 token address"
// @Success 200 {object} ClearResponse
// @Router /api/v1/admin/cache/route/{token} [delete]
func (h *CacheHandler) clearRoute(c *gin.Context) {
	httputil.HandleSuccess(c, ClearResponse{Cleared: h.routeSvc.ClearRoute(c.Param("token"))})
}

// @Summary Evict every cached route
// @Tags cache
// @Produce json
// @Success 200 {object} ClearResponse
// @Router /api/v1/admin/cache/route [delete]
func (h *CacheHandler) clearRoutes(c *gin.Context) {
	h.routeSvc.ClearAll()
	httputil.HandleSuccess(c, ClearResponse{Cleared: true})
}

// @Summary Evict every cached pancake pair
// @Tags cache
// @Produce json
// @Success 200 {object} ClearResponse
// @Router /api/v1/admin/cache/pair [delete]
func (h *CacheHandler) clearPairs(c *gin.Context) {
	h.routeSvc.ClearPairs()
	httputil.HandleSuccess(c, ClearResponse{Cleared: true})
}
