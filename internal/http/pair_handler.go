package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/token-route-engine/internal/http/httputil"
)

type PairHandler struct {
	routeSvc RouteService
}

func NewPairHandler(routeSvc RouteService) *PairHandler {
	return &PairHandler{routeSvc: routeSvc}
}

func (h *PairHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/:token", h.getPair)
}

func (h *PairHandler) Root() string {
	return "/pair"
}

// @Summary Find PancakeSwap pool
// @Description Find the deepest PancakeSwap V2 or V3 pool for a token that clears the liquidity threshold.
// @Description Without a quote token every candidate quote token is probed.
// @Tags pair
// @Produce json
// @Param token path string true "BEP-20 token address"
// @Param quote query string false "Restrict the search to one quote token"
// @Success 200 {object} domain.PairResult
// @Failure 400 {object} httputil.Response
// @Router /api/v1/pair/{token} [get]
func (h *PairHandler) getPair(c *gin.Context) {
	result, err := h.routeSvc.FindPair(c.Request.Context(), c.Param("token"), c.Query("quote"))
	if err != nil {
		writeError(c, err)
		return
	}
	httputil.HandleSuccess(c, result)
}
