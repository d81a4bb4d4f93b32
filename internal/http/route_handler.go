package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/token-route-engine/internal/common"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/http/httputil"
	"github.com/hxuan190/token-route-engine/internal/route"
)

// RouteService is what the HTTP layer needs from the route engine.
type RouteService interface {
	QueryRoute(ctx context.Context, token string, opts ...route.QueryOption) (*domain.RouteFetchResult, error)
	DetectPlatform(token string) domain.TokenPlatform
	FindPair(ctx context.Context, token string, quote string) (*domain.PairResult, error)
	ClearRoute(token string) bool
	ClearAll()
	ClearPairs()
	Stats() route.Stats
}

type RouteHandler struct {
	routeSvc RouteService
}

func NewRouteHandler(routeSvc RouteService) *RouteHandler {
	return &RouteHandler{routeSvc: routeSvc}
}

func (h *RouteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/:token", h.getRoute)
	pub.GET("/:token/detect", h.detect)
}

func (h *RouteHandler) Root() string {
	return "/route"
}

// DetectResponse is the advisory platform guess for a token address
type DetectResponse struct {
	Token    string `json:"token" example:"0x1234567890abcdef1234567890abcdef1234ffff"`
	Platform string `json:"platform" example:"four"`
}

// @Summary Resolve trading route
// @Description Resolve where a token should be traded right now: on its launch platform bonding curve
// @Description or on PancakeSwap once it has migrated.
// @Description
// @Description Migrated routes are cached for the life of the process. Routes still on a bonding curve
// @Description are re-verified after a short TTL because progress changes every block.
// @Tags route
// @Produce json
// @Param token path string true "BEP-20 token address" example("0x1234567890abcdef1234567890abcdef1234ffff")
// @Param platform query string false "Force the first platform probed" Enums(four, xmode, flap, luna, unknown)
// @Success 200 {object} domain.RouteFetchResult
// @Failure 400 {object} httputil.Response "Malformed token address or platform"
// @Failure 503 {object} httputil.Response "Route temporarily unknown, retry later"
// @Router /api/v1/route/{token} [get]
func (h *RouteHandler) getRoute(c *gin.Context) {
	token := c.Param("token")

	var opts []route.QueryOption
	if raw := strings.TrimSpace(c.Query("platform")); raw != "" {
		p, ok := domain.ParsePlatform(strings.ToLower(raw))
		if !ok {
			httputil.HandleBadRequest(c, "unknown platform: "+raw)
			return
		}
		opts = append(opts, route.WithPlatform(p))
	}

	result, err := h.routeSvc.QueryRoute(c.Request.Context(), token, opts...)
	if err != nil {
		writeError(c, err)
		return
	}
	httputil.HandleSuccess(c, result)
}

// @Summary Detect launch platform
// @Description Advisory platform guess from the token address pattern. No chain reads.
// @Tags route
// @Produce json
// @Param token path string true "BEP-20 token address"
// @Success 200 {object} DetectResponse
// @Router /api/v1/route/{token}/detect [get]
func (h *RouteHandler) detect(c *gin.Context) {
	token := c.Param("token")
	httputil.HandleSuccess(c, DetectResponse{
		Token:    strings.ToLower(token),
		Platform: h.routeSvc.DetectPlatform(token).String(),
	})
}

// writeError maps engine errors onto HTTP statuses. Anything but a validation failure means the
// route is temporarily unknown.
func writeError(c *gin.Context, err error) {
	var httpErr *common.HttpError
	switch {
	case errors.As(err, &httpErr):
	case domain.IsKind(err, domain.KindValidation):
		httpErr = common.HTTPErrorBadRequest(err.Error())
	default:
		httpErr = common.HTTPErrorServiceUnavailable("route temporarily unknown: " + err.Error())
	}
	httputil.FromHttpError(c, httpErr)
}
