package http

import (
	"viewtrap/usecase"

	"github.com/gin-gonic/gin"
)

type ICacheHandler interface {
	Stats(ctx *gin.Context)
}

type CacheHandler struct {
	youtubeUseCase usecase.IYouTubeUseCase
}

func NewCacheHandler(youtubeUseCase usecase.IYouTubeUseCase) ICacheHandler {
	return &CacheHandler{youtubeUseCase: youtubeUseCase}
}

// Stats handles GET /api/cache/stats
func (h *CacheHandler) Stats(ctx *gin.Context) {
	respond(ctx, h.youtubeUseCase.CacheStats(ctx.Request.Context()), false)
}
