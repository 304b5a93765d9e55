package http

import (
	"errors"
	"net/http"
	"strings"

	"viewtrap/domain/dto"
	"viewtrap/infrastructure/logger"
	"viewtrap/usecase"

	"github.com/gin-gonic/gin"
)

// IYouTubeHandler defines the interface for YouTube HTTP handlers
type IYouTubeHandler interface {
	Search(ctx *gin.Context)
	GetTrendingVideos(ctx *gin.Context)
	GetChannelDetails(ctx *gin.Context)
	GetChannelVideos(ctx *gin.Context)
	GetVideoDetails(ctx *gin.Context)
	GetKeyStatus(ctx *gin.Context)
}

// YouTubeHandler implements the YouTube HTTP handlers
type YouTubeHandler struct {
	youtubeUseCase usecase.IYouTubeUseCase
}

// NewYouTubeHandler creates a new YouTube handler instance
func NewYouTubeHandler(youtubeUseCase usecase.IYouTubeUseCase) IYouTubeHandler {
	return &YouTubeHandler{
		youtubeUseCase: youtubeUseCase,
	}
}

func respond(ctx *gin.Context, data interface{}, fallback bool) {
	res := dto.ApiResponse{Success: true, Data: data}
	if fallback {
		res.Message = usecase.FallbackMessage
	}
	ctx.JSON(http.StatusOK, res)
}

func fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, dto.ApiResponse{Success: false, Error: message})
}

// failFetch maps use case errors to a status. Validation errors are the
// caller's fault, anything else is unexpected.
func failFetch(ctx *gin.Context, err error, message string) {
	if errors.Is(err, dto.ErrInvalidParams) {
		fail(ctx, http.StatusBadRequest, err.Error())
		return
	}
	logger.FromContext(ctx.Request.Context()).WithField("error", err).Error(message)
	fail(ctx, http.StatusInternalServerError, message)
}

// Search handles GET /api/youtube/search
func (h *YouTubeHandler) Search(ctx *gin.Context) {
	var req dto.YouTubeSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		fail(ctx, http.StatusBadRequest, "Query parameter is required")
		return
	}

	result, err := h.youtubeUseCase.Search(ctx.Request.Context(), req.Query, req.MaxResults)
	if err != nil {
		failFetch(ctx, err, "Failed to search YouTube content")
		return
	}
	respond(ctx, result.Items, result.Fallback)
}

// GetTrendingVideos handles GET /api/youtube/trending
func (h *YouTubeHandler) GetTrendingVideos(ctx *gin.Context) {
	var req dto.YouTubeTrendingRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.youtubeUseCase.GetTrendingVideos(ctx.Request.Context(), req.Region, req.MaxResults)
	if err != nil {
		failFetch(ctx, err, "Failed to fetch trending videos")
		return
	}
	respond(ctx, result.Items, result.Fallback)
}

// GetChannelDetails handles GET /api/youtube/channel/:channelId
func (h *YouTubeHandler) GetChannelDetails(ctx *gin.Context) {
	channelID := ctx.Param("channelId")
	if strings.TrimSpace(channelID) == "" {
		fail(ctx, http.StatusBadRequest, "Channel ID is required")
		return
	}

	result, err := h.youtubeUseCase.GetChannelDetails(ctx.Request.Context(), channelID)
	if err != nil {
		failFetch(ctx, err, "Failed to fetch channel details")
		return
	}
	if result.Items == nil {
		fail(ctx, http.StatusNotFound, "Channel not found")
		return
	}
	respond(ctx, result.Items, result.Fallback)
}

// GetChannelVideos handles GET /api/youtube/channel/:channelId/videos
func (h *YouTubeHandler) GetChannelVideos(ctx *gin.Context) {
	channelID := ctx.Param("channelId")
	if strings.TrimSpace(channelID) == "" {
		fail(ctx, http.StatusBadRequest, "Channel ID is required")
		return
	}
	var req dto.YouTubeChannelVideosRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		fail(ctx, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.youtubeUseCase.GetChannelVideos(ctx.Request.Context(), channelID, req.MaxResults)
	if err != nil {
		failFetch(ctx, err, "Failed to fetch channel videos")
		return
	}
	respond(ctx, result.Items, result.Fallback)
}

// GetVideoDetails handles GET /api/youtube/videos?ids=a,b
func (h *YouTubeHandler) GetVideoDetails(ctx *gin.Context) {
	var ids []string
	for _, raw := range ctx.QueryArray("ids") {
		ids = append(ids, strings.Split(raw, ",")...)
	}

	result, err := h.youtubeUseCase.GetVideoDetails(ctx.Request.Context(), ids)
	if err != nil {
		failFetch(ctx, err, "Failed to fetch video details")
		return
	}
	respond(ctx, result.Items, result.Fallback)
}

// GetKeyStatus handles GET /api/youtube/keys
func (h *YouTubeHandler) GetKeyStatus(ctx *gin.Context) {
	respond(ctx, h.youtubeUseCase.KeyStatus(ctx.Request.Context()), false)
}
