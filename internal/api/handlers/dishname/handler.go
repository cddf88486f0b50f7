// Package dishname 批次命名與菜名解析的 HTTP 處理程序
package dishname

import (
	"strconv"
	"strings"

	"dish-namer/internal/core/batch"
	"dish-namer/internal/core/dish"
	"dish-namer/internal/core/engine"
	"dish-namer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service 處理程序需要的引擎操作
type Service interface {
	RegisterJob(jobID int, mealTypeID, producer string)
	ProcessOutput(out batch.Output, jobID int, consumed []dish.Ingredient) (dish.Result, bool)
	Job(jobID int) (batch.Job, bool)
	ReleaseJob(jobID int)
	ResolveAdHoc(ingredients []dish.Ingredient, quality dish.Quality) dish.Result
	Reload() error
	Stats() engine.Stats
}

// Handler 菜名處理程序
type Handler struct {
	svc   Service
	debug bool
}

// NewHandler 創建新的菜名處理程序
func NewHandler(svc Service, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.HandleRegisterJob)
		jobs.POST("/:id/outputs", h.HandleProcessOutput)
		jobs.GET("/:id", h.HandleGetJob)
		jobs.DELETE("/:id", h.HandleReleaseJob)
	}

	rg.POST("/dishes/resolve", h.HandleResolve)

	admin := rg.Group("/admin")
	{
		admin.POST("/reload", h.HandleReload)
		admin.GET("/stats", h.HandleStats)
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, body := common.ErrorBody(err, h.debug)
	if status >= 500 {
		common.LogError("Request failed",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func jobIDParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, common.ErrInvalidJob.WithError(err)
	}
	return id, nil
}

// checkIngredients 每個食材都必須有 ID
func checkIngredients(lists ...[]dish.Ingredient) error {
	for _, list := range lists {
		for _, ing := range list {
			if strings.TrimSpace(ing.ID) == "" {
				return common.NewValidationError("ingredient id is required")
			}
		}
	}
	return nil
}

func parseQuality(s string) (dish.Quality, error) {
	q, ok := dish.ParseQuality(s)
	if !ok {
		return dish.QualityNone, common.ErrInvalidQuality
	}
	return q, nil
}
