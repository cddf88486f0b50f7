package dishname

import (
	"net/http"

	"dish-namer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HandleReload 重新載入菜名資料；失敗時保留舊資料並回傳錯誤
func (h *Handler) HandleReload(c *gin.Context) {
	if err := h.svc.Reload(); err != nil {
		h.respondError(c, common.ErrReloadFailed.WithError(err))
		return
	}
	c.JSON(http.StatusOK, h.svc.Stats().Database)
}

// HandleStats 引擎統計
func (h *Handler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}
