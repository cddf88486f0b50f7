package dishname

import (
	"net/http"

	"dish-namer/internal/core/dish"
	"dish-namer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ResolveRequest 不經批次追蹤的菜名解析
type ResolveRequest struct {
	Ingredients []dish.Ingredient `json:"ingredients"`
	Quality     string            `json:"quality,omitempty"`
	MealTypeID  string            `json:"meal_type_id,omitempty"` // quality 未提供時由餐點類型推導
}

// HandleResolve 解析菜名與描述；空食材清單回傳固定的神秘菜名
func (h *Handler) HandleResolve(c *gin.Context) {
	var req ResolveRequest
	if err := common.DecodeJSONStrict(c.Request.Body, &req); err != nil {
		h.respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}

	quality, err := parseQuality(req.Quality)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if quality == dish.QualityNone && req.MealTypeID != "" {
		quality = dish.QualityFromMealType(req.MealTypeID)
	}

	if err := checkIngredients(req.Ingredients); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.svc.ResolveAdHoc(req.Ingredients, quality))
}
