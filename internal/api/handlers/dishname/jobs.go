package dishname

import (
	"net/http"
	"time"

	"dish-namer/internal/core/batch"
	"dish-namer/internal/core/dish"
	"dish-namer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterJobRequest 註冊批次工作
type RegisterJobRequest struct {
	JobID      *int   `json:"job_id" binding:"required"`
	MealTypeID string `json:"meal_type_id" binding:"required"`
	Producer   string `json:"producer,omitempty"`
}

// ProcessOutputRequest 批次產出一件物品
type ProcessOutputRequest struct {
	Consumed []dish.Ingredient `json:"consumed_ingredients,omitempty"` // 實際消耗的食材
	Recorded []dish.Ingredient `json:"recorded_ingredients,omitempty"` // 產出物本身記錄的食材
}

// JobResponse 工作狀態
type JobResponse struct {
	JobID        int               `json:"job_id"`
	MealTypeID   string            `json:"meal_type_id"`
	Producer     string            `json:"producer,omitempty"`
	Quality      dish.Quality      `json:"quality"`
	State        string            `json:"state"`
	RegisteredAt time.Time         `json:"registered_at"`
	Name         string            `json:"name,omitempty"`
	Description  string            `json:"description,omitempty"`
	Ingredients  []dish.Ingredient `json:"ingredients,omitempty"`
}

// OutputResponse 產出物取得的菜名
type OutputResponse struct {
	JobID int `json:"job_id"`
	dish.Result
}

// output 以請求內容模擬宿主的產出物
type output struct {
	recorded    []dish.Ingredient
	name        string
	description string
}

func (o *output) AssignDishName(name string)             { o.name = name }
func (o *output) AssignDescription(d string)             { o.description = d }
func (o *output) RecordedIngredients() []dish.Ingredient { return o.recorded }

// HandleRegisterJob 註冊批次工作；重複註冊不會改變既有狀態
func (h *Handler) HandleRegisterJob(c *gin.Context) {
	var req RegisterJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, common.ErrInvalidRequest.WithError(err))
		return
	}
	if req.Producer == "" {
		req.Producer = common.GenerateUUID()
	}

	h.svc.RegisterJob(*req.JobID, req.MealTypeID, req.Producer)
	job, ok := h.svc.Job(*req.JobID)
	if !ok {
		h.respondError(c, common.ErrStoreDisabled)
		return
	}

	common.LogDebug("Job registered via API",
		zap.Int("job_id", job.ID),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusCreated, toJobResponse(job))
}

// HandleProcessOutput 為一件產出物命名
func (h *Handler) HandleProcessOutput(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req ProcessOutputRequest
	if c.Request.ContentLength != 0 {
		if err := common.DecodeJSONStrict(c.Request.Body, &req); err != nil {
			h.respondError(c, common.ErrInvalidRequest.WithError(err))
			return
		}
	}

	if err := checkIngredients(req.Consumed, req.Recorded); err != nil {
		h.respondError(c, err)
		return
	}

	out := &output{recorded: req.Recorded}
	result, ok := h.svc.ProcessOutput(out, id, req.Consumed)
	if !ok {
		h.respondError(c, common.ErrJobNotFound)
		return
	}
	c.JSON(http.StatusOK, OutputResponse{JobID: id, Result: result})
}

// HandleGetJob 查詢工作狀態與菜名
func (h *Handler) HandleGetJob(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	job, ok := h.svc.Job(id)
	if !ok {
		h.respondError(c, common.ErrJobNotFound)
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job))
}

// HandleReleaseJob 釋放工作，可重複呼叫
func (h *Handler) HandleReleaseJob(c *gin.Context) {
	id, err := jobIDParam(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.svc.ReleaseJob(id)
	c.Status(http.StatusNoContent)
}

func toJobResponse(job batch.Job) JobResponse {
	resp := JobResponse{
		JobID:        job.ID,
		MealTypeID:   job.MealTypeID,
		Producer:     job.Producer,
		Quality:      job.Quality,
		State:        job.State().String(),
		RegisteredAt: job.RegisteredAt,
	}
	if n := job.Naming; n != nil {
		resp.Name = dish.FixTwistedMeat(n.Name, n.Ingredients)
		resp.Description = n.Description
		resp.Ingredients = n.Ingredients
	}
	return resp
}
