package recipe

import (
	"errors"
	"net/http"

	"recipe-normalizer/internal/core/service"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const jsonContentType = "application/json; charset=utf-8"

// Handler 食譜集合處理器
type Handler struct {
	catalog *service.Catalog
}

// NewHandler 創建食譜集合處理器
func NewHandler(catalog *service.Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// HandleCollectionFile 回傳 recipes.json 的原始內容
func (h *Handler) HandleCollectionFile(c *gin.Context) {
	data, err := h.catalog.Raw(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, data)
}

// HandleRecipes 回傳正規化後的食譜集合
func (h *Handler) HandleRecipes(c *gin.Context) {
	data, err := h.catalog.Recipes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, jsonContentType, data)
}

// HandleIngredients 回傳所有食譜的食材名稱
func (h *Handler) HandleIngredients(c *gin.Context) {
	names, err := h.catalog.Ingredients(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredients": names,
		"count":       len(names),
	})
}

// writeError 將錯誤對應到 HTTP 狀態碼
func writeError(c *gin.Context, err error) {
	var notFound *common.NotFoundError

	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.As(err, &notFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case common.IsInputError(err), common.IsDataError(err):
		status, code = http.StatusUnprocessableEntity, "INVALID_COLLECTION"
	}

	if status >= http.StatusInternalServerError {
		common.LogError("Failed to load collection", zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}
