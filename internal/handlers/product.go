// internal/handlers/product.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lookmate/lookmate-backend/internal/i18n"
	"github.com/lookmate/lookmate-backend/internal/services"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /api/products/similar
func (h *ProductHandler) Similar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var params services.SimilarProductParams
	if err := c.ShouldBindQuery(&params); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "query"), err.Error())
		return
	}

	products, err := h.productService.FindSimilar(userID, &params)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

// POST /api/products/preview
func (h *ProductHandler) Preview(c *gin.Context) {
	var req services.PreviewRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.productService.Preview(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{"item": item})
}
