package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	domain "github.com/rma010101/ecommerce-fullstack/internal/entity"
	"github.com/rma010101/ecommerce-fullstack/internal/usecase"
)

type ProductHandler struct {
	products *usecase.Products
}

func NewProductHandler(products *usecase.Products) *ProductHandler {
	return &ProductHandler{products: products}
}

type productReq struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	SKU         string  `json:"sku" binding:"required"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
}

func (r productReq) toDomain() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		SKU:         r.SKU,
		Category:    r.Category,
		Brand:       r.Brand,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.GetAllProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	p, err := h.products.CreateProduct(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) CreateBulk(c *gin.Context) {
	var reqs []productReq
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	products := make([]domain.Product, len(reqs))
	for i, r := range reqs {
		products[i] = *r.toDomain()
	}
	created, err := h.products.CreateBulkProducts(c.Request.Context(), products)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	p, err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) SearchByName(c *gin.Context) {
	name := c.Query("name")
	if name != "" {
		products, err := h.products.SearchByName(c.Request.Context(), name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}
	if text := c.Query("description"); text != "" {
		products, err := h.products.SearchByDescription(c.Request.Context(), text)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "name or description query required"})
}

func (h *ProductHandler) PriceRange(c *gin.Context) {
	min, err1 := strconv.ParseFloat(c.Query("min"), 64)
	max, err2 := strconv.ParseFloat(c.Query("max"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min and max query params required"})
		return
	}
	products, err := h.products.GetByPriceRange(c.Request.Context(), min, max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	threshold, err := strconv.Atoi(c.DefaultQuery("threshold", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold"})
		return
	}
	products, err := h.products.GetLowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) InStock(c *gin.Context) {
	products, err := h.products.GetInStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ByCategory(c *gin.Context) {
	products, err := h.products.GetByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) ByBrand(c *gin.Context) {
	products, err := h.products.GetByBrand(c.Request.Context(), c.Param("brand"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) UpdateInventory(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity query param required"})
		return
	}
	p, err := h.products.UpdateQuantity(c.Request.Context(), c.Param("id"), quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) UpdatePrice(c *gin.Context) {
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price query param required"})
		return
	}
	p, err := h.products.UpdatePrice(c.Request.Context(), c.Param("id"), price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
