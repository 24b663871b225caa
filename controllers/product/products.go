package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/models"
)

// PageSize is the fixed page size for every listing endpoint.
const PageSize = 12

var sortOrders = map[string]string{
	"name":        "name ASC",
	"price":       "price ASC",
	"-price":      "price DESC",
	"-created_at": "created_at DESC",
}

func page(c *gin.Context) int {
	p, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func totalPages(total int64) int64 {
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// GET /products
// Filters: category_id, brand (substring), price_min, price_max, in_stock,
// sort_by, page. Bad filter values are ignored — listing never errors at the
// user, empty results render as empty lists.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Where("available = ?", true)

		if categoryID := c.Query("category_id"); categoryID != "" {
			if cid, err := strconv.ParseUint(categoryID, 10, 64); err == nil {
				query = query.Where("category_id = ?", uint(cid))
			}
		}
		if brand := c.Query("brand"); brand != "" {
			query = query.Where("LOWER(brand) LIKE LOWER(?)", "%"+brand+"%")
		}
		if minPrice := c.Query("price_min"); minPrice != "" {
			if mp, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", mp)
			}
		}
		if maxPrice := c.Query("price_max"); maxPrice != "" {
			if mp, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", mp)
			}
		}
		if inStock := c.Query("in_stock"); inStock == "1" || inStock == "true" {
			query = query.Where("stock > 0")
		}

		order, ok := sortOrders[c.Query("sort_by")]
		if !ok {
			order = "created_at DESC"
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		p := page(c)
		var products []models.Product
		if err := query.Preload("Category").
			Order(order).
			Limit(PageSize).
			Offset((p - 1) * PageSize).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products":    products,
			"page":        p,
			"total":       total,
			"total_pages": totalPages(total),
		})
	}
}

// GET /search?q=
// Case-insensitive substring match over name OR description. An empty query
// is an empty result, never an error.
func SearchProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusOK, gin.H{"products": []models.Product{}, "query": q, "page": 1, "total": 0, "total_pages": 1})
			return
		}

		pattern := "%" + q + "%"
		query := db.Model(&models.Product{}).
			Where("available = ?", true).
			Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}

		p := page(c)
		var products []models.Product
		if err := query.Limit(PageSize).Offset((p - 1) * PageSize).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products":    products,
			"query":       q,
			"page":        p,
			"total":       total,
			"total_pages": totalPages(total),
		})
	}
}

// productReview is the public shape of a review: the reviewer's name only,
// never their account fields.
type productReview struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Reviewer  string    `json:"reviewer"`
	CreatedAt time.Time `json:"created_at"`
}

// GET /products/:id
// Product detail with its category, approved reviews, average rating and up
// to four related products from the same category.
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		var reviews []models.Review
		if err := db.Preload("User").
			Where("product_id = ? AND approved = ?", product.ID, true).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
			return
		}

		entries := make([]productReview, 0, len(reviews))
		for _, r := range reviews {
			entries = append(entries, productReview{
				ID:        r.ID,
				Rating:    r.Rating,
				Text:      r.Text,
				Reviewer:  strings.TrimSpace(r.User.FirstName + " " + r.User.LastName),
				CreatedAt: r.CreatedAt,
			})
		}

		var avgRating float64
		db.Model(&models.Review{}).
			Where("product_id = ? AND approved = ?", product.ID, true).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avgRating)

		var related []models.Product
		db.Where("category_id = ? AND available = ? AND id <> ?", product.CategoryID, true, product.ID).
			Limit(4).
			Find(&related)

		c.JSON(http.StatusOK, gin.H{
			"product":          product,
			"reviews":          entries,
			"average_rating":   avgRating,
			"related_products": related,
		})
	}
}

type homeCategory struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ProductCount int64  `json:"product_count"`
}

// GET /
// Storefront landing data: top categories with product counts, featured
// products and the newest arrivals.
func Home(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []homeCategory
		if err := db.Model(&models.Category{}).
			Select("categories.id, categories.name, categories.slug, categories.description, COUNT(products.id) AS product_count").
			Joins("LEFT JOIN products ON products.category_id = categories.id").
			Group("categories.id").
			Limit(6).
			Scan(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}

		var featured []models.Product
		if err := db.Where("available = ?", true).Limit(8).Find(&featured).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		var newest []models.Product
		if err := db.Where("available = ?", true).Order("created_at DESC").Limit(8).Find(&newest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"categories":        categories,
			"featured_products": featured,
			"new_products":      newest,
		})
	}
}
