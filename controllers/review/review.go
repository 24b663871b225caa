package reviewControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/middleware"
	"github.com/Dantikal/electronik-shop/models"
)

var ErrProductNotFound = errors.New("product does not exist")

type ReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Text   string `json:"text"`
}

// AddReview upserts the caller's review of a product. A user holds at most
// one review per product; resubmitting replaces the text and rating and sends
// the review back through moderation.
func AddReview(db *gorm.DB, productID, userID uint, rating int, text string) (*models.Review, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var review models.Review
	err := db.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		review = models.Review{
			ProductID: productID,
			UserID:    userID,
			Rating:    rating,
			Text:      text,
			Approved:  false,
		}
		if err := db.Create(&review).Error; err != nil {
			return nil, err
		}
		return &review, nil
	}
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Text = text
	review.Approved = false
	if err := db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// POST /products/:id/reviews  (authenticated)
func AddReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)
		if userID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var req ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		review, err := AddReview(db, uint(productID), *userID, req.Rating, req.Text)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save review"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Review submitted and will appear after moderation",
			"review":  review,
		})
	}
}

// PUT /admin/reviews/:id/approve
func AdminApproveReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}

		result := db.Model(&models.Review{}).Where("id = ?", uint(id)).Update("approved", true)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve review"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review approved"})
	}
}
