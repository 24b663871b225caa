package reviewControllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Review{},
	))
	return db
}

func setupProductAndUser(t *testing.T, db *gorm.DB) (models.Product, models.User) {
	t.Helper()
	category := models.Category{Name: "Tools", Slug: "tools"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       "Drill",
		Slug:       "drill",
		CategoryID: category.ID,
		Price:      decimal.NewFromInt(10),
		Available:  true,
	}
	require.NoError(t, db.Create(&product).Error)
	user := models.User{Email: "a@example.com", PasswordHash: "x", FirstName: "A"}
	require.NoError(t, db.Create(&user).Error)
	return product, user
}

func TestAddReviewStartsUnapproved(t *testing.T) {
	db := newTestDB(t)
	product, user := setupProductAndUser(t, db)

	review, err := AddReview(db, product.ID, user.ID, 5, "great drill")
	require.NoError(t, err)
	require.False(t, review.Approved)
}

func TestAddReviewUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	_, user := setupProductAndUser(t, db)

	_, err := AddReview(db, 999, user.ID, 5, "x")
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestResubmissionUpdatesInPlace(t *testing.T) {
	db := newTestDB(t)
	product, user := setupProductAndUser(t, db)

	first, err := AddReview(db, product.ID, user.ID, 5, "great drill")
	require.NoError(t, err)

	// Approve, then resubmit: still one row, back through moderation.
	require.NoError(t, db.Model(first).Update("approved", true).Error)

	second, err := AddReview(db, product.ID, user.ID, 2, "broke after a week")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 2, second.Rating)
	require.False(t, second.Approved)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", product.ID, user.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestReviewsByDifferentUsersCoexist(t *testing.T) {
	db := newTestDB(t)
	product, user := setupProductAndUser(t, db)
	other := models.User{Email: "b@example.com", PasswordHash: "x", FirstName: "B"}
	require.NoError(t, db.Create(&other).Error)

	_, err := AddReview(db, product.ID, user.ID, 5, "great")
	require.NoError(t, err)
	_, err = AddReview(db, product.ID, other.ID, 3, "ok")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&count).Error)
	require.EqualValues(t, 2, count)
}
