package orderControllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Dantikal/electronik-shop/config"
	cartControllers "github.com/Dantikal/electronik-shop/controllers/cart"
	"github.com/Dantikal/electronik-shop/middleware"
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
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name, slug string, price int64) models.Product {
	t.Helper()
	category := models.Category{Name: "Tools " + slug, Slug: "tools-" + slug}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{
		Name:       name,
		Slug:       slug,
		CategoryID: category.ID,
		Price:      decimal.NewFromInt(price),
		Stock:      10,
		Available:  true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func deliveryInfo() CheckoutRequest {
	return CheckoutRequest{
		FirstName: "Ivan",
		LastName:  "Petrov",
		Email:     "ivan@example.com",
		Phone:     "+996555123456",
		Address:   "Chuy 1",
		City:      "Bishkek",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{SessionKey: "sess-1"})
	require.NoError(t, err)

	_, err = Checkout(db, cart, nil, deliveryInfo())
	require.ErrorIs(t, err, ErrEmptyCart)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestCheckoutSnapshotsPricesAndClearsCart(t *testing.T) {
	db := newTestDB(t)
	drill := createProduct(t, db, "Drill", "drill", 10)
	saw := createProduct(t, db, "Saw", "saw", 5)
	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{SessionKey: "sess-1"})
	require.NoError(t, err)

	require.NoError(t, cartControllers.AddItem(db, cart, drill.ID, 2, false))
	require.NoError(t, cartControllers.AddItem(db, cart, saw.ID, 1, false))

	order, err := Checkout(db, cart, nil, deliveryInfo())
	require.NoError(t, err)

	require.True(t, order.TotalPrice.Equal(decimal.NewFromInt(25)), "got %s", order.TotalPrice)
	require.Equal(t, models.PaymentMethodTelegram, order.PaymentMethod)
	require.Equal(t, models.OrderStatusProcessing, order.Status)
	require.False(t, order.Paid)
	require.Len(t, order.Items, 2)

	byProduct := map[uint]models.OrderItem{}
	for _, item := range order.Items {
		byProduct[item.ProductID] = item
	}
	require.True(t, byProduct[drill.ID].Price.Equal(decimal.NewFromInt(10)))
	require.Equal(t, 2, byProduct[drill.ID].Quantity)
	require.True(t, byProduct[saw.ID].Price.Equal(decimal.NewFromInt(5)))
	require.Equal(t, 1, byProduct[saw.ID].Quantity)

	items, err := cartControllers.CartItems(db, cart)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCheckoutAttachesUser(t *testing.T) {
	db := newTestDB(t)
	drill := createProduct(t, db, "Drill", "drill", 10)
	user := models.User{Email: "ivan@example.com", PasswordHash: "x", FirstName: "Ivan"}
	require.NoError(t, db.Create(&user).Error)

	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{UserID: &user.ID})
	require.NoError(t, err)
	require.NoError(t, cartControllers.AddItem(db, cart, drill.ID, 1, false))

	order, err := Checkout(db, cart, &user.ID, deliveryInfo())
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	require.Equal(t, user.ID, *order.UserID)
}

func TestOrderImmuneToLaterPriceChange(t *testing.T) {
	db := newTestDB(t)
	drill := createProduct(t, db, "Drill", "drill", 10)
	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{SessionKey: "sess-1"})
	require.NoError(t, err)
	require.NoError(t, cartControllers.AddItem(db, cart, drill.ID, 2, false))

	order, err := Checkout(db, cart, nil, deliveryInfo())
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", drill.ID).
		Update("price", decimal.NewFromInt(100)).Error)

	var reloaded models.Order
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	require.True(t, reloaded.TotalPrice.Equal(decimal.NewFromInt(20)), "got %s", reloaded.TotalPrice)
	require.Len(t, reloaded.Items, 1)
	require.True(t, reloaded.Items[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestSecondCheckoutOfClearedCartFails(t *testing.T) {
	db := newTestDB(t)
	drill := createProduct(t, db, "Drill", "drill", 10)
	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{SessionKey: "sess-1"})
	require.NoError(t, err)
	require.NoError(t, cartControllers.AddItem(db, cart, drill.ID, 1, false))

	_, err = Checkout(db, cart, nil, deliveryInfo())
	require.NoError(t, err)

	_, err = Checkout(db, cart, nil, deliveryInfo())
	require.ErrorIs(t, err, ErrEmptyCart)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.EqualValues(t, 1, orders)
}

func checkoutRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ShopName:                "Electronik",
		Currency:                "som",
		TelegramManagerUsername: "shop_manager",
	}
	r := gin.New()
	r.POST("/checkout", CheckoutHandler(db, cfg))
	return r
}

func postCheckout(t *testing.T, r *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "sess-1"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkoutForm() url.Values {
	return url.Values{
		"first_name": {"Ivan"},
		"last_name":  {"Petrov"},
		"email":      {"ivan@example.com"},
		"phone":      {"+996555123456"},
		"address":    {"Chuy 1"},
		"city":       {"Bishkek"},
	}
}

func TestCheckoutHandlerRedirectsToTelegramLink(t *testing.T) {
	db := newTestDB(t)
	drill := createProduct(t, db, "Drill", "drill", 10)
	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{SessionKey: "sess-1"})
	require.NoError(t, err)
	require.NoError(t, cartControllers.AddItem(db, cart, drill.ID, 2, false))

	w := postCheckout(t, checkoutRouter(db), checkoutForm())
	require.Equal(t, http.StatusSeeOther, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "https://t.me/shop_manager?text="), location)
	require.NotContains(t, location, " ")
	require.NotContains(t, location, "\n")

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.EqualValues(t, 1, orders)

	items, err := cartControllers.CartItems(db, cart)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	db := newTestDB(t)

	w := postCheckout(t, checkoutRouter(db), checkoutForm())
	require.Equal(t, http.StatusBadRequest, w.Code)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestCheckoutHandlerRejectsIncompleteForm(t *testing.T) {
	db := newTestDB(t)
	drill := createProduct(t, db, "Drill", "drill", 10)
	cart, err := cartControllers.ResolveCart(db, cartControllers.Identity{SessionKey: "sess-1"})
	require.NoError(t, err)
	require.NoError(t, cartControllers.AddItem(db, cart, drill.ID, 1, false))

	form := checkoutForm()
	form.Del("email")
	w := postCheckout(t, checkoutRouter(db), form)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The cart survives a rejected form.
	items, err := cartControllers.CartItems(db, cart)
	require.NoError(t, err)
	require.Len(t, items, 1)
}
