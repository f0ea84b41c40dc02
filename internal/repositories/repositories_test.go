package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, collectionID *uint, title, price string) *models.Product {
	t.Helper()
	p := &models.Product{Title: title, Price: decimal.RequireFromString(price), Inventory: 5, CollectionID: collectionID}
	require.NoError(t, repositories.NewGORMProductRepository(db).Create(context.Background(), p))
	return p
}

func TestCollectionRepository_ProductCount(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := repositories.NewGORMCollectionRepository(db)

	full := &models.Collection{Title: "Kitchen"}
	empty := &models.Collection{Title: "Garden"}
	require.NoError(t, repo.Create(ctx, full))
	require.NoError(t, repo.Create(ctx, empty))
	seedProduct(t, db, &full.ID, "Mug", "9.50")
	seedProduct(t, db, &full.ID, "Pan", "39.90")

	got, err := repo.GetByID(ctx, full.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ProductCount)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ProductCount)
	assert.Equal(t, int64(0), all[1].ProductCount)

	n, err := repo.CountProducts(ctx, empty.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), repositories.ErrNotFound)
}

func TestProductRepository_Filter(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	collections := repositories.NewGORMCollectionRepository(db)
	products := repositories.NewGORMProductRepository(db)

	col := &models.Collection{Title: "Kitchen"}
	require.NoError(t, collections.Create(ctx, col))
	seedProduct(t, db, &col.ID, "Coffee Mug", "9.50")
	seedProduct(t, db, nil, "Tea Mug", "8.00")
	seedProduct(t, db, &col.ID, "Pan", "39.90")

	byCollection, err := products.GetAll(ctx, repositories.ProductFilter{CollectionID: &col.ID})
	require.NoError(t, err)
	assert.Len(t, byCollection, 2)

	bySearch, err := products.GetAll(ctx, repositories.ProductFilter{Search: "mug"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 2)

	both, err := products.GetAll(ctx, repositories.ProductFilter{CollectionID: &col.ID, Search: "mug"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Coffee Mug", both[0].Title)
}

func TestCartRepository_AddItemMerges(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := repositories.NewGORMCartRepository(db)
	mug := seedProduct(t, db, nil, "Mug", "9.50")

	cart := &models.Cart{}
	require.NoError(t, repo.Create(ctx, cart))
	_, err := uuid.Parse(cart.ID)
	require.NoError(t, err)

	first, err := repo.AddItem(ctx, cart.ID, mug.ID, 2)
	require.NoError(t, err)
	second, err := repo.AddItem(ctx, cart.ID, mug.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, mug.ID, second.Product.ID)

	got, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.RequireFromString("47.50").Equal(got.Total()))

	_, err = repo.AddItem(ctx, cart.ID, 999, 1)
	assert.ErrorIs(t, err, repositories.ErrInvalidInput)
	_, err = repo.AddItem(ctx, uuid.NewString(), mug.ID, 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	updated, err := repo.UpdateItemQuantity(ctx, cart.ID, first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Quantity)

	require.NoError(t, repo.Delete(ctx, cart.ID))
	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, repo.Delete(ctx, cart.ID), repositories.ErrNotFound)
}

func TestOrderRepository_CreateFromCart(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	carts := repositories.NewGORMCartRepository(db)
	orders := repositories.NewGORMOrderRepository(db)
	customers := repositories.NewGORMCustomerRepository(db)
	mug := seedProduct(t, db, nil, "Mug", "9.50")
	pan := seedProduct(t, db, nil, "Pan", "39.90")

	customer := &models.Customer{UserID: "alice", Membership: models.MembershipBronze}
	require.NoError(t, customers.Create(ctx, customer))

	t.Run("freezes prices and consumes the cart", func(t *testing.T) {
		cart := &models.Cart{}
		require.NoError(t, carts.Create(ctx, cart))
		_, err := carts.AddItem(ctx, cart.ID, mug.ID, 2)
		require.NoError(t, err)
		_, err = carts.AddItem(ctx, cart.ID, pan.ID, 1)
		require.NoError(t, err)

		order, err := orders.CreateFromCart(ctx, customer.ID, cart.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentPending, order.PaymentStatus)
		require.Len(t, order.Items, 2)

		require.NoError(t, db.Model(&models.Product{}).Where("id = ?", mug.ID).Update("price", decimal.RequireFromString("99")).Error)

		got, err := orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, mug.ID, got.Items[0].ProductID)
		assert.True(t, decimal.RequireFromString("9.50").Equal(got.Items[0].UnitPrice))
		assert.Equal(t, 2, got.Items[0].Quantity)

		_, err = carts.GetByID(ctx, cart.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		n, err := customers.CountOrders(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("empty cart", func(t *testing.T) {
		cart := &models.Cart{}
		require.NoError(t, carts.Create(ctx, cart))
		_, err := orders.CreateFromCart(ctx, customer.ID, cart.ID)
		assert.ErrorIs(t, err, repositories.ErrEmptyCart)
	})

	t.Run("missing cart", func(t *testing.T) {
		_, err := orders.CreateFromCart(ctx, customer.ID, uuid.NewString())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("scoped listing", func(t *testing.T) {
		other := uint(12345)
		list, err := orders.GetAll(ctx, &other)
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = orders.GetAll(ctx, &customer.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestCustomerRepository_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMCustomerRepository(openDB(t))

	require.NoError(t, repo.Create(ctx, &models.Customer{UserID: "alice", Membership: models.MembershipBronze}))
	err := repo.Create(ctx, &models.Customer{UserID: "alice", Membership: models.MembershipGold})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = repo.GetByUserID(ctx, "bob")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductRepository_DeleteKeepsOrderedProducts(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := repositories.NewGORMProductRepository(db)
	mug := seedProduct(t, db, nil, "Mug", "9.50")
	pan := seedProduct(t, db, nil, "Pan", "39.90")

	require.NoError(t, db.Create(&models.Order{CustomerID: 1, PaymentStatus: models.PaymentPending}).Error)
	require.NoError(t, db.Omit("Product").Create(&models.OrderItem{OrderID: 1, ProductID: mug.ID, Quantity: 1, UnitPrice: mug.Price}).Error)
	require.NoError(t, db.Create(&models.ProductReview{ProductID: mug.ID, CustomerName: "Ann", Description: "Sturdy"}).Error)

	err := products.Delete(ctx, mug.ID)
	assert.ErrorIs(t, err, repositories.ErrHasDependents)
	_, err = products.GetByID(ctx, mug.ID)
	require.NoError(t, err)
	var reviews int64
	require.NoError(t, db.Model(&models.ProductReview{}).Where("product_id = ?", mug.ID).Count(&reviews).Error)
	assert.Equal(t, int64(1), reviews)

	require.NoError(t, products.Delete(ctx, pan.ID))
	_, err = products.GetByID(ctx, pan.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, products.Delete(ctx, pan.ID), repositories.ErrNotFound)
}
