package repo

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	// Every connection of an in-memory sqlite is its own database, so the
	// pool must stay at one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}, &models.SavedProduct{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestRepo(t *testing.T) *GormRepo {
	return &GormRepo{DB: InitTestDB(t)}
}

func createProduct(t *testing.T, r *GormRepo, name string, price string) uuid.UUID {
	p := models.Product{
		Name:        name,
		Description: "test product",
		Price:       decimal.RequireFromString(price),
		Image:       "/img/" + name + ".png",
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return p.ID
}

func itemQuantity(t *testing.T, r *GormRepo, owner domain.Owner, productID uuid.UUID) int {
	userID, sessionID := owner.Columns()
	var item models.CartItem
	err := r.DB.Where("user_id = ? AND session_id = ? AND product_id = ?", userID, sessionID, productID).
		First(&item).Error
	require.NoError(t, err)
	return item.Quantity
}

func TestAddItem_CreatesClamped(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	productID := createProduct(t, r, "bottle", "19.90")

	tests := []struct {
		name  string
		delta int
		want  int
	}{
		{name: "normal delta", delta: 3, want: 3},
		{name: "overflow clamps to 99", delta: 150, want: 99},
		{name: "zero clamps up to 1", delta: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, r.RemoveItem(ctx, owner, productID))
			require.NoError(t, r.AddItem(ctx, owner, productID, tt.delta))
			require.Equal(t, tt.want, itemQuantity(t, r, owner, productID))
		})
	}
}

func TestAddItem_CombinesWithoutDuplicates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	productID := createProduct(t, r, "bottle", "19.90")

	require.NoError(t, r.AddItem(ctx, owner, productID, 5))
	require.NoError(t, r.AddItem(ctx, owner, productID, 7))

	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
	require.Equal(t, 12, itemQuantity(t, r, owner, productID))

	require.NoError(t, r.AddItem(ctx, owner, productID, 95))
	require.Equal(t, 99, itemQuantity(t, r, owner, productID))
}

func TestAddItem_OwnersDoNotShareRows(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	productID := createProduct(t, r, "bottle", "19.90")

	session := domain.AnonymousOwner("sess-1")
	user := domain.AuthenticatedOwner("user-1")

	require.NoError(t, r.AddItem(ctx, session, productID, 2))
	require.NoError(t, r.AddItem(ctx, user, productID, 5))

	require.Equal(t, 2, itemQuantity(t, r, session, productID))
	require.Equal(t, 5, itemQuantity(t, r, user, productID))
}

func TestAddItem_RequiresOwner(t *testing.T) {
	r := newTestRepo(t)
	err := r.AddItem(context.Background(), domain.Owner{}, uuid.New(), 1)
	require.ErrorIs(t, err, domain.ErrNoOwner)
}

func TestSetQuantity(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	productID := createProduct(t, r, "bottle", "19.90")

	require.NoError(t, r.SetQuantity(ctx, owner, productID, 4))
	require.Equal(t, 4, itemQuantity(t, r, owner, productID))

	require.NoError(t, r.SetQuantity(ctx, owner, productID, 150))
	require.Equal(t, 99, itemQuantity(t, r, owner, productID))

	require.NoError(t, r.SetQuantity(ctx, owner, productID, 0))
	items, err := r.Items(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, items)

	// deleting an absent row is a success
	require.NoError(t, r.SetQuantity(ctx, owner, productID, 0))
}

func TestRemoveItem_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	productID := createProduct(t, r, "bottle", "19.90")

	require.NoError(t, r.RemoveItem(ctx, owner, productID))

	require.NoError(t, r.AddItem(ctx, owner, productID, 2))
	require.NoError(t, r.RemoveItem(ctx, owner, productID))
	require.NoError(t, r.RemoveItem(ctx, owner, productID))

	items, err := r.Items(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestClear(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	other := domain.AnonymousOwner("sess-2")
	p1 := createProduct(t, r, "bottle", "19.90")
	p2 := createProduct(t, r, "tabs", "7.50")

	require.NoError(t, r.AddItem(ctx, owner, p1, 1))
	require.NoError(t, r.AddItem(ctx, owner, p2, 2))
	require.NoError(t, r.AddItem(ctx, other, p1, 3))

	require.NoError(t, r.Clear(ctx, owner))

	items, err := r.Items(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, items)

	// the other owner's cart is untouched
	require.Equal(t, 3, itemQuantity(t, r, other, p1))
}

func TestCartView_OrphansInvisible(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	productID := createProduct(t, r, "bottle", "19.90")
	ghostID := uuid.New()

	require.NoError(t, r.AddItem(ctx, owner, productID, 2))

	// a row whose product never existed: accepted on write, invisible on read
	ghost := models.CartItem{SessionID: "sess-1", ProductID: ghostID, Quantity: 1}
	require.NoError(t, r.DB.Create(&ghost).Error)

	lines, err := r.CartView(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, productID, lines[0].ProductID)
	require.Equal(t, "bottle", lines[0].Name)
	require.Equal(t, 2, lines[0].Quantity)
	require.True(t, lines[0].Price.Equal(decimal.RequireFromString("19.90")))
}

func TestMergeItem_Combine(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	productID := createProduct(t, r, "bottle", "19.90")
	session := domain.AnonymousOwner("sess-1")
	user := domain.AuthenticatedOwner("user-1")

	require.NoError(t, r.AddItem(ctx, session, productID, 5))
	require.NoError(t, r.AddItem(ctx, user, productID, 3))

	require.NoError(t, r.MergeItem(ctx, "sess-1", "user-1", productID))

	require.Equal(t, 8, itemQuantity(t, r, user, productID))
	items, err := r.Items(ctx, session)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestMergeItem_CombineClamps(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	productID := createProduct(t, r, "bottle", "19.90")
	session := domain.AnonymousOwner("sess-1")
	user := domain.AuthenticatedOwner("user-1")

	require.NoError(t, r.AddItem(ctx, session, productID, 60))
	require.NoError(t, r.AddItem(ctx, user, productID, 50))

	require.NoError(t, r.MergeItem(ctx, "sess-1", "user-1", productID))

	require.Equal(t, 99, itemQuantity(t, r, user, productID))
}

func TestMergeItem_Transfer(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	productID := createProduct(t, r, "bottle", "19.90")
	session := domain.AnonymousOwner("sess-1")
	user := domain.AuthenticatedOwner("user-1")

	require.NoError(t, r.AddItem(ctx, session, productID, 4))

	require.NoError(t, r.MergeItem(ctx, "sess-1", "user-1", productID))

	require.Equal(t, 4, itemQuantity(t, r, user, productID))
	items, err := r.Items(ctx, session)
	require.NoError(t, err)
	require.Empty(t, items)

	// keeps its updated_at advanced and identity: still a single row
	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestMergeItem_AlreadyMergedIsNoop(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	productID := createProduct(t, r, "bottle", "19.90")
	session := domain.AnonymousOwner("sess-1")
	user := domain.AuthenticatedOwner("user-1")

	require.NoError(t, r.AddItem(ctx, session, productID, 4))
	require.NoError(t, r.MergeItem(ctx, "sess-1", "user-1", productID))
	require.NoError(t, r.MergeItem(ctx, "sess-1", "user-1", productID))

	require.Equal(t, 4, itemQuantity(t, r, user, productID))
}

func TestAddItem_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	productID := createProduct(t, r, "bottle", "19.90")

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.AddItem(ctx, owner, productID, 1)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 2, itemQuantity(t, r, owner, productID))
}
