package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/A111221027/0806/config"
	"github.com/A111221027/0806/models"
	"github.com/A111221027/0806/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func item(name string, quantity int, options string, price *decimal.Decimal) ItemInput {
	return ItemInput{
		ItemName:      strPtr(name),
		Quantity:      intPtr(quantity),
		CustomOptions: strPtr(options),
		Price:         price,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSubmit_CreatesOneOrderAndOneRowPerItem(t *testing.T) {
	tests := []struct {
		name      string
		itemCount int
	}{
		{"no items", 0},
		{"single item", 1},
		{"several items", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, db := testutil.NewTestPool(t)
			svc := NewOrderService(pool)

			items := make([]ItemInput, 0, tt.itemCount)
			for i := 0; i < tt.itemCount; i++ {
				items = append(items, item(fmt.Sprintf("Item %d", i), i+1, "", dec("10")))
			}

			orderID, err := svc.Submit(context.Background(), SubmitOrderInput{
				Items:       items,
				TotalPrice:  dec("100"),
				TableNumber: "3",
			})
			require.NoError(t, err)
			assert.NotZero(t, orderID)

			assert.Equal(t, int64(1), countRows(t, db, &models.Order{}))
			assert.Equal(t, int64(tt.itemCount), countRows(t, db, &models.OrderItem{}))

			var stored []models.OrderItem
			require.NoError(t, db.Order("id ASC").Find(&stored).Error)
			for i, it := range stored {
				assert.Equal(t, orderID, it.OrderID)
				assert.Equal(t, fmt.Sprintf("Item %d", i), *it.ItemName, "items should keep input order")
			}
		})
	}
}

func TestSubmit_TableNumber(t *testing.T) {
	tests := []struct {
		name        string
		tableNumber string
		expected    string
	}{
		{"omitted table number uses sentinel", "", models.UnspecifiedTable},
		{"explicit table number stored verbatim", "A-12", "A-12"},
		{"numeric table number stored verbatim", "5", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, db := testutil.NewTestPool(t)
			svc := NewOrderService(pool)

			orderID, err := svc.Submit(context.Background(), SubmitOrderInput{
				TotalPrice:  dec("0"),
				TableNumber: tt.tableNumber,
			})
			require.NoError(t, err)

			var order models.Order
			require.NoError(t, db.First(&order, orderID).Error)
			assert.Equal(t, tt.expected, order.TableNumber)
		})
	}
}

func TestSubmit_ItemPrice(t *testing.T) {
	pool, db := testutil.NewTestPool(t)
	svc := NewOrderService(pool)

	orderID, err := svc.Submit(context.Background(), SubmitOrderInput{
		Items: []ItemInput{
			item("Tea", 1, "", nil),
			item("Cake", 1, "", dec("45.75")),
		},
		TotalPrice: dec("45.75"),
	})
	require.NoError(t, err)

	var stored []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).Order("id ASC").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.True(t, stored[0].Price.IsZero(), "missing price should be stored as 0")
	assert.True(t, stored[1].Price.Equal(decimal.RequireFromString("45.75")), "explicit price should be stored verbatim")
}

func TestSubmit_TotalPriceIsTrustedVerbatim(t *testing.T) {
	pool, db := testutil.NewTestPool(t)
	svc := NewOrderService(pool)

	orderID, err := svc.Submit(context.Background(), SubmitOrderInput{
		Items:      []ItemInput{item("Tea", 2, "less ice", dec("30"))},
		TotalPrice: dec("99.5"),
	})
	require.NoError(t, err)

	var order models.Order
	require.NoError(t, db.First(&order, orderID).Error)
	require.NotNil(t, order.TotalPrice)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("99.5")))
}

func TestSubmit_RollsBackWhenAnItemInsertFails(t *testing.T) {
	pool, db := testutil.NewTestPool(t)
	svc := NewOrderService(pool)

	itemInserts := 0
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_second_item", func(tx *gorm.DB) {
		if tx.Statement.Table != "order_items" {
			return
		}
		itemInserts++
		if itemInserts == 2 {
			tx.AddError(errors.New("simulated item insert failure"))
		}
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitOrderInput{
		Items: []ItemInput{
			item("Tea", 1, "", dec("30")),
			item("Coffee", 1, "", dec("40")),
			item("Cake", 1, "", dec("50")),
		},
		TotalPrice:  dec("120"),
		TableNumber: "7",
	})
	require.Error(t, err)
	assert.Equal(t, CodeSubmission, ErrorCode(err))
	assert.Contains(t, err.Error(), "simulated item insert failure")

	assert.Equal(t, 2, itemInserts, "no item insert should be attempted after the failure")
	assert.Equal(t, int64(0), countRows(t, db, &models.Order{}), "order row should be rolled back")
	assert.Equal(t, int64(0), countRows(t, db, &models.OrderItem{}), "first item row should be rolled back")
}

func TestSubmit_MissingRequiredValuesSurfaceAsSubmissionError(t *testing.T) {
	tests := []struct {
		name  string
		input SubmitOrderInput
	}{
		{
			name:  "missing total price",
			input: SubmitOrderInput{},
		},
		{
			name: "missing item name",
			input: SubmitOrderInput{
				Items:      []ItemInput{{Quantity: intPtr(1)}},
				TotalPrice: dec("10"),
			},
		},
		{
			name: "missing quantity",
			input: SubmitOrderInput{
				Items:      []ItemInput{{ItemName: strPtr("Tea")}},
				TotalPrice: dec("10"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, db := testutil.NewTestPool(t)
			svc := NewOrderService(pool)

			_, err := svc.Submit(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, CodeSubmission, ErrorCode(err))
			assert.Equal(t, int64(0), countRows(t, db, &models.Order{}))
		})
	}
}

func TestSubmit_ClosedDatabaseIsAConnectError(t *testing.T) {
	pool, db := testutil.NewTestPool(t)
	svc := NewOrderService(pool)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.Submit(context.Background(), SubmitOrderInput{TotalPrice: dec("1")})
	require.Error(t, err)
	assert.Equal(t, CodeConnect, ErrorCode(err))
}

func TestPoolNotReady(t *testing.T) {
	svc := NewOrderService(config.NewPool())
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitOrderInput{TotalPrice: dec("1")})
	assert.Equal(t, CodeConfiguration, ErrorCode(err))
	assert.ErrorIs(t, err, config.ErrPoolNotReady)

	_, err = svc.List(ctx)
	assert.Equal(t, CodeConfiguration, ErrorCode(err))
	assert.ErrorIs(t, err, config.ErrPoolNotReady)

	_, err = svc.Get(ctx, 1)
	assert.Equal(t, CodeConfiguration, ErrorCode(err))
}

func TestList_EmptyIsNotAnError(t *testing.T) {
	pool, _ := testutil.NewTestPool(t)
	svc := NewOrderService(pool)

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestList_NewestFirst(t *testing.T) {
	pool, db := testutil.NewTestPool(t)
	svc := NewOrderService(pool)

	base := time.Date(2024, 8, 6, 12, 0, 0, 0, time.UTC)
	// Inserted out of chronological order on purpose
	offsets := []time.Duration{2 * time.Hour, 0, 5 * time.Hour, time.Hour}
	for i, offset := range offsets {
		order := models.Order{
			TotalPrice:  dec(fmt.Sprintf("%d", (i+1)*10)),
			TableNumber: models.UnspecifiedTable,
			CreatedAt:   base.Add(offset),
		}
		require.NoError(t, db.Create(&order).Error)
	}

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, len(offsets))

	for i := 1; i < len(summaries); i++ {
		assert.True(t, summaries[i-1].CreatedAt.After(summaries[i].CreatedAt),
			"orders should be sorted by created_at descending")
	}
	assert.True(t, summaries[0].TotalPrice.Equal(decimal.NewFromInt(30)))
	assert.True(t, summaries[len(summaries)-1].TotalPrice.Equal(decimal.NewFromInt(20)))
}

func TestGet(t *testing.T) {
	pool, _ := testutil.NewTestPool(t)
	svc := NewOrderService(pool)
	ctx := context.Background()

	orderID, err := svc.Submit(ctx, SubmitOrderInput{
		Items: []ItemInput{
			item("Tea", 2, "less ice", dec("30")),
			item("Toast", 1, "", nil),
		},
		TotalPrice:  dec("60"),
		TableNumber: "5",
	})
	require.NoError(t, err)

	t.Run("returns order with items", func(t *testing.T) {
		order, err := svc.Get(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, "5", order.TableNumber)
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Tea", *order.Items[0].ItemName)
		assert.Equal(t, 2, *order.Items[0].Quantity)
		assert.Equal(t, "less ice", *order.Items[0].CustomOptions)
		assert.Equal(t, "Toast", *order.Items[1].ItemName)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, orderID+100)
		require.Error(t, err)
		assert.Equal(t, CodeNotFound, ErrorCode(err))
	})
}
