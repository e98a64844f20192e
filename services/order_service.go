package services

import (
	"context"

	"github.com/A111221027/0806/config"
	"github.com/A111221027/0806/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService defines the operations available on orders
type OrderService interface {
	// Submit stores an order and its items and returns the new order id
	Submit(ctx context.Context, input SubmitOrderInput) (uint, error)

	// List returns every order, newest first, without items
	List(ctx context.Context) ([]models.OrderSummary, error)

	// Get returns one order together with its items
	Get(ctx context.Context, id uint) (*models.Order, error)
}

// SubmitOrderInput is an order as submitted by a client.
// Nil pointers are written as NULL; the database decides whether that is acceptable.
type SubmitOrderInput struct {
	Items       []ItemInput
	TotalPrice  *decimal.Decimal
	TableNumber string
}

// ItemInput is one line of a submitted order
type ItemInput struct {
	ItemName      *string
	Quantity      *int
	CustomOptions *string
	Price         *decimal.Decimal
}

// GormOrderService implements OrderService on top of the shared connection pool
type GormOrderService struct {
	pool *config.Pool
}

// NewOrderService creates an order service backed by pool
func NewOrderService(pool *config.Pool) *GormOrderService {
	return &GormOrderService{pool: pool}
}

func (s *GormOrderService) db(ctx context.Context) (*gorm.DB, error) {
	db, err := s.pool.GetDB()
	if err != nil {
		return nil, NewOrderError(CodeConfiguration, "database pool not ready", err)
	}
	return db.WithContext(ctx), nil
}

// Submit inserts the order row and then one row per item, in input order,
// on a single transaction. Any failure rolls back the whole order.
func (s *GormOrderService) Submit(ctx context.Context, input SubmitOrderInput) (uint, error) {
	db, err := s.db(ctx)
	if err != nil {
		return 0, err
	}

	var orderID uint
	begun := false
	err = db.Transaction(func(tx *gorm.DB) error {
		begun = true

		order := models.Order{
			TotalPrice:  input.TotalPrice,
			TableNumber: tableNumberOrDefault(input.TableNumber),
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}

		for _, in := range input.Items {
			item := models.OrderItem{
				OrderID:       order.ID,
				ItemName:      in.ItemName,
				Quantity:      in.Quantity,
				CustomOptions: in.CustomOptions,
				Price:         priceOrZero(in.Price),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		if !begun {
			return 0, NewOrderError(CodeConnect, "failed to acquire database connection", err)
		}
		return 0, NewOrderError(CodeSubmission, "failed to submit order", err)
	}

	return orderID, nil
}

// List returns id, total price and creation time of every order, newest first
func (s *GormOrderService) List(ctx context.Context) ([]models.OrderSummary, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.OrderSummary, 0)
	err = db.Model(&models.Order{}).
		Select("id", "total_price", "created_at").
		Order("created_at DESC").
		Order("id DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, NewOrderError(CodeQuery, "failed to list orders", err)
	}

	return summaries, nil
}

// Get returns the order with its items in the order they were submitted
func (s *GormOrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	}).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewOrderError(CodeNotFound, "order not found", err)
		}
		return nil, NewOrderError(CodeQuery, "failed to load order", err)
	}

	return &order, nil
}

func tableNumberOrDefault(tableNumber string) string {
	if tableNumber == "" {
		return models.UnspecifiedTable
	}
	return tableNumber
}

func priceOrZero(price *decimal.Decimal) decimal.Decimal {
	if price == nil {
		return decimal.Zero
	}
	return *price
}
