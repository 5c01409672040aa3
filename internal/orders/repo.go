package orders

import (
	"context"
	"errors"
	"time"

	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/repo"
	"github.com/brazzaeats/brazzaeats-backend/pkg/db"
	dbtypes "github.com/brazzaeats/brazzaeats-backend/pkg/db/types"
	"github.com/brazzaeats/brazzaeats-backend/pkg/enums"
	pkgerrors "github.com/brazzaeats/brazzaeats-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchivedOrder is the persisted copy of a materialized order.
type ArchivedOrder struct {
	ID              uuid.UUID                 `gorm:"type:text;primaryKey"`
	SessionID       string                    `gorm:"not null;uniqueIndex:idx_orders_session_order"`
	OrderID         string                    `gorm:"not null;uniqueIndex:idx_orders_session_order"`
	RestaurantID    string                    `gorm:"not null"`
	RestaurantName  string                    `gorm:"not null"`
	Subtotal        int64                     `gorm:"not null"`
	DeliveryFee     int64                     `gorm:"not null"`
	Total           int64                     `gorm:"not null"`
	Status          enums.OrderStatus         `gorm:"type:text;not null"`
	PaymentMethod   enums.PaymentMethod       `gorm:"type:text;not null"`
	DeliveryAddress string                    `gorm:"not null"`
	Items           dbtypes.JSON[[]cart.Item] `gorm:"not null"`
	PlacedAt        time.Time                 `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ArchivedOrder) TableName() string { return "orders" }

// Archive persists orders beyond the lifetime of a session snapshot.
type Archive interface {
	Save(ctx context.Context, sessionID string, order Order) error
	UpdateStatus(ctx context.Context, sessionID, orderID string, status enums.OrderStatus) error
	ListBySession(ctx context.Context, sessionID string) ([]Order, error)
}

type archive struct {
	repo.Base
	newID func() uuid.UUID
}

// NewArchive builds an order archive bound to the provided DB.
func NewArchive(conn *gorm.DB) Archive {
	return &archive{Base: repo.NewBase(conn), newID: uuid.New}
}

func (a *archive) Save(ctx context.Context, sessionID string, order Order) error {
	record := ArchivedOrder{
		ID:              a.newID(),
		SessionID:       sessionID,
		OrderID:         order.ID,
		RestaurantID:    order.RestaurantID,
		RestaurantName:  order.RestaurantName,
		Subtotal:        order.Subtotal,
		DeliveryFee:     order.DeliveryFee,
		Total:           order.Total,
		Status:          order.Status,
		PaymentMethod:   order.PaymentMethod,
		DeliveryAddress: order.DeliveryAddress,
		Items:           dbtypes.NewJSON(order.Items),
		PlacedAt:        order.Date,
	}
	if err := a.DB(ctx).Create(&record).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already archived").
				WithDetails(map[string]any{"order_id": order.ID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive order")
	}
	return nil
}

func (a *archive) UpdateStatus(ctx context.Context, sessionID, orderID string, status enums.OrderStatus) error {
	res := a.DB(ctx).
		Model(&ArchivedOrder{}).
		Where("session_id = ? AND order_id = ?", sessionID, orderID).
		Update("status", status)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update archived order status")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "archived order not found").
			WithDetails(map[string]any{"order_id": orderID})
	}
	return nil
}

func (a *archive) ListBySession(ctx context.Context, sessionID string) ([]Order, error) {
	var records []ArchivedOrder
	err := a.DB(ctx).
		Where("session_id = ?", sessionID).
		Order("placed_at DESC").
		Find(&records).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list archived orders")
	}
	out := make([]Order, 0, len(records))
	for _, r := range records {
		out = append(out, Order{
			ID:              r.OrderID,
			Items:           r.Items.Val,
			RestaurantID:    r.RestaurantID,
			RestaurantName:  r.RestaurantName,
			Subtotal:        r.Subtotal,
			DeliveryFee:     r.DeliveryFee,
			Total:           r.Total,
			Status:          r.Status,
			Date:            r.PlacedAt.UTC(),
			DeliveryAddress: r.DeliveryAddress,
			PaymentMethod:   r.PaymentMethod,
		})
	}
	return out, nil
}
