package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/roshan-ds-tech/shreshta-backend-final/models"
	"github.com/roshan-ds-tech/shreshta-backend-final/shiprocket"
)

// PickupWorker retroactively schedules courier pickups for paid orders whose
// booking got a shipment but whose pickup step failed or whose AWB arrived
// late. It exists because the booking pipeline never blocks a sale on
// shipping: whatever it could not finish lands here.
type PickupWorker struct {
	db         *mongo.Database
	shiprocket *shiprocket.Client
	interval   time.Duration
}

func NewPickupWorker(db *mongo.Database, client *shiprocket.Client, interval time.Duration) *PickupWorker {
	return &PickupWorker{db: db, shiprocket: client, interval: interval}
}

func (w *PickupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info("pickup worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.process(ctx); err != nil {
				log.WithError(err).Error("pickup sweep failed")
			}
		}
	}
}

func (w *PickupWorker) process(ctx context.Context) error {
	cursor, err := w.db.Collection("orders").Find(ctx, bson.M{
		"status":          models.OrderStatusPaid,
		"shipmentId":      bson.M{"$nin": bson.A{nil, ""}},
		"pickupScheduled": false,
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var pending []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			continue
		}
		pending = append(pending, order)
	}
	if len(pending) == 0 {
		return nil
	}

	log.WithField("count", len(pending)).Info("orders awaiting pickup scheduling")

	for _, order := range pending {
		w.scheduleOne(ctx, order)
	}
	return nil
}

func (w *PickupWorker) scheduleOne(ctx context.Context, order models.Order) {
	logger := log.WithField("order_number", order.OrderNumber)

	awb := order.AWBCode
	if awb == "" && order.ShiprocketOrderID != "" {
		doc, err := w.shiprocket.ShowOrder(ctx, order.ShiprocketOrderID)
		if err != nil {
			logger.WithError(err).Warn("pickup sweep: order details fetch failed")
			return
		}
		awb = shiprocket.AWBFromOrderDoc(doc)
		if awb == "" {
			logger.Info("pickup sweep: no AWB yet, skipping")
			return
		}
		if err := w.persist(ctx, order, bson.M{"awbCode": awb}); err != nil {
			logger.WithError(err).Warn("pickup sweep: AWB persist failed")
			return
		}
		logger.WithField("awb", awb).Info("pickup sweep: AWB backfilled")
	}
	if awb == "" {
		logger.Info("pickup sweep: no AWB, skipping")
		return
	}

	scheduled, status, data := w.shiprocket.SchedulePickup(ctx, order.ShipmentID, awb)
	if !scheduled {
		logger.WithField("pickup_status", status).Warn("pickup sweep: scheduling failed")
		return
	}

	err := w.persist(ctx, order, bson.M{
		"pickupScheduled": true,
		"pickupStatus":    status,
		"pickupData":      data,
	})
	if err != nil {
		logger.WithError(err).Warn("pickup sweep: persist failed")
		return
	}
	logger.WithField("awb", awb).Info("pickup sweep: pickup scheduled")
}

func (w *PickupWorker) persist(ctx context.Context, order models.Order, set bson.M) error {
	set["updatedAt"] = time.Now()
	_, err := w.db.Collection("orders").UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": set})
	return err
}
