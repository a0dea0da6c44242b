package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/metrics"
	"github.com/roshan-ds-tech/shreshta-backend-final/models"
	"github.com/roshan-ds-tech/shreshta-backend-final/shiprocket"
)

// GetUserOrders lists a user's orders, newest first.
func GetUserOrders(c echo.Context) error {
	username := c.QueryParam("username")
	if username == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Username parameter is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.DB.Collection("users").FindOne(ctx, bson.M{"username": username}).Err(); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	cursor, err := database.DB.Collection("orders").Find(
		ctx,
		bson.M{"username": username},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			continue
		}
		orders = append(orders, order)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
		"count":   len(orders),
	})
}

// GetOrderTracking reconciles an order against live courier tracking. When
// the AWB is missing it tries once to backfill it from the order document;
// if the AWB still is not there, that is a normal "not yet available" state,
// not an error. Status only ever moves forward.
func GetOrderTracking(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := database.DB.Collection("orders")
	var order models.Order
	if err := collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	awb := order.AWBCode
	if awb == "" && order.ShipmentID != "" && order.ShiprocketOrderID != "" {
		if found := backfillAWB(ctx, &order); found != "" {
			awb = found
		}
	}

	if awb == "" {
		return c.JSON(http.StatusOK, map[string]any{
			"success":                 false,
			"error":                   "Tracking information not available yet",
			"message":                 "AWB code not available. Courier may not have been assigned yet.",
			"order_status":            order.Status,
			"has_shiprocket_order_id": order.ShiprocketOrderID != "",
			"has_shipment_id":         order.ShipmentID != "",
		})
	}

	tracking, err := Shiprocket.Track(ctx, awb)
	if err != nil {
		var authErr *shiprocket.AuthError
		if errors.As(err, &authErr) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error":   "Failed to authenticate with Shiprocket",
				"details": authErr.Message,
			})
		}
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error":   "Failed to fetch tracking from Shiprocket",
			"details": err.Error(),
		})
	}

	statusUpdated := false
	mapped, matched := shiprocket.MapTrackingStatus(tracking.CurrentStatus, tracking.StatusCode)
	if matched {
		if next, advanced := models.AdvanceIfForward(order.Status, mapped); advanced {
			_, err := collection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
				"$set": bson.M{"status": next, "updatedAt": time.Now()},
			})
			if err != nil {
				log.WithError(err).WithField("order_number", order.OrderNumber).Warn("tracking status persist failed")
			} else {
				order.Status = next
				statusUpdated = true
			}
		}
	}

	etd := tracking.ETD
	if etd == "" {
		etd = order.EstimatedDeliveryDate
	}
	trackURL := tracking.TrackURL
	if trackURL == "" {
		trackURL = order.TrackingURL
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"tracking": map[string]any{
			"awb_code":                  awb,
			"current_status":            tracking.CurrentStatus,
			"status_code":               tracking.StatusCode,
			"status":                    tracking.Status,
			"estimated_delivery_date":   etd,
			"tracking_url":              trackURL,
			"shipment_track":            tracking.ShipmentTrack,
			"shipment_track_activities": tracking.Activities,
			"mapped_status":             order.Status,
			"status_updated":            statusUpdated,
		},
		"order_status": order.Status,
	})
}

// backfillAWB looks the AWB up in the provider order document and persists it
// on success so later tracking calls skip this hop.
func backfillAWB(ctx context.Context, order *models.Order) string {
	doc, err := Shiprocket.ShowOrder(ctx, order.ShiprocketOrderID)
	if err != nil {
		log.WithError(err).WithField("order_number", order.OrderNumber).Warn("AWB backfill failed")
		return ""
	}
	awb := shiprocket.AWBFromOrderDoc(doc)
	if awb == "" {
		return ""
	}

	_, err = database.DB.Collection("orders").UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{"awbCode": awb, "updatedAt": time.Now()},
	})
	if err != nil {
		log.WithError(err).WithField("order_number", order.OrderNumber).Warn("AWB backfill persist failed")
		return ""
	}
	order.AWBCode = awb
	log.WithFields(log.Fields{"order_number": order.OrderNumber, "awb": awb}).Info("AWB backfilled from order details")
	return awb
}

// CancelOrder reverses an order. The local store is authoritative: provider
// cancellation is attempted when there is a Shiprocket order, but its failure
// only downgrades the response to a warning. A successful local cancellation
// triggers a best-effort admin alert.
func CancelOrder(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := database.DB.Collection("orders")
	var order models.Order
	if err := collection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "Order not found"})
	}

	if !models.CanCancel(order.Status) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Order cannot be cancelled. Current status: " + string(order.Status),
		})
	}

	warning := ""
	if order.ShiprocketOrderID != "" {
		if err := Shiprocket.CancelOrders(ctx, []string{order.ShiprocketOrderID}); err != nil {
			warning = err.Error()
			log.WithError(err).WithField("order_number", order.OrderNumber).Warn("shiprocket cancellation failed, cancelling locally")
		}
	}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": time.Now()},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to cancel order"})
	}
	order.Status = models.OrderStatusCancelled
	metrics.OrdersCancelled.Inc()

	if err := WhatsApp.NotifyCancellation(ctx, &order, userEmail(ctx, order.Username)); err != nil {
		log.WithError(err).WithField("order_number", order.OrderNumber).Warn("whatsapp cancellation alert failed")
	}

	resp := map[string]any{
		"success":      true,
		"message":      "Order cancelled successfully",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
	}
	if warning != "" {
		resp["message"] = "Order cancelled in database. Shiprocket cancellation failed."
		resp["warning"] = warning
	}
	return c.JSON(http.StatusOK, resp)
}

func userEmail(ctx context.Context, username string) string {
	var user models.User
	if err := database.DB.Collection("users").FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return ""
	}
	return user.Email
}
