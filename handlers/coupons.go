package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/models"
)

func GetCoupons(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("coupons").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch coupons"})
	}
	defer cursor.Close(ctx)

	coupons := []models.Coupon{}
	for cursor.Next(ctx) {
		var coupon models.Coupon
		if err := cursor.Decode(&coupon); err != nil {
			continue
		}
		coupons = append(coupons, coupon)
	}

	return c.JSON(http.StatusOK, map[string]any{"coupons": coupons})
}

func CreateCoupon(c echo.Context) error {
	var req struct {
		Code               string  `json:"code"`
		DiscountPercentage float64 `json:"discount_percentage"`
		IsActive           *bool   `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Code == "" || req.DiscountPercentage <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Code and discount_percentage are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	collection := database.DB.Collection("coupons")
	if err := collection.FindOne(ctx, bson.M{"code": code}).Err(); err == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Coupon code already exists"})
	}

	coupon := models.Coupon{
		ID:                 primitive.NewObjectID(),
		Code:               code,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           true,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if _, err := collection.InsertOne(ctx, coupon); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create coupon"})
	}

	return c.JSON(http.StatusCreated, coupon)
}

func UpdateCoupon(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid coupon ID"})
	}

	var req struct {
		Code               *string  `json:"code"`
		DiscountPercentage *float64 `json:"discount_percentage"`
		IsActive           *bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Code != nil {
		set["code"] = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.DiscountPercentage != nil {
		set["discountPercentage"] = *req.DiscountPercentage
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	result, err := database.DB.Collection("coupons").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": objID},
		bson.M{"$set": set},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update coupon"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Coupon not found"})
	}

	var coupon models.Coupon
	if err := database.DB.Collection("coupons").FindOne(c.Request().Context(), bson.M{"_id": objID}).Decode(&coupon); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch coupon"})
	}
	return c.JSON(http.StatusOK, coupon)
}

func DeleteCoupon(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid coupon ID"})
	}

	result, err := database.DB.Collection("coupons").DeleteOne(c.Request().Context(), bson.M{"_id": objID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete coupon"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Coupon not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Coupon deleted successfully"})
}
