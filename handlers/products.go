package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/models"
	"github.com/roshan-ds-tech/shreshta-backend-final/pricing"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetProducts(c echo.Context) error {
	products := []models.Product{}
	collection := database.DB.Collection("products")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch products"})
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			continue
		}
		products = append(products, product)
	}

	return c.JSON(http.StatusOK, map[string]any{"products": products})
}

func CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if product.Name == "" || product.Description == "" || product.Price == "" || product.Image == "" || product.Category == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}
	if product.WeightUnit == "" {
		product.WeightUnit = models.UnitKg
	}

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("products").InsertOne(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create product"})
	}

	return c.JSON(http.StatusCreated, product)
}

// GetProduct returns a product, optionally recomputing the price for a
// selected weight via weight_value / weight_unit query parameters.
func GetProduct(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(c.Request().Context(), bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	rawWeight := c.QueryParam("weight_value")
	if rawWeight == "" {
		return c.JSON(http.StatusOK, product)
	}

	weightValue, err := strconv.ParseFloat(rawWeight, 64)
	if err != nil {
		// Invalid weight selection, return the base product
		return c.JSON(http.StatusOK, product)
	}
	weightUnit := c.QueryParam("weight_unit")
	if weightUnit == "" {
		weightUnit = "kg"
	}

	quote, err := pricing.PriceForWeight(product.Price, weightValue, weightUnit)
	if err != nil {
		return c.JSON(http.StatusOK, product)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"id":                      product.ID,
		"name":                    product.Name,
		"description":             product.Description,
		"price":                   quote.PriceDisplay,
		"original_price":          product.Price,
		"calculated_price":        quote.Price,
		"calculated_priceDisplay": quote.PriceDisplay,
		"selected_weight_value":   quote.WeightValue,
		"selected_weight_unit":    quote.WeightUnit,
		"image":                   product.Image,
		"category":                product.Category,
		"weight_value":            product.WeightValue,
		"weight_unit":             product.WeightUnit,
		"created_at":              product.CreatedAt,
	})
}

func UpdateProduct(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *string  `json:"price"`
		Image       *string  `json:"image"`
		Category    *string  `json:"category"`
		WeightValue *float64 `json:"weight_value"`
		WeightUnit  *string  `json:"weight_unit"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.WeightValue != nil {
		set["weightValue"] = *req.WeightValue
	}
	if req.WeightUnit != nil {
		set["weightUnit"] = *req.WeightUnit
	}

	result, err := database.DB.Collection("products").UpdateOne(
		c.Request().Context(),
		bson.M{"_id": objID},
		bson.M{"$set": set},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	var product models.Product
	if err := database.DB.Collection("products").FindOne(c.Request().Context(), bson.M{"_id": objID}).Decode(&product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}
	return c.JSON(http.StatusOK, product)
}

func DeleteProduct(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	result, err := database.DB.Collection("products").DeleteOne(c.Request().Context(), bson.M{"_id": objID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete product"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
