package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a simple percentage discount, e.g. code "NITHIN10" for 10%.
type Coupon struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code               string             `bson:"code" json:"code"`
	DiscountPercentage float64            `bson:"discountPercentage" json:"discount_percentage"`
	IsActive           bool               `bson:"isActive" json:"is_active"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
