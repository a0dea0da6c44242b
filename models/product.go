package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WeightUnit string

const (
	UnitKg    WeightUnit = "kg"
	UnitGram  WeightUnit = "g"
	UnitLitre WeightUnit = "L"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       string             `bson:"price" json:"price"` // e.g. "299/kg", "₹299/kg"
	Image       string             `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	WeightValue float64            `bson:"weightValue,omitempty" json:"weight_value,omitempty"`
	WeightUnit  WeightUnit         `bson:"weightUnit,omitempty" json:"weight_unit,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
