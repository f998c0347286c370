package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// categories collection的文件結構
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	ImageKey  string             `bson:"imageKey" json:"imageKey"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type CategoryRequest struct {
	Name     string `json:"name" validate:"required"`
	Image    string `json:"image" validate:"required"`
	ImageKey string `json:"imageKey" validate:"required"`
}

func (r *CategoryRequest) Validate() map[string]string {
	return ValidateStruct(r)
}

func (r *CategoryRequest) ToCategory(now time.Time) Category {
	return Category{
		Name:      r.Name,
		Image:     r.Image,
		ImageKey:  r.ImageKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
