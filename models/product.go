package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// products collection的文件結構
type Product struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name         string              `bson:"name" json:"name"`
	Images       []string            `bson:"images" json:"images"`
	ImageKeys    []string            `bson:"imageKeys" json:"imageKeys"`
	Description  string              `bson:"description" json:"description"`
	Price        float64             `bson:"price" json:"price"`
	Currency     string              `bson:"currency,omitempty" json:"currency,omitempty"`
	Content      string              `bson:"content,omitempty" json:"content,omitempty"`
	CategoryID   *primitive.ObjectID `bson:"categoryId" json:"categoryId"`
	CategoryName string              `bson:"categoryName,omitempty" json:"categoryName"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Image       string   `json:"image"`
	ImageKey    string   `json:"imageKey"`
	Images      []string `json:"images"`
	ImageKeys   []string `json:"imageKeys"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Currency    string   `json:"currency"`
	Content     string   `json:"content"`
	CategoryID  string   `json:"categoryId"`
}

// 將舊版單數image/imageKey欄位併入複數欄位
func (r *ProductRequest) Normalize() {
	if r.Image != "" && len(r.Images) == 0 {
		r.Images = []string{r.Image}
	}
	if r.ImageKey != "" && len(r.ImageKeys) == 0 {
		r.ImageKeys = []string{r.ImageKey}
	}
}

// 驗證請求資料並回傳所有失敗欄位
func (r *ProductRequest) Validate() map[string]string {
	r.Normalize()

	errs := ValidateStruct(r)
	if len(r.Images) == 0 {
		errs["images"] = "At least one image is required"
	}
	if len(r.ImageKeys) == 0 {
		errs["imageKeys"] = "At least one image key is required"
	} else if len(r.Images) != 0 && len(r.Images) != len(r.ImageKeys) {
		errs["imageKeys"] = "Image keys must match images"
	}
	return errs
}

// 將請求轉為商品文件，price空值一律補0
func (r *ProductRequest) ToProduct(categoryID *primitive.ObjectID, now time.Time) Product {
	price := 0.0
	if r.Price != nil {
		price = *r.Price
	}
	return Product{
		Name:        r.Name,
		Images:      r.Images,
		ImageKeys:   r.ImageKeys,
		Description: r.Description,
		Price:       price,
		Currency:    r.Currency,
		Content:     r.Content,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
