package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
)

// blogs collection的文件結構
type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Image     string             `bson:"image,omitempty" json:"image"`
	ImageKey  string             `bson:"imageKey,omitempty" json:"imageKey"`
	Author    string             `bson:"author" json:"author"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type BlogRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required"`
	Image    string `json:"image"`
	ImageKey string `json:"imageKey"`
	Status   string `json:"status" validate:"omitempty,oneof=draft published"`
}

// 驗證請求資料，status未填時預設為draft
func (r *BlogRequest) Validate() map[string]string {
	if r.Status == "" {
		r.Status = BlogStatusDraft
	}
	return ValidateStruct(r)
}

// 將請求轉為部落格文件，作者一律使用登入身分
func (r *BlogRequest) ToBlog(author string, now time.Time) Blog {
	return Blog{
		Title:     r.Title,
		Content:   r.Content,
		Image:     r.Image,
		ImageKey:  r.ImageKey,
		Author:    author,
		Status:    r.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
