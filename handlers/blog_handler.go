package handlers

import (
	"Backend/models"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// 新增部落格文章，作者強制使用登入身分，忽略請求內的author
func CreateBlogHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	username := c.GetString("Username")

	var req models.BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  errs,
		})
		return
	}

	ctx := c.Request.Context()

	blog := req.ToBlog(username, time.Now())
	result, err := db.Collection(blogsCollection).InsertOne(ctx, blog)
	if err != nil {
		internalError(c, logger, "無法新增文章", err)
		return
	}

	var created models.Blog
	if err := db.Collection(blogsCollection).FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		internalError(c, logger, "無法讀取新增的文章", err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// 查詢全部文章，不分狀態，由新到舊
func GetAllBlogsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	ctx := c.Request.Context()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.Collection(blogsCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		internalError(c, logger, "無法讀取文章列表", err)
		return
	}

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		internalError(c, logger, "無法解析文章列表", err)
		return
	}

	c.JSON(http.StatusOK, blogs)
}

// 依狀態分頁查詢文章，預設只列出published
func GetBlogsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	query, err := PageQueryFromContext(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	status := c.DefaultQuery("status", models.BlogStatusPublished)
	filter := bson.M{"status": status}
	ctx := c.Request.Context()

	total, err := db.Collection(blogsCollection).CountDocuments(ctx, filter)
	if err != nil {
		internalError(c, logger, "無法計算文章總數", err)
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := db.Collection(blogsCollection).Find(ctx, filter, findOptions)
	if err != nil {
		internalError(c, logger, "無法讀取文章列表", err)
		return
	}

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		internalError(c, logger, "無法解析文章列表", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":       blogs,
		"total":       total,
		"page":        query.Page,
		"per_page":    query.Limit,
		"total_pages": TotalPages(total, query.Limit),
	})
}

// 查詢單篇文章
func GetBlogHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	blogID, err := primitive.ObjectIDFromHex(c.Param("blogID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid blog ID",
		})
		return
	}

	var blog models.Blog
	err = db.Collection(blogsCollection).FindOne(c.Request.Context(), bson.M{"_id": blogID}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Blog not found",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取文章", err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

// 以網址slug查詢文章，slug的連字號視為標題內的空格
func GetBlogByNameHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	title := SlugToTitle(c.Param("blogID"))

	var blog models.Blog
	err := db.Collection(blogsCollection).FindOne(c.Request.Context(), bson.M{"title": title}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Blog not found",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取文章", err)
		return
	}

	c.JSON(http.StatusOK, blog)
}

// 修改文章，僅作者本人可修改
func UpdateBlogHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	username := c.GetString("Username")

	blogID, err := primitive.ObjectIDFromHex(c.Param("blogID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid blog ID",
		})
		return
	}

	ctx := c.Request.Context()

	var blog models.Blog
	err = db.Collection(blogsCollection).FindOne(ctx, bson.M{"_id": blogID}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Blog not found",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取文章", err)
		return
	}

	if blog.Author != username {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Unauthorized to update this blog",
		})
		return
	}

	//部分更新:未提供的欄位沿用原本的值
	var payload struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Image    *string `json:"image"`
		ImageKey *string `json:"imageKey"`
		Status   *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid request body",
		})
		return
	}

	req := models.BlogRequest{
		Title:    blog.Title,
		Content:  blog.Content,
		Image:    blog.Image,
		ImageKey: blog.ImageKey,
		Status:   blog.Status,
	}
	if payload.Title != nil {
		req.Title = *payload.Title
	}
	if payload.Content != nil {
		req.Content = *payload.Content
	}
	if payload.Image != nil {
		req.Image = *payload.Image
	}
	if payload.ImageKey != nil {
		req.ImageKey = *payload.ImageKey
	}
	if payload.Status != nil {
		req.Status = *payload.Status
	}

	if errs := req.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  errs,
		})
		return
	}

	update := bson.M{"$set": bson.M{
		"title":      req.Title,
		"content":    req.Content,
		"image":      req.Image,
		"imageKey":   req.ImageKey,
		"status":     req.Status,
		"updated_at": time.Now(),
	}}
	if _, err := db.Collection(blogsCollection).UpdateOne(ctx, bson.M{"_id": blogID}, update); err != nil {
		internalError(c, logger, "無法修改文章", err)
		return
	}

	var updated models.Blog
	if err := db.Collection(blogsCollection).FindOne(ctx, bson.M{"_id": blogID}).Decode(&updated); err != nil {
		internalError(c, logger, "無法讀取修改後的文章", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// 刪除文章，僅作者本人可刪除
func DeleteBlogHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	username := c.GetString("Username")

	blogID, err := primitive.ObjectIDFromHex(c.Param("blogID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid blog ID",
		})
		return
	}

	ctx := c.Request.Context()

	var blog models.Blog
	err = db.Collection(blogsCollection).FindOne(ctx, bson.M{"_id": blogID}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Blog not found",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取文章", err)
		return
	}

	if blog.Author != username {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Unauthorized to delete this blog",
		})
		return
	}

	if _, err := db.Collection(blogsCollection).DeleteOne(ctx, bson.M{"_id": blogID}); err != nil {
		internalError(c, logger, "無法刪除文章", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Blog deleted successfully",
	})
}

// 查詢登入者自己的文章，可用status篩選
func GetUserBlogsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	username, exists := c.Get("Username")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "Missing or invalid token",
		})
		return
	}

	query, err := PageQueryFromContext(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": err.Error(),
		})
		return
	}

	filter := bson.M{"author": username}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx := c.Request.Context()

	total, err := db.Collection(blogsCollection).CountDocuments(ctx, filter)
	if err != nil {
		internalError(c, logger, "無法計算文章總數", err)
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := db.Collection(blogsCollection).Find(ctx, filter, findOptions)
	if err != nil {
		internalError(c, logger, "無法讀取文章列表", err)
		return
	}

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		internalError(c, logger, "無法解析文章列表", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs":       blogs,
		"total":       total,
		"page":        query.Page,
		"per_page":    query.Limit,
		"total_pages": TotalPages(total, query.Limit),
	})
}

// 以關鍵字分頁搜尋文章，比對標題或內文
func FilterBlogsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	var query PageQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid input format, expected JSON object",
		})
		return
	}
	query.Normalize()

	ctx := c.Request.Context()
	filter := KeywordFilter(query.Keyword, "title", "content")

	total, err := db.Collection(blogsCollection).CountDocuments(ctx, filter)
	if err != nil {
		internalError(c, logger, "無法計算文章總數", err)
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := db.Collection(blogsCollection).Find(ctx, filter, findOptions)
	if err != nil {
		internalError(c, logger, "無法搜尋文章", err)
		return
	}

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		internalError(c, logger, "無法解析文章列表", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": blogs,
		"total": total,
		"page":  query.Page,
		"pages": TotalPages(total, query.Limit),
	})
}

// 將slug還原成文章標題(連字號換成空格)
func SlugToTitle(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
