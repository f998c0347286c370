package handlers

import (
	"Backend/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// 查詢分類列表
func GetCategoriesHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	ctx := c.Request.Context()

	cursor, err := db.Collection(categoriesCollection).Find(ctx, bson.M{})
	if err != nil {
		internalError(c, logger, "無法讀取分類列表", err)
		return
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		internalError(c, logger, "無法解析分類列表", err)
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		items = append(items, gin.H{
			"id":    category.ID.Hex(),
			"name":  category.Name,
			"image": category.Image,
		})
	}

	c.JSON(http.StatusOK, items)
}

// 新增分類，名稱重複時拒絕(先查後寫，store層沒有唯一限制)
func CreateCategoryHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	var req models.CategoryRequest
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

	err := db.Collection(categoriesCollection).FindOne(ctx, bson.M{"name": req.Name}).Err()
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Category already exists",
		})
		return
	}
	if err != mongo.ErrNoDocuments {
		internalError(c, logger, "無法檢查分類名稱", err)
		return
	}

	category := req.ToCategory(time.Now())
	result, err := db.Collection(categoriesCollection).InsertOne(ctx, category)
	if err != nil {
		internalError(c, logger, "無法新增分類", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":   result.InsertedID.(primitive.ObjectID).Hex(),
		"name": category.Name,
	})
}

// 查詢分類詳細資料
func GetCategoryHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Category not found",
		})
		return
	}

	var category models.Category
	err = db.Collection(categoriesCollection).FindOne(c.Request.Context(), bson.M{"_id": categoryID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Category not found",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取分類資料", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       category.ID.Hex(),
		"name":     category.Name,
		"image":    category.Image,
		"imageKey": category.ImageKey,
	})
}

// 修改分類
func UpdateCategoryHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Category not found",
		})
		return
	}

	var req models.CategoryRequest
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

	update := bson.M{"$set": bson.M{
		"name":       req.Name,
		"image":      req.Image,
		"imageKey":   req.ImageKey,
		"updated_at": time.Now(),
	}}

	result, err := db.Collection(categoriesCollection).UpdateOne(c.Request.Context(), bson.M{"_id": categoryID}, update)
	if err != nil {
		internalError(c, logger, "無法修改分類", err)
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Category not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   categoryID.Hex(),
		"name": req.Name,
	})
}

// 刪除分類，並將參照此分類的商品外鍵清空
// 兩步驟不在同一交易內，第二步失敗時只記錄不回滾
func DeleteCategoryHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Category not found",
		})
		return
	}

	ctx := c.Request.Context()

	result, err := db.Collection(categoriesCollection).DeleteOne(ctx, bson.M{"_id": categoryID})
	if err != nil {
		internalError(c, logger, "無法刪除分類", err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "Category not found",
		})
		return
	}

	_, err = db.Collection(productsCollection).UpdateMany(ctx,
		bson.M{"categoryId": categoryID},
		bson.M{"$set": bson.M{"categoryId": nil, "categoryName": nil}},
	)
	if err != nil {
		logger.Warn("分類已刪除，但商品外鍵清理失敗",
			zap.String("categoryId", categoryID.Hex()),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

// 以關鍵字分頁搜尋分類
func FilterCategoriesHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	var query PageQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Invalid input format, expected JSON object",
		})
		return
	}
	query.Normalize()

	ctx := c.Request.Context()
	filter := KeywordFilter(query.Keyword, "name")

	total, err := db.Collection(categoriesCollection).CountDocuments(ctx, filter)
	if err != nil {
		internalError(c, logger, "無法計算分類總數", err)
		return
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := db.Collection(categoriesCollection).Find(ctx, filter, findOptions)
	if err != nil {
		internalError(c, logger, "無法搜尋分類", err)
		return
	}

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		internalError(c, logger, "無法解析分類列表", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": categories,
		"total": total,
		"page":  query.Page,
		"pages": TotalPages(total, query.Limit),
	})
}
