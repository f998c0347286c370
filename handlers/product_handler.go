package handlers

import (
	"Backend/models"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// 新增商品
func CreateProductHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	var req models.ProductRequest
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

	categoryID, ok := parseCategoryID(req.CategoryID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  gin.H{"categoryId": "Invalid category id"},
		})
		return
	}

	product := req.ToProduct(categoryID, time.Now())
	result, err := db.Collection(productsCollection).InsertOne(c.Request.Context(), product)
	if err != nil {
		internalError(c, logger, "無法新增商品", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"_id": result.InsertedID.(primitive.ObjectID).Hex(),
	})
}

// 查詢商品列表
func GetProductsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	ctx := c.Request.Context()

	cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{})
	if err != nil {
		internalError(c, logger, "無法讀取商品列表", err)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		internalError(c, logger, "無法解析商品列表", err)
		return
	}

	ensureImageLists(products)
	c.JSON(http.StatusOK, products)
}

// 以關鍵字分頁搜尋商品，name欄位不分大小寫子字串比對
func FilterProductsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
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

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := db.Collection(productsCollection).Find(ctx, filter, findOptions)
	if err != nil {
		internalError(c, logger, "無法搜尋商品", err)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		internalError(c, logger, "無法解析商品列表", err)
		return
	}

	if err := attachCategoryNames(ctx, db, products); err != nil {
		internalError(c, logger, "無法取得分類名稱", err)
		return
	}
	ensureImageLists(products)

	//總數以同一個filter計算，分頁資訊才會正確
	total, err := db.Collection(productsCollection).CountDocuments(ctx, filter)
	if err != nil {
		internalError(c, logger, "無法計算商品總數", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": products,
		"total": total,
		"page":  query.Page,
		"pages": TotalPages(total, query.Limit),
	})
}

// 查詢商品詳細資料
func GetProductHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	ctx := c.Request.Context()

	var product models.Product
	err = db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取商品資料", err)
		return
	}

	name, err := lookupCategoryName(ctx, db, product.CategoryID)
	if err != nil {
		internalError(c, logger, "無法取得分類名稱", err)
		return
	}
	product.CategoryName = name

	products := []models.Product{product}
	ensureImageLists(products)
	c.JSON(http.StatusOK, products[0])
}

// 修改商品
func UpdateProductHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	var req models.ProductRequest
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

	categoryID, ok := parseCategoryID(req.CategoryID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"errors":  gin.H{"categoryId": "Invalid category id"},
		})
		return
	}

	price := 0.0
	if req.Price != nil {
		price = *req.Price
	}

	update := bson.M{"$set": bson.M{
		"name":        req.Name,
		"images":      req.Images,
		"imageKeys":   req.ImageKeys,
		"description": req.Description,
		"price":       price,
		"currency":    req.Currency,
		"content":     req.Content,
		"categoryId":  categoryID,
		"updatedAt":   time.Now(),
	}}

	result, err := db.Collection(productsCollection).UpdateOne(c.Request.Context(), bson.M{"_id": productID}, update)
	if err != nil {
		internalError(c, logger, "無法修改商品", err)
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated",
	})
}

// 刪除商品
func DeleteProductHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	result, err := db.Collection(productsCollection).DeleteOne(c.Request.Context(), bson.M{"_id": productID})
	if err != nil {
		internalError(c, logger, "無法刪除商品", err)
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// 查詢指定分類的所有商品
func GetProductsByCategoryHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("categoryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid category id",
		})
		return
	}

	ctx := c.Request.Context()

	cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		internalError(c, logger, "無法讀取商品列表", err)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		internalError(c, logger, "無法解析商品列表", err)
		return
	}

	if err := attachCategoryNames(ctx, db, products); err != nil {
		internalError(c, logger, "無法取得分類名稱", err)
		return
	}
	ensureImageLists(products)

	c.JSON(http.StatusOK, products)
}

// 以分類名稱查詢商品，名稱不分大小寫完全比對
func GetProductsByCategoryNameHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	name := c.Param("categoryID")
	ctx := c.Request.Context()

	nameFilter := bson.M{"name": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(name) + "$",
		Options: "i",
	}}

	var category models.Category
	err := db.Collection(categoriesCollection).FindOne(ctx, nameFilter).Decode(&category)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusOK, []models.Product{})
		return
	}
	if err != nil {
		internalError(c, logger, "無法讀取分類資料", err)
		return
	}

	cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{"categoryId": category.ID})
	if err != nil {
		internalError(c, logger, "無法讀取商品列表", err)
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		internalError(c, logger, "無法解析商品列表", err)
		return
	}

	for i := range products {
		products[i].CategoryName = category.Name
	}
	ensureImageLists(products)

	c.JSON(http.StatusOK, products)
}

// 查詢所有商品ID
func GetProductIDsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	ctx := c.Request.Context()

	findOptions := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		internalError(c, logger, "無法讀取商品ID列表", err)
		return
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		internalError(c, logger, "無法解析商品ID列表", err)
		return
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID.Hex())
	}

	c.JSON(http.StatusOK, ids)
}

// 一次性資料搬移:將舊版單數image/imageKey欄位改寫為複數欄位
// 已搬移過的商品沒有舊欄位，重複執行不會再更新任何資料
func UpdateProductFieldsHandler(c *gin.Context, db *mongo.Database, logger *zap.Logger) {
	ctx := c.Request.Context()

	cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{})
	if err != nil {
		internalError(c, logger, "無法讀取商品列表", err)
		return
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			internalError(c, logger, "無法解析商品文件", err)
			return
		}

		update := legacyImageFieldUpdate(doc)
		if update == nil {
			continue
		}

		result, err := db.Collection(productsCollection).UpdateOne(ctx, bson.M{"_id": doc["_id"]}, update)
		if err != nil {
			internalError(c, logger, "無法搬移商品欄位", err)
			return
		}
		if result.ModifiedCount > 0 {
			updated++
		}
	}
	if err := cursor.Err(); err != nil {
		internalError(c, logger, "讀取商品列表時發生錯誤", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       fmt.Sprintf("Updated %d products successfully", updated),
		"updated_count": updated,
	})
}

// 產生單一商品的舊欄位搬移update，不需搬移時回傳nil
func legacyImageFieldUpdate(doc bson.M) bson.M {
	set := bson.M{}
	unset := bson.M{}

	if image, ok := doc["image"]; ok {
		if _, has := doc["images"]; !has {
			set["images"] = bson.A{image}
			unset["image"] = ""
		}
	}
	if imageKey, ok := doc["imageKey"]; ok {
		if _, has := doc["imageKeys"]; !has {
			set["imageKeys"] = bson.A{imageKey}
			unset["imageKey"] = ""
		}
	}

	if len(set) == 0 {
		return nil
	}
	return bson.M{"$set": set, "$unset": unset}
}

// 將categoryId字串轉為ObjectID，空字串視為沒有分類
func parseCategoryID(id string) (*primitive.ObjectID, bool) {
	if id == "" {
		return nil, true
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return &objectID, true
}

// 以單一$in查詢批次取得商品的分類名稱，避免每筆商品都查一次資料庫
func attachCategoryNames(ctx context.Context, db *mongo.Database, products []models.Product) error {
	idSet := map[primitive.ObjectID]struct{}{}
	for i := range products {
		if products[i].CategoryID != nil {
			idSet[*products[i].CategoryID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		applyCategoryNames(products, nil)
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	cursor, err := db.Collection(categoriesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return err
	}

	names := make(map[primitive.ObjectID]string, len(categories))
	for _, category := range categories {
		names[category.ID] = category.Name
	}

	applyCategoryNames(products, names)
	return nil
}

// 填入分類名稱，查不到分類的懸空參照一律給空字串
func applyCategoryNames(products []models.Product, names map[primitive.ObjectID]string) {
	for i := range products {
		if products[i].CategoryID == nil {
			products[i].CategoryName = ""
			continue
		}
		products[i].CategoryName = names[*products[i].CategoryID]
	}
}

func lookupCategoryName(ctx context.Context, db *mongo.Database, categoryID *primitive.ObjectID) (string, error) {
	if categoryID == nil {
		return "", nil
	}

	var category models.Category
	err := db.Collection(categoriesCollection).FindOne(ctx, bson.M{"_id": *categoryID}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

// 舊資料可能沒有images欄位，回傳前一律補成空陣列
func ensureImageLists(products []models.Product) {
	for i := range products {
		if products[i].Images == nil {
			products[i].Images = []string{}
		}
		if products[i].ImageKeys == nil {
			products[i].ImageKeys = []string{}
		}
	}
}
