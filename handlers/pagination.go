package handlers

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultPageSize = 10

// 分頁查詢參數，limit與per_page擇一使用(各端點的欄位名稱不同)
type PageQuery struct {
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	PerPage int    `json:"per_page"`
	Keyword string `json:"keyword"`
}

// 將低於1的page與limit修正為預設值，避免負數skip
func (q *PageQuery) Normalize() {
	if q.Limit <= 0 {
		q.Limit = q.PerPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
}

func (q PageQuery) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// 從query string取得分頁參數，供GET端點使用
func PageQueryFromContext(c *gin.Context) (PageQuery, error) {
	var query PageQuery

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return query, fmt.Errorf("page must be an integer")
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		return query, fmt.Errorf("per_page must be an integer")
	}

	query.Page = page
	query.Limit = perPage
	query.Normalize()
	return query, nil
}

// 總頁數 = ceil(total / limit)
func TotalPages(total int64, limit int) int64 {
	if limit < 1 {
		limit = DefaultPageSize
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// 建立不分大小寫的子字串搜尋條件，keyword為空時不過濾
// 多個欄位時以$or串接
func KeywordFilter(keyword string, fields ...string) bson.M {
	if keyword == "" || len(fields) == 0 {
		return bson.M{}
	}

	regex := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
	if len(fields) == 1 {
		return bson.M{fields[0]: regex}
	}

	or := bson.A{}
	for _, field := range fields {
		or = append(or, bson.M{field: regex})
	}
	return bson.M{"$or": or}
}
