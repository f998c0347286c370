package routers

import (
	"Backend/config"
	"Backend/handlers"
	"Backend/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func SetupRouters(db *mongo.Database, cfg config.Config, logger *zap.Logger) *gin.Engine {
	//建立Gin路由器
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	//不信任任何proxy，參數為nil時不會回傳錯誤
	_ = router.SetTrustedProxies(nil)

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	secret := []byte(cfg.JWT.Secret)

	////解析每個請求的Token，驗證結果交給後續中間件決定
	router.Use(middleware.AuthMiddleware(secret, logger))

	api := router.Group("/api")
	{
		//查詢商品列表
		api.GET("/products", func(c *gin.Context) {
			handlers.GetProductsHandler(c, db, logger)
		})
		//關鍵字分頁搜尋商品
		api.POST("/products/filter", func(c *gin.Context) {
			handlers.FilterProductsHandler(c, db, logger)
		})
		//gin的路由樹不允許靜態路徑與參數路徑並存，固定路徑(ids、category)在此分流
		api.GET("/products/:productID", func(c *gin.Context) {
			if c.Param("productID") == "ids" {
				handlers.GetProductIDsHandler(c, db, logger)
				return
			}
			handlers.GetProductHandler(c, db, logger)
		})
		//查詢指定分類的商品
		api.GET("/products/:productID/:categoryID", func(c *gin.Context) {
			if c.Param("productID") == "category" {
				handlers.GetProductsByCategoryHandler(c, db, logger)
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		})
		//以分類名稱查詢商品
		api.GET("/products/:productID/:categoryID/name", func(c *gin.Context) {
			if c.Param("productID") == "category" {
				handlers.GetProductsByCategoryNameHandler(c, db, logger)
				return
			}
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		})
		//一次性資料搬移:舊版商品圖片欄位
		api.POST("/update-product-fields", func(c *gin.Context) {
			handlers.UpdateProductFieldsHandler(c, db, logger)
		})

		//查詢分類列表
		api.GET("/categories", func(c *gin.Context) {
			handlers.GetCategoriesHandler(c, db, logger)
		})
		//新增分類
		api.POST("/categories", func(c *gin.Context) {
			handlers.CreateCategoryHandler(c, db, logger)
		})
		//關鍵字分頁搜尋分類
		api.POST("/categories/filter", func(c *gin.Context) {
			handlers.FilterCategoriesHandler(c, db, logger)
		})
		//查詢分類詳細資料
		api.GET("/categories/:categoryID", func(c *gin.Context) {
			handlers.GetCategoryHandler(c, db, logger)
		})
		//修改分類
		api.PUT("/categories/:categoryID", func(c *gin.Context) {
			handlers.UpdateCategoryHandler(c, db, logger)
		})

		//依狀態分頁查詢文章，預設published
		api.GET("/blogs", func(c *gin.Context) {
			handlers.GetBlogsHandler(c, db, logger)
		})
		//固定路徑(all、user)在此分流，user需登入，由handler自行檢查
		api.GET("/blogs/:blogID", func(c *gin.Context) {
			switch c.Param("blogID") {
			case "all":
				handlers.GetAllBlogsHandler(c, db, logger)
			case "user":
				handlers.GetUserBlogsHandler(c, db, logger)
			default:
				handlers.GetBlogHandler(c, db, logger)
			}
		})
		//以slug查詢文章
		api.GET("/blogs/:blogID/name", func(c *gin.Context) {
			handlers.GetBlogByNameHandler(c, db, logger)
		})
		//關鍵字分頁搜尋文章
		api.POST("/blogs/filter", func(c *gin.Context) {
			handlers.FilterBlogsHandler(c, db, logger)
		})

		//註冊帳號
		api.POST("/register", func(c *gin.Context) {
			handlers.RegisterHandler(c, db, logger)
		})
		//登入帳號
		api.POST("/login", func(c *gin.Context) {
			handlers.LoginHandler(c, db, secret, logger)
		})
		//健康檢查
		api.GET("/health", func(c *gin.Context) {
			handlers.HealthHandler(c, db, logger)
		})

		////需要登入，使用中間件檢查是否登入
		loginRequired := api.Group("")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			//新增商品
			loginRequired.POST("/products", func(c *gin.Context) {
				handlers.CreateProductHandler(c, db, logger)
			})
			//修改商品
			loginRequired.PUT("/products/:productID", func(c *gin.Context) {
				handlers.UpdateProductHandler(c, db, logger)
			})
			//刪除商品
			loginRequired.DELETE("/products/:productID", func(c *gin.Context) {
				handlers.DeleteProductHandler(c, db, logger)
			})
			//刪除分類
			loginRequired.DELETE("/categories/:categoryID", func(c *gin.Context) {
				handlers.DeleteCategoryHandler(c, db, logger)
			})
			//新增文章
			loginRequired.POST("/blogs", func(c *gin.Context) {
				handlers.CreateBlogHandler(c, db, logger)
			})
			//修改文章(僅作者)
			loginRequired.PUT("/blogs/:blogID", func(c *gin.Context) {
				handlers.UpdateBlogHandler(c, db, logger)
			})
			//刪除文章(僅作者)
			loginRequired.DELETE("/blogs/:blogID", func(c *gin.Context) {
				handlers.DeleteBlogHandler(c, db, logger)
			})
			//查詢目前登入身分
			loginRequired.GET("/protected", func(c *gin.Context) {
				handlers.ProtectedHandler(c)
			})
			//登出
			loginRequired.POST("/logout", func(c *gin.Context) {
				handlers.LogoutHandler(c)
			})
			//檢查Token是否過期
			loginRequired.GET("/isTokenExpired", func(c *gin.Context) {
				handlers.IsTokenExpiredHandler(c, secret)
			})
		}

		////需要Refresh Token
		refreshRequired := api.Group("")
		refreshRequired.Use(middleware.RefreshTokenMiddleware(secret))
		{
			//換發Access Token
			refreshRequired.GET("/refresh", func(c *gin.Context) {
				handlers.RefreshHandler(c, secret, logger)
			})
		}
	}

	return router
}
