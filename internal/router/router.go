package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/noteapi/config"
	"github.com/weiwangfds/noteapi/internal/database"
	"github.com/weiwangfds/noteapi/internal/handler"
	"github.com/weiwangfds/noteapi/internal/logger"
	"github.com/weiwangfds/noteapi/internal/middleware"
	noteservice "github.com/weiwangfds/noteapi/internal/service/note"
	tagservice "github.com/weiwangfds/noteapi/internal/service/tag"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
func NewRouter(db *gorm.DB, cfg *config.Config) *Router {
	// 设置Gin模式
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	engine := gin.New()

	// 初始化服务
	noteService := noteservice.NewNoteService(db, tagservice.NewResolver())
	tagService := tagservice.NewTagService(db)

	// 初始化处理器
	noteHandler := handler.NewNoteHandler(noteService)
	tagHandler := handler.NewTagHandler(tagService)

	loggerMiddleware := middleware.NewLoggerMiddleware(logger.GetLogger())

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language", cfg.Auth.UserIDHeader, middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 存活检查
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 就绪检查：数据库可用
	engine.GET("/readyz", func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			logger.Errorf("Database ping failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API路由组，全部要求调用者身份
	api := engine.Group("/api/v1", middleware.Identity(cfg.Auth.UserIDHeader))
	{
		// 笔记管理接口
		notes := api.Group("/notes")
		{
			notes.POST("", noteHandler.CreateNote)
			notes.GET("", noteHandler.ListNotes)
			notes.GET("/:id", noteHandler.GetNote)
			notes.PUT("/:id", noteHandler.UpdateNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		// 标签接口，标签随笔记创建，这里只读
		api.GET("/tags", tagHandler.ListTags)
	}

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}
