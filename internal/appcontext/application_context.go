package appcontext

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/cache"
	"github.com/RoyceAzure/lab/storefront/internal/infra/integrations"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf     *config.Config
	Logger *zerolog.Logger

	DbConn      *gorm.DB
	DbDao       *db.DbDao
	RedisClient *redis.Client

	TokenMaker token.Maker

	UserRepo    db.IUserRepository
	ProductRepo db.IProductRepository
	CartRepo    db.ICartRepository
	OrderRepo   db.IOrderRepository
	ReviewRepo  db.IReviewRepository

	Copywriter integrations.Copywriter
	Supplier   integrations.SupplierCatalog
	Ads        integrations.AdsPlatform
	Mailer     integrations.Mailer

	UserService      service.IUserService
	AuthService      service.IAuthService
	ProductService   service.IProductService
	CartService      service.ICartService
	OrderService     service.IOrderService
	ReviewService    service.IReviewService
	MarketingService service.IMarketingService
}

func NewApplicationContext(cf *config.Config, logger *zerolog.Logger) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	if err := app.Init(); err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	err := app.setUpDbConn()
	if err != nil {
		return err
	}
	err = app.setUpDbDao()
	if err != nil {
		return err
	}
	err = app.setUpRedis()
	if err != nil {
		return err
	}
	err = app.setUpRepositories()
	if err != nil {
		return err
	}
	err = app.setTokenMaker()
	if err != nil {
		return err
	}
	err = app.setUpIntegrations()
	if err != nil {
		return err
	}
	err = app.setUpServices()
	if err != nil {
		return err
	}
	err = app.dbInit()
	if err != nil {
		return err
	}
	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpDbDao() error {
	log.Printf("Start setup database DAO")
	app.DbDao = db.NewDbDao(app.DbConn)
	log.Printf("Finish setup database DAO")
	return nil
}

// redis連不上不擋啟動 商品讀取退回直接查db
func (app *ApplicationContext) setUpRedis() error {
	log.Printf("Start setup redis connection")
	rdb, err := cache.ConnectRedis(app.Cf.RedisAddr, app.Cf.RedisPassword, app.Cf.RedisDB)
	if err != nil {
		log.Printf("redis unavailable, product cache disabled: %v", err)
		return nil
	}
	app.RedisClient = rdb
	log.Printf("Finish setup redis connection")
	return nil
}

func (app *ApplicationContext) setUpRepositories() error {
	log.Printf("Start setup repositories")
	app.UserRepo = db.NewUserRepo(app.DbDao)
	app.CartRepo = db.NewCartRepo(app.DbDao)
	app.OrderRepo = db.NewOrderRepo(app.DbDao)
	app.ReviewRepo = db.NewReviewRepo(app.DbDao)

	productRepo := db.NewProductRepo(app.DbDao)
	if app.RedisClient != nil {
		app.ProductRepo = cache.NewCachedProductRepository(productRepo, app.RedisClient, app.Logger)
	} else {
		app.ProductRepo = productRepo
	}
	log.Printf("Finish setup repositories")
	return nil
}

func (app *ApplicationContext) setTokenMaker() error {
	log.Printf("Start setup token maker")
	tokenMaker, err := token.NewPasetoMaker(app.Cf.AuthTokenKey)
	if err != nil {
		return fmt.Errorf("create token maker: %w", err)
	}
	app.TokenMaker = tokenMaker
	log.Printf("Finish setup token maker")
	return nil
}

func (app *ApplicationContext) setUpIntegrations() error {
	log.Printf("Start setup integrations")
	app.Copywriter = integrations.NewLLMCopywriter(app.Cf.LlmApiUrl, app.Cf.LlmApiKey, app.Cf.LlmModel, app.Logger)
	app.Supplier = integrations.NewStubSupplier()
	app.Ads = integrations.NewStubAdsPlatform(app.Copywriter)
	app.Mailer = integrations.NewLogMailer(app.Logger)
	log.Printf("Finish setup integrations")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	log.Printf("Start setup services")
	app.UserService = service.NewUserService(app.UserRepo)
	app.AuthService = service.NewAuthService(app.UserService, app.TokenMaker, app.Mailer)
	app.ProductService = service.NewProductService(app.ProductRepo)
	app.CartService = service.NewCartService(app.CartRepo, app.ProductRepo)

	//order/review改庫存與評分 需要讓商品快取失效
	var invalidator service.ProductCacheInvalidator
	if cached, ok := app.ProductRepo.(*cache.CachedProductRepository); ok {
		invalidator = cached
	}
	app.OrderService = service.NewOrderService(app.OrderRepo, app.CartRepo, invalidator)
	app.ReviewService = service.NewReviewService(app.ReviewRepo, app.ProductRepo, invalidator)
	app.MarketingService = service.NewMarketingService(app.ProductRepo, app.Copywriter, app.Supplier, app.Ads)
	log.Printf("Finish setup services")
	return nil
}

// db migration and admin seed
func (app *ApplicationContext) dbInit() error {
	log.Printf("Start setup db init")
	if err := app.DbDao.InitMigrate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.UserService.EnsureAdminUser(ctx, app.Cf.AdminEmail, app.Cf.AdminPassword, app.Cf.AdminName); err != nil {
		return err
	}
	log.Printf("Finish setup db init")
	return nil
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	done := make(chan error)
	go func() {
		defer close(done)

		if app.RedisClient != nil {
			log.Printf("Closing redis connection...")
			if err := app.RedisClient.Close(); err != nil {
				//有錯誤不結束流程
				log.Printf("redis close error: %v", err)
			}
		}

		if app.DbConn != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				sqlDB.Close()
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
