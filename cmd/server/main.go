// Command server runs the order/customer backend HTTP API.
//
// Configuration comes from a YAML or JSON file (see configs/), optionally
// hot-reloaded, with a .env file loaded first so container setups can
// override the store URI and the listen address without editing the file.
//
// Command server 运行订单/客户后端HTTP API。
//
// 配置来自YAML或JSON文件（见configs/），可选热重载；先加载.env文件，
// 使容器环境无需编辑配置文件即可覆盖存储URI和监听地址。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/weblarek/backend/configs"
	"github.com/weblarek/backend/internal/cache"
	"github.com/weblarek/backend/internal/events"
	"github.com/weblarek/backend/internal/handler"
	"github.com/weblarek/backend/internal/service"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/internal/store/memory"
	"github.com/weblarek/backend/internal/store/mongodb"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	// A missing .env is fine; it only exists in some deployments.
	// 缺少.env没有问题；它只在部分部署中存在。
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := buildLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

// loadConfig loads the configuration file, falling back to defaults when no
// file exists, and applies the environment overrides.
//
// loadConfig 加载配置文件，文件不存在时回退到默认值，并应用环境变量覆盖。
func loadConfig(path string) (*configs.Config, error) {
	var cfg *configs.Config
	if _, err := os.Stat(path); err == nil {
		vc, err := configs.NewViperConfig(path)
		if err != nil {
			return nil, err
		}
		if vc.Get().Extensions.HotReload.Enable {
			vc.EnableHotReload()
		}
		cfg = vc.Get()
	} else {
		cfg = configs.DefaultConfig()
	}

	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if uri := os.Getenv("STORE_URI"); uri != "" {
		cfg.Store.URI = uri
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Events.Brokers = []string{brokers}
	}
	return cfg, cfg.Validate()
}

// buildLogger constructs the zap logger described by the log section.
// buildLogger 构造日志部分描述的zap日志器。
func buildLogger(cfg configs.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "text" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// repositories bundles the per-collection repositories plus the teardown of
// whichever engine produced them.
//
// repositories 打包各集合的仓储以及产生它们的引擎的清理函数。
type repositories struct {
	customers store.CustomerRepository
	orders    store.OrderRepository
	products  store.ProductRepository
	close     func(context.Context) error
}

// buildStore selects and connects the storage engine.
// buildStore 选择并连接存储引擎。
func buildStore(ctx context.Context, cfg *configs.Config, log *zap.Logger) (*repositories, error) {
	switch cfg.Store.Engine {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
		defer cancel()
		st, err := mongodb.Connect(connectCtx, cfg.Store.URI, cfg.Store.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect mongodb: %w", err)
		}
		return &repositories{
			customers: st.Customers(),
			orders:    st.Orders(),
			products:  st.Products(),
			close:     st.Close,
		}, nil
	case "memory":
		st := memory.New()
		return &repositories{
			customers: st.Customers(),
			orders:    st.Orders(),
			products:  st.Products(),
			close:     func(context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown store engine %q", cfg.Store.Engine)
	}
}

func run(cfg *configs.Config, log *zap.Logger) error {
	ctx := context.Background()

	repos, err := buildStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(ctx); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	products := repos.products
	if cfg.Cache.Enable {
		c := cache.New(cfg.Cache.ShardCount, cfg.Cache.TTL, cfg.Cache.CleanupInterval)
		defer c.Close()
		products = store.NewCachedProducts(products, c)
		log.Info("product cache enabled",
			zap.Int("shards", cfg.Cache.ShardCount),
			zap.Duration("ttl", cfg.Cache.TTL))
	}

	var bus events.Publisher = events.Noop{}
	if cfg.Events.Enable {
		kafka := events.NewKafka(cfg.Events.Brokers, cfg.Events.Topic)
		defer kafka.Close()
		bus = kafka
		log.Info("order event publisher enabled",
			zap.Strings("brokers", cfg.Events.Brokers),
			zap.String("topic", cfg.Events.Topic))
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()
	handler.New(
		service.NewCustomers(repos.customers, repos.orders, log),
		service.NewOrders(repos.orders, products, bus, log),
		service.NewProducts(products),
		log,
	).Register(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("engine", cfg.Store.Engine))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
