package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/warehouse-inventory/internal/application/appointment"
	"github.com/jhoicas/warehouse-inventory/internal/application/audit"
	"github.com/jhoicas/warehouse-inventory/internal/application/auth"
	"github.com/jhoicas/warehouse-inventory/internal/application/inventory"
	"github.com/jhoicas/warehouse-inventory/internal/application/notification"
	"github.com/jhoicas/warehouse-inventory/internal/application/state"
	"github.com/jhoicas/warehouse-inventory/internal/application/usecase"
	"github.com/jhoicas/warehouse-inventory/internal/domain/repository"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/kafka"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/mongodb"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/mysql"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/notifier"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/warehouse-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/warehouse-inventory/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/warehouse-inventory/internal/interfaces/http"
	"github.com/jhoicas/warehouse-inventory/pkg/config"
	"github.com/jhoicas/warehouse-inventory/pkg/logger"
)

func main() {
	// .env es opcional; las variables ya definidas en el entorno tienen prioridad.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("notify", cfg.Notify.Driver).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir store de colecciones")
	}
	defer closeStore()

	var opts []state.Option
	var archive *mongodb.AuditArchive
	if cfg.Mongo.URI != "" {
		client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		archive = mongodb.NewAuditArchive(client, cfg.Mongo.Database, cfg.Mongo.Collection, cfg.App.Name)
		if err := archive.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("índices del archivo de bitácora")
		}
		opts = append(opts, state.WithAuditSink(archive))
		log.Info().Str("database", cfg.Mongo.Database).Msg("archivo de bitácora en MongoDB activo")
	}

	session, err := state.Open(ctx, store, log, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar estado de la aplicación")
	}

	// ── Canal de notificaciones ──────────────────────────────────────────────
	outboxCfg := notification.OutboxConfig{
		Workers:       cfg.Notify.Workers,
		QueueSize:     cfg.Notify.QueueSize,
		Timeout:       cfg.Notify.Timeout,
		AdvisoryLimit: cfg.Notify.AdvisoryLimit,
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewAdvisoryPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar publisher de Kafka")
			}
		}()
		outboxCfg.Publisher = publisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("avisos publicados en Kafka")
	}
	outbox := notification.NewOutbox(newNotifier(cfg, log), log, outboxCfg)
	sweeper := notification.NewSweeper(session, outbox,
		notification.Recipient{Name: cfg.Notify.AdminName, Email: cfg.Notify.AdminEmail},
		cfg.Notify.SweepInterval, log)

	var wg sync.WaitGroup
	background := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
			log.Debug().Str("worker", name).Msg("detenido")
		}()
	}
	background("watch", func(ctx context.Context) {
		if err := session.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("feed de cambios finalizado")
		}
	})
	background("outbox", outbox.Run)
	background("sweeper", sweeper.Run)

	// ── Casos de uso ──────────────────────────────────────────────────────────
	authUC, err := auth.NewAuthUseCase(session, auth.Config{
		Admin: auth.AdminAccount{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
		},
		JWT: auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar auth")
	}
	if cfg.Admin.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD vacío: el login del administrador está deshabilitado")
	}

	auditUC := audit.NewUseCase(session, report.NewCSV(), report.NewExcel(), report.NewHTML(), report.NewPDF())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // las exportaciones PDF pueden tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: fiber.HeaderContentDisposition,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Warehouse Inventory API",
		}))
	}

	deps := httpRouter.RouterDeps{
		AuthUC:        authUC,
		ItemUC:        usecase.NewItemUseCase(session),
		SupplierUC:    usecase.NewSupplierUseCase(session),
		CategoryUC:    usecase.NewCategoryUseCase(session),
		DamagedUC:     usecase.NewDamagedItemUseCase(session),
		DashboardUC:   usecase.NewDashboardUseCase(session),
		Transactions:  inventory.NewRegisterTransactionUseCase(session),
		Replenishment: inventory.NewReplenishmentUseCase(session),
		AppointmentUC: appointment.NewUseCase(session, outbox),
		AuditUC:       auditUC,
		Advisories:    outbox,
		JWTSecret:     cfg.JWT.Secret,
	}
	if archive != nil {
		deps.Archive = archive
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	cancel()
	wg.Wait()
	log.Info().Msg("aplicación detenida")
}

// openStore elige el adaptador del CollectionStore según STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.CollectionStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewCollectionStore(pool, log.Named("postgres"))
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case config.StoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return infraredis.NewCollectionStore(client, log.Named("redis")), func() { _ = client.Close() }, nil

	case config.StoreMySQL:
		db, err := mysql.Open(ctx, cfg.MySQL.DSN)
		if err != nil {
			return nil, nil, err
		}
		store := mysql.NewCollectionStore(db, cfg.MySQL.PollInterval, log.Named("mysql"))
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, func() { _ = db.Close() }, nil

	default:
		log.Warn().Msg("STORE_DRIVER=memory: el estado se pierde al reiniciar")
		return memory.NewCollectionStore(), func() {}, nil
	}
}

// newNotifier elige el relay de correo según NOTIFY_DRIVER.
func newNotifier(cfg *config.Config, log *logger.Logger) notification.Notifier {
	switch cfg.Notify.Driver {
	case config.NotifyEmailJS:
		e := cfg.Notify.EmailJS
		return notifier.NewEmailJS(notifier.EmailJSConfig{
			Endpoint:            e.Endpoint,
			ServiceID:           e.ServiceID,
			PublicKey:           e.PublicKey,
			PrivateKey:          e.PrivateKey,
			LowStockTemplate:    e.LowStockTemplate,
			AppointmentTemplate: e.AppointmentTemplate,
			CancelTemplate:      e.CancelTemplate,
		})
	case config.NotifySMTP:
		s := cfg.Notify.SMTP
		return notifier.NewSMTP(notifier.SMTPConfig{
			Host:     s.Host,
			Port:     s.Port,
			Username: s.Username,
			Password: s.Password,
			From:     s.From,
		})
	default:
		return notifier.NewLog(log)
	}
}
