package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/roomly/booking-core/internal/cache"
	"github.com/roomly/booking-core/internal/config"
	"github.com/roomly/booking-core/internal/db"
	"github.com/roomly/booking-core/internal/events"
	"github.com/roomly/booking-core/internal/handler"
	"github.com/roomly/booking-core/internal/model"
	"github.com/roomly/booking-core/internal/payment"
	"github.com/roomly/booking-core/internal/repository"
	"github.com/roomly/booking-core/internal/service"
)

func main() {
	// .env подхватываем, если есть; в контейнере конфиг приходит из окружения.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// 1. Загружаем конфиг БД из env.
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("load db config: %v", err)
	}
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	roomRepo := repository.NewGormRoomRepository(gormDB)
	slotRepo := repository.NewGormSlotRepository(gormDB)
	reservationRepo := repository.NewGormReservationRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	// 5. Кэш читающих проекций: явный объект с регионами, без глобального
	// состояния.
	cacheSvc := cache.New(map[cache.Region]cache.Config{
		cache.RegionRooms:            {TTL: appCfg.Cache.RoomTTL, MaxEntries: appCfg.Cache.RoomMax},
		cache.RegionSlots:            {TTL: appCfg.Cache.SlotTTL, MaxEntries: appCfg.Cache.SlotMax},
		cache.RegionSlotsByRoom:      {TTL: appCfg.Cache.SlotTTL, MaxEntries: appCfg.Cache.SlotMax},
		cache.RegionSlotsByDateRange: {TTL: appCfg.Cache.SlotTTL, MaxEntries: appCfg.Cache.SlotMax},
		cache.RegionAvailableSlots:   {TTL: appCfg.Cache.SlotTTL, MaxEntries: appCfg.Cache.SlotMax},
		cache.RegionReservations:     {TTL: appCfg.Cache.ReservationTTL, MaxEntries: appCfg.Cache.ReservationMax},
		cache.RegionUserReservations: {TTL: appCfg.Cache.ReservationTTL, MaxEntries: appCfg.Cache.ReservationMax},
	})

	// 6. Публикация событий — опциональна: без брокера ядро работает.
	var pub *events.Publisher
	if appCfg.AMQP.URL != "" {
		pub, err = events.NewPublisher(appCfg.AMQP.URL, appCfg.AMQP.Exchange)
		if err != nil {
			logger.WithError(err).Warn("amqp unavailable, events will not be published")
			pub = nil
		} else {
			defer pub.Close()
		}
	}
	activity := service.NewActivityLog(gormDB, pub, logger)

	// 7. Платёжный провайдер.
	provider, err := payment.NewOmiseProvider(appCfg.Payment.OmisePublicKey, appCfg.Payment.OmiseSecretKey)
	if err != nil {
		log.Fatalf("init payment provider: %v", err)
	}
	retry := payment.RetryPolicy{
		Base:        appCfg.Payment.RetryBase,
		Cap:         appCfg.Payment.RetryCap,
		MaxAttempts: appCfg.Payment.RetryAttempts,
	}

	// 8. Сервисы ядра.
	identitySvc := service.NewIdentityService(userRepo)
	roomSvc := service.NewRoomService(roomRepo, cacheSvc, activity)
	slotSvc := service.NewSlotService(slotRepo, roomRepo, cacheSvc, activity)
	reservationSvc := service.NewReservationService(reservationRepo, slotRepo, roomRepo, cacheSvc, activity, logger)
	paymentSvc := service.NewPaymentService(provider, retry, appCfg.Payment.Currency,
		reservationSvc, slotRepo, roomRepo, activity, logger)

	// 9. HTTP-поверхность.
	e := handler.NewEcho(
		appCfg.Auth.JWTSecret,
		identitySvc,
		handler.NewRoomHandler(roomSvc, slotSvc),
		handler.NewSlotHandler(slotSvc),
		handler.NewReservationHandler(reservationSvc),
		handler.NewPaymentHandler(paymentSvc),
	)

	// 10. Запускаем сервер в горутине.
	go func() {
		if err := e.Start(appCfg.HTTP.Addr); err != nil {
			logger.WithError(err).Info("http server stopped")
		}
	}()
	logger.WithField("addr", appCfg.HTTP.Addr).Info("booking core listening")

	// 11. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), appCfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}
