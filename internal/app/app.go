package app

import (
	"gatehouse/config"
	"gatehouse/internal/database"
	"gatehouse/internal/geocoder"
	"gatehouse/internal/handlers/middleware"
	"gatehouse/internal/logger"
	"gatehouse/internal/repositories"
	"gatehouse/internal/services"

	addressController "gatehouse/internal/controllers/address"
	checkinController "gatehouse/internal/controllers/checkin"
	userController "gatehouse/internal/controllers/users"
	visitorController "gatehouse/internal/controllers/visitor"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config

	// Services
	TransactionService *services.TransactionService
	AccessCodeService  *services.AccessCodeService
	Geocoder           geocoder.Client

	// Repositories
	UserRepo    repositories.UserRepository
	AddressRepo repositories.AddressRepository
	VisitorRepo repositories.VisitorRepository
	CheckInRepo repositories.CheckInRepository

	// Controllers
	UserController    *userController.UserController
	AddressController *addressController.AddressController
	VisitorController *visitorController.VisitorController
	CheckInController *checkinController.CheckInController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	// Initialize services
	transactionService := services.NewTransactionService(db)
	accessCodeService := services.NewAccessCodeService()
	geocoderClient := geocoder.New(config, db.Cache.Geocode)

	// Initialize repositories
	userRepo := repositories.NewUser(db)
	addressRepo := repositories.NewAddress(db)
	visitorRepo := repositories.NewVisitor(db)
	checkInRepo := repositories.NewCheckIn(db)

	// Initialize controllers with repositories and services
	userController := userController.New(userRepo, db.Cache.Session, transactionService, config)
	addressController := addressController.New(addressRepo, visitorRepo, geocoderClient, transactionService)
	visitorController := visitorController.New(visitorRepo, addressRepo, accessCodeService, transactionService)
	checkinController := checkinController.New(visitorRepo, addressRepo, checkInRepo)

	middleware := middleware.New(userController, config)

	app := &App{
		Database:           db,
		Config:             config,
		Middleware:         middleware,
		TransactionService: transactionService,
		AccessCodeService:  accessCodeService,
		Geocoder:           geocoderClient,
		UserRepo:           userRepo,
		AddressRepo:        addressRepo,
		VisitorRepo:        visitorRepo,
		CheckInRepo:        checkInRepo,
		UserController:     userController,
		AddressController:  addressController,
		VisitorController:  visitorController,
		CheckInController:  checkinController,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.TransactionService,
		a.AccessCodeService,
		a.Geocoder,
		a.UserRepo,
		a.AddressRepo,
		a.VisitorRepo,
		a.CheckInRepo,
		a.UserController,
		a.AddressController,
		a.VisitorController,
		a.CheckInController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	return a.Database.Close()
}
