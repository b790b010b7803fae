package main

import (
	"log"

	"ie-tracker-report/internal/api"
	"ie-tracker-report/internal/config"
	"ie-tracker-report/internal/database"
	"ie-tracker-report/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the session store (MongoDB when configured, in-memory otherwise)
	var store database.SessionStore
	if cfg.MongoDB.URI != "" || cfg.MongoDB.Host != "" {
		log.Printf("Initializing MongoDB connection (Host: %s, Port: %s, Database: %s)",
			cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
		mongoStore, err := database.NewMongoStore(cfg.MongoDB)
		if err != nil {
			log.Printf("WARNING: Failed to connect to MongoDB, falling back to in-memory sessions: %v", err)
			store = database.NewMemoryStore()
		} else {
			log.Printf("Successfully connected to MongoDB for session storage")
			store = mongoStore
		}
	} else {
		log.Printf("MongoDB not configured (Host and URI are empty), using in-memory sessions")
		store = database.NewMemoryStore()
	}
	defer store.Close()

	// Initialize services
	dataService := services.NewDataService()
	periodService := services.NewPeriodService()
	aggregateService := services.NewAggregateService(periodService)
	layoutService := services.NewLayoutService()
	excelService := services.NewExcelService()
	aiService := services.NewAIService(cfg.AI)
	reportService := services.NewReportService(
		dataService,
		periodService,
		aggregateService,
		layoutService,
		excelService,
		aiService,
		store,
	)
	taskService := services.NewTaskService()

	// Initialize handlers
	handlers := api.NewHandlers(reportService, taskService, store, cfg.Report.OutputDir, cfg.Report.SchemaPath)

	// Setup routes
	router := api.SetupRoutes(handlers)

	// Start server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
