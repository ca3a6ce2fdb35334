package main

import (
	"log"
	"os"

	"github.com/grocerydash/grocery-dashboard-golang/internal/database"
	"github.com/grocerydash/grocery-dashboard-golang/internal/handlers"
	"github.com/grocerydash/grocery-dashboard-golang/internal/payment"
	"github.com/grocerydash/grocery-dashboard-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Payment Gateway Verifier ---
	gatewaySecret := os.Getenv("PAYMENT_GATEWAY_SECRET")
	if gatewaySecret == "" {
		log.Fatal("CRITICAL ERROR: PAYMENT_GATEWAY_SECRET environment variable is not set.")
	}

	// --- Application Setup ---
	// All dependencies are injected into the Handlers struct.
	app := &handlers.Handlers{
		DB:      db,
		Gateway: payment.NewHMACVerifier(gatewaySecret),
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Grocery Dashboard API server on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
