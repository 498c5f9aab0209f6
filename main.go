// path: main.go
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/germanyribeiro/meu-relatorio-lavoura/database"
	"github.com/germanyribeiro/meu-relatorio-lavoura/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("env: loaded .env")
	}

	if err := database.Connect(context.Background()); err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // reports can carry base64 photos
	})
	app.Use(recover.New())

	// Log concise request lines
	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))

	// CORS (dev-friendly)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     getenv("CORS_ORIGINS", "http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "*",
		AllowCredentials: false,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	// Static preview for uploaded photos
	app.Static("/uploads", getenv("UPLOAD_DIR", "uploads"))

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// API
	routes.Register(app)

	addr := ":" + getenv("PORT", "3005")
	log.Println("API listening on " + addr)
	log.Fatal(app.Listen(addr))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
