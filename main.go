package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/mentortyme/backend/booking"
	"github.com/mentortyme/backend/controllers"
	appcron "github.com/mentortyme/backend/cron"
	"github.com/mentortyme/backend/db"
	"github.com/mentortyme/backend/redis"
	"github.com/mentortyme/backend/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	if os.Getenv("AUTO_MIGRATE") != "" {
		db.Migrate()
	}
	redis.Init()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	routes.SetupAuthRoutes(app)
	routes.SetupProfileRoutes(app)
	routes.SetupServiceRoutes(app)
	routes.SetupScheduleRoutes(app)
	routes.SetupBookingRoutes(app)

	appcron.StartCronJobs(booking.NewManager(db.DB, controllers.Calendar))

	log.Fatal(app.Listen(":8000"))
}
