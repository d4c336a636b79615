// Package server assembles the Fiber application.
package server

import (
	"time"

	adminControllers "careerlink/controllers/admin"
	authControllers "careerlink/controllers/auth"
	badgeControllers "careerlink/controllers/badge"
	careerFairControllers "careerlink/controllers/careerFair"
	courseControllers "careerlink/controllers/course"
	jobControllers "careerlink/controllers/job"
	mentoringControllers "careerlink/controllers/mentoring"
	"careerlink/middleware"
	"careerlink/routers/adminRoutes"
	"careerlink/routers/authRoutes"
	"careerlink/routers/badgeRoutes"
	"careerlink/routers/careerFairRoutes"
	"careerlink/routers/courseRoutes"
	"careerlink/routers/jobRoutes"
	"careerlink/routers/mentoringRoutes"
	"careerlink/services"
	"careerlink/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Tokens      *middleware.TokenManager
	Auth        *services.AuthService
	Courses     *services.CourseService
	Enrollments *services.EnrollmentService
	Badges      *services.BadgeService
	Jobs        *services.JobService
	Mentoring   *services.MentoringService
	CareerFair  *services.CareerFairService
	Uploader    *utils.Uploader

	// AccessLog enables the request logger; tests leave it off.
	AccessLog bool
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "CareerLink API",
		// three 5 MB documents per application plus form overhead
		BodyLimit:    int(d.Uploader.MaxBytes)*3 + 1<<20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return middleware.JsonResponse(c, fe.Code, false, fe.Message, nil)
			}
			return middleware.ErrorResponse(c, err)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if d.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CareerLink API is running")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/uploads", d.Uploader.Dir)

	jwt := middleware.JWTMiddleware(d.Tokens)
	api := app.Group("/api")

	badges := badgeControllers.NewHandler(d.Badges, d.Uploader, utils.ImageTypes)

	authRoutes.SetupAuthRoutes(api, authControllers.NewHandler(d.Auth, d.Uploader, utils.PhotoTypes), jwt)
	adminRoutes.SetupAdminRoutes(api, adminControllers.NewHandler(d.Auth), jwt)
	jobRoutes.SetupJobRoutes(api, jobControllers.NewHandler(d.Jobs), jwt)
	courseRoutes.SetupCourseRoutes(api, courseControllers.NewHandler(d.Courses, d.Enrollments), badges, jwt)
	badgeRoutes.SetupBadgeRoutes(api, badges, jwt)
	careerFairRoutes.SetupCareerFairRoutes(api, careerFairControllers.NewHandler(d.CareerFair), jwt)
	mentoringRoutes.SetupMentoringRoutes(api, mentoringControllers.NewHandler(d.Mentoring), jwt)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found", nil)
	})

	return app
}
