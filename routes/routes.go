package routes

import (
	"os"
	"strings"

	"truckshop-backend/config"
	"truckshop-backend/controllers"
	"truckshop-backend/services"
	"truckshop-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	invoiceController := controllers.NewInvoiceController(
		services.NewInvoiceService(config.DB, services.NewTwilioTransport()))

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Job routes
		jobs := api.Group("/jobs")
		{
			jobs.POST("", controllers.CreateJob)
			jobs.GET("", controllers.GetJobs)
			jobs.GET("/:id", controllers.GetJob)
			jobs.PUT("/:id", controllers.UpdateJob)
			jobs.DELETE("/:id", controllers.DeleteJob)
		}

		// Parts catalog routes
		parts := api.Group("/parts")
		{
			parts.POST("", controllers.CreatePart)
			parts.GET("", controllers.GetParts)
			parts.GET("/:id", controllers.GetPart)
			parts.PUT("/:id", controllers.UpdatePart)
			parts.DELETE("/:id", controllers.DeletePart)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceController.CreateInvoice)
			invoices.POST("/preview", invoiceController.PreviewInvoice)
			invoices.GET("", invoiceController.GetInvoices)
			invoices.GET("/:id", invoiceController.GetInvoice)
			invoices.PUT("/:id", invoiceController.UpdateInvoice)
			invoices.POST("/:id/send", invoiceController.SendInvoice)
			invoices.POST("/:id/pay", invoiceController.MarkInvoicePaid)
		}

		// Settings routes
		settings := api.Group("/settings")
		{
			settings.GET("", controllers.GetShopSettings)
			settings.PUT("", utils.OwnerOnly(), controllers.UpdateShopSettings)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
