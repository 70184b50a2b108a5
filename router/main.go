package router

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/databridge-consult/databridge-api/config"
	"github.com/databridge-consult/databridge-api/database"
	"github.com/databridge-consult/databridge-api/handlers"
	auth_handlers "github.com/databridge-consult/databridge-api/handlers/auth"
	blog_handlers "github.com/databridge-consult/databridge-api/handlers/blog"
	dashboard_handlers "github.com/databridge-consult/databridge-api/handlers/dashboard"
	message_handlers "github.com/databridge-consult/databridge-api/handlers/message"
	order_handlers "github.com/databridge-consult/databridge-api/handlers/order"
	product_handlers "github.com/databridge-consult/databridge-api/handlers/product"
	service_handlers "github.com/databridge-consult/databridge-api/handlers/service"
	user_handlers "github.com/databridge-consult/databridge-api/handlers/user"
	"github.com/databridge-consult/databridge-api/model"
	"github.com/databridge-consult/databridge-api/utils/auth"
	"github.com/databridge-consult/databridge-api/utils/cache"
	"github.com/databridge-consult/databridge-api/utils/middleware"
	"github.com/databridge-consult/databridge-api/utils/response"
)

// SetupRoutes wires components and mounts every route group
func SetupRoutes(app *fiber.App, store *database.GORMStore) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Blacklist: Redis when configured, in-process fallback otherwise.
	var blacklist auth.Blacklist = auth.NewMemoryBlacklist()
	if getEnv.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Redis unavailable, falling back to in-memory blacklist: %v", err)
		} else {
			blacklist = auth.NewRedisBlacklist(redisCache)
			log.Println("Using Redis-backed token blacklist")
		}
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        getEnv.JWT_SECRET,
		Issuer:        getEnv.JWT_ISSUER,
		Expiry:        getEnv.JWT_EXPIRY,
		RefreshExpiry: getEnv.REFRESH_TOKEN_EXPIRY,
	}, blacklist, store)

	hasher := auth.NewPasswordHasher(getEnv.BCRYPT_COST)
	guard := auth.NewGuard(store, getEnv.MAX_LOGIN_ATTEMPTS, getEnv.LOCKOUT_DURATION)
	cookies := auth.NewCookieTransport(getEnv.JWT_EXPIRY, getEnv.REFRESH_TOKEN_EXPIRY, getEnv.IsProduction())
	gate := middleware.NewRequestGate(jwtManager, cookies)

	db := store.GetDB()

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, guard, hasher, cookies, store)
	dashboardHandler := dashboard_handlers.NewDashboardHandler(db)
	serviceHandler := service_handlers.NewServiceHandler(db)
	productHandler := product_handlers.NewProductHandler(db)
	orderHandler := order_handlers.NewOrderHandler(db)
	messageHandler := message_handlers.NewMessageHandler(db)
	blogHandler := blog_handlers.NewBlogHandler(db)
	userHandler := user_handlers.NewUserHandler(db)

	// Health
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	// Auth endpoints; login and signup are guest-only.
	authGroup := app.Group("/auth")
	authGroup.Post("/signup", gate.GuestOnly(), authHandler.Signup)
	authGroup.Post("/login", gate.GuestOnly(), authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", gate.RequireRole(model.RoleUser), authHandler.Me)
	// Anything else on these paths is a method mismatch, not a 404.
	authGroup.All("/signup", methodNotAllowed)
	authGroup.All("/login", methodNotAllowed)
	authGroup.All("/refresh", methodNotAllowed)
	authGroup.All("/logout", methodNotAllowed)
	authGroup.All("/me", methodNotAllowed)

	// Dashboard areas behind the gate
	dash := app.Group("/dashboard", gate.Dashboard())
	dash.Get("/", dashboardHandler.Home)
	dash.Get("/user", dashboardHandler.UserArea)
	dash.Get("/admin", dashboardHandler.AdminArea)
	dash.Get("/superadmin", dashboardHandler.SuperadminArea)

	// Services: public reads, admin writes
	services := app.Group("/api/services")
	services.Get("/", serviceHandler.ListServices)
	services.Get("/:id", serviceHandler.GetService)
	services.Post("/", gate.RequireRole(model.RoleAdmin), serviceHandler.CreateService)
	services.Put("/:id", gate.RequireRole(model.RoleAdmin), serviceHandler.UpdateService)
	services.Delete("/:id", gate.RequireRole(model.RoleAdmin), serviceHandler.DeleteService)

	// Products: public reads, admin writes
	products := app.Group("/api/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", gate.RequireRole(model.RoleAdmin), productHandler.CreateProduct)
	products.Put("/:id", gate.RequireRole(model.RoleAdmin), productHandler.UpdateProduct)
	products.Delete("/:id", gate.RequireRole(model.RoleAdmin), productHandler.DeleteProduct)

	// Blog: public reads, admin writes. Posts are addressed by slug.
	blog := app.Group("/api/blog")
	blog.Get("/", blogHandler.ListPosts)
	blog.Post("/", gate.RequireRole(model.RoleAdmin), blogHandler.CreatePost)
	blog.Get("/:slug", blogHandler.GetPost)
	blog.Put("/:slug", gate.RequireRole(model.RoleAdmin), blogHandler.UpdatePost)
	blog.Delete("/:slug", gate.RequireRole(model.RoleAdmin), blogHandler.DeletePost)

	// Orders: any authenticated user; status transitions are admin-only
	orders := app.Group("/api/orders", gate.RequireRole(model.RoleUser))
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", gate.RequireRole(model.RoleAdmin), orderHandler.UpdateOrderStatus)

	// Research requests: any authenticated user; status is admin-only
	research := app.Group("/api/research-requests", gate.RequireRole(model.RoleUser))
	research.Get("/", serviceHandler.ListResearchRequests)
	research.Post("/", serviceHandler.CreateResearch)
	research.Patch("/:id/status", gate.RequireRole(model.RoleAdmin), serviceHandler.UpdateResearchStatus)

	// Messages: any authenticated user
	messages := app.Group("/api/messages", gate.RequireRole(model.RoleUser))
	messages.Get("/", messageHandler.ListMessages)
	messages.Post("/", messageHandler.SendMessage)

	// User administration: superadmin only
	users := app.Group("/api/users", gate.RequireRole(model.RoleSuperadmin))
	users.Get("/", userHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Patch("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)
}

func methodNotAllowed(c *fiber.Ctx) error {
	return response.MethodNotAllowed(c)
}
