package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mdmahmu/toolstun-server/internal/api/handlers"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

type Tokens interface {
	handlers.TokenIssuer
	handlers.TokenVerifier
}

type Deps struct {
	Reviews     repository.ReviewRepository
	Products    repository.ProductRepository
	Orders      repository.OrderRepository
	Users       repository.UserRepository
	Settlements repository.SettlementRepository
	Payments    handlers.IntentCreator
	Tokens      Tokens
	DB          handlers.Pinger

	LegacyOwnerCheck bool
	CORSOrigins      []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(d.CORSOrigins),
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	health := handlers.NewHealthHandler(d.DB)
	reviews := handlers.NewReviewHandler(d.Reviews)
	products := handlers.NewProductHandler(d.Products)
	orders := handlers.NewOrderHandler(d.Orders, d.LegacyOwnerCheck)
	users := handlers.NewUserHandler(d.Users, d.Tokens)
	payments := handlers.NewPaymentHandler(d.Payments)
	settlements := handlers.NewSettlementHandler(d.Settlements)

	r.Get("/", health.Root)
	r.Get("/healthz", health.Healthz)

	r.Get("/reviews", reviews.GetAll)
	r.Post("/add_review", reviews.Create)

	r.Get("/products", products.GetAll)
	r.Get("/all_tools/{id}", products.GetByID)
	r.Post("/add_product", products.Create)

	r.Post("/place_order", orders.Create)
	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireToken(d.Tokens))
		r.Get("/orders", orders.GetMine)
		r.Get("/orders/", orders.GetMine)
	})
	r.Get("/payment/{orderId}", orders.GetByID)
	r.Delete("/orders/{orderId}", orders.Delete)

	r.Post("/create-payment-intent", payments.CreateIntent)
	r.Put("/update_data", settlements.Settle)

	r.Put("/user", users.Upsert)
	r.Get("/users", users.GetAll)
	r.Get("/user", users.GetOne)
	r.Put("/users/updateRole", users.MakeAdmin)

	return r
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
