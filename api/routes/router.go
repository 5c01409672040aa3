package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brazzaeats/brazzaeats-backend/api/controllers"
	cartcontrollers "github.com/brazzaeats/brazzaeats-backend/api/controllers/cart"
	ordercontrollers "github.com/brazzaeats/brazzaeats-backend/api/controllers/orders"
	"github.com/brazzaeats/brazzaeats-backend/api/middleware"
	"github.com/brazzaeats/brazzaeats-backend/internal/cart"
	"github.com/brazzaeats/brazzaeats-backend/internal/catalog"
	checkoutsvc "github.com/brazzaeats/brazzaeats-backend/internal/checkout"
	"github.com/brazzaeats/brazzaeats-backend/internal/favorites"
	"github.com/brazzaeats/brazzaeats-backend/internal/notifications"
	"github.com/brazzaeats/brazzaeats-backend/internal/orders"
	"github.com/brazzaeats/brazzaeats-backend/internal/profile"
	"github.com/brazzaeats/brazzaeats-backend/pkg/config"
	"github.com/brazzaeats/brazzaeats-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	gatherer prometheus.Gatherer,
	sessionStore controllers.SessionStore,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	profileService profile.Service,
	favoritesService favorites.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", controllers.CreateSession(sessionStore, cfg.Session, logg))

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", controllers.ListRestaurants(catalogService, logg))
			r.Get("/featured", controllers.FeaturedRestaurants(catalogService, logg))
			r.Get("/{restaurantId}", controllers.GetRestaurant(catalogService, logg))
		})
		r.Get("/dishes", controllers.ListDishes(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))

			r.Get("/sessions/me", controllers.CurrentSession(sessionStore, logg))
			r.Delete("/sessions/me", controllers.EndSession(sessionStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Delete("/", cartcontrollers.CartClear(cartService, logg))
				r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
				r.Patch("/items/{index}", cartcontrollers.CartUpdateQuantity(cartService, logg))
				r.Delete("/items/{index}", cartcontrollers.CartRemoveItem(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(ordersService, logg))
				r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
				r.Post("/{orderId}/status", ordercontrollers.Transition(ordersService, logg))
				r.Get("/{orderId}/qrcode", ordercontrollers.Receipt(ordersService, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(profileService, logg))
				r.Patch("/", controllers.UpdateProfile(profileService, logg))
				r.Put("/preferences", controllers.SetPreferences(profileService, logg))
				r.Get("/recommendations", controllers.Recommendations(profileService, catalogService, logg))
				r.Post("/login", controllers.Login(profileService, logg))
				r.Post("/logout", controllers.Logout(profileService, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.ListFavorites(favoritesService, logg))
				r.Post("/{favoriteId}/toggle", controllers.ToggleFavorite(favoritesService, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(notificationsService, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			})
		})
	})

	return r
}
