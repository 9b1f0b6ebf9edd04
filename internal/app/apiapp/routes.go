package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mrbishalbaniya/wanderlink-sub000/internal/config"
	authsvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/auth"
	discoverysvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/discovery"
	geosvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/geo"
	matchessvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/matches"
	mediasvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/media"
	profilesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/profiles"
	swipesvc "github.com/mrbishalbaniya/wanderlink-sub000/internal/services/swipes"
	"github.com/mrbishalbaniya/wanderlink-sub000/internal/transport/http/handlers"
)

type Dependencies struct {
	JWTManager       *authsvc.JWTManager
	DiscoveryService *discoverysvc.Service
	GeoService       *geosvc.Service
	MatchService     *matchessvc.Service
	MediaService     *mediasvc.Service
	ProfileService   *profilesvc.Service
	SwipeService     *swipesvc.Service
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	discoverHandler := handlers.NewDiscoverHandler(deps.DiscoveryService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	locationHandler := handlers.NewLocationHandler(deps.GeoService)
	mediaHandler := handlers.NewMediaHandler(deps.MediaService)

	authMW := AuthMiddleware(deps.JWTManager, deps.Logger)

	r.Get("/health", handlers.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/discover", discoverHandler.Handle)
		r.Post("/swipes", swipeHandler.Handle)
		r.Get("/matches", matchesHandler.Handle)
		r.Post("/matches/unmatch", matchesHandler.Unmatch)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
		r.Put("/profile/location", locationHandler.Update)
		r.Post("/profile/photo", mediaHandler.CreateUpload)
		r.Post("/profile/photo/confirm", mediaHandler.Confirm)
	})
}
