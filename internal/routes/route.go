package routes

import (
	"net/http"

	"cimhub-go/internal/auth"
	"cimhub-go/internal/config"
	"cimhub-go/internal/handlers"
	"cimhub-go/internal/logger"
	mdlwr "cimhub-go/internal/middleware"
	"cimhub-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// NewRouter wires the export API. db backs operator logins and may be nil
// when AUTH_ENABLED is false.
func NewRouter(db *bun.DB, exporter handlers.Exporter, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Export-Run", "X-Export-Skipped"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	xfmrHandler := handlers.NewXfmrCodeHandler(exporter, logr.Logger)

	var authMW *mdlwr.AuthMiddleware
	var authHandler *handlers.AuthHandler
	if cfg.AuthEnabled {
		jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, "cimhub")
		if err != nil {
			logr.Fatal("failed to init jwt manager", zap.Error(err))
		}
		operatorSvc := services.NewOperatorService(db, jwtMgr, cfg, logr)
		authMW = mdlwr.NewAuthMiddleware(jwtMgr, operatorSvc, logr.Logger)
		authHandler = handlers.NewAuthHandler(operatorSvc, logr.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if authHandler != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", authHandler.LoginLocal)
				r.Post("/ldap", authHandler.LoginLDAP)
			})
		}

		r.Group(func(r chi.Router) {
			if authMW != nil {
				r.Use(authMW.JWTAuth)
			}
			r.Route("/xfmrcodes", func(r chi.Router) {
				r.Get("/", xfmrHandler.Catalog)
				r.Get("/glm", xfmrHandler.GLM)
				r.Get("/dss", xfmrHandler.DSS)
				r.Get("/csv", xfmrHandler.CSV)
				r.Get("/{name}", xfmrHandler.GetByName)
			})
			r.Get("/meshes", xfmrHandler.Meshes)
		})
	})

	return r
}
