package server

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/lab-reserve/internal/config"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/admin/digestrun"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/admin/emailstatus"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/admin/emailtest"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/lab-reserve/internal/http/handlers/auth/register"
	bookingcancel "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/booking/cancel"
	bookingcreate "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/booking/create"
	bookingextend "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/booking/extend"
	bookinglist "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/booking/list"
	bookinglistuser "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/booking/listuser"
	servercreate "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/server/create"
	serverlist "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/server/list"
	serverread "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/server/read"
	serverremove "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/server/remove"
	serverupdate "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/server/update"
	userlist "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/user/remove"
	usertoggleadmin "github.com/magabrotheeeer/lab-reserve/internal/http/handlers/user/toggleadmin"
	"github.com/magabrotheeeer/lab-reserve/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/lab-reserve/internal/services/auth"
	bookingservice "github.com/magabrotheeeer/lab-reserve/internal/services/booking"
	digestservice "github.com/magabrotheeeer/lab-reserve/internal/services/digest"
	senderservice "github.com/magabrotheeeer/lab-reserve/internal/services/sender"
	serverservice "github.com/magabrotheeeer/lab-reserve/internal/services/server"
	userservice "github.com/magabrotheeeer/lab-reserve/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authSvc *authservice.AuthService,
	bookingSvc *bookingservice.Service,
	serverSvc *serverservice.Service,
	userSvc *userservice.Service,
	digestSvc *digestservice.Service,
	senderSvc *senderservice.SenderService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authSvc).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authSvc).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(authSvc, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, authSvc).ServeHTTP)
			r.Get("/auth/me", me.New(logger, authSvc).ServeHTTP)

			r.Get("/servers", serverlist.New(logger, serverSvc).ServeHTTP)
			r.Get("/servers/{id}", serverread.New(logger, serverSvc).ServeHTTP)

			r.Post("/bookings", bookingcreate.New(logger, bookingSvc).ServeHTTP)
			r.Put("/bookings/{id}/extend", bookingextend.New(logger, bookingSvc).ServeHTTP)
			r.Put("/bookings/{id}/cancel", bookingcancel.New(logger, bookingSvc).ServeHTTP)
			r.Get("/users/{id}", userread.New(logger, userSvc).ServeHTTP)
			r.Get("/users/{id}/bookings", bookinglistuser.New(logger, bookingSvc).ServeHTTP)

			// Группа администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))

				r.Get("/bookings", bookinglist.New(logger, bookingSvc).ServeHTTP)

				r.Post("/servers", servercreate.New(logger, serverSvc).ServeHTTP)
				r.Patch("/servers/{id}", serverupdate.New(logger, serverSvc).ServeHTTP)
				r.Delete("/servers/{id}", serverremove.New(logger, serverSvc).ServeHTTP)

				r.Get("/users", userlist.New(logger, userSvc).ServeHTTP)
				r.Delete("/users/{id}", userremove.New(logger, userSvc).ServeHTTP)
				r.Post("/users/{id}/toggle-admin", usertoggleadmin.New(logger, userSvc).ServeHTTP)

				r.Post("/admin/digest/run", digestrun.New(logger, digestSvc).ServeHTTP)
				r.Get("/admin/email/status", emailstatus.New(logger, cfg.EmailConfigured()).ServeHTTP)
				r.Post("/admin/email/test", emailtest.New(logger, senderSvc).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
