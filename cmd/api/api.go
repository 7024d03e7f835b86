package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"slotbook/internal/auth"
	"slotbook/internal/domain/storage"
	"slotbook/internal/mailer"
	"slotbook/internal/notifications"
	"slotbook/internal/payments"
	"slotbook/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	cld           *cloudinary.Cloudinary
	mailer        mailer.Client
	authenticator auth.Authenticator
	payments      *payments.Manager
	push          notifications.PushSender
	rateLimiter   ratelimiter.Limiter
	wg            sync.WaitGroup
}

type config struct {
	addr        string
	env         string
	apiURL      string
	frontendURL string
	db          dbConfig
	auth        authConfig
	mail        mailConfig
	rateLimiter ratelimiter.Config
	paymentSalt string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret          string
	refreshSecret   string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	fromEmail string
	smtp      smtpConfig
}

type smtpConfig struct {
	host     string
	port     int
	username string
	password string
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(app.RateLimiterMiddleware)

	// Cap request processing; slow store calls surface as timeouts
	// instead of hanging the client forever.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Get("/", app.listVenuesHandler)
			r.Get("/{venueID}", app.getVenueHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.RequireAdmin)
				r.Post("/", app.createVenueHandler)
				r.Patch("/{venueID}", app.updateVenueHandler)
				r.Post("/{venueID}/photos", app.uploadVenuePhotoHandler)
				r.Delete("/{venueID}/photos", app.deleteVenuePhotoHandler)
			})
		})

		r.Route("/grounds", func(r chi.Router) {
			r.Get("/", app.listGroundsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.RequireAdmin)
				r.Post("/", app.createGroundHandler)
				r.Patch("/{groundID}", app.updateGroundHandler)
			})
		})

		r.Route("/slots", func(r chi.Router) {
			r.Get("/", app.listSlotsHandler)
			r.Get("/available", app.listAvailableSlotsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.RequireAdmin)
				r.Patch("/{slotID}/price", app.updateSlotPriceHandler)
				r.Patch("/{slotID}/status", app.updateSlotStatusHandler)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", app.listActiveCouponsHandler)
			r.With(app.AuthTokenMiddleware).Post("/apply", app.applyCouponHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.RequireAdmin)
				r.Get("/all", app.listAllCouponsHandler)
				r.Post("/", app.createCouponHandler)
				r.Patch("/{couponID}", app.updateCouponHandler)
				r.Delete("/{couponID}", app.deleteCouponHandler)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createBookingHandler)
			r.Get("/", app.listMyBookingsHandler)
			r.Get("/{bookingID}", app.getBookingHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.RequireAdmin)
				r.Get("/all", app.listAllBookingsHandler)
				r.Patch("/{bookingID}/payment", app.updateBookingPaymentHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me", app.getCurrentUserHandler)
			r.Put("/", app.updateUserHandler)
			r.Post("/logout", app.logoutHandler)
			r.Post("/push-token", app.registerPushTokenHandler)
			r.Delete("/push-token", app.removePushTokenHandler)

			r.With(app.RequireAdmin).Get("/", app.listProfilesHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	// let in-flight background sends finish
	app.wg.Wait()

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{
		"status":  "ok",
		"env":     app.config.env,
		"version": version,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
