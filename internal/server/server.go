package server

import (
	"context"
	"course-marketplace/internal/handler"
	"course-marketplace/internal/middleware"
	"course-marketplace/internal/service"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Services struct {
	Proxy        service.ProxyService
	Checkout     service.CheckoutService
	Course       service.CourseService
	Enrollment   service.EnrollmentService
	Notification service.NotificationService
}

type Server struct {
	echo              *echo.Echo
	jwtSecret         string
	proxyHandler      *handler.ProxyHandler
	checkoutHandler   *handler.CheckoutHandler
	courseHandler     *handler.CourseHandler
	enrollmentHandler *handler.EnrollmentHandler
	emailHandler      *handler.EmailHandler
}

func NewServer(services Services, jwtSecret string, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			log.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(20))))

	s := &Server{
		echo:              e,
		jwtSecret:         jwtSecret,
		proxyHandler:      handler.NewProxyHandler(services.Proxy),
		checkoutHandler:   handler.NewCheckoutHandler(services.Checkout),
		courseHandler:     handler.NewCourseHandler(services.Course),
		enrollmentHandler: handler.NewEnrollmentHandler(services.Enrollment),
		emailHandler:      handler.NewEmailHandler(services.Notification),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- public --------
	api.GET("/courses", s.courseHandler.List)
	api.GET("/courses/:id", s.courseHandler.Get)

	// -------- provider callbacks --------
	api.GET("/checkout/result", s.checkoutHandler.Result)
	api.POST("/checkout/notify", s.checkoutHandler.Notify)

	auth := middleware.AuthMiddleware(s.jwtSecret)

	// -------- checkout --------
	checkout := api.Group("/checkout/sessions", auth)
	checkout.POST("", s.checkoutHandler.Start)
	checkout.GET("/:id", s.checkoutHandler.Get)
	checkout.POST("/:id/next", s.checkoutHandler.Next)
	checkout.POST("/:id/back", s.checkoutHandler.Back)
	checkout.POST("/:id/submit", s.checkoutHandler.Submit)

	// -------- me --------
	me := api.Group("/me", auth)
	me.GET("/enrollments", s.enrollmentHandler.List)
	me.PUT("/enrollments/:courseId/progress", s.enrollmentHandler.UpdateProgress)
	me.GET("/profile", s.enrollmentHandler.GetProfile)
	me.PUT("/profile", s.enrollmentHandler.UpdateProfile)

	// -------- admin --------
	admin := api.Group("/admin", auth, middleware.RequireAdmin())
	admin.GET("/courses", s.courseHandler.AdminList)
	admin.POST("/courses", s.courseHandler.Create)
	admin.PUT("/courses/:id", s.courseHandler.Update)
	admin.DELETE("/courses/:id", s.courseHandler.Delete)
	admin.POST("/emails", s.emailHandler.Send)
	admin.POST("/provider/account/token", s.proxyHandler.Token)
	admin.POST("/provider/relay", s.proxyHandler.Relay)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
