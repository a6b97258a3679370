package server

import (
	"errors"
	"strconv"
	"time"

	"feedhub/db"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type ServerConfig struct {

	// The store to read and write feeds
	Store *db.Store

	// Broadcaster to pass appended entries to SSE clients
	Broadcaster *Broadcaster

	// Origins allowed by CORS, comma separated
	AllowOrigins string

	// How often SSE clients get a keep-alive ping
	PingInterval time.Duration
}

// Returns a fiber.App instance to be used as an HTTP server for the feed store
func Server(config *ServerConfig) *fiber.App {
	if config.PingInterval <= 0 {
		config.PingInterval = 5 * time.Second
	}
	if config.AllowOrigins == "" {
		config.AllowOrigins = "*"
	}

	h := &handlers{
		store:        config.Store,
		broadcaster:  config.Broadcaster,
		pingInterval: config.PingInterval,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Write the error response now so the status below is the real one
			if handlerErr := errorHandler(c, err); handlerErr != nil {
				log.WithFields(log.Fields{"error": handlerErr}).Error("Error writing error response")
			}
		}

		latency := time.Since(start)
		status := c.Response().StatusCode()

		// Label values outlive the request, so they must not alias fasthttp buffers
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)

		requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
		log.WithFields(log.Fields{
			"method":  method,
			"route":   route,
			"status":  status,
			"latency": latency,
		}).Info("Request")
		return nil
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			// Compression buffers the body, which would stall the event stream
			return c.Path() == "/feeds/events"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AllowOrigins,
		AllowHeaders: "Cache-Control, Content-Type",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/status", h.status)

	app.Get("/feeds", h.listFeeds)
	app.Post("/feeds", h.createFeed)

	// Fixed paths go before /feeds/:id
	app.Get("/feeds/xml", h.allFeedsXML)
	app.Get("/feeds/search", h.searchFeeds)
	app.Get("/feeds/events", h.events)

	app.Get("/feeds/:id", h.getFeed)
	app.Delete("/feeds/:id", h.deleteFeed)
	app.Get("/feeds/:id/xml", h.getFeedXML)
	app.Post("/feeds/:id/entries", h.addEntry)

	return app
}

// errorHandler turns any error into a JSON body with an error message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err,
		}).Error("Error handling request")
	}

	return c.Status(code).JSON(errorBody(err.Error()))
}
