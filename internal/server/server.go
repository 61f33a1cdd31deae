// Package server assembles the Fiber app of each ForexPro service.
package server

import (
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/forexpro/backend/internal/config"
	"github.com/forexpro/backend/internal/handler"
	"github.com/forexpro/backend/internal/middleware"
	"github.com/forexpro/backend/internal/token"
)

const (
	Auth      = "auth"
	Profile   = "profile"
	Referrals = "referrals"
	Trading   = "trading"
	Demo      = "demo"
	Wallet    = "wallet"
	Dashboard = "dashboard"
	Admin     = "admin"
)

// Names lists every service in start order.
var Names = []string{Auth, Profile, Referrals, Trading, Demo, Wallet, Dashboard, Admin}

const profileImageRoute = "/api/user/profile-image"

// Deps is everything the service apps share.
type Deps struct {
	Config  *config.Config
	Store   fiber.Storage
	Tokens  *token.Manager
	Handler *handler.Handler
	Admin   *handler.AdminHandler
}

// Port returns the configured listen port of the named service.
func Port(cfg *config.Config, name string) (string, error) {
	p := cfg.Ports
	switch name {
	case Auth:
		return p.Auth, nil
	case Profile:
		return p.Profile, nil
	case Referrals:
		return p.Referrals, nil
	case Trading:
		return p.Trading, nil
	case Demo:
		return p.Demo, nil
	case Wallet:
		return p.Wallet, nil
	case Dashboard:
		return p.Dashboard, nil
	case Admin:
		return p.Admin, nil
	default:
		return "", fmt.Errorf("unknown service %q", name)
	}
}

// New builds the app for the named service with the shared middleware
// chain and that service's routes.
func New(name string, d Deps) (*fiber.App, error) {
	register, ok := routes[name]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", name)
	}

	cfg := d.Config.Server
	bodyLimit := cfg.BodyLimit
	if name == Profile {
		// Multipart overhead on top of the largest allowed image.
		bodyLimit = config.MaxProfileImage + 64*1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "forexpro-" + name,
		BodyLimit:    bodyLimit,
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} [" + name + "] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(compress.New())
	app.Use(middleware.BodyLimit(cfg.BodyLimit, profileImageRoute))

	app.Get("/health", d.Handler.Health)

	limits := d.Config.Limits
	app.Use("/api", middleware.RateLimit(d.Store, name+":api", limits.APIMax, limits.Window,
		"Too many requests, please try again later"))

	register(app, d)

	app.Static("/", cfg.PublicDir)

	return app, nil
}

var routes = map[string]func(fiber.Router, Deps){
	Auth:      authRoutes,
	Profile:   profileRoutes,
	Referrals: referralRoutes,
	Trading:   tradingRoutes,
	Demo:      demoRoutes,
	Wallet:    walletRoutes,
	Dashboard: dashboardRoutes,
	Admin:     adminRoutes,
}

// Select resolves the SERVICES list into service names.
func Select(cfg *config.Config) []string {
	var out []string
	for _, name := range Names {
		if cfg.Server.Runs(name) {
			out = append(out, name)
		}
	}
	return out
}

func demoPage(publicDir string) fiber.Handler {
	page := filepath.Join(publicDir, "demo.html")
	return func(c *fiber.Ctx) error {
		return c.SendFile(page)
	}
}
