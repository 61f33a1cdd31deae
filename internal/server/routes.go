package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/forexpro/backend/internal/middleware"
)

func authRoutes(r fiber.Router, d Deps) {
	h := d.Handler
	limits := d.Config.Limits

	r.Get("/api/exchange-rates", h.GetRates)

	auth := r.Group("/api/auth", middleware.RateLimit(d.Store, "auth", limits.AuthMax, limits.Window,
		"Too many authentication attempts, please try again later"))
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Post("/demo", h.Demo)
	auth.Get("/me", middleware.Auth(d.Tokens), h.Me)
}

func profileRoutes(r fiber.Router, d Deps) {
	h := d.Handler

	r.Get("/api/exchange-rates", h.GetRates)

	user := r.Group("/api/user", middleware.Auth(d.Tokens))
	user.Get("/profile", h.GetProfile)
	user.Get("/referral-bonuses", h.GetReferralBonuses)
	user.Get("/referred-users", h.GetReferredUsers)

	user.Put("/profile", middleware.BlockDemo(), h.UpdateProfile)
	user.Put("/password", middleware.BlockDemo(), h.ChangePassword)
	user.Post("/profile-image", middleware.BlockDemo(), h.UploadProfileImage)
}

func referralRoutes(r fiber.Router, d Deps) {
	h := d.Handler

	ref := r.Group("/api/referral", middleware.Auth(d.Tokens), middleware.BlockDemo())
	ref.Get("/stats", h.GetReferralStats)
	ref.Get("/history", h.GetReferralHistory)
}

func tradingRoutes(r fiber.Router, d Deps) {
	h := d.Handler
	limits := d.Config.Limits

	r.Get("/api/bots/available", h.AvailableBots)

	bots := r.Group("/api/bots", middleware.Auth(d.Tokens))
	bots.Get("/", h.ListBots)
	bots.Post("/", middleware.BlockDemo(),
		middleware.RateLimit(d.Store, "bots", limits.BotMax, limits.Window,
			"Too many bot purchases, please try again later"),
		h.PurchaseBot)
	bots.Put("/:id/progress", middleware.BlockDemo(), h.SetBotProgress)
	bots.Post("/:id/simulate", middleware.BlockDemo(), h.SimulateBot)
}

func demoRoutes(r fiber.Router, d Deps) {
	h := d.Handler

	r.Get("/", demoPage(d.Config.Server.PublicDir))
	r.Get("/demo", demoPage(d.Config.Server.PublicDir))
	r.Post("/api/auth/demo", h.Demo)
}

func walletRoutes(r fiber.Router, d Deps) {
	h := d.Handler
	limits := d.Config.Limits
	sensitive := middleware.RateLimit(d.Store, "sensitive", limits.SensitiveMax, limits.Window,
		"Too many requests for this operation, please try again later")

	r.Get("/api/exchange-rates", h.GetRates)

	api := r.Group("/api", middleware.Auth(d.Tokens))
	api.Get("/deposit/address", h.GetDepositAddress)
	api.Post("/deposit", middleware.BlockDemo(), h.Deposit)
	api.Post("/withdraw", middleware.BlockDemo(), sensitive, h.Withdraw)

	api.Get("/transactions", h.Transactions())
	api.Get("/deposits", h.Deposits())
	api.Get("/withdrawals", h.Withdrawals())
	api.Get("/referrals", h.ReferralEarnings())
}

func dashboardRoutes(r fiber.Router, d Deps) {
	h := d.Handler

	r.Get("/api/exchange-rates", h.GetRates)

	api := r.Group("/api", middleware.Auth(d.Tokens))
	api.Get("/user/profile", h.GetProfile)
	api.Get("/dashboard/summary", h.DashboardSummary)
}

func adminRoutes(r fiber.Router, d Deps) {
	a := d.Admin
	limits := d.Config.Limits

	r.Post("/api/admin/login", middleware.RateLimit(d.Store, "admin-auth", limits.AuthMax, limits.Window,
		"Too many authentication attempts, please try again later"), a.Login)

	admin := r.Group("/api/admin", middleware.Auth(d.Tokens), middleware.AdminOnly())
	admin.Get("/stats", a.GetStats)
	admin.Get("/logs", a.GetLogs)

	// Users
	admin.Get("/users", a.ListUsers)
	admin.Get("/users/:id", a.GetUser)
	admin.Put("/users/:id/balance", a.SetBalance)
	admin.Put("/users/:id/verify", a.VerifyUser)

	// Transactions
	admin.Get("/transactions", a.ListTransactions)
	admin.Get("/withdrawals/pending", a.PendingWithdrawals)
	admin.Put("/transactions/:id", a.UpdateTransaction)
	admin.Post("/deposit", a.Deposit)

	// Bots
	admin.Get("/bots", a.ListBots)
	admin.Post("/bots", a.CreateBot)
	admin.Delete("/bots/:id", a.DeleteBot)

	// Deposit addresses
	admin.Get("/deposit/addresses", a.ListDepositAddresses)
	admin.Put("/deposit/address", a.SetDepositAddress)

	// Settings
	admin.Get("/settings", a.GetSettings)
	admin.Put("/settings/exchange-rate", a.SetExchangeRate)
}
