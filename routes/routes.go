package routes

import (
	"cayo/controllers"
	"cayo/controllers/agent"
	"cayo/controllers/bet"
	"cayo/controllers/dashboard"
	"cayo/controllers/player"
	"cayo/controllers/session"
	"cayo/controllers/transaction"
	"cayo/controllers/wallet"
	"cayo/middlewares"
	"cayo/services/policy"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App, d controllers.Deps, p *policy.Policy) {
	sessions := session.New(d)
	accounts := agent.New(d)
	players := player.New(d)
	txs := transaction.New(d)
	bets := bet.New(d)
	reports := dashboard.New(d)
	float := wallet.New(d)

	api := app.Group("/api")
	api.Post("/auth/login", sessions.Login)

	authed := api.Group("", middlewares.BearerAuth(d.Auth, d.Log))
	authed.Get("/auth/me", sessions.Me)

	authed.Get("/accounts", middlewares.Require(p, policy.Accounts, policy.Read), accounts.ListAccounts)
	authed.Post("/accounts", middlewares.Require(p, policy.Accounts, policy.Create), accounts.CreateAccount)
	authed.Patch("/accounts/:id", middlewares.Require(p, policy.Accounts, policy.Update), accounts.PatchAccount)

	authed.Get("/players", middlewares.Require(p, policy.Players, policy.Read), players.ListPlayers)
	authed.Post("/players", middlewares.Require(p, policy.Players, policy.Write), players.CreatePlayer)
	authed.Patch("/players/:id", middlewares.Require(p, policy.Players, policy.Write), players.PatchPlayer)

	authed.Get("/transactions", middlewares.Require(p, policy.Transactions, policy.Read), txs.ListTransactions)
	authed.Post("/players/:id/transactions", middlewares.Require(p, policy.Transactions, policy.Write), txs.CreateTransaction)

	authed.Get("/bets", middlewares.Require(p, policy.Bets, policy.Read), bets.ListBets)
	authed.Post("/players/:id/bets", middlewares.Require(p, policy.Bets, policy.Write), bets.PlaceBet)
	authed.Post("/bets/:id/settle", middlewares.Require(p, policy.Bets, policy.Settle), bets.SettleBet)

	authed.Get("/summary", middlewares.Require(p, policy.Reports, policy.Read), reports.Summary)
	authed.Get("/commissions", middlewares.Require(p, policy.Reports, policy.Read), reports.Commissions)
	authed.Get("/stats/wallet", middlewares.Require(p, policy.Wallet, policy.Read), float.Wallet)
}
