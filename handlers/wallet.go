package handlers

import (
	"seefinish-platform/middleware"
	"seefinish-platform/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService, marketplaceService *services.MarketplaceService) {
	app.Get("/marketplace/items", marketplaceService.GetItems)

	secured := app.Group("/", middleware.RequireViewer())

	secured.Get("/wallet/transactions", walletService.GetTransactions)
	secured.Post("/wallet/deposits", walletService.CreateDeposit)
	secured.Post("/wallet/withdrawals", walletService.CreateWithdrawal)
	secured.Get("/wallet/sol-balance/:address", walletService.GetSolBalance)
	secured.Put("/wallet/address", walletService.UpdateWalletAddress)

	secured.Post("/marketplace/items/:id/purchase", marketplaceService.PurchaseItem)
}
