package main

import (
	"github.com/gin-gonic/gin"
	"token-dashboard.backend/internal/interfaces/http/handlers"
	"token-dashboard.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	walletHandler      *handlers.WalletHandler
	tokenHandler       *handlers.TokenHandler
	transactionHandler *handlers.TransactionHandler
	sessionMiddleware  gin.HandlerFunc
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	api.Use(d.sessionMiddleware)
	requireSession := middleware.RequireSession()
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", requireSession, d.authHandler.Me)
		}

		// delete and send apply the wallet ownership policy themselves
		wallet := api.Group("/wallet")
		{
			wallet.GET("/list", requireSession, d.walletHandler.List)
			wallet.POST("/generate", requireSession, d.walletHandler.Generate)
			wallet.POST("/link", requireSession, d.walletHandler.Link)
			wallet.DELETE("/delete", d.walletHandler.Delete)
			wallet.POST("/send", d.walletHandler.Send)
		}

		token := api.Group("/token")
		token.Use(requireSession)
		{
			token.GET("/balance", d.tokenHandler.Balance)
			token.GET("/treasury", d.tokenHandler.Treasury)
			token.POST("/send", d.tokenHandler.Send)
			token.POST("/send-user", d.tokenHandler.SendUser)
		}

		transaction := api.Group("/transaction")
		transaction.Use(requireSession)
		{
			transaction.GET("/history", d.transactionHandler.History)
			transaction.GET("/admin-history", d.transactionHandler.AdminHistory)
			transaction.GET("/custody-history", d.transactionHandler.CustodyHistory)
		}
	}
}
