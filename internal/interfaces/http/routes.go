package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.Health)

	router.GET("/funds", handler.GetFunds)
	router.GET("/funds/search/:symbol", handler.SearchFund)
	router.GET("/funds/quote/:symbol", handler.GetFundQuote)
	router.GET("/funds/history/:symbol", handler.GetFundHistory)

	router.GET("/stocks/search/:symbol", handler.SearchStock)
	router.GET("/stocks/quote/:symbol", handler.GetStockQuote)
	router.GET("/stocks/history/:symbol", handler.GetStockHistory)

	router.GET("/indices/quote/:symbol", handler.GetIndexQuote)
	router.GET("/indices/history/:symbol", handler.GetIndexHistory)

	router.GET("/gold/search/VN_GOLD", handler.SearchGold)
	router.GET("/gold/quote/VN_GOLD", handler.GetGoldQuote)
	router.GET("/gold/history/VN_GOLD", handler.GetGoldHistory)

	router.GET("/search", handler.SearchAssets)
	router.GET("/history/:symbol", handler.GetHistory)
	router.GET("/search/:symbol", handler.SearchAsset)
}
