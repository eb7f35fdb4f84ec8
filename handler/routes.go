package handler

import (
	C "dealsync/config"
	mid "dealsync/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func InitRoutes(r *gin.Engine, ds DealSyncer) {
	// CORS
	if C.IsDevelopment() {
		log.Info("Running in development.")
		config := cors.DefaultConfig()
		config.AllowOrigins = []string{"http://localhost:8080",
			"http://localhost:3000"}
		r.Use(cors.New(config))
	}

	r.Use(mid.RequestID(), mid.RequestLogger())

	r.GET("/health", HealthHandler)
	r.POST("/webhooks/hubspot", HubspotWebhookHandler(ds))
	r.POST("/sync/deal/:deal_id", SyncDealHandler(ds))
}
