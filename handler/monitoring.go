package handler

import (
	"net/http"

	C "dealsync/config"

	"github.com/gin-gonic/gin"
)

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"app":    C.GetConfig().AppName,
	})
}
