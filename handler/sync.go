package handler

import (
	"net/http"

	M "dealsync/model"

	"github.com/gin-gonic/gin"
)

// SyncDealHandler is the manual trigger for operational debugging: it
// runs the same three tier protocol for a single deal id and returns
// the same result shape as batch processing.
func SyncDealHandler(ds DealSyncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		dealID := c.Params.ByName("deal_id")
		if dealID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing deal id"})
			return
		}

		result := ds.SyncDeal(dealID)

		status := http.StatusOK
		if result.Action == M.SyncActionError {
			status = http.StatusInternalServerError
		}
		c.JSON(status, result)
	}
}
