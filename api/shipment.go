package api

import (
	"errors"
	"net/http"
	
	"github.com/gin-gonic/gin"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/rs/zerolog/log"
)

func (server *Server) getShipment(ctx *gin.Context) {
	merchantOrderID := ctx.Param("merchantOrderID")
	
	result, err := server.shipmentStore.GetShipment(ctx, merchantOrderID)
	if err != nil {
		if errors.Is(err, shipment.ErrShipmentNotFound) {
			ctx.JSON(http.StatusNotFound, errorResponse(err))
			return
		}
		
		log.Error().Err(err).Str("merchant_order_id", merchantOrderID).Msg("failed to get shipment")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}
	
	ctx.JSON(http.StatusOK, result)
}
