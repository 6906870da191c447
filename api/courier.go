package api

import (
	"errors"
	"net/http"
	
	"github.com/gin-gonic/gin"
	"github.com/katatrina/bakery-BE/internal/pathao"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/katatrina/bakery-BE/internal/util"
	"github.com/katatrina/bakery-BE/internal/worker"
	"github.com/rs/zerolog/log"
)

var (
	errInvalidPhoneNumber = errors.New("must be a valid Bangladeshi mobile number")
)

func (server *Server) listCities(ctx *gin.Context) {
	cities, err := server.courier.Cities(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pathao cities")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, cities)
}

type listZonesPathParams struct {
	CityID int64 `uri:"cityID" binding:"required,min=1"`
}

func (server *Server) listZones(ctx *gin.Context) {
	var params listZonesPathParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	zones, err := server.courier.Zones(ctx, params.CityID)
	if err != nil {
		log.Error().Err(err).Int64("city_id", params.CityID).Msg("failed to list pathao zones")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, zones)
}

type listAreasPathParams struct {
	ZoneID int64 `uri:"zoneID" binding:"required,min=1"`
}

func (server *Server) listAreas(ctx *gin.Context) {
	var params listAreasPathParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	areas, err := server.courier.Areas(ctx, params.ZoneID)
	if err != nil {
		log.Error().Err(err).Int64("zone_id", params.ZoneID).Msg("failed to list pathao areas")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, areas)
}

func (server *Server) listStores(ctx *gin.Context) {
	stores, err := server.courier.Stores(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list pathao stores")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, stores)
}

type calculateDeliveryPriceRequest struct {
	StoreID       int64   `json:"store_id" binding:"min=0"`
	ItemType      int     `json:"item_type" binding:"omitempty,oneof=1 2"`
	DeliveryType  int     `json:"delivery_type" binding:"omitempty,oneof=12 48"`
	ItemWeight    float64 `json:"item_weight" binding:"min=0,max=10"`
	RecipientCity int64   `json:"recipient_city" binding:"required,min=1"`
	RecipientZone int64   `json:"recipient_zone" binding:"required,min=1"`
}

func (server *Server) calculateDeliveryPrice(ctx *gin.Context) {
	req := new(calculateDeliveryPriceRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	quote, err := server.courier.CalculatePrice(ctx, pathao.PriceRequest{
		StoreID:       req.StoreID,
		ItemType:      req.ItemType,
		DeliveryType:  req.DeliveryType,
		ItemWeight:    req.ItemWeight,
		RecipientCity: req.RecipientCity,
		RecipientZone: req.RecipientZone,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to calculate pathao price")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, quote)
}

type deliveryOrderRequest struct {
	StoreID                 int64   `json:"store_id" binding:"min=0"`
	MerchantOrderID         string  `json:"merchant_order_id" binding:"max=100"`
	RecipientName           string  `json:"recipient_name" binding:"required,min=3,max=100"`
	RecipientPhone          string  `json:"recipient_phone" binding:"required"`
	RecipientSecondaryPhone string  `json:"recipient_secondary_phone"`
	RecipientAddress        string  `json:"recipient_address" binding:"required,min=10,max=220"`
	RecipientCity           int64   `json:"recipient_city" binding:"required,min=1"`
	RecipientZone           int64   `json:"recipient_zone" binding:"required,min=1"`
	RecipientArea           int64   `json:"recipient_area" binding:"min=0"`
	DeliveryType            int     `json:"delivery_type" binding:"omitempty,oneof=12 48"`
	ItemType                int     `json:"item_type" binding:"omitempty,oneof=1 2"`
	SpecialInstruction      string  `json:"special_instruction"`
	ItemQuantity            int     `json:"item_quantity" binding:"min=0"`
	ItemWeight              float64 `json:"item_weight" binding:"min=0,max=10"`
	ItemDescription         string  `json:"item_description"`
	AmountToCollect         float64 `json:"amount_to_collect" binding:"min=0"`
}

// validate checks what binding tags cannot and converts the request into a Pathao order.
func (req *deliveryOrderRequest) validate() (arg pathao.OrderRequest, violations []*FieldViolation) {
	if !util.IsValidBangladeshiPhoneNumber(req.RecipientPhone) {
		violations = append(violations, fieldViolation("recipient_phone", errInvalidPhoneNumber))
	}
	if req.RecipientSecondaryPhone != "" && !util.IsValidBangladeshiPhoneNumber(req.RecipientSecondaryPhone) {
		violations = append(violations, fieldViolation("recipient_secondary_phone", errInvalidPhoneNumber))
	}
	
	merchantOrderID := req.MerchantOrderID
	if merchantOrderID == "" {
		merchantOrderID = util.GenerateMerchantOrderID()
	}
	
	arg = pathao.OrderRequest{
		StoreID:            req.StoreID,
		MerchantOrderID:    merchantOrderID,
		RecipientName:      req.RecipientName,
		RecipientPhone:     util.NormalizePhoneNumber(req.RecipientPhone),
		RecipientAddress:   req.RecipientAddress,
		RecipientCity:      req.RecipientCity,
		RecipientZone:      req.RecipientZone,
		RecipientArea:      req.RecipientArea,
		DeliveryType:       req.DeliveryType,
		ItemType:           req.ItemType,
		SpecialInstruction: req.SpecialInstruction,
		ItemQuantity:       req.ItemQuantity,
		ItemWeight:         req.ItemWeight,
		ItemDescription:    req.ItemDescription,
		AmountToCollect:    req.AmountToCollect,
	}
	if req.RecipientSecondaryPhone != "" {
		arg.RecipientSecondaryPhone = util.NormalizePhoneNumber(req.RecipientSecondaryPhone)
	}
	
	return arg, violations
}

func (server *Server) createDeliveryOrder(ctx *gin.Context) {
	req := new(deliveryOrderRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	arg, violations := req.validate()
	if violations != nil {
		ctx.JSON(http.StatusBadRequest, failedValidationError(violations))
		return
	}
	
	result, err := server.courier.CreateOrder(ctx, arg)
	if err != nil {
		log.Error().Err(err).Str("merchant_order_id", arg.MerchantOrderID).Msg("failed to create pathao order")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	server.registerShipment(ctx, arg.MerchantOrderID, result)
	
	ctx.JSON(http.StatusCreated, result)
}

// registerShipment hands a created consignment to the tracker. Failures are only
// logged because the consignment already exists at Pathao.
func (server *Server) registerShipment(ctx *gin.Context, merchantOrderID string, result *pathao.CreateOrderResponse) {
	if result.Data.ConsignmentID == "" {
		log.Warn().Str("merchant_order_id", merchantOrderID).Msg("pathao returned no consignment id, shipment not tracked")
		return
	}
	
	err := server.shipmentStore.SaveShipment(ctx, shipment.Shipment{
		MerchantOrderID: merchantOrderID,
		ConsignmentID:   result.Data.ConsignmentID,
		OrderStatus:     result.Data.OrderStatus,
		DeliveryFee:     result.Data.DeliveryFee,
	})
	if err != nil {
		log.Error().Err(err).
			Str("merchant_order_id", merchantOrderID).
			Str("consignment_id", result.Data.ConsignmentID).
			Msg("failed to save shipment")
	}
}

func (server *Server) dispatchDeliveryOrder(ctx *gin.Context) {
	req := new(deliveryOrderRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	arg, violations := req.validate()
	if violations != nil {
		ctx.JSON(http.StatusBadRequest, failedValidationError(violations))
		return
	}
	
	err := server.taskDistributor.DistributeTaskCreateDeliveryOrder(ctx, &worker.PayloadCreateDeliveryOrder{Order: arg})
	if err != nil {
		log.Error().Err(err).Str("merchant_order_id", arg.MerchantOrderID).Msg("failed to distribute create order task")
		ctx.JSON(http.StatusInternalServerError, errorResponse(ErrInternalServer))
		return
	}
	
	ctx.JSON(http.StatusAccepted, gin.H{"merchant_order_id": arg.MerchantOrderID})
}

type trackDeliveryOrderPathParams struct {
	ConsignmentID string `uri:"consignmentID" binding:"required"`
}

func (server *Server) trackDeliveryOrder(ctx *gin.Context) {
	var params trackDeliveryOrderPathParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	
	info, err := server.courier.TrackOrder(ctx, params.ConsignmentID)
	if err != nil {
		log.Error().Err(err).Str("consignment_id", params.ConsignmentID).Msg("failed to track pathao order")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	
	ctx.JSON(http.StatusOK, info)
}
