package api

import (
	"fmt"
	"net/http"
	
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/katatrina/bakery-BE/internal/pathao"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/katatrina/bakery-BE/internal/token"
	"github.com/katatrina/bakery-BE/internal/util"
	"github.com/katatrina/bakery-BE/internal/worker"
)

type Server struct {
	router          *gin.Engine
	config          *util.Config
	tokenMaker      token.Maker
	courier         pathao.ICourierProvider
	shipmentStore   shipment.Store
	taskDistributor worker.TaskDistributor
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(config *util.Config, courier pathao.ICourierProvider, shipmentStore shipment.Store, taskDistributor worker.TaskDistributor) (*Server, error) {
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	
	server := &Server{
		config:          config,
		tokenMaker:      tokenMaker,
		courier:         courier,
		shipmentStore:   shipmentStore,
		taskDistributor: taskDistributor,
	}
	
	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	
	v1 := router.Group("/v1")
	
	courierGroup := v1.Group("/courier", authMiddleware(server.tokenMaker))
	{
		// Location lookups for the checkout address form
		courierGroup.GET("/cities", server.listCities)
		courierGroup.GET("/cities/:cityID/zones", server.listZones)
		courierGroup.GET("/zones/:zoneID/areas", server.listAreas)
		courierGroup.GET("/stores", server.listStores)
		
		courierGroup.POST("/price-plan", server.calculateDeliveryPrice)
		
		courierGroup.POST("/orders", server.createDeliveryOrder)
		courierGroup.POST("/orders/dispatch", server.dispatchDeliveryOrder)
		courierGroup.GET("/orders/:consignmentID", server.trackDeliveryOrder)
		
		courierGroup.GET("/shipments/:merchantOrderID", server.getShipment)
	}
	
	server.router = router
	return router
}

// Handler exposes the router, mainly for wrapping in an http.Server.
func (server *Server) Handler() http.Handler {
	return server.router
}
