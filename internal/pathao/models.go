package pathao

import (
	"encoding/json"
)

// Pathao item types
const (
	ItemTypeDocument = 1
	ItemTypeParcel   = 2
)

// Pathao delivery types
const (
	DeliveryTypeOnDemand = 12
	DeliveryTypeNormal   = 48
)

const (
	defaultItemWeight   = 0.5 // kg
	defaultItemQuantity = 1
)

type City struct {
	CityID   int64  `json:"city_id"`
	CityName string `json:"city_name"`
}

type Zone struct {
	ZoneID   int64  `json:"zone_id"`
	ZoneName string `json:"zone_name"`
}

type Area struct {
	AreaID                int64  `json:"area_id"`
	AreaName              string `json:"area_name"`
	HomeDeliveryAvailable bool   `json:"home_delivery_available"`
	PickupAvailable       bool   `json:"pickup_available"`
}

type Store struct {
	StoreID              int64  `json:"store_id"`
	StoreName            string `json:"store_name"`
	StoreAddress         string `json:"store_address"`
	IsActive             int64  `json:"is_active"`
	CityID               int64  `json:"city_id"`
	ZoneID               int64  `json:"zone_id"`
	HubID                int64  `json:"hub_id"`
	IsDefaultStore       bool   `json:"is_default_store"`
	IsDefaultReturnStore bool   `json:"is_default_return_store"`
}

// PriceRequest describes a parcel to quote. Zero values fall back to the
// configured store, a parcel item type, normal delivery and 0.5 kg.
type PriceRequest struct {
	StoreID       int64
	ItemType      int
	DeliveryType  int
	ItemWeight    float64
	RecipientCity int64
	RecipientZone int64
}

type pricePlanRequest struct {
	StoreID       int64   `json:"store_id"`
	ItemType      int     `json:"item_type"`
	DeliveryType  int     `json:"delivery_type"`
	ItemWeight    float64 `json:"item_weight"`
	RecipientCity int64   `json:"recipient_city"`
	RecipientZone int64   `json:"recipient_zone"`
}

// PriceQuote is the merchant price plan for a parcel.
type PriceQuote struct {
	Price            float64 `json:"price"`
	CODCharge        float64 `json:"cod_charge"`
	PromoDiscount    float64 `json:"promo_discount"`
	TotalPrice       float64 `json:"total_price"`
	Discount         float64 `json:"discount"`
	AdditionalCharge float64 `json:"additional_charge"`
	CODEnabled       bool    `json:"cod_enabled"`
	CODPercentage    float64 `json:"cod_percentage"`
	PlanID           int64   `json:"plan_id"`
}

// OrderRequest is a delivery order to hand over to Pathao.
type OrderRequest struct {
	StoreID                 int64   `json:"store_id"`
	MerchantOrderID         string  `json:"merchant_order_id"`
	RecipientName           string  `json:"recipient_name"`
	RecipientPhone          string  `json:"recipient_phone"`
	RecipientSecondaryPhone string  `json:"recipient_secondary_phone"`
	RecipientAddress        string  `json:"recipient_address"`
	RecipientCity           int64   `json:"recipient_city"`
	RecipientZone           int64   `json:"recipient_zone"`
	RecipientArea           int64   `json:"recipient_area"`
	DeliveryType            int     `json:"delivery_type"`
	ItemType                int     `json:"item_type"`
	SpecialInstruction      string  `json:"special_instruction"`
	ItemQuantity            int     `json:"item_quantity"`
	ItemWeight              float64 `json:"item_weight"`
	ItemDescription         string  `json:"item_description"`
	AmountToCollect         float64 `json:"amount_to_collect"`
}

type createOrderRequest struct {
	StoreID                 int64   `json:"store_id"`
	MerchantOrderID         string  `json:"merchant_order_id,omitempty"`
	RecipientName           string  `json:"recipient_name"`
	RecipientPhone          string  `json:"recipient_phone"`
	RecipientSecondaryPhone string  `json:"recipient_secondary_phone,omitempty"`
	RecipientAddress        string  `json:"recipient_address"`
	RecipientCity           int64   `json:"recipient_city"`
	RecipientZone           int64   `json:"recipient_zone"`
	RecipientArea           int64   `json:"recipient_area,omitempty"`
	DeliveryType            int     `json:"delivery_type"`
	ItemType                int     `json:"item_type"`
	SpecialInstruction      string  `json:"special_instruction"`
	ItemQuantity            int     `json:"item_quantity"`
	ItemWeight              float64 `json:"item_weight"`
	ItemDescription         string  `json:"item_description,omitempty"`
	AmountToCollect         float64 `json:"amount_to_collect"`
}

// CreateOrderResponse is Pathao's create-order response. The typed fields are read
// leniently, Raw keeps the body exactly as Pathao sent it and is what gets re-encoded.
type CreateOrderResponse struct {
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Code    int64           `json:"code"`
	Data    CreatedOrder    `json:"data"`
	Raw     json.RawMessage `json:"-"`
}

func (r CreateOrderResponse) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain CreateOrderResponse
	return json.Marshal(plain(r))
}

type CreatedOrder struct {
	ConsignmentID   string  `json:"consignment_id"`
	MerchantOrderID string  `json:"merchant_order_id"`
	OrderStatus     string  `json:"order_status"`
	DeliveryFee     float64 `json:"delivery_fee"`
}

// OrderInfo is the tracking snapshot of a consignment. Raw holds the data object as sent.
type OrderInfo struct {
	ConsignmentID   string          `json:"consignment_id"`
	MerchantOrderID string          `json:"merchant_order_id"`
	OrderStatus     string          `json:"order_status"`
	OrderStatusSlug string          `json:"order_status_slug"`
	UpdatedAt       string          `json:"updated_at"`
	InvoiceID       string          `json:"invoice_id"`
	Raw             json.RawMessage `json:"-"`
}

func (o OrderInfo) MarshalJSON() ([]byte, error) {
	if len(o.Raw) > 0 {
		return o.Raw, nil
	}
	type plain OrderInfo
	return json.Marshal(plain(o))
}
