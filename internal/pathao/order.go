package pathao

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

var (
	ErrMissingConsignmentID = errors.New("pathao: consignment id is required")
	ErrMissingOrderData     = errors.New("pathao: track response has no data")
)

// CreateOrder places a delivery order. The response is returned as Pathao sent it;
// on success Data.ConsignmentID identifies the order for tracking.
func (c *Client) CreateOrder(ctx context.Context, arg OrderRequest) (*CreateOrderResponse, error) {
	body := createOrderRequest{
		StoreID:                 c.storeID(arg.StoreID),
		MerchantOrderID:         arg.MerchantOrderID,
		RecipientName:           arg.RecipientName,
		RecipientPhone:          arg.RecipientPhone,
		RecipientSecondaryPhone: arg.RecipientSecondaryPhone,
		RecipientAddress:        arg.RecipientAddress,
		RecipientCity:           arg.RecipientCity,
		RecipientZone:           arg.RecipientZone,
		RecipientArea:           arg.RecipientArea,
		DeliveryType:            arg.DeliveryType,
		ItemType:                arg.ItemType,
		SpecialInstruction:      arg.SpecialInstruction,
		ItemQuantity:            arg.ItemQuantity,
		ItemWeight:              arg.ItemWeight,
		ItemDescription:         arg.ItemDescription,
		AmountToCollect:         arg.AmountToCollect,
	}
	if body.DeliveryType == 0 {
		body.DeliveryType = DeliveryTypeNormal
	}
	if body.ItemType == 0 {
		body.ItemType = ItemTypeParcel
	}
	if body.ItemQuantity <= 0 {
		body.ItemQuantity = defaultItemQuantity
	}
	if body.ItemWeight <= 0 {
		body.ItemWeight = defaultItemWeight
	}
	
	resp, err := c.request(ctx, http.MethodPost, ordersPath, body)
	if err != nil {
		return nil, err
	}
	
	var result map[string]any
	if err = resp.decode(ordersPath, &result); err != nil {
		// Valid JSON that is not an object still leaves Raw to pass through.
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			return nil, err
		}
	}
	data, _ := result["data"].(map[string]any)
	
	return &CreateOrderResponse{
		Message: stringField(result, "message"),
		Type:    stringField(result, "type"),
		Code:    int64(numberField(result, "code")),
		Data: CreatedOrder{
			ConsignmentID:   stringField(data, "consignment_id"),
			MerchantOrderID: stringField(data, "merchant_order_id"),
			OrderStatus:     stringField(data, "order_status"),
			DeliveryFee:     numberField(data, "delivery_fee"),
		},
		Raw: resp.Raw,
	}, nil
}

// TrackOrder fetches the current state of a consignment.
func (c *Client) TrackOrder(ctx context.Context, consignmentID string) (*OrderInfo, error) {
	if consignmentID == "" {
		return nil, ErrMissingConsignmentID
	}
	
	endpoint := ordersPath + "/" + url.PathEscape(consignmentID)
	
	var response struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.Request(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			return nil, err
		}
		// A JSON body that is not an object carries no data.
		return nil, ErrMissingOrderData
	}
	
	var data map[string]any
	if err := json.Unmarshal(response.Data, &data); err != nil || data == nil {
		return nil, ErrMissingOrderData
	}
	
	return &OrderInfo{
		ConsignmentID:   stringField(data, "consignment_id"),
		MerchantOrderID: stringField(data, "merchant_order_id"),
		OrderStatus:     stringField(data, "order_status"),
		OrderStatusSlug: stringField(data, "order_status_slug"),
		UpdatedAt:       stringField(data, "updated_at"),
		InvoiceID:       stringField(data, "invoice_id"),
		Raw:             response.Data,
	}, nil
}
