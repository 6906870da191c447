package pathao

import (
	"context"
	"encoding/json"
	"net/http"
)

// CalculatePrice quotes the delivery charge for a parcel.
func (c *Client) CalculatePrice(ctx context.Context, arg PriceRequest) (*PriceQuote, error) {
	body := pricePlanRequest{
		StoreID:       c.storeID(arg.StoreID),
		ItemType:      arg.ItemType,
		DeliveryType:  arg.DeliveryType,
		ItemWeight:    arg.ItemWeight,
		RecipientCity: arg.RecipientCity,
		RecipientZone: arg.RecipientZone,
	}
	if body.ItemType == 0 {
		body.ItemType = ItemTypeParcel
	}
	if body.DeliveryType == 0 {
		body.DeliveryType = DeliveryTypeNormal
	}
	if body.ItemWeight <= 0 {
		body.ItemWeight = defaultItemWeight
	}
	
	var result struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.Request(ctx, http.MethodPost, pricePlanPath, body, &result); err != nil {
		return nil, err
	}
	
	// Missing or non-object data leaves every field at zero.
	var data map[string]any
	_ = json.Unmarshal(result.Data, &data)
	
	return &PriceQuote{
		Price:            numberField(data, "price"),
		CODCharge:        numberField(data, "cod_charge"),
		PromoDiscount:    numberField(data, "promo_discount"),
		TotalPrice:       numberField(data, "final_price"),
		Discount:         numberField(data, "discount"),
		AdditionalCharge: numberField(data, "additional_charge"),
		CODEnabled:       numberField(data, "cod_enabled") != 0,
		CODPercentage:    numberField(data, "cod_percentage"),
		PlanID:           int64(numberField(data, "plan_id")),
	}, nil
}
