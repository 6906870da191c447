package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	
	"github.com/katatrina/bakery-BE/internal/pathao"
	"github.com/katatrina/bakery-BE/internal/shipment"
	"github.com/katatrina/bakery-BE/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ts.accessToken != "" {
		req.Header.Set(authorizationHeaderKey, authorizationTypeBearer+" "+ts.accessToken)
	}
	
	recorder := httptest.NewRecorder()
	ts.router.ServeHTTP(recorder, req)
	return recorder
}

func validOrderBody() map[string]any {
	return map[string]any{
		"merchant_order_id": "BKR-TEST000001",
		"recipient_name":    "Nusrat Jahan",
		"recipient_phone":   "+880 1712-345678",
		"recipient_address": "House 7, Road 11, Banani, Dhaka",
		"recipient_city":    1,
		"recipient_zone":    298,
		"item_description":  "Red velvet cake",
		"amount_to_collect": 1500,
	}
}

func TestCourierRoutesRequireAccessToken(t *testing.T) {
	ts := newTestServer(t)
	
	expired, _, err := ts.tokenMaker.CreateToken("admin-1", "admin", -time.Minute)
	require.NoError(t, err)
	
	testCases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + ts.accessToken,
		"bad format":     ts.accessToken,
		"expired token":  "Bearer " + expired,
		"garbage token":  "Bearer not-a-token",
	}
	
	for name, header := range testCases {
		t.Run(name, func(t *testing.T) {
			for _, route := range []struct{ method, path string }{
				{http.MethodGet, "/v1/courier/cities"},
				{http.MethodPost, "/v1/courier/orders"},
				{http.MethodPost, "/v1/courier/orders/dispatch"},
			} {
				req, err := http.NewRequest(route.method, route.path, bytes.NewReader(nil))
				require.NoError(t, err)
				if header != "" {
					req.Header.Set(authorizationHeaderKey, header)
				}
				
				recorder := httptest.NewRecorder()
				ts.router.ServeHTTP(recorder, req)
				assert.Equal(t, http.StatusUnauthorized, recorder.Code, route.path)
			}
		})
	}
	
	ts.courier.AssertNotCalled(t, "Cities", mock.Anything)
	ts.courier.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	ts.distributor.AssertNotCalled(t, "DistributeTaskCreateDeliveryOrder", mock.Anything, mock.Anything)
}

func TestHealthzIsPublic(t *testing.T) {
	ts := newTestServer(t)
	ts.accessToken = ""
	
	recorder := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestListCities(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("Cities", mock.Anything).Return([]pathao.City{{CityID: 1, CityName: "Dhaka"}}, nil).Once()
	
	recorder := ts.do(t, http.MethodGet, "/v1/courier/cities", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[{"city_id":1,"city_name":"Dhaka"}]`, recorder.Body.String())
}

func TestListCitiesCourierError(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("Cities", mock.Anything).
		Return(nil, &pathao.APIError{Endpoint: "/aladdin/api/v1/city-list", StatusCode: 401, Body: "invalid credentials"}).Once()
	
	recorder := ts.do(t, http.MethodGet, "/v1/courier/cities", nil)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "401")
	assert.Contains(t, recorder.Body.String(), "invalid credentials")
}

func TestListZones(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("Zones", mock.Anything, int64(1)).Return([]pathao.Zone{{ZoneID: 298, ZoneName: "60 feet"}}, nil).Once()
	
	recorder := ts.do(t, http.MethodGet, "/v1/courier/cities/1/zones", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[{"zone_id":298,"zone_name":"60 feet"}]`, recorder.Body.String())
	
	recorder = ts.do(t, http.MethodGet, "/v1/courier/cities/abc/zones", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	
	recorder = ts.do(t, http.MethodGet, "/v1/courier/cities/0/zones", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	
	ts.courier.AssertExpectations(t)
}

func TestListAreasAndStores(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("Areas", mock.Anything, int64(298)).Return([]pathao.Area{}, nil).Once()
	ts.courier.On("Stores", mock.Anything).Return([]pathao.Store{{StoreID: 5, StoreName: "Gulshan Kitchen"}}, nil).Once()
	
	recorder := ts.do(t, http.MethodGet, "/v1/courier/zones/298/areas", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())
	
	recorder = ts.do(t, http.MethodGet, "/v1/courier/stores", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	
	var stores []pathao.Store
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &stores))
	assert.Equal(t, "Gulshan Kitchen", stores[0].StoreName)
}

func TestCalculateDeliveryPrice(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("CalculatePrice", mock.Anything, pathao.PriceRequest{
		ItemWeight:    1,
		RecipientCity: 1,
		RecipientZone: 298,
	}).Return(&pathao.PriceQuote{Price: 80, TotalPrice: 80}, nil).Once()
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/price-plan", map[string]any{
		"item_weight":    1,
		"recipient_city": 1,
		"recipient_zone": 298,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	
	var quote pathao.PriceQuote
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &quote))
	assert.Equal(t, float64(80), quote.TotalPrice)
}

func TestCalculateDeliveryPriceValidation(t *testing.T) {
	ts := newTestServer(t)
	
	testCases := map[string]map[string]any{
		"missing city":          {"recipient_zone": 298},
		"unknown delivery type": {"recipient_city": 1, "recipient_zone": 298, "delivery_type": 7},
		"too heavy":             {"recipient_city": 1, "recipient_zone": 298, "item_weight": 25},
	}
	
	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			recorder := ts.do(t, http.MethodPost, "/v1/courier/price-plan", body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
	
	ts.courier.AssertNotCalled(t, "CalculatePrice", mock.Anything, mock.Anything)
}

func TestCreateDeliveryOrder(t *testing.T) {
	ts := newTestServer(t)
	
	response := &pathao.CreateOrderResponse{
		Message: "Order Created Successfully",
		Type:    "success",
		Code:    200,
		Data: pathao.CreatedOrder{
			ConsignmentID:   "CS123",
			MerchantOrderID: "BKR-TEST000001",
			OrderStatus:     "Pending",
			DeliveryFee:     60,
		},
	}
	
	ts.courier.On("CreateOrder", mock.Anything, mock.MatchedBy(func(arg pathao.OrderRequest) bool {
		return arg.MerchantOrderID == "BKR-TEST000001" &&
			arg.RecipientPhone == "01712345678" &&
			arg.AmountToCollect == 1500 &&
			arg.SpecialInstruction == ""
	})).Return(response, nil).Once()
	ts.store.On("SaveShipment", mock.Anything, shipment.Shipment{
		MerchantOrderID: "BKR-TEST000001",
		ConsignmentID:   "CS123",
		OrderStatus:     "Pending",
		DeliveryFee:     60,
	}).Return(nil).Once()
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{
		"message": "Order Created Successfully",
		"type": "success",
		"code": 200,
		"data": {"consignment_id": "CS123", "merchant_order_id": "BKR-TEST000001", "order_status": "Pending", "delivery_fee": 60}
	}`, recorder.Body.String())
	
	ts.courier.AssertExpectations(t)
	ts.store.AssertExpectations(t)
}

func TestCreateDeliveryOrderGeneratesMerchantOrderID(t *testing.T) {
	ts := newTestServer(t)
	
	var sent pathao.OrderRequest
	ts.courier.On("CreateOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(pathao.OrderRequest) }).
		Return(&pathao.CreateOrderResponse{Data: pathao.CreatedOrder{ConsignmentID: "CS1"}}, nil).Once()
	ts.store.On("SaveShipment", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	
	body := validOrderBody()
	delete(body, "merchant_order_id")
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders", body)
	
	// A failed registry write does not fail the request.
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Regexp(t, `^BKR-[0-9A-Z]{10}$`, sent.MerchantOrderID)
}

func TestCreateDeliveryOrderWithoutConsignmentID(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&pathao.CreateOrderResponse{Message: "accepted", Raw: []byte(`{"message":"accepted","data":{}}`)}, nil).Once()
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"message":"accepted","data":{}}`, recorder.Body.String())
	
	ts.store.AssertNotCalled(t, "SaveShipment", mock.Anything, mock.Anything)
}

func TestCreateDeliveryOrderValidation(t *testing.T) {
	ts := newTestServer(t)
	
	body := validOrderBody()
	body["recipient_phone"] = "12345"
	body["recipient_secondary_phone"] = "999"
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders", body)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	
	var resp FailedValidationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.FieldViolations, 2)
	assert.Equal(t, "recipient_phone", resp.FieldViolations[0].Field)
	assert.Equal(t, "recipient_secondary_phone", resp.FieldViolations[1].Field)
	
	body = validOrderBody()
	delete(body, "recipient_address")
	recorder = ts.do(t, http.MethodPost, "/v1/courier/orders", body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	
	ts.courier.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCreateDeliveryOrderCourierError(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, &pathao.APIError{Endpoint: "/aladdin/api/v1/orders", StatusCode: 422, Body: "store is not active"}).Once()
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders", validOrderBody())
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "store is not active")
	
	ts.store.AssertNotCalled(t, "SaveShipment", mock.Anything, mock.Anything)
}

func TestDispatchDeliveryOrder(t *testing.T) {
	ts := newTestServer(t)
	ts.distributor.On("DistributeTaskCreateDeliveryOrder", mock.Anything, mock.MatchedBy(func(payload *worker.PayloadCreateDeliveryOrder) bool {
		return payload.Order.MerchantOrderID == "BKR-TEST000001" && payload.Order.RecipientPhone == "01712345678"
	})).Return(nil).Once()
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders/dispatch", validOrderBody())
	require.Equal(t, http.StatusAccepted, recorder.Code)
	assert.JSONEq(t, `{"merchant_order_id":"BKR-TEST000001"}`, recorder.Body.String())
	
	ts.distributor.AssertExpectations(t)
	ts.courier.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestDispatchDeliveryOrderEnqueueFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.distributor.On("DistributeTaskCreateDeliveryOrder", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	
	recorder := ts.do(t, http.MethodPost, "/v1/courier/orders/dispatch", validOrderBody())
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, recorder.Body.String())
}

func TestTrackDeliveryOrder(t *testing.T) {
	ts := newTestServer(t)
	ts.courier.On("TrackOrder", mock.Anything, "CS123").
		Return(&pathao.OrderInfo{ConsignmentID: "CS123", OrderStatus: "Delivered"}, nil).Once()
	ts.courier.On("TrackOrder", mock.Anything, "CS404").
		Return(nil, &pathao.APIError{Endpoint: "/aladdin/api/v1/orders/CS404", StatusCode: 404, Body: "not found"}).Once()
	
	recorder := ts.do(t, http.MethodGet, "/v1/courier/orders/CS123", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	
	var info pathao.OrderInfo
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &info))
	assert.Equal(t, "Delivered", info.OrderStatus)
	
	recorder = ts.do(t, http.MethodGet, "/v1/courier/orders/CS404", nil)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestGetShipment(t *testing.T) {
	ts := newTestServer(t)
	ts.store.On("GetShipment", mock.Anything, "BKR-1").
		Return(shipment.Shipment{MerchantOrderID: "BKR-1", ConsignmentID: "CS1", OverallStatus: shipment.OverallStatusInTransit}, nil).Once()
	ts.store.On("GetShipment", mock.Anything, "BKR-404").Return(shipment.Shipment{}, shipment.ErrShipmentNotFound).Once()
	ts.store.On("GetShipment", mock.Anything, "BKR-500").Return(shipment.Shipment{}, errors.New("redis down")).Once()
	
	recorder := ts.do(t, http.MethodGet, "/v1/courier/shipments/BKR-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	
	var got shipment.Shipment
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.Equal(t, shipment.OverallStatusInTransit, got.OverallStatus)
	
	recorder = ts.do(t, http.MethodGet, "/v1/courier/shipments/BKR-404", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	
	recorder = ts.do(t, http.MethodGet, "/v1/courier/shipments/BKR-500", nil)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
