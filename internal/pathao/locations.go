package pathao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	
	"github.com/rs/zerolog/log"
)

func (c *Client) Cities(ctx context.Context) ([]City, error) {
	return listEndpoint[City](ctx, c, cityListPath)
}

func (c *Client) Zones(ctx context.Context, cityID int64) ([]Zone, error) {
	return listEndpoint[Zone](ctx, c, fmt.Sprintf("/aladdin/api/v1/cities/%d/zone-list", cityID))
}

func (c *Client) Areas(ctx context.Context, zoneID int64) ([]Area, error) {
	return listEndpoint[Area](ctx, c, fmt.Sprintf("/aladdin/api/v1/zones/%d/area-list", zoneID))
}

func (c *Client) Stores(ctx context.Context) ([]Store, error) {
	return listEndpoint[Store](ctx, c, storesPath)
}

func listEndpoint[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	resp, err := c.request(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	
	if !resp.JSON {
		return nil, &MalformedResponseError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Raw:        string(resp.Raw),
		}
	}
	
	return nestedList[T](endpoint, resp.Raw), nil
}

// nestedList extracts the array under data.data. A missing, null or non-array
// data.data yields an empty slice. Records are kept as sent: a field of an
// unexpected type is left at its zero value, only non-object elements are dropped.
func nestedList[T any](endpoint string, raw []byte) []T {
	var outer struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &outer); err != nil {
		return []T{}
	}
	
	var inner struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(outer.Data, &inner); err != nil {
		return []T{}
	}
	
	var elements []json.RawMessage
	if err := json.Unmarshal(inner.Data, &elements); err != nil {
		return []T{}
	}
	
	items := make([]T, 0, len(elements))
	for i, element := range elements {
		element = bytes.TrimSpace(element)
		if len(element) == 0 || element[0] != '{' {
			log.Warn().Str("endpoint", endpoint).Int("index", i).Msg("skipping non-object pathao list item")
			continue
		}
		
		// encoding/json keeps decoding past a type mismatch, the other fields stay filled.
		var item T
		if err := json.Unmarshal(element, &item); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Int("index", i).Msg("pathao list item has unexpected field types")
		}
		items = append(items, item)
	}
	
	return items
}
