package util

import (
	"fmt"
	
	"github.com/lithammer/shortuuid/v4"
)

const (
	alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// GenerateMerchantOrderID generates a unique merchant order id in the format "BKR-XXXXXXXXXX".
func GenerateMerchantOrderID() string {
	uuid := shortuuid.NewWithAlphabet(alphabet)
	
	return fmt.Sprintf("BKR-%s", uuid[:10])
}
