package coingecko

import "errors"

var (
	ErrRetryableRequest = errors.New("retryable coingecko API request failed")
	ErrNoPriceData      = errors.New("no price data found in coingecko response")
)
