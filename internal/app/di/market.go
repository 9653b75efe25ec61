// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	finance "github.com/piquette/finance-go"

	"stock_sync/internal/feature/marketsync/usecase"
	"stock_sync/internal/platform/config"
	"stock_sync/internal/platform/externalapi/twelvedata"
	"stock_sync/internal/platform/externalapi/yahoo"
	infrahttp "stock_sync/internal/platform/http"
)

// NewMarket builds the configured market data provider on top of the shared HTTP client.
func NewMarket(cfg config.ProviderConfig) (usecase.MarketRepository, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	switch cfg.Name {
	case config.ProviderYahoo:
		finance.SetHTTPClient(httpClient)
		return yahoo.NewMarket(), nil
	case config.ProviderTwelveData:
		return twelvedata.NewTwelveDataMarket(twelvedata.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", cfg.Name)
	}
}
