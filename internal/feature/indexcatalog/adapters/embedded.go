// Package adapters provides the index catalog sources: embedded lists, JSON files and the database.
package adapters

import (
	"context"

	"stock_sync/internal/feature/indexcatalog/domain/entity"
	"stock_sync/internal/feature/indexcatalog/usecase"
)

var embeddedOrder = []string{"nifty50", "niftyNext50", "niftyMidcap150", "ftse100", "ftse250", "usStocks"}

var embeddedLists = map[string][]entity.Constituent{
	"nifty50": {
		{Name: "Adani Enterprises", Symbol: "ADANIENT.NS"},
		{Name: "Apollo Hospitals", Symbol: "APOLLOHOSP.NS"},
		{Name: "Asian Paints", Symbol: "ASIANPAINT.NS"},
		{Name: "Reliance Industries", Symbol: "RELIANCE.NS"},
		{Name: "UPL", Symbol: "UPL.NS"},
		{Name: "Wipro", Symbol: "WIPRO.NS"},
	},
	"niftyNext50": {
		{Name: "Tata Power", Symbol: "TATAPOWER.NS"},
		{Name: "Zydus Lifesciences", Symbol: "ZYDUSLIFE.NS"},
	},
	"niftyMidcap150": {
		{Name: "Aditya Birla Capital", Symbol: "ABCAPITAL.NS"},
		{Name: "Tata Teleservices", Symbol: "TTML.NS"},
	},
	"ftse100": {
		{Name: "3i", Symbol: "III.L"},
		{Name: "Admiral Group", Symbol: "ADM.L"},
		{Name: "Barclays", Symbol: "BARC.L"},
		{Name: "BP", Symbol: "BP.L"},
		{Name: "HSBC Holdings", Symbol: "HSBA.L"},
		{Name: "WPP", Symbol: "WPP.L"},
	},
	"ftse250": {
		{Name: "3i Infrastructure", Symbol: "3IN.L"},
		{Name: "Spectris", Symbol: "SXS.L"},
		{Name: "Spire Healthcare Group", Symbol: "SPI.L"},
		{Name: "SSP Group", Symbol: "SSPG.L"},
		{Name: "St. James's Place", Symbol: "STJ.L"},
	},
	"usStocks": {
		{Name: "Apple Inc.", Symbol: "AAPL"},
		{Name: "Microsoft Corporation", Symbol: "MSFT"},
		{Name: "Alphabet Inc.", Symbol: "GOOGL"},
	},
}

type embeddedCatalog struct{}

var _ usecase.ConstituentRepository = (*embeddedCatalog)(nil)

// NewEmbeddedRepository returns the catalog compiled into the binary.
func NewEmbeddedRepository() *embeddedCatalog {
	return &embeddedCatalog{}
}

func (embeddedCatalog) ListActive(_ context.Context, index string) ([]entity.Constituent, error) {
	list := embeddedLists[entity.CanonicalIndexName(index)]
	out := make([]entity.Constituent, len(list))
	copy(out, list)
	return out, nil
}

func (embeddedCatalog) IndexNames(context.Context) ([]string, error) {
	out := make([]string, len(embeddedOrder))
	copy(out, embeddedOrder)
	return out, nil
}
