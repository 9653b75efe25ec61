// Package dto defines data transfer objects for the indexcatalog HTTP API.
package dto

// IndexItem summarizes one index in the list response.
type IndexItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ConstituentItem is one member of an index.
type ConstituentItem struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// IndexDetail is the response of GET /indices/:name.
type IndexDetail struct {
	Name         string            `json:"name"`
	Constituents []ConstituentItem `json:"constituents"`
}
