package portfolio

import (
	"context"
	"errors"
)

var (
	ErrWorksheetNotConfigured = errors.New("worksheet not configured")
	ErrColumnMissing          = errors.New("column missing")
	ErrUnexpectedLayout       = errors.New("unexpected worksheet layout")
)

// Worksheet names one tab of the wallet spreadsheet.
type Worksheet string

const (
	WorksheetGeneral       Worksheet = "general"
	WorksheetTransactions  Worksheet = "transactions"
	WorksheetPassiveIncome Worksheet = "passive_income"
	WorksheetStocks        Worksheet = "stocks"
	WorksheetRealEstate    Worksheet = "real_estate"
	WorksheetSmallCaps     Worksheet = "small_caps"
	WorksheetResults       Worksheet = "results"
	WorksheetDividends     Worksheet = "dividends"
)

// Worksheets lists every tab the dashboard reads.
var Worksheets = []Worksheet{
	WorksheetGeneral,
	WorksheetTransactions,
	WorksheetPassiveIncome,
	WorksheetStocks,
	WorksheetRealEstate,
	WorksheetSmallCaps,
	WorksheetResults,
	WorksheetDividends,
}

// Source returns the raw cell values of a worksheet, first row being the
// header. Rows may be shorter than the header.
type Source interface {
	Values(ctx context.Context, ws Worksheet) ([][]string, error)
}

// AssetClass selects one of the asset worksheets and the labels used for it
// in the other worksheets.
type AssetClass string

const (
	Stocks     AssetClass = "stocks"
	RealEstate AssetClass = "real_estate"
	SmallCaps  AssetClass = "small_caps"
)

type classInfo struct {
	worksheet Worksheet
	// assetType is the value of "Tipo Ativo" in the results and passive
	// income worksheets. Empty when the class has no rows there.
	assetType string
	// group is the suffix of the class columns in the dividends worksheet.
	group string
	// sector is the column used to break positions down.
	sector string
}

var classes = map[AssetClass]classInfo{
	Stocks:     {worksheet: WorksheetStocks, assetType: "Ação", group: "Ações", sector: "Setor"},
	RealEstate: {worksheet: WorksheetRealEstate, assetType: "FII", group: "FII", sector: "Segmento"},
	SmallCaps:  {worksheet: WorksheetSmallCaps, group: "Small Caps", sector: "Setor"},
}

// AssetType is the "Tipo Ativo" label of the class.
func (c AssetClass) AssetType() string { return classes[c].assetType }

// SectorColumn is the column positions are grouped by besides the asset.
func (c AssetClass) SectorColumn() string { return classes[c].sector }

// Group is the label of the class in the dividends worksheet.
func (c AssetClass) Group() string { return classes[c].group }
