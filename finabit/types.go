package finabit

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexNumber decodes a numeric field that the Finabit API may serialize as a
// number, a numeric string, an empty string, or null. Invalid indicates
// whether a usable value was present.
type FlexNumber struct {
	Float64 float64
	Valid   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	n.Float64, n.Valid = 0, false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		n.Float64, n.Valid = f, true
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	n.Float64, n.Valid = f, true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// Or returns the value, or fallback when none was present.
func (n FlexNumber) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float64
}

// Item is an inventory item as returned by the Items API.
type Item struct {
	ID                int        `json:"Id"`
	ItemID            string     `json:"ItemID"`
	ItemName          string     `json:"ItemName"`
	UnitName          string     `json:"UnitName"`
	UnitID            int        `json:"UnitID"`
	ItemGroupID       int        `json:"ItemGroupID"`
	ItemGroup         string     `json:"ItemGroup"`
	Taxable           int        `json:"Taxable"`
	Active            int        `json:"Active"`
	Dogana            int        `json:"Dogana"`
	Akciza            int        `json:"Akciza"`
	Color             string     `json:"Color"`
	PDAItemName       string     `json:"PDAItemName"`
	VATValue          FlexNumber `json:"VATValue"`
	AkcizaValue       FlexNumber `json:"AkcizaValue"`
	MaximumQuantity   FlexNumber `json:"MaximumQuantity"`
	Coefficient       FlexNumber `json:"Coefficient"`
	Barcode1          string     `json:"barcode1"`
	Barcode2          string     `json:"barcode2"`
	SalesPrice2       FlexNumber `json:"SalesPrice2"`
	SalesPrice3       FlexNumber `json:"SalesPrice3"`
	Origin            string     `json:"Origin"`
	Category          string     `json:"Category"`
	PLU               string     `json:"PLU"`
	ItemTemplate      string     `json:"ItemTemplate"`
	Weight            FlexNumber `json:"Weight"`
	Author            string     `json:"Author"`
	Publisher         string     `json:"Publisher"`
	CustomField1      string     `json:"CustomField1"`
	CustomField2      string     `json:"CustomField2"`
	CustomField3      string     `json:"CustomField3"`
	CustomField4      string     `json:"CustomField4"`
	CustomField5      string     `json:"CustomField5"`
	CustomField6      string     `json:"CustomField6"`
	Barcode3          string     `json:"Barcode3"`
	NettoBruttoWeight FlexNumber `json:"NettoBruttoWeight"`
	BrutoWeight       FlexNumber `json:"BrutoWeight"`
	MaxDiscount       FlexNumber `json:"MaxDiscount"`
	ShifraProdhuesit  string     `json:"ShifraProdhuesit"`
	Prodhuesi         string     `json:"Prodhuesi"`
}

// ItemsPage is one page of items plus pagination metadata.
type ItemsPage struct {
	Items       []Item `json:"items"`
	TotalCount  int    `json:"total_count"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
}

// transactionRow is the raw wire form of a sales or purchase line.
type transactionRow struct {
	ID               int        `json:"ID"`
	Data             string     `json:"Data"`
	Numri            string     `json:"Numri"`
	IDKonsumatorit   int        `json:"ID_Konsumatorit"`
	Konsumatori      string     `json:"Konsumatori"`
	Komercialisti    string     `json:"Komercialisti"`
	StatusiFaturimit string     `json:"Statusi_Faturimit"`
	Shifra           string     `json:"Shifra"`
	Emertimi         string     `json:"Emertimi"`
	NjesiaArtik      string     `json:"Njesia_Artik"`
	Sasia            FlexNumber `json:"Sasia"`
	Cmimi            FlexNumber `json:"Cmimi"`
}

// Transaction is one sales or purchase line. Instances come from
// NewTransaction so the derived fields are always consistent with the raw
// quantity and price.
type Transaction struct {
	ID            int
	Date          string
	InvoiceNo     string
	CustomerID    int
	Customer      string
	Salesman      string
	InvoiceStatus string
	Code          string
	Product       string
	Unit          string
	Quantity      FlexNumber
	UnitPrice     FlexNumber

	// Value is UnitPrice * Quantity, zero when either is absent.
	Value float64
}

// NewTransaction builds a Transaction from a raw API row, computing the
// derived total value the way the invoicing backend does.
func NewTransaction(row transactionRow) Transaction {
	return Transaction{
		ID:            row.ID,
		Date:          row.Data,
		InvoiceNo:     row.Numri,
		CustomerID:    row.IDKonsumatorit,
		Customer:      row.Konsumatori,
		Salesman:      row.Komercialisti,
		InvoiceStatus: row.StatusiFaturimit,
		Code:          row.Shifra,
		Product:       row.Emertimi,
		Unit:          row.NjesiaArtik,
		Quantity:      row.Sasia,
		UnitPrice:     row.Cmimi,
		Value:         row.Cmimi.Or(0) * row.Sasia.Or(0),
	}
}
