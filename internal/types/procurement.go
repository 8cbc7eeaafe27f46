package types

// StockRow is one inventory line as the inventory repository reports it.
type StockRow struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Vendor   string  `json:"vendor"`
}

// PackagingProfile describes how an ingredient is bought.
type PackagingProfile struct {
	PacketSize float64 `json:"packet_size"`
	PacketUnit string  `json:"packet_unit"`
	LastPrice  float64 `json:"last_price"`
	Vendor     string  `json:"vendor"`
}

// Known reports whether the profile carries a usable pack size.
func (p *PackagingProfile) Known() bool {
	return p != nil && p.PacketSize > 0 && p.PacketUnit != ""
}

// PriceEntry is one row of a vendor price sheet.
type PriceEntry struct {
	Price  float64 `json:"price"`
	Unit   string  `json:"unit"`
	Vendor string  `json:"vendor"`
}
