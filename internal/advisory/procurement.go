// ABOUTME: Procurement form rules: allowed produce, minimum tonnage and source
// ABOUTME: Converts a checked form into the procurement request body

package advisory

import (
	"slices"

	"github.com/KayembaIsaacFrank/gcdl/internal/client"
)

// AllowedProduce are the produce names a sales agent may procure.
var AllowedProduce = []string{"beans", "grain maize", "cowpeas", "groundnuts", "rice", "soybeans"}

// IsAllowedProduce matches name exactly against AllowedProduce.
func IsAllowedProduce(name string) bool {
	return slices.Contains(AllowedProduce, name)
}

// FilterProduce keeps only allowed produce, preserving order.
func FilterProduce(all []client.Produce) []client.Produce {
	var out []client.Produce
	for _, p := range all {
		if IsAllowedProduce(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

// Option is a value with its display label.
type Option struct {
	Value string
	Label string
}

// Sources are the accepted procurement sources.
var Sources = []Option{
	{Value: "individual", Label: "Individual Dealer"},
	{Value: "company", Label: "Company"},
	{Value: "maganjo", Label: "Maganjo Farm"},
	{Value: "matugga", Label: "Matugga Farm"},
}

// MinimumTonnage is the smallest procurement accepted.
const MinimumTonnage = 1

// ProcurementForm is what an agent enters. Produce is the selected produce
// name; an unknown ProduceID leaves it empty.
type ProcurementForm struct {
	BranchID           int64   `json:"branch_id"`
	ProduceID          int64   `json:"produce_id"`
	Produce            string  `json:"produce" validate:"produce"`
	Tonnage            float64 `json:"tonnage" validate:"gte=1"`
	Source             string  `json:"source" validate:"oneof=individual company maganjo matugga"`
	DealerPhone        string  `json:"dealer_phone"`
	CostPerTon         float64 `json:"cost_per_ton" validate:"gte=0"`
	SellingPricePerTon float64 `json:"selling_price_per_ton" validate:"gte=0"`
}

// Validate returns Errors when any check fails. The first error follows the
// order produce, tonnage, source.
func (f ProcurementForm) Validate() error {
	return check(f)
}

// Input converts the form to the request body. The source goes out as the
// dealer name.
func (f ProcurementForm) Input() client.ProcurementInput {
	return client.ProcurementInput{
		BranchID:           f.BranchID,
		ProduceID:          f.ProduceID,
		DealerName:         f.Source,
		DealerPhone:        f.DealerPhone,
		Tonnage:            f.Tonnage,
		CostPerTon:         f.CostPerTon,
		SellingPricePerTon: f.SellingPricePerTon,
	}
}

// ProduceName looks up id in list.
func ProduceName(list []client.Produce, id int64) string {
	for _, p := range list {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}
