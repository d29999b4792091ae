package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"mandi-backend/internal/models"
)

// RatedItem is the quantity/rate pair the calculator works over. One RatedItem
// corresponds to one auction item row, which the mandi counts as one bag.
type RatedItem struct {
	Quantity float64
	Rate     float64
}

// Amounts is the money breakdown of a bill.
type Amounts struct {
	GrossAmount       float64
	CommissionAmount  float64
	OtherChargesTotal float64
	NetPayable        float64
}

// CalculateBillAmounts computes the full money breakdown for a set of rated
// items. NetPayable is floored at zero: charges can never push the farmer's
// payout negative.
func CalculateBillAmounts(items []RatedItem, commissionRatePercent float64, otherCharges models.OtherCharges) Amounts {
	var gross float64
	for _, item := range items {
		gross += item.Quantity * item.Rate
	}

	commission := gross * commissionRatePercent / 100
	otherTotal := otherCharges.Total()

	net := gross - commission - otherTotal
	if net < 0 {
		net = 0
	}

	return Amounts{
		GrossAmount:       gross,
		CommissionAmount:  commission,
		OtherChargesTotal: otherTotal,
		NetPayable:        net,
	}
}

// RateGroup is all items sold at one rate, for receipt display.
type RateGroup struct {
	Rate          float64   `json:"rate"`
	Quantities    []float64 `json:"quantities"`
	TotalQuantity float64   `json:"total_quantity"`
	Bags          int       `json:"bags"`
	Amount        float64   `json:"amount"`
}

// GroupQuantitiesByRate partitions items by rate, preserving first-seen rate
// order. Bags counts item rows, not units of quantity.
func GroupQuantitiesByRate(items []RatedItem) []RateGroup {
	var groups []RateGroup
	index := make(map[float64]int)

	for _, item := range items {
		i, ok := index[item.Rate]
		if !ok {
			i = len(groups)
			index[item.Rate] = i
			groups = append(groups, RateGroup{Rate: item.Rate})
		}
		groups[i].Quantities = append(groups[i].Quantities, item.Quantity)
		groups[i].TotalQuantity += item.Quantity
		groups[i].Bags++
	}

	for i := range groups {
		groups[i].Amount = groups[i].TotalQuantity * groups[i].Rate
	}

	return groups
}

// CountBags returns the bag count: each auction item row is one bag/lot.
func CountBags(items []RatedItem) int {
	return len(items)
}

// SuggestOtherCharges proposes transport, loading and market-fee deductions
// from the product name and total quantity. These are suggestions surfaced to
// the operator at preview time, never enforced.
func SuggestOtherCharges(productName string, totalQuantity float64) models.OtherCharges {
	name := strings.ToLower(productName)

	// Per-kg transport rate varies by produce type
	perKg := 0.4
	switch {
	case strings.Contains(name, "tomato"), strings.Contains(name, "onion"):
		perKg = 0.5
	case strings.Contains(name, "potato"), strings.Contains(name, "carrot"):
		perKg = 0.4
	case strings.Contains(name, "leafy"), strings.Contains(name, "green"):
		perKg = 0.3
	}

	charges := models.OtherCharges{
		"transport_cost": math.Round(totalQuantity * perKg),
		"market_fee":     math.Round(totalQuantity * 0.5),
	}

	if totalQuantity > 50 {
		charges["loading_charge"] = 50
	} else if totalQuantity > 20 {
		charges["loading_charge"] = 25
	}

	return charges
}

// NextBillNumbers returns count sequential bill numbers following the highest
// existing one. highestExisting is the max bill_number already persisted (empty
// when no bills exist); the caller must read it and insert the results inside
// one transaction so concurrent generation cannot allocate duplicates.
func NextBillNumbers(highestExisting string, count int) []string {
	last := 0
	if suffix, ok := strings.CutPrefix(highestExisting, models.BillNumberPrefix); ok {
		if n, err := strconv.Atoi(suffix); err == nil {
			last = n
		}
	}

	numbers := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		numbers = append(numbers, fmt.Sprintf("%s%03d", models.BillNumberPrefix, last+i))
	}
	return numbers
}
