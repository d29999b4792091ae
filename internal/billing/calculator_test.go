package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandi-backend/internal/models"
)

func TestCalculateBillAmounts(t *testing.T) {
	items := []RatedItem{
		{Quantity: 10, Rate: 25},
		{Quantity: 15, Rate: 25},
	}
	charges := models.OtherCharges{"transport_cost": 20, "market_fee": 11.25}

	amounts := CalculateBillAmounts(items, 5, charges)

	assert.Equal(t, 625.0, amounts.GrossAmount)
	assert.Equal(t, 31.25, amounts.CommissionAmount)
	assert.Equal(t, 31.25, amounts.OtherChargesTotal)
	assert.Equal(t, 562.5, amounts.NetPayable)
}

func TestCalculateBillAmountsNetNeverNegative(t *testing.T) {
	items := []RatedItem{{Quantity: 1, Rate: 10}}
	charges := models.OtherCharges{"transport_cost": 500}

	amounts := CalculateBillAmounts(items, 10, charges)

	assert.Equal(t, 10.0, amounts.GrossAmount)
	assert.Equal(t, 0.0, amounts.NetPayable)
}

func TestCalculateBillAmountsEmpty(t *testing.T) {
	amounts := CalculateBillAmounts(nil, 5, nil)
	assert.Equal(t, 0.0, amounts.GrossAmount)
	assert.Equal(t, 0.0, amounts.NetPayable)
}

func TestGroupQuantitiesByRate(t *testing.T) {
	items := []RatedItem{
		{Quantity: 10, Rate: 25},
		{Quantity: 5, Rate: 30},
		{Quantity: 15, Rate: 25},
		{Quantity: 8, Rate: 30},
	}

	groups := GroupQuantitiesByRate(items)
	require.Len(t, groups, 2)

	// First-seen rate order is preserved
	assert.Equal(t, 25.0, groups[0].Rate)
	assert.Equal(t, []float64{10, 15}, groups[0].Quantities)
	assert.Equal(t, 25.0, groups[0].TotalQuantity)
	assert.Equal(t, 2, groups[0].Bags)
	assert.Equal(t, 625.0, groups[0].Amount)

	assert.Equal(t, 30.0, groups[1].Rate)
	assert.Equal(t, 13.0, groups[1].TotalQuantity)
	assert.Equal(t, 390.0, groups[1].Amount)

	// Groups partition the items: totals add back up
	var totalQty, totalAmount float64
	totalBags := 0
	for _, g := range groups {
		totalQty += g.TotalQuantity
		totalAmount += g.Amount
		totalBags += g.Bags
	}
	assert.Equal(t, 38.0, totalQty)
	assert.Equal(t, 1015.0, totalAmount)
	assert.Equal(t, len(items), totalBags)
}

func TestCountBags(t *testing.T) {
	assert.Equal(t, 0, CountBags(nil))
	assert.Equal(t, 3, CountBags(make([]RatedItem, 3)))
}

func TestSuggestOtherCharges(t *testing.T) {
	charges := SuggestOtherCharges("Tomato Hybrid", 100)
	assert.Equal(t, 50.0, charges["transport_cost"])
	assert.Equal(t, 50.0, charges["market_fee"])
	assert.Equal(t, 50.0, charges["loading_charge"])

	charges = SuggestOtherCharges("Green Chilli", 30)
	assert.Equal(t, 9.0, charges["transport_cost"])
	assert.Equal(t, 15.0, charges["market_fee"])
	assert.Equal(t, 25.0, charges["loading_charge"])

	charges = SuggestOtherCharges("Brinjal", 10)
	assert.Equal(t, 4.0, charges["transport_cost"])
	_, hasLoading := charges["loading_charge"]
	assert.False(t, hasLoading, "small lots carry no loading charge")
}

func TestNextBillNumbers(t *testing.T) {
	assert.Equal(t, []string{"BILL008", "BILL009", "BILL010"}, NextBillNumbers("BILL007", 3))
	assert.Equal(t, []string{"BILL001"}, NextBillNumbers("", 1))
	assert.Empty(t, NextBillNumbers("BILL042", 0))
}

func TestNextBillNumbersGrowPastThreeDigits(t *testing.T) {
	assert.Equal(t, []string{"BILL1000", "BILL1001"}, NextBillNumbers("BILL999", 2))
	assert.Equal(t, []string{"BILL1235"}, NextBillNumbers("BILL1234", 1))
}

func TestNextBillNumbersGarbageInput(t *testing.T) {
	// Unparseable existing numbers restart the sequence rather than panic
	assert.Equal(t, []string{"BILL001"}, NextBillNumbers("INV-77", 1))
	assert.Equal(t, []string{"BILL001"}, NextBillNumbers("BILLx", 1))
}
