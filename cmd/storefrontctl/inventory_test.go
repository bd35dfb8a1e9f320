package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcorp/storefront/internal/inventory"
)

func TestParseOverrides(t *testing.T) {
	got, err := parseOverrides([]string{"3=10", " 7 = 0 "})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 10, 7: 0}, got)

	none, err := parseOverrides(nil)
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, bad := range []string{"3", "x=1", "0=1", "3=-1", "3=abc"} {
		_, err := parseOverrides([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestWritePlan(t *testing.T) {
	plan := &inventory.ReorderPlan{
		Lines: []inventory.ReorderLine{{
			ProductID:    4,
			ProductName:  "Lamp",
			SupplierName: "Acme",
			Stock:        1,
			Quantity:     10,
			LineCost:     decimal.RequireFromString("55"),
		}},
		TotalUnits:    10,
		EstimatedCost: decimal.RequireFromString("55"),
	}
	var buf bytes.Buffer
	require.NoError(t, writePlan(&buf, plan))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ID"))
	assert.Contains(t, out, "Lamp")
	assert.Contains(t, out, "55.00")
	assert.Contains(t, out, "10 units")
}

func TestRootCommandTree(t *testing.T) {
	root := rootCmd()
	for _, path := range [][]string{{"migrate", "up"}, {"migrate", "create"}, {"inventory", "low-stock"}, {"inventory", "reorder"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
