package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lcorp/storefront/internal/inventory"
	"github.com/lcorp/storefront/pkg/backend"
)

const tokenEnv = "STOREFRONT_ADMIN_TOKEN"

func inventoryCmd() *cobra.Command {
	var (
		token  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect stock and restock through the backend",
	}
	cmd.PersistentFlags().StringVar(&token, "token", "", "admin bearer token (defaults to $"+tokenEnv+")")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	service := func(cmd *cobra.Command, name string) (*env, inventory.Service, error) {
		e, err := loadEnv(cmd.Context(), "inventory "+name)
		if err != nil {
			return nil, nil, err
		}
		if token == "" {
			token = os.Getenv(tokenEnv)
		}
		if token == "" {
			return nil, nil, fmt.Errorf("an admin token is required (--token or $%s)", tokenEnv)
		}
		client, err := backend.NewClient(e.cfg.Backend.URL, backend.WithTimeout(e.cfg.Backend.Timeout))
		if err != nil {
			return nil, nil, err
		}
		svc, err := inventory.NewService(client, e.logg)
		if err != nil {
			return nil, nil, err
		}
		e.ctx = backend.WithBearer(e.ctx, token)
		return e, svc, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "low-stock",
		Short: "List products at or below their reorder level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, svc, err := service(cmd, "low-stock")
			if err != nil {
				return err
			}
			products, err := svc.LowStock(e.ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), products)
			}
			return writeLowStock(cmd.OutOrStdout(), products)
		},
	})

	var (
		overrides []string
		submit    bool
	)
	reorder := &cobra.Command{
		Use:   "reorder",
		Short: "Plan (or with --submit, place) supplier orders for all low-stock products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quantities, err := parseOverrides(overrides)
			if err != nil {
				return err
			}
			e, svc, err := service(cmd, "reorder")
			if err != nil {
				return err
			}
			if !submit {
				plan, err := svc.PlanReorder(e.ctx, quantities)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), plan)
				}
				return writePlan(cmd.OutOrStdout(), plan)
			}
			result, err := svc.SubmitBulkReorder(e.ctx, quantities, nil)
			if err != nil {
				return err
			}
			e.logg.Info(e.logg.WithField(e.ctx, "orders", len(result.Orders)), "bulk reorder submitted")
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			if err := writePlan(cmd.OutOrStdout(), &result.Plan); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %d supplier order(s)\n", len(result.Orders))
			return err
		},
	}
	reorder.Flags().StringSliceVar(&overrides, "quantity", nil, "override as PRODUCT_ID=QTY (repeatable)")
	reorder.Flags().BoolVar(&submit, "submit", false, "place the orders instead of printing the plan")
	cmd.AddCommand(reorder)
	return cmd
}

func parseOverrides(raw []string) (map[int]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[int]int, len(raw))
	for _, entry := range raw {
		id, qty, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid quantity %q: expected PRODUCT_ID=QTY", entry)
		}
		productID, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil || productID <= 0 {
			return nil, fmt.Errorf("invalid product id in %q", entry)
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(qty))
		if err != nil || quantity < 0 {
			return nil, fmt.Errorf("invalid quantity in %q", entry)
		}
		out[productID] = quantity
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLowStock(w io.Writer, products []inventory.ProductDTO) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTOCK\tREORDER LEVEL\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", p.ID, p.Name, p.Stock, p.ReorderLevel, p.StockStatus)
	}
	return tw.Flush()
}

func writePlan(w io.Writer, plan *inventory.ReorderPlan) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tSUPPLIER\tSTOCK\tQTY\tLINE COST")
	for _, line := range plan.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n", line.ProductID, line.ProductName, line.SupplierName, line.Stock, line.Quantity, line.LineCost.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\t\t%d units\t%s\n", plan.TotalUnits, plan.EstimatedCost.StringFixed(2))
	return tw.Flush()
}
