package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skotchmaster/parfum_shop/internal/client"
	"github.com/Skotchmaster/parfum_shop/internal/tui"
)

var searchQuery string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Print the catalog as a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(cfg.Server)
		ctx := cmd.Context()

		if searchQuery != "" {
			res, err := c.SearchProducts(ctx, searchQuery, 1, 100)
			if err != nil {
				logger.Error("search failed", zap.String("q", searchQuery), zap.Error(err))
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProducts(res.Products, -1, tui.DefaultStyles()))
			fmt.Fprintf(cmd.OutOrStdout(), "найдено: %d\n", res.Total)
			return nil
		}

		items, err := c.ListProducts(ctx)
		if err != nil {
			logger.Error("list failed", zap.Error(err))
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderProducts(items, -1, tui.DefaultStyles()))
		return nil
	},
}

func init() {
	productsCmd.Flags().StringVarP(&searchQuery, "search", "s", "", "full-text query instead of the whole catalog")
}
