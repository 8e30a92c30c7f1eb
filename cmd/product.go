package cmd

import (
	"fmt"
	"io"

	"github.com/inovacc/pollo/internal/core"
	"github.com/inovacc/pollo/internal/model"
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage products",
}

var productAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Offer a new product",
	Example: `  pollo product add --producer 2 --title "Six laying hens" --price 40 --location Arequipa --country PE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		in := core.ProductInput{}
		in.ProducerID, _ = flags.GetInt64("producer")
		in.Title, _ = flags.GetString("title")
		in.Description, _ = flags.GetString("description")
		in.Country, _ = flags.GetString("country")
		in.Location, _ = flags.GetString("location")
		in.Price, _ = flags.GetInt("price")
		in.Rank, _ = flags.GetInt("rank")

		p, err := svc.catalog.CreateProduct(cmd.Context(), in)
		if err != nil {
			return err
		}

		view, err := svc.catalog.Find(cmd.Context(), p.ID)
		if err != nil {
			return err
		}

		return render(cmd, view, func(w io.Writer) { printProduct(w, view) })
	},
}

var productShowCmd = &cobra.Command{
	Use:   "show <product-id>",
	Short: "Show a product with its applications and donation stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "product")
		if err != nil {
			return err
		}

		view, err := svc.catalog.Find(cmd.Context(), id)
		if err != nil {
			return err
		}

		return render(cmd, view, func(w io.Writer) {
			printProduct(w, view)

			for _, group := range []struct {
				title string
				apps  []model.Application
			}{
				{"Open", view.Open},
				{"Pending", view.Pending},
				{"Closed", view.Closed},
			} {
				if len(group.apps) == 0 {
					continue
				}

				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprintln(w, headerStyle.Render(group.title+" applications"))
				printApplications(w, group.apps)
			}
		})
	},
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, best ranked first",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		var filter model.ProductFilter
		filter.ProducerID, _ = flags.GetInt64("producer")
		filter.Offset, _ = flags.GetInt("offset")
		filter.Limit, _ = flags.GetInt("limit")

		all, _ := flags.GetBool("all")
		filter.AvailableOnly = !all

		views, err := svc.catalog.List(cmd.Context(), filter)
		if err != nil {
			return err
		}

		return render(cmd, views, func(w io.Writer) { printProducts(w, views) })
	},
}

var productWithdrawCmd = &cobra.Command{
	Use:   "withdraw <product-id>",
	Short: "Make a product unavailable and cancel its open applications",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAvailability(cmd, args[0], false)
	},
}

var productRestoreCmd = &cobra.Command{
	Use:   "restore <product-id>",
	Short: "Make a product available again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAvailability(cmd, args[0], true)
	},
}

func setAvailability(cmd *cobra.Command, rawID string, available bool) error {
	id, err := parseID(rawID, "product")
	if err != nil {
		return err
	}

	res, err := svc.cascade.SetAvailability(cmd.Context(), id, available)
	if err != nil {
		return err
	}

	return render(cmd, res, func(w io.Writer) {
		state := "available"
		if !available {
			state = "withdrawn"
		}

		_, _ = fmt.Fprintf(w, "%s Product #%d is now %s\n", okStyle.Render("✓"), id, state)

		if res.PendingCount > 0 {
			_, _ = fmt.Fprintln(w, warnStyle.Render(
				fmt.Sprintf("  %d funded application(s) still wait for pickup confirmation", res.PendingCount)))
		}

		if !available {
			field(w, "Notified", yesNo(res.NotificationSent, "yes", "no"))
		}
	})
}

func init() {
	productAddCmd.Flags().Int64("producer", 0, "producer user id (required)")
	productAddCmd.Flags().String("title", "", "product title (required)")
	productAddCmd.Flags().Int("price", 0, "price in USD (required)")
	productAddCmd.Flags().Int("rank", 0, "sort weight, higher first")
	productAddCmd.Flags().String("description", "", "description")
	productAddCmd.Flags().String("country", "", "country")
	productAddCmd.Flags().String("location", "", "location")
	_ = productAddCmd.MarkFlagRequired("producer")
	_ = productAddCmd.MarkFlagRequired("title")
	_ = productAddCmd.MarkFlagRequired("price")

	productListCmd.Flags().Int64("producer", 0, "only products of this producer")
	productListCmd.Flags().Bool("all", false, "include withdrawn products")
	productListCmd.Flags().Int("offset", 0, "skip this many products")
	productListCmd.Flags().Int("limit", 0, "show at most this many products (0 = all)")

	productCmd.AddCommand(productAddCmd, productShowCmd, productListCmd, productWithdrawCmd, productRestoreCmd)
	rootCmd.AddCommand(productCmd)
}
