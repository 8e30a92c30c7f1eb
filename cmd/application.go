package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/inovacc/pollo/internal/model"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:     "apply",
	Short:   "Apply for a product as a receiver",
	Example: `  pollo apply --receiver 1 --product 3 --motivation "Eggs for the community kitchen"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		receiver, _ := flags.GetInt64("receiver")
		product, _ := flags.GetInt64("product")
		motivation, _ := flags.GetString("motivation")

		app, err := svc.engine.Create(cmd.Context(), receiver, product, motivation)
		if err != nil {
			return err
		}

		return render(cmd, app, func(w io.Writer) { printApplication(w, app) })
	},
}

var applicationCmd = &cobra.Command{
	Use:     "application",
	Aliases: []string{"app"},
	Short:   "Inspect and move applications through their lifecycle",
	Long: `Applications move Open -> Pending when a donor funds them, Pending -> Open
when the donation is reset and Pending -> Completed when the receiver picked
the product up. Withdrawn products close their open applications.`,
}

var applicationShowCmd = &cobra.Command{
	Use:   "show <application-id>",
	Short: "Show an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "application")
		if err != nil {
			return err
		}

		app, err := svc.engine.Find(cmd.Context(), id)
		if err != nil {
			return err
		}

		return render(cmd, app, func(w io.Writer) { printApplication(w, app) })
	},
}

var applicationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a receiver's applications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		receiver, _ := flags.GetInt64("receiver")
		rawStatus, _ := flags.GetString("status")

		var status *model.ApplicationStatus

		if rawStatus != "" {
			parsed, err := model.ParseStatus(rawStatus)
			if err != nil {
				return err
			}

			status = &parsed
		}

		apps, err := svc.engine.ListByReceiver(cmd.Context(), receiver, status)
		if err != nil {
			return err
		}

		if apps == nil {
			apps = []model.Application{}
		}

		return render(cmd, apps, func(w io.Writer) { printApplications(w, apps) })
	},
}

var applicationOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "List open applications waiting for a donor",
	RunE: func(cmd *cobra.Command, args []string) error {
		offset, _ := cmd.Flags().GetInt("offset")
		limit, _ := cmd.Flags().GetInt("limit")

		page, err := svc.engine.ListOpen(cmd.Context(), offset, limit)
		if err != nil {
			return err
		}

		return render(cmd, page, func(w io.Writer) {
			printApplications(w, page.Items)
			_, _ = fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("%d of %d open applications", len(page.Items), page.Total)))
		})
	},
}

var applicationContractCmd = &cobra.Command{
	Use:   "contract <application-id>",
	Short: "Show the price and producer addresses a donation contract needs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "application")
		if err != nil {
			return err
		}

		info, err := svc.engine.ContractInfo(cmd.Context(), id)
		if err != nil {
			return err
		}

		return render(cmd, info, func(w io.Writer) {
			_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Contract for application #%d", info.ApplicationID)))
			field(w, "Product", info.ProductID)
			field(w, "Price", info.Price)
			field(w, "Wallet", info.WalletAddress)
			field(w, "Device", yesNo(info.DeviceAddress != "", info.DeviceAddress, "-"))
		})
	},
}

func transitionCmd(use, short string, to model.ApplicationStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <application-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "application")
			if err != nil {
				return err
			}

			res, err := svc.engine.Transition(cmd.Context(), id, to)
			if err != nil {
				return err
			}

			if !res.OK {
				return fmt.Errorf("application %d not moved to %s: %w", id, to, res.Rejected)
			}

			return render(cmd, res, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "%s Application #%d is now %s\n", okStyle.Render("✓"), id, statusText(to))

				if to == model.StatusPending {
					field(w, "Notified", yesNo(res.Notified, "yes", "no, tell the receiver yourself"))
				}
			})
		},
	}
}

var applicationDeleteCmd = &cobra.Command{
	Use:   "delete <application-id>",
	Short: "Delete your own open application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "application")
		if err != nil {
			return err
		}

		user, _ := cmd.Flags().GetInt64("user")

		deleted, err := svc.engine.Delete(cmd.Context(), user, id)
		if err != nil {
			return err
		}

		if !deleted {
			return errors.New("application not deleted: it must exist, be open and belong to the requesting user")
		}

		return render(cmd, map[string]any{"deleted": true, "id": id}, func(w io.Writer) {
			_, _ = fmt.Fprintf(w, "%s Application #%d deleted\n", okStyle.Render("✓"), id)
		})
	},
}

func init() {
	applyCmd.Flags().Int64("receiver", 0, "receiver user id (required)")
	applyCmd.Flags().Int64("product", 0, "product id (required)")
	applyCmd.Flags().String("motivation", "", "why you need the product (required)")
	_ = applyCmd.MarkFlagRequired("receiver")
	_ = applyCmd.MarkFlagRequired("product")
	_ = applyCmd.MarkFlagRequired("motivation")

	applicationListCmd.Flags().Int64("receiver", 0, "receiver user id (required)")
	applicationListCmd.Flags().String("status", "", "only this status: open, pending, completed, unavailable")
	_ = applicationListCmd.MarkFlagRequired("receiver")

	applicationOpenCmd.Flags().Int("offset", 0, "skip this many applications")
	applicationOpenCmd.Flags().Int("limit", 20, "show at most this many applications (0 = all)")

	applicationDeleteCmd.Flags().Int64("user", 0, "requesting user id (required)")
	_ = applicationDeleteCmd.MarkFlagRequired("user")

	applicationCmd.AddCommand(
		applicationShowCmd,
		applicationListCmd,
		applicationOpenCmd,
		applicationContractCmd,
		transitionCmd("donate", "Mark an open application as funded", model.StatusPending),
		transitionCmd("reset", "Return a funded application to open", model.StatusOpen),
		transitionCmd("complete", "Confirm the receiver picked the product up", model.StatusCompleted),
		applicationDeleteCmd,
	)

	rootCmd.AddCommand(applyCmd, applicationCmd)
}
