package cmd

import (
	"io"

	"github.com/inovacc/pollo/internal/core"
	"github.com/inovacc/pollo/internal/model"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage receivers and producers",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a receiver or producer",
	Example: `  pollo user add --email ana@example.org --first-name Ana --surname Lopez --role receiver
  pollo user add --email farm@example.org --first-name Luis --surname Vega --role producer --country PE`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		in := core.UserInput{}
		in.Email, _ = flags.GetString("email")
		in.FirstName, _ = flags.GetString("first-name")
		in.Surname, _ = flags.GetString("surname")
		in.Country, _ = flags.GetString("country")
		in.Role, _ = flags.GetString("role")

		u, err := svc.directory.RegisterUser(cmd.Context(), in)
		if err != nil {
			return err
		}

		return render(cmd, u, func(w io.Writer) { printUser(w, u) })
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}

		u, err := svc.directory.Find(cmd.Context(), id)
		if err != nil {
			return err
		}

		return render(cmd, u, func(w io.Writer) { printUser(w, u) })
	},
}

var producerCmd = &cobra.Command{
	Use:   "producer",
	Short: "Manage producer pickup details",
}

var producerSetCmd = &cobra.Command{
	Use:     "set <user-id>",
	Short:   "Set the pickup address and wallet of a producer",
	Args:    cobra.ExactArgs(1),
	Example: `  pollo producer set 2 --street "Calle Sol" --number 12 --zipcode 8000 --city Arequipa --wallet W1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "user")
		if err != nil {
			return err
		}

		flags := cmd.Flags()

		details := model.Producer{UserID: id}
		details.Street, _ = flags.GetString("street")
		details.StreetNumber, _ = flags.GetString("number")
		details.Zipcode, _ = flags.GetString("zipcode")
		details.City, _ = flags.GetString("city")
		details.WalletAddress, _ = flags.GetString("wallet")
		details.DeviceAddress, _ = flags.GetString("device")

		saved, err := svc.directory.SetProducerDetails(cmd.Context(), details)
		if err != nil {
			return err
		}

		return render(cmd, saved, func(w io.Writer) {
			field(w, "Producer", saved.UserID)
			field(w, "Pickup", saved.PickupAddress())
			field(w, "Wallet", saved.WalletAddress)
		})
	},
}

func init() {
	userAddCmd.Flags().String("email", "", "e-mail address (required)")
	userAddCmd.Flags().String("first-name", "", "first name (required)")
	userAddCmd.Flags().String("surname", "", "surname (required)")
	userAddCmd.Flags().String("country", "", "country")
	userAddCmd.Flags().String("role", "receiver", "receiver or producer")
	_ = userAddCmd.MarkFlagRequired("email")

	producerSetCmd.Flags().String("street", "", "street (required)")
	producerSetCmd.Flags().String("number", "", "street number")
	producerSetCmd.Flags().String("zipcode", "", "zip code")
	producerSetCmd.Flags().String("city", "", "city (required)")
	producerSetCmd.Flags().String("wallet", "", "wallet address receiving donations")
	producerSetCmd.Flags().String("device", "", "device address")

	userCmd.AddCommand(userAddCmd, userShowCmd)
	producerCmd.AddCommand(producerSetCmd)
	rootCmd.AddCommand(userCmd, producerCmd)
}
