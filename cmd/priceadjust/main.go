package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var coefficient float64

	root := &cobra.Command{
		Use:          "priceadjust",
		Short:        "Convert appraisal valuations into adjusted brokerage prices",
		SilenceUsage: true,
	}
	root.PersistentFlags().Float64Var(&coefficient, "coefficient", 0,
		"override the fitted coefficient (default from PRICEADJUST_COEFFICIENT or built-in)")

	opts := &options{coefficient: &coefficient}

	root.AddCommand(unitCmd(opts))
	root.AddCommand(totalCmd(opts))
	root.AddCommand(fromUnitCmd(opts))
	root.AddCommand(directCmd(opts))
	root.AddCommand(sheetCmd(opts))
	root.AddCommand(demoCmd(opts))
	root.AddCommand(coefficientCmd(opts))
	root.AddCommand(serveCmd(opts))

	return root
}

func unitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unit [unit-price]",
		Short: "Adjust a unit price (yuan/m²)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnit(cmd.OutOrStdout(), opts, args[0])
		},
	}
}

func totalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "total [total-price] [area]",
		Short: "Adjust a total price by way of its unit price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTotal(cmd.OutOrStdout(), opts, args[0], args[1])
		},
	}
}

func fromUnitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "from-unit [unit-price] [area]",
		Short: "Compute the adjusted total price from a unit price and area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFromUnit(cmd.OutOrStdout(), opts, args[0], args[1])
		},
	}
}

func directCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "direct [total-price]",
		Short: "Scale a total price directly, assuming equal areas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirect(cmd.OutOrStdout(), opts, args[0])
		},
	}
}

func sheetCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sheet [sheet.yaml]",
		Short: "Validate and adjust every listing in a valuation sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheet(cmd.OutOrStdout(), opts, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	return cmd
}

func demoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Print adjustments for the sample valuations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), opts)
		},
	}
}

func coefficientCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "coefficient",
		Short: "Print the coefficient in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCoefficient(cmd.OutOrStdout(), opts)
		},
	}
}

func serveCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from PRICEADJUST_ADDR or :8080)")
	return cmd
}
