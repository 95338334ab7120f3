package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/flatbank/internal/amount"
	"github.com/cleared-dev/flatbank/internal/id"
)

func newCreateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <number> <holder> <opening-balance>",
		Short: "Open a new account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := id.ParseAccountNumber(args[0])
			if err != nil {
				return err
			}
			balance, err := amount.Parse(args[2])
			if err != nil {
				return err
			}
			return runCreate(cmd, opts, number, args[1], balance)
		},
	}
}

func runCreate(cmd *cobra.Command, opts *globalOptions, number int64, holder string, balance float32) error {
	s, err := opts.openStore(cmd)
	if err != nil {
		return err
	}
	acct, err := s.Create(number, holder, balance)
	if err != nil {
		return describe(number, err)
	}
	warnTruncated(cmd.ErrOrStderr(), holder, acct)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Account created successfully!")
	printAccount(out, acct)
	return nil
}

func newDepositCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <number> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, amt, err := parseNumberAndAmount(args)
			if err != nil {
				return err
			}
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			acct, err := s.Deposit(number, amt)
			if err != nil {
				return describe(number, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deposit successful. New balance: %s\n", amount.Format(acct.Balance))
			return nil
		},
	}
}

func newWithdrawCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <number> <amount>",
		Short: "Withdraw money from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, amt, err := parseNumberAndAmount(args)
			if err != nil {
				return err
			}
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			acct, err := s.Withdraw(number, amt)
			if err != nil {
				return describe(number, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Withdrawal successful. New balance: %s\n", amount.Format(acct.Balance))
			return nil
		},
	}
}

func newQueryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "query <number>",
		Aliases: []string{"balance"},
		Short:   "Show an account's balance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := id.ParseAccountNumber(args[0])
			if err != nil {
				return err
			}
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			acct, err := s.Query(number)
			if err != nil {
				return describe(number, err)
			}
			printAccount(cmd.OutOrStdout(), acct)
			return nil
		},
	}
}

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			accts, err := s.List()
			if err != nil {
				return err
			}
			if len(accts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No accounts exist yet.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ACCOUNT\tHOLDER\tBALANCE\t")
			for _, a := range accts {
				fmt.Fprintf(tw, "%d\t%s\t%s\t\n", a.Number, a.Holder, amount.Format(a.Balance))
			}
			return tw.Flush()
		},
	}
}

func parseNumberAndAmount(args []string) (int64, float32, error) {
	number, err := id.ParseAccountNumber(args[0])
	if err != nil {
		return 0, 0, err
	}
	amt, err := amount.Parse(args[1])
	if err != nil {
		return 0, 0, err
	}
	return number, amt, nil
}
