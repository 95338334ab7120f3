package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/flatbank/internal/amount"
	"github.com/cleared-dev/flatbank/internal/id"
	"github.com/cleared-dev/flatbank/internal/store"
)

const menu = `
Menu:
1. Create Account
2. Deposit
3. Withdraw
4. Check Balance
5. Exit
`

func newShellCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive menu for managing accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			sh := &shell{
				in:    bufio.NewScanner(cmd.InOrStdin()),
				out:   cmd.OutOrStdout(),
				store: s,
			}
			return sh.run()
		},
	}
}

// shell is the menu loop. Every failure is printed and the loop continues;
// only Exit, end of input, or an unreadable menu choice end it.
type shell struct {
	in    *bufio.Scanner
	out   io.Writer
	store *store.Store
}

func (sh *shell) run() error {
	fmt.Fprintln(sh.out, "=== Basic Bank Account Management System ===")
	for {
		fmt.Fprint(sh.out, menu)
		line, ok := sh.prompt("Enter your choice: ")
		if !ok {
			return sh.in.Err()
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(sh.out, "Invalid input. Exiting.")
			return nil
		}

		switch choice {
		case 1:
			sh.create()
		case 2:
			sh.deposit()
		case 3:
			sh.withdraw()
		case 4:
			sh.checkBalance()
		case 5:
			fmt.Fprintln(sh.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(sh.out, "Invalid choice. Try again.")
		}
	}
}

// prompt prints label and reads one trimmed line. It reports false at end of input.
func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		fmt.Fprintln(sh.out)
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *shell) create() {
	fmt.Fprintln(sh.out, "\n--- Create Account ---")
	line, ok := sh.prompt("Enter account number (numeric): ")
	if !ok {
		return
	}
	number, err := id.ParseAccountNumber(line)
	if err != nil {
		fmt.Fprintln(sh.out, "Invalid account number input.")
		return
	}

	// Duplicates are rejected before the remaining prompts.
	exists, err := sh.store.Exists(number)
	if err != nil {
		sh.fail(number, err)
		return
	}
	if exists {
		sh.fail(number, store.ErrDuplicateAccount)
		return
	}

	holder, ok := sh.prompt("Enter account holder name: ")
	if !ok {
		return
	}
	line, ok = sh.prompt("Enter initial deposit amount: ")
	if !ok {
		return
	}
	balance, err := amount.Parse(line)
	if err != nil || balance < 0 {
		fmt.Fprintln(sh.out, "Invalid amount. Account creation aborted.")
		return
	}

	acct, err := sh.store.Create(number, holder, balance)
	if err != nil {
		sh.fail(number, err)
		return
	}
	warnTruncated(sh.out, holder, acct)
	fmt.Fprintln(sh.out, "Account created successfully!")
	printAccount(sh.out, acct)
}

func (sh *shell) deposit() {
	fmt.Fprintln(sh.out, "\n--- Deposit ---")
	number, amt, ok := sh.readNumberAndAmount("deposit")
	if !ok {
		return
	}
	acct, err := sh.store.Deposit(number, amt)
	if err != nil {
		sh.fail(number, err)
		return
	}
	fmt.Fprintf(sh.out, "Deposit successful. New balance: %s\n", amount.Format(acct.Balance))
}

func (sh *shell) withdraw() {
	fmt.Fprintln(sh.out, "\n--- Withdraw ---")
	number, amt, ok := sh.readNumberAndAmount("withdraw")
	if !ok {
		return
	}
	acct, err := sh.store.Withdraw(number, amt)
	if err != nil {
		sh.fail(number, err)
		return
	}
	fmt.Fprintf(sh.out, "Withdrawal successful. New balance: %s\n", amount.Format(acct.Balance))
}

func (sh *shell) checkBalance() {
	fmt.Fprintln(sh.out, "\n--- Check Balance ---")
	line, ok := sh.prompt("Enter account number: ")
	if !ok {
		return
	}
	number, err := id.ParseAccountNumber(line)
	if err != nil {
		fmt.Fprintln(sh.out, "Invalid input.")
		return
	}
	acct, err := sh.store.Query(number)
	if err != nil {
		sh.fail(number, err)
		return
	}
	printAccount(sh.out, acct)
}

func (sh *shell) readNumberAndAmount(verb string) (int64, float32, bool) {
	line, ok := sh.prompt("Enter account number: ")
	if !ok {
		return 0, 0, false
	}
	number, err := id.ParseAccountNumber(line)
	if err != nil {
		fmt.Fprintln(sh.out, "Invalid input.")
		return 0, 0, false
	}
	line, ok = sh.prompt("Enter amount to " + verb + ": ")
	if !ok {
		return 0, 0, false
	}
	amt, err := amount.Parse(line)
	if err != nil || amt <= 0 {
		fmt.Fprintln(sh.out, "Invalid amount.")
		return 0, 0, false
	}
	return number, amt, true
}

func (sh *shell) fail(number int64, err error) {
	err = describe(number, err)
	if _, ok := err.(*userError); ok {
		fmt.Fprintln(sh.out, err)
		return
	}
	fmt.Fprintf(sh.out, "Error: %v\n", err)
}
