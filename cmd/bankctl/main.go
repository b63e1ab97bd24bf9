// bankctl drives the ledger directly against the flat-file store, one
// operation per invocation. It is the command-line counterpart of the HTTP
// API: authenticate, load the user's accounts, apply the operation, persist.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ledgerfile/ledgerfile/internal/account"
	"github.com/ledgerfile/ledgerfile/internal/auth"
	"github.com/ledgerfile/ledgerfile/internal/ledger"
	"github.com/ledgerfile/ledgerfile/internal/logging"
	"github.com/ledgerfile/ledgerfile/internal/store"
)

var (
	dataDir  string
	username string
	password string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:           "bankctl",
	Short:         "Personal banking ledger over a flat-file store",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func newService() (*auth.Service, error) {
	logger := logging.Discard()
	if verbose {
		logger = logging.New("debug")
	}
	st, err := store.Open(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return auth.NewService(st, logger, nil), nil
}

// openSession authenticates with the --user/--password flags and loads the
// user's accounts.
func openSession(cmd *cobra.Command) (*ledger.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("--user and --password are required")
	}
	svc, err := newService()
	if err != nil {
		return nil, err
	}
	return svc.Login(cmd.Context(), username, password)
}

func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <password>",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		if err := svc.Register(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("User registered:", args[0])
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new account (kind 1=SmallBusiness, 2=Community, 3=Client)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, _ := cmd.Flags().GetInt("kind")
		joint, _ := cmd.Flags().GetBool("joint")
		signatory, _ := cmd.Flags().GetString("signatory")

		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer session.Close()

		acc, err := session.CreateAccount(cmd.Context(), account.Kind(kind), joint, signatory)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s account: %s\n", acc.Kind, acc.Number)
		if acc.TwoSignatories {
			fmt.Println("Joint account with second signatory:", acc.SecondSignatory)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the user's accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer session.Close()

		accounts := session.Accounts()
		if len(accounts) == 0 {
			fmt.Println("No accounts created.")
			return nil
		}
		for _, a := range accounts {
			line := fmt.Sprintf("%s | Type: %s | Balance: £%g", a.Number, a.Kind, a.Balance)
			if a.TwoSignatories {
				line += fmt.Sprintf(" | Joint (second: %s)", a.SecondSignatory)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <account> <amount>",
	Short: "Deposit into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.Deposit(cmd.Context(), args[0], amount); err != nil {
			return err
		}
		fmt.Printf("Deposited %g into %s\n", amount, args[0])
		return nil
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <account> <amount>",
	Short: "Withdraw from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.Withdraw(cmd.Context(), args[0], amount); err != nil {
			return err
		}
		fmt.Printf("Withdrew %g from %s\n", amount, args[0])
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <from> <to> <amount>",
	Short: "Transfer between two of the user's accounts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer session.Close()

		if err := session.Transfer(cmd.Context(), args[0], args[1], amount); err != nil {
			return err
		}
		fmt.Printf("Transferred %g from %s to %s\n", amount, args[0], args[1])
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", ".", "directory holding the CSV store")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "username to operate as")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "password for --user")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	createCmd.Flags().Int("kind", 0, "account kind: 1=SmallBusiness, 2=Community, 3=Client")
	createCmd.Flags().Bool("joint", false, "require two signatories")
	createCmd.Flags().String("signatory", "", "second signatory name for a joint account")

	rootCmd.AddCommand(registerCmd, createCmd, listCmd, depositCmd, withdrawCmd, transferCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
