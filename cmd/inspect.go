package cmd

import (
	"context"
	"fmt"

	"github.com/heirloom-labs/heirloom/jsonx"
	"github.com/heirloom-labs/heirloom/rpcclient"
	"github.com/heirloom-labs/heirloom/types"
	"github.com/heirloom-labs/heirloom/utils"
	"github.com/spf13/cobra"
)

var inspectEndpoint string

var balanceCmd = &cobra.Command{
	Use:   "balance <account-id> <faucet-id>",
	Short: "Show an account's balance of a faucet's asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		accountID, err := types.ParseAccountID(args[0])
		if err != nil {
			return err
		}
		faucetID, err := types.ParseAccountID(args[1])
		if err != nil {
			return err
		}

		client := rpcclient.NewClient(rpcclient.Config{Endpoint: inspectEndpoint})
		defer client.Close()

		account, err := client.GetAccount(context.Background(), accountID)
		if err != nil {
			return err
		}
		fmt.Println(utils.Uint256ToString(account.Balance(faucetID)))
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <note-id>",
	Short: "Look a committed note up by its identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noteID, err := types.ParseNoteID(args[0])
		if err != nil {
			return err
		}

		client := rpcclient.NewClient(rpcclient.Config{Endpoint: inspectEndpoint})
		defer client.Close()

		n, err := client.GetNote(context.Background(), noteID)
		if err != nil {
			return err
		}
		out, err := jsonx.MarshalIndent(n, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(noteCmd)

	for _, c := range []*cobra.Command{balanceCmd, noteCmd} {
		c.PersistentFlags().StringVarP(&inspectEndpoint, "endpoint", "e", "http://localhost:57291", "ledger JSON-RPC endpoint")
	}
}
