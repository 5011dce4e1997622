package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/sellerhub/pkg/auth"
)

var (
	tokenUser     uint
	tokenSeller   uint
	tokenUsername string
)

// sellerhub token:issue: sign an access token without a login, for local
// testing against the API.
var tokenIssueCmd = &cobra.Command{
	Use:   "token:issue",
	Short: "Print a signed access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUser == 0 || tokenSeller == 0 {
			return fmt.Errorf("--user and --seller are required")
		}
		token, expires, err := auth.DefaultIssuer().Issue(tokenUser, tokenSeller, tokenUsername)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		cmd.PrintErrf("expires %s\n", expires.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().UintVar(&tokenUser, "user", 0, "seller user ID")
	tokenIssueCmd.Flags().UintVar(&tokenSeller, "seller", 0, "seller ID")
	tokenIssueCmd.Flags().StringVar(&tokenUsername, "username", "", "username claim")
}
