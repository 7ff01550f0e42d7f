// Command eventpass runs the trade-show registration API and its maintenance tasks.
//
// @title                      EventPass API
// @version                    1.0
// @description                Registration, digital passes, check-in, and the admin back-office.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the admin token.
package main

import (
	"fmt"
	"os"

	_ "eventpass/docs"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "eventpass <command>",
	Short:         "Registration and check-in service for trade shows",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "server", Title: "Server:"},
		&cobra.Group{ID: "admin", Title: "Administration:"},
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
