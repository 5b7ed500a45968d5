package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coursesctl",
	Short: "Administrative tool for the courses backend",
	Long: `Manages the courses backend outside of the HTTP server: runs
database migrations, creates staff users and prints enrollment and
review reports straight from the database.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
