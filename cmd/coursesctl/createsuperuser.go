package main

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"courses-backend/auth"
	"courses-backend/config"
	"courses-backend/database"
	"courses-backend/models"
)

// createsuperuserCmd represents the createsuperuser command
var createsuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a staff user interactively",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		db, err := database.InitDB(cfg)
		if err != nil {
			color.Red("Cannot connect to database: %v", err)
			os.Exit(1)
		}

		var username string
		if err := survey.AskOne(&survey.Input{Message: "Username:"}, &username); err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}
		if username == "" {
			color.Red("Username cannot be empty")
			os.Exit(1)
		}

		var existing models.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			color.Red("User %s already exists", username)
			os.Exit(1)
		}

		var password string
		if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password); err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}

		var confirmation string
		if err := survey.AskOne(&survey.Password{Message: "Password (again):"}, &confirmation); err != nil {
			color.Red("%v", err)
			os.Exit(1)
		}

		if password != confirmation {
			color.Red("Passwords do not match")
			os.Exit(1)
		}

		hash, err := auth.HashPassword(password)
		if err != nil {
			color.Red("Cannot hash password: %v", err)
			os.Exit(1)
		}

		user := models.User{
			Username: username,
			Password: hash,
			IsStaff:  true,
		}
		if err := db.Create(&user).Error; err != nil {
			color.Red("Cannot create user: %v", err)
			os.Exit(1)
		}

		color.Green("Superuser %s created", username)
	},
}

func init() {
	rootCmd.AddCommand(createsuperuserCmd)
}
