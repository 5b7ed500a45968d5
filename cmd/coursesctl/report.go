package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"courses-backend/config"
	"courses-backend/database"
)

// coursesCmd represents the courses command
var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Print per-course enrollment and review summary",
	Run: func(cmd *cobra.Command, args []string) {
		reporter := openReporter()

		activity, err := reporter.CourseActivity()
		if err != nil {
			color.Red("Report failed: %v", err)
			os.Exit(1)
		}

		color.Yellow("\nCourse Activity")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Course", "Students", "Reviews", "Average Grade"})

		for _, row := range activity {
			average := "-"
			if row.AverageGrade != nil {
				average = fmt.Sprintf("%.2f", *row.AverageGrade)
			}
			table.Append([]string{
				row.Title,
				strconv.Itoa(row.Students),
				strconv.Itoa(row.Reviews),
				average,
			})
		}

		table.Render()
	},
}

// studentsCmd represents the students command
var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Print the student roster with course counts",
	Run: func(cmd *cobra.Command, args []string) {
		reporter := openReporter()

		roster, err := reporter.StudentRoster()
		if err != nil {
			color.Red("Report failed: %v", err)
			os.Exit(1)
		}

		color.Yellow("\nStudent Roster")
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"First Name", "Last Name", "Owner", "Courses"})

		for _, row := range roster {
			table.Append([]string{
				row.FirstName,
				row.LastName,
				row.Username,
				strconv.Itoa(row.Courses),
			})
		}

		table.Render()
	},
}

func openReporter() *database.Reporter {
	cfg := config.Load()
	db, err := database.OpenReportDB(cfg)
	if err != nil {
		color.Red("Cannot connect to database: %v", err)
		os.Exit(1)
	}
	return database.NewReporter(db)
}

func init() {
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(studentsCmd)
}
