package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List the exercise catalog with its scoring targets",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, catalog, err := setup()
		if err != nil {
			return err
		}

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()

		fmt.Println(boldGreen("Exercises:"))
		for _, ex := range catalog.Exercises {
			cfg := catalog.ScoreConfig(ex)
			line := fmt.Sprintf("  %s %s  %s %d  %s %v",
				boldCyan(fmt.Sprintf("#%d", ex.ID)), ex.Title,
				yellow("target"), cfg.TargetScore,
				yellow("milestones"), cfg.Milestones)
			if ex.ComingSoon {
				line = faint(line + " (coming soon)")
			}
			fmt.Println(line)
			if ex.Description != "" {
				fmt.Printf("      %s\n", ex.Description)
			}
		}
		return nil
	},
}
