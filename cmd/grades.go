package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/admissions-eligibility/internal/render"
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Print the grade scale with credits",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), render.Scale())
	},
}

func init() {
	rootCmd.AddCommand(gradesCmd)
}
