package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Ensure every account has a school and re-run principal succession",
		Long: `Reconcile is idempotent: accounts missing their school get one
provisioned, and every school's principal seat is re-evaluated so synthetic
actors hand over to the first eligible real member. Running it twice in a
row changes nothing the second time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, schools, err := openSchoolService()
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := schools.Reconcile(context.Background())
			if err != nil {
				return fmt.Errorf("reconcile failed: %w", err)
			}

			fmt.Printf("Accounts checked:    %d\n", report.AccountsChecked)
			fmt.Printf("Schools checked:     %d\n", report.SchoolsChecked)
			if report.SchoolsProvisioned > 0 {
				fmt.Printf("Schools provisioned: %s\n", color.New(color.FgHiGreen).Sprintf("%d", report.SchoolsProvisioned))
			} else {
				fmt.Printf("Schools provisioned: 0\n")
			}
			if report.PrincipalsPromoted > 0 {
				fmt.Printf("Principals promoted: %s\n", color.New(color.FgHiGreen).Sprintf("%d", report.PrincipalsPromoted))
			} else {
				fmt.Printf("Principals promoted: 0\n")
			}
			return nil
		},
	}
}
