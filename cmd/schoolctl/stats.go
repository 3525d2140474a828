package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"schoolyard/internal/model"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print a quick census of the world",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openSchoolService()
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := context.Background()

			accounts, err := db.Accounts().List(ctx)
			if err != nil {
				return err
			}
			schools, err := db.Schools().List(ctx)
			if err != nil {
				return err
			}
			world, err := db.World().Get(ctx)
			if err != nil {
				return err
			}

			members := 0
			syntheticPrincipals := 0
			for i := range schools {
				members += len(schools[i].MemberIDs)
				if model.IsSyntheticID(schools[i].PrincipalID) {
					syntheticPrincipals++
				}
			}

			heading := color.New(color.FgHiBlue)
			heading.Println("Schoolyard census")
			fmt.Printf("  Accounts:  %d\n", len(accounts))
			fmt.Printf("  Schools:   %d (%d members total)\n", len(schools), members)
			if syntheticPrincipals > 0 {
				fmt.Printf("  Synthetic principals: %s (run reconcile if real members exist)\n",
					color.New(color.FgYellow).Sprintf("%d", syntheticPrincipals))
			}
			fmt.Printf("  Graffiti wall entries: %d\n", len(world.Graffiti))
			fmt.Printf("  World log entries:     %d\n", len(world.Log))
			if world.EventActive {
				fmt.Printf("  Event: %s\n", color.New(color.FgHiMagenta).Sprint("active"))
			}
			return nil
		},
	}
}
