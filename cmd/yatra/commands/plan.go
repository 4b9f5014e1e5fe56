package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yatra/internal/domain"
	"yatra/internal/service"
)

var (
	planBudget    string
	planInterests string
	planDuration  string
	planStyle     string
	planCity      string
	planSpeak     bool
)

// NewPlanCmd creates the plan command.
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a tour plan and PDF report for a traveller profile",
		Long: `Generate a tour plan for a traveller profile and export it as a PDF.

Styles: Luxury, Adventure, Family, Backpacking.

Examples:
  yatra plan --budget "₹50,000" --interests "beaches, trekking" --duration "7 days" --style Adventure --city Mumbai
  yatra plan --budget "$2000" --interests "food, history" --duration "10 days" --style Family --city Delhi --speak`,
		Args: cobra.NoArgs,
		RunE: runPlan,
	}
	cmd.Flags().StringVar(&planBudget, "budget", "", "Total budget, e.g. ₹50,000")
	cmd.Flags().StringVar(&planInterests, "interests", "", "Comma separated interests")
	cmd.Flags().StringVar(&planDuration, "duration", "", "Trip length, e.g. 7 days")
	cmd.Flags().StringVar(&planStyle, "style", string(domain.StyleLuxury), "Travel style")
	cmd.Flags().StringVar(&planCity, "city", "", "Starting city")
	cmd.Flags().BoolVar(&planSpeak, "speak", false, "Read the plan aloud")
	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	profile, err := domain.ParseProfile(domain.ProfileInput{
		Budget:    planBudget,
		Interests: planInterests,
		Duration:  planDuration,
		Style:     planStyle,
		City:      planCity,
	})
	if err != nil {
		return err
	}

	app, err := openApp(cmd, service.Options{})
	if err != nil {
		return err
	}
	defer app.Close()

	session := app.NewSession()
	session.SetProfile(profile)
	res := session.Plan(cmd.Context())
	if !res.OK() {
		return errors.New(res.FinalText)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.FinalText)
	fmt.Fprintf(cmd.OutOrStdout(), "\nReport saved to %s\n", res.Report.Path)
	if planSpeak {
		session.Speak(cmd.Context(), res.FinalText)
	}
	return nil
}
