package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
)

const leadTimeLayout = "2006-01-02 15:04"

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect recorded leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded leads, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		all := d.ledger.All()
		if len(all) == 0 {
			fmt.Println("No leads recorded yet.")
			return nil
		}
		if limit > 0 && len(all) > limit {
			all = all[:limit]
		}

		fmt.Printf("%-36s  %-16s  %-20s  %s\n", "ID", "Date", "Name", "Profile")
		fmt.Println(strings.Repeat("─", 100))
		for _, l := range all {
			fmt.Printf("%-36s  %-16s  %-20s  %s\n",
				l.ID,
				l.Timestamp.Local().Format(leadTimeLayout),
				truncate(l.UserName, 20),
				l.Result.ProfileName,
			)
		}
		return nil
	},
}

var leadsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one lead in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		l, ok := d.ledger.Get(args[0])
		if !ok {
			return fmt.Errorf("lead %s not found", args[0])
		}

		sep := strings.Repeat("─", 60)
		fmt.Printf("ID:        %s\n", l.ID)
		fmt.Printf("Date:      %s\n", l.Timestamp.Local().Format(leadTimeLayout))
		fmt.Printf("Name:      %s\n", l.UserName)
		fmt.Printf("Profile:   %s\n", l.Result.ProfileName)
		fmt.Printf("Image:     %s\n", l.Result.ImageURL)
		fmt.Println()
		fmt.Println(sep)
		fmt.Println("ANSWERS")
		fmt.Println(sep)
		for i, a := range l.Answers {
			fmt.Printf("%d. %s\n", i+1, a)
		}
		fmt.Println(sep)
		fmt.Println("ANALYSIS")
		fmt.Println(sep)
		fmt.Println(strings.Join(report.Paragraphs(l.Result.AnalysisText), "\n\n"))
		return nil
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Re-export a lead's PDF report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		l, ok := d.ledger.Get(args[0])
		if !ok {
			return fmt.Errorf("lead %s not found", args[0])
		}

		rep := report.Report{UserName: l.UserName, Result: l.Result, Answers: l.Answers}
		out, err := d.exporterFactory()().ExportAndShare(cmd.Context(), rep, report.ModeDownload)
		if err != nil {
			return err
		}
		fmt.Println(out.Path)
		return nil
	},
}

func init() {
	leadsListCmd.Flags().IntP("limit", "n", 0, "Number of leads to show (0 = all)")

	leadsCmd.AddCommand(leadsListCmd)
	leadsCmd.AddCommand(leadsShowCmd)
	leadsCmd.AddCommand(leadsExportCmd)
}
