package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lead statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

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

		profiles, answers := tally(all)

		fmt.Printf("Leads: %d\n", len(all))
		fmt.Printf("Latest: %s\n\n", all[0].Timestamp.Local().Format(leadTimeLayout))

		printCounts("Profiles", profiles, top)
		fmt.Println()
		printCounts("Most chosen answers", answers, top)
		return nil
	},
}

type count struct {
	label string
	n     int
}

// tally counts leads per profile name and per chosen answer, most frequent
// first, ties broken alphabetically.
func tally(all []leads.Lead) (profiles, answers []count) {
	p := map[string]int{}
	a := map[string]int{}
	for _, l := range all {
		p[l.Result.ProfileName]++
		for _, ans := range l.Answers {
			a[ans]++
		}
	}
	return sorted(p), sorted(a)
}

func sorted(m map[string]int) []count {
	out := make([]count, 0, len(m))
	for k, v := range m {
		out = append(out, count{label: k, n: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].label < out[j].label
	})
	return out
}

func printCounts(title string, counts []count, top int) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("─", 60))
	for i, c := range counts {
		if top > 0 && i >= top {
			break
		}
		fmt.Printf("%-50s  %6d\n", truncate(c.label, 50), c.n)
	}
}

func init() {
	statsCmd.Flags().Int("top", 10, "Rows per table (0 = all)")
}
