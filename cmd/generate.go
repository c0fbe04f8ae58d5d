package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
)

// notifyWait bounds how long a share waits for its webhook before exiting.
const notifyWait = 15 * time.Second

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the quiz headless and print the generated profile",
	Long: `Answer the quiz from flags, run both generation branches and print the
Result as JSON. No terminal UI is involved.

Options are picked by ID, comma-separated, e.g. --pick 1a,1c,2b,3a,4a,5a,6a,7a.
Every step needs at least one pick.`,
	Example: `  rosamenta generate --name "Ana Clara" --pick 1a,2b,3a,4a,5a,6a,7a
  rosamenta generate --name Ana --pick 1a,2b,3a,4a,5a,6a,7a --download
  rosamenta generate --name Ana --pick 1a,2b,3a,4a,5a,6a,7a --share`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("name", "", "Name of the person taking the quiz (required)")
	generateCmd.Flags().StringSlice("pick", nil, "Option IDs to select (required)")
	generateCmd.Flags().Bool("download", false, "Also save the PDF report")
	generateCmd.Flags().Bool("share", false, "Send the report and record the lead")
	_ = generateCmd.MarkFlagRequired("name")
	_ = generateCmd.MarkFlagRequired("pick")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	picks, _ := cmd.Flags().GetStringSlice("pick")
	download, _ := cmd.Flags().GetBool("download")
	share, _ := cmd.Flags().GetBool("share")

	ctx := cmd.Context()
	d, err := openDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	m := d.machine()
	if err := m.Start(name); err != nil {
		return err
	}
	job, err := answer(m, d.questions, picks)
	if err != nil {
		return err
	}

	res, genErr := d.generator(ctx).Generate(ctx, job.Selections)
	m.Complete(job.Seq, res, genErr)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if genErr != nil {
		d.logger.Warn().Err(genErr).Msg("generation failed")
	}

	if !download && !share {
		return nil
	}
	rep := report.Report{UserName: m.UserName(), Result: res, Answers: m.Answers().Labels()}
	exporter := d.exporterFactory()()

	if download {
		out, err := exporter.ExportAndShare(ctx, rep, report.ModeDownload)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "PDF saved to", out.Path)
	}
	if share {
		out, err := exporter.ExportAndShare(ctx, rep, report.ModeShare)
		if err != nil {
			return err
		}
		lead, err := m.RecordLead(ctx, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report sent via %s, lead %s recorded\n", out.Channel, lead.ID)
		if out.Message != "" {
			fmt.Fprintln(os.Stderr, out.Message)
		}

		if d.cfg.Webhook.URL != "" {
			wctx, cancel := context.WithTimeout(ctx, notifyWait)
			delivered := exporter.WaitNotified(wctx)
			cancel()
			if !delivered {
				d.logger.Warn().Msg("webhook notification not confirmed")
			}
		}
	}
	return nil
}

// answer applies picks to the machine step by step and confirms the last
// step, returning the generation job. Repeated picks count once.
func answer(m *flow.Machine, questions []quiz.Question, picks []string) (flow.Job, error) {
	byStep := make([][]string, len(questions))
	seen := make(map[string]bool, len(picks))
	for _, id := range picks {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		step := stepOf(questions, id)
		if step < 0 {
			return flow.Job{}, fmt.Errorf("unknown option %q", id)
		}
		byStep[step] = append(byStep[step], id)
	}

	for step, ids := range byStep {
		for _, id := range ids {
			if err := m.Toggle(id); err != nil {
				return flow.Job{}, err
			}
		}
		job, done, err := m.Next()
		if err != nil {
			return flow.Job{}, fmt.Errorf("question %d: %w", questions[step].ID, err)
		}
		if done {
			return job, nil
		}
	}
	return flow.Job{}, fmt.Errorf("quiz did not complete")
}

func stepOf(questions []quiz.Question, optionID string) int {
	for i, q := range questions {
		if _, ok := q.Option(optionID); ok {
			return i
		}
	}
	return -1
}
