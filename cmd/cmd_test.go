package cmd

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
)

func TestAnswer_AllSteps(t *testing.T) {
	questions := quiz.DefaultCatalog()
	m := flow.New(questions, nil, zerolog.Nop())
	require.NoError(t, m.Start("Ana"))

	var picks []string
	for _, q := range questions {
		picks = append(picks, q.Options[0].ID)
	}
	picks = append(picks, " "+questions[0].Options[1].ID)

	job, err := answer(m, questions, picks)
	require.NoError(t, err)
	assert.Equal(t, flow.StateLoading, m.State())
	require.Len(t, job.Selections, len(questions))
	assert.Len(t, job.Selections[0], 2)
}

func TestAnswer_MissingStep(t *testing.T) {
	questions := quiz.DefaultCatalog()
	m := flow.New(questions, nil, zerolog.Nop())
	require.NoError(t, m.Start("Ana"))

	_, err := answer(m, questions, []string{questions[0].Options[0].ID})
	assert.ErrorIs(t, err, quiz.ErrSelectionRequired)
}

func TestAnswer_RepeatedPickCountsOnce(t *testing.T) {
	questions := quiz.DefaultCatalog()
	m := flow.New(questions, nil, zerolog.Nop())
	require.NoError(t, m.Start("Ana"))

	var picks []string
	for _, q := range questions {
		picks = append(picks, q.Options[0].ID)
	}
	picks = append(picks, questions[0].Options[0].ID, " "+questions[0].Options[0].ID)

	job, err := answer(m, questions, picks)
	require.NoError(t, err)
	require.Len(t, job.Selections[0], 1)
	assert.Equal(t, questions[0].Options[0].ID, job.Selections[0][0].ID)
}

func TestAnswer_UnknownOption(t *testing.T) {
	questions := quiz.DefaultCatalog()
	m := flow.New(questions, nil, zerolog.Nop())
	require.NoError(t, m.Start("Ana"))

	_, err := answer(m, questions, []string{"9z"})
	assert.ErrorContains(t, err, `unknown option "9z"`)
}

func TestTally(t *testing.T) {
	all := []leads.Lead{
		{Answers: []string{"Preto Fosco", "Neutros"}, Result: generation.Result{ProfileName: "Loft"}},
		{Answers: []string{"Neutros"}, Result: generation.Result{ProfileName: "Refúgio"}},
		{Answers: []string{"Neutros"}, Result: generation.Result{ProfileName: "Loft"}},
	}
	profiles, answers := tally(all)
	assert.Equal(t, []count{{"Loft", 2}, {"Refúgio", 1}}, profiles)
	assert.Equal(t, []count{{"Neutros", 3}, {"Preto Fosco", 1}}, answers)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "Refú", truncate("Refúgio", 4))
	assert.Equal(t, "Ana", truncate("Ana", 4))
}
