package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/dashboard"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/loading"
	quizscreen "github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/result"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screens/start"
)

func newTestModel() (AppModel, *screen.Env) {
	env := &screen.Env{
		Ctx:     context.Background(),
		Machine: flow.New(quiz.DefaultCatalog(), nil, zerolog.Nop()),
		Logger:  zerolog.Nop(),
	}
	return newAppModel(env), env
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am
}

func TestStartsOnStartScreen(t *testing.T) {
	m, _ := newTestModel()
	assert.IsType(t, &start.StartScreen{}, m.router.Active())
}

func TestFollowsMachineState(t *testing.T) {
	m, env := newTestModel()

	require.NoError(t, env.Machine.Start("Ana"))
	m = update(t, m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.IsType(t, &quizscreen.QuizScreen{}, m.router.Active())

	var job flow.Job
	for {
		q := env.Machine.Answers().Question()
		require.NoError(t, env.Machine.Toggle(q.Options[0].ID))
		j, done, err := env.Machine.Next()
		require.NoError(t, err)
		if done {
			job = j
			break
		}
	}
	m = update(t, m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.IsType(t, &loading.LoadingScreen{}, m.router.Active())

	res := generation.Result{ProfileName: "Refúgio Sereno"}
	m = update(t, m, screen.GenerationDoneMsg{Seq: job.Seq - 1, Result: res})
	assert.IsType(t, &loading.LoadingScreen{}, m.router.Active(), "stale completion must not switch screens")

	m = update(t, m, screen.GenerationDoneMsg{Seq: job.Seq, Result: res})
	assert.IsType(t, &result.ResultScreen{}, m.router.Active())
	assert.Equal(t, "Refúgio Sereno", m.router.Active().Title())
	assert.Equal(t, 1, m.router.Depth())
}

func TestCtrlDTogglesDashboard(t *testing.T) {
	m, env := newTestModel()
	ctrlD := tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}

	m = update(t, m, ctrlD)
	assert.Equal(t, flow.StateDashboard, env.Machine.State())
	assert.IsType(t, &dashboard.DashboardScreen{}, m.router.Active())

	m = update(t, m, ctrlD)
	assert.Equal(t, flow.StateStart, env.Machine.State())
	assert.IsType(t, &start.StartScreen{}, m.router.Active())
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
