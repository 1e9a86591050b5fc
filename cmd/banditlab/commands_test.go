package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores flag defaults between executions of the shared rootCmd.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(strings.Split(strings.Trim(f.DefValue, "[]"), ","))
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd.PersistentFlags())
	resetFlags(simulateCmd.Flags())
	resetFlags(historyCmd.Flags())
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSimulateCommand(t *testing.T) {
	out, err := execute(t, "simulate", "--policy", "epsilon-greedy", "--epsilon", "0.2",
		"--arms", "0.1,0.9", "--horizon", "500", "--seed", "3")
	require.NoError(t, err)
	require.Contains(t, out, "epsilon_greedy(epsilon=0.2) | horizon 500")
	require.Contains(t, out, "exploited")
}

func TestSimulateCommand_Reproducible(t *testing.T) {
	args := []string{"simulate", "--policy", "ucb1", "--arms", "0.3,0.6", "--horizon", "400", "--seed", "9"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSimulateCommand_Errors(t *testing.T) {
	_, err := execute(t, "simulate", "--policy", "thompson")
	require.Error(t, err)

	_, err = execute(t, "simulate", "--policy", "softmax", "--temperature", "0", "--arms", "0.5")
	require.Error(t, err)

	_, err = execute(t, "simulate", "--policy", "ucb1", "--arms", "1.5")
	require.Error(t, err)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestConfigErrorsAreReturned(t *testing.T) {
	bad := writeConfig(t, "workers: -1\n")
	for _, name := range []string{"run", "schedule", "history"} {
		t.Run(name, func(t *testing.T) {
			args := []string{name, "--config", bad}
			if name == "history" {
				args = append(args, "--experiment", "eps")
			}
			_, err := execute(t, args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), "config validation")
		})
	}

	_, err := execute(t, "run", "--config", writeConfig(t, "experiments: [unclosed"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "load config")
}

func TestScheduleRequiresCron(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "")
	_, err := execute(t, "schedule", "--config", writeConfig(t, "seed: 3\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "schedule.cron")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `
seed: 4
workers: 2
database:
  sqlite_path: "`+filepath.Join(dir, "runs.db")+`"
output:
  chart_path: "`+filepath.Join(dir, "report.html")+`"
  json_path: "`+filepath.Join(dir, "summary.json")+`"
arms: [0.2, 0.8]
experiments:
  - name: eps
    policy: epsilon_greedy
    epsilon: 0.1
    horizon: 200
    runs: 2
`)
	out, err := execute(t, "run", "--config", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "eps: epsilon_greedy(epsilon=0.1) | 2 runs x 200 rounds")

	out, err = execute(t, "history", "--config", cfg, "--experiment", "eps")
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(out, "\n"))
}
