package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliRunner manages CLI binary execution against one save location
type cliRunner struct {
	binaryPath string
	baseArgs   []string
}

func buildBinary(t *testing.T) string {
	t.Helper()

	projectRoot := findProjectRoot(t)
	binaryPath := filepath.Join(t.TempDir(), "gemtrader-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gemtrader")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))
	return binaryPath
}

func newCLIRunner(t *testing.T, binaryPath string, storageArgs ...string) *cliRunner {
	t.Helper()
	return &cliRunner{
		binaryPath: binaryPath,
		baseArgs:   append(storageArgs, "--output", "json"),
	}
}

// run returns stdout only; diagnostics go to stderr
func (r *cliRunner) run(args ...string) (string, string, error) {
	cmd := exec.Command(r.binaryPath, append(append([]string{}, r.baseArgs...), args...)...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// Response types for JSON parsing
type cardResponse struct {
	Index         int    `json:"index"`
	VictoryPoints int    `json:"victory_points"`
	Cost          string `json:"cost"`
	Bonus         string `json:"bonus"`
}

type playerResponse struct {
	Name     string         `json:"name"`
	VP       int            `json:"vp"`
	Chips    map[string]int `json:"chips"`
	Reserved []cardResponse `json:"reserved"`
}

type gameResponse struct {
	ID            string           `json:"id"`
	CurrentPlayer string           `json:"current_player"`
	Phase         string           `json:"phase"`
	Bank          map[string]int   `json:"bank"`
	Offer         []cardResponse   `json:"offer"`
	Players       []playerResponse `json:"players"`
	GameOver      bool             `json:"game_over"`
}

type moveResponse struct {
	Move       string         `json:"move"`
	Player     string         `json:"player"`
	Gained     map[string]int `json:"gained"`
	TurnEnded  bool           `json:"turn_ended"`
	NextPlayer string         `json:"next_player"`
}

func parseGame(t *testing.T, output string) gameResponse {
	t.Helper()
	var g gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &g), "output: %s", output)
	return g
}

func parseMoves(t *testing.T, output string) []moveResponse {
	t.Helper()
	var moves []moveResponse
	dec := json.NewDecoder(strings.NewReader(output))
	for dec.More() {
		var m moveResponse
		require.NoError(t, dec.Decode(&m), "output: %s", output)
		moves = append(moves, m)
	}
	return moves
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	binaryPath := buildBinary(t)

	backends := map[string]func(dir string) []string{
		"file": func(dir string) []string {
			return []string{"--storage", "file", "--save-path", filepath.Join(dir, "savegame.json")}
		},
		"sqlite": func(dir string) []string {
			return []string{"--storage", "sqlite", "--sqlite-path", filepath.Join(dir, "gemtrader.db")}
		},
	}

	for name, args := range backends {
		t.Run(name, func(t *testing.T) {
			cli := newCLIRunner(t, binaryPath, args(t.TempDir())...)

			t.Run("show before any game", func(t *testing.T) {
				_, stderr, err := cli.run("show")
				require.Error(t, err)
				assert.Contains(t, stderr, "no saved game")
			})

			var started gameResponse
			t.Run("new game", func(t *testing.T) {
				out, _, err := cli.run("new", "--players", "Ann,Ben,Cat")
				require.NoError(t, err)

				started = parseGame(t, out)
				assert.Len(t, started.Players, 3)
				assert.Equal(t, "Ann", started.CurrentPlayer)
				assert.Len(t, started.Offer, 15)
				assert.Equal(t, 4, started.Bank["W"])
			})

			t.Run("three different colors end the turn", func(t *testing.T) {
				out, _, err := cli.run("draw", "R", "G", "B")
				require.NoError(t, err)

				moves := parseMoves(t, out)
				require.Len(t, moves, 3)
				assert.True(t, moves[2].TurnEnded)
				assert.Equal(t, "Ben", moves[2].NextPlayer)
			})

			t.Run("reserve grants gold", func(t *testing.T) {
				out, _, err := cli.run("reserve", "0")
				require.NoError(t, err)

				moves := parseMoves(t, out)
				require.Len(t, moves, 1)
				assert.Equal(t, map[string]int{"Y": 1}, moves[0].Gained)
				assert.Equal(t, "Cat", moves[0].NextPlayer)
			})

			t.Run("illegal draw is rejected", func(t *testing.T) {
				_, stderr, err := cli.run("draw", "K", "W", "K")
				require.Error(t, err)
				assert.Contains(t, stderr, "draw K")
			})

			t.Run("state survives between invocations", func(t *testing.T) {
				out, _, err := cli.run("show")
				require.NoError(t, err)

				g := parseGame(t, out)
				assert.Equal(t, started.ID, g.ID)
				assert.Equal(t, "Cat", g.CurrentPlayer)
				assert.Equal(t, "drawing", g.Phase)
				assert.Len(t, g.Offer, 14)
				assert.Equal(t, 1, g.Players[0].Chips["R"])
				assert.Len(t, g.Players[1].Reserved, 1)
				assert.Equal(t, 1, g.Players[2].Chips["K"])
				assert.Equal(t, 1, g.Players[2].Chips["W"])
				assert.Equal(t, 4, g.Bank["Y"])
			})
		})
	}
}
