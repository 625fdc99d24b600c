package docs

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// listed matches the "* name: description" lines of the index.
var listed = regexp.MustCompile(`(?m)^\*\s+([a-z]+):`)

func TestIndexListsEveryTopic(t *testing.T) {
	index, err := GetTopic("readme")
	require.NoError(t, err)

	var names []string
	for _, m := range listed.FindAllStringSubmatch(index, -1) {
		names = append(names, m[1])
	}
	slices.Sort(names)

	topics, err := GetAllTopics()
	require.NoError(t, err)
	assert.Equal(t, topics, names, "readme.md must list every topic")
}

func TestGetAllTopics(t *testing.T) {
	topics, err := GetAllTopics()
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "methodology", "providers", "tutorial"}, topics)

	all, err := GetTopic("*")
	require.NoError(t, err)
	assert.Contains(t, all, "# Methodology")
	assert.NotContains(t, all, "# ers documentation", "the index is not part of '*'")

	_, err = GetTopics("readme", "nope")
	assert.Error(t, err)
}

// step is a shell snippet of a topic: "bash setup" starts a scenario in a
// fresh folder, "bash run" executes a command, "bash check" asserts on files.
type step struct {
	kind string
	line int
	code string
}

func steps(t *testing.T, file string) []step {
	t.Helper()
	src, err := os.ReadFile(file)
	require.NoError(t, err)

	var found []step
	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(src))
		if kind != "bash setup" && kind != "bash run" && kind != "bash check" {
			return ast.WalkContinue, nil
		}
		var code bytes.Buffer
		for i := 0; i < fcb.Lines().Len(); i++ {
			code.Write(fcb.Lines().At(i).Value(src))
		}
		line := bytes.Count(src[:fcb.Info.Segment.Start], []byte("\n")) + 1
		found = append(found, step{kind: kind, line: line, code: code.String()})
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return found
}

func TestTutorialSteps(t *testing.T) {
	files, err := filepath.Glob("*.md")
	require.NoError(t, err)

	bin := t.TempDir()
	env := append(os.Environ(),
		"PATH="+bin+string(os.PathListSeparator)+os.Getenv("PATH"),
		"ERS_TESTING_NOW=2006-01-02 15:04:05",
	)
	built := false

	for _, file := range files {
		scenario := steps(t, file)
		if len(scenario) == 0 {
			continue
		}
		if !built {
			out, err := exec.Command("go", "build", "-o", filepath.Join(bin, "ers"), "../ers/").CombinedOutput()
			require.NoError(t, err, "building ers:\n%s", out)
			built = true
		}

		t.Run(file, func(t *testing.T) {
			dir := t.TempDir()
			for _, s := range scenario {
				if s.kind == "bash setup" {
					dir = t.TempDir()
				}
				cmd := exec.Command("bash", "-c", "set -e; "+s.code)
				cmd.Dir, cmd.Env = dir, env
				out, err := cmd.CombinedOutput()
				if s.kind == "bash check" {
					assert.NoError(t, err, "%s:%d:\n%s", file, s.line, out)
					continue
				}
				require.NoError(t, err, "%s:%d:\n%s", file, s.line, out)
			}
		})
	}
}
