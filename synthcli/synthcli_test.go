package synthcli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/sns"
)

func demoBuild(app *strata.App) error {
	stack, err := strata.NewStack(app, "Monitoring", strata.StackProps{})
	if err != nil {
		return err
	}
	name := "alerts"
	if v, ok := app.Context("topicName"); ok {
		name = v.(string)
	}
	_, err = sns.NewTopic(stack, "Alerts", sns.TopicProps{TopicName: name})
	return err
}

func runCommand(t *testing.T, build BuildFunc, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(build)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, demoBuild, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "strata")
	assert.Contains(t, out, Version)
}

func TestSynthCommand_JSONToStdout(t *testing.T) {
	out, err := runCommand(t, demoBuild, "synth", "--context", "")
	require.NoError(t, err)

	var tmpl strata.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tmpl))
	assert.Equal(t, "AWS::SNS::Topic", tmpl.Resources["Alerts"].Type)
}

func TestSynthCommand_YAMLToDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, demoBuild, "synth", "-f", "yaml", "-o", dir, "--context", "")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "Monitoring.template.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "AWS::SNS::Topic")
}

func TestSynthCommand_ContextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strata.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"topicName":"from-context"}`), 0o644))

	out, err := runCommand(t, demoBuild, "synth", "--context", path)
	require.NoError(t, err)
	assert.Contains(t, out, "from-context")
}

func TestSynthCommand_MissingContextFileIgnored(t *testing.T) {
	out, err := runCommand(t, demoBuild, "synth", "--context", filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "AWS::SNS::Topic")
}

func TestSynthCommand_UnknownFormat(t *testing.T) {
	_, err := runCommand(t, demoBuild, "synth", "-f", "toml", "--context", "")
	assert.Error(t, err)
}

func TestSynthCommand_BuildErrorSurfaces(t *testing.T) {
	failing := func(app *strata.App) error {
		stack, err := strata.NewStack(app, "Broken", strata.StackProps{})
		if err != nil {
			return err
		}
		if _, err := sns.NewTopic(stack, "Same", sns.TopicProps{}); err != nil {
			return err
		}
		_, err = sns.NewTopic(stack, "Same", sns.TopicProps{})
		return err
	}
	_, err := runCommand(t, failing, "synth", "--context", "")
	require.Error(t, err)
	var dup *strata.DuplicateIDError
	assert.ErrorAs(t, err, &dup)
}

func TestGraphCommand(t *testing.T) {
	out, err := runCommand(t, demoBuild, "graph", "--context", "")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "Alerts")
}

func TestDiffCommand_NoChanges(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, demoBuild, "synth", "-o", dir, "--context", "")
	require.NoError(t, err)

	out, err := runCommand(t, demoBuild, "diff", filepath.Join(dir, "Monitoring.template.json"), "--context", "")
	require.NoError(t, err)
	assert.Contains(t, out, "no differences")
}

func TestDiffCommand_DetectsChange(t *testing.T) {
	dir := t.TempDir()
	_, err := runCommand(t, demoBuild, "synth", "-o", dir, "--context", "")
	require.NoError(t, err)

	changed := func(app *strata.App) error {
		stack, err := strata.NewStack(app, "Monitoring", strata.StackProps{})
		if err != nil {
			return err
		}
		_, err = sns.NewTopic(stack, "Alerts", sns.TopicProps{TopicName: "renamed"})
		return err
	}
	out, err := runCommand(t, changed, "diff", filepath.Join(dir, "Monitoring.template.json"), "--context", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Alerts")
	assert.Contains(t, out, "~")
}
