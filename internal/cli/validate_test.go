package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/internal/testutils"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validPerson   = `{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`
	invalidPerson = `{"$class":"ns.Person","firstName":"Ada"}`
)

func shopValidator(t *testing.T) *concerto.Validator {
	t.Helper()
	v, err := concerto.New(testutils.Shop(t))
	require.NoError(t, err)
	return v
}

func TestRunValidate_NoInputs(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := RunValidate(context.Background(), shopValidator(t), nil, ValidateOptions{}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "No input files specified")
	assert.Empty(t, stdout.String())
}

func TestRunValidate_Text(t *testing.T) {
	dir := t.TempDir()
	good := testutils.WriteFile(t, dir, "good.json", validPerson)
	bad := testutils.WriteFile(t, dir, "bad.json", invalidPerson)
	var stdout, stderr bytes.Buffer

	code := RunValidate(context.Background(), shopValidator(t), []string{good}, ValidateOptions{}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "✅ "+good+": ")
	assert.Contains(t, stdout.String(), "=== Validation Report ===")
	assert.Contains(t, stdout.String(), "All validations passed!")

	stdout.Reset()
	code = RunValidate(context.Background(), shopValidator(t), []string{good, bad}, ValidateOptions{}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "❌ "+bad+": ")
	assert.Contains(t, stdout.String(), "Failed validations: 1")
	assert.Contains(t, stdout.String(), "1 validation(s) failed")
}

func TestRunValidate_FailEarly(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		testutils.WriteFile(t, dir, "1.json", invalidPerson),
		testutils.WriteFile(t, dir, "2.json", validPerson),
	}
	var stdout, stderr bytes.Buffer

	code := RunValidate(context.Background(), shopValidator(t), paths, ValidateOptions{FailEarly: true}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "Stopping validation due to --fail-early flag.")
	assert.NotContains(t, stdout.String(), "✅ "+paths[1])
	assert.Contains(t, stdout.String(), "Skipped: 1")
}

func TestRunValidate_JSON(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		testutils.WriteFile(t, dir, "good.json", validPerson),
		testutils.WriteFile(t, dir, "bad.json", `{"$class":"ns.Nope"}`),
	}
	var stdout, stderr bytes.Buffer

	code := RunValidate(context.Background(), shopValidator(t), paths, ValidateOptions{Format: "json"}, &stdout, &stderr)
	assert.Equal(t, 1, code)

	var rep struct {
		Total   int `json:"total"`
		Failed  int `json:"failed"`
		Results []struct {
			Source string `json:"source"`
			Status string `json:"status"`
			Kind   string `json:"kind"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rep))
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, "valid", rep.Results[0].Status)
	assert.Equal(t, "unknown_class", rep.Results[1].Kind)
}

func TestReporter_PlainProfile(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, termenv.WithProfile(termenv.Ascii))

	r.Result(concerto.Result{Source: "a.json", Status: concerto.StatusValid})
	r.Result(concerto.Result{Source: "b.json", Status: concerto.StatusInvalid, Error: "boom"})
	r.Summary(&concerto.Report{
		Total: 2, Successful: 1, Failed: 1,
		Results: []concerto.Result{{Source: "b.json", Status: concerto.StatusInvalid, Error: "boom"}},
	})

	assert.Equal(t, "✅ a.json: Valid\n"+
		"❌ b.json: boom\n"+
		"\n=== Validation Report ===\n"+
		"Total files processed: 2\n"+
		"Successful validations: 1\n"+
		"Failed validations: 1\n"+
		"\nErrors:\n"+
		"  b.json: boom\n"+
		"\n❌ 1 validation(s) failed\n", buf.String())
}
