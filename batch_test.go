package concerto_test

import (
	"context"
	"testing"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validPerson   = `{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`
	invalidPerson = `{"$class":"ns.Person","firstName":"Ada"}`
)

func TestValidateFiles(t *testing.T) {
	v := newShop(t)
	dir := t.TempDir()
	paths := []string{
		testutils.WriteFile(t, dir, "a.json", validPerson),
		testutils.WriteFile(t, dir, "b.json", invalidPerson),
		testutils.WriteFile(t, dir, "c.yaml", "$class: ns.Person\nfirstName: Ada\nlastName: Lovelace\n"),
		testutils.WriteFile(t, dir, "d.json", `{"$class":`),
		dir + "/missing.json",
	}

	rep := v.ValidateFiles(context.Background(), paths, concerto.BatchOptions{Concurrency: 2})

	require.Len(t, rep.Results, len(paths))
	for i, r := range rep.Results {
		assert.Equal(t, paths[i], r.Source, "results keep input order")
	}
	assert.Equal(t, concerto.StatusValid, rep.Results[0].Status)
	assert.Equal(t, concerto.StatusInvalid, rep.Results[1].Status)
	assert.Equal(t, "missing_required_property", rep.Results[1].Kind)
	assert.Equal(t, concerto.StatusValid, rep.Results[2].Status)
	assert.Equal(t, "input_malformed", rep.Results[3].Kind)
	assert.Equal(t, concerto.StatusInvalid, rep.Results[4].Status)
	assert.Empty(t, rep.Results[4].Kind, "read failures carry no validation kind")

	assert.Equal(t, 5, rep.Total)
	assert.Equal(t, 2, rep.Successful)
	assert.Equal(t, 3, rep.Failed)
	assert.False(t, rep.OK())
}

func TestValidateFiles_FailEarly(t *testing.T) {
	v := newShop(t)
	dir := t.TempDir()
	paths := []string{
		testutils.WriteFile(t, dir, "1.json", validPerson),
		testutils.WriteFile(t, dir, "2.json", invalidPerson),
		testutils.WriteFile(t, dir, "3.json", validPerson),
		testutils.WriteFile(t, dir, "4.json", invalidPerson),
	}

	rep := v.ValidateFiles(context.Background(), paths, concerto.BatchOptions{FailEarly: true})

	assert.Equal(t, []concerto.Status{
		concerto.StatusValid, concerto.StatusInvalid, concerto.StatusSkipped, concerto.StatusSkipped,
	}, statuses(rep))
	assert.Equal(t, 1, rep.Successful)
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 2, rep.Skipped)
}

func TestValidateFiles_Cancelled(t *testing.T) {
	v := newShop(t)
	dir := t.TempDir()
	path := testutils.WriteFile(t, dir, "a.json", validPerson)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := v.ValidateFiles(ctx, []string{path, path}, concerto.BatchOptions{FailEarly: true})
	assert.Equal(t, 2, rep.Skipped)
	assert.ErrorIs(t, rep.Results[0].Err, context.Canceled)
}

func TestValidateFiles_AllValid(t *testing.T) {
	v := newShop(t)
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json", "e.json", "f.json"} {
		paths = append(paths, testutils.WriteFile(t, dir, name, validPerson))
	}

	rep := v.ValidateFiles(context.Background(), paths, concerto.BatchOptions{})
	assert.True(t, rep.OK())
	assert.Equal(t, 6, rep.Successful)
}

func statuses(rep *concerto.Report) []concerto.Status {
	out := make([]concerto.Status, 0, len(rep.Results))
	for _, r := range rep.Results {
		out = append(out, r.Status)
	}
	return out
}
