package checker

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultValidWhenNoFailures(t *testing.T) {
	r := &Result{}
	assert.True(t, r.Valid())
	assert.Equal(t, 0, r.NumFailures())

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Equal(t, "s VERIFIED\n", buf.String())
}

func TestResultWriteTextListsFailuresInOrder(t *testing.T) {
	r := &Result{}
	r.add(IncorrectLiterals, 0)
	r.add(IncorrectAnnotation, 2)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Equal(t, "c   1. incorrect existential literals in expansion clause 1\n"+
		"c   2. incorrect universal annotation in expansion clause 3\n"+
		"s NOT VERIFIED\n", buf.String())
}

func TestResultFailuresRoundTripThroughJSON(t *testing.T) {
	want := &Result{Failures: []Failure{
		{Kind: IncorrectLiterals, ClauseIndex: 0},
		{Kind: IncorrectAnnotation, ClauseIndex: 4},
	}}
	b, err := want.MarshalJSON()
	require.NoError(t, err)

	type decodedFailure struct {
		Kind        string `json:"kind"`
		ClauseIndex int    `json:"clause_index"`
	}
	type decodedResult struct {
		Verdict  string           `json:"verdict"`
		Failures []decodedFailure `json:"failures"`
	}
	var got decodedResult
	require.NoError(t, json.Unmarshal(b, &got))

	wantDecoded := decodedResult{
		Verdict: "NOT_VERIFIED",
		Failures: []decodedFailure{
			{Kind: "INCORRECT_LITERALS", ClauseIndex: 0},
			{Kind: "INCORRECT_ANNOTATION", ClauseIndex: 4},
		},
	}
	if diff := cmp.Diff(wantDecoded, got); diff != "" {
		t.Errorf("decoded JSON mismatch (-want +got):\n%s", diff)
	}
}
