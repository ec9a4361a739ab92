package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobmatch/internal/types"
)

func TestEncodeList(t *testing.T) {
	data, err := encodeList[string](nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = encodeList([]types.Project{{Name: "x", Technologies: []string{"Go"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"x","technologies":["Go"]}]`, string(data))
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty input", input: "", want: []string{}},
		{name: "json null", input: "null", want: []string{}},
		{name: "empty array", input: "[]", want: []string{}},
		{name: "values", input: `["a","b"]`, want: []string{"a", "b"}},
		{name: "not an array", input: `{"a":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList[string]([]byte(tt.input), "skills")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "skills")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyProfileState(t *testing.T) {
	s := emptyProfileState()
	assert.NotNil(t, s.Skills)
	assert.NotNil(t, s.Education)
	assert.NotNil(t, s.Projects)
	assert.Empty(t, s.ResumeParsingMethod)
}
