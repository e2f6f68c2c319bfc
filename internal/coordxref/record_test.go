package coordxref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExonList(t *testing.T) {
	tests := []struct {
		in   string
		want []int64
	}{
		{"100,300,500", []int64{100, 300, 500}},
		{"100,300,500,", []int64{100, 300, 500}},
		{"100", []int64{100}},
		{"", nil},
		{",", nil},
	}
	for _, tt := range tests {
		got, err := ParseExonList(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseExonList_Invalid(t *testing.T) {
	_, err := ParseExonList("100,abc,300")
	assert.Error(t, err)
}

func TestFormatExonList_RoundTrip(t *testing.T) {
	coords := []int64{100, 300, 500}
	parsed, err := ParseExonList(FormatExonList(coords))
	require.NoError(t, err)
	assert.Equal(t, coords, parsed)
}

func TestValidate(t *testing.T) {
	valid := &CoordXref{
		Accession:  "NM_000001",
		ExonStarts: []int64{100, 300},
		ExonEnds:   []int64{200, 400},
	}
	assert.NoError(t, valid.Validate())

	mismatch := &CoordXref{
		Accession:  "NM_000002",
		ExonStarts: []int64{100, 300},
		ExonEnds:   []int64{200},
	}
	err := mismatch.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NM_000002")
	assert.Contains(t, err.Error(), "exon list mismatch")

	empty := &CoordXref{Accession: "NM_000003"}
	assert.Error(t, empty.Validate())

	inverted := &CoordXref{
		Accession:  "NM_000004",
		ExonStarts: []int64{200},
		ExonEnds:   []int64{100},
	}
	assert.Error(t, inverted.Validate())
}

func TestHasCDS(t *testing.T) {
	assert.True(t, (&CoordXref{CDSStart: 150, CDSEnd: 350}).HasCDS())
	assert.True(t, (&CoordXref{CDSStart: 150, CDSEnd: 150}).HasCDS())
	assert.False(t, (&CoordXref{}).HasCDS())
	assert.False(t, (&CoordXref{CDSStart: 350, CDSEnd: 150}).HasCDS())
}
