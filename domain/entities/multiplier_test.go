package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMultiplier(t *testing.T) {
	tests := []struct {
		input   string
		want    Multiplier
		wantErr bool
	}{
		{input: "1", want: 10000},
		{input: "1.5", want: 15000},
		{input: "1.05", want: 10500},
		{input: "2.1234", want: 21234},
		{input: ".5", want: 5000},
		{input: " 3 ", want: 30000},
		{input: "1.23456", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "1.", wantErr: true},
		{input: "5000", wantErr: true},
		{input: "1000", want: MaxMultiplier},
		{input: "1000.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMultiplier(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultiplier_Apply(t *testing.T) {
	// 5 x 1.5 = 7.5 floors to 7
	assert.Equal(t, int64(7), Multiplier(15000).Apply(5))
	assert.Equal(t, int64(10), DefaultMultiplier.Apply(10))
	assert.Equal(t, int64(0), Multiplier(15000).Apply(0))
	assert.Equal(t, int64(-8), Multiplier(15000).Apply(-5))
	assert.Equal(t, int64(115), Multiplier(11500).Apply(100))
}

func TestMultiplier_ApplyChecked(t *testing.T) {
	got, ok := Multiplier(15000).ApplyChecked(5)
	assert.True(t, ok)
	assert.Equal(t, int64(7), got)

	got, ok = MaxMultiplier.ApplyChecked(MaxBasePoints)
	assert.True(t, ok)
	assert.Equal(t, MaxBasePoints*1000, got)

	// 1e15 x 1.5 wraps negative with plain Apply
	_, ok = Multiplier(15000).ApplyChecked(1_000_000_000_000_000)
	assert.False(t, ok)

	_, ok = DefaultMultiplier.ApplyChecked(-1)
	assert.False(t, ok)
}

func TestMultiplier_Format(t *testing.T) {
	assert.Equal(t, "1", DefaultMultiplier.String())
	assert.Equal(t, "1.5", Multiplier(15000).String())
	assert.Equal(t, "1.05", Multiplier(10500).String())
	assert.Equal(t, 1.5, Multiplier(15000).Float64())
	assert.Equal(t, Multiplier(15000), MultiplierFromBonusPercent(50))
	assert.Equal(t, Multiplier(11000), MultiplierFromBonusPercent(10))

	data, err := json.Marshal(struct {
		M Multiplier `json:"m"`
	}{M: 12000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"m":1.2}`, string(data))

	var decoded struct {
		M Multiplier `json:"m"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"m":"1.25"}`), &decoded))
	assert.Equal(t, Multiplier(12500), decoded.M)
}
