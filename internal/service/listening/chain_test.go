package listening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maithilyrajpure/trend-decline-gen/internal/domain/trend"
)

func fixed(s trend.LifecycleSeries, err error) trend.LifecycleProvider {
	return trend.ProviderFunc(func(context.Context, trend.Query) (trend.LifecycleSeries, error) {
		return s, err
	})
}

func TestProviderChainFetch(t *testing.T) {
	found := trend.NewLifecycleSeries([]string{"Day 1"}, []int{10}, []int{1})

	tests := []struct {
		name      string
		providers []trend.LifecycleProvider
		want      trend.LifecycleSeries
		wantErr   error
	}{
		{
			name:    "empty chain",
			wantErr: trend.ErrNoData,
		},
		{
			name:      "first with data wins",
			providers: []trend.LifecycleProvider{fixed(trend.LifecycleSeries{}, trend.ErrNoData), fixed(found, nil)},
			want:      found,
		},
		{
			name:      "failures are skipped",
			providers: []trend.LifecycleProvider{fixed(trend.LifecycleSeries{}, errors.New("boom")), fixed(found, nil)},
			want:      found,
		},
		{
			name:      "failures degrade to no data",
			providers: []trend.LifecycleProvider{fixed(trend.LifecycleSeries{}, errors.New("boom"))},
			wantErr:   trend.ErrNoData,
		},
		{
			name:      "empty series is no data",
			providers: []trend.LifecycleProvider{fixed(trend.LifecycleSeries{}, nil)},
			wantErr:   trend.ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewProviderChain(nil)
			for i, p := range tt.providers {
				require.NoError(t, c.AddProvider(trend.DayLabel(i), p))
			}

			got, err := c.Fetch(context.Background(), trend.Query{Keyword: "x", Platform: "y"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderChainRegistry(t *testing.T) {
	c := NewProviderChain(nil)
	p := fixed(trend.LifecycleSeries{}, trend.ErrNoData)

	require.NoError(t, c.AddProvider("dataset", p))
	require.NoError(t, c.AddProvider("postgres", p))
	assert.Error(t, c.AddProvider("dataset", p))
	assert.Error(t, c.AddProvider("nil", nil))
	assert.Equal(t, []string{"dataset", "postgres"}, c.Names())

	require.NoError(t, c.RemoveProvider("dataset"))
	assert.Equal(t, []string{"postgres"}, c.Names())
	assert.Error(t, c.RemoveProvider("dataset"))
}
