package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoize(t *testing.T) {
	calls := map[Worksheet]int{}
	boom := errors.New("quota exceeded")
	source := Memoize(&MockSource{
		ValuesFunc: func(ctx context.Context, ws Worksheet) ([][]string, error) {
			calls[ws]++
			if ws == WorksheetResults {
				return nil, boom
			}
			return generalValues, nil
		},
	})
	svc := NewService(source)
	ctx := context.Background()

	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	_, err = svc.Allocation(ctx)
	require.NoError(t, err)
	_, err = svc.Goal(ctx)
	require.NoError(t, err)

	_, err = svc.Results(ctx, "Ação")
	assert.ErrorIs(t, err, boom)
	_, err = svc.Results(ctx, "FII")
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 1, calls[WorksheetGeneral])
	assert.Equal(t, 1, calls[WorksheetResults])
}
