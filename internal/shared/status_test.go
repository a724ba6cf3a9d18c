package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses() {
		require.True(t, ValidStatus(string(s)), "expected %q to be valid", s)
	}

	require.False(t, ValidStatus(""))
	require.False(t, ValidStatus("archived"))
	require.False(t, ValidStatus("New"))
	require.False(t, ValidStatus("in_review"))
}

func TestCoerceStatus(t *testing.T) {
	require.Equal(t, StatusNew, CoerceStatus(""))
	require.Equal(t, StatusPending, CoerceStatus("pending"))
	require.Equal(t, StatusInReview, CoerceStatus("in review"))
}

func TestStatusesIsACopy(t *testing.T) {
	list := Statuses()
	list[0] = Status("mutated")
	require.Equal(t, StatusNew, Statuses()[0])
}
