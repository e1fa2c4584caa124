package inward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompany(t *testing.T) {
	require.True(t, Company("CFPL").Valid())
	require.True(t, Company("CDPL").Valid())
	require.False(t, Company("cfpl").Valid())
	require.False(t, Company("").Valid())

	require.Equal(t, "cfpl", CompanyCFPL.TablePrefix())
	require.Equal(t, "cdpl", CompanyCDPL.TablePrefix())
}

func TestNewBoxID(t *testing.T) {
	// 2026-03-14T09:26:53Z is epoch millis 1773480413000; the id keeps
	// the last eight digits.
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.Equal(t, "80413000-7", NewBoxID(now, 7))

	// Early epochs are shorter than eight digits and pass through whole.
	require.Equal(t, "1000-1", NewBoxID(time.Unix(1, 0), 1))
}

func TestGRNCompleted(t *testing.T) {
	grn := "GRN-1"
	blank := "   "
	require.True(t, Record{GRNNumber: &grn}.GRNCompleted())
	require.False(t, Record{GRNNumber: &blank}.GRNCompleted())
	require.False(t, Record{}.GRNCompleted())
}
