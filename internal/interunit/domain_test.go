package interunit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizePackaging(t *testing.T) {
	got, err := NormalizePackaging(MaterialFinishedGood, 2)
	require.NoError(t, err)
	require.Equal(t, 2, got)

	_, err = NormalizePackaging(MaterialFinishedGood, 0)
	require.Error(t, err)

	got, err = NormalizePackaging(MaterialRawMaterial, 0)
	require.NoError(t, err)
	require.Equal(t, 1, got)

	got, err = NormalizePackaging(MaterialPackaging, 4)
	require.NoError(t, err)
	require.Equal(t, 4, got)
}

func TestWeightComputation(t *testing.T) {
	cases := []struct {
		name      string
		mt        MaterialType
		packaging int
		packSize  float64
		qty       int
		wantNet   float64
		wantTotal float64
	}{
		{"fg multiplies packaging", MaterialFinishedGood, 2, 25, 10, 500, 550},
		{"rm ignores packaging", MaterialRawMaterial, 1, 25, 10, 250, 275},
		{"pm ignores packaging", MaterialPackaging, 3, 10, 5, 50, 55},
		{"rtv ignores packaging", MaterialReturnToVendor, 1, 2.5, 4, 10, 11},
		{"zero pack size", MaterialRawMaterial, 1, 0, 10, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			net := NetWeight(tc.mt, tc.packaging, tc.packSize, tc.qty)
			require.InDelta(t, tc.wantNet, net, 0.001)
			require.InDelta(t, tc.wantTotal, RequestTotalWeight(net), 0.001)
		})
	}
}

func TestBoxScanStatus(t *testing.T) {
	require.Equal(t, TransferStatusPending, BoxScanStatus(10, 0))
	require.Equal(t, TransferStatusPartial, BoxScanStatus(10, 3))
	require.Equal(t, TransferStatusCompleted, BoxScanStatus(10, 10))
	require.Equal(t, TransferStatusCompleted, BoxScanStatus(10, 12))
	require.Equal(t, TransferStatusCompleted, BoxScanStatus(0, 1))
}

func TestDocumentNumbers(t *testing.T) {
	at := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)
	require.Equal(t, "REQ202503071405", NewRequestNo(at))
	require.Equal(t, "TRANS20250307140509", NewChallanNo(at))
}

func TestParseDates(t *testing.T) {
	d, err := ParseRequestDate("07-03-2025")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseRequestDate("2025-03-07")
	require.Error(t, err)

	d, err = ParseTransferDate("2025-03-07")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseTransferDate("07-03-2025")
	require.Error(t, err)
}

func TestTransferStatusDeletable(t *testing.T) {
	require.True(t, TransferStatusPending.Deletable())
	require.True(t, TransferStatusPartial.Deletable())
	require.False(t, TransferStatusCompleted.Deletable())
	require.False(t, TransferStatusReceived.Deletable())
}
