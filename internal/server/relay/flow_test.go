package relay

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/certledger/internal/server/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSingleRelayFlow walks the whole single-certificate path with an
// in-memory chain: the wallet signs the recomputed hash, the guard approves,
// the executor submits and the receipt comes back confirmed.
func TestSingleRelayFlow(t *testing.T) {
	t.Parallel()

	w := newWallet(t)
	reader := newFakeReader()
	reader.issuers[w.addr] = true
	writer := newFakeWriter()

	guard := NewGuard(reader, testLogger())
	exec := NewExecutor(writer, testLogger())

	payload := testPayload(w)
	hash := ledger.CertificateHash(payload)
	sig := w.signPersonal(t, hash)

	ctx := context.Background()

	require.NoError(t, guard.AuthorizeSingle(ctx, payload, hash, sig, w.addr))

	receipt, err := exec.SubmitSingle(ctx, ledger.SingleSubmission{Payload: payload, Hash: hash, Signature: sig})
	require.NoError(t, err)

	assert.Equal(t, ledger.ReceiptStatusSuccess, receipt.Status)
	assert.NotEmpty(t, receipt.TxHash)

	require.Len(t, writer.singles, 1)
	assert.Equal(t, payload, writer.singles[0].Payload)
}

// TestBulkRelayFlow covers the bulk path end to end: one authorization,
// several items, per-item receipts and rows recorded.
func TestBulkRelayFlow(t *testing.T) {
	t.Parallel()

	w := newWallet(t)
	reader := newFakeReader()
	reader.issuers[w.addr] = true
	writer := newFakeWriter()
	recorder := newFakeRecorder()
	resolver := &fakeResolver{names: map[string]string{"S1": "Alice Tan"}}

	guard := NewGuard(reader, testLogger())
	exec := NewExecutor(writer, testLogger())
	coord := NewCoordinator(exec, resolver, recorder, testLogger())

	expiry := uint64(time.Now().Add(time.Hour).Unix())
	auth := bulkAuth(t, w, 1700000000000, 2, expiry)

	ctx := context.Background()

	require.NoError(t, guard.AuthorizeBulk(ctx, auth, w.addr))

	items := []RawItem{
		{CertificateID: "C1", StudentID: "S1", CourseName: "Maths", IssuedDate: "2026-05-01"},
		{CertificateID: "C2", StudentName: "Bob Lim", CourseName: "Physics", IssuedDate: "2026-05-01"},
	}

	result := coord.Run(ctx, auth, "inst-1", "Example University", items)

	assert.Equal(t, 2, result.Succeeded)
	assert.Len(t, recorder.saved, 2)
	for _, r := range result.Results {
		assert.True(t, r.Success)
		assert.NotEmpty(t, r.TxHash)
	}
}
