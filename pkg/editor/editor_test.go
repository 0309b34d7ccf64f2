package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/publisher"
	"github.com/oskars/refinerywatch/pkg/reconciler"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

func fixture() ([]refineries.Refinery, []refineries.Update) {
	list := []refineries.Refinery{
		{ID: "a", Name: "A", Status: refineries.StatusOperational, Description: "da", LastIncidentDate: "2024-01-29"},
		{ID: "b", Name: "B", Status: refineries.StatusOperational, Description: "db", IncidentVideoURLs: []string{"u1"}},
	}
	updates := []refineries.Update{
		{ID: "b", Status: refineries.StatusDamaged, Description: "x"},
	}
	return list, updates
}

func TestSetFieldOnExistingRowSeedsUpdate(t *testing.T) {
	list, _ := fixture()
	rows := reconciler.Reconcile(list, nil)

	got, err := SetField(rows, nil, 0, FieldStatus, refineries.StatusOffline)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, refineries.Update{
		ID:                "a",
		Status:            refineries.StatusOffline,
		Description:       "da",
		LastIncidentDate:  refineries.StringPtr("2024-01-29"),
		IncidentVideoURLs: []string{},
	}, got[0])

	rows = reconciler.Reconcile(list, got)
	assert.Equal(t, reconciler.ChangeUpdated, rows[0].ChangeType)
	assert.Equal(t, "A", rows[0].Name)
}

func TestSetFieldOnPendingUpdateCopies(t *testing.T) {
	list, updates := fixture()
	rows := reconciler.Reconcile(list, updates)

	got, err := SetField(rows, updates, 0, FieldDescription, "new text")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new text", got[0].Description)
	assert.Equal(t, refineries.StatusDamaged, got[0].Status)
	assert.Equal(t, "x", updates[0].Description, "input must not change")
}

func TestSetFieldIdempotentAndIndependent(t *testing.T) {
	list, updates := fixture()
	rows := reconciler.Reconcile(list, updates)

	once, err := SetField(rows, updates, 1, FieldLastIncidentDate, "2024-05")
	require.NoError(t, err)
	twice, err := SetField(reconciler.Reconcile(list, once), once, 1, FieldLastIncidentDate, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	other, err := SetField(reconciler.Reconcile(list, once), once, 1, FieldStatus, "Damaged")
	require.NoError(t, err)
	i := refineries.FindUpdate(other, "a")
	assert.Equal(t, "2024-05", *other[i].LastIncidentDate)
	assert.Equal(t, "da", other[i].Description)
}

func TestSetFieldClearsDate(t *testing.T) {
	list, _ := fixture()
	rows := reconciler.Reconcile(list, nil)
	for _, value := range []any{nil, (*string)(nil), ""} {
		got, err := SetField(rows, nil, 0, FieldLastIncidentDate, value)
		require.NoError(t, err)
		require.NotNil(t, got[0].LastIncidentDate, "value %#v", value)
		assert.Empty(t, *got[0].LastIncidentDate)

		// the staged row and the published list agree
		staged := reconciler.Reconcile(list, got)
		require.NotNil(t, staged[0].LastIncidentDate)
		assert.Empty(t, *staged[0].LastIncidentDate)
		published := publisher.Apply(list, got)
		assert.Empty(t, published.Refineries[0].LastIncidentDate)
	}
}

func TestSetFieldRejectsBadInput(t *testing.T) {
	list, updates := fixture()
	rows := reconciler.Reconcile(list, updates)

	_, err := SetField(rows, updates, 5, FieldStatus, "Damaged")
	assert.True(t, errors.IsValidationError(err))

	_, err = SetField(rows, updates, 0, FieldStatus, "Burning")
	assert.True(t, errors.IsValidationError(err))

	_, err = SetField(rows, updates, 0, FieldDescription, 42)
	assert.True(t, errors.IsValidationError(err))

	_, err = SetField(rows, updates, 0, Field("name"), "x")
	assert.True(t, errors.IsValidationError(err))

	_, err = ParseField("capacity")
	assert.Error(t, err)
	f, err := ParseField("incidentVideoUrls")
	require.NoError(t, err)
	assert.Equal(t, FieldIncidentVideoURLs, f)
}

func TestAddThenRemoveVideoURLIsNoOpOnList(t *testing.T) {
	list, _ := fixture()
	rows := reconciler.Reconcile(list, nil)

	added, err := AddVideoURL(rows, nil, 1)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, []string{"u1", ""}, added[0].IncidentVideoURLs)

	rows = reconciler.Reconcile(list, added)
	removed, err := RemoveVideoURL(rows, added, 0, 1)
	require.NoError(t, err)
	require.Len(t, removed, 1, "the seeded update stays")
	assert.Equal(t, []string{"u1"}, removed[0].IncidentVideoURLs)
	assert.Equal(t, []string{"u1"}, list[1].IncidentVideoURLs)
}

func TestVideoURLOpsUsePendingList(t *testing.T) {
	list, updates := fixture()
	rows := reconciler.Reconcile(list, updates)

	// the pending update for b has no list, so the effective list is empty
	got, err := AddVideoURL(rows, updates, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got[0].IncidentVideoURLs)

	got, err = SetVideoURL(reconciler.Reconcile(list, got), got, 0, 0, "https://x.com/a/status/1")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://x.com/a/status/1"}, got[0].IncidentVideoURLs)

	_, err = SetVideoURL(reconciler.Reconcile(list, got), got, 0, 3, "x")
	assert.True(t, errors.IsValidationError(err))
	_, err = RemoveVideoURL(reconciler.Reconcile(list, got), got, 0, -1)
	assert.True(t, errors.IsValidationError(err))
}

func TestSetVideoURLSeedsFromRow(t *testing.T) {
	list, _ := fixture()
	rows := reconciler.Reconcile(list, nil)

	got, err := SetVideoURL(rows, nil, 1, 0, "replaced")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, []string{"replaced"}, got[0].IncidentVideoURLs)
	assert.Equal(t, "u1", rows[1].IncidentVideoURLs[0])
}
