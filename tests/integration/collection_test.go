package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dimitrije/cms-api/internal/services"
	"github.com/dimitrije/cms-api/pkg/dto"
	"github.com/dimitrije/cms-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionService_Integration_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewCollectionService(tdb.DB)
	ctx := context.Background()

	content := fixtures.CreateContent(t, testutil.WithFields("title"))

	name := "first"
	col, err := svc.Create(ctx, content.ID, json.RawMessage(`{"title": "hello"}`), &name)
	require.NoError(t, err)
	assert.Equal(t, content.ID, col.ContentID)
	assert.JSONEq(t, `{"title": "hello"}`, string(col.Entry))

	updated, err := svc.UpdateEntry(ctx, col.ID, json.RawMessage(`{"title": "edited"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "edited"}`, string(updated.Entry))

	byName, err := svc.UpdateEntryByName(ctx, "first", json.RawMessage(`{"title": "by name"}`))
	require.NoError(t, err)
	assert.Equal(t, col.ID, byName.ID)

	list, err := svc.GetByContentID(ctx, content.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.JSONEq(t, `{"title": "by name"}`, string(list[0].Entry))

	deleted, err := svc.Delete(ctx, col.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "by name"}`, string(deleted.Entry))

	_, err = svc.Delete(ctx, col.ID)
	assert.ErrorIs(t, err, services.ErrCollectionNotFound)
}

func TestCollectionService_Integration_UnknownContentIsEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewCollectionService(tdb.DB)

	list, err := svc.GetByContentID(context.Background(), 12345)

	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCollectionService_Integration_NullEntry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewCollectionService(tdb.DB)

	col, err := svc.Create(context.Background(), 1, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "null", string(col.Entry))
	assert.Nil(t, col.Name)
}

func TestCollectionAPI_Integration_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	client := newServer(t, tdb)
	auth := testutil.BearerHeaders()

	content := fixtures.CreateContent(t)
	contentPath := fmt.Sprintf("/collections/%d", content.ID)

	rec := client.POST(contentPath, map[string]any{"entry": map[string]string{"title": "a"}}, auth)
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var created dto.CollectionResponse
	testutil.ParseJSON(t, rec, &created)

	collectionPath := fmt.Sprintf("/collections/%d", created.ID)

	rec = client.PUT(collectionPath, map[string]any{"entry": map[string]string{"title": "b"}}, auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.PATCH(collectionPath, map[string]any{"field": map[string]string{"title": "c"}}, auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.GET(contentPath, auth)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var list []dto.CollectionResponse
	testutil.ParseJSON(t, rec, &list)
	require.Len(t, list, 1)
	assert.JSONEq(t, `{"title": "c"}`, string(list[0].Entry))

	rec = client.DELETE(collectionPath, auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.DELETE(collectionPath, auth)
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = client.PUT("/collections/999999", map[string]any{"entry": map[string]string{}}, auth)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}
