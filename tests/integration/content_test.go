package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/dimitrije/cms-api/internal/services"
	"github.com/dimitrije/cms-api/pkg/dto"
	"github.com/dimitrije/cms-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentService_Integration_FieldLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewContentService(tdb.DB)
	ctx := context.Background()

	created, err := svc.Create(ctx, "blog")
	require.NoError(t, err)
	assert.Empty(t, created.Fields)

	_, err = svc.AddField(ctx, "blog", "title")
	require.NoError(t, err)
	m, err := svc.AddField(ctx, "blog", "body")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "body"}, m.Fields)
	assert.Equal(t, int64(1), m.RowsAffected)
	assert.Equal(t, created.ID, m.ContentID)

	_, err = svc.AddField(ctx, "blog", "title")
	assert.ErrorIs(t, err, services.ErrFieldExists)

	m, err = svc.RenameField(ctx, "blog", "body", "content")
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "content"}, m.Fields)

	m, err = svc.RemoveField(ctx, "blog", "title")
	require.NoError(t, err)
	assert.Equal(t, []string{"content"}, m.Fields)

	_, err = svc.RemoveField(ctx, "blog", "title")
	assert.ErrorIs(t, err, services.ErrFieldNotFound)

	stored, err := svc.GetByName(ctx, "blog")
	require.NoError(t, err)
	assert.Equal(t, []string{"content"}, stored.Fields)
}

func TestContentService_Integration_FailedValidationLeavesRow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewContentService(tdb.DB)
	ctx := context.Background()

	seeded := fixtures.CreateContent(t, testutil.WithContentName("page"), testutil.WithFields("a", "b"))

	_, err := svc.AddField(ctx, "page", "a")
	require.ErrorIs(t, err, services.ErrFieldExists)
	_, err = svc.ReplaceFields(ctx, "page", []string{"x", "x"})
	require.ErrorIs(t, err, services.ErrDuplicateField)

	stored, err := svc.GetByName(ctx, "page")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, stored.Fields)
	assert.Equal(t, seeded.UpdatedAt, stored.UpdatedAt)
}

func TestContentService_Integration_LookupPicksLowestID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewContentService(tdb.DB)
	ctx := context.Background()

	first := fixtures.CreateContent(t, testutil.WithContentName("dup"), testutil.WithFields("one"))
	fixtures.CreateContent(t, testutil.WithContentName("dup"), testutil.WithFields("two"))

	m, err := svc.AddField(ctx, "dup", "extra")
	require.NoError(t, err)
	assert.Equal(t, first.ID, m.ContentID)
	assert.Equal(t, []string{"one", "extra"}, m.Fields)
}

func TestContentService_Integration_Rename(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewContentService(tdb.DB)
	ctx := context.Background()

	_, err := svc.Create(ctx, "blog")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "page")
	require.NoError(t, err)

	_, err = svc.Rename(ctx, "blog", "page")
	assert.ErrorIs(t, err, services.ErrContentExists)

	renamed, err := svc.Rename(ctx, "blog", "posts")
	require.NoError(t, err)
	assert.Equal(t, "posts", renamed.Name)

	_, err = svc.GetByName(ctx, "blog")
	assert.ErrorIs(t, err, services.ErrContentNotFound)
}

// Concurrent adds are last-writer-wins: every call succeeds but only some of
// the values may survive.
func TestContentService_Integration_ConcurrentAdds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewContentService(tdb.DB)
	ctx := context.Background()

	_, err := svc.Create(ctx, "race")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddField(ctx, "race", fmt.Sprintf("f%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	stored, err := svc.GetByName(ctx, "race")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Fields)
	assert.LessOrEqual(t, len(stored.Fields), 10)
}

func TestContentAPI_Integration_BlogScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newServer(t, tdb)
	auth := testutil.BearerHeaders()

	rec := client.POST("/contents", dto.CreateContentRequest{Name: "blog"}, auth)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	for _, field := range []string{"title", "body", "author"} {
		rec = client.POST("/contents/blog", dto.FieldRequest{Field: field}, auth)
		testutil.AssertStatus(t, rec, http.StatusOK)
	}

	rec = client.PATCH("/contents/blog/body", dto.FieldRequest{Field: "content"}, auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.DELETE("/contents/blog/author", auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var mutation dto.FieldMutationResponse
	testutil.ParseJSON(t, rec, &mutation)
	assert.Equal(t, []string{"title", "content"}, mutation.Fields)
	assert.Equal(t, int64(1), mutation.RowsAffected)

	rec = client.DELETE("/contents/blog/author", auth)
	testutil.AssertStatus(t, rec, http.StatusNotFound)

	rec = client.POST("/contents/blog", dto.FieldRequest{Field: "title"}, auth)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	rec = client.GET("/contents/blog?view=fields", auth)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var fields []string
	testutil.ParseJSON(t, rec, &fields)
	assert.Equal(t, []string{"title", "content"}, fields)

	rec = client.PUT("/contents/blog", dto.ReplaceFieldsRequest{Field: []string{"headline"}}, auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.GET("/contents/blog", auth)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var content dto.ContentResponse
	testutil.ParseJSON(t, rec, &content)
	assert.Equal(t, []string{"headline"}, content.Fields)
}

func TestContentAPI_Integration_UnknownContent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newServer(t, tdb)
	auth := testutil.BearerHeaders()

	testutil.AssertStatus(t, client.GET("/contents/ghost", auth), http.StatusNotFound)
	testutil.AssertStatus(t, client.POST("/contents/ghost", dto.FieldRequest{Field: "x"}, auth), http.StatusNotFound)
	testutil.AssertStatus(t, client.PUT("/contents/ghost", dto.ReplaceFieldsRequest{Field: []string{"x"}}, auth), http.StatusNotFound)
	testutil.AssertStatus(t, client.DELETE("/contents/ghost/x", auth), http.StatusNotFound)
	testutil.AssertStatus(t, client.PATCH("/contents/ghost/x", dto.FieldRequest{Field: "y"}, auth), http.StatusNotFound)
}

func TestContentAPI_Integration_RequiresToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newServer(t, tdb)

	rec := client.POST("/contents", dto.CreateContentRequest{Name: "blog"}, nil)
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	rec = client.GET("/contents", map[string]string{"Authorization": "Bearer wrong"})
	testutil.AssertStatus(t, rec, http.StatusUnauthorized)

	rec = client.GET("/contents", testutil.BearerHeaders())
	testutil.AssertStatus(t, rec, http.StatusOK)
	var contents []dto.ContentResponse
	testutil.ParseJSON(t, rec, &contents)
	assert.Empty(t, contents)
}

func TestSchemaAPI_Integration_Import(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newServer(t, tdb)
	auth := testutil.BearerHeaders()

	doc := map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]string{"title": "Blog", "version": "1"},
		"paths":   map[string]any{},
		"components": map[string]any{"schemas": map[string]any{
			"Post": map[string]any{
				"type":       "object",
				"properties": map[string]any{"title": map[string]string{"type": "string"}, "body": map[string]string{"type": "string"}},
			},
		}},
	}

	rec := client.POST("/imports/openapi", map[string]any{"spec": doc}, auth)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = client.GET("/contents/Post?view=fields", auth)
	testutil.AssertStatus(t, rec, http.StatusOK)
	var fields []string
	testutil.ParseJSON(t, rec, &fields)
	assert.Equal(t, []string{"body", "title"}, fields)

	rec = client.POST("/imports/openapi", map[string]any{"spec": doc, "resolution": "fail"}, auth)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	yamlDoc := `openapi: 3.0.3
info:
  title: Blog
  version: "1"
paths: {}
components:
  schemas:
    Post:
      type: object
      properties:
        slug:
          type: string
`
	rec = client.Raw(http.MethodPost, "/imports/openapi?resolution=merge", "application/yaml", []byte(yamlDoc), auth)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.GET("/contents/Post?view=fields", auth)
	testutil.ParseJSON(t, rec, &fields)
	assert.Equal(t, []string{"body", "title", "slug"}, fields)
	assert.Equal(t, 1, tdb.CountContents(t, "Post"))
}
