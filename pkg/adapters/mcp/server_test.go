package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/concerto"
	"github.com/aretw0/concerto/internal/testutils"
	"github.com/aretw0/concerto/pkg/metamodel"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	v, err := concerto.New(testutils.Shop(t))
	require.NoError(t, err)
	return NewServer(v)
}

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{
		Document: `{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`,
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{
		Document: `{"$class":"ns.Person","firstName":"Ada","lastName":"Lovelace"}`,
		Class:    "Customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "type_mismatch", res.Error.Code)

	res, err = s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{Document: `{"$class":"ns.Ghost"}`})
	require.NoError(t, err)
	assert.Equal(t, "unknown_class", res.Error.Code)

	_, err = s.handleValidate(ctx, mcp.CallToolRequest{}, ValidateArgs{})
	assert.Error(t, err)
}

func TestHandleListTypesAndResource(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleListTypes(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var types []metamodel.TypeSummary
	require.NoError(t, json.Unmarshal([]byte(text.Text), &types))
	assert.Len(t, types, 7)

	contents, err := s.handleTypesResource(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	rc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, typesURI, rc.URI)
	assert.JSONEq(t, text.Text, rc.Text)
}

func TestHandleDescribeType(t *testing.T) {
	s := newTestServer(t)

	sum, err := s.handleDescribeType(context.Background(), mcp.CallToolRequest{}, DescribeArgs{Name: "ns.Order"})
	require.NoError(t, err)
	assert.Equal(t, "ns.Order", sum.Name)
	assert.Len(t, sum.Properties, 6)

	_, err = s.handleDescribeType(context.Background(), mcp.CallToolRequest{}, DescribeArgs{Name: "Nope"})
	assert.Error(t, err)
}
