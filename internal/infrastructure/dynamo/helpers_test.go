package dynamo

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"title": "Back in stock"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "title"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"icon":    "tag",
		"message": "Now 20% off",
		"title":   "Price drop",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: icon < message < title
	assert.Equal(t, "icon", ue1.Names["#f0"])
	assert.Equal(t, "message", ue1.Names["#f1"])
	assert.Equal(t, "title", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"stock": 4})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	numVal, isNum := av.(*types.AttributeValueMemberN)
	require.True(t, isNum)
	assert.Equal(t, "4", numVal.Value)
}

func TestBuildUpdateExpr_NilPointerBecomesRemove(t *testing.T) {
	var clearedAt *time.Time
	ue, err := buildUpdateExpr(map[string]interface{}{
		"publish_at": clearedAt,
		"title":      "Updated",
	})
	require.NoError(t, err)
	assert.Equal(t, "SET #f1 = :v1 REMOVE #f0", ue.Expr)
	assert.Equal(t, "publish_at", ue.Names["#f0"])
	assert.Equal(t, "title", ue.Names["#f1"])
	_, hasRemovedValue := ue.Values[":v0"]
	assert.False(t, hasRemovedValue)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}
