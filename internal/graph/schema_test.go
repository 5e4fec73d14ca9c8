package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
)

func TestValidRelationship(t *testing.T) {
	for _, relType := range []string{
		RelPublished, RelInPhase, RelPosted, RelCommentsOn, RelRepliesTo,
		RelRaised, RelContains, RelTookAction, RelAddresses, RelSuggestedFor,
	} {
		assert.True(t, ValidRelationship(relType), relType)
	}

	assert.False(t, ValidRelationship("FOLLOWS"))
	assert.False(t, ValidRelationship(""))
	assert.False(t, ValidRelationship("posted"))
}

func TestCheckRelationship_UnknownType(t *testing.T) {
	err := CheckRelationship("DROP_ALL", nil)
	require.Error(t, err)

	var relErr *apperrors.ErrUnknownRelationship
	require.ErrorAs(t, err, &relErr)
	assert.Equal(t, "DROP_ALL", relErr.RelType)
}

func TestCheckRelationship_PropertyWhitelist(t *testing.T) {
	// POSTED allows time
	assert.NoError(t, CheckRelationship(RelPosted, map[string]any{"time": "25-11-13 07:52"}))

	// but nothing else
	err := CheckRelationship(RelPosted, map[string]any{"injected = 'x' WITH r //": "y"})
	require.Error(t, err)
	var propErr *apperrors.ErrRelationshipProperty
	require.ErrorAs(t, err, &propErr)

	// types with an empty property schema reject any key
	err = CheckRelationship(RelPublished, map[string]any{"time": "now"})
	require.Error(t, err)
}

func TestCreateRelationship_RejectsBeforeStore(t *testing.T) {
	// Schema validation runs before any session is opened, so a nil
	// driver never gets touched on the rejection path.
	w := NewWriter(nil, DefaultCaps)

	err := w.CreateRelationship(context.Background(), "a", "b", "NOT_IN_SCHEMA", nil)
	require.Error(t, err)
	var relErr *apperrors.ErrUnknownRelationship
	assert.ErrorAs(t, err, &relErr)

	err = w.CreateRelationship(context.Background(), "a", "b", RelRaised, map[string]any{"weight": 1})
	require.Error(t, err)
}
