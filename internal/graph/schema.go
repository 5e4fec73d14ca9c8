package graph

import (
	apperrors "github.com/karry12138/public-opinion-graph/pkg/errors"
)

// Node labels. The schema is closed: every node in the store carries
// exactly one of these labels.
const (
	LabelEvent        = "Event"
	LabelOrganization = "Organization"
	LabelUser         = "User"
	LabelComment      = "Comment"
	LabelReply        = "Reply"
	LabelOpinionPhase = "OpinionPhase"
	LabelDemand       = "Demand"
	LabelSolution     = "Solution"
)

// NodeLabels is the fixed label set, in stats reporting order.
var NodeLabels = []string{
	LabelEvent,
	LabelUser,
	LabelComment,
	LabelReply,
	LabelOrganization,
	LabelOpinionPhase,
	LabelDemand,
	LabelSolution,
}

// Relationship types. Like the labels, this vocabulary is closed;
// CreateRelationship rejects anything else before a query is built.
const (
	RelPublished    = "PUBLISHED"     // Organization -> Event
	RelInPhase      = "IN_PHASE"      // Event -> OpinionPhase
	RelPosted       = "POSTED"        // User -> Comment|Reply
	RelCommentsOn   = "COMMENTS_ON"   // Comment -> Event
	RelRepliesTo    = "REPLIES_TO"    // Reply -> Comment
	RelRaised       = "RAISED"        // User -> Demand
	RelContains     = "CONTAINS"      // Comment -> Demand
	RelTookAction   = "TOOK_ACTION"   // Organization -> Solution
	RelAddresses    = "ADDRESSES"     // Solution -> Event
	RelSuggestedFor = "SUGGESTED_FOR" // Solution -> Event
)

// Solution node types
const (
	SolutionActionTaken = "action_taken"
	SolutionSuggested   = "suggested"
)

// Organization node defaults
const (
	orgType     = "official account"
	orgPlatform = "weibo"
)

// allowedRelProps enumerates the property names each relationship type
// may carry. Property keys never come from caller input; only names
// listed here are ever interpolated into a SET clause.
var allowedRelProps = map[string][]string{
	RelPublished:    {},
	RelInPhase:      {},
	RelPosted:       {"time"},
	RelCommentsOn:   {},
	RelRepliesTo:    {"time"},
	RelRaised:       {},
	RelContains:     {},
	RelTookAction:   {},
	RelAddresses:    {},
	RelSuggestedFor: {},
}

// ValidRelationship reports whether relType belongs to the schema.
func ValidRelationship(relType string) bool {
	_, ok := allowedRelProps[relType]
	return ok
}

// CheckRelationship validates a relationship type and its property
// keys against the schema before any query text is assembled.
func CheckRelationship(relType string, props map[string]any) error {
	allowed, ok := allowedRelProps[relType]
	if !ok {
		return apperrors.NewUnknownRelationship(relType)
	}
	for key := range props {
		found := false
		for _, name := range allowed {
			if key == name {
				found = true
				break
			}
		}
		if !found {
			return apperrors.NewRelationshipProperty(relType, key)
		}
	}
	return nil
}
