// services/tree_resolver.go
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defensive traversal caps. Sponsor data is supposed to be a tree, but a
// bad import or manual edit can introduce a cycle; the walk must stop
// rather than loop.
const (
	maxTreeNodes = 50000
	maxTreeDepth = 20
)

// TreeResolver walks the sponsor tree below a member. The walk is an
// iterative breadth-first expansion, level by level, so arbitrarily deep
// trees never grow the call stack.
type TreeResolver struct {
	members MemberSource
}

func NewTreeResolver(members MemberSource) *TreeResolver {
	return &TreeResolver{members: members}
}

// DirectRecruits returns the first level under memberID.
func (r *TreeResolver) DirectRecruits(ctx context.Context, memberID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return r.members.DirectRecruits(ctx, memberID)
}

// Descendants returns every recruitment descendant of memberID mapped to
// its first-seen BFS depth (direct recruits are depth 1). The member
// itself is not included. The walk stops early once maxTreeNodes members
// have been expanded or maxTreeDepth levels crossed, returning what it
// has collected so far.
func (r *TreeResolver) Descendants(ctx context.Context, memberID primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	seen := map[primitive.ObjectID]int{}
	frontier := []primitive.ObjectID{memberID}

	for depth := 1; depth <= maxTreeDepth && len(frontier) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var next []primitive.ObjectID
		for _, parent := range frontier {
			children, err := r.members.DirectRecruits(ctx, parent)
			if err != nil {
				return nil, err
			}
			for _, child := range children {
				if child == memberID {
					continue // malformed data, root listed as its own descendant
				}
				if _, ok := seen[child]; ok {
					continue
				}
				seen[child] = depth
				next = append(next, child)
				if len(seen) >= maxTreeNodes {
					return seen, nil
				}
			}
		}
		frontier = next
	}

	return seen, nil
}

// DescendantIDs is Descendants flattened to a slice, without depth tags.
func (r *TreeResolver) DescendantIDs(ctx context.Context, memberID primitive.ObjectID) ([]primitive.ObjectID, error) {
	byDepth, err := r.Descendants(ctx, memberID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(byDepth))
	for id := range byDepth {
		ids = append(ids, id)
	}
	return ids, nil
}
