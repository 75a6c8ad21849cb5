package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDescendantsDepths(t *testing.T) {
	members := newFakeMemberSource()
	root := members.addMember(nil)
	a := members.addMember(&root)
	b := members.addMember(&root)
	aa := members.addMember(&a)
	aaa := members.addMember(&aa)

	resolver := NewTreeResolver(members)
	depths, err := resolver.Descendants(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, depths, 4)
	assert.Equal(t, 1, depths[a])
	assert.Equal(t, 1, depths[b])
	assert.Equal(t, 2, depths[aa])
	assert.Equal(t, 3, depths[aaa])
	_, containsRoot := depths[root]
	assert.False(t, containsRoot, "root must not appear among its own descendants")
}

func TestDescendantsNoRecruits(t *testing.T) {
	members := newFakeMemberSource()
	loner := members.addMember(nil)

	resolver := NewTreeResolver(members)
	depths, err := resolver.Descendants(context.Background(), loner)
	require.NoError(t, err)
	assert.Empty(t, depths)
}

func TestDescendantsTerminatesOnCycle(t *testing.T) {
	members := newFakeMemberSource()
	root := members.addMember(nil)
	a := members.addMember(&root)
	b := members.addMember(&a)
	// Corrupt the data: b sponsors a, closing a loop below root.
	members.children[b] = append(members.children[b], a)

	resolver := NewTreeResolver(members)
	depths, err := resolver.Descendants(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, depths, 2)
	assert.Equal(t, 1, depths[a], "first-seen depth wins over the longer cyclic path")
	assert.Equal(t, 2, depths[b])
}

func TestDescendantsDepthCap(t *testing.T) {
	members := newFakeMemberSource()
	root := members.addMember(nil)

	// A chain deeper than the traversal cap
	parent := root
	var chain []primitive.ObjectID
	for i := 0; i < maxTreeDepth+5; i++ {
		child := members.addMember(&parent)
		chain = append(chain, child)
		parent = child
	}

	resolver := NewTreeResolver(members)
	depths, err := resolver.Descendants(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, depths, maxTreeDepth)
	assert.Equal(t, maxTreeDepth, depths[chain[maxTreeDepth-1]])
	_, beyondCap := depths[chain[maxTreeDepth]]
	assert.False(t, beyondCap)
}

func TestDescendantsCancelled(t *testing.T) {
	members := newFakeMemberSource()
	root := members.addMember(nil)
	members.addMember(&root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewTreeResolver(members)
	_, err := resolver.Descendants(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
