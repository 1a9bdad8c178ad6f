package ax_test

import (
	"context"
	"testing"

	"github.com/axq-tools/axq/pkg/adapters/fake"
	"github.com/axq-tools/axq/pkg/ax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newElement(t *testing.T, prov *fake.Provider, node *fake.Node) *ax.Element {
	t.Helper()
	el, err := ax.FromHandle(context.Background(), prov, node, nil, nil)
	require.NoError(t, err)
	return el
}

func TestLoadChildren_NoChildrenReported(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	leaf := &fake.Node{Role: "AXButton", Title: "OK"}
	el := newElement(t, prov, leaf)

	loaded, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Empty(t, el.Children())
	// No strategy should run for an element that denies having children.
	assert.Zero(t, prov.Calls("ChildrenOf"))
}

func TestLoadChildren_StructuredAccessor(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	parent := fake.NewNode("AXGroup", "",
		fake.NewNode("AXButton", "One"),
		fake.NewNode("AXButton", "Two"),
	)
	el := newElement(t, prov, parent)
	require.True(t, el.HasChildren)

	loaded, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)

	children := el.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "One", children[0].Title)
	assert.Equal(t, "Two", children[1].Title)
	assert.Same(t, el, children[0].Parent())
}

func TestLoadChildren_FallsBackToAttribute(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	parent := fake.NewNode("AXGroup", "", fake.NewNode("AXButton", "Hidden"))
	parent.HideFromAccessor = true
	el := newElement(t, prov, parent)

	loaded, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)
	require.Len(t, el.Children(), 1)
	assert.Equal(t, "Hidden", el.Children()[0].Title)
	assert.Equal(t, 1, prov.Calls("AttributeValue:AXChildren"))
}

func TestLoadChildren_FallsBackToNavigationOrder(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	parent := fake.NewNode("AXGroup", "", fake.NewNode("AXButton", "Deep"))
	parent.HideFromAccessor = true
	parent.FailOps = map[string]error{"AttributeValue:AXChildren": assert.AnError}
	el := newElement(t, prov, parent)

	loaded, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded, "third strategy should still deliver children")
	require.Len(t, el.Children(), 1)
	assert.Equal(t, "Deep", el.Children()[0].Title)
	assert.Equal(t, 1, prov.Calls("AttributeValue:AXChildrenInNavigationOrder"))
}

func TestLoadChildren_AllStrategiesFail_SoftSignal(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	parent := &fake.Node{Role: "AXGroup", ForceHasChildren: true}
	parent.FailOps = map[string]error{
		"ChildrenOf":                                 assert.AnError,
		"AttributeValue:AXChildren":                  assert.AnError,
		"AttributeValue:AXChildrenInNavigationOrder": assert.AnError,
	}
	el := newElement(t, prov, parent)
	require.True(t, el.HasChildren)

	loaded, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err, "inaccessible children are a soft signal, not an error")
	assert.False(t, loaded)
	assert.Empty(t, el.Children())
	assert.True(t, el.HasChildren, "the flag is never revised downward")
}

func TestLoadChildren_Idempotent(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	parent := fake.NewNode("AXGroup", "", fake.NewNode("AXButton", "Once"))
	el := newElement(t, prov, parent)

	_, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err)
	first := prov.Calls("ChildrenOf")
	firstChildren := el.Children()

	loaded, err := el.LoadChildrenIfNeeded(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, first, prov.Calls("ChildrenOf"), "second call must not re-query the provider")
	assert.Equal(t, firstChildren, el.Children())
}

func TestLoadChildren_ConcurrentCallsLoadOnce(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	parent := fake.NewNode("AXGroup", "", fake.NewNode("AXButton", "A"), fake.NewNode("AXButton", "B"))
	el := newElement(t, prov, parent)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = el.LoadChildrenIfNeeded(context.Background())
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	assert.Len(t, el.Children(), 2)
	assert.Equal(t, 1, prov.Calls("ChildrenOf"), "loaded-once must hold under concurrency")
}

func TestLoadSubtree_DepthLimited(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	tree := fake.NewNode("AXWindow", "Main",
		fake.NewNode("AXToolbar", "Toolbar",
			fake.NewNode("AXButton", "OK")))
	el := newElement(t, prov, tree)

	require.NoError(t, el.LoadSubtree(context.Background(), 1))
	require.Len(t, el.Children(), 1)
	assert.Empty(t, el.Children()[0].Children(), "depth 1 stops at direct children")

	require.NoError(t, el.LoadSubtree(context.Background(), -1))
	require.Len(t, el.Children()[0].Children(), 1)
	assert.Equal(t, "OK", el.Children()[0].Children()[0].Title)
}

func TestLoadSubtree_SkipsInaccessibleBranch(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	broken := fake.NewNode("AXGroup", "Broken", fake.NewNode("AXButton", "Lost"))
	broken.FailOps = map[string]error{
		"ChildrenOf":                                 assert.AnError,
		"AttributeValue:AXChildren":                  assert.AnError,
		"AttributeValue:AXChildrenInNavigationOrder": assert.AnError,
	}
	tree := fake.NewNode("AXWindow", "Main", broken, fake.NewNode("AXButton", "OK"))
	el := newElement(t, prov, tree)

	require.NoError(t, el.LoadSubtree(context.Background(), -1))
	require.Len(t, el.Children(), 2)
	assert.Empty(t, el.Children()[0].Children())
	assert.Equal(t, "OK", el.Children()[1].Title)
}
