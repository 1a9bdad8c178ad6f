package ax_test

import (
	"context"
	"testing"
	"time"

	"github.com/axq-tools/axq/pkg/adapters/fake"
	"github.com/axq-tools/axq/pkg/ax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/// buildWindow assembles the reference tree:
// window -> [toolbar(OK, Cancel), textField "Search"].
func buildWindow() *ax.Element {
	window := ax.NewSynthetic("AXWindow", "Main")
	toolbar := ax.NewSynthetic("AXToolbar", "Toolbar")
	ok := ax.NewSynthetic("AXButton", "OK")
	cancel := ax.NewSynthetic("AXButton", "Cancel")
	search := ax.NewSynthetic("AXTextField", "Search")

	toolbar.AddChild(ok)
	toolbar.AddChild(cancel)
	window.AddChild(toolbar)
	window.AddChild(search)
	return window
}

func TestFindDescendants_NoPredicatesReturnsAllPreOrder(t *testing.T) {
	window := buildWindow()

	all, err := window.FindDescendants(context.Background(), ax.Query{})
	require.NoError(t, err)

	titles := make([]string, len(all))
	for i, el := range all {
		titles[i] = el.Title
	}
	assert.Equal(t, []string{"Main", "Toolbar", "OK", "Cancel", "Search"}, titles,
		"parent before children, children in reported order")
}

func TestFindDescendants_ByRole(t *testing.T) {
	window := buildWindow()

	buttons, err := window.FindDescendants(context.Background(), ax.Query{Role: "axbutton"})
	require.NoError(t, err)
	require.Len(t, buttons, 2)
	assert.Equal(t, "OK", buttons[0].Title)
	assert.Equal(t, "Cancel", buttons[1].Title)
}

func TestFindDescendants_RoleMatchesSubRole(t *testing.T) {
	window := buildWindow()
	closer := ax.NewSynthetic("AXButton", "X")
	closer.SubRole = "AXCloseButton"
	window.AddChild(closer)

	matches, err := window.FindDescendants(context.Background(), ax.Query{Role: "AXCloseButton"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Same(t, closer, matches[0])
}

func TestFindDescendants_TitleSubstringAndDescription(t *testing.T) {
	window := buildWindow()
	described := ax.NewSynthetic("AXImage", "")
	described.RoleDescription = "loading spinner"
	window.AddChild(described)

	byTitle, err := window.FindDescendants(context.Background(), ax.Query{Title: "canc"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Cancel", byTitle[0].Title)

	byDescription, err := window.FindDescendants(context.Background(), ax.Query{Title: "SPINNER"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Same(t, described, byDescription[0])
}

func TestFindDescendants_RootIncluded(t *testing.T) {
	window := buildWindow()
	matches, err := window.FindDescendants(context.Background(), ax.Query{Role: "AXWindow"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Same(t, window, matches[0])
}

func TestFindDescendants_PredicateResultIsSubsetAndSound(t *testing.T) {
	window := buildWindow()
	ctx := context.Background()

	all, err := window.FindDescendants(ctx, ax.Query{})
	require.NoError(t, err)
	buttons, err := window.FindDescendants(ctx, ax.Query{Role: "AXButton"})
	require.NoError(t, err)

	assert.Subset(t, all, buttons)
	for _, el := range buttons {
		assert.Equal(t, "AXButton", el.Role)
	}
}

func TestFindDescendants_SkipsFailingSubtree(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	broken := fake.NewNode("AXGroup", "Broken", fake.NewNode("AXButton", "Unreachable"))
	broken.FailOps = map[string]error{
		"ChildrenOf":                                assert.AnError,
		"AttributeValue:AXChildren":                 assert.AnError,
		"AttributeValue:AXChildrenInNavigationOrder": assert.AnError,
	}
	root := fake.NewNode("AXWindow", "Main",
		broken,
		fake.NewNode("AXButton", "Sibling"),
	)
	el := newElement(t, prov, root)

	matches, err := el.FindDescendants(context.Background(), ax.Query{Role: "AXButton"})
	require.NoError(t, err, "a malfunctioning child must not abort the search")
	require.Len(t, matches, 1)
	assert.Equal(t, "Sibling", matches[0].Title)
}

func TestFindDescendants_ContextExpiryDiscardsPartialResults(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	slow := fake.NewNode("AXGroup", "Slow", fake.NewNode("AXButton", "Late"))
	slow.Delay = 200 * time.Millisecond
	root := fake.NewNode("AXWindow", "Main", fake.NewNode("AXButton", "Early"), slow)
	el := newElement(t, prov, root)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	matches, err := el.FindDescendants(ctx, ax.Query{Role: "AXButton"})
	require.Error(t, err)
	assert.Nil(t, matches, "expiry discards partial results")
}
