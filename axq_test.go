package axq_test

import (
	"context"
	"testing"
	"time"

	"github.com/axq-tools/axq"
	"github.com/axq-tools/axq/pkg/adapters/fake"
	"github.com/axq-tools/axq/pkg/ax"
	"github.com/axq-tools/axq/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDemoEngine wires an engine to the reference tree:
// window -> [toolbar(OK, Cancel), textField "Search"].
func newDemoEngine(t *testing.T) (*axq.Engine, *fake.Provider) {
	t.Helper()

	prov := fake.NewProvider()
	t.Cleanup(prov.Close)

	okButton := &fake.Node{Role: "AXButton", Title: "OK", Actions: []string{"press"}}
	cancelButton := &fake.Node{Role: "AXButton", Title: "Cancel", Actions: []string{"press"}}
	toolbar := fake.NewNode("AXToolbar", "Toolbar", okButton, cancelButton)
	search := &fake.Node{Role: "AXTextField", Title: "Search"}
	window := fake.NewNode("AXWindow", "Untitled", toolbar, search)
	app := fake.NewNode("AXApplication", "TextEdit", window)
	prov.AddApplication("TextEdit", 1042, app)

	eng, err := axq.New(prov,
		axq.WithSearchTimeout(2*time.Second),
		axq.WithPathTimeout(2*time.Second),
		axq.WithActionTimeout(time.Second),
		axq.WithRetryPolicy(2, 10*time.Millisecond),
	)
	require.NoError(t, err)
	return eng, prov
}

func TestNew_Validation(t *testing.T) {
	_, err := axq.New(nil)
	assert.Error(t, err)

	prov := fake.NewProvider()
	defer prov.Close()

	_, err = axq.New(prov, axq.WithSearchTimeout(0))
	assert.Error(t, err)
	_, err = axq.New(prov, axq.WithRetryPolicy(0, time.Millisecond))
	assert.Error(t, err)
	_, err = axq.New(prov, axq.WithRetryPolicy(1, 0))
	assert.Error(t, err)
}

func TestEngine_EndToEndScenario(t *testing.T) {
	eng, _ := newDemoEngine(t)
	ctx := context.Background()

	apps, err := eng.Applications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "TextEdit", apps[0].Name)

	root, err := eng.ApplicationTree(ctx, 1042)
	require.NoError(t, err)
	assert.Equal(t, "AXApplication", root.Role)

	buttons, err := eng.FindElements(ctx, root, "AXButton", "")
	require.NoError(t, err)
	require.Len(t, buttons, 2)
	assert.Equal(t, "OK", buttons[0].Title, "left-to-right order")
	assert.Equal(t, "Cancel", buttons[1].Title)

	okButton, err := eng.FindElementByPath(ctx, root, "AXToolbar[Toolbar]/AXButton[OK]")
	require.NoError(t, err)
	assert.Same(t, buttons[0], okButton)

	require.NoError(t, eng.PerformAction(ctx, okButton, "press"))

	err = eng.PerformAction(ctx, okButton, "increment")
	var unsupported *ax.UnsupportedActionError
	require.ErrorAs(t, err, &unsupported)
}

func TestEngine_QuietVariants(t *testing.T) {
	eng, _ := newDemoEngine(t)
	ctx := context.Background()

	root, err := eng.ApplicationTree(ctx, 1042)
	require.NoError(t, err)

	assert.Len(t, eng.FindElementsQuiet(ctx, root, "AXButton", ""), 2)
	assert.Nil(t, eng.FindElementByPathQuiet(ctx, root, "not-a-path"))
	assert.Nil(t, eng.FindElementByPathQuiet(ctx, root, "AXButton[Nope]"))
	assert.NotNil(t, eng.FindElementByPathQuiet(ctx, root, "AXButton[OK]"))
}

func TestEngine_HangingProviderDoesNotHangCaller(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	stuck := &fake.Node{
		Role:    "AXGroup",
		Title:   "Stuck",
		HangOps: map[string]bool{"ChildrenOf": true},
	}
	stuck.ForceHasChildren = true
	window := fake.NewNode("AXWindow", "Main", stuck)
	prov.AddApplication("Demo", 1, window)

	eng, err := axq.New(prov, axq.WithSearchTimeout(100*time.Millisecond))
	require.NoError(t, err)

	root, err := eng.ApplicationTree(context.Background(), 1)
	require.NoError(t, err)

	start := time.Now()
	_, err = eng.FindElements(context.Background(), root, "AXButton", "")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, resilience.ErrTimeout)
	assert.Less(t, elapsed, time.Second,
		"the caller must observe the deadline, not the provider's mood")
}

func TestEngine_FocusedElement(t *testing.T) {
	eng, _ := newDemoEngine(t)

	el, err := eng.FocusedElement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AXApplication", el.Role)
	assert.True(t, el.Focused)
}

func TestEngine_CheckTrusted(t *testing.T) {
	eng, prov := newDemoEngine(t)
	require.NoError(t, eng.CheckTrusted())

	prov.SetTrusted(false)
	assert.ErrorIs(t, eng.CheckTrusted(), axq.ErrNotTrusted)
}

func TestEngine_ElementAttributesAndActions(t *testing.T) {
	eng, _ := newDemoEngine(t)
	ctx := context.Background()

	root, err := eng.ApplicationTree(ctx, 1042)
	require.NoError(t, err)
	okButton, err := eng.FindElementByPath(ctx, root, "AXButton[OK]")
	require.NoError(t, err)

	actions, err := eng.AvailableActions(ctx, okButton)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"press", ax.ActionFocus}, actions)

	require.NoError(t, eng.PerformAction(ctx, okButton, ax.ActionFocus))
	assert.True(t, okButton.Focused)

	attrs, err := eng.ElementAttributes(ctx, okButton)
	require.NoError(t, err)
	assert.Equal(t, true, attrs["AXFocused"])
}
