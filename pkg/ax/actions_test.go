package ax_test

import (
	"context"
	"testing"

	"github.com/axq-tools/axq/pkg/adapters/fake"
	"github.com/axq-tools/axq/pkg/ax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableActions_AlwaysIncludesFocus(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	bare := &fake.Node{Role: "AXStaticText", Title: "Label"}
	el := newElement(t, prov, bare)

	actions, err := el.AvailableActions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ax.ActionFocus}, actions)

	button := &fake.Node{Role: "AXButton", Title: "OK", Actions: []string{"press"}}
	el = newElement(t, prov, button)
	actions, err = el.AvailableActions(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"press", ax.ActionFocus}, actions)
}

func TestPerformAction_SupportedDispatchesToProvider(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	button := &fake.Node{Role: "AXButton", Title: "OK", Actions: []string{"press"}}
	el := newElement(t, prov, button)

	require.NoError(t, el.PerformAction(context.Background(), "press"))
	assert.Equal(t, 1, prov.Calls("PerformAction:press"))
}

func TestPerformAction_UnsupportedFailsWithoutProviderCall(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	label := &fake.Node{Role: "AXStaticText", Title: "Label"}
	el := newElement(t, prov, label)

	err := el.PerformAction(context.Background(), "press")
	var unsupported *ax.UnsupportedActionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "press", unsupported.Action)
	assert.Zero(t, prov.Calls("PerformAction:press"),
		"an unsupported action must never reach the provider")
}

func TestPerformAction_EmptyNameRejected(t *testing.T) {
	el := ax.NewSynthetic("AXButton", "OK")
	assert.Error(t, el.PerformAction(context.Background(), ""))
}

func TestFocus_SetsAttributeAndFlag(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	field := &fake.Node{Role: "AXTextField", Title: "Search"}
	el := newElement(t, prov, field)
	require.False(t, el.Focused)

	require.NoError(t, el.PerformAction(context.Background(), ax.ActionFocus))
	assert.True(t, el.Focused)
	assert.Equal(t, true, field.Attributes["AXFocused"])
}

func TestFocus_SyntheticElement(t *testing.T) {
	el := ax.NewSynthetic("AXButton", "OK")
	require.NoError(t, el.Focus(context.Background()))
	assert.True(t, el.Focused)
}

func TestFocusedElement_WalksFocusChain(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	field := &fake.Node{Role: "AXTextField", Title: "Search"}
	window := fake.NewNode("AXWindow", "Main", field)
	app := fake.NewNode("AXApplication", "Demo", window)
	app.Attributes = map[string]any{
		"AXFocusedWindow":    window,
		"AXFocusedUIElement": field,
	}
	prov.AddApplication("Demo", 7, app)

	el, err := ax.FocusedElement(context.Background(), prov, nil)
	require.NoError(t, err)
	assert.Equal(t, "AXTextField", el.Role)
	assert.True(t, el.Focused)
	require.NotNil(t, el.Parent())
	assert.Equal(t, "AXWindow", el.Parent().Role)
}

func TestFocusedElement_FallsBackToWindowThenApp(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	window := fake.NewNode("AXWindow", "Main")
	app := fake.NewNode("AXApplication", "Demo", window)
	app.Attributes = map[string]any{"AXFocusedWindow": window}
	prov.AddApplication("Demo", 7, app)

	el, err := ax.FocusedElement(context.Background(), prov, nil)
	require.NoError(t, err)
	assert.Equal(t, "AXWindow", el.Role)

	bare := fake.NewNode("AXApplication", "Bare")
	prov.SetFocused(bare)
	el, err = ax.FocusedElement(context.Background(), prov, nil)
	require.NoError(t, err)
	assert.Equal(t, "AXApplication", el.Role)
	assert.True(t, el.Focused)
}
