package ax_test

import (
	"context"
	"testing"

	"github.com/axq-tools/axq/pkg/adapters/fake"
	"github.com/axq-tools/axq/pkg/ax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHandle_ReadsIdentityAttributes(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	node := &fake.Node{
		Role:            "AXButton",
		SubRole:         "AXCloseButton",
		RoleDescription: "close button",
		Title:           "Close",
		PID:             42,
	}
	prov.AddApplication("demo", 42, node)

	el, err := ax.FromHandle(context.Background(), prov, node, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "AXButton", el.Role)
	assert.Equal(t, "AXCloseButton", el.SubRole)
	assert.Equal(t, "close button", el.RoleDescription)
	assert.Equal(t, "Close", el.Title)
	assert.Equal(t, int32(42), el.PID)
	assert.False(t, el.HasChildren)
	assert.Nil(t, el.Parent())
}

func TestFromHandle_RoleReadFailureIsFatal(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	node := &fake.Node{Role: "AXButton", FailOps: map[string]error{"RoleOf": assert.AnError}}
	_, err := ax.FromHandle(context.Background(), prov, node, nil, nil)
	assert.Error(t, err)
}

func TestAddChild_SetsHasChildrenAndParent(t *testing.T) {
	root := ax.NewSynthetic("AXWindow", "Main")
	child := ax.NewSynthetic("AXButton", "OK")

	assert.False(t, root.HasChildren)
	root.AddChild(child)

	assert.True(t, root.HasChildren)
	require.Len(t, root.Children(), 1)
	assert.Same(t, child, root.Children()[0])
	assert.Same(t, root, child.Parent())
}

func TestDisplayPath(t *testing.T) {
	root := ax.NewSynthetic("AXWindow", "Main")
	toolbar := ax.NewSynthetic("AXToolbar", "Toolbar")
	button := ax.NewSynthetic("AXButton", "OK")
	root.AddChild(toolbar)
	toolbar.AddChild(button)

	assert.Equal(t, "AXWindow[Main]/AXToolbar[Toolbar]/AXButton[OK]", button.DisplayPath())
	assert.Equal(t, "AXWindow[Main]", root.DisplayPath())
}

func TestAttributes_SkipsUnreadableValues(t *testing.T) {
	prov := fake.NewProvider()
	defer prov.Close()

	node := &fake.Node{
		Role: "AXTextField",
		Attributes: map[string]any{
			"AXValue":   "hello",
			"AXEnabled": true,
		},
		FailOps: map[string]error{"AttributeValue:AXEnabled": assert.AnError},
	}
	prov.AddApplication("demo", 1, node)

	el, err := ax.FromHandle(context.Background(), prov, node, nil, nil)
	require.NoError(t, err)

	attrs, err := el.Attributes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", attrs["AXValue"])
	assert.NotContains(t, attrs, "AXEnabled")
}

func TestAttributes_SyntheticElement(t *testing.T) {
	el := ax.NewSynthetic("AXButton", "OK")
	attrs, err := el.Attributes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AXButton", attrs["AXRole"])
	assert.Equal(t, "OK", attrs["AXTitle"])
}
