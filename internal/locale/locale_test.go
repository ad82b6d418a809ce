package locale

import (
	"testing"

	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize(t *testing.T) {
	assert.Equal(t, "Acquire Asset", Localize("AcquireAsset.Title"))
	assert.Equal(t, "Missing.Key", Localize("Missing.Key"))
}

func TestFormat(t *testing.T) {
	got := Format("Chat.AcquiringAsset", map[string]any{"character": "Vex", "asset": "a carriage"})
	assert.Equal(t, "Vex is acquiring a carriage.", got)

	assert.Equal(t, "{xp} xp", Format("Chat.XPLabel", nil))
	assert.Equal(t, "2 xp", Format("Chat.XPLabel", map[string]any{"xp": 2}))
}

func TestParseCustomCatalog(t *testing.T) {
	c, err := Parse([]byte("A:\n  B: hello {who}\nC: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello you", c.Format("A.B", map[string]any{"who": "you"}))
	assert.Equal(t, "3", c.Localize("C"))
	assert.False(t, c.Has("A"))

	_, err = Parse([]byte(":\n- ["))
	assert.Error(t, err)
}

func TestNilCatalogUsesDefault(t *testing.T) {
	var c *Catalog
	assert.Equal(t, "Train", c.Localize("Train.Title"))
}

func TestCatalogCoversActivityKeys(t *testing.T) {
	c := Default()
	for _, d := range activity.Descriptors() {
		assert.True(t, c.Has(d.TitleKey), d.TitleKey)
		p := d.New()
		for _, f := range p.Fields() {
			assert.True(t, c.Has(f.LabelKey), f.LabelKey)
		}
	}

	required := []string{
		"AcquireAsset.AssetNameRequired",
		"LongTermProject.ProjectNameRequired",
		"LongTermProject.ActionRequired",
		"Recover.MethodRequired",
		"ReduceHeat.MethodRequired",
		"ReduceHeat.ActionRequired",
		"Train.TypeRequired",
		"IndulgeVice.PurveyorRequired",
		"IndulgeVice.DescriptionRequired",
		"IndulgeVice.AttributeRequired",
		"IndulgeVice.StressRequired",
		activity.MsgInvalidChoice,
		"Rules.Overindulge",
	}
	for _, key := range required {
		assert.True(t, c.Has(key), key)
	}
}
