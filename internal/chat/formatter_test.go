package chat

import (
	"strings"
	"testing"

	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/stretchr/testify/assert"
)

func format(p activity.Payload, actor Actor) string {
	return NewFormatter(nil).Format(activity.Record{ID: "r1", Kind: p.Kind(), Payload: p}, actor)
}

func TestFormatAcquireAsset(t *testing.T) {
	out := format(&activity.AcquireAsset{AssetName: "Carriage", QualityTier: "2", AcquiredBefore: true},
		Actor{CharacterName: "Vex", CrewTier: 2})

	assert.True(t, strings.HasPrefix(out, "### Acquire Asset\n"))
	assert.Contains(t, out, "Vex is acquiring Carriage.")
	assert.Contains(t, out, "- **Requires quality:** 2")
	assert.Contains(t, out, "- **Current crew tier:** 2")
	assert.Contains(t, out, "| 1-3 | Quality 1 |")
	assert.Contains(t, out, "| 4-5 | Quality 2 |")
	assert.Contains(t, out, "| 6 | Quality 3 |")
	assert.Contains(t, out, "| 6,6 | Quality 4 |")
	assert.Contains(t, out, "+1d")
	assert.NotContains(t, out, "+heat")
}

func TestFormatAcquireAssetTierZero(t *testing.T) {
	out := format(&activity.AcquireAsset{AssetName: "Rope", RestrictedAsset: true}, Actor{UserName: "sam"})

	assert.Contains(t, out, "sam is acquiring Rope.")
	assert.NotContains(t, out, "Requires quality")
	assert.Contains(t, out, "| 1-3 | Quality 0 |")
	assert.Contains(t, out, "| 4-5 | Quality 0 |")
	assert.Contains(t, out, "| 6,6 | Quality 2 |")
	assert.Contains(t, out, "+heat")
}

func TestOutcomeTierOrder(t *testing.T) {
	out := format(&activity.LongTermProject{ProjectName: "Tunnel", ActionRoll: "Wreck"}, Actor{CharacterName: "Vex"})
	i1 := strings.Index(out, "| 1-3 | 1 segment |")
	i2 := strings.Index(out, "| 4-5 | 2 segments |")
	i3 := strings.Index(out, "| 6 | 3 segments |")
	i4 := strings.Index(out, "| 6,6 | 5 segments |")
	assert.True(t, i1 >= 0 && i1 < i2 && i2 < i3 && i3 < i4, out)
	assert.Contains(t, out, "- **Action roll:** Wreck")
}

func TestFormatRecover(t *testing.T) {
	out := format(&activity.Recover{HealingMethod: activity.HealingContact, ContactQuality: "3"}, Actor{CharacterName: "Vex"})
	assert.Contains(t, out, "- **Healing method:** A contact")
	assert.Contains(t, out, "- **Contact quality:** 3")
	assert.NotContains(t, out, "Tinker")
	assert.Contains(t, out, "| 6,6 | 5 segments |")

	out = format(&activity.Recover{HealingMethod: activity.HealingCrewmate, ContactQuality: "3", CrewmateTinker: "2"}, Actor{CharacterName: "Vex"})
	assert.Contains(t, out, "- **Crewmate's Tinker rating:** 2")
	assert.NotContains(t, out, "Contact quality")

	out = format(&activity.Recover{HealingMethod: activity.HealingOther}, Actor{CharacterName: "Vex"})
	assert.NotContains(t, out, "Contact quality")
	assert.NotContains(t, out, "Tinker")
}

func TestFormatReduceHeat(t *testing.T) {
	out := format(&activity.ReduceHeat{HeatReductionMethod: "Spread rumors", ActionRoll: "Sway"}, Actor{CharacterName: "Vex"})
	assert.Contains(t, out, "Vex is reducing heat: Spread rumors")
	assert.Contains(t, out, "| 1-3 | Reduce heat by 1 |")
	assert.Contains(t, out, "| 6,6 | Reduce heat by 5 |")
}

func TestFormatTrainXP(t *testing.T) {
	out := format(&activity.Train{TrainingType: "Resolve"}, Actor{CharacterName: "Vex"})
	assert.Contains(t, out, "- **XP gained:** 1 xp")
	assert.NotContains(t, out, "training upgrade")

	out = format(&activity.Train{TrainingType: "Playbook", CrewUpgrade: true}, Actor{CharacterName: "Vex"})
	assert.Contains(t, out, "- **Training:** Playbook")
	assert.Contains(t, out, "- **XP gained:** 2 xp")
	assert.Contains(t, out, "training upgrade")
}

func TestFormatIndulgeVice(t *testing.T) {
	stress := 7
	out := format(&activity.IndulgeVice{
		VicePurveyor: "Tavern", IndulgenceDescription: "Drinking",
		LowestAttribute: "Prowess", CurrentStress: &stress,
	}, Actor{CharacterName: "Vex"})

	assert.Contains(t, out, "Vex is indulging their vice: Drinking")
	assert.Contains(t, out, "- **Vice purveyor:** Tavern")
	assert.Contains(t, out, "- **Resistance roll:** Prowess")
	assert.Contains(t, out, "- **Current stress:** 7")
	assert.Contains(t, out, "overindulge")
	assert.Contains(t, out, "("+OverindulgeRuleURI+")")
}

func TestFormatUnknownKind(t *testing.T) {
	out := NewFormatter(nil).Format(activity.Record{ID: "x", Kind: "heist", Payload: &activity.Unknown{}}, Actor{UserName: "sam"})
	assert.True(t, strings.HasPrefix(out, "### heist\n"))
	assert.Contains(t, out, "**sam**")
}

func TestFormatIsDeterministic(t *testing.T) {
	p := &activity.AcquireAsset{AssetName: "Carriage"}
	actor := Actor{CharacterName: "Vex", CrewTier: 1}
	assert.Equal(t, format(p, actor), format(p, actor))
}

func TestActorDisplayName(t *testing.T) {
	assert.Equal(t, "Vex", Actor{CharacterName: "Vex", UserName: "sam"}.DisplayName())
	assert.Equal(t, "sam", Actor{UserName: "sam"}.DisplayName())
}
