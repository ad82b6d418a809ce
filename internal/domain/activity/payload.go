package activity

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rpggio/downtime/internal/domain/character"
)

// Healing methods for Recover.
const (
	HealingContact  = "Contact"
	HealingCrewmate = "Crewmate"
	HealingOther    = "Other"
)

// TrainingPlaybook is the non-attribute training track.
const TrainingPlaybook = "Playbook"

// ActionOptions lists the twelve actions in sheet order.
func ActionOptions() []string {
	actions := character.Actions()
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = string(a)
	}
	return out
}

// AttributeOptions lists the three attributes.
func AttributeOptions() []string {
	attrs := character.Attributes()
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = string(a)
	}
	return out
}

// HealingOptions lists the Recover healing methods.
func HealingOptions() []string {
	return []string{HealingContact, HealingCrewmate, HealingOther}
}

// TrainingOptions lists the Train tracks.
func TrainingOptions() []string {
	return append(AttributeOptions(), TrainingPlaybook)
}

// AcquireAsset is the payload of an acquire-asset activity.
type AcquireAsset struct {
	AssetName       string `json:"assetName"`
	QualityTier     string `json:"qualityTier,omitempty"`
	AcquiredBefore  bool   `json:"acquiredBefore"`
	RestrictedAsset bool   `json:"restrictedAsset"`
}

func (p *AcquireAsset) Kind() Kind { return KindAcquireAsset }

func (p *AcquireAsset) Fields() []Field {
	return []Field{
		{Name: "assetName", LabelKey: "AcquireAsset.AssetName", Type: FieldText, Required: true, Value: p.AssetName},
		{Name: "qualityTier", LabelKey: "AcquireAsset.QualityTier", Type: FieldText, Value: p.QualityTier},
		{Name: "acquiredBefore", LabelKey: "AcquireAsset.AcquiredBefore", Type: FieldCheckbox, Value: boolValue(p.AcquiredBefore)},
		{Name: "restrictedAsset", LabelKey: "AcquireAsset.RestrictedAsset", Type: FieldCheckbox, Value: boolValue(p.RestrictedAsset)},
	}
}

func (p *AcquireAsset) Bind(values map[string]string) error {
	b := newBinder(p.Kind(), values)
	p.AssetName = b.text("assetName", "AcquireAsset.AssetNameRequired")
	p.QualityTier = b.text("qualityTier", "")
	p.AcquiredBefore = b.flag("acquiredBefore")
	p.RestrictedAsset = b.flag("restrictedAsset")
	return b.err()
}

func (p *AcquireAsset) Summary() string { return p.AssetName }

// LongTermProject is the payload of a long-term-project activity.
type LongTermProject struct {
	ProjectName string `json:"projectName"`
	ActionRoll  string `json:"actionRoll"`
}

func (p *LongTermProject) Kind() Kind { return KindLongTermProject }

func (p *LongTermProject) Fields() []Field {
	return []Field{
		{Name: "projectName", LabelKey: "LongTermProject.ProjectName", Type: FieldText, Required: true, Value: p.ProjectName},
		{Name: "actionRoll", LabelKey: "LongTermProject.ActionRoll", Type: FieldSelect, Required: true, Options: ActionOptions(), OptionPrefix: "Actions.", Value: p.ActionRoll},
	}
}

func (p *LongTermProject) Bind(values map[string]string) error {
	b := newBinder(p.Kind(), values)
	p.ProjectName = b.text("projectName", "LongTermProject.ProjectNameRequired")
	p.ActionRoll = b.choice("actionRoll", ActionOptions(), "LongTermProject.ActionRequired")
	return b.err()
}

func (p *LongTermProject) Summary() string {
	return fmt.Sprintf("%s (%s)", p.ProjectName, p.ActionRoll)
}

// Recover is the payload of a recover activity.
type Recover struct {
	HealingMethod  string `json:"healingMethod"`
	ContactQuality string `json:"contactQuality,omitempty"`
	CrewmateTinker string `json:"crewmateTinker,omitempty"`
}

func (p *Recover) Kind() Kind { return KindRecover }

func (p *Recover) Fields() []Field {
	return []Field{
		{Name: "healingMethod", LabelKey: "Recover.HealingMethod", Type: FieldSelect, Required: true, Options: HealingOptions(), OptionPrefix: "Recover.Methods.", Value: p.HealingMethod},
		{
			Name: "contactQuality", LabelKey: "Recover.ContactQuality", Type: FieldText, Value: p.ContactQuality,
			ShowWhen: &Condition{Field: "healingMethod", Equals: HealingContact},
		},
		{
			Name: "crewmateTinker", LabelKey: "Recover.CrewmateTinker", Type: FieldText, Value: p.CrewmateTinker,
			ShowWhen: &Condition{Field: "healingMethod", Equals: HealingCrewmate},
		},
	}
}

func (p *Recover) Bind(values map[string]string) error {
	b := newBinder(p.Kind(), values)
	p.HealingMethod = b.choice("healingMethod", HealingOptions(), "Recover.MethodRequired")
	p.ContactQuality = ""
	p.CrewmateTinker = ""
	switch p.HealingMethod {
	case HealingContact:
		p.ContactQuality = b.text("contactQuality", "")
	case HealingCrewmate:
		p.CrewmateTinker = b.text("crewmateTinker", "")
	}
	return b.err()
}

func (p *Recover) Summary() string { return p.HealingMethod }

// ReduceHeat is the payload of a reduce-heat activity.
type ReduceHeat struct {
	HeatReductionMethod string `json:"heatReductionMethod"`
	ActionRoll          string `json:"actionRoll"`
}

func (p *ReduceHeat) Kind() Kind { return KindReduceHeat }

func (p *ReduceHeat) Fields() []Field {
	return []Field{
		{Name: "heatReductionMethod", LabelKey: "ReduceHeat.Method", Type: FieldTextArea, Required: true, Value: p.HeatReductionMethod},
		{Name: "actionRoll", LabelKey: "ReduceHeat.ActionRoll", Type: FieldSelect, Required: true, Options: ActionOptions(), OptionPrefix: "Actions.", Value: p.ActionRoll},
	}
}

func (p *ReduceHeat) Bind(values map[string]string) error {
	b := newBinder(p.Kind(), values)
	p.HeatReductionMethod = b.text("heatReductionMethod", "ReduceHeat.MethodRequired")
	p.ActionRoll = b.choice("actionRoll", ActionOptions(), "ReduceHeat.ActionRequired")
	return b.err()
}

func (p *ReduceHeat) Summary() string {
	return fmt.Sprintf("%s (%s)", p.HeatReductionMethod, p.ActionRoll)
}

// Train is the payload of a train activity.
type Train struct {
	TrainingType string `json:"trainingType"`
	CrewUpgrade  bool   `json:"crewUpgrade"`
}

func (p *Train) Kind() Kind { return KindTrain }

func (p *Train) Fields() []Field {
	return []Field{
		{Name: "trainingType", LabelKey: "Train.TrainingType", Type: FieldSelect, Required: true, Options: TrainingOptions(), OptionPrefix: "Train.Types.", Value: p.TrainingType},
		{Name: "crewUpgrade", LabelKey: "Train.CrewUpgrade", Type: FieldCheckbox, Value: boolValue(p.CrewUpgrade)},
	}
}

func (p *Train) Bind(values map[string]string) error {
	b := newBinder(p.Kind(), values)
	p.TrainingType = b.choice("trainingType", TrainingOptions(), "Train.TypeRequired")
	p.CrewUpgrade = b.flag("crewUpgrade")
	return b.err()
}

func (p *Train) Summary() string { return p.TrainingType }

// XP is the experience marked by this training.
func (p *Train) XP() int {
	if p.CrewUpgrade {
		return 2
	}
	return 1
}

// IndulgeVice is the payload of an indulge-vice activity. CurrentStress is
// nil until filled in by the player or from the character sheet.
type IndulgeVice struct {
	VicePurveyor          string `json:"vicePurveyor"`
	IndulgenceDescription string `json:"indulgenceDescription"`
	LowestAttribute       string `json:"lowestAttribute"`
	CurrentStress         *int   `json:"currentStress,omitempty"`
}

func (p *IndulgeVice) Kind() Kind { return KindIndulgeVice }

func (p *IndulgeVice) Fields() []Field {
	stress := ""
	if p.CurrentStress != nil {
		stress = strconv.Itoa(*p.CurrentStress)
	}
	return []Field{
		{Name: "vicePurveyor", LabelKey: "IndulgeVice.Purveyor", Type: FieldText, Required: true, Value: p.VicePurveyor},
		{Name: "indulgenceDescription", LabelKey: "IndulgeVice.Indulgence", Type: FieldTextArea, Required: true, Value: p.IndulgenceDescription},
		{Name: "lowestAttribute", LabelKey: "IndulgeVice.LowestAttribute", Type: FieldSelect, Required: true, Options: AttributeOptions(), OptionPrefix: "Attributes.", Value: p.LowestAttribute},
		{Name: "currentStress", LabelKey: "IndulgeVice.CurrentStress", Type: FieldNumber, Required: true, Value: stress},
	}
}

func (p *IndulgeVice) Bind(values map[string]string) error {
	b := newBinder(p.Kind(), values)
	p.VicePurveyor = b.text("vicePurveyor", "IndulgeVice.PurveyorRequired")
	p.IndulgenceDescription = b.text("indulgenceDescription", "IndulgeVice.DescriptionRequired")
	p.LowestAttribute = b.choice("lowestAttribute", AttributeOptions(), "IndulgeVice.AttributeRequired")
	p.CurrentStress = b.integer("currentStress", "IndulgeVice.StressRequired")
	return b.err()
}

func (p *IndulgeVice) Summary() string { return p.IndulgenceDescription }

// AutoFill sets stress and resistance attribute from the sheet where unset.
func (p *IndulgeVice) AutoFill(sheet *character.Sheet) {
	if sheet == nil {
		return
	}
	if p.CurrentStress == nil {
		stress := sheet.Stress
		p.CurrentStress = &stress
	}
	if p.LowestAttribute == "" {
		p.LowestAttribute = string(sheet.LowestAttribute())
	}
}

// Unknown holds a stored record whose kind is no longer registered.
type Unknown struct {
	kind Kind
	Raw  json.RawMessage
}

func (p *Unknown) Kind() Kind      { return p.kind }
func (p *Unknown) Fields() []Field { return nil }
func (p *Unknown) Summary() string { return "" }

func (p *Unknown) Bind(map[string]string) error {
	return fmt.Errorf("%w: %q", ErrUnknownKind, p.kind)
}

func (p *Unknown) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return []byte("null"), nil
	}
	return p.Raw, nil
}
