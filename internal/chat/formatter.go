// Package chat turns planned activities into chat reports and posts them.
package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/locale"
)

// OverindulgeRuleURI addresses the overindulge rule text.
const OverindulgeRuleURI = "downtime://rules/overindulge"

// Outcome tiers in display order.
var tiers = [4]string{"1-3", "4-5", "6", "6,6"}

// Actor identifies who a report speaks for.
type Actor struct {
	CharacterName string
	UserName      string
	CrewName      string
	CrewTier      int
}

// DisplayName is the character name, falling back to the user name.
func (a Actor) DisplayName() string {
	if a.CharacterName != "" {
		return a.CharacterName
	}
	return a.UserName
}

// Formatter renders activity records as Markdown reports.
type Formatter struct {
	catalog *locale.Catalog
}

// NewFormatter returns a formatter; a nil catalog uses the default.
func NewFormatter(catalog *locale.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// Format renders one record. It has no side effects.
func (f *Formatter) Format(rec activity.Record, actor Actor) string {
	switch p := rec.Payload.(type) {
	case *activity.AcquireAsset:
		return f.acquireAsset(p, actor)
	case *activity.LongTermProject:
		return f.longTermProject(p, actor)
	case *activity.Recover:
		return f.recovery(p, actor)
	case *activity.ReduceHeat:
		return f.reduceHeat(p, actor)
	case *activity.Train:
		return f.train(p, actor)
	case *activity.IndulgeVice:
		return f.indulgeVice(p, actor)
	default:
		return f.generic(rec, actor)
	}
}

func (f *Formatter) l(key string) string { return f.catalog.Localize(key) }

func (f *Formatter) acquireAsset(p *activity.AcquireAsset, actor Actor) string {
	r := newReport(f.l("AcquireAsset.Title"))
	r.line(f.catalog.Format("Chat.AcquiringAsset", map[string]any{"character": actor.DisplayName(), "asset": p.AssetName}))
	if p.QualityTier != "" {
		r.row(f.l("Chat.RequiresQualityTier"), p.QualityTier)
	}
	r.row(f.l("Chat.CurrentCrewTier"), strconv.Itoa(actor.CrewTier))

	quality := f.l("Chat.Quality")
	tier := actor.CrewTier
	r.outcomes(f.l("Chat.RollCrewTier"), f.l("Chat.Result"), f.l("Chat.Outcome"), [4]string{
		fmt.Sprintf("%s %d", quality, max(0, tier-1)),
		fmt.Sprintf("%s %d", quality, tier),
		fmt.Sprintf("%s %d", quality, tier+1),
		fmt.Sprintf("%s %d", quality, tier+2),
	})
	if p.AcquiredBefore {
		r.callout(f.l("Chat.PreviouslyAcquiredBonus"))
	}
	if p.RestrictedAsset {
		r.callout(f.l("Chat.RestrictedAssetHeat"))
	}
	return r.String()
}

func (f *Formatter) segments() [4]string {
	return [4]string{f.l("Chat.OneSegment"), f.l("Chat.TwoSegments"), f.l("Chat.ThreeSegments"), f.l("Chat.FiveSegments")}
}

func (f *Formatter) longTermProject(p *activity.LongTermProject, actor Actor) string {
	r := newReport(f.l("LongTermProject.Title"))
	r.line(f.catalog.Format("Chat.WorkingOnProject", map[string]any{"character": actor.DisplayName(), "project": p.ProjectName}))
	r.row(f.l("Chat.ActionRoll"), f.l("Actions."+p.ActionRoll))
	r.outcomes(f.l("Chat.MarkProjectSegments"), f.l("Chat.Result"), f.l("Chat.Outcome"), f.segments())
	return r.String()
}

func (f *Formatter) recovery(p *activity.Recover, actor Actor) string {
	r := newReport(f.l("Recover.Title"))
	r.line(f.catalog.Format("Chat.SeekingTreatment", map[string]any{"character": actor.DisplayName()}))
	r.row(f.l("Chat.HealingMethod"), f.l("Recover.Methods."+p.HealingMethod))
	switch {
	case p.HealingMethod == activity.HealingContact && p.ContactQuality != "":
		r.row(f.l("Recover.ContactQuality"), p.ContactQuality)
	case p.HealingMethod == activity.HealingCrewmate && p.CrewmateTinker != "":
		r.row(f.l("Recover.CrewmateTinker"), p.CrewmateTinker)
	}
	r.outcomes(f.l("Chat.MarkHealingSegments"), f.l("Chat.Result"), f.l("Chat.Outcome"), f.segments())
	return r.String()
}

func (f *Formatter) reduceHeat(p *activity.ReduceHeat, actor Actor) string {
	r := newReport(f.l("ReduceHeat.Title"))
	r.line(f.catalog.Format("Chat.ReducingHeat", map[string]any{"character": actor.DisplayName(), "method": p.HeatReductionMethod}))
	r.row(f.l("Chat.ActionRoll"), f.l("Actions."+p.ActionRoll))
	r.outcomes(f.l("Chat.ReduceHeatRollResult"), f.l("Chat.Result"), f.l("Chat.Outcome"), [4]string{
		f.l("Chat.ReduceHeatBy1"), f.l("Chat.ReduceHeatBy2"), f.l("Chat.ReduceHeatBy3"), f.l("Chat.ReduceHeatBy5"),
	})
	return r.String()
}

func (f *Formatter) train(p *activity.Train, actor Actor) string {
	r := newReport(f.l("Train.Title"))
	r.line(f.catalog.Format("Chat.SpendingDowntimeTraining", map[string]any{"character": actor.DisplayName()}))
	r.row(f.l("Chat.Training"), f.l("Train.Types."+p.TrainingType))
	r.row(f.l("Chat.XPGained"), f.catalog.Format("Chat.XPLabel", map[string]any{"xp": p.XP()}))
	if p.CrewUpgrade {
		r.callout(f.l("Chat.CrewTrainingUpgrade"))
	}
	return r.String()
}

func (f *Formatter) indulgeVice(p *activity.IndulgeVice, actor Actor) string {
	r := newReport(f.l("IndulgeVice.Title"))
	r.line(f.catalog.Format("Chat.IndulgingVice", map[string]any{"character": actor.DisplayName(), "indulgence": p.IndulgenceDescription}))
	r.row(f.l("Chat.VicePurveyor"), p.VicePurveyor)
	r.row(f.l("Chat.ResistanceRoll"), f.l("Attributes."+p.LowestAttribute))
	stress := "0"
	if p.CurrentStress != nil {
		stress = strconv.Itoa(*p.CurrentStress)
	}
	r.row(f.l("Chat.CurrentStress"), stress)
	r.note(f.l("Chat.RollResistance"))
	r.note(f.l("Chat.OverindulgeWarning"))
	r.link(f.l("Chat.WhatHappensOverindulge"), OverindulgeRuleURI)
	return r.String()
}

func (f *Formatter) generic(rec activity.Record, actor Actor) string {
	r := newReport(f.l(activity.TitleKey(rec.Kind)))
	r.line("**" + actor.DisplayName() + "**")
	r.note(f.l("Chat.GenericDetails"))
	return r.String()
}

// report accumulates Markdown blocks separated by blank lines.
type report struct {
	blocks []string
	rows   []string
}

func newReport(title string) *report {
	return &report{blocks: []string{"### " + title}}
}

func (r *report) flushRows() {
	if len(r.rows) > 0 {
		r.blocks = append(r.blocks, strings.Join(r.rows, "\n"))
		r.rows = nil
	}
}

func (r *report) line(text string) {
	r.flushRows()
	r.blocks = append(r.blocks, text)
}

func (r *report) row(label, value string) {
	r.rows = append(r.rows, fmt.Sprintf("- **%s:** %s", label, value))
}

func (r *report) note(text string) {
	r.line("_" + text + "_")
}

func (r *report) callout(text string) {
	r.line("> " + text)
}

func (r *report) link(text, uri string) {
	r.line(fmt.Sprintf("[%s](%s)", text, uri))
}

func (r *report) outcomes(intro, resultHeader, outcomeHeader string, results [4]string) {
	r.note(intro)
	var b strings.Builder
	fmt.Fprintf(&b, "| %s | %s |\n|---|---|", resultHeader, outcomeHeader)
	for i, tier := range tiers {
		fmt.Fprintf(&b, "\n| %s | %s |", tier, results[i])
	}
	r.line(b.String())
}

func (r *report) String() string {
	r.flushRows()
	return strings.Join(r.blocks, "\n\n") + "\n"
}
