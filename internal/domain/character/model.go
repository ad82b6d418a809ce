package character

import "strings"

// Attribute is one of the three attribute groups on a character sheet.
type Attribute string

const (
	Insight Attribute = "Insight"
	Prowess Attribute = "Prowess"
	Resolve Attribute = "Resolve"
)

// Action is a single action rating under an attribute.
type Action string

const (
	Hunt     Action = "Hunt"
	Study    Action = "Study"
	Survey   Action = "Survey"
	Tinker   Action = "Tinker"
	Finesse  Action = "Finesse"
	Prowl    Action = "Prowl"
	Skirmish Action = "Skirmish"
	Wreck    Action = "Wreck"
	Attune   Action = "Attune"
	Command  Action = "Command"
	Consort  Action = "Consort"
	Sway     Action = "Sway"
)

// attributeOrder is also the tie-break preference for LowestAttribute.
var attributeOrder = []Attribute{Insight, Prowess, Resolve}

var attributeActions = map[Attribute][]Action{
	Insight: {Hunt, Study, Survey, Tinker},
	Prowess: {Finesse, Prowl, Skirmish, Wreck},
	Resolve: {Attune, Command, Consort, Sway},
}

// Attributes returns the attributes in sheet order.
func Attributes() []Attribute {
	return append([]Attribute(nil), attributeOrder...)
}

// Actions returns all twelve actions in sheet order.
func Actions() []Action {
	actions := make([]Action, 0, 12)
	for _, attr := range attributeOrder {
		actions = append(actions, attributeActions[attr]...)
	}
	return actions
}

// ActionsFor returns the actions grouped under an attribute.
func ActionsFor(attr Attribute) []Action {
	return append([]Action(nil), attributeActions[attr]...)
}

// ParseAction matches an action name case-insensitively.
func ParseAction(name string) (Action, bool) {
	for _, action := range Actions() {
		if strings.EqualFold(string(action), strings.TrimSpace(name)) {
			return action, true
		}
	}
	return "", false
}

// Sheet is the read-only view of a player character used by the planner.
type Sheet struct {
	UserID string         `json:"user_id" yaml:"user_id"`
	Name   string         `json:"name" yaml:"name"`
	Stress int            `json:"stress" yaml:"stress"`
	Trauma int            `json:"trauma" yaml:"trauma"`
	CrewID string         `json:"crew_id,omitempty" yaml:"crew_id,omitempty"`
	Dots   map[Action]int `json:"dots,omitempty" yaml:"dots,omitempty"`
}

// Rating counts the actions under attr that have at least one dot.
func (s *Sheet) Rating(attr Attribute) int {
	if s == nil {
		return 0
	}
	rating := 0
	for _, action := range attributeActions[attr] {
		if s.Dots[action] > 0 {
			rating++
		}
	}
	return rating
}

// LowestAttribute returns the attribute with the smallest rating.
// Ties go to the earlier attribute: Insight, then Prowess, then Resolve.
func (s *Sheet) LowestAttribute() Attribute {
	lowest := attributeOrder[0]
	lowestRating := s.Rating(lowest)
	for _, attr := range attributeOrder[1:] {
		if r := s.Rating(attr); r < lowestRating {
			lowest, lowestRating = attr, r
		}
	}
	return lowest
}

// Crew is the gang a character belongs to.
type Crew struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Tier int    `json:"tier" yaml:"tier"`
}
