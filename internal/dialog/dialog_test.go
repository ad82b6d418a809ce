package dialog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/rpggio/downtime/internal/domain/character"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers forms in order and records what it was shown.
type scriptedPrompter struct {
	mu        sync.Mutex
	responses []Response
	forms     []Form
}

func (p *scriptedPrompter) Prompt(_ context.Context, form Form) (Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forms = append(p.forms, form)
	if len(p.responses) == 0 {
		return Response{Action: ActionDismiss}, nil
	}
	resp := p.responses[0]
	p.responses = p.responses[1:]
	return resp, nil
}

func confirm(values map[string]string) Response {
	return Response{Action: ActionConfirm, Values: values}
}

// blockingPrompter waits until ctx ends.
type blockingPrompter struct {
	started chan struct{}
}

func (p *blockingPrompter) Prompt(ctx context.Context, _ Form) (Response, error) {
	close(p.started)
	<-ctx.Done()
	return Response{}, ctx.Err()
}

func TestStepDialogConfirm(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{"assetName": " Fine cloak ", "restrictedAsset": "true"}),
	}}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindAcquireAsset)
	require.NoError(t, err)

	payload, err := d.Present(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &activity.AcquireAsset{AssetName: "Fine cloak", RestrictedAsset: true}, payload)

	require.Len(t, prompter.forms, 1)
	form := prompter.forms[0]
	assert.Equal(t, "acquire-asset", form.ID)
	assert.Equal(t, "Acquire Asset", form.Title)
	assert.Equal(t, "Asset", form.Fields[0].Label)
	assert.True(t, d.Result().Resolved())
}

func TestStepDialogRepromptsOnValidation(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{"assetName": "   ", "qualityTier": "2"}),
		confirm(map[string]string{"assetName": "Lockpicks"}),
	}}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindAcquireAsset)
	require.NoError(t, err)

	payload, err := d.Present(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Lockpicks", payload.(*activity.AcquireAsset).AssetName)
	assert.Equal(t, "2", payload.(*activity.AcquireAsset).QualityTier)

	require.Len(t, prompter.forms, 2)
	retry := prompter.forms[1]
	assert.Equal(t, []string{"Please enter the asset you want to acquire."}, retry.Warnings)
	assert.Equal(t, "2", retry.Values()["qualityTier"])
}

func TestStepDialogNonIntegerStressBlocksConfirm(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{
			"vicePurveyor": "Tavern", "indulgenceDescription": "Drinking",
			"lowestAttribute": "Resolve", "currentStress": "lots",
		}),
	}}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindIndulgeVice)
	require.NoError(t, err)

	_, err = d.Present(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCancelled)
	require.Len(t, prompter.forms, 2)
	assert.Contains(t, prompter.forms[1].Warnings, "Please enter your current stress as a whole number.")
}

func TestStepDialogCancelAndDismiss(t *testing.T) {
	for _, action := range []Action{ActionCancel, ActionDismiss} {
		prompter := &scriptedPrompter{responses: []Response{{Action: action}}}
		d, err := Factory{Prompter: prompter}.ForKind(activity.KindTrain)
		require.NoError(t, err)

		payload, err := d.Present(context.Background(), nil)
		assert.Nil(t, payload)
		assert.ErrorIs(t, err, ErrCancelled)
	}

	errPrompter := PrompterFunc(func(context.Context, Form) (Response, error) {
		return Response{}, ErrDismissed
	})
	d, err := Factory{Prompter: errPrompter}.ForKind(activity.KindTrain)
	require.NoError(t, err)
	_, err = d.Present(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestStepDialogPrompterFailure(t *testing.T) {
	boom := errors.New("boom")
	d, err := Factory{Prompter: PrompterFunc(func(context.Context, Form) (Response, error) {
		return Response{}, boom
	})}.ForKind(activity.KindTrain)
	require.NoError(t, err)

	_, err = d.Present(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestStepDialogSingleShot(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{confirm(map[string]string{"trainingType": "Playbook"})}}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindTrain)
	require.NoError(t, err)

	_, err = d.Present(context.Background(), nil)
	require.NoError(t, err)
	_, err = d.Present(context.Background(), nil)
	assert.ErrorIs(t, err, ErrDialogUsed)
}

func TestStepDialogEditPrefill(t *testing.T) {
	existing := &activity.LongTermProject{ProjectName: "Map the sewers", ActionRoll: "Survey"}
	prompter := &scriptedPrompter{responses: []Response{confirm(map[string]string{"actionRoll": "Study"})}}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindLongTermProject)
	require.NoError(t, err)

	payload, err := d.Present(context.Background(), existing)
	require.NoError(t, err)
	assert.Equal(t, &activity.LongTermProject{ProjectName: "Map the sewers", ActionRoll: "Study"}, payload)
	assert.Equal(t, "Survey", existing.ActionRoll)

	field := prompter.forms[0].Fields[1]
	assert.Equal(t, "Survey", field.Value)
	assert.Equal(t, "Survey", field.OptionLabels[2])
}

func TestStepDialogKindMismatch(t *testing.T) {
	d, err := Factory{Prompter: &scriptedPrompter{}}.ForKind(activity.KindTrain)
	require.NoError(t, err)
	_, err = d.Present(context.Background(), &activity.Recover{})
	assert.ErrorIs(t, err, activity.ErrKindMismatch)
}

func TestIndulgeViceAutoFillFromSheet(t *testing.T) {
	sheet := &character.Sheet{Stress: 3, Dots: map[character.Action]int{character.Hunt: 1, character.Prowl: 1}}
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{"vicePurveyor": "Helene", "indulgenceDescription": "Opera"}),
	}}
	d, err := Factory{Prompter: prompter, Sheet: sheet}.ForKind(activity.KindIndulgeVice)
	require.NoError(t, err)

	payload, err := d.Present(context.Background(), nil)
	require.NoError(t, err)
	iv := payload.(*activity.IndulgeVice)
	assert.Equal(t, "Resolve", iv.LowestAttribute)
	require.NotNil(t, iv.CurrentStress)
	assert.Equal(t, 3, *iv.CurrentStress)

	values := prompter.forms[0].Values()
	assert.Equal(t, "3", values["currentStress"])
}

func TestIndulgeViceWithoutSheet(t *testing.T) {
	prompter := &scriptedPrompter{}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindIndulgeVice)
	require.NoError(t, err)

	_, err = d.Present(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCancelled)
	values := prompter.forms[0].Values()
	assert.Empty(t, values["currentStress"])
	assert.Empty(t, values["lowestAttribute"])
}

func TestStepDialogCloseFromAnotherGoroutine(t *testing.T) {
	prompter := &blockingPrompter{started: make(chan struct{})}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindRecover)
	require.NoError(t, err)

	go func() {
		<-prompter.started
		d.Close()
		d.Close()
	}()

	_, err = d.Present(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestStepDialogContextCancel(t *testing.T) {
	prompter := &blockingPrompter{started: make(chan struct{})}
	d, err := Factory{Prompter: prompter}.ForKind(activity.KindRecover)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-prompter.started
		cancel()
	}()

	_, err = d.Present(ctx, nil)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestForKindUnknown(t *testing.T) {
	_, err := Factory{Prompter: &scriptedPrompter{}}.ForKind("heist")
	assert.ErrorIs(t, err, activity.ErrUnknownKind)
}

func TestPendingResolvesOnce(t *testing.T) {
	p := NewPending[int]()
	assert.False(t, p.Resolved())

	var wg sync.WaitGroup
	wins := make(chan bool, 10)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- p.Resolve(i, nil)
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for w := range wins {
		if w {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.True(t, p.Resolved())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := p.Wait(ctx)
	assert.NoError(t, err)
}

func TestPendingWaitHonoursContext(t *testing.T) {
	p := NewPending[string]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectorChoosesKind(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{FieldActivityType: "train"}),
		confirm(map[string]string{"trainingType": "insight", "crewUpgrade": "true"}),
	}}
	sel := NewSelector(Factory{Prompter: prompter})

	got, err := sel.Present(context.Background())
	require.NoError(t, err)
	assert.Equal(t, activity.KindTrain, got.Kind)
	assert.Equal(t, &activity.Train{TrainingType: "Insight", CrewUpgrade: true}, got.Payload)

	first := prompter.forms[0]
	assert.Equal(t, "select-activity", first.ID)
	require.Len(t, first.Fields, 1)
	assert.Len(t, first.Fields[0].Options, 6)
	assert.Equal(t, "Acquire Asset", first.Fields[0].OptionLabels[0])

	_, err = sel.Present(context.Background())
	assert.ErrorIs(t, err, ErrDialogUsed)
}

func TestSelectorAcceptsTitle(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{FieldActivityType: "Reduce Heat"}),
		confirm(map[string]string{"heatReductionMethod": "Bribes", "actionRoll": "Consort"}),
	}}
	got, err := NewSelector(Factory{Prompter: prompter}).Present(context.Background())
	require.NoError(t, err)
	assert.Equal(t, activity.KindReduceHeat, got.Kind)
}

func TestSelectorRepromptsOnBadChoice(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{FieldActivityType: "heist"}),
		{Action: ActionCancel},
	}}
	_, err := NewSelector(Factory{Prompter: prompter}).Present(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	require.Len(t, prompter.forms, 2)
	assert.NotEmpty(t, prompter.forms[1].Warnings)
}

func TestSelectorNestedCancel(t *testing.T) {
	prompter := &scriptedPrompter{responses: []Response{
		confirm(map[string]string{FieldActivityType: "recover"}),
		{Action: ActionCancel},
	}}
	sel := NewSelector(Factory{Prompter: prompter})
	_, err := sel.Present(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.True(t, sel.Result().Resolved())
}

func TestSelectorCloseReachesChild(t *testing.T) {
	started := make(chan struct{}, 2)
	prompter := PrompterFunc(func(ctx context.Context, form Form) (Response, error) {
		if form.ID == "select-activity" {
			return confirm(map[string]string{FieldActivityType: "train"}), nil
		}
		started <- struct{}{}
		<-ctx.Done()
		return Response{}, ctx.Err()
	})
	sel := NewSelector(Factory{Prompter: prompter})
	go func() {
		<-started
		sel.Close()
	}()

	_, err := sel.Present(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}
