package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/dialog"
	"github.com/rpggio/downtime/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

type elicitorStub struct {
	elicitFn func(context.Context, *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error)
	params   []*sdkmcp.ElicitParams
}

func (e *elicitorStub) Elicit(ctx context.Context, params *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) {
	e.params = append(e.params, params)
	return e.elicitFn(ctx, params)
}

func answer(action string, content map[string]any) func(context.Context, *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) {
	return func(context.Context, *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) {
		return &sdkmcp.ElicitResult{Action: action, Content: content}, nil
	}
}

func TestFormSchema(t *testing.T) {
	stress := 3
	fields := (&activity.Recover{HealingMethod: activity.HealingContact}).Fields()
	fields = append(fields, (&activity.IndulgeVice{CurrentStress: &stress}).Fields()...)
	fields = append(fields, (&activity.Train{CrewUpgrade: true}).Fields()...)

	schema := formSchema(fields)
	require.Equal(t, "object", schema.Type)
	require.Empty(t, schema.Required)

	method := schema.Properties["healingMethod"]
	require.Equal(t, "string", method.Type)
	require.Len(t, method.Enum, len(activity.HealingOptions()))
	require.Nil(t, method.Default)
	require.Contains(t, method.Description, "required")
	require.Contains(t, method.Description, "current: Contact")

	contact := schema.Properties["contactQuality"]
	require.Contains(t, contact.Description, "only when healingMethod is Contact")
	require.NotContains(t, contact.Description, "required")

	currentStress := schema.Properties["currentStress"]
	require.Equal(t, "integer", currentStress.Type)
	require.Nil(t, currentStress.Default)
	require.Contains(t, currentStress.Description, "current: 3")

	upgrade := schema.Properties["crewUpgrade"]
	require.Equal(t, "boolean", upgrade.Type)
	require.Nil(t, upgrade.Default)
	require.Contains(t, upgrade.Description, "current: yes")
}

func TestFormSchemaAcceptsEmptyContent(t *testing.T) {
	for _, kind := range activity.Kinds() {
		p, err := activity.NewPayload(kind)
		require.NoError(t, err)
		resolved, err := formSchema(p.Fields()).Resolve(nil)
		require.NoError(t, err, kind)

		var content map[string]any
		require.NoError(t, resolved.Validate(content), kind)
		require.NoError(t, resolved.ApplyDefaults(&content), kind)
		require.Nil(t, content, kind)
	}
}

func TestFormValues(t *testing.T) {
	fields := []activity.Field{
		{Name: "assetName", Type: activity.FieldText},
		{Name: "acquiredBefore", Type: activity.FieldCheckbox},
		{Name: "restrictedAsset", Type: activity.FieldCheckbox},
		{Name: "currentStress", Type: activity.FieldNumber},
		{Name: "qualityTier", Type: activity.FieldText},
	}
	values := formValues(fields, map[string]any{
		"assetName":       "Carriage",
		"acquiredBefore":  true,
		"restrictedAsset": false,
		"currentStress":   float64(4),
		"ignored":         "x",
	})
	require.Equal(t, map[string]string{
		"assetName":       "Carriage",
		"acquiredBefore":  "true",
		"restrictedAsset": "",
		"currentStress":   "4",
	}, values)
}

func TestElicitHost_Prompt(t *testing.T) {
	ctx := context.Background()
	form := dialog.Form{
		ID:          "train",
		Title:       "Train",
		Description: "Mark experience.",
		Fields:      (&activity.Train{}).Fields(),
		Warnings:    []string{"Please choose what you train."},
	}

	stub := &elicitorStub{elicitFn: answer("accept", map[string]any{"trainingType": "Insight"})}
	resp, err := newElicitHost(stub).Prompt(ctx, form)
	require.NoError(t, err)
	require.Equal(t, dialog.ActionConfirm, resp.Action)
	require.Equal(t, map[string]string{"trainingType": "Insight"}, resp.Values)
	require.Contains(t, stub.params[0].Message, "Mark experience.")
	require.Contains(t, stub.params[0].Message, "! Please choose what you train.")

	stub.elicitFn = answer("decline", nil)
	resp, err = newElicitHost(stub).Prompt(ctx, form)
	require.NoError(t, err)
	require.Equal(t, dialog.ActionCancel, resp.Action)

	stub.elicitFn = answer("cancel", nil)
	resp, err = newElicitHost(stub).Prompt(ctx, form)
	require.NoError(t, err)
	require.Equal(t, dialog.ActionDismiss, resp.Action)

	boom := errors.New("transport closed")
	stub.elicitFn = func(context.Context, *sdkmcp.ElicitParams) (*sdkmcp.ElicitResult, error) { return nil, boom }
	_, err = newElicitHost(stub).Prompt(ctx, form)
	require.ErrorIs(t, err, boom)

	_, err = newElicitHost(nil).Prompt(ctx, form)
	require.ErrorIs(t, err, ErrNoElicitation)
}

func TestElicitHost_Confirm(t *testing.T) {
	ctx := context.Background()
	stub := &elicitorStub{elicitFn: answer("accept", map[string]any{"confirm": true})}
	host := newElicitHost(stub)

	ok, err := host.Confirm(ctx, "Confirm", "Start over?")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Start over?", stub.params[0].Message)

	stub.elicitFn = answer("accept", map[string]any{"confirm": false})
	ok, err = host.Confirm(ctx, "Confirm", "Start over?")
	require.NoError(t, err)
	require.False(t, ok)

	stub.elicitFn = answer("accept", nil)
	ok, err = host.Confirm(ctx, "Confirm", "Start over?")
	require.NoError(t, err)
	require.True(t, ok)

	stub.elicitFn = answer("decline", nil)
	ok, err = host.Confirm(ctx, "Confirm", "Start over?")
	require.NoError(t, err)
	require.False(t, ok)

	stub.elicitFn = answer("cancel", nil)
	_, err = host.Confirm(ctx, "Confirm", "Start over?")
	require.ErrorIs(t, err, dialog.ErrDismissed)
}

func TestElicitHost_Warn(t *testing.T) {
	host := newElicitHost(nil)
	host.Warn(context.Background(), "first")
	host.Warn(context.Background(), "second")
	require.Equal(t, []string{"first", "second"}, host.Notices())
}

func TestElicitHost_ConfirmSchemaHasNoDefault(t *testing.T) {
	stub := &elicitorStub{elicitFn: answer("decline", nil)}
	_, err := newElicitHost(stub).Confirm(context.Background(), "Confirm", "Start over?")
	require.NoError(t, err)

	schema := stub.params[0].RequestedSchema.(*jsonschema.Schema)
	require.Empty(t, schema.Required)
	for name, prop := range schema.Properties {
		require.Nil(t, prop.Default, name)
	}
}
