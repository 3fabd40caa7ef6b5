package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadTransitions(t *testing.T) {
	s := UploadIdle
	s, err := s.Transition(UploadUploading)
	require.NoError(t, err)
	s, err = s.Transition(UploadSuccess)
	require.NoError(t, err)
	assert.Equal(t, UploadSuccess, s)

	_, err = UploadIdle.Transition(UploadSuccess)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = UploadUploading.Transition(UploadIdle)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPassword(t *testing.T) {
	var p Password
	require.NoError(t, p.Set("correct horse"))

	ok, err := p.Matches("correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplicationField(t *testing.T) {
	app := &Application{
		ID:              "abc",
		PartnerFullName: "Jane Doe",
		CustomScheduleA: json.RawMessage(`{"a":1}`),
		CustomTerms:     json.RawMessage(`null`),
	}

	v, ok := app.Field("partner_full_name")
	assert.True(t, ok)
	assert.Equal(t, "Jane Doe", v)

	v, _ = app.Field("custom_schedule_a")
	assert.Equal(t, `{"a":1}`, v)

	v, _ = app.Field("custom_terms")
	assert.Equal(t, "", v)

	_, ok = app.Field("no_such_column")
	assert.False(t, ok)
}

func TestAgentOrDefault(t *testing.T) {
	assert.Equal(t, DefaultAgent, (&Application{}).AgentOrDefault())
	assert.Equal(t, "smith", (&Application{Agent: "smith"}).AgentOrDefault())
}

func TestFormDataRoundTrip(t *testing.T) {
	form := FormData{PartnerFullName: "Jane", W9TIN: "123456789", SignatureDate: "2025-01-02"}
	var app Application
	form.Apply(&app)
	assert.Equal(t, form, app.FormData())
}

func TestMissingRequired(t *testing.T) {
	missing := FormData{PartnerFullName: "Jane", W9TaxClassification: "llc"}.MissingRequired()
	assert.NotContains(t, missing, "partnerFullName")
	assert.NotContains(t, missing, "w9TaxClassification")
	assert.Contains(t, missing, "partnerEmail")
	assert.Contains(t, missing, "w9LlcClassification")
}

func TestStringFieldsCopy(t *testing.T) {
	fields := StringFields()
	fields[0].Column = "mutated"
	assert.Equal(t, "status", StringFields()[0].Column)
}
