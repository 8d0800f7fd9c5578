package validate

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groszeck/taxena-netlify/internal/apperr"
)

type eventInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
	Start       string  `json:"start" validate:"required,isodate"`
	End         string  `json:"end" validate:"required,isodate"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft sent"`
}

func (e eventInput) CheckFields() []string {
	return EndNotBefore("start", e.Start, "end", e.End)
}

type formInput struct {
	Name string          `json:"name" validate:"required"`
	Data json.RawMessage `json:"data" validate:"required,jsonobject"`
}

func decodeBody(t *testing.T, body string, dst any) error {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	return Decode(httptest.NewRecorder(), req, 1024, dst)
}

func requireInvalid(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	e := apperr.As(err)
	require.Equal(t, apperr.InvalidRequest, e.Kind)
	return e.Message
}

func TestStructCollectsEveryViolation(t *testing.T) {
	var in eventInput
	require.NoError(t, decodeBody(t, `{"start":"tomorrow","amount":-1,"status":"paid"}`, &in))

	msg := requireInvalid(t, Struct(&in))
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "start must be a valid ISO 8601 date")
	assert.Contains(t, msg, "end is required")
	assert.Contains(t, msg, "amount must be greater than or equal to 0")
	assert.Contains(t, msg, "status must be one of: draft, sent")
}

func TestStructCrossFieldRule(t *testing.T) {
	in := eventInput{Title: "Review", Start: "2024-05-02T10:00:00Z", End: "2024-05-01T10:00:00Z"}
	msg := requireInvalid(t, Struct(&in))
	assert.Equal(t, "end must be on or after start", msg)

	in.End = "2024-05-02T10:00:00Z"
	require.NoError(t, Struct(&in))
}

func TestStructLengthBounds(t *testing.T) {
	long := strings.Repeat("x", 1001)
	in := eventInput{Title: "ok", Description: &long, Start: "2024-05-01", End: "2024-05-01"}
	msg := requireInvalid(t, Struct(&in))
	assert.Equal(t, "description must be at most 1000 characters", msg)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	var in eventInput
	require.NoError(t, decodeBody(t, `{"title":"x","companyId":"someone-else","extra":true}`, &in))
	assert.Equal(t, "x", in.Title)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	var in eventInput
	msg := requireInvalid(t, decodeBody(t, `{"title":`, &in))
	assert.Equal(t, "invalid JSON body", msg)
}

func TestDecodeReportsTypeMismatch(t *testing.T) {
	var in eventInput
	msg := requireInvalid(t, decodeBody(t, `{"amount":"lots"}`, &in))
	assert.Equal(t, "amount must be a number", msg)
}

func TestDecodeEmptyBody(t *testing.T) {
	var in eventInput
	require.NoError(t, decodeBody(t, ``, &in))
	msg := requireInvalid(t, Struct(&in))
	assert.Contains(t, msg, "title is required")
}

func TestDecodeTooLarge(t *testing.T) {
	var in eventInput
	err := decodeBody(t, `{"title":"`+strings.Repeat("a", 2048)+`"}`, &in)
	require.Error(t, err)
	assert.Equal(t, apperr.PayloadTooLarge, apperr.As(err).Kind)
}

func TestJSONObjectRule(t *testing.T) {
	var in formInput
	require.NoError(t, decodeBody(t, `{"name":"Intake","data":[1,2]}`, &in))
	msg := requireInvalid(t, Struct(&in))
	assert.Equal(t, "data must be a JSON object", msg)

	in = formInput{}
	require.NoError(t, decodeBody(t, `{"name":"Intake","data":{"fields":[]}}`, &in))
	require.NoError(t, Struct(&in))
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2024-01-31", "2024-01-31T10:20:30Z", "2024-01-31T10:20:30.123+02:00"} {
		_, err := ParseDate(raw)
		assert.NoError(t, err, raw)
	}
	_, err := ParseDate("31/01/2024")
	assert.Error(t, err)
}
