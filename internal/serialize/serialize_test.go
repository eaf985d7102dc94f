package serialize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubToken is a minimal Resolvable for serializer tests.
type stubToken struct {
	value any
	err   error
}

func (s *stubToken) Resolve() (any, error) { return s.value, s.err }

type marshalerValue struct{}

func (marshalerValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": "MyTopic"})
}

func TestProperties_BasicFields(t *testing.T) {
	props, err := Properties(struct {
		Name   string
		Count  int
		Rate   float64
		Active bool
	}{"widget", 3, 1.5, true})
	require.NoError(t, err)

	assert.Equal(t, "widget", props["Name"])
	assert.Equal(t, int64(3), props["Count"])
	assert.Equal(t, 1.5, props["Rate"])
	assert.Equal(t, true, props["Active"])
}

func TestProperties_OmitsZeroValues(t *testing.T) {
	props, err := Properties(struct {
		Name  string
		Empty string
		Zero  int
		Off   bool
		List  []string
	}{Name: "only"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Name": "only"}, props)
}

func TestProperties_JSONTagsWin(t *testing.T) {
	props, err := Properties(struct {
		Lower *float64 `json:"MetricIntervalLowerBound"`
		Skip  string   `json:"-"`
	}{Lower: ptr(2.5), Skip: "hidden"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"MetricIntervalLowerBound": 2.5}, props)
}

func TestProperties_NestedStructs(t *testing.T) {
	type inner struct {
		Kind string
	}
	props, err := Properties(struct {
		Config inner
	}{Config: inner{Kind: "step"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Config": map[string]any{"Kind": "step"}}, props)
}

func TestProperties_MarshalerRoundTrips(t *testing.T) {
	props, err := Properties(struct {
		Target marshalerValue
	}{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Target": map[string]any{"Ref": "MyTopic"}}, props)
}

func TestProperties_ResolvableNilOmitted(t *testing.T) {
	props, err := Properties(struct {
		Name    string
		Entries *stubToken
	}{Name: "w", Entries: &stubToken{value: nil}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Name": "w"}, props)
}

func TestProperties_ResolvableEmptyListKept(t *testing.T) {
	props, err := Properties(struct {
		Entries *stubToken
	}{Entries: &stubToken{value: []any{}}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Entries": []any{}}, props)
}

func TestProperties_ResolvableNestedInSlice(t *testing.T) {
	props, err := Properties(struct {
		Targets []any
	}{Targets: []any{&stubToken{value: "arn:one"}, "arn:two"}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Targets": []any{"arn:one", "arn:two"}}, props)
}

func TestProperties_ResolvableErrorPropagates(t *testing.T) {
	cause := errors.New("producer blew up")
	_, err := Properties(struct {
		Entries *stubToken
	}{Entries: &stubToken{err: cause}})
	require.ErrorIs(t, err, cause)
}

func TestProperties_NilTypedResolvableOmitted(t *testing.T) {
	props, err := Properties(struct {
		Name    string
		Entries *stubToken
	}{Name: "w"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Name": "w"}, props)
}

func TestProperties_EmptyResultIsNil(t *testing.T) {
	props, err := Properties(struct {
		Name string
	}{})
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestValue_Scalars(t *testing.T) {
	v, err := Value("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	v, err = Value(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func ptr(f float64) *float64 { return &f }
