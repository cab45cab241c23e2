package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/pkg/schema"
	"github.com/dmitrymomot/restbase/pkg/validator"
)

type post struct {
	Title     string `json:"title" validate:"required" sanitize:"strict"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
	Views     int    `json:"views,omitempty"`
	Internal  string `json:"-"`
}

func (p post) Validate() error {
	return validator.Apply(
		validator.RequiredString("title", p.Title),
		validator.MaxLenString("title", p.Title, 10),
	)
}

func TestStructLoad(t *testing.T) {
	t.Parallel()

	s := schema.For[post]()

	t.Run("valid payload is normalized", func(t *testing.T) {
		t.Parallel()
		out, err := s.Load(map[string]any{
			"title":   "<b>Hello</b>",
			"content": "Body",
			"unknown": "ignored",
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello", out["title"])
		assert.Equal(t, "Body", out["content"])
		assert.Equal(t, false, out["published"])
		assert.NotContains(t, out, "unknown")
		assert.NotContains(t, out, "Internal")
	})

	t.Run("missing required fields share one message", func(t *testing.T) {
		t.Parallel()
		_, err := s.Load(map[string]any{})
		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.Equal(t, "title", ve[0].Field)
		assert.Equal(t, "field required", ve[0].Message)
		assert.Equal(t, "content", ve[1].Field)
		assert.Equal(t, "field required", ve[1].Message)
	})

	t.Run("type mismatch reported at location", func(t *testing.T) {
		t.Parallel()
		_, err := s.Load(map[string]any{"title": "ok", "content": "x", "views": "many"})
		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 1)
		assert.Equal(t, "views", ve[0].Field)
		assert.Equal(t, "value is not a valid integer", ve[0].Message)
	})

	t.Run("constraint errors come from Validate", func(t *testing.T) {
		t.Parallel()
		_, err := s.Load(map[string]any{"title": "a very long title", "content": "x"})
		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 1)
		assert.Equal(t, "ensure this value has at most 10 characters", ve[0].Message)
	})

	t.Run("failed fields are not reported twice", func(t *testing.T) {
		t.Parallel()
		_, err := s.Load(map[string]any{"content": "x"})
		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 1)
		assert.Equal(t, "title", ve[0].Field)
	})

	t.Run("null counts as missing", func(t *testing.T) {
		t.Parallel()
		_, err := s.Load(map[string]any{"title": nil, "content": "x"})
		assert.True(t, validator.ExtractValidationErrors(err).Has("title"))
	})

	t.Run("integers survive", func(t *testing.T) {
		t.Parallel()
		out, err := s.Load(map[string]any{"title": "t", "content": "c", "views": 3})
		require.NoError(t, err)
		assert.Equal(t, json.Number("3"), out["views"])
	})
}

func TestFields(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"title", "content", "published", "views"}, schema.For[post]().Fields())
}

func TestForPanicsOnNonStruct(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { schema.For[string]() })
}

func TestDump(t *testing.T) {
	t.Parallel()
	out, err := schema.Dump(post{Title: "a", Content: "b", Views: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "a", "content": "b", "published": false, "views": json.Number("2")}, out)
}
