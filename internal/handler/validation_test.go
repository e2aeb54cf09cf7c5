package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/validator"
)

type formCase struct {
	name  string
	field string
	value any
	ok    bool
}

func bindForm(t *testing.T, dst any, body map[string]any) map[string]string {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return validator.Bind(c, dst)
}

func runFormCases(t *testing.T, valid map[string]any, newDst func() any, cases []formCase) {
	t.Helper()
	require.Nil(t, bindForm(t, newDst(), valid), "base form must be valid")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := make(map[string]any, len(valid))
			for k, v := range valid {
				body[k] = v
			}
			body[tc.field] = tc.value

			fields := bindForm(t, newDst(), body)
			if tc.ok {
				assert.Nil(t, fields)
				return
			}
			require.NotNil(t, fields)
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestTestimonialFormBounds(t *testing.T) {
	valid := map[string]any{
		"student_name": "Ana Lopez",
		"email":        "ana@example.com",
		"class_type":   "salsa on1",
		"rating":       5,
		"content":      "Loved every class with the team.",
	}
	runFormCases(t, valid, func() any { return &model.SubmitTestimonialRequest{} }, []formCase{
		{"rating 0", "rating", 0, false},
		{"rating 1", "rating", 1, true},
		{"rating 5", "rating", 5, true},
		{"rating 6", "rating", 6, false},
		{"name 1 char", "student_name", "A", false},
		{"name 2 chars", "student_name", "Al", true},
		{"name 100 chars", "student_name", strings.Repeat("a", 100), true},
		{"name 101 chars", "student_name", strings.Repeat("a", 101), false},
		{"content 9 chars", "content", strings.Repeat("c", 9), false},
		{"content 10 chars", "content", strings.Repeat("c", 10), true},
		{"content 1000 chars", "content", strings.Repeat("c", 1000), true},
		{"content 1001 chars", "content", strings.Repeat("c", 1001), false},
		{"bad email", "email", "not-an-email", false},
		{"bad video url", "video_url", "vimeo", false},
	})
}

func TestRSVPFormBounds(t *testing.T) {
	valid := map[string]any{
		"name":     "Luis",
		"email":    "luis@example.com",
		"class_id": 3,
		"guests":   0,
	}
	runFormCases(t, valid, func() any { return &model.RSVPRequest{} }, []formCase{
		{"guests -1", "guests", -1, false},
		{"guests 0", "guests", 0, true},
		{"guests 5", "guests", 5, true},
		{"guests 6", "guests", 6, false},
		{"name 1 char", "name", "L", false},
		{"name 101 chars", "name", strings.Repeat("l", 101), false},
		{"phone 6 chars", "phone", "555123", false},
		{"phone 7 chars", "phone", "5551234", true},
		{"phone 21 chars", "phone", strings.Repeat("5", 21), false},
	})
}

func TestContactFormBounds(t *testing.T) {
	valid := map[string]any{
		"name":     "Maria",
		"email":    "maria@example.com",
		"interest": "classes",
		"message":  "Do you have beginner bachata classes?",
	}
	runFormCases(t, valid, func() any { return &model.ContactRequest{} }, []formCase{
		{"name 1 char", "name", "M", false},
		{"name 2 chars", "name", "Mo", true},
		{"name 101 chars", "name", strings.Repeat("m", 101), false},
		{"message 9 chars", "message", strings.Repeat("x", 9), false},
		{"message 10 chars", "message", strings.Repeat("x", 10), true},
		{"message 2000 chars", "message", strings.Repeat("x", 2000), true},
		{"message 2001 chars", "message", strings.Repeat("x", 2001), false},
		{"unknown interest", "interest", "zumba", false},
		{"email too long", "email", strings.Repeat("e", 250) + "@x.io", false},
	})
}

func TestMetricsFormRejectsControlCharacters(t *testing.T) {
	valid := map[string]any{
		"page":    "/schedule",
		"metrics": []map[string]any{{"name": "LCP", "value": 1200}},
	}
	runFormCases(t, valid, func() any { return &model.PerformanceMetricRequest{} }, []formCase{
		{"nul byte", "page", "/a\x00b", false},
		{"newline", "page", "/a\nb", false},
		{"query string", "page", "/events?id=3", true},
	})
}
