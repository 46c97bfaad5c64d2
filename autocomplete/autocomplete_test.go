package autocomplete

import (
	"context"
	"errors"
	"strings"
	"testing"

	"digital-menu-api/llm"
)

type stubModel struct {
	out  string
	err  error
	last llm.ChatRequest
	n    int
}

func (m *stubModel) Chat(_ context.Context, r llm.ChatRequest) (string, error) {
	m.n++
	m.last = r
	return m.out, m.err
}

func TestSanitize(t *testing.T) {
	raw := `{
		"description": "  Pane tostato con pomodoro fresco e basilico.  ",
		"about": "Nata nelle campagne del centro Italia.",
		"ingredients": ["pane", " ", "pomodoro", 3, "a","b","c","d","e","f","g","h"],
		"allergens": ["glutine", "gluten", 7, "sedano"],
		"calories": 212.6
	}`
	res, err := Sanitize([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if res.Description != "Pane tostato con pomodoro fresco e basilico." {
		t.Errorf("description = %q", res.Description)
	}
	if len(res.Ingredients) != 10 || res.Ingredients[2] != "3" {
		t.Errorf("ingredients = %v", res.Ingredients)
	}
	if len(res.Allergens) != 2 || res.Allergens[1] != "sedano" {
		t.Errorf("allergens = %v", res.Allergens)
	}
	if res.Calories != 213 {
		t.Errorf("calories = %d", res.Calories)
	}
}

func TestSanitize_Clamp(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"description":"abbastanza lunga","calories":-5}`, 0},
		{`{"description":"abbastanza lunga","calories":99999}`, 2000},
		{`{"description":"abbastanza lunga","calories":"350"}`, 350},
		{`{"description":"abbastanza lunga","calories":"tanti"}`, 0},
	}
	for _, tc := range cases {
		raw, want := tc.raw, tc.want
		res, err := Sanitize([]byte(raw))
		if err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if res.Calories != want {
			t.Errorf("%s: calories = %d, want %d", raw, res.Calories, want)
		}
	}
}

func TestSanitize_Rejects(t *testing.T) {
	for _, raw := range []string{`not json`, `{"description":"corta"}`, `{"ingredients":["x"]}`} {
		if _, err := Sanitize([]byte(raw)); !errors.Is(err, ErrBadOutput) {
			t.Errorf("%s: err = %v", raw, err)
		}
	}
}

func TestComplete(t *testing.T) {
	m := &stubModel{out: `{"description":"Un dolce al cucchiaio con mascarpone.","allergens":["uova"],"calories":300}`}
	res, err := NewService(m, nil).Complete(context.Background(), Request{ItemName: " Tiramisù ", ItemType: "dessert"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Calories != 300 || len(res.Allergens) != 1 || res.Ingredients == nil {
		t.Errorf("res = %+v", res)
	}
	if !m.last.JSON || m.last.Temperature != 0.3 || !strings.Contains(m.last.User, `dolce: "Tiramisù"`) {
		t.Errorf("request = %+v", m.last)
	}
	if !strings.Contains(m.last.System, "frutta_a_guscio") {
		t.Error("system prompt lacks allergen codes")
	}
}

func TestComplete_Validation(t *testing.T) {
	m := &stubModel{}
	svc := NewService(m, nil)
	if _, err := svc.Complete(context.Background(), Request{ItemName: "  "}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("blank name err = %v", err)
	}
	if _, err := svc.Complete(context.Background(), Request{ItemName: "Spritz", ItemType: "aperitivo"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad type err = %v", err)
	}
	if m.n != 0 {
		t.Error("model called on invalid request")
	}
	m.err = llm.ErrEmptyResponse
	if _, err := svc.Complete(context.Background(), Request{ItemName: "Spritz", ItemType: "cocktail"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("model err = %v", err)
	}
}
