// Package autocomplete asks the language model for the description,
// ingredients, allergens and calories of a dish.
package autocomplete

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"digital-menu-api/llm"
	"digital-menu-api/models"

	"go.uber.org/zap"
)

var (
	ErrInvalidRequest = errors.New("invalid auto-complete request")
	ErrBadOutput      = errors.New("model output is not usable")
	ErrUnavailable    = errors.New("auto-complete not available")
)

const (
	maxIngredients = 10
	maxCalories    = 2000
	minDescription = 10
	temperature    = 0.3
)

type Request struct {
	ItemName string          `json:"itemName"`
	ItemType models.ItemType `json:"itemType"`
}

type Result struct {
	Description string                `json:"description"`
	About       string                `json:"about"`
	Ingredients []string              `json:"ingredients"`
	Allergens   []models.AllergenCode `json:"allergens"`
	Calories    int                   `json:"calories"`
}

type Completer interface {
	Chat(ctx context.Context, r llm.ChatRequest) (string, error)
}

type Service struct {
	model Completer
	log   *zap.Logger
}

func NewService(model Completer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{model: model, log: log}
}

func systemPrompt() string {
	codes := make([]string, len(models.AllergenCodes))
	for i, c := range models.AllergenCodes {
		codes[i] = string(c)
	}
	list := strings.Join(codes, ", ")
	return `Sei un esperto di cucina italiana e internazionale. Il tuo compito è fornire informazioni dettagliate su piatti, bevande e prodotti alimentari.

Per ogni piatto fornisci:
1. Una descrizione breve (2-3 frasi) che descriva il piatto in modo appetitoso
2. Una storia/informazione sul piatto (1-2 frasi) che racconti l'origine o curiosità
3. Lista degli ingredienti principali (separati, massimo 10)
4. Allergeni presenti (solo tra questi: ` + list + `)
5. Calorie stimate per 100g di prodotto

Rispondi SOLO con un oggetto JSON valido in questo formato esatto:
{
  "description": "descrizione breve del piatto",
  "about": "storia o curiosità sul piatto",
  "ingredients": ["ingrediente1", "ingrediente2", "ingrediente3"],
  "allergens": ["glutine", "lattosio"],
  "calories": 250
}

IMPORTANTE:
- Non aggiungere testo prima o dopo il JSON
- Usa solo i codici allergeni forniti sopra
- Se un allergene non è presente, non includerlo nell'array
- Le calorie devono essere un numero intero
- Gli ingredienti devono essere singoli, non composti (es: "pomodoro", "mozzarella", non "pomodoro e mozzarella")
- Massimo 10 ingredienti`
}

func userPrompt(name string, t models.ItemType) string {
	noun := "prodotto"
	switch t {
	case models.ItemFood:
		noun = "piatto"
	case models.ItemDessert:
		noun = "dolce"
	}
	return fmt.Sprintf("Fornisci informazioni dettagliate per questo %s: %q", noun, name)
}

// Complete validates the request, runs one JSON mode completion and returns
// the sanitized result.
func (s *Service) Complete(ctx context.Context, req Request) (*Result, error) {
	name := strings.TrimSpace(req.ItemName)
	if name == "" {
		return nil, fmt.Errorf("%w: itemName is missing", ErrInvalidRequest)
	}
	if req.ItemType == "" {
		req.ItemType = models.ItemFood
	}
	if !models.IsItemType(string(req.ItemType)) {
		return nil, fmt.Errorf("%w: itemType %q is not supported", ErrInvalidRequest, req.ItemType)
	}

	out, err := s.model.Chat(ctx, llm.ChatRequest{
		System:      systemPrompt(),
		User:        userPrompt(name, req.ItemType),
		Temperature: temperature,
		JSON:        true,
		Operation:   "autocomplete",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	res, err := Sanitize([]byte(out))
	if err != nil {
		s.log.Warn("unusable auto-complete output", zap.String("item", name), zap.String("output", out), zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Sanitize parses raw model output and keeps only values that fit the
// vocabularies and ranges of an item.
func Sanitize(raw []byte) (*Result, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	res := &Result{
		Description: strings.TrimSpace(asString(data["description"])),
		About:       strings.TrimSpace(asString(data["about"])),
		Ingredients: []string{},
		Allergens:   []models.AllergenCode{},
		Calories:    clampCalories(data["calories"]),
	}
	if list, ok := data["ingredients"].([]any); ok {
		for _, v := range list {
			ing := strings.TrimSpace(asString(v))
			if ing == "" {
				continue
			}
			res.Ingredients = append(res.Ingredients, ing)
			if len(res.Ingredients) == maxIngredients {
				break
			}
		}
	}
	if list, ok := data["allergens"].([]any); ok {
		for _, v := range list {
			if code, ok := v.(string); ok && models.IsAllergenCode(code) {
				res.Allergens = append(res.Allergens, models.AllergenCode(code))
			}
		}
	}
	if len([]rune(res.Description)) < minDescription {
		return nil, fmt.Errorf("%w: description too short", ErrBadOutput)
	}
	return res, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

func clampCalories(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(t), 64)
	}
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(maxCalories, f))))
}
