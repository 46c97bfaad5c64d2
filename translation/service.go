package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"digital-menu-api/llm"
	"digital-menu-api/models"
	"digital-menu-api/repository"

	"go.uber.org/zap"
)

var (
	ErrInvalidRequest  = errors.New("invalid translation request")
	ErrUnsupportedKind = errors.New("unsupported content kind")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrUnavailable     = errors.New("translation not available")
	ErrPersistence     = errors.New("saving translation failed")
)

// HTTPStatus maps a service error onto the status returned to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnsupportedKind):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

const systemPrompt = "Sei un traduttore professionista per contenuti di ristorazione. " +
	"Mantieni un tono naturale e adatto a descrizioni di menu. " +
	"Non aggiungere informazioni non presenti nel testo. " +
	"Preserva formattazione, emoji e interruzioni di riga. " +
	"Restituisci solo il testo tradotto, senza virgolette né note."

const temperature = 0.2

func userPrompt(lang models.Language, text string) string {
	return fmt.Sprintf("Traduci da italiano a %s il seguente testo.\n\n%s", lang.ItalianName, text)
}

// Translator runs a chat completion.
type Translator interface {
	Chat(ctx context.Context, r llm.ChatRequest) (string, error)
}

// Store persists translation rows and resolves which menu an entity belongs to.
type Store interface {
	UpsertSection(ctx context.Context, t *models.SectionTranslation) error
	UpsertItem(ctx context.Context, t *models.ItemTranslation) error
	UpsertIngredient(ctx context.Context, t *models.IngredientTranslation) error
	UpsertAllergen(ctx context.Context, t *models.AllergenTranslation) error
	SectionOwner(ctx context.Context, sectionID string) (repository.Owner, error)
	ItemOwner(ctx context.Context, itemID string) (repository.Owner, error)
	IngredientOwner(ctx context.Context, ingredientID string) (repository.Owner, error)
	AllergenOwner(ctx context.Context, allergenID string) (repository.Owner, error)
}

type Service struct {
	model Translator
	store Store
	log   *zap.Logger
}

func NewService(model Translator, store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{model: model, store: store, log: log}
}

func validateText(text string, code models.LanguageCode) (models.Language, error) {
	if strings.TrimSpace(text) == "" {
		return models.Language{}, fmt.Errorf("%w: text is missing or empty", ErrInvalidRequest)
	}
	lang, ok := models.LookupLanguage(string(code))
	if !ok {
		return models.Language{}, fmt.Errorf("%w: languageCode %q is missing or not supported", ErrInvalidRequest, code)
	}
	return lang, nil
}

// Validate checks a batch request without touching the model or the store.
func Validate(r Request) error {
	if _, err := validateText(r.Text, r.LanguageCode); err != nil {
		return err
	}
	if r.Kind == "" || r.EntityID == "" {
		return fmt.Errorf("%w: type or entityId is missing", ErrInvalidRequest)
	}
	if _, ok := ParseKind(string(r.Kind)); !ok {
		return fmt.Errorf("%w: type %q is not supported", ErrInvalidRequest, r.Kind)
	}
	return nil
}

// Translate returns text translated from Italian into code without storing it.
func (s *Service) Translate(ctx context.Context, text string, code models.LanguageCode) (string, error) {
	lang, err := validateText(text, code)
	if err != nil {
		return "", err
	}
	return s.complete(ctx, lang, text)
}

func (s *Service) complete(ctx context.Context, lang models.Language, text string) (string, error) {
	out, err := s.model.Chat(ctx, llm.ChatRequest{
		System:      systemPrompt,
		User:        userPrompt(lang, text),
		Temperature: temperature,
		Operation:   "translate",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

// TranslateAndSave translates one unit for the caller and upserts the result
// on (entity, language, field). Menu level kinds have no storage and are
// rejected before the model is called.
func (s *Service) TranslateAndSave(ctx context.Context, ownerID string, r Request) (*Response, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	if !r.Kind.Persisted() {
		return nil, fmt.Errorf("%w: %s translations have no storage", ErrUnsupportedKind, r.Kind)
	}
	if err := s.checkOwner(ctx, ownerID, r); err != nil {
		return nil, err
	}
	lang, _ := models.LookupLanguage(string(r.LanguageCode))
	text, err := s.complete(ctx, lang, r.Text)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, r, text); err != nil {
		s.log.Error("saving translation failed",
			zap.String("type", string(r.Kind)),
			zap.String("entity_id", r.EntityID),
			zap.String("menu_id", r.MenuID),
			zap.String("language", string(r.LanguageCode)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &Response{TranslatedText: text, Saved: true}, nil
}

func (s *Service) checkOwner(ctx context.Context, ownerID string, r Request) error {
	var (
		o   repository.Owner
		err error
	)
	switch r.Kind {
	case KindSectionName, KindSectionDescription:
		o, err = s.store.SectionOwner(ctx, r.EntityID)
	case KindItemName, KindItemDescription:
		o, err = s.store.ItemOwner(ctx, r.EntityID)
	case KindIngredient:
		o, err = s.store.IngredientOwner(ctx, r.EntityID)
	case KindAllergen:
		o, err = s.store.AllergenOwner(ctx, r.EntityID)
	}
	if errors.Is(err, repository.ErrNotFound) || (err == nil && o.OwnerID != ownerID) {
		return fmt.Errorf("%w: %s %s", ErrEntityNotFound, r.Kind, r.EntityID)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, r Request, text string) error {
	switch r.Kind {
	case KindSectionName, KindSectionDescription:
		return s.store.UpsertSection(ctx, &models.SectionTranslation{
			SectionID: r.EntityID, LanguageCode: r.LanguageCode, FieldName: fieldFor(r.Kind), FieldValue: text,
		})
	case KindItemName, KindItemDescription:
		return s.store.UpsertItem(ctx, &models.ItemTranslation{
			ItemID: r.EntityID, LanguageCode: r.LanguageCode, FieldName: fieldFor(r.Kind), FieldValue: text,
		})
	case KindIngredient:
		return s.store.UpsertIngredient(ctx, &models.IngredientTranslation{
			IngredientID: r.EntityID, LanguageCode: r.LanguageCode, Name: text,
		})
	case KindAllergen:
		return s.store.UpsertAllergen(ctx, &models.AllergenTranslation{
			AllergenID: r.EntityID, LanguageCode: r.LanguageCode, DisplayName: text,
		})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedKind, r.Kind)
}

func fieldFor(k Kind) models.TranslatableField {
	if k.IsName() {
		return models.FieldName
	}
	return models.FieldDescription
}
