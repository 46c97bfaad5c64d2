package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"digital-menu-api/autocomplete"
	"digital-menu-api/handlers"
	"digital-menu-api/imagegen"
	"digital-menu-api/llm"
	"digital-menu-api/metrics"
	"digital-menu-api/middleware"
	"digital-menu-api/models"
	"digital-menu-api/repository"
	"digital-menu-api/storage"
	"digital-menu-api/testdb"
	"digital-menu-api/translation"
	"digital-menu-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type stubModel struct {
	mu        sync.Mutex
	chatCalls int
	reply     string
	jsonReply string
	err       error
}

func (m *stubModel) Chat(_ context.Context, r llm.ChatRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls++
	if m.err != nil {
		return "", m.err
	}
	if r.JSON {
		return m.jsonReply, nil
	}
	return m.reply, nil
}

func (m *stubModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatCalls
}

func (m *stubModel) GenerateImage(context.Context, llm.ImageRequest) ([]byte, error) {
	return pngBytes, nil
}

func (m *stubModel) ImageVariation(context.Context, llm.ReferenceImage, llm.ImageRequest) ([]byte, error) {
	return pngBytes, nil
}

type harness struct {
	t       *testing.T
	router  *gin.Engine
	model   *stubModel
	storage *storage.Local
	repos   *repository.Repositories
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterGin(); err != nil {
		t.Fatalf("register validators: %v", err)
	}

	repos := repository.New(testdb.Open(t))
	model := &stubModel{reply: "Toasted bread"}
	m := metrics.New("test", prometheus.NewRegistry())
	store := storage.NewLocal(t.TempDir(), "http://cdn.test/storage", m, nil)

	h := &handlers.Handler{
		Repos:        repos,
		Auth:         middleware.NewAuth("test-secret", time.Hour),
		Translator:   translation.NewService(model, repos.Translations, nil),
		Collector:    translation.NewCollector(repos.Items, 2, nil),
		Jobs:         translation.NewJobRunner(repos.Jobs, m, nil),
		AutoComplete: autocomplete.NewService(model, nil),
		Images:       imagegen.NewGenerator(model, store, nil),
		Storage:      store,
		Metrics:      m,
		MaxInFlight:  1,
	}
	return &harness{t: t, router: NewRouter(h, zap.NewNop(), nil), model: model, storage: store, repos: repos}
}

func (h *harness) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// expect decodes the response after checking its status.
func (h *harness) expect(w *httptest.ResponseRecorder, status int) map[string]interface{} {
	h.t.Helper()
	if w.Code != status {
		h.t.Fatalf("status = %d, want %d; body: %s", w.Code, status, w.Body.String())
	}
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		h.t.Fatalf("decode body: %v; body: %s", err, w.Body.String())
	}
	return out
}

type account struct {
	token string
	id    string
}

func (h *harness) register(email string) account {
	h.t.Helper()
	body := h.expect(h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Owner", "email": email, "password": "password123",
	}), http.StatusCreated)
	user := body["user"].(map[string]interface{})
	return account{token: body["token"].(string), id: user["id"].(string)}
}

type fixture struct {
	owner     account
	menuID    string
	sectionID string
	itemID    string
}

func (h *harness) seed() fixture {
	h.t.Helper()
	owner := h.register("owner@example.com")

	menu := h.expect(h.do(http.MethodPost, "/api/menus", owner.token, map[string]string{
		"name": "Pranzo", "description": "Menu del giorno",
	}), http.StatusCreated)["menu"].(map[string]interface{})

	section := h.expect(h.do(http.MethodPost, "/api/menus/"+menu["id"].(string)+"/sections", owner.token, map[string]string{
		"name": "Antipasti",
	}), http.StatusCreated)["section"].(map[string]interface{})

	item := h.expect(h.do(http.MethodPost, "/api/sections/"+section["id"].(string)+"/items", owner.token, map[string]interface{}{
		"item_type":    "food",
		"name":         "Bruschetta",
		"description":  "Pane tostato con pomodoro",
		"price":        6.5,
		"ingredients":  []map[string]string{{"name": "Pane"}, {"name": "Pomodoro"}},
		"allergens":    []string{"glutine"},
		"dietary_tags": []string{"vegano"},
	}), http.StatusCreated)["item"].(map[string]interface{})

	return fixture{owner: owner, menuID: menu["id"].(string), sectionID: section["id"].(string), itemID: item["id"].(string)}
}

func TestPublicRoutes(t *testing.T) {
	h := newHarness(t)

	h.expect(h.do(http.MethodGet, "/health", "", nil), http.StatusOK)

	vocab := h.expect(h.do(http.MethodGet, "/api/vocabularies", "", nil), http.StatusOK)
	if got := len(vocab["languages"].([]interface{})); got != 9 {
		t.Errorf("languages = %d, want 9", got)
	}
	if got := len(vocab["allergens"].([]interface{})); got != 14 {
		t.Errorf("allergens = %d, want 14", got)
	}
	if got := len(vocab["restaurant_types"].([]interface{})); got != 14 {
		t.Errorf("restaurant types = %d, want 14", got)
	}

	sm := h.expect(h.do(http.MethodGet, "/api/state-machine", "", nil), http.StatusOK)
	if got := len(sm["state_machine"].([]interface{})); got == 0 {
		t.Error("state machine has no transitions")
	}
}

func TestAuthAndRoles(t *testing.T) {
	h := newHarness(t)

	if w := h.do(http.MethodGet, "/api/menus", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	owner := h.register("owner@example.com")
	h.expect(h.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Again", "email": "OWNER@example.com", "password": "password123",
	}), http.StatusConflict)

	login := h.expect(h.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "owner@example.com", "password": "password123",
	}), http.StatusOK)
	if login["token"] == "" {
		t.Error("login returned no token")
	}
	h.expect(h.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "owner@example.com", "password": "wrong-password",
	}), http.StatusUnauthorized)

	if w := h.do(http.MethodGet, "/api/admin/users", owner.token, nil); w.Code != http.StatusForbidden {
		t.Errorf("owner on admin route: status = %d, want 403", w.Code)
	}
}

func TestMenuIsScopedToOwner(t *testing.T) {
	h := newHarness(t)
	f := h.seed()
	other := h.register("other@example.com")

	h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID, other.token, nil), http.StatusNotFound)
	h.expect(h.do(http.MethodGet, "/api/items/"+f.itemID, other.token, nil), http.StatusNotFound)
	h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"/sections", other.token, nil), http.StatusNotFound)

	sections := h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"/sections", f.owner.token, nil), http.StatusOK)
	if sections["count"].(float64) != 1 {
		t.Errorf("sections = %v, want 1", sections["count"])
	}
	h.expect(h.do(http.MethodPost, "/api/translation/batch", other.token, map[string]string{
		"text": "Bruschetta", "languageCode": "en", "type": "item_name", "entityId": f.itemID, "menuId": f.menuID,
	}), http.StatusNotFound)

	list := h.expect(h.do(http.MethodGet, "/api/menus", other.token, nil), http.StatusOK)
	if list["count"].(float64) != 0 {
		t.Errorf("other owner sees %v menus, want 0", list["count"])
	}
}

func TestItemTypeSpecificFields(t *testing.T) {
	h := newHarness(t)
	f := h.seed()
	path := "/api/sections/" + f.sectionID + "/items"

	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{
		"item_type": "food", "name": "Tagliere", "wine_type": "red",
	}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{
		"item_type": "wine", "name": "Chianti", "ibu": 30,
	}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{
		"item_type": "dessert", "name": "Tiramisù", "alcohol_content": 2.5,
	}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{
		"item_type": "food", "name": "Caprese", "allergens": []string{"gluten"},
	}), http.StatusBadRequest)

	wine := h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{
		"item_type": "wine", "name": "Chianti", "wine_type": "red",
		"wine_characteristics": []string{"dry"}, "alcohol_content": 13.5, "serving_format": "glass",
	}), http.StatusCreated)["item"].(map[string]interface{})
	if wine["wine_type"] != "red" || wine["currency"] != "EUR" {
		t.Errorf("wine = %v", wine)
	}
}

func TestTranslateBatchAndLocalizedMenu(t *testing.T) {
	h := newHarness(t)
	f := h.seed()

	res := h.expect(h.do(http.MethodPost, "/api/translation/batch", f.owner.token, map[string]string{
		"text": "Bruschetta", "languageCode": "en", "type": "item_name", "entityId": f.itemID, "menuId": f.menuID,
	}), http.StatusOK)
	if res["translatedText"] != "Toasted bread" || res["saved"] != true {
		t.Errorf("response = %v", res)
	}

	menu := h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"?lang=en", f.owner.token, nil), http.StatusOK)["menu"].(map[string]interface{})
	section := menu["sections"].([]interface{})[0].(map[string]interface{})
	item := section["items"].([]interface{})[0].(map[string]interface{})

	name := item["name"].(map[string]interface{})
	if name["value"] != "Toasted bread" || name["language"] != "en" {
		t.Errorf("name = %v", name)
	}
	desc := item["description"].(map[string]interface{})
	if desc["value"] != "Pane tostato con pomodoro" || desc["fallback"] != true {
		t.Errorf("description = %v, want Italian fallback", desc)
	}

	h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"?lang=xx", f.owner.token, nil), http.StatusBadRequest)
}

func TestTranslateBatchRejectsBeforeModelCall(t *testing.T) {
	h := newHarness(t)
	f := h.seed()

	cases := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"blank text", map[string]string{"text": "  ", "languageCode": "en", "type": "item_name", "entityId": f.itemID}, http.StatusBadRequest},
		{"source language", map[string]string{"text": "Ciao", "languageCode": "it", "type": "item_name", "entityId": f.itemID}, http.StatusBadRequest},
		{"missing entity", map[string]string{"text": "Ciao", "languageCode": "en", "type": "item_name"}, http.StatusBadRequest},
		{"unknown type", map[string]string{"text": "Ciao", "languageCode": "en", "type": "dish", "entityId": f.itemID}, http.StatusBadRequest},
		{"menu kind", map[string]string{"text": "Pranzo", "languageCode": "en", "type": "menu_name", "entityId": f.menuID}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h.expect(h.do(http.MethodPost, "/api/translation/batch", f.owner.token, tc.body), tc.status)
		})
	}
	if got := h.model.calls(); got != 0 {
		t.Errorf("model calls = %d, want 0", got)
	}

	h.model.err = errors.New("provider down")
	h.expect(h.do(http.MethodPost, "/api/translation/batch", f.owner.token, map[string]string{
		"text": "Bruschetta", "languageCode": "fr", "type": "item_name", "entityId": f.itemID,
	}), http.StatusBadGateway)
}

func TestTranslateStore(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")

	res := h.expect(h.do(http.MethodPost, "/api/translation/store", owner.token, map[string]string{
		"text": "Buongiorno", "languageCode": "de",
	}), http.StatusOK)
	if res["translatedText"] != "Toasted bread" {
		t.Errorf("translatedText = %v", res["translatedText"])
	}
	h.expect(h.do(http.MethodPost, "/api/translation/store", owner.token, map[string]string{
		"text": "Buongiorno", "languageCode": "it",
	}), http.StatusBadRequest)
}

func TestTranslationPlan(t *testing.T) {
	h := newHarness(t)
	f := h.seed()

	plan := h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"/translation-plan", f.owner.token, nil), http.StatusOK)
	// menu name+description, section name, item name+description, 2 ingredients, 1 allergen
	if plan["totalCount"].(float64) != 8 {
		t.Errorf("totalCount = %v, want 8", plan["totalCount"])
	}
	if plan["selectedCount"].(float64) != 5 || plan["pairCount"].(float64) != 5 {
		t.Errorf("selected = %v pairs = %v, want 5 and 5", plan["selectedCount"], plan["pairCount"])
	}
	langs := plan["languages"].([]interface{})
	if len(langs) != 1 || langs[0] != "en" {
		t.Errorf("languages = %v, want [en]", langs)
	}

	plan = h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"/translation-plan?languages=fr,de", f.owner.token, nil), http.StatusOK)
	if plan["pairCount"].(float64) != 10 {
		t.Errorf("pairCount = %v, want 10", plan["pairCount"])
	}
	h.expect(h.do(http.MethodGet, "/api/menus/"+f.menuID+"/translation-plan?languages=it", f.owner.token, nil), http.StatusBadRequest)
}

func TestTranslationJobs(t *testing.T) {
	h := newHarness(t)
	f := h.seed()
	path := "/api/menus/" + f.menuID + "/translation-jobs"

	done := h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{
		"kinds": []string{"section_name", "item_name"}, "languages": []string{"en", "fr"},
	}), http.StatusOK)
	job := done["job"].(map[string]interface{})
	if job["status"] != "COMPLETED" || job["completed"].(float64) != 4 || job["failed"].(float64) != 0 {
		t.Errorf("job = %v", job)
	}

	// The default selection includes the menu description, which has no storage.
	partial := h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{}), http.StatusOK)
	job = partial["job"].(map[string]interface{})
	if job["status"] != "PARTIAL" || job["summary"] != "4 completed, 1 failed" {
		t.Errorf("job = %v", job)
	}
	failures := partial["failures"].([]interface{})
	if len(failures) != 1 || failures[0].(map[string]interface{})["unitId"] != "menu-desc-"+f.menuID {
		t.Errorf("failures = %v", failures)
	}

	got := h.expect(h.do(http.MethodGet, "/api/translation-jobs/"+job["id"].(string), f.owner.token, nil), http.StatusOK)["job"].(map[string]interface{})
	if n := len(got["history"].([]interface{})); n != 3 {
		t.Errorf("history entries = %d, want 3", n)
	}

	list := h.expect(h.do(http.MethodGet, "/api/translation-jobs", f.owner.token, nil), http.StatusOK)
	if list["count"].(float64) != 2 {
		t.Errorf("jobs = %v, want 2", list["count"])
	}

	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{"unitIds": []string{"item-name-missing"}}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{"kinds": []string{"dish"}}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, path, f.owner.token, map[string]interface{}{"unitIds": []string{}, "languages": []string{"it"}}), http.StatusBadRequest)
}

func TestCancelTranslationJob(t *testing.T) {
	h := newHarness(t)
	f := h.seed()
	other := h.register("other@example.com")

	done := h.expect(h.do(http.MethodPost, "/api/menus/"+f.menuID+"/translation-jobs", f.owner.token, map[string]interface{}{
		"kinds": []string{"item_name"},
	}), http.StatusOK)["job"].(map[string]interface{})
	h.expect(h.do(http.MethodPost, "/api/translation-jobs/"+done["id"].(string)+"/cancel", f.owner.token, nil), http.StatusConflict)

	// a record left pending without a run in this process
	stale := &models.TranslationJob{MenuID: f.menuID, OwnerID: f.owner.id, Status: models.JobPending, Total: 2}
	if err := h.repos.Jobs.Create(context.Background(), stale); err != nil {
		t.Fatal(err)
	}
	cancelPath := "/api/translation-jobs/" + stale.ID + "/cancel"
	h.expect(h.do(http.MethodPost, cancelPath, other.token, nil), http.StatusNotFound)

	job := h.expect(h.do(http.MethodPost, cancelPath, f.owner.token, nil), http.StatusOK)["job"].(map[string]interface{})
	if job["status"] != "CANCELED" {
		t.Errorf("status = %v, want CANCELED", job["status"])
	}
	h.expect(h.do(http.MethodPost, cancelPath, f.owner.token, nil), http.StatusConflict)
}

func (h *harness) upload(path, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "dish.png")
	if err != nil {
		h.t.Fatalf("create form file: %v", err)
	}
	fw.Write(pngBytes)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestItemImageUploadReplacesOldObject(t *testing.T) {
	h := newHarness(t)
	f := h.seed()
	path := "/api/items/" + f.itemID + "/image"

	first := h.expect(h.upload(path, f.owner.token), http.StatusOK)["image_url"].(string)
	prefix := "http://cdn.test/storage/item-images/" + f.owner.id + "/" + f.itemID + "/"
	if !strings.HasPrefix(first, prefix) || !strings.HasSuffix(first, ".png") {
		t.Fatalf("image_url = %q", first)
	}
	firstPath, _ := h.storage.PathFromURL(storage.BucketItemImages, first)
	firstFile := filepath.Join(h.storage.Root(), storage.BucketItemImages, filepath.FromSlash(firstPath))
	if _, err := os.Stat(firstFile); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	second := h.expect(h.upload(path, f.owner.token), http.StatusOK)["image_url"].(string)
	if second == first {
		t.Fatal("second upload reused the object path")
	}
	if _, err := os.Stat(firstFile); !os.IsNotExist(err) {
		t.Errorf("old image still stored: %v", err)
	}
}

func TestGenerateImage(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")

	h.expect(h.do(http.MethodPost, "/api/images/generate", owner.token, map[string]string{
		"prompt": "Pizza margherita", "userId": "someone-else",
	}), http.StatusForbidden)
	h.expect(h.do(http.MethodPost, "/api/images/generate", owner.token, map[string]string{
		"prompt": "Pizza margherita", "userId": owner.id, "style": "cubist",
	}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/api/images/generate", owner.token, map[string]string{
		"prompt": "Pizza margherita", "userId": owner.id, "itemId": "../escape",
	}), http.StatusBadRequest)

	res := h.expect(h.do(http.MethodPost, "/api/images/generate", owner.token, map[string]string{
		"prompt": "Pizza margherita", "userId": owner.id, "style": "rustic",
	}), http.StatusOK)
	if !strings.HasPrefix(res["imageUrl"].(string), "http://cdn.test/storage/item-images/generated/"+owner.id+"/temp/") {
		t.Errorf("imageUrl = %v", res["imageUrl"])
	}
	if res["style"] != "rustic" {
		t.Errorf("style = %v", res["style"])
	}
}

func TestAutoComplete(t *testing.T) {
	h := newHarness(t)
	owner := h.register("owner@example.com")
	h.model.jsonReply = `{"description":"Pane tostato con pomodoro fresco e basilico","about":"Classico della cucina romana",` +
		`"ingredients":["pane","pomodoro"],"allergens":["glutine","gluten"],"calories":2500}`

	res := h.expect(h.do(http.MethodPost, "/api/items/autocomplete", owner.token, map[string]string{
		"itemName": "Bruschetta",
	}), http.StatusOK)
	allergens := res["allergens"].([]interface{})
	if len(allergens) != 1 || allergens[0] != "glutine" {
		t.Errorf("allergens = %v", allergens)
	}
	if res["calories"].(float64) != 2000 {
		t.Errorf("calories = %v, want 2000", res["calories"])
	}

	h.expect(h.do(http.MethodPost, "/api/items/autocomplete", owner.token, map[string]string{"itemName": ""}), http.StatusBadRequest)

	h.model.jsonReply = "not json"
	h.expect(h.do(http.MethodPost, "/api/items/autocomplete", owner.token, map[string]string{"itemName": "Bruschetta"}), http.StatusBadGateway)
}

func TestMenuDeleteCascadesThroughAPI(t *testing.T) {
	h := newHarness(t)
	f := h.seed()

	h.expect(h.do(http.MethodDelete, "/api/menus/"+f.menuID, f.owner.token, nil), http.StatusOK)
	h.expect(h.do(http.MethodGet, "/api/items/"+f.itemID, f.owner.token, nil), http.StatusNotFound)
	h.expect(h.do(http.MethodGet, "/api/sections/"+f.sectionID+"/items", f.owner.token, nil), http.StatusNotFound)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodGet, "/health", "", nil)

	w := h.do(http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `path="/health"`) {
		t.Errorf("metrics missing /health request:\n%s", w.Body.String())
	}
}
