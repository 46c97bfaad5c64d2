package translation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"digital-menu-api/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNothingSelected = errors.New("no units selected")
	ErrNoLanguages     = errors.New("no target languages selected")
)

// Request is one (unit, language) pair sent to an Endpoint.
type Request struct {
	Text         string              `json:"text"`
	LanguageCode models.LanguageCode `json:"languageCode"`
	Kind         Kind                `json:"type"`
	EntityID     string              `json:"entityId"`
	MenuID       string              `json:"menuId"`
}

type Response struct {
	TranslatedText string `json:"translatedText"`
	Saved          bool   `json:"saved"`
}

// Endpoint translates and stores one pair.
type Endpoint interface {
	Translate(ctx context.Context, req Request) (*Response, error)
}

type Progress struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// PairRecorder observes the outcome of each settled pair.
type PairRecorder interface {
	ObservePair(kind string, ok bool)
}

type Failure struct {
	UnitID   string              `json:"unitId"`
	Language models.LanguageCode `json:"languageCode"`
	Error    string              `json:"error"`
}

type Result struct {
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	Canceled  bool      `json:"canceled"`
	Failures  []Failure `json:"failures,omitempty"`
}

func (r Result) Succeeded() int { return r.Completed - r.Failed }

// OK reports whether every pair was issued and none failed.
func (r Result) OK() bool { return r.Failed == 0 && !r.Canceled }

func (r Result) Summary() string {
	return fmt.Sprintf("%d completed, %d failed", r.Succeeded(), r.Failed)
}

type Dispatcher struct {
	endpoint Endpoint
	// MaxInFlight bounds concurrent requests. 1 issues pairs strictly one
	// after the other.
	MaxInFlight int
	OnProgress  func(Progress)
	Recorder    PairRecorder
	log         *zap.Logger
}

func NewDispatcher(endpoint Endpoint, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{endpoint: endpoint, MaxInFlight: 1, log: log}
}

type pair struct {
	unit Unit
	lang models.LanguageCode
}

// Run translates every selected unit into every selected language, units in
// collected order and languages in selection order. A failed pair is counted
// and never retried or allowed to stop the batch. Once ctx is done no new
// pair is issued; requests already in flight finish and are counted.
func (d *Dispatcher) Run(ctx context.Context, menuID string, sel *Selection) (Result, error) {
	units := sel.SelectedUnits()
	if len(units) == 0 {
		return Result{}, ErrNothingSelected
	}
	langs := sel.Languages()
	if len(langs) == 0 {
		return Result{}, ErrNoLanguages
	}

	pairs := make([]pair, 0, len(units)*len(langs))
	for _, u := range units {
		for _, l := range langs {
			pairs = append(pairs, pair{unit: u, lang: l})
		}
	}

	var (
		mu  sync.Mutex
		res = Result{Total: len(pairs)}
	)
	settle := func(p pair, err error) {
		mu.Lock()
		defer mu.Unlock()
		res.Completed++
		if err != nil {
			res.Failed++
			res.Failures = append(res.Failures, Failure{UnitID: p.unit.ID, Language: p.lang, Error: err.Error()})
			d.log.Warn("translation pair failed",
				zap.String("unit_id", p.unit.ID), zap.String("language", string(p.lang)), zap.Error(err))
		}
		if d.Recorder != nil {
			d.Recorder.ObservePair(string(p.unit.Kind), err == nil)
		}
		if d.OnProgress != nil {
			d.OnProgress(Progress{Completed: res.Completed, Failed: res.Failed, Total: res.Total})
		}
	}

	// in-flight calls outlive cancellation of the batch
	callCtx := context.WithoutCancel(ctx)
	call := func(p pair) {
		_, err := d.endpoint.Translate(callCtx, Request{
			Text:         p.unit.Text,
			LanguageCode: p.lang,
			Kind:         p.unit.Kind,
			EntityID:     p.unit.EntityID,
			MenuID:       menuID,
		})
		settle(p, err)
	}

	limit := d.MaxInFlight
	if limit < 1 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	canceled := false
	for _, p := range pairs {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		if limit == 1 {
			call(p)
			continue
		}
		g.Go(func() error {
			call(p)
			return nil
		})
	}
	_ = g.Wait()

	res.Canceled = canceled
	d.log.Info("translation batch finished",
		zap.String("menu_id", menuID),
		zap.Int("total", res.Total),
		zap.Int("completed", res.Completed),
		zap.Int("failed", res.Failed),
		zap.Bool("canceled", res.Canceled))
	return res, nil
}
