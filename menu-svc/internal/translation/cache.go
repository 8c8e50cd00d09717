// Package translation resolves menu items into a target language, reusing
// stored translations whose source hash still matches the item.
package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"smartmenu/logger"
	"smartmenu/menu-svc/internal/domain"
	"smartmenu/telem"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	LanguageOriginal = "original"
	LanguageEnglish  = "en"
	SourceAuto       = "auto"

	DefaultPersistTimeout = 10 * time.Second
	DefaultResolveTimeout = 45 * time.Second
)

var ErrMisaligned = errors.New("translation service returned a misaligned batch")

type Translator interface {
	TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error)
}

type Store interface {
	GetByLanguage(ctx context.Context, restaurantID, languageCode string) (map[string]domain.TranslationRecord, error)
	UpsertMany(ctx context.Context, restaurantID, languageCode string, records []domain.TranslationRecord) error
}

type Resolution struct {
	Language   string                  `json:"language"`
	Items      []domain.TranslatedItem `json:"items"`
	Cached     int                     `json:"cached"`
	Translated int                     `json:"translated"`
	Degraded   bool                    `json:"degraded"`
}

type Cache struct {
	store          Store
	translator     Translator
	log            *logger.Logger
	PersistTimeout time.Duration
	ResolveTimeout time.Duration
	Now            func() time.Time

	group   singleflight.Group
	pending sync.WaitGroup
}

func NewCache(store Store, translator Translator, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Discard()
	}
	return &Cache{
		store:          store,
		translator:     translator,
		log:            log,
		PersistTimeout: DefaultPersistTimeout,
		ResolveTimeout: DefaultResolveTimeout,
		Now:            time.Now,
	}
}

// Wait blocks until every background write started by Resolve is done.
func (c *Cache) Wait() {
	c.pending.Wait()
}

// Resolve returns items in lang, in input order. It never fails: any
// item that cannot be translated keeps its source text and the result is
// flagged Degraded.
func (c *Cache) Resolve(ctx context.Context, restaurantID string, items []domain.MenuItem, lang string) Resolution {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "", LanguageOriginal:
		telem.TranslationItems.WithLabelValues("static").Add(float64(len(items)))
		out := make([]domain.TranslatedItem, len(items))
		for i, item := range items {
			out[i] = untranslated(item)
		}
		return Resolution{Language: LanguageOriginal, Items: out}
	case LanguageEnglish:
		telem.TranslationItems.WithLabelValues("static").Add(float64(len(items)))
		out := make([]domain.TranslatedItem, len(items))
		for i, item := range items {
			out[i] = english(item)
		}
		return Resolution{Language: LanguageEnglish, Items: out}
	}

	hashes := make([]string, len(items))
	key := strings.Builder{}
	key.WriteString(restaurantID + "|" + lang)
	for i, item := range items {
		hashes[i] = SourceHash(item)
		key.WriteString("|" + item.ID + ":" + hashes[i])
	}

	ch := c.group.DoChan(key.String(), func() (interface{}, error) {
		// The shared call outlives any single caller; it is bounded by
		// ResolveTimeout only.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.ResolveTimeout)
		defer cancel()
		return c.resolve(flightCtx, restaurantID, items, hashes, lang), nil
	})

	select {
	case <-ctx.Done():
		c.log.Debug("translation_resolve", logger.RequestID(ctx), "caller left before translation finished",
			slog.String("language", lang))
		out := make([]domain.TranslatedItem, len(items))
		for i, item := range items {
			out[i] = untranslated(item)
		}
		return Resolution{Language: lang, Items: out, Degraded: true}
	case r := <-ch:
		return r.Val.(Resolution)
	}
}

func (c *Cache) resolve(ctx context.Context, restaurantID string, items []domain.MenuItem, hashes []string, lang string) Resolution {
	ctx, span := telem.Tracer("translation").Start(ctx, "translation.Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("translation.language", lang),
		attribute.Int("translation.items", len(items)),
	)
	requestID := logger.RequestID(ctx)

	stored, err := c.store.GetByLanguage(ctx, restaurantID, lang)
	if err != nil {
		c.log.Warn("translation_lookup", requestID, "translation store unavailable, translating everything",
			slog.String("restaurant_id", restaurantID), slog.String("error", err.Error()))
		stored = nil
	}

	res := Resolution{Language: lang, Items: make([]domain.TranslatedItem, len(items))}
	var missing []int
	for i, item := range items {
		if rec, ok := stored[item.ID]; ok && rec.SourceHash == hashes[i] {
			res.Items[i] = apply(item, rec)
			res.Cached++
			continue
		}
		missing = append(missing, i)
	}
	telem.TranslationItems.WithLabelValues("hit").Add(float64(res.Cached))
	telem.TranslationItems.WithLabelValues("miss").Add(float64(len(missing)))
	span.SetAttributes(attribute.Int("translation.misses", len(missing)))
	if len(missing) == 0 {
		return res
	}

	texts := flatten(items, missing)
	start := time.Now()
	translated, err := c.translator.TranslateBatch(ctx, texts, SourceAuto, lang)
	telem.ExternalCallDuration.WithLabelValues("translation").Observe(time.Since(start).Seconds())
	if err == nil && len(translated) != len(texts) {
		err = fmt.Errorf("%w: sent %d texts, got %d", ErrMisaligned, len(texts), len(translated))
	}
	if err != nil {
		telem.TranslationBatches.WithLabelValues("error").Inc()
		span.RecordError(err)
		c.log.Warn("translation_batch", requestID, "translation failed, serving source text",
			slog.String("language", lang), slog.Int("texts", len(texts)), slog.String("error", err.Error()))
		for _, i := range missing {
			res.Items[i] = untranslated(items[i])
		}
		res.Degraded = true
		return res
	}
	telem.TranslationBatches.WithLabelValues("ok").Inc()

	now := c.Now()
	records := make([]domain.TranslationRecord, 0, len(missing))
	pos := 0
	for _, i := range missing {
		item := items[i]
		rec := domain.TranslationRecord{
			MenuItemID:   item.ID,
			LanguageCode: lang,
			SourceHash:   hashes[i],
			UpdatedAt:    now,
		}
		rec.Name, rec.Description, rec.Category = translated[pos], translated[pos+1], translated[pos+2]
		pos += 3
		rec.Variants = make([]string, len(item.Variants))
		for j := range item.Variants {
			rec.Variants[j] = translated[pos]
			pos++
		}
		rec.AddOns = make([]string, len(item.AddOns))
		for j := range item.AddOns {
			rec.AddOns[j] = translated[pos]
			pos++
		}

		rec = sanitize(item, rec)
		records = append(records, rec)
		res.Items[i] = apply(item, rec)
	}
	res.Translated = len(records)

	c.persist(restaurantID, lang, records, requestID)
	return res
}

// persist writes the fresh records in the background. The request may
// already be answered, so it runs on its own deadline.
func (c *Cache) persist(restaurantID, lang string, records []domain.TranslationRecord, requestID string) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.PersistTimeout)
		defer cancel()
		if err := c.store.UpsertMany(ctx, restaurantID, lang, records); err != nil {
			c.log.Error("translation_persist", requestID, "failed to save translations", err,
				slog.String("restaurant_id", restaurantID), slog.Int("records", len(records)))
			return
		}
		c.log.Debug("translation_persist", requestID, "saved translations",
			slog.String("language", lang), slog.Int("records", len(records)))
	}()
}

// flatten lists the strings of the given items in the order the batch
// result is read back: name, description, category, variants, add-ons.
func flatten(items []domain.MenuItem, idx []int) []string {
	var texts []string
	for _, i := range idx {
		item := items[i]
		texts = append(texts, item.Name, item.Description, item.Category)
		for _, v := range item.Variants {
			texts = append(texts, v.Name)
		}
		for _, a := range item.AddOns {
			texts = append(texts, a.Name)
		}
	}
	return texts
}

func sanitize(item domain.MenuItem, rec domain.TranslationRecord) domain.TranslationRecord {
	rec.Name = guard(rec.Name, item.Name, MaxNameLength)
	rec.Description = guard(rec.Description, item.Description, 0)
	rec.Category = guard(rec.Category, item.Category, MaxCategoryLength)
	rec.Variants = guardOptions(rec.Variants, item.Variants)
	rec.AddOns = guardOptions(rec.AddOns, item.AddOns)
	return rec
}

func guardOptions(translated []string, opts []domain.Option) []string {
	out := make([]string, len(opts))
	for j, opt := range opts {
		if j < len(translated) {
			out[j] = guard(translated[j], opt.Name, MaxOptionLength)
		} else {
			out[j] = opt.Name
		}
	}
	return out
}

// apply overlays a record on item. Stored records are guarded again since
// older rows were written without the length checks.
func apply(item domain.MenuItem, rec domain.TranslationRecord) domain.TranslatedItem {
	rec = sanitize(item, rec)
	out := untranslated(item)
	out.Name = rec.Name
	out.Description = rec.Description
	out.Category = rec.Category
	for j := range out.Variants {
		out.Variants[j].Name = rec.Variants[j]
	}
	for j := range out.AddOns {
		out.AddOns[j].Name = rec.AddOns[j]
	}
	return out
}

func english(item domain.MenuItem) domain.TranslatedItem {
	out := untranslated(item)
	out.Name = firstNonEmpty(item.NameEn, item.Name)
	out.Description = firstNonEmpty(item.DescriptionEn, item.Description)
	out.Category = firstNonEmpty(item.CategoryEn, item.Category)
	for j := range out.Variants {
		out.Variants[j].Name = firstNonEmpty(out.Variants[j].NameEn, out.Variants[j].OriginalName)
	}
	for j := range out.AddOns {
		out.AddOns[j].Name = firstNonEmpty(out.AddOns[j].NameEn, out.AddOns[j].OriginalName)
	}
	return out
}

// untranslated copies item, keeping the option slices independent of the
// caller's and recording the original labels.
func untranslated(item domain.MenuItem) domain.TranslatedItem {
	out := domain.TranslatedItem{
		MenuItem:            item,
		OriginalName:        item.Name,
		OriginalDescription: item.Description,
	}
	out.Variants = copyOptions(item.Variants)
	out.AddOns = copyOptions(item.AddOns)
	return out
}

func copyOptions(opts []domain.Option) []domain.Option {
	if opts == nil {
		return nil
	}
	out := make([]domain.Option, len(opts))
	for j, opt := range opts {
		opt.OriginalName = opt.Name
		out[j] = opt
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
