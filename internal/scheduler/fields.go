package scheduler

import (
	"context"
	"regexp"
	"strings"

	"github.com/oukeidos/maintrans/internal/language"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/prompt"
	"github.com/oukeidos/maintrans/internal/record"
)

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// isAlphanumeric reports whether v is a bare code such as "3A" or "shunt";
// those are kept verbatim in every language.
func isAlphanumeric(v string) bool {
	return alphanumeric.MatchString(strings.TrimSpace(v))
}

// recordOutcome carries the translated fields of one record back to the
// driving goroutine.
type recordOutcome struct {
	id     int
	fields map[string]string

	calls         int
	cached        int
	failures      int
	parseFailures int
	fallbacks     int
}

func (o *recordOutcome) set(field, value string) {
	o.fields[field] = value
}

// complete issues one gateway call. ok is false when the call failed or the
// service reported failure; the caller falls back to the source text.
func (s *Scheduler) complete(ctx context.Context, o *recordOutcome, p string, attrs ...any) (string, bool) {
	if err := ctx.Err(); err != nil {
		o.failures++
		logger.Error("Skipping completion, batch deadline reached", append(attrs, "error", err)...)
		return "", false
	}
	o.calls++
	comp, err := s.gw.Complete(ctx, p)
	if comp.Cached {
		o.cached++
	}
	if err != nil {
		o.failures++
		logger.Error("Completion failed, keeping source text", append(attrs, "error", err)...)
		return "", false
	}
	if !comp.Success {
		o.failures++
		logger.Error("Completion reported failure, keeping source text", attrs...)
		return "", false
	}
	return comp.Text, true
}

func (s *Scheduler) translateRecord(ctx context.Context, rec *record.Record) recordOutcome {
	o := recordOutcome{id: rec.ID, fields: make(map[string]string, len(s.opts.Fields))}
	lang := rec.Language()

	paired := s.pairsPrimary(lang) && s.hasField(record.FieldObservation) && s.hasField(record.FieldSolution)
	if paired {
		s.translatePair(ctx, &o, rec, lang)
	}
	for _, field := range s.opts.Fields {
		if paired && (field == record.FieldObservation || field == record.FieldSolution) {
			continue
		}
		o.set(field, s.translateField(ctx, &o, rec.ID, lang, field, rec.Source(field)))
	}
	return o
}

// pairsPrimary reports whether observation and solution go out in one
// templated prompt for a record in lang.
func (s *Scheduler) pairsPrimary(lang language.Code) bool {
	if lang.IsEnglish() {
		return s.opts.EnglishRewrite
	}
	return s.opts.Mode == prompt.ModeTechnical
}

func (s *Scheduler) hasField(field string) bool {
	for _, f := range s.opts.Fields {
		if f == field {
			return true
		}
	}
	return false
}

func (s *Scheduler) translateField(ctx context.Context, o *recordOutcome, id int, lang language.Code, field, src string) string {
	switch {
	case record.IsBlank(src):
		return ""
	case lang.IsEnglish(), isAlphanumeric(src):
		return src
	}

	text, ok := s.complete(ctx, o, prompt.Basic(lang, src), "id", id, "field", field, "language", string(lang))
	if !ok {
		o.fallbacks++
		return src
	}
	return cleanCompletion(text)
}

func (s *Scheduler) translatePair(ctx context.Context, o *recordOutcome, rec *record.Record, lang language.Code) {
	obs := rec.Source(record.FieldObservation)
	sol := rec.Source(record.FieldSolution)

	if (record.IsBlank(obs) || isAlphanumeric(obs)) && (record.IsBlank(sol) || isAlphanumeric(sol)) {
		o.set(record.FieldObservation, obs)
		o.set(record.FieldSolution, sol)
		return
	}

	var p string
	if lang.IsEnglish() {
		p = prompt.EnglishRewrite(obs, sol)
	} else {
		p = prompt.Technical(lang, obs, sol)
	}
	text, ok := s.complete(ctx, o, p, "id", rec.ID, "field", "observation+solution", "language", string(lang))
	if !ok {
		o.fallbacks += 2
		o.set(record.FieldObservation, obs)
		o.set(record.FieldSolution, sol)
		return
	}

	tObs, tSol, err := prompt.ParseTranslatedText(text)
	if err != nil {
		// Both fields stay blank; the merger backfills them from source.
		o.parseFailures++
		o.set(record.FieldObservation, "")
		o.set(record.FieldSolution, "")
		return
	}
	if isAlphanumeric(obs) {
		tObs = obs
	}
	if isAlphanumeric(sol) {
		tSol = sol
	}
	o.set(record.FieldObservation, tObs)
	o.set(record.FieldSolution, tSol)
}

// cleanCompletion trims whitespace and the quotes the basic prompt wraps
// around its input.
func cleanCompletion(text string) string {
	t := strings.TrimSpace(text)
	if len(t) >= 2 && t[0] == '\'' && t[len(t)-1] == '\'' {
		t = strings.TrimSpace(t[1 : len(t)-1])
	}
	return t
}
